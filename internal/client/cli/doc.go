// Package cli is the QuickQR command line client.
//
// The root command starts an interactive shell that edits one QR code at a
// time: content and style changes are pushed to the live previews (a browser
// page over WebSocket and/or a PNG file) and the current code can be
// exported, saved to the backend or kept as a local draft. The shell tracks
// connectivity with a background watcher and degrades to offline mode when
// the backend is unreachable.
//
// The encode and render subcommands work without a backend and are meant
// for scripting.
package cli
