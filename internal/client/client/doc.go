// Package client is the QuickQR persistence bridge.
//
// # Overview
//
// The package provides:
//  1. The Client interface: authentication, saved code CRUD, scan history,
//     logo upload presigning and an online probe.
//  2. HTTPClient, a JSON-over-HTTP implementation that sends a bearer token
//     and probes the backend's gRPC health service.
//  3. CheckSession, the only call that retries, with exponential backoff.
//  4. InitDatabase and RunMigrations, which open the local SQLite database
//     and apply the embedded goose migrations.
//
// # Error Handling
//
// Failures are reported as sentinel errors that callers match with
// errors.Is: ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict,
// ErrServer, ErrUnavailable and ErrDecode. UserMessage renders any of them
// for display.
package client
