package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/quickqr/internal/client/client"
	"github.com/dmitrijs2005/quickqr/internal/client/preview"
	"github.com/dmitrijs2005/quickqr/internal/client/render"
	"github.com/dmitrijs2005/quickqr/internal/qr"
)

func lines(cmds ...string) string { return strings.Join(cmds, "\n") + "\n" }

func TestRunREPL_EditAndPayload(t *testing.T) {
	env := newTestApp(t, lines("type wifi", "set ssid Home Net", "set password=secret", "payload", "exit"))

	runREPL(context.Background(), env.app)

	out := env.out.String()
	assert.Contains(t, out, "Type wifi, fields: ssid, password, encryption")
	assert.Contains(t, out, "WIFI:T:WPA;S:Home Net;P:secret;;")
	assert.Contains(t, out, "Bye!")
}

func TestRunREPL_SetKeepsSpaces(t *testing.T) {
	env := newTestApp(t, lines("type text", "set text  Hello   big  world ", "payload",
		"type wifi", "set ssid=My   Net", "set password a  b", "payload", "exit"))

	runREPL(context.Background(), env.app)

	out := env.out.String()
	assert.Contains(t, out, "Hello   big  world \n")
	assert.Contains(t, out, "S:My   Net;P:a  b;")
}

func TestFieldAndRest(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"set\n", nil},
		{"set url\n", []string{"url"}},
		{"set url   \r\n", []string{"url"}},
		{"  set\ttext\t a  b \n", []string{"text", "a  b "}},
		{"set ssid=Home  Net\n", []string{"ssid=Home  Net"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fieldAndRest(tt.line), tt.line)
	}
}

func TestRunREPL_EOFEnds(t *testing.T) {
	env := newTestApp(t, "set url https://x.io\npayload")

	runREPL(context.Background(), env.app)

	assert.Contains(t, env.out.String(), "https://x.io\n")
}

func TestRunREPL_UnknownAndUsage(t *testing.T) {
	env := newTestApp(t, lines("frobnicate", "type", "mode sideways", "name"))

	runREPL(context.Background(), env.app)

	out := env.out.String()
	assert.Contains(t, out, "Unknown command: frobnicate")
	assert.Contains(t, out, "Usage: type <type>")
	assert.Contains(t, out, "Usage: mode static|dynamic")
	assert.Contains(t, out, "Usage: name <text>")
}

func TestRunREPL_AuthGating(t *testing.T) {
	env := newTestApp(t, lines("save", "list", "help"))

	runREPL(context.Background(), env.app)

	out := env.out.String()
	assert.Equal(t, 2, strings.Count(out, "Please log in first."))
	assert.Empty(t, env.codes.Saved)
	assert.NotContains(t, out, "save the code to your account")
}

func TestRunREPL_LoginSaveDynamic(t *testing.T) {
	env := newTestApp(t, lines("login", "a@b.c", "pw", "name Menu", "mode dynamic", "save", "payload", "mode static"))
	env.codes.SaveRet = qr.SavedCode{ID: "c1", Name: "Menu", Mode: qr.ModeDynamic}

	runREPL(context.Background(), env.app)

	out := env.out.String()
	assert.Equal(t, "a@b.c", env.auth.LastEmail)
	assert.Equal(t, "pw", env.auth.LastPass)
	assert.Contains(t, out, "Logged in as a@b.c")
	assert.Equal(t, ModeOnline, env.app.Mode())

	require.Len(t, env.codes.Saved, 1)
	assert.Equal(t, "Menu", env.codes.Saved[0].Name)
	assert.Equal(t, qr.ModeDynamic, env.codes.Saved[0].Mode)
	assert.Contains(t, out, `Saved "Menu" as c1`)
	assert.Contains(t, out, "Redirect URL: http://127.0.0.1:8080/code/c1")
	assert.Contains(t, out, "http://127.0.0.1:8080/code/c1\n")
	assert.Contains(t, out, "mode is fixed once the code is saved")
}

func TestRunREPL_LoginRejected(t *testing.T) {
	env := newTestApp(t, lines("login", "a@b.c", "bad"))
	env.auth.LoginErr = client.ErrUnauthorized

	runREPL(context.Background(), env.app)

	assert.Contains(t, env.out.String(), "Invalid email or password.")
	assert.Zero(t, env.auth.LoggedOut)
}

func TestRunREPL_UnauthorizedClearsSession(t *testing.T) {
	env := newTestApp(t, lines("list", "list"))
	env.login()
	env.codes.ListErr = client.ErrUnauthorized

	runREPL(context.Background(), env.app)

	out := env.out.String()
	assert.Equal(t, 1, env.auth.LoggedOut)
	assert.Contains(t, out, "Your session has expired")
	assert.Contains(t, out, "Please log in first.")
}

func TestRunREPL_UnavailableGoesOffline(t *testing.T) {
	env := newTestApp(t, lines("list"))
	env.login()
	env.app.setMode(ModeOnline)
	env.codes.ListErr = client.ErrUnavailable

	runREPL(context.Background(), env.app)

	assert.Equal(t, ModeOffline, env.app.Mode())
	assert.Contains(t, env.out.String(), "Cannot reach the server")
}

func TestRunREPL_ListOwnAndAll(t *testing.T) {
	env := newTestApp(t, lines("list", "list all"))
	env.login()
	env.codes.ListRet = []qr.SavedCode{
		{ID: "c1", Name: "Menu", Content: qr.NewContent(qr.TypeURL), Mode: qr.ModeDynamic, ScanCount: 7, UpdatedAt: time.Now()},
	}

	runREPL(context.Background(), env.app)

	out := env.out.String()
	assert.Equal(t, "u1", env.codes.ListOwner)
	assert.True(t, env.codes.AdminListCalled)
	assert.Contains(t, out, "SCANS")
	assert.Regexp(t, `c1\s+Menu\s+url\s+dynamic\s+7`, out)
}

func TestRunREPL_OpenAndDelete(t *testing.T) {
	env := newTestApp(t, lines("open c9", "show", "delete c9", "show"))
	env.login()
	c := qr.NewContent(qr.TypePhone)
	require.NoError(t, c.SetField("number", "+100"))
	env.codes.GetRet = qr.SavedCode{ID: "c9", Name: "Call", Content: c, Style: qr.DefaultStyle(), Mode: qr.ModeStatic}

	runREPL(context.Background(), env.app)

	out := env.out.String()
	assert.Contains(t, out, `Editing "Call" (phone, static)`)
	assert.Contains(t, out, "+100")
	assert.Equal(t, []string{"c9"}, env.codes.Deleted)
	assert.Contains(t, out, "(unsaved)")
	assert.Equal(t, qr.TypeURL, env.app.editor.Snapshot().Content.Type)
}

func TestRunREPL_Drafts(t *testing.T) {
	env := newTestApp(t, lines(
		"type text", "set text hello", "draft save wip",
		"new", "draft load wip", "payload",
		"draft list", "draft delete wip", "draft load wip",
	))

	runREPL(context.Background(), env.app)

	out := env.out.String()
	assert.Contains(t, out, `Draft "wip" saved.`)
	assert.Contains(t, out, `Draft "wip" loaded.`)
	assert.Contains(t, out, "hello\n")
	assert.Contains(t, out, `Draft "wip" deleted.`)
	assert.Contains(t, out, "not found")
	assert.Empty(t, env.drafts.m)
}

func TestRunREPL_StyleAndPreset(t *testing.T) {
	env := newTestApp(t, lines("style dots.type dots", "style size=512 background.color=#000", "preset nope"))

	runREPL(context.Background(), env.app)

	st := env.app.editor.Snapshot().Style
	assert.Equal(t, qr.DotType("dots"), st.Dots.Type)
	assert.Equal(t, 512, st.Size)
	assert.Equal(t, "#000", st.Background.Color)
	assert.Contains(t, env.out.String(), "nope")
}

func TestLogo(t *testing.T) {
	env := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, env.app.logo(ctx, []string{"https://example.com/l.png"}))
	assert.Equal(t, "https://example.com/l.png", env.app.editor.Snapshot().Style.Image.URL)

	require.NoError(t, env.app.logo(ctx, []string{"clear"}))
	assert.Empty(t, env.app.editor.Snapshot().Style.Image.URL)

	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nrest"), 0o600))

	require.NoError(t, env.app.logo(ctx, []string{path}))
	assert.Nil(t, env.codes.Uploaded)
	assert.Contains(t, env.out.String(), "Please log in first to upload a logo.")

	env.login()
	require.NoError(t, env.app.logo(ctx, []string{path}))
	assert.NotEmpty(t, env.codes.Uploaded)
	assert.Equal(t, "https://cdn.example.com/logos/1.png", env.app.editor.Snapshot().Style.Image.URL)
}

func TestDownload(t *testing.T) {
	env := newTestApp(t, "")
	ctx := context.Background()
	env.app.editor.SetName("My Menu")

	require.Eventually(t, func() bool {
		st, err := env.app.preview.State(surfaceExport)
		return err == nil && st == preview.Mounted
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, env.app.download(ctx, []string{"svg"}))
	data, err := os.ReadFile(filepath.Join(env.app.config.DownloadDir, "My-Menu.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	require.NoError(t, env.app.download(ctx, []string{"png", "poster"}))
	data, err = os.ReadFile(filepath.Join(env.app.config.DownloadDir, "poster.png"))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))

	assert.ErrorIs(t, env.app.download(ctx, []string{"bmp"}), render.ErrUnknownFormat)
}

func TestPreviewCommand_NoSurfaces(t *testing.T) {
	env := newTestApp(t, "")

	require.NoError(t, env.app.previewCmd(context.Background(), nil))
	assert.Contains(t, env.out.String(), "No live previews configured")
	assert.ErrorIs(t, env.app.previewCmd(context.Background(), []string{"maybe"}), errUsage)
}

func TestStartOnlineStatusWatcher(t *testing.T) {
	env := newTestApp(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go env.app.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)

	require.Eventually(t, func() bool { return env.app.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)
}

func TestRestoreSession(t *testing.T) {
	env := newTestApp(t, "")
	env.login()
	env.app.restoreSession(context.Background())
	assert.Equal(t, ModeOnline, env.app.Mode())
	assert.Contains(t, env.out.String(), "Logged in as a@b.c")

	env = newTestApp(t, "")
	env.app.restoreSession(context.Background())
	assert.Contains(t, env.out.String(), "Not logged in.")
}
