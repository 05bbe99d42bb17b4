package qr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSymbolPayload_StaticURL(t *testing.T) {
	c := NewContent(TypeURL)
	require.NoError(t, c.SetField("url", "https://example.com"))

	code := SavedCode{ID: "abc123", Content: c, Style: DefaultStyle(), Mode: ModeStatic}
	require.Equal(t, "https://example.com", SymbolPayload(code, "https://quickqr.example.com"))
}

func TestSymbolPayload_DynamicUsesRedirect(t *testing.T) {
	for _, ct := range ContentTypes {
		code := SavedCode{ID: "abc123", Content: NewContent(ct), Mode: ModeDynamic}
		require.Equal(t, "https://quickqr.example.com/code/abc123",
			SymbolPayload(code, "https://quickqr.example.com"), string(ct))
	}
}

func TestSymbolPayload_UnsavedDynamicFallsBackToContent(t *testing.T) {
	c := NewContent(TypeText)
	require.NoError(t, c.SetField("text", "draft"))
	require.Equal(t, "draft", SymbolPayload(SavedCode{Content: c, Mode: ModeDynamic}, "https://q"))
}

func TestRedirectURL_TrimsSlash(t *testing.T) {
	require.Equal(t, "https://q.io/code/x1", RedirectURL("https://q.io/", "x1"))
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("")
	require.True(t, ok)
	require.Equal(t, ModeStatic, m)

	m, ok = ParseMode("Dynamic")
	require.True(t, ok)
	require.Equal(t, ModeDynamic, m)

	_, ok = ParseMode("hybrid")
	require.False(t, ok)
}

func TestCompose(t *testing.T) {
	s := DefaultStyle()
	require.Equal(t, RenderOptions{Data: "x", Style: s}, Compose("x", s))
}
