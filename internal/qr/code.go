package qr

import (
	"strings"
	"time"
)

// Mode decides what a printed symbol carries.
type Mode string

const (
	// ModeStatic bakes the encoded content into the symbol.
	ModeStatic Mode = "static"
	// ModeDynamic embeds a redirect URL; the content lives on the server and
	// can change after printing. Scans are counted.
	ModeDynamic Mode = "dynamic"
)

// ParseMode maps empty input to ModeStatic.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeStatic:
		return ModeStatic, true
	case ModeDynamic:
		return ModeDynamic, true
	}
	return "", false
}

// SavedCode is a QR code as stored by the backend.
type SavedCode struct {
	ID      string
	OwnerID string
	Name    string
	Content Content
	Style   Style
	// Styled is false when the code was saved without a style record.
	Styled    bool
	Mode      Mode
	ScanCount int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Type is the content type tag.
func (c SavedCode) Type() ContentType { return c.Content.Type }

// RedirectURL is the address a dynamic symbol points at.
func RedirectURL(origin, id string) string {
	return strings.TrimRight(origin, "/") + "/code/" + id
}

// SymbolPayload returns what the rendered symbol must encode for code: the
// redirect URL for saved dynamic codes, the encoded content otherwise.
func SymbolPayload(code SavedCode, origin string) string {
	if code.Mode == ModeDynamic && code.ID != "" {
		return RedirectURL(origin, code.ID)
	}
	return Encode(code.Content)
}

// RenderOptions is the full input of one render: payload plus style.
type RenderOptions struct {
	Data  string
	Style Style
}

// Compose builds render options. It is the only place payload and style meet.
func Compose(payload string, style Style) RenderOptions {
	return RenderOptions{Data: payload, Style: style}
}
