// Package editor holds the QR code being worked on. Every mutation
// recomputes the full render options and hands them to the previewer.
package editor

import (
	"errors"
	"sync"

	"github.com/dmitrijs2005/quickqr/internal/qr"
)

var ErrModeFixed = errors.New("mode is fixed once the code is saved")

// Previewer receives the complete options after each change.
type Previewer interface {
	Update(opts qr.RenderOptions)
}

// Snapshot is a copy of the editor state, used for saving and drafts.
type Snapshot struct {
	ID      string
	Name    string
	Mode    qr.Mode
	Content qr.Content
	Style   qr.Style
}

type Editor struct {
	mu      sync.Mutex
	origin  string
	preview Previewer

	id      string
	name    string
	mode    qr.Mode
	content qr.Content
	style   qr.Style
}

// New starts an editor on a blank static URL code. origin is the public
// address used for dynamic redirect URLs; preview may be nil.
func New(origin string, preview Previewer) *Editor {
	e := &Editor{origin: origin, preview: preview}
	e.Reset()
	return e
}

// Reset discards the current code and starts a new one.
func (e *Editor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.id, e.name, e.mode = "", "", qr.ModeStatic
	e.content = qr.NewContent(qr.TypeURL)
	e.style = qr.DefaultStyle()
	e.pushLocked()
}

// Load replaces the working state with a saved code.
func (e *Editor) Load(code qr.SavedCode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.id, e.name, e.mode = code.ID, code.Name, code.Mode
	e.content = code.Content
	e.style = code.Style
	if !code.Styled {
		e.style = qr.DefaultStyle()
	}
	e.pushLocked()
}

// Restore brings back a snapshot, e.g. a local draft.
func (e *Editor) Restore(s Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.id, e.name, e.mode = s.ID, s.Name, s.Mode
	e.content, e.style = s.Content, s.Style
	e.pushLocked()
}

// MarkSaved records the identity the backend assigned. For dynamic codes
// the preview switches to the redirect URL.
func (e *Editor) MarkSaved(id string, mode qr.Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.id, e.mode = id, mode
	e.pushLocked()
}

func (e *Editor) SetType(t qr.ContentType) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.content.SetType(t); err != nil {
		return err
	}
	e.pushLocked()
	return nil
}

func (e *Editor) SetField(name, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.content.SetField(name, value); err != nil {
		return err
	}
	e.pushLocked()
	return nil
}

func (e *Editor) SetName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.name = name
}

// SetMode picks static or dynamic for a code that was not saved yet.
func (e *Editor) SetMode(m qr.Mode) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.id != "" && m != e.mode {
		return ErrModeFixed
	}
	e.mode = m
	e.pushLocked()
	return nil
}

// EditStyle applies fn to the style and re-renders.
func (e *Editor) EditStyle(fn func(s *qr.Style)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.style)
	e.pushLocked()
}

// SetStyle applies a string-keyed style edit, see qr.Style.Set.
func (e *Editor) SetStyle(key, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.style.Set(key, value); err != nil {
		return err
	}
	e.pushLocked()
	return nil
}

// ApplyStyle replaces the whole style, e.g. from a preset.
func (e *Editor) ApplyStyle(s qr.Style) {
	e.EditStyle(func(cur *qr.Style) { *cur = s })
}

func (e *Editor) SetOrigin(origin string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.origin = origin
	e.pushLocked()
}

// Payload is what the symbol encodes right now.
func (e *Editor) Payload() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.payloadLocked()
}

func (e *Editor) Options() qr.RenderOptions {
	e.mu.Lock()
	defer e.mu.Unlock()
	return qr.Compose(e.payloadLocked(), e.style)
}

func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{ID: e.id, Name: e.name, Mode: e.mode, Content: e.content, Style: e.style}
}

func (e *Editor) payloadLocked() string {
	return qr.SymbolPayload(qr.SavedCode{ID: e.id, Content: e.content, Mode: e.mode}, e.origin)
}

// pushLocked runs under e.mu so previews see changes in order.
func (e *Editor) pushLocked() {
	if e.preview == nil {
		return
	}
	e.preview.Update(qr.Compose(e.payloadLocked(), e.style))
}
