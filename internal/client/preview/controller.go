// Package preview keeps rendering surfaces in sync with the editor.
//
// Each named surface owns at most one render.Handle and moves through
//
//	Uninitialized -> Mounted -> Destroyed -> Mounted ...
//
// Showing a surface arms a short settle timer; the handle is constructed
// only when the timer fires and the surface reports itself attached, so a
// handle never exists before its surface does. Every Update pushes the
// complete render options to every mounted handle. Render failures and
// panics are logged and leave the preview blank or stale.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/quickqr/internal/client/render"
	"github.com/dmitrijs2005/quickqr/internal/filex"
	"github.com/dmitrijs2005/quickqr/internal/logging"
	"github.com/dmitrijs2005/quickqr/internal/qr"
)

// State of one surface.
type State int

const (
	Uninitialized State = iota
	Mounted
	Destroyed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Mounted:
		return "mounted"
	case Destroyed:
		return "destroyed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

const (
	DefaultSettleDelay   = 100 * time.Millisecond
	DefaultMountAttempts = 5
)

var ErrUnknownSurface = errors.New("unknown surface")

type slot struct {
	name    string
	surface render.Surface
	state   State
	handle  render.Handle
	timer   *time.Timer
	// gen invalidates timers armed before the last Hide.
	gen      int
	attempts int
	// waiting is set when the settle delay passed before any options
	// existed; the first Update arms the mount again.
	waiting bool
	visible bool
}

// Controller drives any number of independent surfaces from one set of
// render options. It is safe for concurrent use.
type Controller struct {
	renderer render.Renderer
	logger   logging.Logger
	settle   time.Duration
	attempts int

	mu      sync.Mutex
	opts    qr.RenderOptions
	hasOpts bool
	slots   map[string]*slot
	closed  bool
}

type Option func(*Controller)

// WithSettleDelay sets the pause between Show and construction.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Controller) { c.settle = d }
}

// WithMountAttempts bounds how many settle periods a mount waits for a
// detached surface before giving up.
func WithMountAttempts(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.attempts = n
		}
	}
}

func NewController(r render.Renderer, logger logging.Logger, opts ...Option) *Controller {
	c := &Controller{
		renderer: r,
		logger:   logger,
		settle:   DefaultSettleDelay,
		attempts: DefaultMountAttempts,
		slots:    make(map[string]*slot),
	}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = logging.NopLogger{}
	}
	return c
}

// Attach registers a surface under name. Re-attaching a name tears down the
// previous surface first.
func (c *Controller) Attach(name string, s render.Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.slots[name]; ok {
		c.destroyLocked(old)
	}
	c.slots[name] = &slot{name: name, surface: s, state: Uninitialized}
}

// Detach destroys and forgets a surface. Unknown names are ignored.
func (c *Controller) Detach(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sl, ok := c.slots[name]; ok {
		c.destroyLocked(sl)
		delete(c.slots, name)
	}
}

// Show makes a surface visible; construction follows after the settle delay.
func (c *Controller) Show(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	sl, ok := c.slots[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSurface, name)
	}
	if c.closed {
		return nil
	}
	sl.visible = true
	c.rearmLocked(sl)
	return nil
}

// SurfaceAttached tells the controller that surface name has just become
// attached. A visible surface whose mount gave up waiting is armed again;
// hidden, mounted and unknown surfaces are left alone.
func (c *Controller) SurfaceAttached(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sl, ok := c.slots[name]
	if !ok || c.closed || !sl.visible || sl.waiting {
		return
	}
	c.rearmLocked(sl)
}

// Hide collapses a surface: pending construction is cancelled, the handle
// is destroyed and the surface cleared. Hiding twice is harmless.
func (c *Controller) Hide(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	sl, ok := c.slots[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSurface, name)
	}
	sl.visible = false
	c.destroyLocked(sl)
	return nil
}

// Update stores opts and pushes them to every mounted surface.
func (c *Controller) Update(opts qr.RenderOptions) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts, c.hasOpts = opts, true
	for _, sl := range c.sortedLocked() {
		if sl.waiting {
			sl.waiting = false
			c.armLocked(sl)
			continue
		}
		if sl.state != Mounted || sl.handle == nil {
			continue
		}
		h := sl.handle
		err := guard(func() error { return h.Update(context.Background(), opts) })
		if err != nil {
			c.logger.Warn(context.Background(), "preview update failed", "surface", sl.name, "error", err)
		}
	}
}

// State reports the state of a surface.
func (c *Controller) State(name string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sl, ok := c.slots[name]
	if !ok {
		return Uninitialized, fmt.Errorf("%w: %q", ErrUnknownSurface, name)
	}
	return sl.state, nil
}

// Surfaces lists registered surface names with their states.
func (c *Controller) Surfaces() map[string]State {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]State, len(c.slots))
	for name, sl := range c.slots {
		out[name] = sl.state
	}
	return out
}

// Download writes the current rendering of surface name in format f to w.
// It does nothing and reports false when the surface has no handle.
func (c *Controller) Download(ctx context.Context, name string, f render.Format, w io.Writer) (bool, error) {
	c.mu.Lock()
	var h render.Handle
	if sl, ok := c.slots[name]; ok && sl.state == Mounted {
		h = sl.handle
	}
	c.mu.Unlock()
	if h == nil {
		return false, nil
	}

	var data []byte
	err := guard(func() error {
		var err error
		data, err = h.Export(ctx, f)
		return err
	})
	if errors.Is(err, render.ErrDestroyed) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("export %s: %w", f, err)
	}
	if _, err := w.Write(data); err != nil {
		return false, fmt.Errorf("write %s: %w", f, err)
	}
	return true, nil
}

// SaveAs downloads into dir/filename plus the format extension and returns
// the written path, or "" when there was nothing to download.
func (c *Controller) SaveAs(ctx context.Context, name string, f render.Format, dir, filename string) (string, error) {
	var buf bytes.Buffer
	ok, err := c.Download(ctx, name, f, &buf)
	if err != nil || !ok {
		return "", err
	}

	target, err := filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(target, filex.SafeName(filename, "qrcode")+f.Extension())
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

// Close destroys every surface. Later Show calls are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for _, sl := range c.slots {
		c.destroyLocked(sl)
	}
}

func (c *Controller) rearmLocked(sl *slot) {
	if sl.state == Mounted || sl.timer != nil {
		return
	}
	sl.attempts = 0
	c.armLocked(sl)
}

func (c *Controller) armLocked(sl *slot) {
	gen := sl.gen
	sl.timer = time.AfterFunc(c.settle, func() { c.mount(sl, gen) })
}

func (c *Controller) mount(sl *slot, gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sl.gen != gen || c.closed {
		return
	}
	sl.timer = nil

	if !sl.surface.Attached() {
		sl.attempts++
		if sl.attempts < c.attempts {
			c.armLocked(sl)
			return
		}
		c.logger.Warn(context.Background(), "surface never attached, preview not mounted", "surface", sl.name)
		return
	}
	if !c.hasOpts {
		sl.waiting = true
		return
	}

	var h render.Handle
	err := guard(func() error {
		var err error
		h, err = c.renderer.Mount(context.Background(), sl.surface, c.opts)
		return err
	})
	if err != nil {
		c.logger.Warn(context.Background(), "preview mount failed", "surface", sl.name, "error", err)
	}
	if h == nil {
		return
	}
	sl.handle = h
	sl.state = Mounted
	c.logger.Debug(context.Background(), "preview mounted", "surface", sl.name)
}

func (c *Controller) destroyLocked(sl *slot) {
	sl.gen++
	sl.waiting = false
	if sl.timer != nil {
		sl.timer.Stop()
		sl.timer = nil
	}
	if sl.handle != nil {
		h := sl.handle
		_ = guard(func() error { h.Destroy(); return nil })
		sl.handle = nil
	}
	if sl.state == Mounted {
		if err := guard(sl.surface.Clear); err != nil {
			c.logger.Warn(context.Background(), "clear surface failed", "surface", sl.name, "error", err)
		}
		sl.state = Destroyed
	}
}

func (c *Controller) sortedLocked() []*slot {
	out := make([]*slot, 0, len(c.slots))
	for _, sl := range c.slots {
		out = append(out, sl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// guard runs fn and converts a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("render panic: %v", p)
		}
	}()
	return fn()
}
