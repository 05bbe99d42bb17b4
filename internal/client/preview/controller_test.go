package preview

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/quickqr/internal/client/render"
	"github.com/dmitrijs2005/quickqr/internal/logging"
	"github.com/dmitrijs2005/quickqr/internal/qr"
	"github.com/stretchr/testify/require"
)

const settle = 5 * time.Millisecond

type fakeHandle struct {
	mu        sync.Mutex
	updates   []qr.RenderOptions
	destroyed int
	updateErr error
	exportErr error
	panicOn   string
}

func (h *fakeHandle) Update(_ context.Context, o qr.RenderOptions) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.panicOn != "" && o.Data == h.panicOn {
		panic("renderer blew up")
	}
	h.updates = append(h.updates, o)
	return h.updateErr
}

func (h *fakeHandle) Export(_ context.Context, f render.Format) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.exportErr != nil {
		return nil, h.exportErr
	}
	return []byte("export:" + string(f)), nil
}

func (h *fakeHandle) Destroy() {
	h.mu.Lock()
	h.destroyed++
	h.mu.Unlock()
}

func (h *fakeHandle) lastData() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.updates) == 0 {
		return ""
	}
	return h.updates[len(h.updates)-1].Data
}

type fakeRenderer struct {
	mu       sync.Mutex
	handles  []*fakeHandle
	mounts   []qr.RenderOptions
	mountErr error
	panics   bool
}

func (r *fakeRenderer) Mount(_ context.Context, s render.Surface, o qr.RenderOptions) (render.Handle, error) {
	if r.panics {
		panic("construct failed")
	}
	if !s.Attached() {
		return nil, render.ErrSurfaceDetached
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	h := &fakeHandle{panicOn: "boom"}
	r.handles = append(r.handles, h)
	r.mounts = append(r.mounts, o)
	return h, r.mountErr
}

func (r *fakeRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

func (r *fakeRenderer) handle(i int) *fakeHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handles[i]
}

func newController(r render.Renderer) *Controller {
	return NewController(r, logging.NopLogger{}, WithSettleDelay(settle), WithMountAttempts(3))
}

func waitState(t *testing.T, c *Controller, name string, want State) {
	t.Helper()
	require.Eventually(t, func() bool {
		st, err := c.State(name)
		return err == nil && st == want
	}, time.Second, time.Millisecond)
}

func TestController_MountAfterSettleAndUpdate(t *testing.T) {
	r := &fakeRenderer{}
	c := NewController(r, logging.NopLogger{}, WithSettleDelay(50*time.Millisecond))
	defer c.Close()

	c.Attach("desktop", render.NewMemorySurface(true))
	c.Update(qr.Compose("one", qr.DefaultStyle()))
	require.NoError(t, c.Show("desktop"))

	st, _ := c.State("desktop")
	require.Equal(t, Uninitialized, st, "construction waits for the settle delay")

	waitState(t, c, "desktop", Mounted)
	require.Equal(t, "one", r.mounts[0].Data)

	c.Update(qr.Compose("two", qr.DefaultStyle()))
	require.Equal(t, "two", r.handle(0).lastData())
	require.Equal(t, 1, r.count(), "updates reuse the handle")
}

func TestController_WaitsForSurfaceToAttach(t *testing.T) {
	r := &fakeRenderer{}
	c := NewController(r, logging.NopLogger{}, WithSettleDelay(settle), WithMountAttempts(1000))
	defer c.Close()

	s := render.NewMemorySurface(false)
	c.Attach("mobile", s)
	c.Update(qr.Compose("x", qr.DefaultStyle()))
	require.NoError(t, c.Show("mobile"))

	time.Sleep(settle + settle/2)
	require.Equal(t, 0, r.count(), "never constructs on a detached surface")
	s.Attach()

	waitState(t, c, "mobile", Mounted)
	require.Equal(t, 1, r.count())
}

func TestController_GivesUpOnNeverAttachedSurface(t *testing.T) {
	r := &fakeRenderer{}
	c := newController(r)
	defer c.Close()

	c.Attach("ghost", render.NewMemorySurface(false))
	c.Update(qr.Compose("x", qr.DefaultStyle()))
	require.NoError(t, c.Show("ghost"))

	time.Sleep(10 * settle)
	st, _ := c.State("ghost")
	require.Equal(t, Uninitialized, st)
	require.Equal(t, 0, r.count())
}

func TestController_SurfaceAttachedAfterGivingUp(t *testing.T) {
	r := &fakeRenderer{}
	c := newController(r)
	defer c.Close()

	s := render.NewMemorySurface(false)
	c.Attach("browser", s)
	c.Update(qr.Compose("late", qr.DefaultStyle()))
	require.NoError(t, c.Show("browser"))
	time.Sleep(10 * settle)
	require.Equal(t, 0, r.count())

	s.Attach()
	c.SurfaceAttached("browser")
	c.SurfaceAttached("unknown")
	waitState(t, c, "browser", Mounted)
	require.Equal(t, "late", r.mounts[0].Data)

	c.SurfaceAttached("browser")
	time.Sleep(3 * settle)
	require.Equal(t, 1, r.count(), "mounted surfaces are not rebuilt")
}

func TestController_SurfaceAttachedKeepsHiddenSurfaceHidden(t *testing.T) {
	r := &fakeRenderer{}
	c := newController(r)
	defer c.Close()

	s := render.NewMemorySurface(false)
	c.Attach("browser", s)
	c.Update(qr.Compose("x", qr.DefaultStyle()))

	s.Attach()
	c.SurfaceAttached("browser")
	time.Sleep(3 * settle)
	require.Equal(t, 0, r.count(), "never shown")

	require.NoError(t, c.Show("browser"))
	waitState(t, c, "browser", Mounted)
	require.NoError(t, c.Hide("browser"))

	c.SurfaceAttached("browser")
	time.Sleep(3 * settle)
	st, _ := c.State("browser")
	require.Equal(t, Destroyed, st)
	require.Equal(t, 1, r.count())
}

func TestController_MountWaitsForFirstOptions(t *testing.T) {
	r := &fakeRenderer{}
	c := newController(r)
	defer c.Close()

	c.Attach("desktop", render.NewMemorySurface(true))
	require.NoError(t, c.Show("desktop"))
	time.Sleep(3 * settle)
	require.Equal(t, 0, r.count())

	c.Update(qr.Compose("first", qr.DefaultStyle()))
	waitState(t, c, "desktop", Mounted)
	require.Equal(t, "first", r.mounts[0].Data)
}

func TestController_HideCancelsPendingMount(t *testing.T) {
	r := &fakeRenderer{}
	c := NewController(r, nil, WithSettleDelay(50*time.Millisecond))
	defer c.Close()

	c.Attach("tablet", render.NewMemorySurface(true))
	c.Update(qr.Compose("x", qr.DefaultStyle()))
	require.NoError(t, c.Show("tablet"))
	require.NoError(t, c.Hide("tablet"))

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 0, r.count())
}

func TestController_DestroyAndRemountCreatesNewHandle(t *testing.T) {
	r := &fakeRenderer{}
	c := newController(r)
	defer c.Close()

	s := render.NewMemorySurface(true)
	c.Attach("row-1", s)
	c.Update(qr.Compose("x", qr.DefaultStyle()))

	// teardown without any prior handle must be harmless
	require.NotPanics(t, func() {
		require.NoError(t, c.Hide("row-1"))
		require.NoError(t, c.Hide("row-1"))
	})

	require.NoError(t, c.Show("row-1"))
	waitState(t, c, "row-1", Mounted)
	require.NoError(t, s.Show(image.NewRGBA(image.Rect(0, 0, 1, 1))))

	require.NoError(t, c.Hide("row-1"))
	st, _ := c.State("row-1")
	require.Equal(t, Destroyed, st)
	require.Equal(t, 1, r.handle(0).destroyed)
	require.Nil(t, s.Frame(), "surface is cleared")

	require.NoError(t, c.Hide("row-1"))
	require.Equal(t, 1, r.handle(0).destroyed)

	require.NoError(t, c.Show("row-1"))
	waitState(t, c, "row-1", Mounted)
	require.Equal(t, 2, r.count())
	require.NotSame(t, r.handle(0), r.handle(1))
}

func TestController_SurfacesAreIndependent(t *testing.T) {
	r := &fakeRenderer{}
	c := newController(r)
	defer c.Close()

	for _, name := range []string{"desktop", "mobile"} {
		c.Attach(name, render.NewMemorySurface(true))
	}
	c.Update(qr.Compose("same", qr.DefaultStyle()))
	require.NoError(t, c.Show("desktop"))
	require.NoError(t, c.Show("mobile"))
	waitState(t, c, "desktop", Mounted)
	waitState(t, c, "mobile", Mounted)
	require.Equal(t, 2, r.count())

	require.NoError(t, c.Hide("desktop"))
	st, _ := c.State("mobile")
	require.Equal(t, Mounted, st)

	c.Update(qr.Compose("next", qr.DefaultStyle()))
	var live *fakeHandle
	for i := 0; i < r.count(); i++ {
		if r.handle(i).destroyed == 0 {
			live = r.handle(i)
		}
	}
	require.NotNil(t, live)
	require.Equal(t, "next", live.lastData())

	require.Equal(t, map[string]State{"desktop": Destroyed, "mobile": Mounted}, c.Surfaces())
}

func TestController_FailuresAreContained(t *testing.T) {
	r := &fakeRenderer{mountErr: errors.New("logo unreachable")}
	c := newController(r)
	defer c.Close()

	c.Attach("desktop", render.NewMemorySurface(true))
	c.Update(qr.Compose("x", qr.DefaultStyle()))
	require.NoError(t, c.Show("desktop"))
	waitState(t, c, "desktop", Mounted)

	require.NotPanics(t, func() { c.Update(qr.Compose("boom", qr.DefaultStyle())) })
	require.NotPanics(t, func() { c.Update(qr.Compose("fine", qr.DefaultStyle())) })
	require.Equal(t, "fine", r.handle(0).lastData())

	p := &fakeRenderer{panics: true}
	c2 := newController(p)
	defer c2.Close()
	c2.Attach("s", render.NewMemorySurface(true))
	c2.Update(qr.Compose("x", qr.DefaultStyle()))
	require.NoError(t, c2.Show("s"))
	time.Sleep(5 * settle)
	st, _ := c2.State("s")
	require.Equal(t, Uninitialized, st)
}

func TestController_DownloadNoopWithoutHandle(t *testing.T) {
	r := &fakeRenderer{}
	c := newController(r)
	defer c.Close()

	c.Attach("desktop", render.NewMemorySurface(true))

	var buf bytes.Buffer
	ok, err := c.Download(context.Background(), "desktop", render.FormatPNG, &buf)
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, buf.Len())

	ok, err = c.Download(context.Background(), "unknown", render.FormatPNG, &buf)
	require.NoError(t, err)
	require.False(t, ok)

	dir := filepath.Join(t.TempDir(), "exports")
	path, err := c.SaveAs(context.Background(), "desktop", render.FormatSVG, dir, "menu")
	require.NoError(t, err)
	require.Empty(t, path)
	require.NoDirExists(t, dir, "nothing to save, nothing created")
}

func TestController_DownloadRacingHide(t *testing.T) {
	r := &fakeRenderer{}
	c := newController(r)
	defer c.Close()

	c.Attach("desktop", render.NewMemorySurface(true))
	c.Update(qr.Compose("x", qr.DefaultStyle()))
	require.NoError(t, c.Show("desktop"))
	waitState(t, c, "desktop", Mounted)

	h := r.handle(0)
	h.mu.Lock()
	h.exportErr = render.ErrDestroyed
	h.mu.Unlock()

	var buf bytes.Buffer
	ok, err := c.Download(context.Background(), "desktop", render.FormatPNG, &buf)
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, buf.Len())

	h.mu.Lock()
	h.exportErr = errors.New("encoder broke")
	h.mu.Unlock()
	_, err = c.Download(context.Background(), "desktop", render.FormatPNG, &buf)
	require.Error(t, err)
}

func TestController_DownloadAndSaveAs(t *testing.T) {
	r := &fakeRenderer{}
	c := newController(r)
	defer c.Close()

	c.Attach("desktop", render.NewMemorySurface(true))
	c.Update(qr.Compose("x", qr.DefaultStyle()))
	require.NoError(t, c.Show("desktop"))
	waitState(t, c, "desktop", Mounted)

	var buf bytes.Buffer
	ok, err := c.Download(context.Background(), "desktop", render.FormatWebP, &buf)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "export:webp", buf.String())

	dir := t.TempDir()
	path, err := c.SaveAs(context.Background(), "desktop", render.FormatJPEG, dir, "Cafe Menu")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Cafe-Menu.jpg"), path)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "export:jpeg", string(b))
}

func TestController_UnknownSurfaceAndClose(t *testing.T) {
	r := &fakeRenderer{}
	c := newController(r)

	require.ErrorIs(t, c.Show("nope"), ErrUnknownSurface)
	require.ErrorIs(t, c.Hide("nope"), ErrUnknownSurface)
	_, err := c.State("nope")
	require.ErrorIs(t, err, ErrUnknownSurface)

	c.Attach("a", render.NewMemorySurface(true))
	c.Update(qr.Compose("x", qr.DefaultStyle()))
	c.Close()
	require.NoError(t, c.Show("a"))
	time.Sleep(3 * settle)
	require.Equal(t, 0, r.count())

	c.Detach("a")
	c.Detach("a")
	require.Empty(t, c.Surfaces())
}

func TestController_WithRealRenderer(t *testing.T) {
	c := newController(render.NewRaster(nil, nil))
	defer c.Close()

	s := render.NewMemorySurface(true)
	c.Attach("desktop", s)
	c.Update(qr.Compose("https://example.com", qr.DefaultStyle()))
	require.NoError(t, c.Show("desktop"))
	waitState(t, c, "desktop", Mounted)
	require.NotNil(t, s.Frame())

	bad := qr.DefaultStyle()
	bad.SetDotsColor("zzz")
	c.Update(qr.Compose("https://example.com", bad))
	require.NotNil(t, s.Frame(), "failed update keeps the stale frame")

	huge := qr.DefaultStyle()
	huge.SetSize(1 << 20)
	c.Update(qr.Compose("https://example.com", huge))
	require.NotNil(t, s.Frame(), "oversized update keeps the stale frame")
	st, _ := c.State("desktop")
	require.Equal(t, Mounted, st)
}

func TestState_String(t *testing.T) {
	require.Equal(t, "mounted", Mounted.String())
	require.Equal(t, "State(9)", State(9).String())
}
