package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/quickqr/internal/client/config"
	"github.com/dmitrijs2005/quickqr/internal/client/editor"
	"github.com/dmitrijs2005/quickqr/internal/client/models"
	"github.com/dmitrijs2005/quickqr/internal/client/render"
	"github.com/dmitrijs2005/quickqr/internal/client/services"
	"github.com/dmitrijs2005/quickqr/internal/common"
	"github.com/dmitrijs2005/quickqr/internal/logging"
	"github.com/dmitrijs2005/quickqr/internal/qr"
	"github.com/dmitrijs2005/quickqr/internal/shared"
)

type fakeAuth struct {
	mu   sync.Mutex
	user *shared.User

	LoginErr   error
	LastEmail  string
	LastPass   string
	LoggedOut  int
	RestoreErr error
	PingErr    error
}

func (f *fakeAuth) Register(_ context.Context, email, _ string) (shared.User, error) {
	return shared.User{ID: "u-new", Email: email}, nil
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (shared.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastEmail, f.LastPass = email, password
	if f.LoginErr != nil {
		return shared.User{}, f.LoginErr
	}
	f.user = &shared.User{ID: "u1", Email: email}
	return *f.user, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = nil
	f.LoggedOut++
	return nil
}

func (f *fakeAuth) Restore(context.Context) (shared.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RestoreErr != nil {
		return shared.User{}, f.RestoreErr
	}
	if f.user == nil {
		return shared.User{}, services.ErrNoSession
	}
	return *f.user, nil
}

func (f *fakeAuth) CheckSession(ctx context.Context) (shared.User, error) { return f.Restore(ctx) }

func (f *fakeAuth) Current() (shared.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil {
		return shared.User{}, false
	}
	return *f.user, true
}

func (f *fakeAuth) Ping(context.Context) error  { return f.PingErr }
func (f *fakeAuth) Close(context.Context) error { return nil }

type fakeCodes struct {
	Saved           []editor.Snapshot
	SaveRet         qr.SavedCode
	SaveErr         error
	ListOwner       string
	ListRet         []qr.SavedCode
	ListErr         error
	AdminListCalled bool
	GetRet          qr.SavedCode
	Deleted         []string
	ScansRet        []shared.Scan
	Uploaded        []byte
}

func (f *fakeCodes) Save(_ context.Context, s editor.Snapshot) (qr.SavedCode, error) {
	f.Saved = append(f.Saved, s)
	return f.SaveRet, f.SaveErr
}

func (f *fakeCodes) Get(_ context.Context, id string) (qr.SavedCode, error) {
	if f.GetRet.ID != id {
		return qr.SavedCode{}, common.ErrNotFound
	}
	return f.GetRet, nil
}

func (f *fakeCodes) List(_ context.Context, ownerID string) ([]qr.SavedCode, error) {
	f.ListOwner = ownerID
	return f.ListRet, f.ListErr
}

func (f *fakeCodes) AdminList(context.Context) ([]qr.SavedCode, error) {
	f.AdminListCalled = true
	return f.ListRet, f.ListErr
}

func (f *fakeCodes) Delete(_ context.Context, id string) error {
	f.Deleted = append(f.Deleted, id)
	return nil
}

func (f *fakeCodes) Scans(context.Context, string) ([]shared.Scan, error) { return f.ScansRet, nil }

func (f *fakeCodes) UploadLogo(_ context.Context, data []byte) (string, error) {
	f.Uploaded = data
	return "https://cdn.example.com/logos/1.png", nil
}

type fakeDrafts struct {
	m map[string]editor.Snapshot
}

func (f *fakeDrafts) Save(_ context.Context, name string, s editor.Snapshot) error {
	f.m[name] = s
	return nil
}

func (f *fakeDrafts) Load(_ context.Context, name string) (editor.Snapshot, error) {
	s, ok := f.m[name]
	if !ok {
		return editor.Snapshot{}, common.ErrNotFound
	}
	return s, nil
}

func (f *fakeDrafts) List(context.Context) ([]models.Draft, error) {
	var out []models.Draft
	for n, s := range f.m {
		out = append(out, models.Draft{Name: n, Type: string(s.Content.Type), Mode: string(s.Mode), UpdatedAt: time.Now()})
	}
	return out, nil
}

func (f *fakeDrafts) Delete(_ context.Context, name string) error {
	if _, ok := f.m[name]; !ok {
		return common.ErrNotFound
	}
	delete(f.m, name)
	return nil
}

type testEnv struct {
	app    *App
	out    *bytes.Buffer
	auth   *fakeAuth
	codes  *fakeCodes
	drafts *fakeDrafts
}

// newTestApp builds a shell reading input, backed by fakes and the real
// raster renderer.
func newTestApp(t *testing.T, input string) *testEnv {
	t.Helper()

	origTerm := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal = origTerm })

	cfg := config.New()
	cfg.SettleDelay = time.Millisecond
	cfg.DownloadDir = t.TempDir()

	env := &testEnv{
		out:    &bytes.Buffer{},
		auth:   &fakeAuth{},
		codes:  &fakeCodes{},
		drafts: &fakeDrafts{m: map[string]editor.Snapshot{}},
	}
	svc := Services{Auth: env.auth, Codes: env.codes, Drafts: env.drafts}
	r := render.NewRaster(render.NewLogoLoader(nil), logging.NopLogger{})

	a, err := newApp(cfg, logging.NopLogger{}, svc, r, ShellOptions{}, strings.NewReader(input), env.out)
	require.NoError(t, err)
	t.Cleanup(a.preview.Close)
	env.app = a
	return env
}

func (e *testEnv) login() {
	e.auth.user = &shared.User{ID: "u1", Email: "a@b.c"}
}
