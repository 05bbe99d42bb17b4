package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/quickqr/internal/client/client"
	"github.com/dmitrijs2005/quickqr/internal/shared"
)

// fakeClient implements client.Client for unit tests. Methods a test does
// not configure panic through the nil embedded interface.
type fakeClient struct {
	client.Client

	token string

	LoginRet   shared.Session
	LoginErr   error
	LastLogin  shared.Credentials
	SessionRet shared.User
	SessionErr []error
	Sessions   int

	RegisterRet shared.User
	RegisterErr error

	CreateReq  *shared.CreateCodeRequest
	UpdateID   string
	UpdateReq  *shared.UpdateCodeRequest
	CodeRet    shared.Code
	CodeErr    error
	ListOwner  string
	ListRet    []shared.Code
	DeletedID  string
	ScansRet   []shared.Scan
	PresignCT  string
	PresignRet shared.LogoUpload
	PresignErr error

	PingErr error
	Closed  bool
}

func (f *fakeClient) SetToken(t string) { f.token = t }
func (f *fakeClient) Token() string     { return f.token }
func (f *fakeClient) Close() error      { f.Closed = true; return nil }

func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Register(ctx context.Context, email, password string) (shared.User, error) {
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (shared.Session, error) {
	f.LastLogin = shared.Credentials{Email: email, Password: password}
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Session(ctx context.Context) (shared.User, error) {
	i := f.Sessions
	f.Sessions++
	if i < len(f.SessionErr) && f.SessionErr[i] != nil {
		return shared.User{}, f.SessionErr[i]
	}
	return f.SessionRet, nil
}

func (f *fakeClient) CreateCode(ctx context.Context, req shared.CreateCodeRequest) (shared.Code, error) {
	f.CreateReq = &req
	return f.CodeRet, f.CodeErr
}

func (f *fakeClient) UpdateCode(ctx context.Context, id string, req shared.UpdateCodeRequest) (shared.Code, error) {
	f.UpdateID, f.UpdateReq = id, &req
	return f.CodeRet, f.CodeErr
}

func (f *fakeClient) GetCode(ctx context.Context, id string) (shared.Code, error) {
	return f.CodeRet, f.CodeErr
}

func (f *fakeClient) ListCodes(ctx context.Context, ownerID string) ([]shared.Code, error) {
	f.ListOwner = ownerID
	return f.ListRet, f.CodeErr
}

func (f *fakeClient) AdminListCodes(ctx context.Context) ([]shared.Code, error) {
	return f.ListRet, f.CodeErr
}

func (f *fakeClient) DeleteCode(ctx context.Context, id string) error {
	f.DeletedID = id
	return f.CodeErr
}

func (f *fakeClient) ListScans(ctx context.Context, id string) ([]shared.Scan, error) {
	return f.ScansRet, f.CodeErr
}

func (f *fakeClient) PresignLogo(ctx context.Context, contentType string) (shared.LogoUpload, error) {
	f.PresignCT = contentType
	return f.PresignRet, f.PresignErr
}

func setupRepos(t *testing.T) *client.Repositories {
	t.Helper()
	repos, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}
