package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/quickqr/internal/common"
	"github.com/dmitrijs2005/quickqr/internal/dbx"
	"github.com/dmitrijs2005/quickqr/internal/server/models"
	codesrepo "github.com/dmitrijs2005/quickqr/internal/server/repositories/codes"
	scansrepo "github.com/dmitrijs2005/quickqr/internal/server/repositories/scans"
	usersrepo "github.com/dmitrijs2005/quickqr/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User

	createErr error
	getErr    error
}

func newFakeUsers(users ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}}
	for _, u := range users {
		f.byEmail[u.Email] = u
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrAlreadyExists
	}
	u.ID = "u" + string(rune('0'+len(f.byID)+1))
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) SetAdmin(_ context.Context, email string, admin bool) error {
	u, ok := f.byEmail[email]
	if !ok {
		return common.ErrNotFound
	}
	u.IsAdmin = admin
	return nil
}

type fakeCodesRepo struct {
	codes     map[string]*models.Code
	created   *models.Code
	patch     *models.CodePatch
	deleted   []string
	owner     string
	increment []string
	incErr    error
}

func (f *fakeCodesRepo) Create(_ context.Context, c *models.Code) (*models.Code, error) {
	f.created = c
	out := *c
	out.ID = "11111111-1111-1111-1111-111111111111"
	return &out, nil
}

func (f *fakeCodesRepo) Get(_ context.Context, id string) (*models.Code, error) {
	c, ok := f.codes[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCodesRepo) Update(_ context.Context, id string, p models.CodePatch) (*models.Code, error) {
	f.patch = &p
	c := *f.codes[id]
	if p.Name != nil {
		c.Name = *p.Name
	}
	return &c, nil
}

func (f *fakeCodesRepo) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCodesRepo) ListByOwner(_ context.Context, ownerID string) ([]*models.Code, error) {
	f.owner = ownerID
	var out []*models.Code
	for _, c := range f.codes {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCodesRepo) ListAll(context.Context) ([]*models.Code, error) {
	var out []*models.Code
	for _, c := range f.codes {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCodesRepo) IncrementScans(_ context.Context, id string) error {
	if f.incErr != nil {
		return f.incErr
	}
	f.increment = append(f.increment, id)
	return nil
}

type fakeScansRepo struct {
	created []*models.Scan
	list    []*models.Scan
}

func (f *fakeScansRepo) Create(_ context.Context, s *models.Scan) error {
	f.created = append(f.created, s)
	return nil
}

func (f *fakeScansRepo) ListByCode(context.Context, string) ([]*models.Scan, error) {
	return f.list, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	c *fakeCodesRepo
	s *fakeScansRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return m.u }
func (m *fakeRepoManager) Codes(dbx.DBTX) codesrepo.Repository          { return m.c }
func (m *fakeRepoManager) Scans(dbx.DBTX) scansrepo.Repository          { return m.s }
