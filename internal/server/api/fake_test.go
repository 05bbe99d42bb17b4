package api

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/quickqr/internal/common"
	"github.com/dmitrijs2005/quickqr/internal/server/models"
	"github.com/dmitrijs2005/quickqr/internal/server/services"
)

type fakeUsers struct {
	tokens      map[string]*models.User
	registerErr error
	loginErr    error
}

func (f *fakeUsers) Register(_ context.Context, email, _ string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: "new", Email: email}, nil
}

func (f *fakeUsers) Login(_ context.Context, email, _ string) (string, *models.User, error) {
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return "tok-1", f.tokens["tok-1"], nil
}

func (f *fakeUsers) Authenticate(_ context.Context, token string) (*models.User, error) {
	u, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrUnauthorized
	}
	return u, nil
}

type fakeCodes struct {
	code  *models.Code
	list  []*models.Code
	scans []*models.Scan
	err   error

	created  *models.Code
	patch    *models.CodePatch
	owner    string
	deleted  string
	lastUser *models.User
	scan     services.ScanInfo
}

func (f *fakeCodes) Create(_ context.Context, u *models.User, c *models.Code) (*models.Code, error) {
	f.lastUser, f.created = u, c
	if f.err != nil {
		return nil, f.err
	}
	out := *c
	out.ID = "c1"
	out.OwnerID = u.ID
	return &out, nil
}

func (f *fakeCodes) Get(_ context.Context, u *models.User, _ string) (*models.Code, error) {
	f.lastUser = u
	return f.code, f.err
}

func (f *fakeCodes) Update(_ context.Context, u *models.User, _ string, p models.CodePatch) (*models.Code, error) {
	f.lastUser, f.patch = u, &p
	return f.code, f.err
}

func (f *fakeCodes) Delete(_ context.Context, u *models.User, id string) error {
	f.lastUser, f.deleted = u, id
	return f.err
}

func (f *fakeCodes) List(_ context.Context, u *models.User, ownerID string) ([]*models.Code, error) {
	f.lastUser, f.owner = u, ownerID
	return f.list, f.err
}

func (f *fakeCodes) ListAll(_ context.Context, u *models.User) ([]*models.Code, error) {
	if !u.IsAdmin {
		return nil, common.ErrForbidden
	}
	return f.list, f.err
}

func (f *fakeCodes) Scans(context.Context, *models.User, string) ([]*models.Scan, error) {
	return f.scans, f.err
}

func (f *fakeCodes) Resolve(_ context.Context, _ string, info services.ScanInfo) (*models.Code, error) {
	f.scan = info
	return f.code, f.err
}

type fakeLogos struct {
	owner, contentType string
}

func (f *fakeLogos) PresignUpload(_ context.Context, ownerID, contentType string) (string, string, error) {
	f.owner, f.contentType = ownerID, contentType
	if contentType != "image/png" {
		return "", "", errors.Join(common.ErrValidation, errors.New("unsupported"))
	}
	return "https://s3/put", "https://cdn/logo.png", nil
}
