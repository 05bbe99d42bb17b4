package client

import (
	"context"

	"github.com/dmitrijs2005/quickqr/internal/shared"
)

// Client is the persistence bridge to the QuickQR backend.
type Client interface {
	Close() error
	// SetToken replaces the bearer token sent with every request. An empty
	// token sends anonymous requests.
	SetToken(token string)
	Token() string

	Register(ctx context.Context, email, password string) (shared.User, error)
	Login(ctx context.Context, email, password string) (shared.Session, error)
	Session(ctx context.Context) (shared.User, error)

	CreateCode(ctx context.Context, req shared.CreateCodeRequest) (shared.Code, error)
	UpdateCode(ctx context.Context, id string, req shared.UpdateCodeRequest) (shared.Code, error)
	DeleteCode(ctx context.Context, id string) error
	GetCode(ctx context.Context, id string) (shared.Code, error)
	// ListCodes lists the codes of ownerID; an empty owner means the caller.
	ListCodes(ctx context.Context, ownerID string) ([]shared.Code, error)
	ListScans(ctx context.Context, codeID string) ([]shared.Scan, error)
	AdminListCodes(ctx context.Context) ([]shared.Code, error)
	PresignLogo(ctx context.Context, contentType string) (shared.LogoUpload, error)

	// Ping reports whether the backend is serving.
	Ping(ctx context.Context) error
}
