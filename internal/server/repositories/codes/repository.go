package codes

import (
	"context"

	"github.com/dmitrijs2005/quickqr/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, code *models.Code) (*models.Code, error)
	// Get returns common.ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (*models.Code, error)
	Update(ctx context.Context, id string, patch models.CodePatch) (*models.Code, error)
	Delete(ctx context.Context, id string) error
	// ListByOwner returns the owner's codes, most recently updated first.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Code, error)
	ListAll(ctx context.Context) ([]*models.Code, error)
	// IncrementScans bumps scan_count by one.
	IncrementScans(ctx context.Context, id string) error
}
