package scans

import (
	"context"

	"github.com/dmitrijs2005/quickqr/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, scan *models.Scan) error
	// ListByCode returns the scans of a code, newest first.
	ListByCode(ctx context.Context, codeID string) ([]*models.Scan, error)
}
