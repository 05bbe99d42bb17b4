// Package drafts stores named, unsaved editor states in the client's local
// SQLite database. A draft is keyed by its name; saving under an existing
// name overwrites it.
package drafts

import (
	"context"

	"github.com/dmitrijs2005/quickqr/internal/client/models"
)

type Repository interface {
	// Save inserts or replaces the draft with the same name.
	Save(ctx context.Context, d models.Draft) error
	// Get returns common.ErrNotFound for unknown names.
	Get(ctx context.Context, name string) (models.Draft, error)
	// List returns drafts newest first, without their documents.
	List(ctx context.Context) ([]models.Draft, error)
	Delete(ctx context.Context, name string) error
}
