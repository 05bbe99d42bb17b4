package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/quickqr/internal/client/editor"
	"github.com/dmitrijs2005/quickqr/internal/client/models"
	"github.com/dmitrijs2005/quickqr/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/quickqr/internal/qr"
)

// DraftService keeps unsaved editor states on the local disk.
type DraftService interface {
	Save(ctx context.Context, name string, s editor.Snapshot) error
	Load(ctx context.Context, name string) (editor.Snapshot, error)
	List(ctx context.Context) ([]models.Draft, error)
	Delete(ctx context.Context, name string) error
}

type draftService struct {
	repo drafts.Repository
}

func NewDraftService(repo drafts.Repository) DraftService {
	return &draftService{repo: repo}
}

func (s *draftService) Save(ctx context.Context, name string, snap editor.Snapshot) error {
	content, styling, err := documents(snap)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return s.repo.Save(ctx, models.Draft{
		Name:    name,
		CodeID:  snap.ID,
		Type:    string(snap.Content.Type),
		Content: content,
		Styling: styling,
		Mode:    string(snap.Mode),
	})
}

// Load decodes a draft with the same fallbacks used for saved codes.
func (s *draftService) Load(ctx context.Context, name string) (editor.Snapshot, error) {
	d, err := s.repo.Get(ctx, name)
	if err != nil {
		return editor.Snapshot{}, err
	}

	t, err := qr.ParseContentType(d.Type)
	if err != nil {
		t = qr.TypeURL
	}
	mode, ok := qr.ParseMode(d.Mode)
	if !ok {
		mode = qr.ModeStatic
	}

	return editor.Snapshot{
		ID:      d.CodeID,
		Name:    d.Name,
		Mode:    mode,
		Content: qr.LoadContent(d.Content, t),
		Style:   qr.LoadStyle(d.Styling),
	}, nil
}

func (s *draftService) List(ctx context.Context) ([]models.Draft, error) {
	return s.repo.List(ctx)
}

func (s *draftService) Delete(ctx context.Context, name string) error {
	return s.repo.Delete(ctx, name)
}
