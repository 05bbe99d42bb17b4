package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/quickqr/internal/client/client"
	"github.com/dmitrijs2005/quickqr/internal/client/editor"
	"github.com/dmitrijs2005/quickqr/internal/logging"
	"github.com/dmitrijs2005/quickqr/internal/netx"
	"github.com/dmitrijs2005/quickqr/internal/qr"
	"github.com/dmitrijs2005/quickqr/internal/shared"
)

var (
	ErrNameRequired = errors.New("a name is required to save a QR code")
	ErrNotLogoImage = errors.New("logo must be a PNG, JPEG, GIF or WebP image")
)

// CodeService manages saved QR codes on the backend.
type CodeService interface {
	// Save creates the code when the snapshot has no id and updates it
	// otherwise. The mode is only sent on create.
	Save(ctx context.Context, s editor.Snapshot) (qr.SavedCode, error)
	Get(ctx context.Context, id string) (qr.SavedCode, error)
	List(ctx context.Context, ownerID string) ([]qr.SavedCode, error)
	AdminList(ctx context.Context) ([]qr.SavedCode, error)
	Delete(ctx context.Context, id string) error
	Scans(ctx context.Context, id string) ([]shared.Scan, error)
	// UploadLogo stores an image and returns the URL to use as the logo.
	UploadLogo(ctx context.Context, data []byte) (string, error)
}

type codeService struct {
	client   client.Client
	uploader *http.Client
	logger   logging.Logger
}

func NewCodeService(c client.Client, uploader *http.Client, logger logging.Logger) CodeService {
	return &codeService{client: c, uploader: uploader, logger: logger}
}

func (s *codeService) Save(ctx context.Context, snap editor.Snapshot) (qr.SavedCode, error) {
	name := strings.TrimSpace(snap.Name)
	if name == "" {
		return qr.SavedCode{}, ErrNameRequired
	}

	content, styling, err := documents(snap)
	if err != nil {
		return qr.SavedCode{}, fmt.Errorf("encode code: %w", err)
	}
	typ := string(snap.Content.Type)

	var saved shared.Code
	if snap.ID == "" {
		saved, err = s.client.CreateCode(ctx, shared.CreateCodeRequest{
			Name:    name,
			Content: content,
			Type:    typ,
			Styling: styling,
			Mode:    string(snap.Mode),
		})
	} else {
		saved, err = s.client.UpdateCode(ctx, snap.ID, shared.UpdateCodeRequest{
			Name:    &name,
			Content: &content,
			Type:    &typ,
			Styling: &styling,
		})
	}
	if err != nil {
		return qr.SavedCode{}, err
	}

	s.logger.Info(ctx, "code saved", "id", saved.ID, "type", saved.Type, "mode", saved.Mode)
	return toSavedCode(saved), nil
}

func (s *codeService) Get(ctx context.Context, id string) (qr.SavedCode, error) {
	c, err := s.client.GetCode(ctx, id)
	if err != nil {
		return qr.SavedCode{}, err
	}
	return toSavedCode(c), nil
}

func (s *codeService) List(ctx context.Context, ownerID string) ([]qr.SavedCode, error) {
	list, err := s.client.ListCodes(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return toSavedCodes(list), nil
}

func (s *codeService) AdminList(ctx context.Context) ([]qr.SavedCode, error) {
	list, err := s.client.AdminListCodes(ctx)
	if err != nil {
		return nil, err
	}
	return toSavedCodes(list), nil
}

func (s *codeService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteCode(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "code deleted", "id", id)
	return nil
}

func (s *codeService) Scans(ctx context.Context, id string) ([]shared.Scan, error) {
	return s.client.ListScans(ctx, id)
}

func (s *codeService) UploadLogo(ctx context.Context, data []byte) (string, error) {
	ct := http.DetectContentType(data)
	switch ct {
	case "image/png", "image/jpeg", "image/gif", "image/webp":
	default:
		return "", fmt.Errorf("%w: got %s", ErrNotLogoImage, ct)
	}

	up, err := s.client.PresignLogo(ctx, ct)
	if err != nil {
		return "", fmt.Errorf("presign logo: %w", err)
	}
	if err := netx.UploadToPresignedURL(ctx, s.uploader, up.UploadURL, ct, data); err != nil {
		return "", fmt.Errorf("upload logo: %w", err)
	}

	s.logger.Info(ctx, "logo uploaded", "url", up.PublicURL, "bytes", len(data))
	return up.PublicURL, nil
}
