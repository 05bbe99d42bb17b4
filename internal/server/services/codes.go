package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/quickqr/internal/common"
	"github.com/dmitrijs2005/quickqr/internal/dbx"
	"github.com/dmitrijs2005/quickqr/internal/qr"
	"github.com/dmitrijs2005/quickqr/internal/server/models"
	"github.com/dmitrijs2005/quickqr/internal/server/repositories/repomanager"
)

// ScanInfo describes the request that resolved a dynamic code.
type ScanInfo struct {
	UserAgent string
	Timezone  string
	Referrer  string
}

// CodeService manages saved codes. Every method taking a user enforces
// ownership: the owner and admins pass, everyone else gets
// common.ErrForbidden.
type CodeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
	newID       func() string
}

func NewCodeService(db *sql.DB, m repomanager.RepositoryManager) *CodeService {
	return &CodeService{
		db:          db,
		repomanager: m,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
}

func validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrValidation, fmt.Sprintf(format, args...))
}

func validDocument(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null")) && json.Valid(raw)
}

func checkType(t string) error {
	if _, err := qr.ParseContentType(t); err != nil {
		return validation("unknown type %q", t)
	}
	return nil
}

// Create stores a new code owned by user. An empty mode means static.
func (s *CodeService) Create(ctx context.Context, user *models.User, code *models.Code) (*models.Code, error) {
	code.Name = strings.TrimSpace(code.Name)
	if code.Name == "" {
		return nil, validation("name is required")
	}
	if err := checkType(code.Type); err != nil {
		return nil, err
	}
	if !validDocument(code.Content) {
		return nil, validation("content must be a JSON document")
	}
	if len(code.Styling) > 0 && !json.Valid(code.Styling) {
		return nil, validation("styling must be JSON")
	}
	mode, ok := qr.ParseMode(code.Mode)
	if !ok {
		return nil, validation("mode must be static or dynamic")
	}
	code.Mode = string(mode)
	code.OwnerID = user.ID

	return s.repomanager.Codes(s.db).Create(ctx, code)
}

// authorize loads a code and checks that user may touch it.
func (s *CodeService) authorize(ctx context.Context, db dbx.DBTX, user *models.User, id string) (*models.Code, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrNotFound
	}
	code, err := s.repomanager.Codes(db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if code.OwnerID != user.ID && !user.IsAdmin {
		return nil, common.ErrForbidden
	}
	return code, nil
}

func (s *CodeService) Get(ctx context.Context, user *models.User, id string) (*models.Code, error) {
	return s.authorize(ctx, s.db, user, id)
}

// Update applies patch. Mode is not part of a patch; the API rejects any
// attempt to change it with common.ErrModeChange.
func (s *CodeService) Update(ctx context.Context, user *models.User, id string, patch models.CodePatch) (*models.Code, error) {
	if patch.Name != nil {
		n := strings.TrimSpace(*patch.Name)
		if n == "" {
			return nil, validation("name must not be empty")
		}
		patch.Name = &n
	}
	if patch.Type != nil {
		if err := checkType(*patch.Type); err != nil {
			return nil, err
		}
	}
	if patch.Content != nil && !validDocument(patch.Content) {
		return nil, validation("content must be a JSON document")
	}
	if patch.StylingSet && len(patch.Styling) > 0 && !json.Valid(patch.Styling) {
		return nil, validation("styling must be JSON")
	}

	var updated *models.Code
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.authorize(ctx, tx, user, id); err != nil {
			return err
		}
		var err error
		updated, err = s.repomanager.Codes(tx).Update(ctx, id, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CodeService) Delete(ctx context.Context, user *models.User, id string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.authorize(ctx, tx, user, id); err != nil {
			return err
		}
		return s.repomanager.Codes(tx).Delete(ctx, id)
	})
}

// List returns the codes of ownerID, or of user when ownerID is empty.
// Listing someone else's codes requires admin.
func (s *CodeService) List(ctx context.Context, user *models.User, ownerID string) ([]*models.Code, error) {
	if ownerID == "" {
		ownerID = user.ID
	}
	if ownerID != user.ID && !user.IsAdmin {
		return nil, common.ErrForbidden
	}
	return s.repomanager.Codes(s.db).ListByOwner(ctx, ownerID)
}

func (s *CodeService) ListAll(ctx context.Context, user *models.User) ([]*models.Code, error) {
	if !user.IsAdmin {
		return nil, common.ErrForbidden
	}
	return s.repomanager.Codes(s.db).ListAll(ctx)
}

func (s *CodeService) Scans(ctx context.Context, user *models.User, id string) ([]*models.Scan, error) {
	if _, err := s.authorize(ctx, s.db, user, id); err != nil {
		return nil, err
	}
	return s.repomanager.Scans(s.db).ListByCode(ctx, id)
}

// Resolve looks up a dynamic code for its public redirect and records the
// scan. The scan insert and the counter increment share one transaction.
// Static and unknown codes yield common.ErrNotFound.
func (s *CodeService) Resolve(ctx context.Context, id string, info ScanInfo) (*models.Code, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrNotFound
	}

	var code *models.Code
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		code, err = s.repomanager.Codes(tx).Get(ctx, id)
		if err != nil {
			return err
		}
		if code.Mode != models.ModeDynamic {
			return common.ErrNotFound
		}

		device, os := ParseUserAgent(info.UserAgent)
		scan := &models.Scan{
			ID:        s.newID(),
			CodeID:    id,
			Device:    device,
			OS:        os,
			Timezone:  info.Timezone,
			Referrer:  info.Referrer,
			ScannedAt: s.now().UTC(),
		}
		if err := s.repomanager.Scans(tx).Create(ctx, scan); err != nil {
			return err
		}
		if err := s.repomanager.Codes(tx).IncrementScans(ctx, id); err != nil {
			return err
		}
		code.ScanCount++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return code, nil
}

// Destination is what a resolved code hands to the scanner.
type Destination struct {
	// URL is set when the payload is an http(s) address to redirect to.
	URL string
	// Body and ContentType are set otherwise.
	Body        string
	ContentType string
}

// DestinationOf decodes the stored content the same way the client does and
// decides how to deliver it.
func DestinationOf(code *models.Code) (Destination, error) {
	t, err := qr.ParseContentType(code.Type)
	if err != nil {
		t = qr.TypeURL
	}
	payload := qr.Encode(qr.LoadContent(code.Content, t))
	if payload == "" {
		return Destination{}, errors.Join(common.ErrNotFound, fmt.Errorf("code %s has no content", code.ID))
	}

	lower := strings.ToLower(payload)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return Destination{URL: payload}, nil
	}

	ct := "text/plain; charset=utf-8"
	switch t {
	case qr.TypeVCard:
		ct = "text/vcard; charset=utf-8"
	case qr.TypeEvent:
		ct = "text/calendar; charset=utf-8"
	}
	return Destination{Body: payload, ContentType: ct}, nil
}
