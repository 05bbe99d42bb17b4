package api

import (
	"bytes"
	"encoding/json"

	"github.com/dmitrijs2005/quickqr/internal/server/models"
	"github.com/dmitrijs2005/quickqr/internal/shared"
)

func toUser(u *models.User) shared.User {
	return shared.User{ID: u.ID, Email: u.Email, IsAdmin: u.IsAdmin, CreatedAt: u.CreatedAt}
}

func toCode(c *models.Code) shared.Code {
	return shared.Code{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		Name:      c.Name,
		Type:      c.Type,
		Content:   json.RawMessage(c.Content),
		Styling:   json.RawMessage(c.Styling),
		Mode:      c.Mode,
		ScanCount: c.ScanCount,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCodes(list []*models.Code) []shared.Code {
	out := make([]shared.Code, 0, len(list))
	for _, c := range list {
		out = append(out, toCode(c))
	}
	return out
}

func toScans(list []*models.Scan) []shared.Scan {
	out := make([]shared.Scan, 0, len(list))
	for _, s := range list {
		out = append(out, shared.Scan{
			ID:        s.ID,
			CodeID:    s.CodeID,
			Device:    s.Device,
			OS:        s.OS,
			Timezone:  s.Timezone,
			Referrer:  s.Referrer,
			ScannedAt: s.ScannedAt,
		})
	}
	return out
}

// nullable maps an absent or JSON null document to nil.
func nullable(raw json.RawMessage) []byte {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || bytes.Equal(t, []byte("null")) {
		return nil
	}
	return raw
}

// updateBody is shared.UpdateCodeRequest as the server reads it. Raw
// message fields tell an explicit null ("null") apart from an absent key
// (empty).
type updateBody struct {
	Name    *string         `json:"name"`
	Content json.RawMessage `json:"content"`
	Type    *string         `json:"type"`
	Styling json.RawMessage `json:"styling"`
	Mode    *string         `json:"mode"`
}

func (b updateBody) patch() models.CodePatch {
	p := models.CodePatch{Name: b.Name, Type: b.Type}
	if len(b.Content) > 0 {
		p.Content = b.Content
	}
	if len(b.Styling) > 0 {
		p.StylingSet = true
		p.Styling = nullable(b.Styling)
	}
	return p
}
