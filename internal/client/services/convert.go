package services

import (
	"encoding/json"
	"strings"

	"github.com/dmitrijs2005/quickqr/internal/client/editor"
	"github.com/dmitrijs2005/quickqr/internal/qr"
	"github.com/dmitrijs2005/quickqr/internal/shared"
)

// toSavedCode decodes a wire record. Unknown types fall back to url and
// unreadable documents to their defaults, so a damaged record still opens.
func toSavedCode(c shared.Code) qr.SavedCode {
	t, err := qr.ParseContentType(c.Type)
	if err != nil {
		t = qr.TypeURL
	}
	mode, ok := qr.ParseMode(c.Mode)
	if !ok {
		mode = qr.ModeStatic
	}
	return qr.SavedCode{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		Name:      c.Name,
		Content:   qr.LoadContent(c.Content, t),
		Style:     qr.LoadStyle(c.Styling),
		Styled:    hasDocument(c.Styling),
		Mode:      mode,
		ScanCount: c.ScanCount,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toSavedCodes(list []shared.Code) []qr.SavedCode {
	out := make([]qr.SavedCode, 0, len(list))
	for _, c := range list {
		out = append(out, toSavedCode(c))
	}
	return out
}

func hasDocument(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s != "" && s != "null"
}

// documents serializes the content and style of a snapshot.
func documents(s editor.Snapshot) (content, styling json.RawMessage, err error) {
	content, err = qr.MarshalContent(s.Content)
	if err != nil {
		return nil, nil, err
	}
	styling, err = qr.MarshalStyle(s.Style)
	if err != nil {
		return nil, nil, err
	}
	return content, styling, nil
}
