package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/quickqr/internal/server/services"
)

// TimezoneHeader lets a scanning app report the device's IANA zone when the
// redirect URL carries no tz parameter.
const TimezoneHeader = "X-Timezone"

// handleRedirect resolves a dynamic code, records the scan and sends the
// scanner on. http(s) payloads redirect with 302; anything else is served
// as a document.
func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	tz := strings.TrimSpace(r.URL.Query().Get("tz"))
	if tz == "" {
		tz = strings.TrimSpace(r.Header.Get(TimezoneHeader))
	}

	code, err := s.codes.Resolve(r.Context(), mux.Vars(r)["id"], services.ScanInfo{
		UserAgent: r.UserAgent(),
		Timezone:  tz,
		Referrer:  r.Referer(),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	dest, err := services.DestinationOf(code)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	if dest.URL != "" {
		http.Redirect(w, r, dest.URL, http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", dest.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, dest.Body)
}
