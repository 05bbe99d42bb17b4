package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/quickqr/internal/common"
	"github.com/dmitrijs2005/quickqr/internal/server/models"
	"github.com/dmitrijs2005/quickqr/internal/shared"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			s.logger.Warn(r.Context(), "health check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req shared.Credentials
	if err := decodeJSON(r, w, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, toUser(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req shared.Credentials
	if err := decodeJSON(r, w, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	token, user, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, shared.Session{Token: token, User: toUser(user)})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUser(userFrom(r.Context())))
}

func (s *Server) handleCreateCode(w http.ResponseWriter, r *http.Request) {
	var req shared.CreateCodeRequest
	if err := decodeJSON(r, w, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	code, err := s.codes.Create(r.Context(), userFrom(r.Context()), &models.Code{
		Name:    req.Name,
		Type:    req.Type,
		Content: req.Content,
		Styling: nullable(req.Styling),
		Mode:    req.Mode,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCode(code))
}

func (s *Server) handleListCodes(w http.ResponseWriter, r *http.Request) {
	list, err := s.codes.List(r.Context(), userFrom(r.Context()), r.URL.Query().Get("owner"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCodes(list))
}

func (s *Server) handleAdminListCodes(w http.ResponseWriter, r *http.Request) {
	list, err := s.codes.ListAll(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCodes(list))
}

func (s *Server) handleGetCode(w http.ResponseWriter, r *http.Request) {
	code, err := s.codes.Get(r.Context(), userFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCode(code))
}

func (s *Server) handleUpdateCode(w http.ResponseWriter, r *http.Request) {
	var body updateBody
	if err := decodeJSON(r, w, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	if body.Mode != nil {
		s.fail(w, r, common.ErrModeChange)
		return
	}

	code, err := s.codes.Update(r.Context(), userFrom(r.Context()), mux.Vars(r)["id"], body.patch())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCode(code))
}

func (s *Server) handleDeleteCode(w http.ResponseWriter, r *http.Request) {
	if err := s.codes.Delete(r.Context(), userFrom(r.Context()), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	list, err := s.codes.Scans(r.Context(), userFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toScans(list))
}

func (s *Server) handlePresignLogo(w http.ResponseWriter, r *http.Request) {
	var req shared.LogoUploadRequest
	if err := decodeJSON(r, w, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	upload, public, err := s.logos.PresignUpload(r.Context(), userFrom(r.Context()).ID, req.ContentType)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shared.LogoUpload{UploadURL: upload, PublicURL: public})
}
