// Package api exposes the QuickQR backend over HTTP: a JSON REST API under
// /api for accounts, saved codes, scan history and logo uploads, plus the
// public /code/{id} redirect that dynamic QR codes point at.
//
// Handlers translate between the wire documents in internal/shared and the
// backend models, and map the sentinel errors of internal/common to HTTP
// status codes. Every error response is a JSON object {"error": "..."}.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/quickqr/internal/common"
	"github.com/dmitrijs2005/quickqr/internal/logging"
	"github.com/dmitrijs2005/quickqr/internal/server/models"
	"github.com/dmitrijs2005/quickqr/internal/server/services"
)

// ShutdownTimeout bounds how long in-flight requests may run after Run's
// context is cancelled.
const ShutdownTimeout = 5 * time.Second

type Users interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type Codes interface {
	Create(ctx context.Context, user *models.User, code *models.Code) (*models.Code, error)
	Get(ctx context.Context, user *models.User, id string) (*models.Code, error)
	Update(ctx context.Context, user *models.User, id string, patch models.CodePatch) (*models.Code, error)
	Delete(ctx context.Context, user *models.User, id string) error
	List(ctx context.Context, user *models.User, ownerID string) ([]*models.Code, error)
	ListAll(ctx context.Context, user *models.User) ([]*models.Code, error)
	Scans(ctx context.Context, user *models.User, id string) ([]*models.Scan, error)
	Resolve(ctx context.Context, id string, info services.ScanInfo) (*models.Code, error)
}

type Logos interface {
	PresignUpload(ctx context.Context, ownerID, contentType string) (uploadURL, publicURL string, err error)
}

// PingFunc reports whether the backend's dependencies are reachable.
type PingFunc func(ctx context.Context) error

type Server struct {
	users  Users
	codes  Codes
	logos  Logos
	ping   PingFunc
	logger logging.Logger

	newRequestID func() string
}

func NewServer(users Users, codes Codes, logos Logos, ping PingFunc, l logging.Logger) *Server {
	return &Server{
		users:        users,
		codes:        codes,
		logos:        logos,
		ping:         ping,
		logger:       l.With("module", "http_server"),
		newRequestID: func() string { return uuid.New().String() },
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.withRequestID, s.withRecover, s.withLogging)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.Handle("/auth/session", s.requireAuth(s.handleSession)).Methods(http.MethodGet)

	api.Handle("/codes", s.requireAuth(s.handleCreateCode)).Methods(http.MethodPost)
	api.Handle("/codes", s.requireAuth(s.handleListCodes)).Methods(http.MethodGet)
	api.Handle("/codes/{id}", s.requireAuth(s.handleGetCode)).Methods(http.MethodGet)
	api.Handle("/codes/{id}", s.requireAuth(s.handleUpdateCode)).Methods(http.MethodPatch)
	api.Handle("/codes/{id}", s.requireAuth(s.handleDeleteCode)).Methods(http.MethodDelete)
	api.Handle("/codes/{id}/scans", s.requireAuth(s.handleListScans)).Methods(http.MethodGet)
	api.Handle("/admin/codes", s.requireAuth(s.handleAdminListCodes)).Methods(http.MethodGet)

	api.Handle("/logos", s.requireAuth(s.handlePresignLogo)).Methods(http.MethodPost)

	router.HandleFunc(common.RedirectPathPrefix+"{id}", s.handleRedirect).Methods(http.MethodGet, http.MethodHead)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return router
}

// Run serves on address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
