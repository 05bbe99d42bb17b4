// Package services contains the application services of the QuickQR client.
// This file defines the authentication service: register, login, logout,
// session restore and the session check against the backend.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/quickqr/internal/client/client"
	"github.com/dmitrijs2005/quickqr/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/quickqr/internal/dbx"
	"github.com/dmitrijs2005/quickqr/internal/logging"
	"github.com/dmitrijs2005/quickqr/internal/shared"
)

var (
	// ErrNoSession means no token is stored locally.
	ErrNoSession = errors.New("not logged in")
	// ErrInvalidCredentials is returned for blank email or password.
	ErrInvalidCredentials = errors.New("email and password are required")
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login stores the token locally so the next start can Restore it.
//   - CheckSession clears the stored session on ErrUnauthorized.
//   - Current reports the user of the active session, if any.
type AuthService interface {
	Register(ctx context.Context, email, password string) (shared.User, error)
	Login(ctx context.Context, email, password string) (shared.User, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (shared.User, error)
	CheckSession(ctx context.Context) (shared.User, error)
	Current() (shared.User, bool)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client  client.Client
	db      *sql.DB
	logger  logging.Logger
	backoff time.Duration

	mu   sync.RWMutex
	user *shared.User
}

// NewAuthService constructs an AuthService bound to the API client and the
// local database. backoff is the first delay of the session check retry.
func NewAuthService(c client.Client, db *sql.DB, logger logging.Logger, backoff time.Duration) AuthService {
	return &authService{client: c, db: db, logger: logger, backoff: backoff}
}

func (a *authService) metadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (a *authService) Register(ctx context.Context, email, password string) (shared.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return shared.User{}, ErrInvalidCredentials
	}
	return a.client.Register(ctx, email, password)
}

func (a *authService) Login(ctx context.Context, email, password string) (shared.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return shared.User{}, ErrInvalidCredentials
	}

	s, err := a.client.Login(ctx, email, password)
	if err != nil {
		return shared.User{}, fmt.Errorf("login: %w", err)
	}

	a.client.SetToken(s.Token)
	if err := a.saveSession(ctx, s); err != nil {
		return shared.User{}, fmt.Errorf("save session: %w", err)
	}
	a.setUser(&s.User)

	a.logger.Info(ctx, "logged in", "user_id", s.User.ID)
	return s.User, nil
}

// saveSession persists the token and the user in one transaction.
func (a *authService) saveSession(ctx context.Context, s shared.Session) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.metadataRepo(tx)
		values := map[string]string{
			metadata.KeyToken:  s.Token,
			metadata.KeyUserID: s.User.ID,
			metadata.KeyEmail:  s.User.Email,
			metadata.KeyAdmin:  strconv.FormatBool(s.User.IsAdmin),
		}
		for k, v := range values {
			if err := repo.Set(ctx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.SetToken("")
	a.setUser(nil)
	return a.clearSession(ctx)
}

func (a *authService) clearSession(ctx context.Context) error {
	return a.metadataRepo(a.db).Delete(ctx, metadata.KeyToken, metadata.KeyUserID, metadata.KeyEmail, metadata.KeyAdmin)
}

// Restore loads the stored session and validates it. When the backend is
// unreachable the cached user is kept and the error is returned alongside it.
func (a *authService) Restore(ctx context.Context) (shared.User, error) {
	stored, err := a.metadataRepo(a.db).List(ctx)
	if err != nil {
		return shared.User{}, fmt.Errorf("load session: %w", err)
	}
	token := stored[metadata.KeyToken]
	if token == "" {
		return shared.User{}, ErrNoSession
	}

	cached := shared.User{
		ID:    stored[metadata.KeyUserID],
		Email: stored[metadata.KeyEmail],
	}
	cached.IsAdmin, _ = strconv.ParseBool(stored[metadata.KeyAdmin])

	a.client.SetToken(token)
	a.setUser(&cached)

	user, err := a.CheckSession(ctx)
	if errors.Is(err, client.ErrUnavailable) || errors.Is(err, client.ErrServer) {
		return cached, err
	}
	return user, err
}

func (a *authService) CheckSession(ctx context.Context) (shared.User, error) {
	if a.client.Token() == "" {
		return shared.User{}, ErrNoSession
	}

	user, err := client.CheckSession(ctx, a.client, a.backoff)
	if errors.Is(err, client.ErrUnauthorized) {
		a.logger.Warn(ctx, "session rejected, clearing stored token")
		if cerr := a.Logout(ctx); cerr != nil {
			a.logger.Error(ctx, "clear session", "error", cerr)
		}
		return shared.User{}, err
	}
	if err != nil {
		return shared.User{}, err
	}

	a.setUser(&user)
	return user, nil
}

func (a *authService) Current() (shared.User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return shared.User{}, false
	}
	return *a.user, true
}

func (a *authService) setUser(u *shared.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if u == nil {
		a.user = nil
		return
	}
	cp := *u
	a.user = &cp
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
