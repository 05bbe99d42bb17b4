package client

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/quickqr/internal/shared"
)

const (
	// SessionCheckAttempts is the total number of session requests made
	// before giving up on a flaky network.
	SessionCheckAttempts = 3
	// DefaultSessionBackoff is the first delay between attempts; it doubles
	// after each one.
	DefaultSessionBackoff = 200 * time.Millisecond
)

// CheckSession validates the client's token against the backend. Network and
// server failures are retried with exponential backoff; ErrUnauthorized is
// returned at once.
func CheckSession(ctx context.Context, c Client, base time.Duration) (shared.User, error) {
	if base <= 0 {
		base = DefaultSessionBackoff
	}
	b := retry.WithMaxRetries(SessionCheckAttempts-1, retry.NewExponential(base))

	var user shared.User
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		u, err := c.Session(ctx)
		switch {
		case err == nil:
			user = u
			return nil
		case errors.Is(err, ErrUnavailable), errors.Is(err, ErrServer):
			return retry.RetryableError(err)
		default:
			return err
		}
	})
	return user, err
}
