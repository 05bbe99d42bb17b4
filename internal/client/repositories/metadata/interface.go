package metadata

import (
	"context"
)

// Keys used by the client for its persisted session.
const (
	KeyToken  = "session.token"
	KeyUserID = "session.user_id"
	KeyEmail  = "session.email"
	KeyAdmin  = "session.admin"
)

// Repository is a small string key/value store. Get reports a missing key
// with ok == false rather than an error.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key ...string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
