// Package tokenstore persists the CSRF token bound to each session. Like
// the counter store, the binding state is an explicit injected dependency
// rather than ambient process state.
package tokenstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no token is bound to the session.
var ErrNotFound = errors.New("no token bound to session")

// Store binds at most one token to a session id. Set replaces any previous
// binding atomically per session. SetIfAbsent binds token only when the
// session has none and returns the binding that won, so concurrent issuers
// converge on one token.
type Store interface {
	Get(ctx context.Context, sessionID string) (string, error)
	Set(ctx context.Context, sessionID, token string, ttl time.Duration) error
	SetIfAbsent(ctx context.Context, sessionID, token string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, sessionID string) error
}
