package csrf_guard

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/SafeClick/ScamShield/pkg/infra/tokenstore"
)

const tokenBytes = 32

// Protocol issues and verifies session-bound anti-forgery tokens. Tokens
// are long-lived (session-scoped), not one-time: verification compares, it
// does not consume. The token store serializes per-session writes, so a
// concurrent issue/verify pair never observes a half-written binding.
type Protocol struct {
	store tokenstore.Store
	ttl   time.Duration
	rand  io.Reader
}

func NewProtocol(store tokenstore.Store, ttl time.Duration, randSource io.Reader) *Protocol {
	if randSource == nil {
		randSource = rand.Reader
	}
	return &Protocol{store: store, ttl: ttl, rand: randSource}
}

// Issue returns the token bound to sessionID, generating and binding a new
// one if the session has none yet. The bind is first-writer-wins, so
// concurrent Issue calls for one session all receive the same token.
func (p *Protocol) Issue(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("cannot issue token for empty session")
	}

	candidate, err := p.newToken()
	if err != nil {
		return "", err
	}
	return p.store.SetIfAbsent(ctx, sessionID, candidate, p.ttl)
}

// Rotate unconditionally binds a fresh token to sessionID, invalidating any
// previous one. Called on login so a token fixated before authentication
// never survives session regeneration.
func (p *Protocol) Rotate(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("cannot rotate token for empty session")
	}

	token, err := p.newToken()
	if err != nil {
		return "", err
	}
	if err := p.store.Set(ctx, sessionID, token, p.ttl); err != nil {
		return "", err
	}
	return token, nil
}

func (p *Protocol) newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(p.rand, buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Verify reports whether supplied matches the token bound to sessionID.
// A session with no binding fails closed. Comparison is constant-time.
func (p *Protocol) Verify(ctx context.Context, sessionID, supplied string) bool {
	if sessionID == "" || supplied == "" {
		return false
	}

	bound, err := p.store.Get(ctx, sessionID)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(bound), []byte(supplied)) == 1
}

// Revoke drops the binding for sessionID. Called on logout.
func (p *Protocol) Revoke(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return p.store.Delete(ctx, sessionID)
}
