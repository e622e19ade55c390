package repository

import (
	"context"
	"sync"
	"time"

	"github.com/SafeClick/ScamShield/pkg/domain"
	"github.com/SafeClick/ScamShield/pkg/domain/session"
)

// MemorySessionRepository is the single-process fallback when redis is
// disabled. Expired sessions are dropped lazily on read.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	now      func() time.Time
}

func NewMemorySessionRepository(now func() time.Time) session.Repository {
	if now == nil {
		now = time.Now
	}
	return &MemorySessionRepository{
		sessions: make(map[string]*session.Session),
		now:      now,
	}
}

func (r *MemorySessionRepository) Save(ctx context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

func (r *MemorySessionRepository) GetByID(ctx context.Context, sessionID string) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, domain.NewNotFoundError("session", sessionID)
	}
	if s.Expired(r.now()) {
		delete(r.sessions, sessionID)
		return nil, domain.NewNotFoundError("session", sessionID)
	}
	return s, nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}
