package counter

import (
	"context"
	"sync"
	"time"
)

type memoryWindow struct {
	start time.Time
	count int64
}

// MemoryStore is a process-local Store. A single mutex guards the map; the
// critical section is a map lookup and an integer bump, so contention stays
// negligible next to request handling.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	now     func() time.Time
}

func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		windows: make(map[string]*memoryWindow),
		now:     now,
	}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration, limitCap int64) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= window {
		w = &memoryWindow{start: now, count: 0}
		s.windows[key] = w
	}

	if w.count < limitCap {
		w.count++
	}

	return Window{Count: w.count, Start: w.start, Duration: window}, nil
}

// Sweep drops windows that have been idle longer than maxIdle. Called
// periodically by the owning process so abandoned identities do not pin
// memory.
func (s *MemoryStore) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, w := range s.windows {
		if now.Sub(w.start) >= maxIdle {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}
