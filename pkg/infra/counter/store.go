// Package counter holds the shared fixed-window counter state used by the
// rate-limit guard. State is behind an explicit Store so deployments can
// pick process-local or redis-backed counting and tests can inject a clock.
package counter

import (
	"context"
	"time"
)

// Window is the per (identity, route class) counter snapshot after an
// increment.
type Window struct {
	Count    int64
	Start    time.Time
	Duration time.Duration
}

// Store increments the window for key, starting a fresh window when none
// exists or the current one has expired. Count is capped at limitCap: the
// request that trips the limit is counted, requests past that point are
// observed but not accumulated. Implementations must serialize increments
// per key.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration, limitCap int64) (Window, error)
}
