package counter

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore is a Store shared across processes. Redis keys carry the
// window TTL themselves, so expiry doubles as garbage collection.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, now func() time.Time) *RedisStore {
	if now == nil {
		now = time.Now
	}
	return &RedisStore{client: client, now: now}
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration, limitCap int64) (Window, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return Window{}, fmt.Errorf("failed to increment window %s: %w", key, err)
	}

	if count == 1 {
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return Window{}, fmt.Errorf("failed to set window expiry for %s: %w", key, err)
		}
	}

	if count > limitCap {
		// Hold the counter at the cap; the request is still denied by the
		// caller, only the stored count stops growing.
		if err := s.client.Decr(ctx, key).Err(); err != nil {
			return Window{}, fmt.Errorf("failed to clamp window %s: %w", key, err)
		}
		count = limitCap
	}

	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return Window{}, fmt.Errorf("failed to read window ttl for %s: %w", key, err)
	}
	if ttl < 0 {
		// Expiry was lost (e.g. the key predates a failed PExpire); restore
		// it rather than letting the window live forever.
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return Window{}, fmt.Errorf("failed to restore window expiry for %s: %w", key, err)
		}
		ttl = window
	}

	start := s.now().Add(ttl - window)
	return Window{Count: count, Start: start, Duration: window}, nil
}
