package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/SafeClick/ScamShield/pkg/domain"
	"github.com/SafeClick/ScamShield/pkg/domain/session"
)

const sessionKeyPattern = "session:%s"

// RedisSessionRepository stores sessions as JSON with a TTL matching the
// session's remaining lifetime.
type RedisSessionRepository struct {
	client *redis.Client
}

func NewRedisSessionRepository(client *redis.Client) session.Repository {
	return &RedisSessionRepository{client: client}
}

func (r *RedisSessionRepository) Save(ctx context.Context, s *session.Session) error {
	sessionJSON, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Hour
	}

	key := fmt.Sprintf(sessionKeyPattern, s.ID)
	return r.client.Set(ctx, key, sessionJSON, ttl).Err()
}

func (r *RedisSessionRepository) GetByID(ctx context.Context, sessionID string) (*session.Session, error) {
	key := fmt.Sprintf(sessionKeyPattern, sessionID)

	sessionJSON, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, domain.NewNotFoundError("session", sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal([]byte(sessionJSON), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf(sessionKeyPattern, sessionID)
	return r.client.Del(ctx, key).Err()
}
