package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const csrfKeyPattern = "csrf:%s"

// RedisStore shares token bindings across processes. The redis TTL enforces
// session-scoped expiry.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (string, error) {
	token, err := s.client.Get(ctx, fmt.Sprintf(csrfKeyPattern, sessionID)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load csrf binding: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, fmt.Sprintf(csrfKeyPattern, sessionID), token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store csrf binding: %w", err)
	}
	return nil
}

func (s *RedisStore) SetIfAbsent(ctx context.Context, sessionID, token string, ttl time.Duration) (string, error) {
	key := fmt.Sprintf(csrfKeyPattern, sessionID)
	for {
		stored, err := s.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return "", fmt.Errorf("failed to store csrf binding: %w", err)
		}
		if stored {
			return token, nil
		}

		existing, err := s.client.Get(ctx, key).Result()
		if err == redis.Nil {
			// Binding expired between SetNX and Get; claim again.
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to load csrf binding: %w", err)
		}
		return existing, nil
	}
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, fmt.Sprintf(csrfKeyPattern, sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete csrf binding: %w", err)
	}
	return nil
}
