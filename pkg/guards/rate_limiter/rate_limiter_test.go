package rate_limiter_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SafeClick/ScamShield/pkg/guards/rate_limiter"
	"github.com/SafeClick/ScamShield/pkg/infra/counter"
	"github.com/SafeClick/ScamShield/pkg/types"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func authConfig(limit int) types.GuardConfig {
	return types.GuardConfig{
		ID:      "auth-rate-limiter",
		Name:    rate_limiter.GuardName,
		Enabled: true,
		Settings: map[string]interface{}{
			"limit":  limit,
			"window": "1m",
		},
	}
}

func newRequest(identity string) (*types.RequestContext, *types.ResponseContext) {
	req := &types.RequestContext{
		Method:     http.MethodPost,
		Path:       "/api/auth/login",
		Identity:   identity,
		RouteClass: types.RouteClassAuth,
	}
	resp := &types.ResponseContext{
		Headers:  make(map[string][]string),
		Metadata: make(map[string]interface{}),
	}
	return req, resp
}

func TestRateLimiterGuard_AllowsWithinLimit(t *testing.T) {
	now := time.Unix(1740730536, 0)
	clock := func() time.Time { return now }
	store := counter.NewMemoryStore(clock)
	guard := rate_limiter.NewRateLimiterGuard(store, testLogger(), &rate_limiter.Opts{TimeProvider: clock})

	for i := 0; i < 5; i++ {
		req, resp := newRequest("1.2.3.4")
		guardResp, err := guard.Execute(context.Background(), authConfig(5), req, resp)
		assert.NoError(t, err)
		assert.Nil(t, guardResp)
	}
}

func TestRateLimiterGuard_SixthRequestDenied(t *testing.T) {
	now := time.Unix(1740730536, 0)
	clock := func() time.Time { return now }
	store := counter.NewMemoryStore(clock)
	guard := rate_limiter.NewRateLimiterGuard(store, testLogger(), &rate_limiter.Opts{TimeProvider: clock})

	for i := 0; i < 5; i++ {
		req, resp := newRequest("1.2.3.4")
		_, err := guard.Execute(context.Background(), authConfig(5), req, resp)
		require.NoError(t, err)
	}

	req, resp := newRequest("1.2.3.4")
	_, err := guard.Execute(context.Background(), authConfig(5), req, resp)
	require.Error(t, err)

	var guardErr *types.GuardError
	require.True(t, errors.As(err, &guardErr))
	assert.Equal(t, http.StatusTooManyRequests, guardErr.StatusCode)
	assert.Equal(t, "Too many requests. Please try again later.", guardErr.Message)

	retryAfter, ok := resp.Metadata["retry_after_seconds"].(int)
	require.True(t, ok)
	assert.Greater(t, retryAfter, 0)
	assert.Equal(t, []string{"60"}, resp.Headers["Retry-After"])
}

func TestRateLimiterGuard_RetryAfterShrinksWithinWindow(t *testing.T) {
	now := time.Unix(1740730536, 0)
	clock := func() time.Time { return now }
	store := counter.NewMemoryStore(clock)
	guard := rate_limiter.NewRateLimiterGuard(store, testLogger(), &rate_limiter.Opts{TimeProvider: clock})

	for i := 0; i < 6; i++ {
		req, resp := newRequest("1.2.3.4")
		_, _ = guard.Execute(context.Background(), authConfig(5), req, resp)
	}

	now = now.Add(45 * time.Second)
	req, resp := newRequest("1.2.3.4")
	_, err := guard.Execute(context.Background(), authConfig(5), req, resp)
	require.Error(t, err)
	assert.Equal(t, 15, resp.Metadata["retry_after_seconds"])
}

func TestRateLimiterGuard_WindowResetRestoresBudget(t *testing.T) {
	now := time.Unix(1740730536, 0)
	clock := func() time.Time { return now }
	store := counter.NewMemoryStore(clock)
	guard := rate_limiter.NewRateLimiterGuard(store, testLogger(), &rate_limiter.Opts{TimeProvider: clock})

	for i := 0; i < 6; i++ {
		req, resp := newRequest("1.2.3.4")
		_, _ = guard.Execute(context.Background(), authConfig(5), req, resp)
	}

	now = now.Add(time.Minute)
	req, resp := newRequest("1.2.3.4")
	_, err := guard.Execute(context.Background(), authConfig(5), req, resp)
	assert.NoError(t, err)
	assert.Equal(t, []string{"4"}, resp.Headers["X-RateLimit-Remaining"])
}

func TestRateLimiterGuard_IdentitiesAreIndependent(t *testing.T) {
	now := time.Unix(1740730536, 0)
	clock := func() time.Time { return now }
	store := counter.NewMemoryStore(clock)
	guard := rate_limiter.NewRateLimiterGuard(store, testLogger(), &rate_limiter.Opts{TimeProvider: clock})

	for i := 0; i < 6; i++ {
		req, resp := newRequest("1.2.3.4")
		_, _ = guard.Execute(context.Background(), authConfig(5), req, resp)
	}

	req, resp := newRequest("5.6.7.8")
	_, err := guard.Execute(context.Background(), authConfig(5), req, resp)
	assert.NoError(t, err)
}

func TestRateLimiterGuard_RateLimitHeadersAlwaysSet(t *testing.T) {
	now := time.Unix(1740730536, 0)
	clock := func() time.Time { return now }
	store := counter.NewMemoryStore(clock)
	guard := rate_limiter.NewRateLimiterGuard(store, testLogger(), &rate_limiter.Opts{TimeProvider: clock})

	req, resp := newRequest("1.2.3.4")
	_, err := guard.Execute(context.Background(), authConfig(5), req, resp)
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, resp.Headers["X-RateLimit-Limit"])
	assert.Equal(t, []string{"4"}, resp.Headers["X-RateLimit-Remaining"])
	assert.NotEmpty(t, resp.Headers["X-RateLimit-Reset"])
}

func TestRateLimiterGuard_ValidateConfig(t *testing.T) {
	store := counter.NewMemoryStore(nil)
	guard := rate_limiter.NewRateLimiterGuard(store, testLogger(), nil)

	assert.NoError(t, guard.ValidateConfig(authConfig(5)))
	assert.Error(t, guard.ValidateConfig(types.GuardConfig{
		Settings: map[string]interface{}{"limit": 0, "window": "1m"},
	}))
	assert.Error(t, guard.ValidateConfig(types.GuardConfig{
		Settings: map[string]interface{}{"limit": 5, "window": "bogus"},
	}))
}
