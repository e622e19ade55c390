package rate_limiter

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"

	"github.com/SafeClick/ScamShield/pkg/guardiface"
	"github.com/SafeClick/ScamShield/pkg/infra/counter"
	"github.com/SafeClick/ScamShield/pkg/types"
)

const (
	GuardName = "rate_limiter"

	keyPattern = "ratelimit:%s:%s"

	defaultErrorMessage = "Too many requests. Please try again later."
)

type Config struct {
	Limit        int    `mapstructure:"limit"`
	Window       string `mapstructure:"window"`
	ErrorMessage string `mapstructure:"error_message"`
}

type RateLimiterGuard struct {
	store        counter.Store
	logger       *logrus.Logger
	timeProvider func() time.Time
}

type Opts struct {
	TimeProvider func() time.Time
}

func NewRateLimiterGuard(store counter.Store, logger *logrus.Logger, opts *Opts) guardiface.Guard {
	timeProvider := time.Now
	if opts != nil && opts.TimeProvider != nil {
		timeProvider = opts.TimeProvider
	}
	return &RateLimiterGuard{
		store:        store,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

func (g *RateLimiterGuard) Name() string {
	return GuardName
}

func (g *RateLimiterGuard) ValidateConfig(cfg types.GuardConfig) error {
	var c Config
	if err := mapstructure.Decode(cfg.Settings, &c); err != nil {
		return fmt.Errorf("failed to decode config: %v", err)
	}
	if c.Limit <= 0 {
		return fmt.Errorf("rate limiter requires a positive 'limit' value")
	}
	if c.Window == "" {
		return fmt.Errorf("rate limiter requires a 'window' configuration")
	}
	if _, err := time.ParseDuration(c.Window); err != nil {
		return fmt.Errorf("invalid window format: %v", err)
	}
	return nil
}

func (g *RateLimiterGuard) Execute(
	ctx context.Context,
	cfg types.GuardConfig,
	req *types.RequestContext,
	resp *types.ResponseContext,
) (*types.GuardResponse, error) {
	var c Config
	if err := mapstructure.Decode(cfg.Settings, &c); err != nil {
		return nil, fmt.Errorf("invalid rate limiter config: %w", err)
	}
	if c.ErrorMessage == "" {
		c.ErrorMessage = defaultErrorMessage
	}

	window, err := time.ParseDuration(c.Window)
	if err != nil {
		return nil, fmt.Errorf("invalid window duration: %w", err)
	}

	key := fmt.Sprintf(keyPattern, req.RouteClass, req.Identity)

	// The tripping request is counted, so the stored count tops out at
	// limit+1 and stays there for the rest of the window.
	w, err := g.store.Incr(ctx, key, window, int64(c.Limit)+1)
	if err != nil {
		return nil, fmt.Errorf("failed to increment rate window: %w", err)
	}

	remaining := int64(c.Limit) - w.Count
	if remaining < 0 {
		remaining = 0
	}
	resp.Headers["X-RateLimit-Limit"] = []string{strconv.Itoa(c.Limit)}
	resp.Headers["X-RateLimit-Remaining"] = []string{strconv.FormatInt(remaining, 10)}
	resp.Headers["X-RateLimit-Reset"] = []string{strconv.FormatInt(w.Start.Add(window).Unix(), 10)}

	if w.Count <= int64(c.Limit) {
		resp.Metadata["rate_limit"] = RateLimiterData{
			Exceeded:   false,
			RouteClass: string(req.RouteClass),
			Limit:      c.Limit,
			Count:      w.Count,
			Window:     window.String(),
		}
		return nil, nil
	}

	retryAfter := retryAfterSeconds(g.timeProvider(), w.Start, window)
	resp.Headers["Retry-After"] = []string{strconv.Itoa(retryAfter)}
	resp.Metadata["retry_after_seconds"] = retryAfter
	resp.Metadata["rate_limit"] = RateLimiterData{
		Exceeded:   true,
		RouteClass: string(req.RouteClass),
		Limit:      c.Limit,
		Count:      w.Count,
		Window:     window.String(),
		RetryAfter: retryAfter,
	}

	g.logger.WithFields(logrus.Fields{
		"guard":       GuardName,
		"route_class": req.RouteClass,
		"identity":    req.Identity,
		"limit":       c.Limit,
		"retry_after": retryAfter,
	}).Warn("rate limit exceeded")

	return nil, &types.GuardError{
		StatusCode: http.StatusTooManyRequests,
		Message:    c.ErrorMessage,
		Err:        fmt.Errorf("retry after %d seconds", retryAfter),
	}
}

// retryAfterSeconds is ceil(remaining window / 1s), never below 1 so the
// denial always carries an actionable delay.
func retryAfterSeconds(now, start time.Time, window time.Duration) int {
	remaining := start.Add(window).Sub(now)
	if remaining <= 0 {
		return 1
	}
	secs := int((remaining + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
