package csrf_guard

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"

	"github.com/SafeClick/ScamShield/pkg/guardiface"
	"github.com/SafeClick/ScamShield/pkg/types"
)

const (
	GuardName = "csrf_guard"

	// TokenHeader carries the supplied token on state-changing requests.
	TokenHeader = "X-Csrf-Token"

	defaultErrorMessage = "Invalid CSRF token"
)

type Config struct {
	// Header overrides the default token header name.
	Header       string `mapstructure:"header"`
	ErrorMessage string `mapstructure:"error_message"`
}

type CsrfGuard struct {
	protocol *Protocol
	logger   *logrus.Logger
}

func NewCsrfGuard(protocol *Protocol, logger *logrus.Logger) guardiface.Guard {
	return &CsrfGuard{protocol: protocol, logger: logger}
}

func (g *CsrfGuard) Name() string {
	return GuardName
}

func (g *CsrfGuard) ValidateConfig(cfg types.GuardConfig) error {
	var c Config
	if err := mapstructure.Decode(cfg.Settings, &c); err != nil {
		return fmt.Errorf("failed to decode config: %v", err)
	}
	return nil
}

func (g *CsrfGuard) Execute(
	ctx context.Context,
	cfg types.GuardConfig,
	req *types.RequestContext,
	_ *types.ResponseContext,
) (*types.GuardResponse, error) {
	var c Config
	if err := mapstructure.Decode(cfg.Settings, &c); err != nil {
		return nil, fmt.Errorf("invalid csrf guard config: %w", err)
	}
	if c.Header == "" {
		c.Header = TokenHeader
	}
	if c.ErrorMessage == "" {
		c.ErrorMessage = defaultErrorMessage
	}

	// Read-only methods carry no state change to forge.
	if !isStateChanging(req.Method) {
		return nil, nil
	}

	supplied := headerValue(req.Headers, c.Header)

	if !g.protocol.Verify(ctx, req.SessionID, supplied) {
		// The token value itself is never logged.
		g.logger.WithFields(logrus.Fields{
			"guard":     GuardName,
			"method":    req.Method,
			"path":      req.Path,
			"has_token": supplied != "",
		}).Warn("csrf verification failed")

		return nil, &types.GuardError{
			StatusCode: http.StatusForbidden,
			Message:    c.ErrorMessage,
			Err:        errors.New("csrf token mismatch"),
		}
	}

	return nil, nil
}

func isStateChanging(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func headerValue(headers map[string][]string, name string) string {
	if vs := headers[name]; len(vs) > 0 {
		return vs[0]
	}
	// Header maps arriving from net/http are canonicalized; fall back to
	// the canonical spelling before giving up.
	if vs := headers[http.CanonicalHeaderKey(name)]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}
