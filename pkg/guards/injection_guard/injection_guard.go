package injection_guard

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"

	"github.com/SafeClick/ScamShield/pkg/guardiface"
	"github.com/SafeClick/ScamShield/pkg/types"
)

const (
	GuardName = "injection_guard"

	defaultMaxDepth     = 32
	defaultErrorMessage = "Request contains forbidden query operators"
)

type Config struct {
	// AdditionalKeys extends the built-in operator denylist. Entries are
	// given without the '$' sentinel.
	AdditionalKeys []string `mapstructure:"additional_keys"`
	MaxDepth       int      `mapstructure:"max_depth"`
	StatusCode     int      `mapstructure:"status_code"`
	ErrorMessage   string   `mapstructure:"error_message"`
}

// ScanResult reports whether a payload is free of operator-shaped keys and,
// when it is not, the path of field names leading to the offender.
type ScanResult struct {
	Clean         bool
	OffendingPath []string
}

type InjectionGuard struct {
	logger *logrus.Logger
}

func NewInjectionGuard(logger *logrus.Logger) guardiface.Guard {
	return &InjectionGuard{logger: logger}
}

func (g *InjectionGuard) Name() string {
	return GuardName
}

func (g *InjectionGuard) ValidateConfig(cfg types.GuardConfig) error {
	var c Config
	if err := mapstructure.Decode(cfg.Settings, &c); err != nil {
		return fmt.Errorf("failed to decode config: %v", err)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative")
	}
	if c.StatusCode != 0 && (c.StatusCode < 100 || c.StatusCode > 599) {
		return fmt.Errorf("invalid status code: %d", c.StatusCode)
	}
	for _, key := range c.AdditionalKeys {
		if key == "" {
			return fmt.Errorf("additional key cannot be empty")
		}
	}
	return nil
}

func (g *InjectionGuard) Execute(
	_ context.Context,
	cfg types.GuardConfig,
	req *types.RequestContext,
	resp *types.ResponseContext,
) (*types.GuardResponse, error) {
	var c Config
	if err := mapstructure.Decode(cfg.Settings, &c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %v", err)
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = defaultMaxDepth
	}
	if c.StatusCode == 0 {
		c.StatusCode = http.StatusBadRequest
	}
	if c.ErrorMessage == "" {
		c.ErrorMessage = defaultErrorMessage
	}

	extra := make(map[string]struct{}, len(c.AdditionalKeys))
	for _, key := range c.AdditionalKeys {
		extra[key] = struct{}{}
	}

	result := Scan(req.Payload, c.MaxDepth, extra)
	resp.Metadata["injection_scan"] = InjectionGuardData{
		Clean:         result.Clean,
		OffendingPath: result.OffendingPath,
	}

	if !result.Clean {
		g.logger.WithFields(logrus.Fields{
			"guard":          GuardName,
			"offending_path": strings.Join(result.OffendingPath, "."),
			"identity":       req.Identity,
		}).Warn("operator key detected in payload")

		return nil, &types.GuardError{
			StatusCode: c.StatusCode,
			Message:    c.ErrorMessage,
			Err:        fmt.Errorf("operator key at %s", strings.Join(result.OffendingPath, ".")),
		}
	}

	return &types.GuardResponse{
		StatusCode: http.StatusOK,
		Message:    "payload checked successfully",
	}, nil
}

// Scan walks payload and returns the first operator-shaped key found.
// Traversal is depth-capped; exceeding the cap counts as a finding (fail
// closed) so a hostile deeply-nested body cannot force unbounded work.
func Scan(payload map[string]interface{}, maxDepth int, extra map[string]struct{}) ScanResult {
	if path, found := scanValue(payload, nil, maxDepth, extra); found {
		return ScanResult{Clean: false, OffendingPath: path}
	}
	return ScanResult{Clean: true}
}

func scanValue(value interface{}, path []string, depth int, extra map[string]struct{}) ([]string, bool) {
	if depth < 0 {
		return append(path, "..."), true
	}

	switch v := value.(type) {
	case map[string]interface{}:
		for key, child := range v {
			if isOperatorKey(key, extra) {
				return append(path, key), true
			}
			if found, ok := scanValue(child, append(path, key), depth-1, extra); ok {
				return found, true
			}
		}
	case []interface{}:
		for i, item := range v {
			if found, ok := scanValue(item, append(path, strconv.Itoa(i)), depth-1, extra); ok {
				return found, true
			}
		}
	}
	return nil, false
}

func isOperatorKey(key string, extra map[string]struct{}) bool {
	if !strings.HasPrefix(key, "$") {
		return false
	}
	name := key[1:]
	if _, ok := operatorKeys[name]; ok {
		return true
	}
	_, ok := extra[name]
	return ok
}
