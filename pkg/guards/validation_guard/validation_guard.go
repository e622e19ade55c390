package validation_guard

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"

	"github.com/SafeClick/ScamShield/pkg/guardiface"
	"github.com/SafeClick/ScamShield/pkg/types"
	"github.com/SafeClick/ScamShield/pkg/validation"
)

const (
	GuardName = "validation_guard"

	defaultErrorMessage = "Validation failed"
)

type Config struct {
	// Fields maps payload field names to their validation rule set
	// (username, email, password, url, text). A trailing '?' marks the
	// field optional: absent or empty values skip its rules.
	Fields map[string]string `mapstructure:"fields"`
	// Routes maps request paths to their own field set, for chains that
	// cover endpoints with different payloads. A path missing from the
	// map falls back to Fields; empty Fields means no validation there.
	Routes       map[string]map[string]string `mapstructure:"routes"`
	ErrorMessage string                       `mapstructure:"error_message"`
}

type ValidationGuard struct {
	logger *logrus.Logger
}

func NewValidationGuard(logger *logrus.Logger) guardiface.Guard {
	return &ValidationGuard{logger: logger}
}

func (g *ValidationGuard) Name() string {
	return GuardName
}

func (g *ValidationGuard) ValidateConfig(cfg types.GuardConfig) error {
	var c Config
	if err := mapstructure.Decode(cfg.Settings, &c); err != nil {
		return fmt.Errorf("failed to decode config: %v", err)
	}
	if len(c.Fields) == 0 && len(c.Routes) == 0 {
		return fmt.Errorf("validation guard requires a 'fields' or 'routes' configuration")
	}
	if err := checkFieldTypes(c.Fields); err != nil {
		return err
	}
	for path, fields := range c.Routes {
		if len(fields) == 0 {
			return fmt.Errorf("route %q has an empty field set", path)
		}
		if err := checkFieldTypes(fields); err != nil {
			return err
		}
	}
	return nil
}

func checkFieldTypes(fields map[string]string) error {
	for field, spec := range fields {
		fieldType, _ := parseFieldSpec(spec)
		switch fieldType {
		case validation.FieldUsername, validation.FieldEmail, validation.FieldPassword,
			validation.FieldURL, validation.FieldText:
		default:
			return fmt.Errorf("unknown field type %q for field %q", spec, field)
		}
	}
	return nil
}

func parseFieldSpec(spec string) (validation.FieldType, bool) {
	optional := strings.HasSuffix(spec, "?")
	return validation.FieldType(strings.TrimSuffix(spec, "?")), optional
}

func (g *ValidationGuard) Execute(
	_ context.Context,
	cfg types.GuardConfig,
	req *types.RequestContext,
	resp *types.ResponseContext,
) (*types.GuardResponse, error) {
	var c Config
	if err := mapstructure.Decode(cfg.Settings, &c); err != nil {
		return nil, fmt.Errorf("invalid validation guard config: %w", err)
	}
	if c.ErrorMessage == "" {
		c.ErrorMessage = defaultErrorMessage
	}

	fields := c.Fields
	// "METHOD path" keys win over bare path keys.
	if routeFields, ok := c.Routes[req.Method+" "+req.Path]; ok {
		fields = routeFields
	} else if routeFields, ok := c.Routes[req.Path]; ok {
		fields = routeFields
	}
	if len(fields) == 0 {
		return nil, nil
	}

	fieldErrors := make(map[string][]string)
	results := make(map[string]validation.Result, len(fields))

	// Deterministic field order keeps error payloads stable across calls.
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	failed := false
	for _, name := range names {
		fieldType, optional := parseFieldSpec(fields[name])
		value := req.Payload[name]

		if optional && isAbsent(value) {
			continue
		}

		res := validation.ValidateValue(fieldType, value)
		results[name] = res

		if !res.IsValid {
			failed = true
		}
		if len(res.Errors) > 0 {
			fieldErrors[name] = res.Errors
		}

		// Free-text fields are sanitized in place so downstream handlers
		// only ever see neutralized markup.
		if fieldType == validation.FieldText {
			if s, ok := value.(string); ok {
				req.Payload[name] = validation.Sanitize(s)
			}
		}
	}

	resp.Metadata["validation_results"] = results
	resp.Metadata["validation_errors"] = fieldErrors

	if failed {
		g.logger.WithFields(logrus.Fields{
			"guard":  GuardName,
			"path":   req.Path,
			"fields": len(fieldErrors),
		}).Debug("field validation failed")

		return nil, &types.GuardError{
			StatusCode: http.StatusBadRequest,
			Message:    c.ErrorMessage,
			Err:        fmt.Errorf("%d field(s) failed validation", len(fieldErrors)),
		}
	}

	return nil, nil
}

func isAbsent(value interface{}) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && strings.TrimSpace(s) == ""
}
