// Package validation is the single source of truth for field validation
// rules and password strength scoring. The HTTP layer, the validation guard,
// and any other consumer import this package so the rules cannot drift
// between call sites.
package validation

import (
	"strings"

	"github.com/SafeClick/ScamShield/pkg/sanitize"
)

// FieldType selects which rule set Validate applies.
type FieldType string

const (
	FieldUsername FieldType = "username"
	FieldEmail    FieldType = "email"
	FieldPassword FieldType = "password"
	FieldURL      FieldType = "url"
	FieldText     FieldType = "text"
)

// Validate applies the rule set for field to value.
func Validate(field FieldType, value string) Result {
	switch field {
	case FieldUsername:
		return ValidateUsername(value)
	case FieldEmail:
		return ValidateEmail(value)
	case FieldPassword:
		return ValidatePassword(value)
	case FieldURL:
		return ValidateURL(value)
	default:
		return validateText(value)
	}
}

// ValidateValue accepts the raw payload value. Absent, null and non-string
// values are all treated as a missing required field and short-circuit
// without evaluating any further rules.
func ValidateValue(field FieldType, value interface{}) Result {
	s, ok := value.(string)
	if !ok {
		res := Result{IsValid: true}
		res.fail(requiredMessage(field))
		if field == FieldPassword {
			st := ScorePassword("")
			res.Strength = &st
		}
		return res
	}
	return Validate(field, s)
}

// Sanitize neutralizes markup in free text. Re-exported here so callers of
// the facade need only one import.
func Sanitize(text string) string {
	return sanitize.Text(text)
}

func validateText(value string) Result {
	res := Result{IsValid: true}
	if strings.TrimSpace(value) == "" {
		res.fail(MsgFieldRequired)
	}
	return res
}

func requiredMessage(field FieldType) string {
	switch field {
	case FieldUsername:
		return MsgUsernameRequired
	case FieldEmail:
		return MsgEmailRequired
	case FieldPassword:
		return MsgPasswordRequired
	case FieldURL:
		return MsgURLRequired
	default:
		return MsgFieldRequired
	}
}
