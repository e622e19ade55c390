package validation

// Result is the outcome of validating one field. Errors are ordered by rule
// evaluation order; the message strings are a stable contract consumed by
// the client layer and must not change.
//
// IsValid reflects hard-rule failures only. Advisory entries (currently the
// shortened-URL warning) are appended to Errors without flipping IsValid.
type Result struct {
	IsValid  bool      `json:"isValid"`
	Errors   []string  `json:"errors"`
	Strength *Strength `json:"strength,omitempty"`
}

func (r *Result) fail(msg string) {
	r.IsValid = false
	r.Errors = append(r.Errors, msg)
}

func (r *Result) advise(msg string) {
	r.Errors = append(r.Errors, msg)
}

// Strength is the 0-5 password strength assessment. It is computed even for
// passwords that fail validation, so the UI can always render a meter.
type Strength struct {
	Score       int    `json:"score"`
	Level       int    `json:"level"`
	Description string `json:"description"`
}
