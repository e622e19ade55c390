package validation

import (
	"strings"
	"unicode/utf8"
)

// ScorePassword computes the 0-5 strength level. Scoring is additive and
// deliberately simple: length milestones and character classes add a point
// each, repeated runs and keyboard sequences subtract one. The raw score may
// go negative before clamping.
func ScorePassword(s string) Strength {
	score := 0

	n := utf8.RuneCountInString(s)
	if n >= 8 {
		score++
	}
	if n >= 12 {
		score++
	}
	if n >= 16 {
		score++
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}
	if hasUpper {
		score++
	}
	if hasLower {
		score++
	}
	if hasDigit {
		score++
	}
	if hasSpecial {
		score++
	}

	if hasRepeatedRun(s, 3) {
		score--
	}
	if hasSequentialPattern(s) {
		score--
	}

	level := score
	if level < 0 {
		level = 0
	}
	if level > 5 {
		level = 5
	}

	return Strength{
		Score:       score,
		Level:       level,
		Description: strengthLabels[level],
	}
}

// hasSequentialPattern reports whether the lowered password contains any
// 3-character window of a known alphabet or keyboard run ("abc", "123",
// "qwe", ...).
func hasSequentialPattern(s string) bool {
	lower := strings.ToLower(s)
	for _, run := range sequentialRuns {
		for i := 0; i+3 <= len(run); i++ {
			if strings.Contains(lower, run[i:i+3]) {
				return true
			}
		}
	}
	return false
}
