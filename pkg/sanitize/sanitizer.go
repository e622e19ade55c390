// Package sanitize neutralizes markup in user-supplied free text. It is
// structural (parse-and-strip via an allow-list policy), not signature
// based, so equivalent-encoding bypasses of a substring denylist do not
// apply.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// MaxLength caps sanitized output; excess is truncated, never an error.
const MaxLength = 10000

// strict strips every element and attribute, keeping only text content.
// Policies are safe for concurrent use once built.
var strict = bluemonday.StrictPolicy()

// dangerousSchemes are removed from the remaining text content. Tag-borne
// occurrences are already gone after the policy pass; this covers payloads
// smuggled as plain text.
var dangerousSchemes = []string{
	"javascript:",
	"vbscript:",
	"data:text/html",
	"data:application/javascript",
}

// Text sanitizes s. Idempotent: Text(Text(s)) == Text(s). Plain text and
// ordinary punctuation pass through unchanged.
func Text(s string) string {
	if s == "" {
		return ""
	}

	// The policy entity-escapes the text it keeps, so its output is decoded
	// back to plain text. Decoding can uncover markup that arrived
	// entity-encoded, so the strip-decode cycle repeats until the text is
	// stable; a single pass would let "&lt;script&gt;" through as a live
	// tag.
	out := s
	for {
		next := html.UnescapeString(strict.Sanitize(out))
		next = stripSchemes(next)
		if next == out {
			break
		}
		out = next
	}
	return truncate(out, MaxLength)
}

// stripSchemes removes dangerous scheme tokens until none remain, so that
// removals cannot splice a new token together ("javajavascript:script:").
func stripSchemes(s string) string {
	for {
		changed := false
		lower := strings.ToLower(s)
		for _, scheme := range dangerousSchemes {
			idx := strings.Index(lower, scheme)
			if idx < 0 {
				continue
			}
			s = s[:idx] + s[idx+len(scheme):]
			lower = strings.ToLower(s)
			changed = true
		}
		if !changed {
			return s
		}
	}
}

// truncate cuts s to max runes. The cut happens after entity decoding, so
// it cannot split an escape sequence.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
