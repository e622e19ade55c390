package validation

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 30
	emailMaxLen    = 254
	passwordMinLen = 8
	passwordMaxLen = 128
	urlMaxLen      = 2048
)

// ValidateUsername applies the username rules and reports every violated
// rule, not just the first, so the UI can show all problems at once.
func ValidateUsername(s string) Result {
	res := Result{IsValid: true}

	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		res.fail(MsgUsernameRequired)
		return res
	}

	n := utf8.RuneCountInString(trimmed)
	if n < usernameMinLen {
		res.fail(MsgUsernameTooShort)
	}
	if n > usernameMaxLen {
		res.fail(MsgUsernameTooLong)
	}

	for _, r := range trimmed {
		if !isUsernameRune(r) {
			res.fail(MsgUsernameCharset)
			break
		}
	}

	if strings.HasPrefix(trimmed, "-") || strings.HasSuffix(trimmed, "-") {
		res.fail(MsgUsernameHyphen)
	}
	if strings.HasPrefix(trimmed, "_") || strings.HasSuffix(trimmed, "_") {
		res.fail(MsgUsernameUnderscore)
	}

	return res
}

func isUsernameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	}
	return false
}

// ValidateEmail checks the local@domain.tld shape. The length check runs
// before any per-character scanning so oversized input stays cheap.
func ValidateEmail(s string) Result {
	res := Result{IsValid: true}

	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		res.fail(MsgEmailRequired)
		return res
	}

	if utf8.RuneCountInString(trimmed) > emailMaxLen {
		res.fail(MsgEmailTooLong)
		return res
	}

	if !emailShapeOK(trimmed) {
		res.fail(MsgEmailInvalid)
	}

	return res
}

func emailShapeOK(s string) bool {
	if strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	if strings.Count(s, "@") != 1 {
		return false
	}
	at := strings.Index(s, "@")
	local, domain := s[:at], s[at+1:]
	if local == "" || domain == "" {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}
	if strings.Contains(s, "..") {
		return false
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	return true
}

// ValidatePassword applies the password policy. Strength is computed
// independently of pass/fail so a failing password still gets a meter value.
func ValidatePassword(s string) Result {
	res := Result{IsValid: true}

	if s == "" {
		res.fail(MsgPasswordRequired)
		st := ScorePassword(s)
		res.Strength = &st
		return res
	}

	n := utf8.RuneCountInString(s)
	if n < passwordMinLen {
		res.fail(MsgPasswordTooShort)
	}
	if n > passwordMaxLen {
		res.fail(MsgPasswordTooLong)
		st := ScorePassword(s)
		res.Strength = &st
		return res
	}

	if _, common := commonPasswords[strings.ToLower(s)]; common {
		res.fail(MsgPasswordCommon)
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
	if !hasUpper {
		res.fail(MsgPasswordUppercase)
	}
	if !hasLower {
		res.fail(MsgPasswordLowercase)
	}
	if !hasDigit {
		res.fail(MsgPasswordDigit)
	}
	if !hasSpecial {
		res.fail(MsgPasswordSpecial)
	}

	if hasRepeatedRun(s, 3) {
		res.fail(MsgPasswordRepeats)
	}

	st := ScorePassword(s)
	res.Strength = &st
	return res
}

// hasRepeatedRun reports whether s contains n or more identical consecutive
// runes.
func hasRepeatedRun(s string, n int) bool {
	var prev rune
	count := 0
	for _, r := range s {
		if r == prev {
			count++
			if count >= n {
				return true
			}
		} else {
			prev = r
			count = 1
		}
	}
	return false
}

// ValidateURL checks scheme and length. Independent of validity, a known
// URL-shortener host appends an advisory warning; this is the only entry
// that may appear alongside IsValid=true.
func ValidateURL(s string) Result {
	res := Result{IsValid: true}

	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		res.fail(MsgURLRequired)
		return res
	}

	if utf8.RuneCountInString(trimmed) > urlMaxLen {
		res.fail(MsgURLTooLong)
		return res
	}

	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		res.fail(MsgURLScheme)
	}

	if host := hostOf(trimmed); host != "" {
		if _, shortened := shortenerDomains[host]; shortened {
			res.advise(MsgURLShortened)
		}
	}

	return res
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
