package validation

// Validation message strings. These are rendered verbatim by the client
// layer; changing any of them is a breaking API change.
const (
	MsgUsernameRequired   = "Username is required"
	MsgUsernameTooShort   = "Username must be at least 3 characters long"
	MsgUsernameTooLong    = "Username must be no more than 30 characters long"
	MsgUsernameCharset    = "Username can only contain letters, numbers, underscores, and hyphens"
	MsgUsernameHyphen     = "Username cannot start or end with a hyphen"
	MsgUsernameUnderscore = "Username cannot start or end with an underscore"

	MsgEmailRequired = "Email is required"
	MsgEmailTooLong  = "Email must be no more than 254 characters long"
	MsgEmailInvalid  = "Please enter a valid email address"

	MsgPasswordRequired  = "Password is required"
	MsgPasswordTooShort  = "Password must be at least 8 characters long"
	MsgPasswordTooLong   = "Password must be no more than 128 characters long"
	MsgPasswordCommon    = "This password is too common. Please choose a stronger one"
	MsgPasswordUppercase = "Password must contain at least one uppercase letter"
	MsgPasswordLowercase = "Password must contain at least one lowercase letter"
	MsgPasswordDigit     = "Password must contain at least one number"
	MsgPasswordSpecial   = "Password must contain at least one special character"
	MsgPasswordRepeats   = "Password cannot contain 3 or more repeated characters in a row"

	MsgURLRequired  = "URL is required"
	MsgURLScheme    = "URL must start with http:// or https://"
	MsgURLTooLong   = "URL must be no more than 2048 characters long"
	MsgURLShortened = "Warning: This appears to be a shortened URL. Proceed with caution."

	MsgFieldRequired = "This field is required"
)

// specialChars is the password special-character set.
const specialChars = `!@#$%^&*()_+-=[]{};':"\|,.<>/?` + "`~"

// commonPasswords is matched case-insensitively against the whole password.
var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"passw0rd":   {},
	"123456":     {},
	"1234567":    {},
	"12345678":   {},
	"123456789":  {},
	"1234567890": {},
	"qwerty":     {},
	"qwerty123":  {},
	"abc123":     {},
	"111111":     {},
	"123123":     {},
	"654321":     {},
	"letmein":    {},
	"welcome":    {},
	"monkey":     {},
	"dragon":     {},
	"master":     {},
	"shadow":     {},
	"superman":   {},
	"iloveyou":   {},
	"trustno1":   {},
	"sunshine":   {},
	"football":   {},
	"baseball":   {},
	"qazwsx":     {},
	"admin":      {},
	"login":      {},
}

// sequentialRuns are keyboard and alphabet runs scanned for the strength
// penalty. Any 3-character window of these counts as a sequential pattern.
var sequentialRuns = []string{
	"abcdefghijklmnopqrstuvwxyz",
	"0123456789",
	"qwertyuiop",
	"asdfghjkl",
	"zxcvbnm",
}

// shortenerDomains is the known URL-shortener denylist. A match produces an
// advisory warning, never a hard failure.
var shortenerDomains = map[string]struct{}{
	"bit.ly":      {},
	"bit.do":      {},
	"tinyurl.com": {},
	"goo.gl":      {},
	"t.co":        {},
	"ow.ly":       {},
	"is.gd":       {},
	"buff.ly":     {},
	"adf.ly":      {},
	"cutt.ly":     {},
	"rb.gy":       {},
	"tiny.cc":     {},
	"shorturl.at": {},
	"rebrand.ly":  {},
	"soo.gd":      {},
}

// strengthLabels maps level 0..5 to its fixed description.
var strengthLabels = [6]string{
	"Very Weak",
	"Weak",
	"Fair",
	"Good",
	"Strong",
	"Very Strong",
}
