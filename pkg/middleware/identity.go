package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/SafeClick/ScamShield/pkg/common"
)

// ipHeaders are tried in order of preference before falling back to the
// connection address.
var ipHeaders = []string{
	"X-Real-IP",
	"X-Forwarded-For",
	"True-Client-IP",
	"CF-Connecting-IP",
}

// ClientIdentity derives the caller-distinguishing key for rate limiting.
func ClientIdentity(c *fiber.Ctx) string {
	for _, header := range ipHeaders {
		if v := c.Get(header); v != "" {
			// X-Forwarded-For may carry a chain; the first hop is the client.
			if idx := strings.Index(v, ","); idx >= 0 {
				v = v[:idx]
			}
			return strings.TrimSpace(v)
		}
	}
	return c.IP()
}

// SessionID reads the session identifier issued by the auth backend, from
// cookie first, header as fallback. Empty when the caller has no session.
func SessionID(c *fiber.Ctx) string {
	if id := c.Cookies(common.SessionCookieName); id != "" {
		return id
	}
	return c.Get(common.SessionHeader)
}
