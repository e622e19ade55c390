package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SafeClick/ScamShield/pkg/common"
)

// payloadFrom returns the JSON payload the defense middleware parsed and
// stored in the fiber context. Text fields in it are already sanitized.
func payloadFrom(c *fiber.Ctx) map[string]interface{} {
	payload, ok := c.Locals(string(common.PayloadContextKey)).(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return payload
}

func payloadString(payload map[string]interface{}, key string) string {
	v, ok := payload[key].(string)
	if !ok {
		return ""
	}
	return v
}

func sessionIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals(string(common.SessionContextKey)).(string)
	return id
}
