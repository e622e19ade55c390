package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SafeClick/ScamShield/pkg/common"
	"github.com/SafeClick/ScamShield/pkg/guards/csrf_guard"
)

type csrfTokenHandler struct {
	logger       *logrus.Logger
	csrf         *csrf_guard.Protocol
	sessionTTL   time.Duration
	cookieSecure bool
}

func NewCsrfTokenHandler(
	logger *logrus.Logger,
	csrf *csrf_guard.Protocol,
	sessionTTL time.Duration,
	cookieSecure bool,
) Handler {
	return &csrfTokenHandler{
		logger:       logger,
		csrf:         csrf,
		sessionTTL:   sessionTTL,
		cookieSecure: cookieSecure,
	}
}

// Handle returns the CSRF token for the caller's session. Callers without a
// session get an anonymous one, so register and login can carry a token too.
func (h *csrfTokenHandler) Handle(c *fiber.Ctx) error {
	sessionID := sessionIDFrom(c)
	if sessionID == "" {
		sessionID = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     common.SessionCookieName,
			Value:    sessionID,
			Expires:  time.Now().Add(h.sessionTTL),
			HTTPOnly: true,
			Secure:   h.cookieSecure,
			SameSite: fiber.CookieSameSiteLaxMode,
			Path:     "/",
		})
	}

	token, err := h.csrf.Issue(c.UserContext(), sessionID)
	if err != nil {
		h.logger.WithError(err).Error("failed to issue csrf token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to issue CSRF token",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"csrfToken": token,
	})
}
