package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/SafeClick/ScamShield/pkg/common"
	"github.com/SafeClick/ScamShield/pkg/domain/session"
	"github.com/SafeClick/ScamShield/pkg/guards/csrf_guard"
)

type logoutHandler struct {
	logger   *logrus.Logger
	sessions session.Repository
	csrf     *csrf_guard.Protocol
}

func NewLogoutHandler(logger *logrus.Logger, sessions session.Repository, csrf *csrf_guard.Protocol) Handler {
	return &logoutHandler{
		logger:   logger,
		sessions: sessions,
		csrf:     csrf,
	}
}

func (h *logoutHandler) Handle(c *fiber.Ctx) error {
	sessionID := sessionIDFrom(c)
	if sessionID != "" {
		if err := h.csrf.Revoke(c.UserContext(), sessionID); err != nil {
			h.logger.WithError(err).Warn("failed to revoke csrf token")
		}
		if err := h.sessions.Delete(c.UserContext(), sessionID); err != nil {
			h.logger.WithError(err).Warn("failed to delete session")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		Path:     "/",
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out",
	})
}
