package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/SafeClick/ScamShield/pkg/common"
	"github.com/SafeClick/ScamShield/pkg/domain"
	"github.com/SafeClick/ScamShield/pkg/domain/account"
	"github.com/SafeClick/ScamShield/pkg/domain/session"
	"github.com/SafeClick/ScamShield/pkg/guards/csrf_guard"
)

type loginHandler struct {
	logger       *logrus.Logger
	accounts     account.Repository
	sessions     session.Repository
	csrf         *csrf_guard.Protocol
	sessionTTL   time.Duration
	cookieSecure bool
}

func NewLoginHandler(
	logger *logrus.Logger,
	accounts account.Repository,
	sessions session.Repository,
	csrf *csrf_guard.Protocol,
	sessionTTL time.Duration,
	cookieSecure bool,
) Handler {
	return &loginHandler{
		logger:       logger,
		accounts:     accounts,
		sessions:     sessions,
		csrf:         csrf,
		sessionTTL:   sessionTTL,
		cookieSecure: cookieSecure,
	}
}

func (h *loginHandler) Handle(c *fiber.Ctx) error {
	payload := payloadFrom(c)
	username := payloadString(payload, "username")
	password := payloadString(payload, "password")

	acc, err := h.accounts.GetByUsername(c.UserContext(), username)
	if err != nil || !acc.CheckPassword(password) {
		// Same response for unknown user and wrong password.
		h.logger.WithError(domain.ErrBadCredential).WithField("username", username).Debug("login rejected")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid username or password",
		})
	}

	// A fresh session ID on every login prevents session fixation; the
	// old session's CSRF token dies with the old session.
	if old := sessionIDFrom(c); old != "" {
		if err := h.csrf.Revoke(c.UserContext(), old); err != nil {
			h.logger.WithError(err).Warn("failed to revoke csrf token for previous session")
		}
		if err := h.sessions.Delete(c.UserContext(), old); err != nil {
			h.logger.WithError(err).Warn("failed to delete previous session")
		}
	}

	sess := session.NewSession(acc.ID, acc.Username, h.sessionTTL)
	if err := h.sessions.Save(c.UserContext(), sess); err != nil {
		h.logger.WithError(err).Error("failed to save session")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Login failed",
		})
	}

	csrfToken, err := h.csrf.Rotate(c.UserContext(), sess.ID)
	if err != nil {
		h.logger.WithError(err).Error("failed to rotate csrf token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Login failed",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     common.SessionCookieName,
		Value:    sess.ID,
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	h.logger.WithFields(logrus.Fields{
		"account_id": acc.ID,
		"username":   acc.Username,
	}).Info("login succeeded")

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"csrfToken": csrfToken,
		"user": fiber.Map{
			"id":       acc.ID,
			"username": acc.Username,
			"email":    acc.Email,
		},
	})
}
