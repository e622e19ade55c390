package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/SafeClick/ScamShield/pkg/domain"
	"github.com/SafeClick/ScamShield/pkg/domain/account"
)

type registerHandler struct {
	logger   *logrus.Logger
	accounts account.Repository
}

func NewRegisterHandler(logger *logrus.Logger, accounts account.Repository) Handler {
	return &registerHandler{
		logger:   logger,
		accounts: accounts,
	}
}

func (h *registerHandler) Handle(c *fiber.Ctx) error {
	payload := payloadFrom(c)
	username := payloadString(payload, "username")
	email := payloadString(payload, "email")
	password := payloadString(payload, "password")

	acc, err := account.NewAccount(username, email, password)
	if err != nil {
		h.logger.WithError(err).Error("failed to hash password")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create account",
		})
	}

	if err := h.accounts.Save(c.UserContext(), acc); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) || errors.Is(err, domain.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		h.logger.WithError(err).Error("failed to save account")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create account",
		})
	}

	h.logger.WithFields(logrus.Fields{
		"account_id": acc.ID,
		"username":   acc.Username,
	}).Info("account created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       acc.ID,
		"username": acc.Username,
		"email":    acc.Email,
	})
}
