package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/SafeClick/ScamShield/pkg/domain/report"
)

type listReportsHandler struct {
	logger  *logrus.Logger
	reports report.Repository
}

func NewListReportsHandler(logger *logrus.Logger, reports report.Repository) Handler {
	return &listReportsHandler{
		logger:  logger,
		reports: reports,
	}
}

func (h *listReportsHandler) Handle(c *fiber.Ctx) error {
	reports, err := h.reports.List(c.UserContext())
	if err != nil {
		h.logger.WithError(err).Error("failed to list reports")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list reports",
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"reports": reports,
		"count":   len(reports),
	})
}
