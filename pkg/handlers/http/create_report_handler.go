package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/SafeClick/ScamShield/pkg/common"
	"github.com/SafeClick/ScamShield/pkg/domain/report"
)

type createReportHandler struct {
	logger  *logrus.Logger
	reports report.Repository
}

func NewCreateReportHandler(logger *logrus.Logger, reports report.Repository) Handler {
	return &createReportHandler{
		logger:  logger,
		reports: reports,
	}
}

func (h *createReportHandler) Handle(c *fiber.Ctx) error {
	payload := payloadFrom(c)
	identity, _ := c.Locals(string(common.IdentityContextKey)).(string)

	rep := report.NewReport(
		payloadString(payload, "title"),
		payloadString(payload, "description"),
		payloadString(payload, "url"),
		identity,
	)

	if err := h.reports.Save(c.UserContext(), rep); err != nil {
		h.logger.WithError(err).Error("failed to save report")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save report",
		})
	}

	h.logger.WithFields(logrus.Fields{
		"report_id": rep.ID,
	}).Info("scam report created")

	return c.Status(fiber.StatusCreated).JSON(rep)
}
