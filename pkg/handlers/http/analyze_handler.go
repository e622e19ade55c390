package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/SafeClick/ScamShield/pkg/analyzer"
)

type analyzeHandler struct {
	logger   *logrus.Logger
	analyzer *analyzer.Analyzer
}

func NewAnalyzeHandler(logger *logrus.Logger, a *analyzer.Analyzer) Handler {
	return &analyzeHandler{
		logger:   logger,
		analyzer: a,
	}
}

func (h *analyzeHandler) Handle(c *fiber.Ctx) error {
	payload := payloadFrom(c)
	assessment := h.analyzer.Assess(payloadString(payload, "url"))
	return c.Status(fiber.StatusOK).JSON(assessment)
}
