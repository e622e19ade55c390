package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Auth
	RegisterHandler  Handler
	LoginHandler     Handler
	LogoutHandler    Handler
	CsrfTokenHandler Handler

	// Reports
	CreateReportHandler Handler
	ListReportsHandler  Handler

	// Analyzer
	AnalyzeHandler Handler

	// Ops
	HealthHandler Handler
}
