package server

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/SafeClick/ScamShield/pkg/config"
	handlers "github.com/SafeClick/ScamShield/pkg/handlers/http"
	"github.com/SafeClick/ScamShield/pkg/middleware"
	"github.com/SafeClick/ScamShield/pkg/types"
)

type (
	APIServerDI struct {
		MiddlewareTransport middleware.Transport
		HandlerTransport    handlers.HandlerTransport
		Config              *config.Config
		Logger              *logrus.Logger
	}
	APIServer struct {
		*BaseServer
		middlewareTransport middleware.Transport
		handlerTransport    handlers.HandlerTransport
	}
)

func NewAPIServer(di APIServerDI) *APIServer {
	return &APIServer{
		BaseServer:          NewBaseServer(di.Config, di.Logger),
		middlewareTransport: di.MiddlewareTransport,
		handlerTransport:    di.HandlerTransport,
	}
}

func (s *APIServer) Run() error {
	s.setupRoutes()
	s.setupMetricsEndpoint()

	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("starting api server")
	return s.Router.Listen(addr)
}

func (s *APIServer) setupRoutes() {
	s.Router.Use(s.middlewareTransport.PanicRecoverMiddleware.Middleware())

	defense := s.middlewareTransport.Defense

	api := s.Router.Group("/api")
	{
		// Health stays outside the guard chain so probes never consume
		// rate budget.
		api.Get("/health", s.handlerTransport.HealthHandler.Handle)

		auth := api.Group("/auth", defense.Handler(types.RouteClassAuth))
		{
			auth.Post("/register", s.handlerTransport.RegisterHandler.Handle)
			auth.Post("/login", s.handlerTransport.LoginHandler.Handle)
		}

		// Logout is state-changing but not credential-guessing, so it
		// rides the general api budget.
		api.Post("/auth/logout", defense.Handler(types.RouteClassAPI), s.handlerTransport.LogoutHandler.Handle)
		api.Get("/csrf-token", defense.Handler(types.RouteClassAPI), s.handlerTransport.CsrfTokenHandler.Handle)

		reports := api.Group("/reports", defense.Handler(types.RouteClassAPI))
		{
			reports.Post("", s.handlerTransport.CreateReportHandler.Handle)
			reports.Get("", s.handlerTransport.ListReportsHandler.Handle)
		}

		api.Post("/analyze", defense.Handler(types.RouteClassAnalyzer), s.handlerTransport.AnalyzeHandler.Handle)
	}
}
