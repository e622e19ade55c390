package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/SafeClick/ScamShield/pkg/analyzer"
	"github.com/SafeClick/ScamShield/pkg/cache"
	"github.com/SafeClick/ScamShield/pkg/common"
	"github.com/SafeClick/ScamShield/pkg/config"
	"github.com/SafeClick/ScamShield/pkg/domain/session"
	"github.com/SafeClick/ScamShield/pkg/guards"
	"github.com/SafeClick/ScamShield/pkg/guards/csrf_guard"
	"github.com/SafeClick/ScamShield/pkg/guards/injection_guard"
	"github.com/SafeClick/ScamShield/pkg/guards/rate_limiter"
	"github.com/SafeClick/ScamShield/pkg/guards/validation_guard"
	handlers "github.com/SafeClick/ScamShield/pkg/handlers/http"
	"github.com/SafeClick/ScamShield/pkg/infra/counter"
	infraLogger "github.com/SafeClick/ScamShield/pkg/infra/logger"
	"github.com/SafeClick/ScamShield/pkg/infra/repository"
	"github.com/SafeClick/ScamShield/pkg/infra/tokenstore"
	"github.com/SafeClick/ScamShield/pkg/middleware"
	"github.com/SafeClick/ScamShield/pkg/server"
	"github.com/SafeClick/ScamShield/pkg/types"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	if err := config.Load("./config"); err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	// Stores back the rate limiter, the CSRF protocol and sessions. Redis
	// makes them shared across instances; memory is the single-node default.
	var (
		counterStore counter.Store
		tokens       tokenstore.Store
		sessions     session.Repository
	)
	if cfg.Redis.Enabled {
		client, err := cache.NewClient(cfg.Redis)
		if err != nil {
			logger.Fatalf("failed to connect to redis: %v", err)
		}
		counterStore = counter.NewRedisStore(client, nil)
		tokens = tokenstore.NewRedisStore(client)
		sessions = repository.NewRedisSessionRepository(client)
	} else {
		memCounter := counter.NewMemoryStore(nil)
		counterStore = memCounter
		tokens = tokenstore.NewMemoryStore(nil)
		sessions = repository.NewMemorySessionRepository(nil)

		go func() {
			ticker := time.NewTicker(common.CounterSweepInterval)
			defer ticker.Stop()
			for range ticker.C {
				memCounter.Sweep(common.CounterMaxIdle)
			}
		}()
	}

	csrfTTL, err := time.ParseDuration(cfg.Csrf.TTL)
	if err != nil {
		logger.Fatalf("invalid csrf ttl: %v", err)
	}
	sessionTTL, err := time.ParseDuration(cfg.Session.TTL)
	if err != nil {
		logger.Fatalf("invalid session ttl: %v", err)
	}

	csrfProtocol := csrf_guard.NewProtocol(tokens, csrfTTL, nil)

	guardManager := guards.NewManager(logger)
	for _, guard := range []struct {
		name string
		err  error
	}{
		{injection_guard.GuardName, guardManager.RegisterGuard(injection_guard.NewInjectionGuard(logger))},
		{rate_limiter.GuardName, guardManager.RegisterGuard(rate_limiter.NewRateLimiterGuard(counterStore, logger, nil))},
		{csrf_guard.GuardName, guardManager.RegisterGuard(csrf_guard.NewCsrfGuard(csrfProtocol, logger))},
		{validation_guard.GuardName, guardManager.RegisterGuard(validation_guard.NewValidationGuard(logger))},
	} {
		if guard.err != nil {
			logger.Fatalf("failed to register guard %s: %v", guard.name, guard.err)
		}
	}

	for routeClass, chain := range buildChains(cfg) {
		if err := guardManager.SetChain(routeClass, chain); err != nil {
			logger.Fatalf("failed to install %s chain: %v", routeClass, err)
		}
	}

	accounts := repository.NewMemoryAccountRepository()
	reports := repository.NewMemoryReportRepository()
	urlAnalyzer := analyzer.NewAnalyzer(logger)

	middlewareTransport := middleware.Transport{
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
		Defense:                middleware.NewDefenseMiddleware(logger, guardManager),
	}

	handlerTransport := handlers.HandlerTransport{
		RegisterHandler:  handlers.NewRegisterHandler(logger, accounts),
		LoginHandler:     handlers.NewLoginHandler(logger, accounts, sessions, csrfProtocol, sessionTTL, cfg.Session.CookieSecure),
		LogoutHandler:    handlers.NewLogoutHandler(logger, sessions, csrfProtocol),
		CsrfTokenHandler: handlers.NewCsrfTokenHandler(logger, csrfProtocol, sessionTTL, cfg.Session.CookieSecure),

		CreateReportHandler: handlers.NewCreateReportHandler(logger, reports),
		ListReportsHandler:  handlers.NewListReportsHandler(logger, reports),

		AnalyzeHandler: handlers.NewAnalyzeHandler(logger, urlAnalyzer),

		HealthHandler: handlers.NewHealthHandler(),
	}

	srv := server.NewAPIServer(server.APIServerDI{
		MiddlewareTransport: middlewareTransport,
		HandlerTransport:    handlerTransport,
		Config:              cfg,
		Logger:              logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return srv.Run()
	})
	group.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server")
		return srv.Shutdown()
	})

	if err := group.Wait(); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
	logger.Info("server stopped")
}

// buildChains assembles the guard chain of each route class. Order is fixed:
// injection scan, then rate limiting, then CSRF, then field validation.
func buildChains(cfg *config.Config) map[types.RouteClass][]types.GuardConfig {
	chains := make(map[types.RouteClass][]types.GuardConfig)

	validationRoutes := map[types.RouteClass]map[string]interface{}{
		types.RouteClassAuth: {
			"routes": map[string]map[string]string{
				"POST /api/auth/register": {
					"username": "username",
					"email":    "email",
					"password": "password",
				},
				// Login only checks presence; rejecting weak passwords at
				// login would lock out accounts created before the policy.
				"POST /api/auth/login": {
					"username": "text",
					"password": "text",
				},
			},
		},
		types.RouteClassAPI: {
			"routes": map[string]map[string]string{
				"POST /api/reports": {
					"title":       "text",
					"description": "text",
					"url":         "url?",
				},
			},
		},
		types.RouteClassAnalyzer: {
			"fields": map[string]string{
				"url": "url",
			},
		},
	}

	for class, rl := range cfg.RateLimits {
		routeClass := types.RouteClass(class)

		chain := []types.GuardConfig{
			{
				ID:       string(routeClass) + "-injection",
				Name:     injection_guard.GuardName,
				Enabled:  true,
				Priority: 1,
				Settings: map[string]interface{}{},
			},
			{
				ID:       string(routeClass) + "-rate-limiter",
				Name:     rate_limiter.GuardName,
				Enabled:  true,
				Priority: 2,
				Settings: map[string]interface{}{
					"limit":  rl.Limit,
					"window": rl.Window,
				},
			},
			{
				ID:       string(routeClass) + "-csrf",
				Name:     csrf_guard.GuardName,
				Enabled:  true,
				Priority: 3,
				Settings: map[string]interface{}{
					"header": cfg.Csrf.Header,
				},
			},
		}

		if routes, ok := validationRoutes[routeClass]; ok {
			chain = append(chain, types.GuardConfig{
				ID:       string(routeClass) + "-validation",
				Name:     validation_guard.GuardName,
				Enabled:  true,
				Priority: 4,
				Settings: routes,
			})
		}

		chains[routeClass] = chain
	}

	return chains
}
