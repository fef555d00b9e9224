package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/catalog/docs/swagger"
	"github.com/ghuser/catalog/pkg/app"
	"github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/pkg/database"
	"github.com/ghuser/catalog/pkg/errhttp"
	"github.com/ghuser/catalog/pkg/events"
	"github.com/ghuser/catalog/pkg/httpx"
	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/pkg/telemetry"
	productApi "github.com/ghuser/catalog/services/product/application/api"
)

// @title			Catalog API
// @version		1.0
// @description	Product catalog API. Every error response has the body {"status", "error", "message"}.
// @license.name	MIT
// @license.url	https://opensource.org/licenses/MIT
// @host			localhost:8080
// @BasePath		/api
// @schemes		http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Sentry is optional outside production; log and continue on failure.
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic // startup failure, deferred flushes are best-effort
	}
	defer pool.Close() //nolint:errcheck

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	errs := errhttp.New(log, errorOptions()...)

	appConfig := &app.Application{
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
		Errors:   errs,
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			MaxBodyBytes:       cfg.MaxBodyBytes,
			NotFound:           errs.NotFoundHandler,
			MethodNotAllowed:   errs.MethodNotAllowedHandler,
		},
		httpx.Middlewares{
			Recovery: errs.Recoverer,
			Sentry:   telemetry.SentryMiddleware(),
			Otel:     otelhttp.NewMiddleware(cfg.ServiceName),
			Logger:   logger.Middleware(log),
		},
	)

	r.Get("/health", httpx.HealthHandler(cfg.ServiceVersion,
		httpx.HealthCheck{Name: "database", Checker: pool},
		httpx.HealthCheck{Name: "redis", Checker: redisClient},
		httpx.HealthCheck{Name: "events", Checker: eventBus},
	))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	mountDocs(r)
	r.Route("/api", func(r chi.Router) {
		registerRoutes(r, appConfig)
	})

	srv := httpx.NewServer(cfg.HTTPAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// errorOptions collects the sentinel mappings of every service plus the
// crash reporter.
func errorOptions() []errhttp.Option {
	opts := []errhttp.Option{errhttp.WithReporter(telemetry.SentryReporter())}
	opts = append(opts, productApi.ErrorOptions()...)
	return opts
}

// mountDocs serves the OpenAPI document and Swagger UI under /swagger.
func mountDocs(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

// registerRoutes mounts all service routes under /api.
func registerRoutes(r chi.Router, a *app.Application) {
	productApi.ProductRoutes(r, a)
}
