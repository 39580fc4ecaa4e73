package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"pulse-reports/internal/aggregators"
	internalhttp "pulse-reports/internal/http"
	"pulse-reports/internal/models"
	"pulse-reports/internal/reportcaches"
	"pulse-reports/internal/reports"
	"pulse-reports/internal/routes"
	"pulse-reports/internal/shared/configs"
	"pulse-reports/internal/shared/loggers"
	"pulse-reports/internal/stores"
)

// App holds all application dependencies and manages lifecycle.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	server    *http.Server

	// closers run on shutdown after the server stopped, in order.
	closers []io.Closer
}

// New creates and initializes a new App instance.
func New(config *configs.Config) (*App, error) {
	appLogger, err := loggers.New(config.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger = appLogger.With().
		Str(loggers.FieldApp, "pulse-reports").
		Logger()

	// Initialize event store
	eventStore, err := stores.NewDuckDBEventStore(
		config.EventStore.Path,
		time.Duration(config.EventStore.QueryTimeout)*time.Second,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event store: %w", err)
	}
	closers := []io.Closer{eventStore}

	// Initialize report cache
	backend, backendCloser, err := newCacheBackend(config.ReportCache)
	if err != nil {
		_ = eventStore.Close()
		return nil, fmt.Errorf("failed to initialize report cache: %w", err)
	}
	if backendCloser != nil {
		closers = append(closers, backendCloser)
	}
	reportCache := reportcaches.NewReportCache(backend)

	// Initialize aggregators
	routeRegistry, err := routes.NewRegistry(routeDefinitions(config.Reports.Routes))
	if err != nil {
		_ = closeAll(closers)
		return nil, fmt.Errorf("failed to initialize route registry: %w", err)
	}
	slowRoutesAggregator := aggregators.NewSlowRoutesAggregator(eventStore, routeRegistry, aggregators.SlowRoutesConfig{
		ThresholdMs: config.Reports.SlowEndpointThreshold,
	})
	cacheInteractionsAggregator, err := aggregators.NewCacheInteractionsAggregator(eventStore, aggregators.CacheInteractionsConfig{
		Patterns: monitoredPatterns(config.Reports.CacheKeys),
	})
	if err != nil {
		_ = closeAll(closers)
		return nil, fmt.Errorf("failed to initialize cache interactions aggregator: %w", err)
	}

	// Initialize report service
	reportService, err := reports.NewReportService(
		reports.Config{KeyPrefix: config.ReportCache.KeyPrefix},
		reportCache,
		slowRoutesAggregator,
		cacheInteractionsAggregator,
	)
	if err != nil {
		_ = closeAll(closers)
		return nil, fmt.Errorf("failed to initialize report service: %w", err)
	}

	// Initialize http router
	httpLogger := appLogger.With().Str(loggers.FieldComponent, "http").Logger()
	router := internalhttp.NewRouter(reportService, httpLogger)

	// Create HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderTimeout) * time.Second,
		ReadTimeout:       time.Duration(config.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(config.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(config.Server.IdleTimeout) * time.Second,
	}

	return &App{
		config:    config,
		appLogger: appLogger,
		server:    server,
		closers:   closers,
	}, nil
}

// Start starts the HTTP server in a blocking manner.
func (app *App) Start() error {
	eventStorePath := app.config.EventStore.Path
	if eventStorePath == "" {
		eventStorePath = "in-memory"
	}
	app.appLogger.Info().
		Msgf("Starting pulse-reports service on port %d (log_level=%s, event_store=%s, report_cache=%s)",
			app.config.Server.Port,
			app.config.Log.Level,
			eventStorePath,
			app.config.ReportCache.Backend)

	return app.server.ListenAndServe()
}

// Shutdown gracefully shuts down the application.
func (app *App) Shutdown(ctx context.Context) error {
	// 1) Shutdown server
	app.appLogger.Info().Msg("Shutting down server...")
	if err := app.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.appLogger.Info().Msg("Server stopped")

	// 2) Release event store and cache connections
	if err := closeAll(app.closers); err != nil {
		return fmt.Errorf("resource cleanup failed: %w", err)
	}
	app.appLogger.Info().Msg("Event store and report cache closed")

	return nil
}

func newCacheBackend(cfg configs.ReportCacheConfig) (reportcaches.Backend, io.Closer, error) {
	switch cfg.Backend {
	case "file":
		backend, err := reportcaches.NewFileBackend(cfg.File.RootDir)
		return backend, nil, err
	case "redis":
		client, err := reportcaches.NewRedisClient(reportcaches.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return reportcaches.NewRedisBackend(client), client, nil
	case "memory", "":
		return reportcaches.NewMemoryBackend(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown report cache backend %q", cfg.Backend)
	}
}

func routeDefinitions(cfgs []configs.RouteConfig) []routes.Definition {
	definitions := make([]routes.Definition, 0, len(cfgs))
	for _, c := range cfgs {
		definitions = append(definitions, routes.Definition{
			Method:  c.Method,
			Path:    c.Path,
			Handler: c.Handler,
		})
	}
	return definitions
}

func monitoredPatterns(cfgs []configs.CacheKeyConfig) []models.MonitoredKeyPattern {
	patterns := make([]models.MonitoredKeyPattern, 0, len(cfgs))
	for _, c := range cfgs {
		patterns = append(patterns, models.MonitoredKeyPattern{
			Name:    c.Name,
			Pattern: c.Pattern,
		})
	}
	return patterns
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
