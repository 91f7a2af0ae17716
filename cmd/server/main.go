package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/metabooks/erp/internal/application/masterdata"
	"github.com/metabooks/erp/internal/infrastructure/cache"
	"github.com/metabooks/erp/internal/infrastructure/config"
	"github.com/metabooks/erp/internal/infrastructure/logger"
	"github.com/metabooks/erp/internal/infrastructure/metrics"
	"github.com/metabooks/erp/internal/infrastructure/persistence"
	"github.com/metabooks/erp/internal/infrastructure/telemetry"
	"github.com/metabooks/erp/internal/interfaces/http/api"
	"github.com/metabooks/erp/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// version is set at build time
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting MetaBooks backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Tracing is a no-op provider unless enabled
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	if tp.IsEnabled() {
		log.Info("Tracing enabled", zap.String("collector", cfg.Telemetry.CollectorEndpoint))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database, log,
		persistence.WithLogLevel(logger.MapGormLogLevel(cfg.Log.DBLevel)),
		persistence.WithSlowThreshold(cfg.Log.SlowSQL),
		persistence.WithTracing(telemetry.GormConfig{
			Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
			LogFullSQL: cfg.App.Env != "production",
		}),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		log.Info("Database schema migrated")
	}

	// Lookup cache: redis when configured, in-memory otherwise
	lookupCache, err := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	).Create()
	if err != nil {
		log.Fatal("Failed to create lookup cache", zap.Error(err))
	}
	if closer, ok := lookupCache.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Error("Error closing lookup cache", zap.Error(err))
			}
		}()
	}
	lookups := masterdata.NewLookupService(lookupCache, cfg.Lookup.CacheTTL, log)

	var reg *metrics.Registry
	if cfg.HTTP.MetricsEnabled {
		reg = metrics.New(metrics.DefaultConfig())
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	backend := api.New(api.Config{
		HTTP: cfg.HTTP,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		APIVersion: "v1",
	}, api.Deps{
		DB:      db,
		Lookups: lookups,
		Metrics: reg,
		Logger:  log,
	})
	defer backend.Close()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        backend.Handler(),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr), zap.String("api", backend.Prefix()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
