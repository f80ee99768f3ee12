package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/neogan74/kvorum/internal/config"
	"github.com/neogan74/kvorum/internal/handlers"
	"github.com/neogan74/kvorum/internal/logger"
	"github.com/neogan74/kvorum/internal/metrics"
	"github.com/neogan74/kvorum/internal/middleware"
	"github.com/neogan74/kvorum/internal/replication"
	"github.com/neogan74/kvorum/internal/store"
	"github.com/neogan74/kvorum/internal/telemetry"
	"github.com/neogan74/kvorum/internal/watch"
)

const (
	version         = "1.0.0"
	watchBufferSize = 100
)

func main() {
	// Load configuration; an invalid topology is fatal before any port binds.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logger
	appLogger := logger.NewFromConfig(cfg.Log.Level, cfg.Log.Format)
	logger.SetDefault(appLogger)

	appLogger.Info("Starting kvorum",
		logger.String("version", version),
		logger.String("address", cfg.Address()),
		logger.String("node_type", string(cfg.Cluster.Role)),
		logger.String("log_level", cfg.Log.Level),
		logger.String("log_format", cfg.Log.Format))

	metrics.BuildInfo.WithLabelValues(version, runtime.Version(), string(cfg.Cluster.Role)).Set(1)

	// Initialize OpenTelemetry tracing
	ctx := context.Background()
	tracerProvider, err := telemetry.InitTracing(ctx, telemetry.TracingConfig{
		Enabled:        cfg.Tracing.Enabled,
		Endpoint:       cfg.Tracing.Endpoint,
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: cfg.Tracing.ServiceVersion,
		Environment:    cfg.Tracing.Environment,
		SamplingRatio:  cfg.Tracing.SamplingRatio,
		InsecureConn:   cfg.Tracing.InsecureConn,
	})
	if err != nil {
		appLogger.Error("Failed to initialize tracing", logger.Error(err))
	} else if cfg.Tracing.Enabled {
		appLogger.Info("OpenTelemetry tracing initialized",
			logger.String("endpoint", cfg.Tracing.Endpoint),
			logger.String("service_name", cfg.Tracing.ServiceName))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				appLogger.Error("Failed to shutdown tracer provider", logger.Error(err))
			}
		}()
	}

	app := fiber.New()

	app.Use(middleware.RequestLogging(appLogger))
	app.Use(middleware.MetricsMiddleware())
	if cfg.Tracing.Enabled {
		app.Use(middleware.TracingMiddleware(cfg.Tracing.ServiceName))
	}

	// The store and its watch fan-out run on every node; follower stores are
	// fed by replication ingest, the leader's by its own writes.
	kv := store.NewKVStore()
	watchManager := watch.NewManager(watchBufferSize, appLogger)
	watchManager.Attach(kv)

	// The coordinator exists on the leader only; follower write routes are
	// rejected by the role gate before reaching the handler.
	var coordinator *replication.Coordinator
	if cfg.IsLeader() {
		dispatcher := replication.NewDispatcher(
			cfg.Cluster.FollowerURLs,
			cfg.Cluster.WriteQuorum,
			cfg.Replication,
			appLogger)
		coordinator = replication.NewCoordinator(kv, dispatcher, cfg.Cluster.WriteQuorum, appLogger)

		appLogger.Info("Replication dispatcher ready",
			logger.Int("followers", len(cfg.Cluster.FollowerURLs)),
			logger.Int("write_quorum", cfg.Cluster.WriteQuorum),
			logger.Duration("min_delay", cfg.Replication.MinDelay),
			logger.Duration("max_delay", cfg.Replication.MaxDelay))
	}

	kvHandler := handlers.NewKVHandler(kv, coordinator)
	replicateHandler := handlers.NewReplicateHandler(kv)
	healthHandler := handlers.NewHealthHandler(kv, cfg.Cluster, version)
	watchHandler := handlers.NewWatchHandler(watchManager, appLogger)

	role := cfg.Cluster.Role

	// Client-facing endpoints: writes and deletes are leader-only, reads are
	// served by any node.
	app.Post("/write", middleware.RequireRole(role, config.RoleLeader), kvHandler.Write)
	app.Delete("/delete/:key", middleware.RequireRole(role, config.RoleLeader), kvHandler.Delete)
	app.Get("/read/:key", kvHandler.Read)

	// Cluster-internal replication channel, follower-only.
	app.Post("/replicate", middleware.RequireRole(role, config.RoleFollower), replicateHandler.Ingest)

	// Watch stream
	app.Get("/watch/:key", watchHandler.Upgrade, websocket.New(watchHandler.Stream))

	// Health, metadata, metrics
	app.Get("/health", healthHandler.Check)
	app.Get("/", healthHandler.Meta)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		if err := app.Listen(cfg.Address()); err != nil {
			appLogger.Error("Failed to start server", logger.Error(err))
			log.Fatalf("Listen error: %v", err)
		}
	}()
	<-quit
	appLogger.Info("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server forced to shutdown", logger.Error(err))
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	appLogger.Info("Server exited gracefully")
}
