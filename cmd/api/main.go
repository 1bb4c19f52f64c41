package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/cctvlocator/internal/adapters/http"
	natsadapter "github.com/samirrijal/cctvlocator/internal/adapters/nats"
	"github.com/samirrijal/cctvlocator/internal/adapters/postgres"
	"github.com/samirrijal/cctvlocator/internal/adapters/valkey"
	"github.com/samirrijal/cctvlocator/internal/core/ports"
	"github.com/samirrijal/cctvlocator/internal/core/usecases"
	"github.com/samirrijal/cctvlocator/internal/pkg/config"
	"github.com/samirrijal/cctvlocator/internal/pkg/logging"
	"github.com/samirrijal/cctvlocator/internal/pkg/metrics"
	"github.com/samirrijal/cctvlocator/internal/pkg/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load("cctvlocator-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr, cfg.Telemetry.SampleRatio)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), postgres.PoolOptions{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go reportPoolStats(ctx, db)

	deps := &http.Dependencies{
		DB:             db,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
		Version:        version,
		Limiter: http.LimiterSettings{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window(),
		},
	}

	// Valkey backs the rate limiter so limits hold across replicas
	if cfg.Valkey.Enabled {
		store, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.KeyPrefix)
		if err != nil {
			slog.Warn("valkey unavailable, rate limiting per instance", "error", err)
		} else {
			defer store.Close()
			deps.Limiter.Storage = store
			deps.Cache = store
		}
	}

	// NATS
	var publisher ports.EventPublisher
	if cfg.NATS.Enabled {
		nc, err := natsadapter.NewPublisher(cfg.NATS.URL, cfg.NATS.Retention())
		if err != nil {
			slog.Warn("nats unavailable, search events disabled", "error", err)
		} else {
			defer nc.Close()
			publisher = nc
			deps.NATS = nc.Conn()
		}
	}

	// Use cases
	deps.Cameras = usecases.NewCameraSearchService(postgres.NewCameraRepo(db.Pool), publisher, usecases.SearchOptions{
		DefaultRadiusMeters: cfg.Search.DefaultRadiusMeters,
		MaxRadiusMeters:     cfg.Search.MaxRadiusMeters,
		BoxMargin:           cfg.Search.BoxMargin,
		ParallelThreshold:   cfg.Search.ParallelThreshold,
		StoreTimeout:        cfg.Search.StoreTimeout(),
	})

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024, // search bodies are tiny
		AppName:      "CCTV Locator API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "version", version)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// reportPoolStats refreshes the connection pool gauges until ctx ends.
func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		metrics.UpdateDBPoolMetrics(db.Stat())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
