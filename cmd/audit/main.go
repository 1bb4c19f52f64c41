package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	natsadapter "github.com/samirrijal/cctvlocator/internal/adapters/nats"
	"github.com/samirrijal/cctvlocator/internal/core/usecases"
	"github.com/samirrijal/cctvlocator/internal/pkg/config"
	"github.com/samirrijal/cctvlocator/internal/pkg/logging"
	"github.com/samirrijal/cctvlocator/internal/pkg/metrics"
)

// audit consumes cameras.search.* events from JetStream and logs them.
func main() {
	cfg, err := config.Load("cctvlocator-audit")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if !cfg.NATS.Enabled {
		log.Fatal("nats is disabled; nothing to audit")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL, cfg.NATS.Durable)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	auditor := usecases.NewSearchAuditor()
	if err := sub.SubscribeSearchEvents(ctx, auditor.Handle); err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	// Scrape endpoint only
	app := fiber.New(fiber.Config{DisableStartupMessage: true, AppName: "CCTV Locator Audit"})
	app.Use(recover.New())
	app.Get("/metrics", metrics.Handler())
	app.Get("/v1/health", func(c *fiber.Ctx) error {
		s := auditor.Stats()
		return c.JSON(fiber.Map{"status": "healthy", "searches": s.Searches, "rejected": s.Rejected})
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("audit consumer started", "addr", addr, "durable", cfg.NATS.Durable)
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("audit stopped", "error", err)
	}
	s := auditor.Stats()
	slog.Info("audit consumer stopped", "searches", s.Searches, "empty", s.EmptyResults, "rejected", s.Rejected)
}
