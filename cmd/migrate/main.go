package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/samirrijal/cctvlocator/internal/adapters/postgres"
	"github.com/samirrijal/cctvlocator/internal/pkg/config"
	"github.com/samirrijal/cctvlocator/internal/pkg/logging"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	cfg, err := config.Load("cctvlocator-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, "text")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), postgres.PoolOptions{MaxConns: 1})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Advisory locks are per session, so everything runs on one connection.
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		log.Fatalf("acquire: %v", err)
	}
	defer conn.Release()

	switch os.Args[1] {
	case "up":
		err = postgres.MigrateUp(ctx, conn)
	case "down":
		err = postgres.MigrateDown(ctx, conn)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", os.Args[1], err)
	}

	slog.Info("migrations complete", "command", os.Args[1])
}
