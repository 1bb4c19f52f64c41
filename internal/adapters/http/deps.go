package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/cctvlocator/internal/core/usecases"
)

// Pinger is satisfied by backends the readiness probe can reach.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LimiterSettings configures per-IP rate limiting. Max <= 0 disables it.
// A nil Storage keeps counters in memory.
type LimiterSettings struct {
	Max     int
	Window  time.Duration
	Storage fiber.Storage
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Cameras        *usecases.CameraSearchService
	NATS           *nats.Conn
	DB             Pinger
	Cache          Pinger
	Limiter        LimiterSettings
	RequestTimeout time.Duration
	Version        string
}

func (d *Dependencies) requestTimeout() time.Duration {
	if d.RequestTimeout > 0 {
		return d.RequestTimeout
	}
	return 15 * time.Second
}
