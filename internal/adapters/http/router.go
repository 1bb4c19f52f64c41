package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/samirrijal/cctvlocator/internal/pkg/metrics"
)

// legacySunset is when POST /nearby_cameras goes away.
var legacySunset = time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)

// SetupRoutes registers all REST and GraphQL routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Request-scoped slog logger + access log
	app.Use(RequestLoggerMiddleware())

	// Rate limiting per IP, shared through Valkey when configured
	if deps.Limiter.Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        deps.Limiter.Max,
			Expiration: deps.Limiter.Window,
			Storage:    deps.Limiter.Storage,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			Next: func(c *fiber.Ctx) bool {
				// Probes and scrapes are never throttled
				p := c.Path()
				return p == "/v1/health" || p == "/v1/ready" || p == "/metrics"
			},
			LimitReached: func(c *fiber.Ctx) error {
				return errTooManyRequests(c, "too many requests, please try again later")
			},
		}))
	}

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	reqTimeout := deps.requestTimeout()
	nearby := timeout.NewWithContext(NearbyCamerasHandler(deps), reqTimeout)

	// REST API v1
	v1 := app.Group("/v1")
	v1.Post("/cameras/nearby", nearby)

	// Legacy path kept for existing mobile clients
	app.Post("/nearby_cameras", DeprecationMiddleware([]DeprecatedRoute{{
		Path:        "/nearby_cameras",
		SunsetDate:  legacySunset,
		Alternative: "/v1/cameras/nearby",
	}}), nearby)

	// GraphQL
	app.Post("/graphql", timeout.NewWithContext(GraphQLHandler(deps), reqTimeout))

	// API documentation (Swagger UI)
	SetupDocs(app)
}
