package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()
	version := deps.Version
	if version == "" {
		version = "dev"
	}

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).Round(time.Second).String(),
			"version": version,
		})
	}
}

// readinessCheck is one dependency probe. A failing required check makes
// the service not ready; optional ones only show up in the report.
type readinessCheck struct {
	name     string
	required bool
	probe    func(ctx context.Context) error
}

var errNotConfigured = errors.New("not configured")

// readinessChecks lists the probes for the wired dependencies. Searches
// cannot run without the camera store; audit events and the shared
// limiter store degrade gracefully.
func readinessChecks(deps *Dependencies) []readinessCheck {
	return []readinessCheck{
		{name: "database", required: true, probe: pingOrMissing(deps.DB)},
		{name: "cache", probe: pingOrMissing(deps.Cache)},
		{name: "nats", probe: func(context.Context) error {
			switch {
			case deps.NATS == nil:
				return errNotConfigured
			case !deps.NATS.IsConnected():
				return errors.New("disconnected")
			}
			return nil
		}},
	}
}

func pingOrMissing(p Pinger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if p == nil {
			return errNotConfigured
		}
		return p.Ping(ctx)
	}
}

// ReadyHandler runs every readiness check and reports 503 when a required
// one fails.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	checks := readinessChecks(deps)

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		report := make(map[string]string, len(checks))
		ready := true
		for _, chk := range checks {
			err := chk.probe(ctx)
			switch {
			case err == nil:
				report[chk.name] = "ok"
			case errors.Is(err, errNotConfigured):
				report[chk.name] = err.Error()
			default:
				report[chk.name] = "error: " + err.Error()
			}
			if err != nil && chk.required {
				ready = false
			}
		}

		if !ready {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not ready",
				"checks": report,
			})
		}
		return c.JSON(fiber.Map{"status": "ready", "checks": report})
	}
}
