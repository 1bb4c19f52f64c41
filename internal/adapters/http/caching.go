package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// cachePolicy maps a path prefix to its Cache-Control value. First match wins.
type cachePolicy struct {
	prefix string
	value  string
}

var cachePolicies = []cachePolicy{
	{"/v1/health", "no-cache"},
	{"/v1/ready", "no-cache"},
	{"/metrics", "no-cache"},
	{"/docs", "public, max-age=3600"},
	// Search results depend on the caller's position and live camera status
	{"/v1/cameras", "no-store"},
	{"/nearby_cameras", "no-store"},
	{"/graphql", "no-store"},
}

// CachingMiddleware sets Cache-Control from cachePolicies unless the handler
// already set one.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.GetRespHeader(fiber.HeaderCacheControl) != "" {
			return err
		}
		if v := cacheControlFor(c.Path()); v != "" {
			c.Set(fiber.HeaderCacheControl, v)
		}
		return err
	}
}

func cacheControlFor(path string) string {
	for _, p := range cachePolicies {
		if strings.HasPrefix(path, p.prefix) {
			return p.value
		}
	}
	return ""
}
