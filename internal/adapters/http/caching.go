package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets default Cache-Control headers on GET responses.
// Handlers that set their own header win.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != "GET" {
			return err
		}
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10"

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0"

		case strings.HasPrefix(path, "/v1/track/"):
			ttl = "public, max-age=10" // Tracking page polls

		case strings.HasPrefix(path, "/v1/analytics/"):
			ttl = "public, max-age=60"

		case strings.HasPrefix(path, "/v1/bookings"):
			ttl = "private, max-age=0" // Booking lists change constantly

		case strings.HasPrefix(path, "/v1/"):
			ttl = "private, max-age=30"
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
