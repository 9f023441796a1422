package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

func accessLevel(status int, err error) slog.Level {
	switch {
	case err != nil || status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// AccessLogMiddleware emits one structured log line per request. 4xx logs at
// warn, 5xx and handler errors at error.
func AccessLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		method, path := c.Method(), c.Path()

		err := c.Next()

		status := c.Response().StatusCode()
		log := slog.Default().With(
			"method", method,
			"path", path,
			"status", status,
			"latency", time.Since(start).String(),
			"bytes_out", len(c.Response().Body()),
			"request_id", c.Get(fiber.HeaderXRequestID, "unknown"),
		)
		if err != nil {
			log = log.With("error", err.Error())
		}
		log.Log(c.Context(), accessLevel(status, err), method+" "+path)
		return err
	}
}
