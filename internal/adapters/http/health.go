package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

const readyProbeTimeout = 3 * time.Second

// HealthHandler is the liveness probe. It only proves the process serves
// requests.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": "dev",
		})
	}
}

type readyProbe struct {
	name     string
	required bool
	ping     func(ctx context.Context) error
}

func probes(deps *Dependencies) []readyProbe {
	var ps []readyProbe

	p := readyProbe{name: "mongo", required: true}
	if deps.DB != nil {
		p.ping = deps.DB.Ping
	}
	ps = append(ps, p)

	p = readyProbe{name: "nats"}
	if deps.NATS != nil {
		p.ping = func(context.Context) error {
			if !deps.NATS.IsConnected() {
				return errors.New("disconnected")
			}
			return nil
		}
	}
	ps = append(ps, p)

	p = readyProbe{name: "cache"}
	if deps.Cache != nil {
		p.ping = deps.Cache.Ping
	}
	ps = append(ps, p)

	return ps
}

// ReadyHandler is the readiness probe: Mongo must answer; NATS and the
// cache report their state but only fail readiness when configured and
// unreachable.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), readyProbeTimeout)
		defer cancel()

		checks := make(map[string]string)
		ready := true
		for _, p := range probes(deps) {
			switch {
			case p.ping == nil:
				checks[p.name] = "not configured"
				if p.required {
					ready = false
				}
			default:
				if err := p.ping(ctx); err != nil {
					checks[p.name] = "error: " + err.Error()
					ready = false
				} else {
					checks[p.name] = "ok"
				}
			}
		}

		status, code := "ready", fiber.StatusOK
		if !ready {
			status, code = "not ready", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{"status": status, "checks": checks})
	}
}
