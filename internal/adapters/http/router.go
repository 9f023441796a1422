package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/hurryup/express/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 with a 15s per-request timeout
	v1 := app.Group("/v1")
	v1.Post("/bookings", timeout.NewWithContext(CreateBookingHandler(deps), 15*time.Second))
	v1.Get("/bookings", timeout.NewWithContext(ListBookingsHandler(deps), 15*time.Second))
	v1.Get("/bookings/customer/:uid", timeout.NewWithContext(CustomerBookingsHandler(deps), 15*time.Second))
	v1.Patch("/bookings/:id/assign-agent", timeout.NewWithContext(AssignAgentHandler(deps), 15*time.Second))
	v1.Patch("/bookings/:id/delivery-status", timeout.NewWithContext(UpdateDeliveryStatusHandler(deps), 15*time.Second))

	// Public tracking page (no auth)
	v1.Get("/track/:bookingId", timeout.NewWithContext(TrackParcelHandler(deps), 15*time.Second))

	v1.Post("/users", timeout.NewWithContext(CreateUserHandler(deps), 15*time.Second))
	v1.Get("/users", timeout.NewWithContext(ListUsersHandler(deps), 15*time.Second))
	v1.Patch("/users/:id/profile", timeout.NewWithContext(UpdateProfileHandler(deps), 15*time.Second))
	v1.Patch("/users/:uid/last-signin", timeout.NewWithContext(TouchSignInHandler(deps), 15*time.Second))

	v1.Post("/agent-requests", timeout.NewWithContext(SubmitAgentRequestHandler(deps), 15*time.Second))
	v1.Get("/agent-requests", timeout.NewWithContext(ListAgentRequestsHandler(deps), 15*time.Second))
	v1.Patch("/agent-requests/:id/review", timeout.NewWithContext(ReviewAgentRequestHandler(deps), 15*time.Second))

	v1.Get("/analytics/daily-bookings", timeout.NewWithContext(DailyBookingsHandler(deps), 15*time.Second))
	v1.Get("/analytics/delivery-stats", timeout.NewWithContext(DeliveryStatsHandler(deps), 15*time.Second))
	v1.Get("/analytics/cod-summary", timeout.NewWithContext(CODSummaryHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// Realtime tracking channel
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/track", websocket.New(TrackingSocketHandler(deps.Hub, deps.Tracking, nil)))
}
