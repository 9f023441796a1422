package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hurryup",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hurryup",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Tracking metrics
	LocationReportsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hurryup",
		Subsystem: "tracking",
		Name:      "location_reports_ingested_total",
		Help:      "Valid location reports accepted by the ingest pipeline",
	})

	LocationReportsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hurryup",
		Subsystem: "tracking",
		Name:      "location_reports_dropped_total",
		Help:      "Location reports rejected by validation",
	})

	LocationPersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hurryup",
		Subsystem: "tracking",
		Name:      "location_persist_failures_total",
		Help:      "Best-effort lastLocation upserts that failed",
	})

	LocationBroadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hurryup",
		Subsystem: "tracking",
		Name:      "location_broadcasts_total",
		Help:      "Location updates fanned out to booking rooms",
	})

	ReplaysServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hurryup",
		Subsystem: "tracking",
		Name:      "replays_served_total",
		Help:      "Replay messages delivered to joining channels, by source",
	}, []string{"source"}) // cache | store

	ReplayMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hurryup",
		Subsystem: "tracking",
		Name:      "replay_misses_total",
		Help:      "Joins with no known location in cache or store",
	})

	RoomJoins = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hurryup",
		Subsystem: "tracking",
		Name:      "room_joins_total",
		Help:      "Channels joining a booking room",
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hurryup",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	// Cache metrics (both the in-process location cache and valkey)
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hurryup",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"cache"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hurryup",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"cache"})

	// Business metrics
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hurryup",
		Subsystem: "bookings",
		Name:      "created_total",
		Help:      "Bookings accepted",
	})

	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hurryup",
		Subsystem: "mail",
		Name:      "sent_total",
		Help:      "Transactional emails by template and outcome",
	}, []string{"template", "status"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
