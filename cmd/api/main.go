package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/hurryup/express/internal/adapters/http"
	"github.com/hurryup/express/internal/adapters/memcache"
	"github.com/hurryup/express/internal/adapters/mongo"
	natsadapter "github.com/hurryup/express/internal/adapters/nats"
	"github.com/hurryup/express/internal/adapters/valkey"
	"github.com/hurryup/express/internal/core/ports"
	"github.com/hurryup/express/internal/core/usecases"
	"github.com/hurryup/express/internal/pkg/config"
	"github.com/hurryup/express/internal/pkg/logging"
	"github.com/hurryup/express/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("hurryup-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	// Mongo is the system of record; without it there is nothing to serve.
	db, err := mongo.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}
	defer db.Close(context.Background())

	// Cache (optional)
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// NATS (optional)
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, booking events disabled", "error", err)
		publisher = nil
	} else {
		defer publisher.Close()
	}

	// Repos
	bookingRepo := mongo.NewBookingRepo(db)
	userRepo := mongo.NewUserRepo(db)
	agentRequestRepo := mongo.NewAgentRequestRepo(db)
	analyticsRepo := mongo.NewAnalyticsRepo(db)

	// Tracking pipeline: hub feeds rooms, the LRU holds last locations,
	// bookings carry the persisted copy.
	hub := http.NewHub(slog.Default())
	locCache := memcache.NewLocationCache(cfg.Tracking.CacheSize,
		time.Duration(cfg.Tracking.CacheTTLSeconds)*time.Second)
	trackingSvc := usecases.NewTrackingService(hub, locCache, bookingRepo, slog.Default())

	// nil interfaces must stay nil, not typed-nil wrappers
	var pub ports.EventPublisher
	if publisher != nil {
		pub = publisher
	}
	var cacheSvc ports.CacheService
	if cache != nil {
		cacheSvc = cache
	}

	bookingSvc := usecases.NewBookingService(bookingRepo, pub, cacheSvc)
	userSvc := usecases.NewUserService(userRepo, pub)
	agentSvc := usecases.NewAgentService(agentRequestRepo, userRepo)
	analyticsSvc := usecases.NewAnalyticsService(analyticsRepo, cacheSvc)

	deps := &http.Dependencies{
		Bookings:  bookingSvc,
		Users:     userSvc,
		Agents:    agentSvc,
		Analytics: analyticsSvc,
		Tracking:  trackingSvc,
		Hub:       hub,
		DB:        db,
		Cache:     cache,
		NATS:      publisher,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "HurryUp Express API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.hurryup.example",
		AllowMethods:     "GET,POST,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
