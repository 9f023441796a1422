// The notifier consumes booking lifecycle events from JetStream and sends
// transactional email through the Resend API.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/hurryup/express/internal/adapters/nats"
	"github.com/hurryup/express/internal/core/usecases"
	"github.com/hurryup/express/internal/mailer"
	"github.com/hurryup/express/internal/pkg/config"
	"github.com/hurryup/express/internal/pkg/logging"
)

func main() {
	cfg, err := config.Load("hurryup-notifier")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mail := mailer.New(cfg.Mail.APIKey, cfg.Mail.From, cfg.Mail.Enabled)
	notifier := usecases.NewNotificationService(mail, slog.Default())

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	if err := sub.SubscribeBookingEvents(ctx, notifier.HandleBookingEvent); err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("notifier running", "mail_enabled", cfg.Mail.Enabled)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received", "signal", sig.String())
}
