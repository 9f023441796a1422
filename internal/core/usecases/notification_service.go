package usecases

import (
	"context"
	"log/slog"

	"github.com/hurryup/express/internal/core/domain"
	"github.com/hurryup/express/internal/core/ports"
	"github.com/hurryup/express/internal/mailer"
	"github.com/hurryup/express/internal/pkg/metrics"
)

// NotificationService turns booking lifecycle events into transactional
// emails. Send failures are logged and the event is still acked.
type NotificationService struct {
	mail ports.Mailer
	log  *slog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(mail ports.Mailer, log *slog.Logger) *NotificationService {
	if log == nil {
		log = slog.Default()
	}
	return &NotificationService{mail: mail, log: log.With("component", "notifier")}
}

// HandleBookingEvent renders and sends the email matching the event kind.
// Events without a customer email are skipped.
func (s *NotificationService) HandleBookingEvent(ctx context.Context, ev *domain.BookingEvent) error {
	if ev.CustomerEmail == "" {
		s.log.Debug("skipping event without customer email", "kind", ev.Kind, "bookingId", ev.BookingID)
		return nil
	}

	var msg mailer.Message
	switch {
	case ev.Kind == domain.EventBookingCreated:
		msg = mailer.BookingCreated(ev)
	case ev.Kind == domain.EventStatusChanged && ev.Status == domain.StatusInTransit:
		msg = mailer.StatusInTransit(ev)
	case ev.Kind == domain.EventStatusChanged && ev.Status == domain.StatusDelivered:
		msg = mailer.StatusDelivered(ev)
	case ev.Kind == domain.EventStatusChanged && ev.Status == domain.StatusFailed:
		msg = mailer.StatusFailed(ev)
	case ev.Kind == domain.EventUserRegistered:
		msg = mailer.Registration(ev.CustomerName, ev.CustomerEmail)
	default:
		// assigned and intermediate statuses don't email the customer
		return nil
	}

	if err := s.mail.Send(ctx, ev.CustomerEmail, msg.Subject, msg.HTML, msg.Text); err != nil {
		metrics.EmailsSent.WithLabelValues(msg.Template, "error").Inc()
		s.log.Warn("send email failed", "template", msg.Template, "bookingId", ev.BookingID, "error", err)
		return nil
	}
	metrics.EmailsSent.WithLabelValues(msg.Template, "ok").Inc()
	return nil
}
