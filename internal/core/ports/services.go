package ports

import (
	"context"

	"github.com/hurryup/express/internal/core/domain"
)

// LocationCache is the in-process last-location cache used for instant
// replay. Implementations must be safe for concurrent use.
type LocationCache interface {
	Get(bookingID string) (domain.LastLocation, bool)
	Set(bookingID string, loc domain.LastLocation)
}

// LocationFeed fans a location update out to every channel subscribed to the
// booking's room. Delivery is fire-and-forget: no acknowledgment, no
// guarantee for channels disconnecting mid-broadcast. The in-process hub is
// the default implementation; a broker-backed one can replace it for
// multi-instance deployments.
type LocationFeed interface {
	Broadcast(bookingID string, upd domain.LocationUpdate)
}

// CacheService provides read-through caching for query results.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher publishes booking lifecycle events to the broker.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, ev *domain.BookingEvent) error
}

// EventSubscriber consumes booking lifecycle events from the broker.
type EventSubscriber interface {
	SubscribeBookingEvents(ctx context.Context, handler func(ctx context.Context, ev *domain.BookingEvent) error) error
}

// Mailer sends a transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}
