package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/hurryup/express/internal/core/domain"
	"github.com/hurryup/express/internal/core/ports"
	"github.com/hurryup/express/internal/pkg/metrics"
)

// BookingService handles the booking lifecycle: creation with charge
// calculation, agent assignment, delivery status transitions, and the public
// tracking view.
type BookingService struct {
	bookings  ports.BookingRepository
	publisher ports.EventPublisher
	cache     ports.CacheService
	now       func() time.Time
}

// NewBookingService creates a new BookingService. publisher and cache may be
// nil; events and response caching are then skipped.
func NewBookingService(bookings ports.BookingRepository, publisher ports.EventPublisher, cache ports.CacheService) *BookingService {
	return &BookingService{bookings: bookings, publisher: publisher, cache: cache, now: time.Now}
}

// requiredBookingFields must all be present on creation.
var requiredBookingFields = []struct {
	name string
	get  func(*domain.Booking) bool
}{
	{"pickupContactName", func(b *domain.Booking) bool { return b.PickupContactName != "" }},
	{"pickupPhone", func(b *domain.Booking) bool { return b.PickupPhone != "" }},
	{"pickupAddress", func(b *domain.Booking) bool { return b.PickupAddress != "" }},
	{"deliveryContactName", func(b *domain.Booking) bool { return b.DeliveryContactName != "" }},
	{"deliveryPhone", func(b *domain.Booking) bool { return b.DeliveryPhone != "" }},
	{"deliveryAddress", func(b *domain.Booking) bool { return b.DeliveryAddress != "" }},
	{"deliveryDivision", func(b *domain.Booking) bool { return b.DeliveryDivision != "" }},
	{"deliveryZipCode", func(b *domain.Booking) bool { return b.DeliveryZipCode != "" }},
	{"parcelSize", func(b *domain.Booking) bool { return b.ParcelSize != "" }},
	{"parcelType", func(b *domain.Booking) bool { return b.ParcelType != "" }},
	{"parcelWeight", func(b *domain.Booking) bool { return b.ParcelWeight > 0 }},
	{"paymentMethod", func(b *domain.Booking) bool { return b.PaymentMethod != "" }},
}

// Create validates and stores a new booking. It computes the delivery
// charge, generates the public booking id, and emits a created event.
func (s *BookingService) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	for _, f := range requiredBookingFields {
		if !f.get(b) {
			return nil, &ValidationError{Field: f.name, Msg: "missing " + f.name}
		}
	}

	calc := domain.CalculateDeliveryCharge(b.DeliveryZipCode, b.ParcelWeight)
	b.DeliveryCharge = calc.BaseCharge
	b.TotalCharge = calc.TotalCharge
	b.ChargeBreakdown = calc

	b.BookingID = s.newBookingID()
	b.Status = domain.StatusPending
	b.CreatedAt = s.now()

	if err := s.bookings.Insert(ctx, b); err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	metrics.BookingsCreated.Inc()

	s.publish(ctx, domain.EventBookingCreated, b)
	return b, nil
}

// newBookingID builds a public id from the epoch-millis tail plus two random
// digits, e.g. HurryUp12345678.
func (s *BookingService) newBookingID() string {
	millis := strconv.FormatInt(s.now().UnixMilli(), 10)
	return fmt.Sprintf("HurryUp%s%02d", millis[len(millis)-6:], rand.Intn(100))
}

// Find lists bookings filtered by agent uid, status, or booking id, newest
// first.
func (s *BookingService) Find(ctx context.Context, q domain.BookingQuery) ([]domain.Booking, error) {
	return s.bookings.Find(ctx, q)
}

// FindByCustomer lists a customer's own bookings.
func (s *BookingService) FindByCustomer(ctx context.Context, uid string) ([]domain.Booking, error) {
	if uid == "" {
		return nil, &ValidationError{Field: "uid", Msg: "uid required"}
	}
	return s.bookings.FindByCustomer(ctx, uid)
}

// PublicTracking returns the unauthenticated tracking view of a booking,
// cached briefly to shield the store from tracking-page polling.
func (s *BookingService) PublicTracking(ctx context.Context, trackingID string) (*domain.PublicTracking, error) {
	if trackingID == "" {
		return nil, &ValidationError{Field: "trackingId", Msg: "trackingId required"}
	}

	cacheKey := "track:" + trackingID
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var pt domain.PublicTracking
			if err := unmarshalCached(data, &pt); err == nil {
				return &pt, nil
			}
		}
	}

	b, err := s.bookings.FindByBookingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}

	pt := b.PublicView()
	if s.cache != nil {
		if data, err := marshalCached(pt); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 30)
		}
	}
	return &pt, nil
}

// AssignAgent attaches a delivery agent to a pending booking and moves it to
// picked-up.
func (s *BookingService) AssignAgent(ctx context.Context, id string, agent domain.DeliveryAgent) (*domain.Booking, error) {
	if agent.Name == "" {
		return nil, &ValidationError{Field: "deliveryAgent.name", Msg: "delivery agent name is required"}
	}

	existing, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	if existing.Status != domain.StatusPending {
		return nil, &ConflictError{Msg: "booking is already " + existing.Status}
	}

	agent.AssignedAt = s.now()
	if agent.AssignedBy == "" {
		agent.AssignedBy = "admin"
	}
	updated, err := s.bookings.AssignAgent(ctx, id, agent)
	if err != nil {
		return nil, fmt.Errorf("assign agent: %w", err)
	}

	s.invalidateTracking(ctx, updated.BookingID)
	s.publish(ctx, domain.EventBookingAssigned, updated)
	return updated, nil
}

// UpdateDeliveryStatus applies a whitelisted status transition. A failed
// status records the reason; any other status clears it.
func (s *BookingService) UpdateDeliveryStatus(ctx context.Context, id, status, failureReason string) (*domain.Booking, error) {
	if status == "" {
		return nil, &ValidationError{Field: "deliveryStatus", Msg: "deliveryStatus required"}
	}
	status = domain.NormalizeStatus(status)
	if !domain.ValidDeliveryStatus(status) {
		return nil, &ValidationError{Field: "deliveryStatus", Msg: "invalid status value"}
	}

	updated, err := s.bookings.UpdateDeliveryStatus(ctx, id, status, failureReason)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	s.invalidateTracking(ctx, updated.BookingID)
	s.publish(ctx, domain.EventStatusChanged, updated)
	return updated, nil
}

func (s *BookingService) invalidateTracking(ctx context.Context, bookingID string) {
	if s.cache != nil && bookingID != "" {
		_ = s.cache.Delete(ctx, "track:"+bookingID)
	}
}

// publish emits a lifecycle event; failures are logged, never surfaced.
func (s *BookingService) publish(ctx context.Context, kind string, b *domain.Booking) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishBookingEvent(ctx, domain.NewBookingEvent(kind, b)); err != nil {
		slog.Warn("publish booking event failed", "kind", kind, "bookingId", b.BookingID, "error", err)
	}
}
