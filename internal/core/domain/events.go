package domain

import "time"

// Event kinds published on the broker.
const (
	EventBookingCreated  = "created"
	EventBookingAssigned = "assigned"
	EventStatusChanged   = "status"
	EventUserRegistered  = "registered"
)

// BookingEvent is the broker message emitted on booking lifecycle changes.
// It carries enough denormalized data for the notifier to render an email
// without a store round-trip.
type BookingEvent struct {
	Kind            string    `json:"kind"`
	BookingID       string    `json:"bookingId"`
	Status          string    `json:"status,omitempty"`
	FailureReason   string    `json:"failureReason,omitempty"`
	CustomerName    string    `json:"customerName,omitempty"`
	CustomerEmail   string    `json:"customerEmail,omitempty"`
	AgentName       string    `json:"agentName,omitempty"`
	PickupAddress   string    `json:"pickupAddress,omitempty"`
	DeliveryAddress string    `json:"deliveryAddress,omitempty"`
	DeliveryCharge  int       `json:"deliveryCharge,omitempty"`
	TotalCharge     int       `json:"totalCharge,omitempty"`
	OccurredAt      time.Time `json:"occurredAt"`
}

// NewBookingEvent builds an event snapshot from a booking.
func NewBookingEvent(kind string, b *Booking) *BookingEvent {
	ev := &BookingEvent{
		Kind:            kind,
		BookingID:       b.BookingID,
		Status:          NormalizeStatus(firstNonEmpty(b.DeliveryStatus, b.Status)),
		FailureReason:   b.FailureReason,
		CustomerName:    b.PickupContactName,
		CustomerEmail:   b.Email,
		PickupAddress:   b.PickupAddress,
		DeliveryAddress: b.DeliveryAddress,
		DeliveryCharge:  b.DeliveryCharge,
		TotalCharge:     b.TotalCharge,
		OccurredAt:      time.Now().UTC(),
	}
	if b.DeliveryAgent != nil {
		ev.AgentName = b.DeliveryAgent.Name
	}
	return ev
}

// NewRegistrationEvent builds the welcome-email event for a new user.
func NewRegistrationEvent(u *User) *BookingEvent {
	return &BookingEvent{
		Kind:          EventUserRegistered,
		CustomerName:  u.Name,
		CustomerEmail: firstNonEmpty(u.Email, u.Phone),
		OccurredAt:    time.Now().UTC(),
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
