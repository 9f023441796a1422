package ports

import (
	"context"

	"github.com/hurryup/express/internal/core/domain"
)

// BookingRepository persists bookings.
type BookingRepository interface {
	Insert(ctx context.Context, b *domain.Booking) error
	Find(ctx context.Context, q domain.BookingQuery) ([]domain.Booking, error)
	FindByCustomer(ctx context.Context, uid string) ([]domain.Booking, error)
	FindByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error)
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	AssignAgent(ctx context.Context, id string, agent domain.DeliveryAgent) (*domain.Booking, error)
	UpdateDeliveryStatus(ctx context.Context, id, status, failureReason string) (*domain.Booking, error)
}

// LocationStore is the slice of the booking store the tracking subsystem
// consumes: the embedded lastLocation of a booking document.
type LocationStore interface {
	// LastLocation returns the persisted location, or (nil, nil) when the
	// booking has none.
	LastLocation(ctx context.Context, bookingID string) (*domain.LastLocation, error)
	// UpsertLastLocation atomically sets lastLocation and updatedAt on the
	// matching booking document.
	UpsertLastLocation(ctx context.Context, bookingID string, loc domain.LastLocation) error
}

// UserRepository persists user accounts.
type UserRepository interface {
	Insert(ctx context.Context, u *domain.User) error
	Find(ctx context.Context, q domain.UserQuery) ([]domain.User, error)
	FindByUID(ctx context.Context, uid string) (*domain.User, error)
	// UpdateProfile patches whitelisted fields; idOrUID may be a document id
	// or the auth provider uid. Returns the number of modified documents.
	UpdateProfile(ctx context.Context, idOrUID string, fields map[string]any) (int64, error)
	TouchLastSignIn(ctx context.Context, uid, lastSignInTime string) error
	PromoteToAgent(ctx context.Context, uid string, info domain.AgentInfo) error
}

// AgentRequestRepository persists agent applications.
type AgentRequestRepository interface {
	Insert(ctx context.Context, r *domain.AgentRequest) error
	Find(ctx context.Context, q domain.AgentRequestQuery) ([]domain.AgentRequest, error)
	FindByID(ctx context.Context, id string) (*domain.AgentRequest, error)
	// FindActiveByUID returns a pending or approved request for the uid, or
	// (nil, nil) when there is none.
	FindActiveByUID(ctx context.Context, uid string) (*domain.AgentRequest, error)
	Review(ctx context.Context, id string, review domain.RequestReview) (*domain.AgentRequest, error)
}

// AnalyticsRepository runs aggregation queries over bookings.
type AnalyticsRepository interface {
	DailyBookings(ctx context.Context, r domain.DateRange) ([]domain.DailyBookingStat, error)
	DeliveryStats(ctx context.Context, r domain.DateRange) (*domain.DeliveryStats, error)
	CODSummary(ctx context.Context, r domain.DateRange) (*domain.CODSummary, error)
}
