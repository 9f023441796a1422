package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hurryup/express/internal/core/domain"
	"github.com/hurryup/express/internal/core/ports"
)

// UserService handles account profiles.
type UserService struct {
	users     ports.UserRepository
	publisher ports.EventPublisher
	now       func() time.Time
}

// NewUserService creates a new UserService. The publisher is optional; with
// nil no welcome email event is emitted.
func NewUserService(users ports.UserRepository, publisher ports.EventPublisher) *UserService {
	return &UserService{users: users, publisher: publisher, now: time.Now}
}

// Create stores a new user record and emits a registration event for the
// welcome email. The event is best effort.
func (s *UserService) Create(ctx context.Context, u *domain.User) error {
	if u.UID == "" {
		return &ValidationError{Field: "uid", Msg: "uid required"}
	}
	if u.Role == "" {
		u.Role = domain.RoleCustomer
	}
	u.CreatedAt = s.now()
	if err := s.users.Insert(ctx, u); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishBookingEvent(ctx, domain.NewRegistrationEvent(u)); err != nil {
			slog.Warn("publish registration event", "uid", u.UID, "error", err)
		}
	}
	return nil
}

// Find lists users filtered by uid and/or role.
func (s *UserService) Find(ctx context.Context, q domain.UserQuery) ([]domain.User, error) {
	return s.users.Find(ctx, q)
}

// UpdateProfile patches the whitelisted profile fields of a user addressed
// by document id or auth uid.
func (s *UserService) UpdateProfile(ctx context.Context, idOrUID string, patch domain.ProfilePatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return &ValidationError{Field: "body", Msg: "no changes were made to the profile"}
	}
	fields["updatedAt"] = s.now()

	modified, err := s.users.UpdateProfile(ctx, idOrUID, fields)
	if err != nil {
		return err
	}
	if modified == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastSignIn records the auth provider's last sign-in time for a uid.
func (s *UserService) TouchLastSignIn(ctx context.Context, uid, lastSignInTime string) error {
	if uid == "" {
		return &ValidationError{Field: "uid", Msg: "uid required"}
	}
	return s.users.TouchLastSignIn(ctx, uid, lastSignInTime)
}
