package usecases

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/hurryup/express/internal/core/domain"
	"github.com/hurryup/express/internal/core/ports"
)

// AgentService handles delivery-agent applications and their review.
type AgentService struct {
	requests ports.AgentRequestRepository
	users    ports.UserRepository
	now      func() time.Time
}

// NewAgentService creates a new AgentService.
func NewAgentService(requests ports.AgentRequestRepository, users ports.UserRepository) *AgentService {
	return &AgentService{requests: requests, users: users, now: time.Now}
}

// Submit files a new agent request. A uid with a pending or approved request
// may not file another one.
func (s *AgentService) Submit(ctx context.Context, r *domain.AgentRequest) (*domain.AgentRequest, error) {
	for field, val := range map[string]string{
		"name":         r.Name,
		"phone":        r.Phone,
		"email":        r.Email,
		"vehicleType":  r.VehicleType,
		"availability": r.Availability,
	} {
		if val == "" {
			return nil, &ValidationError{Field: field, Msg: "missing required field: " + field}
		}
	}

	if r.UID != "" {
		existing, err := s.requests.FindActiveByUID(ctx, r.UID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, &ConflictError{Msg: "you already have a pending or approved agent request"}
		}
	}

	millis := strconv.FormatInt(s.now().UnixMilli(), 10)
	r.RequestID = fmt.Sprintf("AGENT%s%02d", millis[len(millis)-6:], rand.Intn(100))
	r.CreatedAt = s.now()
	if r.Status == "" {
		r.Status = domain.RequestPending
	}

	if err := s.requests.Insert(ctx, r); err != nil {
		return nil, fmt.Errorf("insert agent request: %w", err)
	}
	return r, nil
}

// Find lists agent requests filtered by uid, status, or id.
func (s *AgentService) Find(ctx context.Context, q domain.AgentRequestQuery) ([]domain.AgentRequest, error) {
	return s.requests.Find(ctx, q)
}

// Review applies an admin decision. Approval promotes the requesting user to
// the agent role with the request's vehicle and availability details.
func (s *AgentService) Review(ctx context.Context, id string, review domain.RequestReview) (*domain.AgentRequest, error) {
	if review.Status == "" {
		return nil, &ValidationError{Field: "status", Msg: "status is required"}
	}
	if !domain.ValidRequestStatus(review.Status) {
		return nil, &ValidationError{Field: "status", Msg: "invalid status: " + review.Status}
	}
	if review.ReviewedBy == "" {
		review.ReviewedBy = "admin"
	}

	updated, err := s.requests.Review(ctx, id, review)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	if review.Status == domain.RequestApproved && updated.UID != "" {
		info := domain.AgentInfo{
			Phone:        updated.Phone,
			VehicleType:  updated.VehicleType,
			Availability: updated.Availability,
			Experience:   updated.Experience,
			ApprovedAt:   s.now(),
		}
		if err := s.users.PromoteToAgent(ctx, updated.UID, info); err != nil {
			return nil, fmt.Errorf("promote user %s: %w", updated.UID, err)
		}
	}

	return updated, nil
}
