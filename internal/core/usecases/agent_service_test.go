package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hurryup/express/internal/core/domain"
	"github.com/hurryup/express/internal/core/usecases"
)

// ---- Mocks ----

type mockAgentRequestRepo struct {
	insertFn     func(ctx context.Context, r *domain.AgentRequest) error
	findFn       func(ctx context.Context, q domain.AgentRequestQuery) ([]domain.AgentRequest, error)
	findByIDFn   func(ctx context.Context, id string) (*domain.AgentRequest, error)
	findActiveFn func(ctx context.Context, uid string) (*domain.AgentRequest, error)
	reviewFn     func(ctx context.Context, id string, review domain.RequestReview) (*domain.AgentRequest, error)
}

func (m *mockAgentRequestRepo) Insert(ctx context.Context, r *domain.AgentRequest) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, r)
	}
	return nil
}
func (m *mockAgentRequestRepo) Find(ctx context.Context, q domain.AgentRequestQuery) ([]domain.AgentRequest, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return nil, nil
}
func (m *mockAgentRequestRepo) FindByID(ctx context.Context, id string) (*domain.AgentRequest, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockAgentRequestRepo) FindActiveByUID(ctx context.Context, uid string) (*domain.AgentRequest, error) {
	if m.findActiveFn != nil {
		return m.findActiveFn(ctx, uid)
	}
	return nil, nil
}
func (m *mockAgentRequestRepo) Review(ctx context.Context, id string, review domain.RequestReview) (*domain.AgentRequest, error) {
	if m.reviewFn != nil {
		return m.reviewFn(ctx, id, review)
	}
	return nil, nil
}

type mockUserRepo struct {
	insertFn    func(ctx context.Context, u *domain.User) error
	findFn      func(ctx context.Context, q domain.UserQuery) ([]domain.User, error)
	findByUIDFn func(ctx context.Context, uid string) (*domain.User, error)
	updateFn    func(ctx context.Context, idOrUID string, fields map[string]any) (int64, error)
	touchFn     func(ctx context.Context, uid, lastSignInTime string) error
	promoteFn   func(ctx context.Context, uid string, info domain.AgentInfo) error
}

func (m *mockUserRepo) Insert(ctx context.Context, u *domain.User) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, u)
	}
	return nil
}
func (m *mockUserRepo) Find(ctx context.Context, q domain.UserQuery) ([]domain.User, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return nil, nil
}
func (m *mockUserRepo) FindByUID(ctx context.Context, uid string) (*domain.User, error) {
	if m.findByUIDFn != nil {
		return m.findByUIDFn(ctx, uid)
	}
	return nil, nil
}
func (m *mockUserRepo) UpdateProfile(ctx context.Context, idOrUID string, fields map[string]any) (int64, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, idOrUID, fields)
	}
	return 1, nil
}
func (m *mockUserRepo) TouchLastSignIn(ctx context.Context, uid, lastSignInTime string) error {
	if m.touchFn != nil {
		return m.touchFn(ctx, uid, lastSignInTime)
	}
	return nil
}
func (m *mockUserRepo) PromoteToAgent(ctx context.Context, uid string, info domain.AgentInfo) error {
	if m.promoteFn != nil {
		return m.promoteFn(ctx, uid, info)
	}
	return nil
}

func validRequest() *domain.AgentRequest {
	return &domain.AgentRequest{
		UID:          "user-9",
		Name:         "Salam",
		Phone:        "01700000009",
		Email:        "salam@example.com",
		VehicleType:  "motorbike",
		Availability: "full-time",
	}
}

// ---- Submit ----

func TestSubmitAgentRequest(t *testing.T) {
	var inserted *domain.AgentRequest
	repo := &mockAgentRequestRepo{
		insertFn: func(_ context.Context, r *domain.AgentRequest) error {
			inserted = r
			return nil
		},
	}
	svc := usecases.NewAgentService(repo, &mockUserRepo{})

	created, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !strings.HasPrefix(created.RequestID, "AGENT") {
		t.Errorf("request id %q lacks prefix", created.RequestID)
	}
	if created.Status != domain.RequestPending {
		t.Errorf("status: want pending got %q", created.Status)
	}
	if inserted == nil {
		t.Fatal("nothing inserted")
	}
}

func TestSubmitRejectsMissingFields(t *testing.T) {
	svc := usecases.NewAgentService(&mockAgentRequestRepo{}, &mockUserRepo{})

	r := validRequest()
	r.VehicleType = ""
	if _, err := svc.Submit(context.Background(), r); !usecases.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestSubmitRejectsDuplicateActiveRequest(t *testing.T) {
	repo := &mockAgentRequestRepo{
		findActiveFn: func(_ context.Context, uid string) (*domain.AgentRequest, error) {
			return &domain.AgentRequest{UID: uid, Status: domain.RequestPending}, nil
		},
	}
	svc := usecases.NewAgentService(repo, &mockUserRepo{})

	if _, err := svc.Submit(context.Background(), validRequest()); !usecases.IsConflict(err) {
		t.Fatalf("want conflict, got %v", err)
	}
}

// ---- Review ----

func TestReviewApprovalPromotesUser(t *testing.T) {
	repo := &mockAgentRequestRepo{
		reviewFn: func(_ context.Context, id string, review domain.RequestReview) (*domain.AgentRequest, error) {
			return &domain.AgentRequest{
				UID:          "user-9",
				VehicleType:  "motorbike",
				Availability: "full-time",
				Status:       review.Status,
			}, nil
		},
	}
	promoted := false
	users := &mockUserRepo{
		promoteFn: func(_ context.Context, uid string, info domain.AgentInfo) error {
			promoted = true
			if uid != "user-9" {
				t.Errorf("promoted wrong uid %q", uid)
			}
			if info.VehicleType != "motorbike" {
				t.Errorf("agent info missing vehicle type: %+v", info)
			}
			return nil
		},
	}
	svc := usecases.NewAgentService(repo, users)

	if _, err := svc.Review(context.Background(), "abc", domain.RequestReview{Status: domain.RequestApproved}); err != nil {
		t.Fatalf("review: %v", err)
	}
	if !promoted {
		t.Error("approval did not promote the user")
	}
}

func TestReviewRejectionDoesNotPromote(t *testing.T) {
	repo := &mockAgentRequestRepo{
		reviewFn: func(_ context.Context, id string, review domain.RequestReview) (*domain.AgentRequest, error) {
			return &domain.AgentRequest{UID: "user-9", Status: review.Status}, nil
		},
	}
	users := &mockUserRepo{
		promoteFn: func(context.Context, string, domain.AgentInfo) error {
			t.Error("rejection promoted the user")
			return nil
		},
	}
	svc := usecases.NewAgentService(repo, users)

	if _, err := svc.Review(context.Background(), "abc", domain.RequestReview{Status: domain.RequestRejected}); err != nil {
		t.Fatalf("review: %v", err)
	}
}

func TestReviewValidatesStatus(t *testing.T) {
	svc := usecases.NewAgentService(&mockAgentRequestRepo{}, &mockUserRepo{})

	if _, err := svc.Review(context.Background(), "abc", domain.RequestReview{Status: "maybe"}); !usecases.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
	if _, err := svc.Review(context.Background(), "abc", domain.RequestReview{}); !usecases.IsValidation(err) {
		t.Fatalf("want validation error for empty status, got %v", err)
	}
}

func TestReviewUnknownRequestIsNotFound(t *testing.T) {
	svc := usecases.NewAgentService(&mockAgentRequestRepo{}, &mockUserRepo{})

	_, err := svc.Review(context.Background(), "abc", domain.RequestReview{Status: domain.RequestApproved})
	if !errors.Is(err, usecases.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

// ---- Users ----

func TestUpdateProfileEmptyPatchRejected(t *testing.T) {
	svc := usecases.NewUserService(&mockUserRepo{}, nil)

	err := svc.UpdateProfile(context.Background(), "user-1", domain.ProfilePatch{})
	if !usecases.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestUpdateProfilePatchesWhitelistedFields(t *testing.T) {
	name := "New Name"
	city := "Chattogram"
	var got map[string]any
	users := &mockUserRepo{
		updateFn: func(_ context.Context, idOrUID string, fields map[string]any) (int64, error) {
			got = fields
			return 1, nil
		},
	}
	svc := usecases.NewUserService(users, nil)

	if err := svc.UpdateProfile(context.Background(), "user-1", domain.ProfilePatch{Name: &name, City: &city}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got["name"] != "New Name" || got["city"] != "Chattogram" {
		t.Errorf("patched fields wrong: %v", got)
	}
	if _, ok := got["updatedAt"]; !ok {
		t.Error("updatedAt not stamped")
	}
}

func TestUpdateProfileUnknownUserIsNotFound(t *testing.T) {
	users := &mockUserRepo{
		updateFn: func(context.Context, string, map[string]any) (int64, error) {
			return 0, nil
		},
	}
	svc := usecases.NewUserService(users, nil)

	err := svc.UpdateProfile(context.Background(), "ghost", domain.ProfilePatch{Name: strPtr("x")})
	if !errors.Is(err, usecases.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCreateUserDefaultsRole(t *testing.T) {
	var inserted *domain.User
	users := &mockUserRepo{
		insertFn: func(_ context.Context, u *domain.User) error {
			inserted = u
			return nil
		},
	}
	svc := usecases.NewUserService(users, nil)

	if err := svc.Create(context.Background(), &domain.User{UID: "u1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if inserted.Role != domain.RoleCustomer {
		t.Errorf("role: want customer got %q", inserted.Role)
	}

	if err := svc.Create(context.Background(), &domain.User{}); !usecases.IsValidation(err) {
		t.Fatalf("want validation error for missing uid, got %v", err)
	}
}

func TestCreateUserPublishesRegistrationEvent(t *testing.T) {
	pub := &mockPublisher{}
	svc := usecases.NewUserService(&mockUserRepo{}, pub)

	u := &domain.User{UID: "u1", Name: "Rahim", Email: "rahim@example.com"}
	if err := svc.Create(context.Background(), u); err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(pub.events) != 1 {
		t.Fatalf("events: want 1 got %d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Kind != domain.EventUserRegistered {
		t.Errorf("kind %q", ev.Kind)
	}
	if ev.CustomerEmail != "rahim@example.com" {
		t.Errorf("email %q", ev.CustomerEmail)
	}
}

func strPtr(s string) *string { return &s }
