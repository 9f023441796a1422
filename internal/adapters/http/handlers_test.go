package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/hurryup/express/internal/adapters/http"
	"github.com/hurryup/express/internal/adapters/memcache"
	"github.com/hurryup/express/internal/core/domain"
	"github.com/hurryup/express/internal/core/usecases"
)

// ---- Mock repositories ----

type mockBookingRepo struct {
	insertFn        func(ctx context.Context, b *domain.Booking) error
	findFn          func(ctx context.Context, q domain.BookingQuery) ([]domain.Booking, error)
	findByBookingFn func(ctx context.Context, bookingID string) (*domain.Booking, error)
	findByIDFn      func(ctx context.Context, id string) (*domain.Booking, error)
	updateStatusFn  func(ctx context.Context, id, status, failureReason string) (*domain.Booking, error)
}

func (m *mockBookingRepo) Insert(ctx context.Context, b *domain.Booking) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, b)
	}
	return nil
}
func (m *mockBookingRepo) Find(ctx context.Context, q domain.BookingQuery) ([]domain.Booking, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return nil, nil
}
func (m *mockBookingRepo) FindByCustomer(ctx context.Context, uid string) ([]domain.Booking, error) {
	return nil, nil
}
func (m *mockBookingRepo) FindByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if m.findByBookingFn != nil {
		return m.findByBookingFn(ctx, bookingID)
	}
	return nil, nil
}
func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockBookingRepo) AssignAgent(ctx context.Context, id string, agent domain.DeliveryAgent) (*domain.Booking, error) {
	return nil, nil
}
func (m *mockBookingRepo) UpdateDeliveryStatus(ctx context.Context, id, status, failureReason string) (*domain.Booking, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status, failureReason)
	}
	return nil, nil
}
func (m *mockBookingRepo) LastLocation(ctx context.Context, bookingID string) (*domain.LastLocation, error) {
	return nil, nil
}
func (m *mockBookingRepo) UpsertLastLocation(ctx context.Context, bookingID string, loc domain.LastLocation) error {
	return nil
}

type mockUserRepo struct{}

func (m *mockUserRepo) Insert(ctx context.Context, u *domain.User) error { return nil }
func (m *mockUserRepo) Find(ctx context.Context, q domain.UserQuery) ([]domain.User, error) {
	return nil, nil
}
func (m *mockUserRepo) FindByUID(ctx context.Context, uid string) (*domain.User, error) {
	return nil, nil
}
func (m *mockUserRepo) UpdateProfile(ctx context.Context, idOrUID string, fields map[string]any) (int64, error) {
	return 1, nil
}
func (m *mockUserRepo) TouchLastSignIn(ctx context.Context, uid, lastSignInTime string) error {
	return nil
}
func (m *mockUserRepo) PromoteToAgent(ctx context.Context, uid string, info domain.AgentInfo) error {
	return nil
}

type mockAgentRequestRepo struct{}

func (m *mockAgentRequestRepo) Insert(ctx context.Context, r *domain.AgentRequest) error { return nil }
func (m *mockAgentRequestRepo) Find(ctx context.Context, q domain.AgentRequestQuery) ([]domain.AgentRequest, error) {
	return nil, nil
}
func (m *mockAgentRequestRepo) FindByID(ctx context.Context, id string) (*domain.AgentRequest, error) {
	return nil, nil
}
func (m *mockAgentRequestRepo) FindActiveByUID(ctx context.Context, uid string) (*domain.AgentRequest, error) {
	return nil, nil
}
func (m *mockAgentRequestRepo) Review(ctx context.Context, id string, review domain.RequestReview) (*domain.AgentRequest, error) {
	return nil, nil
}

type mockAnalyticsRepo struct{}

func (m *mockAnalyticsRepo) DailyBookings(ctx context.Context, r domain.DateRange) ([]domain.DailyBookingStat, error) {
	return []domain.DailyBookingStat{{Date: "2026-01-01", Count: 2, TotalAmount: 320}}, nil
}
func (m *mockAnalyticsRepo) DeliveryStats(ctx context.Context, r domain.DateRange) (*domain.DeliveryStats, error) {
	return &domain.DeliveryStats{Total: 4, Delivered: 3, Failed: 1}, nil
}
func (m *mockAnalyticsRepo) CODSummary(ctx context.Context, r domain.DateRange) (*domain.CODSummary, error) {
	return &domain.CODSummary{}, nil
}

// ---- Test app ----

func newTestApp(bookings *mockBookingRepo) *fiber.App {
	hub := handler.NewHub(nil)
	locCache := memcache.NewLocationCache(128, time.Minute)
	tracking := usecases.NewTrackingService(hub, locCache, bookings, nil)

	deps := &handler.Dependencies{
		Bookings:  usecases.NewBookingService(bookings, nil, nil),
		Users:     usecases.NewUserService(&mockUserRepo{}, nil),
		Agents:    usecases.NewAgentService(&mockAgentRequestRepo{}, &mockUserRepo{}),
		Analytics: usecases.NewAnalyticsService(&mockAnalyticsRepo{}, nil),
		Tracking:  tracking,
		Hub:       hub,
	}

	app := fiber.New()
	handler.SetupRoutes(app, deps)
	return app
}

func bookingBody() string {
	return `{
		"uid": "user-1",
		"pickupContactName": "Rahim",
		"pickupPhone": "01700000001",
		"pickupAddress": "House 1, Dhanmondi",
		"deliveryContactName": "Karim",
		"deliveryPhone": "01700000002",
		"deliveryAddress": "House 2, Savar",
		"deliveryDivision": "Dhaka",
		"deliveryZipCode": "1207",
		"parcelSize": "medium",
		"parcelType": "documents",
		"parcelWeight": 2,
		"paymentMethod": "cod"
	}`
}

func TestCreateBookingEndpoint(t *testing.T) {
	app := newTestApp(&mockBookingRepo{})

	req := httptest.NewRequest("POST", "/v1/bookings", strings.NewReader(bookingBody()))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 201 {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}

	var created domain.Booking
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(created.BookingID, "HurryUp") {
		t.Errorf("booking id %q", created.BookingID)
	}
	if created.TotalCharge != 100 {
		t.Errorf("total charge %d", created.TotalCharge)
	}
}

func TestCreateBookingValidationError(t *testing.T) {
	app := newTestApp(&mockBookingRepo{})

	req := httptest.NewRequest("POST", "/v1/bookings", strings.NewReader(`{"uid":"user-1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}

	var apiErr handler.APIError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if apiErr.Code != "bad_request" {
		t.Errorf("error code %q", apiErr.Code)
	}
}

func TestTrackEndpoint(t *testing.T) {
	bookings := &mockBookingRepo{
		findByBookingFn: func(_ context.Context, bookingID string) (*domain.Booking, error) {
			if bookingID != "HurryUp000123" {
				return nil, nil
			}
			return &domain.Booking{
				BookingID:      bookingID,
				DeliveryStatus: domain.StatusInTransit,
				DeliveryAgent:  &domain.DeliveryAgent{Name: "Agent", Phone: "017", Email: "secret@example.com"},
				LastLocation:   &domain.LastLocation{Lat: 23.81, Lng: 90.41, Ts: 1700000000000},
			}, nil
		},
	}
	app := newTestApp(bookings)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/track/HurryUp000123", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var pt map[string]any
	if err := json.Unmarshal(body, &pt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pt["status"] != domain.StatusInTransit {
		t.Errorf("status %v", pt["status"])
	}
	if strings.Contains(string(body), "secret@example.com") {
		t.Error("agent email leaked on the public tracking view")
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/track/HurryUp_unknown", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("unknown booking: status %d, want 404", resp.StatusCode)
	}
}

func TestUpdateDeliveryStatusEndpointRejectsUnknownStatus(t *testing.T) {
	app := newTestApp(&mockBookingRepo{})

	req := httptest.NewRequest("PATCH", "/v1/bookings/abc/delivery-status",
		strings.NewReader(`{"deliveryStatus":"teleported"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("status %d, want 400", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(&mockBookingRepo{})

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/health", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestDeliveryStatsEndpoint(t *testing.T) {
	app := newTestApp(&mockBookingRepo{})

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/analytics/delivery-stats", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}

	var report domain.DeliveryReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.SuccessRate != 75 {
		t.Errorf("success rate %v", report.SuccessRate)
	}
}
