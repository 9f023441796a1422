package usecases_test

import (
	"context"
	"testing"

	"github.com/hurryup/express/internal/core/domain"
	"github.com/hurryup/express/internal/core/usecases"
)

type mockAnalyticsRepo struct {
	dailyFn func(ctx context.Context, r domain.DateRange) ([]domain.DailyBookingStat, error)
	statsFn func(ctx context.Context, r domain.DateRange) (*domain.DeliveryStats, error)
	codFn   func(ctx context.Context, r domain.DateRange) (*domain.CODSummary, error)
}

func (m *mockAnalyticsRepo) DailyBookings(ctx context.Context, r domain.DateRange) ([]domain.DailyBookingStat, error) {
	if m.dailyFn != nil {
		return m.dailyFn(ctx, r)
	}
	return nil, nil
}
func (m *mockAnalyticsRepo) DeliveryStats(ctx context.Context, r domain.DateRange) (*domain.DeliveryStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, r)
	}
	return nil, nil
}
func (m *mockAnalyticsRepo) CODSummary(ctx context.Context, r domain.DateRange) (*domain.CODSummary, error) {
	if m.codFn != nil {
		return m.codFn(ctx, r)
	}
	return nil, nil
}

func TestDeliveryStatsSuccessRate(t *testing.T) {
	repo := &mockAnalyticsRepo{
		statsFn: func(context.Context, domain.DateRange) (*domain.DeliveryStats, error) {
			return &domain.DeliveryStats{Total: 3, Delivered: 2, Failed: 1}, nil
		},
	}
	svc := usecases.NewAnalyticsService(repo, nil)

	report, err := svc.DeliveryStats(context.Background(), domain.DateRange{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if report.Successful != 2 || report.Failed != 1 {
		t.Errorf("split wrong: %+v", report)
	}
	if report.SuccessRate != 66.67 {
		t.Errorf("success rate: want 66.67 got %v", report.SuccessRate)
	}
}

func TestDeliveryStatsEmptyIsZero(t *testing.T) {
	svc := usecases.NewAnalyticsService(&mockAnalyticsRepo{}, nil)

	report, err := svc.DeliveryStats(context.Background(), domain.DateRange{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if report.SuccessRate != 0 || report.Stats.Total != 0 {
		t.Errorf("empty stats should be zeroes: %+v", report)
	}
}

func TestDailyBookingsUsesCache(t *testing.T) {
	calls := 0
	repo := &mockAnalyticsRepo{
		dailyFn: func(context.Context, domain.DateRange) ([]domain.DailyBookingStat, error) {
			calls++
			return []domain.DailyBookingStat{{Date: "2026-01-01", Count: 4, TotalAmount: 640}}, nil
		},
	}
	cache := newMockCacheService()
	svc := usecases.NewAnalyticsService(repo, cache)

	for i := 0; i < 3; i++ {
		stats, err := svc.DailyBookings(context.Background(), domain.DateRange{})
		if err != nil {
			t.Fatalf("daily: %v", err)
		}
		if len(stats) != 1 || stats[0].Count != 4 {
			t.Errorf("stats wrong: %+v", stats)
		}
	}
	if calls != 1 {
		t.Errorf("repo queried %d times, cache not used", calls)
	}
}
