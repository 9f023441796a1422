package usecases

import (
	"context"
	"fmt"
	"math"

	"github.com/hurryup/express/internal/core/domain"
	"github.com/hurryup/express/internal/core/ports"
)

// AnalyticsService serves aggregate booking reports, cached briefly since
// dashboards poll them.
type AnalyticsService struct {
	analytics ports.AnalyticsRepository
	cache     ports.CacheService
}

// NewAnalyticsService creates a new AnalyticsService. cache may be nil.
func NewAnalyticsService(analytics ports.AnalyticsRepository, cache ports.CacheService) *AnalyticsService {
	return &AnalyticsService{analytics: analytics, cache: cache}
}

// DailyBookings returns booking count and revenue per day in the range.
func (s *AnalyticsService) DailyBookings(ctx context.Context, r domain.DateRange) ([]domain.DailyBookingStat, error) {
	cacheKey := fmt.Sprintf("analytics:daily:%d:%d", r.Start.Unix(), r.End.Unix())
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var stats []domain.DailyBookingStat
			if err := unmarshalCached(data, &stats); err == nil {
				return stats, nil
			}
		}
	}

	stats, err := s.analytics.DailyBookings(ctx, r)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := marshalCached(stats); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}
	return stats, nil
}

// DeliveryStats returns per-status counts with the derived success rate.
func (s *AnalyticsService) DeliveryStats(ctx context.Context, r domain.DateRange) (*domain.DeliveryReport, error) {
	stats, err := s.analytics.DeliveryStats(ctx, r)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = &domain.DeliveryStats{}
	}

	report := &domain.DeliveryReport{
		Stats:      *stats,
		Successful: stats.Delivered,
		Failed:     stats.Total - stats.Delivered,
	}
	if stats.Total > 0 {
		rate := float64(stats.Delivered) / float64(stats.Total) * 100
		report.SuccessRate = math.Round(rate*100) / 100
	}
	return report, nil
}

// CODSummary returns cash-on-delivery totals split by collection state.
func (s *AnalyticsService) CODSummary(ctx context.Context, r domain.DateRange) (*domain.CODSummary, error) {
	summary, err := s.analytics.CODSummary(ctx, r)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		summary = &domain.CODSummary{}
	}
	return summary, nil
}
