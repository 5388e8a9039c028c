package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/glambooking/glambooking-api/internal/application/cache"
	"github.com/glambooking/glambooking-api/internal/core/domain/cachekey"
	"github.com/glambooking/glambooking-api/internal/core/domain/dashboard"
	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
	"github.com/glambooking/glambooking-api/internal/core/ports"
)

const (
	dashboardTTL         = 60 * time.Second
	revenueWindowDays    = 30
	dashboardUpcomingMax = 5
)

// DashboardService only reads. Its entries are cleared by the booking and client
// write paths through the registry's cascades.
type DashboardService struct {
	stats    ports.StatsRepository
	bookings ports.BookingRepository
	cache    *cache.Cache
	logger   *logrus.Logger
	now      func() time.Time
}

func NewDashboardService(stats ports.StatsRepository, bookings ports.BookingRepository, c *cache.Cache, logger *logrus.Logger) ports.DashboardService {
	return &DashboardService{stats: stats, bookings: bookings, cache: c, logger: ensureLogger(logger), now: time.Now}
}

func (s *DashboardService) Summary(ctx context.Context, sl *salon.Salon) (*dashboard.Summary, error) {
	return cache.Fetch(ctx, s.cache, cachekey.DashboardSummary(sl.OwnerID), func(ctx context.Context) (*dashboard.Summary, error) {
		sum, err := s.stats.Summary(ctx, sl.ID, s.now())
		if err != nil {
			return nil, fmt.Errorf("failed to compute dashboard summary: %w", err)
		}
		return sum, nil
	}, dashboardTTL)
}

func (s *DashboardService) Revenue(ctx context.Context, sl *salon.Salon) (*dashboard.Revenue, error) {
	return cache.Fetch(ctx, s.cache, cachekey.DashboardRevenue(sl.OwnerID), func(ctx context.Context) (*dashboard.Revenue, error) {
		since := s.now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -revenueWindowDays)
		days, err := s.stats.DailyRevenue(ctx, sl.ID, since)
		if err != nil {
			return nil, fmt.Errorf("failed to compute revenue: %w", err)
		}
		rev := &dashboard.Revenue{Since: since, Days: days, Currency: sl.Settings.Currency}
		if rev.Days == nil {
			rev.Days = []dashboard.DailyRevenue{}
		}
		for _, d := range days {
			rev.TotalCents += d.TotalCents
		}
		return rev, nil
	}, dashboardTTL)
}

func (s *DashboardService) Upcoming(ctx context.Context, sl *salon.Salon) (*dashboard.Upcoming, error) {
	return cache.Fetch(ctx, s.cache, cachekey.DashboardUpcoming(sl.OwnerID), func(ctx context.Context) (*dashboard.Upcoming, error) {
		list, err := s.bookings.ListUpcoming(ctx, sl.ID, s.now(), dashboardUpcomingMax)
		if err != nil {
			return nil, err
		}
		return &dashboard.Upcoming{Bookings: list}, nil
	}, dashboardTTL)
}
