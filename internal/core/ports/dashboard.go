package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/glambooking/glambooking-api/internal/core/domain/dashboard"
	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
)

// StatsRepository runs the aggregate queries behind the dashboard.
type StatsRepository interface {
	Summary(ctx context.Context, salonID uuid.UUID, now time.Time) (*dashboard.Summary, error)
	DailyRevenue(ctx context.Context, salonID uuid.UUID, since time.Time) ([]dashboard.DailyRevenue, error)
}

type DashboardService interface {
	Summary(ctx context.Context, s *salon.Salon) (*dashboard.Summary, error)
	Revenue(ctx context.Context, s *salon.Salon) (*dashboard.Revenue, error)
	Upcoming(ctx context.Context, s *salon.Salon) (*dashboard.Upcoming, error)
}
