package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/glambooking/glambooking-api/internal/core/domain/booking"
	"github.com/glambooking/glambooking-api/internal/core/domain/dashboard"
	"github.com/glambooking/glambooking-api/internal/core/ports"
	"github.com/glambooking/glambooking-api/internal/infrastructure/db"
)

// StatsRepository runs read-only aggregates over bookings and clients. Day and
// month boundaries are taken in UTC.
type StatsRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewStatsRepository(database *db.Database, logger *logrus.Logger) ports.StatsRepository {
	return &StatsRepository{db: database, logger: logger}
}

func (r *StatsRepository) Summary(ctx context.Context, salonID uuid.UUID, now time.Time) (*dashboard.Summary, error) {
	now = now.UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status <> $2 AND starts_at >= $4 AND starts_at < $5),
			COUNT(*) FILTER (WHERE status = $3 AND starts_at >= $7),
			COUNT(*) FILTER (WHERE status = $6 AND starts_at >= $8),
			COALESCE(SUM(price_cents) FILTER (WHERE status = $6 AND starts_at >= $8), 0),
			(SELECT COUNT(*) FROM clients WHERE salon_id = $1)
		FROM bookings
		WHERE salon_id = $1`

	var sum dashboard.Summary
	err := r.db.DB.QueryRowContext(ctx, query,
		salonID, booking.StatusCanceled, booking.StatusConfirmed, dayStart, dayEnd,
		booking.StatusCompleted, now, monthStart,
	).Scan(&sum.BookingsToday, &sum.UpcomingBookings, &sum.CompletedThisMonth, &sum.RevenueThisMonthCents, &sum.TotalClients)
	if err != nil {
		if r.logger != nil {
			r.logger.WithField("salon_id", salonID).WithError(err).Error("db: failed to compute summary")
		}
		return nil, fmt.Errorf("failed to compute summary: %w", err)
	}
	return &sum, nil
}

// DailyRevenue groups completed bookings by start day. Days without revenue are omitted.
func (r *StatsRepository) DailyRevenue(ctx context.Context, salonID uuid.UUID, since time.Time) ([]dashboard.DailyRevenue, error) {
	days := []dashboard.DailyRevenue{}
	query := `
		SELECT date_trunc('day', starts_at AT TIME ZONE 'UTC') AS day,
		       COUNT(*) AS bookings,
		       COALESCE(SUM(price_cents), 0) AS total_cents
		FROM bookings
		WHERE salon_id = $1 AND status = $2 AND starts_at >= $3
		GROUP BY 1
		ORDER BY 1`

	if err := r.db.DB.SelectContext(ctx, &days, query, salonID, booking.StatusCompleted, since); err != nil {
		return nil, fmt.Errorf("failed to compute daily revenue: %w", err)
	}
	return days, nil
}
