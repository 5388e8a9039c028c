package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/glambooking/glambooking-api/internal/core/domain/booking"
	"github.com/glambooking/glambooking-api/internal/core/ports"
	"github.com/glambooking/glambooking-api/internal/infrastructure/db"
)

const listingSelect = `
	SELECT b.id, b.salon_id, b.client_id, b.service_id, b.starts_at, b.ends_at, b.status, b.source,
	       b.price_cents, b.notes, b.created_at, b.updated_at,
	       c.name AS client_name, c.email AS client_email, s.name AS service_name
	FROM bookings b
	JOIN clients c ON c.id = b.client_id
	JOIN services s ON s.id = b.service_id`

type BookingRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewBookingRepository(database *db.Database, logger *logrus.Logger) ports.BookingRepository {
	return &BookingRepository{db: database, logger: logger}
}

// Create inserts a booking. A concurrent insert that slipped past HasOverlap is
// rejected by the bookings_no_overlap exclusion constraint.
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	query := `
		INSERT INTO bookings (id, salon_id, client_id, service_id, starts_at, ends_at, status, source, price_cents, notes, created_at, updated_at)
		VALUES (:id, :salon_id, :client_id, :service_id, :starts_at, :ends_at, :status, :source, :price_cents, :notes, :created_at, :updated_at)`

	if _, err := r.db.DB.NamedExecContext(ctx, query, b); err != nil {
		if constraintViolation(err, pqExclusionViolation, "bookings_no_overlap") {
			return booking.ErrSlotTaken
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"salon_id": b.SalonID, "booking_id": b.ID}).WithError(err).Error("db: failed to create booking")
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"salon_id": b.SalonID, "booking_id": b.ID, "source": b.Source}).Info("db: booking created")
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, salonID, id uuid.UUID) (*booking.Booking, error) {
	var b booking.Booking
	query := `
		SELECT id, salon_id, client_id, service_id, starts_at, ends_at, status, source, price_cents, notes, created_at, updated_at
		FROM bookings
		WHERE salon_id = $1 AND id = $2`

	if err := r.db.DB.GetContext(ctx, &b, query, salonID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) List(ctx context.Context, salonID uuid.UUID, limit int) ([]booking.Listing, error) {
	listings := []booking.Listing{}
	query := listingSelect + `
		WHERE b.salon_id = $1
		ORDER BY b.starts_at DESC
		LIMIT $2`

	if err := r.db.DB.SelectContext(ctx, &listings, query, salonID, limit); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return listings, nil
}

func (r *BookingRepository) ListUpcoming(ctx context.Context, salonID uuid.UUID, from time.Time, limit int) ([]booking.Listing, error) {
	listings := []booking.Listing{}
	query := listingSelect + `
		WHERE b.salon_id = $1 AND b.status = $2 AND b.starts_at >= $3
		ORDER BY b.starts_at
		LIMIT $4`

	if err := r.db.DB.SelectContext(ctx, &listings, query, salonID, booking.StatusConfirmed, from, limit); err != nil {
		return nil, fmt.Errorf("failed to list upcoming bookings: %w", err)
	}
	return listings, nil
}

func (r *BookingRepository) HasOverlap(ctx context.Context, salonID uuid.UUID, start, end time.Time) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE salon_id = $1 AND status = $2 AND starts_at < $4 AND ends_at > $3
		)`

	if err := r.db.DB.GetContext(ctx, &exists, query, salonID, booking.StatusConfirmed, start, end); err != nil {
		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}
	return exists, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, salonID, id uuid.UUID, status booking.Status) error {
	result, err := r.db.DB.ExecContext(ctx,
		`UPDATE bookings SET status = $3, updated_at = now() WHERE salon_id = $1 AND id = $2`,
		salonID, id, status)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return expectRow(result, booking.ErrNotFound)
}
