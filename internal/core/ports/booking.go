package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/glambooking/glambooking-api/internal/core/domain/booking"
	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
)

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	GetByID(ctx context.Context, salonID, id uuid.UUID) (*booking.Booking, error)
	// List returns the most recent bookings first.
	List(ctx context.Context, salonID uuid.UUID, limit int) ([]booking.Listing, error)
	// ListUpcoming returns confirmed bookings starting at or after from, soonest first.
	ListUpcoming(ctx context.Context, salonID uuid.UUID, from time.Time, limit int) ([]booking.Listing, error)
	// HasOverlap reports whether a confirmed booking intersects [start, end).
	HasOverlap(ctx context.Context, salonID uuid.UUID, start, end time.Time) (bool, error)
	UpdateStatus(ctx context.Context, salonID, id uuid.UUID, status booking.Status) error
}

type BookingService interface {
	List(ctx context.Context, s *salon.Salon) ([]booking.Listing, error)
	Upcoming(ctx context.Context, s *salon.Salon) ([]booking.Listing, error)
	Create(ctx context.Context, s *salon.Salon, req *booking.CreateBookingRequest) (*booking.Booking, error)
	CreatePublic(ctx context.Context, slug string, req *booking.PublicBookingRequest) (*booking.Booking, error)
	Cancel(ctx context.Context, s *salon.Salon, id uuid.UUID) (*booking.Booking, error)
	Complete(ctx context.Context, s *salon.Salon, id uuid.UUID) (*booking.Booking, error)
}
