package booking

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/glambooking/glambooking-api/internal/core/domain/cachekey"
)

var (
	ErrNotFound          = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrSlotTaken         = errors.New("the requested time overlaps another booking")
	ErrTooSoon           = errors.New("the requested time is too soon")
	ErrServiceInactive   = errors.New("service is not bookable")
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
	StatusCompleted Status = "completed"
)

func (s Status) ValidTransitions() []Status {
	if s == StatusConfirmed {
		return []Status{StatusCanceled, StatusCompleted}
	}
	return []Status{}
}

func (s Status) IsValidTransition(next Status) bool {
	return slices.Contains(s.ValidTransitions(), next)
}

// Source records where a booking was made.
type Source string

const (
	SourceDashboard Source = "dashboard"
	SourcePublic    Source = "public"
)

type Booking struct {
	ID         uuid.UUID `json:"id" db:"id"`
	SalonID    uuid.UUID `json:"salon_id" db:"salon_id"`
	ClientID   uuid.UUID `json:"client_id" db:"client_id"`
	ServiceID  uuid.UUID `json:"service_id" db:"service_id"`
	StartsAt   time.Time `json:"starts_at" db:"starts_at"`
	EndsAt     time.Time `json:"ends_at" db:"ends_at"`
	Status     Status    `json:"status" db:"status"`
	Source     Source    `json:"source" db:"source"`
	PriceCents int64     `json:"price_cents" db:"price_cents"`
	Notes      string    `json:"notes" db:"notes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

func (b *Booking) CanTransitionTo(next Status) bool {
	return b.Status.IsValidTransition(next)
}

// Listing is a booking joined with the names the dashboard shows next to it.
type Listing struct {
	Booking
	ClientName  string `json:"client_name" db:"client_name"`
	ClientEmail string `json:"client_email" db:"client_email"`
	ServiceName string `json:"service_name" db:"service_name"`
}

// CreateBookingRequest is made by the salon from its dashboard for a known client.
type CreateBookingRequest struct {
	ClientID  uuid.UUID `json:"client_id" validate:"required"`
	ServiceID uuid.UUID `json:"service_id" validate:"required"`
	StartsAt  time.Time `json:"starts_at" validate:"required"`
	Notes     string    `json:"notes" validate:"max=2000"`
}

func (CreateBookingRequest) CacheDomains() []cachekey.Domain {
	return []cachekey.Domain{cachekey.Booking}
}

// PublicBookingRequest comes from the public booking page. The client is matched by
// email or created, so client lists change as well.
type PublicBookingRequest struct {
	ServiceID uuid.UUID `json:"service_id" validate:"required"`
	StartsAt  time.Time `json:"starts_at" validate:"required"`
	Name      string    `json:"name" validate:"required,max=120"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone" validate:"omitempty,e164"`
	Notes     string    `json:"notes" validate:"max=2000"`
}

func (PublicBookingRequest) CacheDomains() []cachekey.Domain {
	return []cachekey.Domain{cachekey.Booking, cachekey.Client}
}

// Transition is a status change on an existing booking.
type Transition struct {
	ID     uuid.UUID
	Status Status
}

func (Transition) CacheDomains() []cachekey.Domain {
	return []cachekey.Domain{cachekey.Booking}
}
