// Package catalog holds the services a salon offers.
package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/glambooking/glambooking-api/internal/core/domain/cachekey"
)

var ErrNotFound = errors.New("service not found")

type Service struct {
	ID              uuid.UUID `json:"id" db:"id"`
	SalonID         uuid.UUID `json:"salon_id" db:"salon_id"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	PriceCents      int64     `json:"price_cents" db:"price_cents"`
	Active          bool      `json:"active" db:"active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type CreateServiceRequest struct {
	Name            string `json:"name" validate:"required,max=120"`
	Description     string `json:"description" validate:"max=2000"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=5,max=720"`
	PriceCents      int64  `json:"price_cents" validate:"min=0"`
}

func (CreateServiceRequest) CacheDomains() []cachekey.Domain {
	return []cachekey.Domain{cachekey.Catalog}
}

type UpdateServiceRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	DurationMinutes *int    `json:"duration_minutes,omitempty" validate:"omitempty,min=5,max=720"`
	PriceCents      *int64  `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	Active          *bool   `json:"active,omitempty"`
}

// Booking listings join the service name.
func (UpdateServiceRequest) CacheDomains() []cachekey.Domain {
	return []cachekey.Domain{cachekey.Catalog, cachekey.Booking}
}
