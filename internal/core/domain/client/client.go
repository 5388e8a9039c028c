// Package client holds a salon's customer records.
package client

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/glambooking/glambooking-api/internal/core/domain/cachekey"
)

var (
	ErrNotFound   = errors.New("client not found")
	ErrEmailTaken = errors.New("a client with this email already exists")
)

type Client struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SalonID   uuid.UUID `json:"salon_id" db:"salon_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Notes     string    `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateClientRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,e164"`
	Notes string `json:"notes" validate:"max=4000"`
}

func (CreateClientRequest) CacheDomains() []cachekey.Domain {
	return []cachekey.Domain{cachekey.Client}
}

type UpdateClientRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,e164"`
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=4000"`
}

// Booking listings join the client's name and email.
func (UpdateClientRequest) CacheDomains() []cachekey.Domain {
	return []cachekey.Domain{cachekey.Client, cachekey.Booking}
}
