package ports

import (
	"context"
	"time"
)

// BookingConfirmation is everything needed to tell a client their booking is in.
type BookingConfirmation struct {
	To          string
	ClientName  string
	SalonName   string
	ServiceName string
	StartsAt    time.Time
	Timezone    string
}

// EmailService sends transactional email. Callers treat failures as non-fatal.
type EmailService interface {
	SendBookingConfirmation(ctx context.Context, msg *BookingConfirmation) error
}
