// Package dashboard holds the aggregates shown on the salon owner's home screen.
package dashboard

import (
	"time"

	"github.com/glambooking/glambooking-api/internal/core/domain/booking"
)

type Summary struct {
	BookingsToday         int   `json:"bookings_today"`
	UpcomingBookings      int   `json:"upcoming_bookings"`
	TotalClients          int   `json:"total_clients"`
	CompletedThisMonth    int   `json:"completed_this_month"`
	RevenueThisMonthCents int64 `json:"revenue_this_month_cents"`
}

type DailyRevenue struct {
	Day        time.Time `json:"day" db:"day"`
	Bookings   int       `json:"bookings" db:"bookings"`
	TotalCents int64     `json:"total_cents" db:"total_cents"`
}

// Revenue covers completed bookings over a trailing window of days.
type Revenue struct {
	Since      time.Time      `json:"since"`
	Days       []DailyRevenue `json:"days"`
	TotalCents int64          `json:"total_cents"`
	Currency   string         `json:"currency"`
}

type Upcoming struct {
	Bookings []booking.Listing `json:"bookings"`
}
