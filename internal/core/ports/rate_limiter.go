package ports

import (
	"context"
	"time"
)

// RateLimitRepository provides atomic fixed-window counters. Implementations must be
// safe for concurrent use.
type RateLimitRepository interface {
	// IncrementWindow increments the counter for subject in the current window and
	// ensures it expires after ttl. Returns the updated count and the window start.
	IncrementWindow(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (count int, windowStart time.Time, err error)
}

// RateLimiterService throttles anonymous traffic such as public booking submissions.
type RateLimiterService interface {
	// Allow consumes one unit for subject. remaining is never negative; reset is when
	// the current window ends.
	Allow(ctx context.Context, subject string) (allowed bool, remaining int, limit int, reset time.Time, err error)
}
