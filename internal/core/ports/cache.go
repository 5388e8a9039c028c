package ports

import (
	"context"
	"time"

	"github.com/glambooking/glambooking-api/internal/core/domain/cachekey"
)

// KVStore is the remote key-value store the cache layer sits on.
// Implementations return errors as-is; the cache layer decides how to degrade.
type KVStore interface {
	// Get returns the raw bytes for key. ok=false if not found or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for key; the store expires it after ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Del removes keys and reports how many existed. Absent keys are not an error.
	Del(ctx context.Context, keys ...string) (int64, error)
	// Keys lists live keys matching a glob pattern (*, ?, [...]).
	Keys(ctx context.Context, pattern string) ([]string, error)
	// Ping checks the store is reachable.
	Ping(ctx context.Context) error
}

// CacheInvalidator is the invalidation contract consumed by mutating services.
// Methods never fail; problems are logged by the implementation.
type CacheInvalidator interface {
	InvalidateDashboard(ctx context.Context, userID string)
	InvalidateBilling(ctx context.Context, userID string)
	InvalidateBooking(ctx context.Context, userID string)
	InvalidateClient(ctx context.Context, userID string)
	InvalidateCatalog(ctx context.Context, userID, salonID string)
	InvalidateProfile(ctx context.Context, userID, salonID string)
	InvalidateAllUser(ctx context.Context, userID string)
	// AfterMutation invalidates the domains a committed mutation declares.
	AfterMutation(ctx context.Context, owner cachekey.Owner, m cachekey.Mutation)
}
