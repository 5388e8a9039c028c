package health

import (
	"context"

	"github.com/glambooking/glambooking-api/internal/core/ports"
	infraDB "github.com/glambooking/glambooking-api/internal/infrastructure/db"
)

// dbHealthChecker wraps the database for health checks.
type dbHealthChecker struct{ db *infraDB.Database }

func (d *dbHealthChecker) Name() string                    { return "database" }
func (d *dbHealthChecker) Check(ctx context.Context) error { return d.db.Ping(ctx) }

// cacheHealthChecker probes the cache store. Reads fall back to the database when it
// is down, so it is optional.
type cacheHealthChecker struct{ store ports.KVStore }

func (c *cacheHealthChecker) Name() string                    { return "cache" }
func (c *cacheHealthChecker) Check(ctx context.Context) error { return c.store.Ping(ctx) }
func (c *cacheHealthChecker) Optional() bool                  { return true }

// NewDBHealthChecker creates a health checker for the database.
func NewDBHealthChecker(db *infraDB.Database) ports.HealthChecker { return &dbHealthChecker{db: db} }

// NewCacheHealthChecker creates a health checker for the cache store.
func NewCacheHealthChecker(store ports.KVStore) ports.HealthChecker {
	return &cacheHealthChecker{store: store}
}
