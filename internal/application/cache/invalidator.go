package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/glambooking/glambooking-api/internal/core/domain/cachekey"
	"github.com/glambooking/glambooking-api/internal/core/ports"
)

// maxParallelDeletes bounds the round trips one invalidation keeps in flight.
const maxParallelDeletes = 8

// Invalidator is the domain-level invalidation facade. Every write path that changes
// data behind a cached key must call it after the write commits and before responding.
// Nothing tracks that automatically; request types declare their domains through
// cachekey.Mutation so the dependency sits next to the write.
type Invalidator struct {
	cache *Cache
}

func NewInvalidator(c *Cache) *Invalidator {
	return &Invalidator{cache: c}
}

// InvalidateDomains deletes the keys of domains (and their cascades) for owner.
// Deletes run concurrently; their completion order is irrelevant because deletes are
// idempotent.
func (i *Invalidator) InvalidateDomains(ctx context.Context, owner cachekey.Owner, domains ...cachekey.Domain) {
	if i == nil || i.cache == nil {
		return
	}
	keys := cachekey.KeysFor(owner, domains...)
	if len(keys) == 0 {
		return
	}

	var (
		mu   sync.Mutex
		errs *multierror.Error
	)
	var g errgroup.Group
	g.SetLimit(maxParallelDeletes)
	for _, key := range keys {
		key := key
		g.Go(func() error {
			if _, err := i.cache.del(ctx, key); err != nil {
				mu.Lock()
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", key, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	log := i.cache.logger.WithFields(logrus.Fields{"user_id": owner.UserID, "domains": fmt.Sprint(cachekey.Expand(domains...))})
	if err := errs.ErrorOrNil(); err != nil {
		observe(opDelete, resultError)
		log.WithField("failed", len(errs.Errors)).WithError(err).Warn("cache invalidation partially failed")
		return
	}
	observe(opDelete, resultOK)
	log.WithField("keys", len(keys)).Debug("cache invalidated")
}

// AfterMutation invalidates whatever m declares for owner.
func (i *Invalidator) AfterMutation(ctx context.Context, owner cachekey.Owner, m cachekey.Mutation) {
	if m == nil {
		return
	}
	i.InvalidateDomains(ctx, owner, m.CacheDomains()...)
}

func (i *Invalidator) InvalidateDashboard(ctx context.Context, userID string) {
	i.InvalidateDomains(ctx, cachekey.ForUser(userID), cachekey.Dashboard)
}

func (i *Invalidator) InvalidateBilling(ctx context.Context, userID string) {
	i.InvalidateDomains(ctx, cachekey.ForUser(userID), cachekey.Billing)
}

// InvalidateBooking also clears the dashboard: bookings feed its aggregates.
func (i *Invalidator) InvalidateBooking(ctx context.Context, userID string) {
	i.InvalidateDomains(ctx, cachekey.ForUser(userID), cachekey.Booking)
}

// InvalidateClient also clears the dashboard.
func (i *Invalidator) InvalidateClient(ctx context.Context, userID string) {
	i.InvalidateDomains(ctx, cachekey.ForUser(userID), cachekey.Client)
}

func (i *Invalidator) InvalidateCatalog(ctx context.Context, userID, salonID string) {
	i.InvalidateDomains(ctx, cachekey.Owner{UserID: userID, SalonID: salonID}, cachekey.Catalog)
}

// InvalidateProfile clears the owner's profile entries; salonID may be empty.
func (i *Invalidator) InvalidateProfile(ctx context.Context, userID, salonID string) {
	i.InvalidateDomains(ctx, cachekey.Owner{UserID: userID, SalonID: salonID}, cachekey.Profile)
}

// InvalidateAllUser sweeps every namespace for userID by pattern. Meant for
// account-level events such as a plan change.
func (i *Invalidator) InvalidateAllUser(ctx context.Context, userID string) {
	if i == nil || i.cache == nil {
		return
	}
	patterns := cachekey.AllUserPatterns(userID)
	if len(patterns) == 0 {
		return
	}
	var (
		mu      sync.Mutex
		removed int
	)
	var g errgroup.Group
	for _, p := range patterns {
		p := p
		g.Go(func() error {
			n := i.cache.InvalidatePattern(ctx, p)
			mu.Lock()
			removed += n
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	i.cache.logger.WithFields(logrus.Fields{"user_id": userID, "removed": removed}).Info("invalidated all cache entries for user")
}

var _ ports.CacheInvalidator = (*Invalidator)(nil)
