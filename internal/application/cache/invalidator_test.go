package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glambooking/glambooking-api/internal/application/cache"
	"github.com/glambooking/glambooking-api/internal/core/domain/cachekey"
	tmocks "github.com/glambooking/glambooking-api/test/mocks"
)

func seed(t *testing.T, c *cache.Cache, keys ...string) {
	t.Helper()
	for _, k := range keys {
		c.Set(context.Background(), k, map[string]int{"bookings": 5}, time.Minute)
	}
}

func cached(c *cache.Cache, key string) bool {
	_, ok := cache.Get[map[string]int](context.Background(), c, key)
	return ok
}

func TestInvalidateDashboard_TargetsOneUser(t *testing.T) {
	c, _ := newCache(t)
	inv := cache.NewInvalidator(c)
	seed(t, c, "dashboard:u1:summary", "dashboard:u1:revenue", "dashboard:u2:summary", "bookings:u1:list")

	inv.InvalidateDashboard(context.Background(), "u1")

	assert.False(t, cached(c, "dashboard:u1:summary"))
	assert.False(t, cached(c, "dashboard:u1:revenue"))
	assert.True(t, cached(c, "dashboard:u2:summary"))
	assert.True(t, cached(c, "bookings:u1:list"))
}

func TestInvalidateBooking_CascadesToDashboard(t *testing.T) {
	c, _ := newCache(t)
	inv := cache.NewInvalidator(c)
	seed(t, c, "bookings:u1:list", "bookings:u1:upcoming", "dashboard:u1:summary", "dashboard:u1:upcoming", "clients:u1:list")

	inv.InvalidateBooking(context.Background(), "u1")

	assert.False(t, cached(c, "bookings:u1:list"))
	assert.False(t, cached(c, "bookings:u1:upcoming"))
	assert.False(t, cached(c, "dashboard:u1:summary"))
	assert.False(t, cached(c, "dashboard:u1:upcoming"))
	assert.True(t, cached(c, "clients:u1:list"))
}

func TestInvalidateClient_CascadesToDashboard(t *testing.T) {
	c, _ := newCache(t)
	inv := cache.NewInvalidator(c)
	seed(t, c, "clients:u1:list", "clients:u1:count", "dashboard:u1:summary", "bookings:u1:list")

	inv.InvalidateClient(context.Background(), "u1")

	assert.False(t, cached(c, "clients:u1:list"))
	assert.False(t, cached(c, "clients:u1:count"))
	assert.False(t, cached(c, "dashboard:u1:summary"))
	assert.True(t, cached(c, "bookings:u1:list"))
}

func TestInvalidateBilling(t *testing.T) {
	c, _ := newCache(t)
	inv := cache.NewInvalidator(c)
	seed(t, c, "billing:u1:subscription", "billing:u1:invoices", "dashboard:u1:summary")

	inv.InvalidateBilling(context.Background(), "u1")

	assert.False(t, cached(c, "billing:u1:subscription"))
	assert.False(t, cached(c, "billing:u1:invoices"))
	assert.True(t, cached(c, "dashboard:u1:summary"))
}

func TestInvalidateProfileAndCatalog_ClearPublicPage(t *testing.T) {
	c, _ := newCache(t)
	inv := cache.NewInvalidator(c)
	ctx := context.Background()

	seed(t, c, "user:u1:profile", "user:u1:settings", "salon:s1:public")
	inv.InvalidateProfile(ctx, "u1", "s1")
	assert.False(t, cached(c, "user:u1:profile"))
	assert.False(t, cached(c, "user:u1:settings"))
	assert.False(t, cached(c, "salon:s1:public"))

	seed(t, c, "services:u1:list", "salon:s1:public", "user:u1:profile")
	inv.InvalidateCatalog(ctx, "u1", "s1")
	assert.False(t, cached(c, "services:u1:list"))
	assert.False(t, cached(c, "salon:s1:public"))
	assert.True(t, cached(c, "user:u1:profile"))
}

func TestInvalidateAllUser_SweepsEveryNamespace(t *testing.T) {
	c, _ := newCache(t)
	inv := cache.NewInvalidator(c)
	seed(t, c,
		"dashboard:u1:summary", "billing:u1:subscription", "bookings:u1:list",
		"clients:u1:count", "user:u1:profile", "services:u1:list",
		"dashboard:u2:summary", "salon:s1:public",
	)

	inv.InvalidateAllUser(context.Background(), "u1")

	for _, k := range []string{"dashboard:u1:summary", "billing:u1:subscription", "bookings:u1:list", "clients:u1:count", "user:u1:profile", "services:u1:list"} {
		assert.False(t, cached(c, k), k)
	}
	assert.True(t, cached(c, "dashboard:u2:summary"))
	assert.True(t, cached(c, "salon:s1:public"))
}

func TestInvalidateAllUser_GlobCharactersInOwnerID(t *testing.T) {
	c, _ := newCache(t)
	inv := cache.NewInvalidator(c)
	seed(t, c, "dashboard:*:summary", "user:*:profile", "dashboard:u1:summary", "billing:u2:subscription")

	inv.InvalidateAllUser(context.Background(), "*")

	assert.False(t, cached(c, "dashboard:*:summary"))
	assert.False(t, cached(c, "user:*:profile"))
	assert.True(t, cached(c, "dashboard:u1:summary"))
	assert.True(t, cached(c, "billing:u2:subscription"))
}

func TestAfterMutation_UsesDeclaredDomains(t *testing.T) {
	c, _ := newCache(t)
	inv := cache.NewInvalidator(c)
	seed(t, c, "bookings:u1:list", "dashboard:u1:summary", "billing:u1:subscription")

	inv.AfterMutation(context.Background(), cachekey.ForUser("u1"), cachekey.Mutates{cachekey.Booking})
	inv.AfterMutation(context.Background(), cachekey.ForUser("u1"), nil)

	assert.False(t, cached(c, "bookings:u1:list"))
	assert.False(t, cached(c, "dashboard:u1:summary"))
	assert.True(t, cached(c, "billing:u1:subscription"))
}

func TestInvalidator_ToleratesStoreFailures(t *testing.T) {
	var (
		mu      sync.Mutex
		deleted []string
	)
	store := &tmocks.KVStoreMock{
		DelFn: func(_ context.Context, keys ...string) (int64, error) {
			mu.Lock()
			defer mu.Unlock()
			deleted = append(deleted, keys...)
			return 0, errors.New("connection reset")
		},
		KeysFn: func(context.Context, string) ([]string, error) { return nil, errors.New("scan refused") },
	}
	inv := cache.NewInvalidator(cache.New(store, nil, nil))

	assert.NotPanics(t, func() {
		inv.InvalidateBooking(context.Background(), "u1")
		inv.InvalidateAllUser(context.Background(), "u1")
	})
	assert.ElementsMatch(t, cachekey.KeysFor(cachekey.ForUser("u1"), cachekey.Booking), deleted)
}

func TestInvalidator_NilSafe(t *testing.T) {
	var inv *cache.Invalidator
	assert.NotPanics(t, func() {
		inv.InvalidateDashboard(context.Background(), "u1")
		inv.InvalidateAllUser(context.Background(), "u1")
	})
	assert.NotPanics(t, func() {
		cache.NewInvalidator(nil).InvalidateBilling(context.Background(), "u1")
	})
}

// A cached summary must not survive the booking that changes it.
func TestBookingWriteThenSummaryRead(t *testing.T) {
	c, _ := newCache(t)
	inv := cache.NewInvalidator(c)
	ctx := context.Background()

	c.Set(ctx, cachekey.DashboardSummary("u1"), summary{Bookings: 5}, time.Minute)
	inv.InvalidateBooking(ctx, "u1")

	_, ok := cache.Get[summary](ctx, c, cachekey.DashboardSummary("u1"))
	require.False(t, ok)

	got, err := cache.Fetch(ctx, c, cachekey.DashboardSummary("u1"), func(context.Context) (summary, error) {
		return summary{Bookings: 6}, nil
	}, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Bookings)
}
