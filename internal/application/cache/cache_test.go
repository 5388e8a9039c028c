package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glambooking/glambooking-api/internal/application/cache"
	"github.com/glambooking/glambooking-api/internal/infrastructure/memstore"
	tmocks "github.com/glambooking/glambooking-api/test/mocks"
)

type summary struct {
	Bookings int `json:"bookings"`
}

func newCache(t *testing.T) (*cache.Cache, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	t.Cleanup(func() { _ = store.Close() })
	return cache.New(store, nil, nil), store
}

func TestFetch_MissRunsFetcherAndCaches(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	got, err := cache.Fetch(ctx, c, "dashboard:u1:summary", func(context.Context) (summary, error) {
		return summary{Bookings: 5}, nil
	}, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, summary{Bookings: 5}, got)

	cached, ok := cache.Get[summary](ctx, c, "dashboard:u1:summary")
	require.True(t, ok)
	assert.Equal(t, summary{Bookings: 5}, cached)
}

func TestFetch_HitSkipsFetcher(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	c.Set(ctx, "dashboard:u1:summary", summary{Bookings: 7}, time.Minute)

	called := false
	got, err := cache.Fetch(ctx, c, "dashboard:u1:summary", func(context.Context) (summary, error) {
		called = true
		return summary{}, errors.New("fetcher must not run on a hit")
	}, time.Minute)
	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, summary{Bookings: 7}, got)
}

func TestGet_ExpiresAfterTTL(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	c.Set(ctx, "dashboard:u1:summary", summary{Bookings: 1}, 50*time.Millisecond)

	_, ok := cache.Get[summary](ctx, c, "dashboard:u1:summary")
	require.True(t, ok)

	time.Sleep(150 * time.Millisecond)
	_, ok = cache.Get[summary](ctx, c, "dashboard:u1:summary")
	assert.False(t, ok)
}

func TestSet_DefaultTTLWhenUnset(t *testing.T) {
	var gotTTL time.Duration
	store := &tmocks.KVStoreMock{SetFn: func(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
		gotTTL = ttl
		return nil
	}}
	c := cache.New(store, nil, nil)
	c.Set(context.Background(), "k", 1, 0)
	assert.Equal(t, cache.DefaultTTL, gotTTL)

	c = cache.New(store, &cache.Config{DefaultTTL: 5 * time.Minute}, nil)
	c.Set(context.Background(), "k", 1, -1)
	assert.Equal(t, 5*time.Minute, gotTTL)
}

func TestFetch_LookupFailureFallsBackWithoutCaching(t *testing.T) {
	store := &tmocks.KVStoreMock{GetFn: func(context.Context, string) ([]byte, bool, error) {
		return nil, false, errors.New("store unavailable")
	}}
	c := cache.New(store, nil, nil)

	got, err := cache.Fetch(context.Background(), c, "dashboard:u1:summary", func(context.Context) (summary, error) {
		return summary{Bookings: 3}, nil
	}, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, summary{Bookings: 3}, got)
	assert.Zero(t, store.SetCalls.Load())
}

func TestFetch_WriteFailureStillReturnsValue(t *testing.T) {
	store := &tmocks.KVStoreMock{SetFn: func(context.Context, string, []byte, time.Duration) error {
		return errors.New("read-only replica")
	}}
	c := cache.New(store, nil, nil)

	got, err := cache.Fetch(context.Background(), c, "k", func(context.Context) (int, error) { return 42, nil }, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.EqualValues(t, 1, store.SetCalls.Load())
}

func TestFetch_FetcherErrorPropagates(t *testing.T) {
	c, store := newCache(t)
	boom := errors.New("db down")

	_, err := cache.Fetch(context.Background(), c, "k", func(context.Context) (int, error) { return 0, boom }, time.Minute)
	require.ErrorIs(t, err, boom)

	_, ok, _ := store.Get(context.Background(), "k")
	assert.False(t, ok, "failed fetch must not be cached")
}

func TestFetch_UndecodableEntryTreatedAsMiss(t *testing.T) {
	c, store := newCache(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", []byte("not json"), time.Minute))

	got, err := cache.Fetch(ctx, c, "k", func(context.Context) (int, error) { return 9, nil }, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 9, got)

	cached, ok := cache.Get[int](ctx, c, "k")
	require.True(t, ok)
	assert.Equal(t, 9, cached)
}

func TestFetch_NoSingleFlight(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	c, _ := newCache(t)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = cache.Fetch(context.Background(), c, "k", func(context.Context) (int, error) {
				calls.Add(1)
				<-release
				return 1, nil
			}, time.Minute)
		}()
	}
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	close(release)
	wg.Wait()
}

func TestFetch_NilCacheCallsFetcher(t *testing.T) {
	got, err := cache.Fetch(context.Background(), nil, "k", func(context.Context) (string, error) { return "x", nil }, 0)
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func TestGet_StoreErrorReturnsMiss(t *testing.T) {
	store := &tmocks.KVStoreMock{GetFn: func(context.Context, string) ([]byte, bool, error) {
		return nil, false, errors.New("boom")
	}}
	_, ok := cache.Get[int](context.Background(), cache.New(store, nil, nil), "k")
	assert.False(t, ok)
}

func TestInvalidate_SwallowsErrors(t *testing.T) {
	store := &tmocks.KVStoreMock{DelFn: func(context.Context, ...string) (int64, error) {
		return 0, errors.New("boom")
	}}
	c := cache.New(store, nil, nil)
	assert.NotPanics(t, func() { c.Invalidate(context.Background(), "k") })
	assert.EqualValues(t, 1, store.DelCalls.Load())
}

func TestInvalidatePattern_RemovesMatchesOnly(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	for _, k := range []string{"dashboard:u1:summary", "dashboard:u1:revenue", "dashboard:u2:summary"} {
		c.Set(ctx, k, 1, time.Minute)
	}

	assert.Equal(t, 2, c.InvalidatePattern(ctx, "*:u1:*"))
	_, ok := cache.Get[int](ctx, c, "dashboard:u2:summary")
	assert.True(t, ok)
}

func TestInvalidatePattern_IdempotentAndConcurrent(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	for _, k := range []string{"bookings:u1:list", "bookings:u1:upcoming", "clients:u1:list"} {
		c.Set(ctx, k, 1, time.Minute)
	}

	var wg sync.WaitGroup
	var total atomic.Int64
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			total.Add(int64(c.InvalidatePattern(ctx, "*:u1:*")))
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 3, total.Load(), "each key is removed exactly once across concurrent sweeps")
	assert.Zero(t, c.InvalidatePattern(ctx, "*:u1:*"))
}

func TestInvalidatePattern_ScanFailure(t *testing.T) {
	store := &tmocks.KVStoreMock{KeysFn: func(context.Context, string) ([]string, error) {
		return nil, errors.New("scan refused")
	}}
	assert.Zero(t, cache.New(store, nil, nil).InvalidatePattern(context.Background(), "*"))
}

func TestInvalidatePattern_ContinuesPastDeleteFailure(t *testing.T) {
	store := &tmocks.KVStoreMock{
		KeysFn: func(context.Context, string) ([]string, error) { return []string{"a", "b", "c"}, nil },
		DelFn: func(_ context.Context, keys ...string) (int64, error) {
			if keys[0] == "b" {
				return 0, errors.New("boom")
			}
			return 1, nil
		},
	}
	assert.Equal(t, 2, cache.New(store, nil, nil).InvalidatePattern(context.Background(), "*"))
}

func TestOpTimeoutBoundsSlowStore(t *testing.T) {
	store := &tmocks.KVStoreMock{GetFn: func(ctx context.Context, _ string) ([]byte, bool, error) {
		<-ctx.Done()
		return nil, false, ctx.Err()
	}}
	c := cache.New(store, &cache.Config{OpTimeout: 20 * time.Millisecond}, nil)

	start := time.Now()
	got, err := cache.Fetch(context.Background(), c, "k", func(context.Context) (int, error) { return 1, nil }, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.Less(t, time.Since(start), time.Second)
}

func TestBreakerOpensAndSkipsStore(t *testing.T) {
	store := &tmocks.KVStoreMock{GetFn: func(context.Context, string) ([]byte, bool, error) {
		return nil, false, errors.New("connection refused")
	}}
	c := cache.New(store, &cache.Config{BreakerFailures: 2, BreakerTimeout: time.Minute}, nil)
	fetch := func() {
		v, err := cache.Fetch(context.Background(), c, "k", func(context.Context) (int, error) { return 1, nil }, time.Minute)
		require.NoError(t, err)
		require.Equal(t, 1, v)
	}

	fetch()
	fetch()
	require.EqualValues(t, 2, store.GetCalls.Load())

	// breaker is open: the store is not called but reads still succeed
	fetch()
	assert.EqualValues(t, 2, store.GetCalls.Load())
}

func TestPing(t *testing.T) {
	c, store := newCache(t)
	require.NoError(t, c.Ping(context.Background()))
	require.NoError(t, store.Close())
	assert.Error(t, c.Ping(context.Background()))
}
