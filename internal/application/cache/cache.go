// Package cache implements read-through caching and invalidation on top of a ports.KVStore.
//
// Every store failure is logged and swallowed: an unavailable store makes reads slower
// (each one becomes a miss) but never makes them fail. Errors returned by a fetcher are
// the caller's own and always propagate.
//
// There is no single-flight on misses. Two concurrent callers missing the same key both
// run their fetcher and both write; the last write wins.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/glambooking/glambooking-api/internal/core/ports"
)

const (
	// DefaultTTL applies when a caller passes ttl <= 0.
	DefaultTTL       = 60 * time.Second
	defaultOpTimeout = 500 * time.Millisecond
)

// Config groups tuning for the cache layer. Zero values fall back to defaults;
// BreakerFailures == 0 disables the circuit breaker.
type Config struct {
	DefaultTTL         time.Duration
	OpTimeout          time.Duration
	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration
	BreakerFailures    uint32
}

// Cache is the read-through/write-through layer. It is safe for concurrent use.
type Cache struct {
	store      ports.KVStore
	defaultTTL time.Duration
	opTimeout  time.Duration
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

// New wraps store. A nil logger discards output.
func New(store ports.KVStore, cfg *Config, logger *logrus.Logger) *Cache {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	c := &Cache{
		store:      store,
		defaultTTL: DefaultTTL,
		opTimeout:  defaultOpTimeout,
		logger:     logger,
	}
	if cfg == nil {
		return c
	}
	if cfg.DefaultTTL > 0 {
		c.defaultTTL = cfg.DefaultTTL
	}
	if cfg.OpTimeout > 0 {
		c.opTimeout = cfg.OpTimeout
	}
	if cfg.BreakerFailures > 0 {
		c.breaker = newBreaker(cfg, logger)
	}
	return c
}

func newBreaker(cfg *Config, logger *logrus.Logger) *gobreaker.CircuitBreaker {
	failures := cfg.BreakerFailures
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "kvstore",
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).Warn("cache store circuit breaker changed state")
		},
		// A caller giving up is not a store failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

// call runs one store operation under the per-operation timeout and the breaker.
func (c *Cache) call(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()
	if c.breaker == nil {
		return fn(ctx)
	}
	return c.breaker.Execute(func() (any, error) { return fn(ctx) })
}

type lookup struct {
	raw []byte
	ok  bool
}

func (c *Cache) get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := c.call(ctx, func(ctx context.Context) (any, error) {
		raw, ok, err := c.store.Get(ctx, key)
		return lookup{raw: raw, ok: ok}, err
	})
	if err != nil {
		return nil, false, err
	}
	l, _ := res.(lookup)
	return l.raw, l.ok, nil
}

func (c *Cache) set(ctx context.Context, key string, raw []byte, ttl time.Duration) error {
	_, err := c.call(ctx, func(ctx context.Context) (any, error) {
		return nil, c.store.Set(ctx, key, raw, ttl)
	})
	return err
}

func (c *Cache) del(ctx context.Context, key string) (int64, error) {
	res, err := c.call(ctx, func(ctx context.Context) (any, error) {
		return c.store.Del(ctx, key)
	})
	if err != nil {
		return 0, err
	}
	n, _ := res.(int64)
	return n, nil
}

func (c *Cache) keys(ctx context.Context, pattern string) ([]string, error) {
	res, err := c.call(ctx, func(ctx context.Context) (any, error) {
		return c.store.Keys(ctx, pattern)
	})
	if err != nil {
		return nil, err
	}
	keys, _ := res.([]string)
	return keys, nil
}

func (c *Cache) ttl(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return c.defaultTTL
	}
	return ttl
}

// Fetch returns the cached value for key, or runs fetcher and caches its result for ttl.
//
// A hit is returned as-is, relying on the store's expiry for freshness. If the lookup
// itself fails, fetcher's result is returned without being cached. A failed write after
// a miss is logged and the fetched value is still returned. Errors from fetcher are
// returned unchanged and nothing is cached.
func Fetch[T any](ctx context.Context, c *Cache, key string, fetcher func(ctx context.Context) (T, error), ttl time.Duration) (T, error) {
	if c == nil {
		return fetcher(ctx)
	}
	raw, ok, err := c.get(ctx, key)
	if err != nil {
		observe(opFetch, resultError)
		c.logger.WithFields(logrus.Fields{"cache_key": key, "op": "get"}).WithError(err).Warn("cache lookup failed; fetching without cache")
		return fetcher(ctx)
	}
	if ok {
		var v T
		derr := json.Unmarshal(raw, &v)
		if derr == nil {
			observe(opFetch, resultHit)
			return v, nil
		}
		c.logger.WithFields(logrus.Fields{"cache_key": key}).WithError(derr).Warn("discarding undecodable cache entry")
	}
	observe(opFetch, resultMiss)

	v, err := fetcher(ctx)
	if err != nil {
		return v, err
	}
	c.Set(ctx, key, v, ttl)
	return v, nil
}

// Get decodes the cached value for key. ok is false on a miss, a store error or an
// undecodable entry.
func Get[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	raw, ok, err := c.get(ctx, key)
	if err != nil {
		observe(opGet, resultError)
		c.logger.WithFields(logrus.Fields{"cache_key": key, "op": "get"}).WithError(err).Warn("cache get failed")
		return zero, false
	}
	if !ok {
		observe(opGet, resultMiss)
		return zero, false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		observe(opGet, resultError)
		c.logger.WithFields(logrus.Fields{"cache_key": key}).WithError(err).Warn("cache entry could not be decoded")
		return zero, false
	}
	observe(opGet, resultHit)
	return v, true
}

// Set stores value as JSON under key for ttl (DefaultTTL when ttl <= 0). Best-effort.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		observe(opSet, resultError)
		c.logger.WithFields(logrus.Fields{"cache_key": key}).WithError(err).Warn("cache value could not be encoded")
		return
	}
	if err := c.set(ctx, key, raw, c.ttl(ttl)); err != nil {
		observe(opSet, resultError)
		c.logger.WithFields(logrus.Fields{"cache_key": key, "op": "set"}).WithError(err).Warn("cache set failed")
		return
	}
	observe(opSet, resultOK)
}

// Invalidate deletes a single key. Failures are logged, never returned.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if c == nil {
		return
	}
	if _, err := c.del(ctx, key); err != nil {
		observe(opDelete, resultError)
		c.logger.WithFields(logrus.Fields{"cache_key": key, "op": "del"}).WithError(err).Warn("cache invalidation failed")
		return
	}
	observe(opDelete, resultOK)
}

// InvalidatePattern deletes every key matching pattern, one key at a time, and returns
// how many were removed. It is not atomic: an interrupted sweep leaves a partial set,
// and running it twice (or concurrently) is harmless.
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) int {
	if c == nil {
		return 0
	}
	log := c.logger.WithField("pattern", pattern)
	keys, err := c.keys(ctx, pattern)
	if err != nil {
		observe(opScan, resultError)
		log.WithError(err).Warn("cache pattern scan failed")
		return 0
	}
	observe(opScan, resultOK)
	if len(keys) == 0 {
		log.Debug("no cache keys matched pattern")
		return 0
	}

	removed := 0
	for _, k := range keys {
		n, err := c.del(ctx, k)
		if err != nil {
			observe(opDelete, resultError)
			log.WithField("cache_key", k).WithError(err).Warn("cache invalidation failed")
			continue
		}
		observe(opDelete, resultOK)
		removed += int(n)
	}
	log.WithField("removed", removed).Info("invalidated cache keys by pattern")
	return removed
}

// Ping reports whether the underlying store is reachable. It bypasses the breaker so a
// health check sees the real state.
func (c *Cache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()
	return c.store.Ping(ctx)
}
