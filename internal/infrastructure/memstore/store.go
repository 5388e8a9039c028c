// Package memstore is an in-process ports.KVStore for development and tests.
package memstore

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/tidwall/match"

	"github.com/glambooking/glambooking-api/internal/core/ports"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("memstore: closed")

// Store keeps values in a ttlcache. Reads do not extend an entry's lifetime, so expiry is
// measured from the last write like a remote store with SET EX.
type Store struct {
	items  *ttlcache.Cache[string, []byte]
	closed atomic.Bool
}

// New creates a store and starts its expiry janitor. Call Close to stop it.
func New() *Store {
	items := ttlcache.New[string, []byte](
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go items.Start()
	return &Store{items: items}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := s.check(ctx); err != nil {
		return nil, false, err
	}
	item := s.items.Get(key)
	if item == nil {
		return nil, false, nil
	}
	v := item.Value()
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.items.Set(key, v, ttl)
	return nil
}

func (s *Store) Del(ctx context.Context, keys ...string) (int64, error) {
	if err := s.check(ctx); err != nil {
		return 0, err
	}
	var n int64
	for _, k := range keys {
		if _, ok := s.items.GetAndDelete(k); ok {
			n++
		}
	}
	return n, nil
}

// Keys matches like Redis: * and ? cross any character including '/', and a backslash
// quotes the next character. Character classes are not supported.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	var out []string
	for _, k := range s.items.Keys() {
		if !match.Match(k, pattern) {
			continue
		}
		// Keys can include entries the janitor has not collected yet.
		if s.items.Get(k) == nil {
			continue
		}
		out = append(out, k)
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.check(ctx)
}

// Close stops the janitor and drops all entries.
func (s *Store) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.items.Stop()
		s.items.DeleteAll()
	}
	return nil
}

func (s *Store) check(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

var _ ports.KVStore = (*Store)(nil)
