package redis

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/glambooking/glambooking-api/internal/core/ports"
)

const scanCount = 200

// Store implements ports.KVStore on a Redis client.
type Store struct {
	r redis.Cmdable
}

// NewStore creates a Redis-backed key-value store.
func NewStore(r redis.Cmdable) *Store {
	return &Store{r: r}
}

// Get implements KVStore.Get.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.r.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set implements KVStore.Set.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.r.Set(ctx, key, value, ttl).Err()
}

// Del implements KVStore.Del.
func (s *Store) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return s.r.Del(ctx, keys...).Result()
}

// Keys walks the keyspace with SCAN so large databases are not blocked.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	var (
		cursor uint64
		out    []string
	)
	seen := make(map[string]struct{})
	for {
		keys, next, err := s.r.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return nil, err
		}
		// SCAN may return a key more than once
		for _, k := range keys {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return out, nil
}

// Ping implements KVStore.Ping.
func (s *Store) Ping(ctx context.Context) error {
	return s.r.Ping(ctx).Err()
}

var _ ports.KVStore = (*Store)(nil)
