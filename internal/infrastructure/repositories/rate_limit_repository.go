package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jellydator/ttlcache/v3"
)

func windowKey(keyPrefix, subject string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", keyPrefix, subject, windowStart.Unix())
}

// RateLimitRedisRepository keeps fixed-window counters in Redis so every replica
// shares the same budget.
type RateLimitRedisRepository struct {
	r redis.Cmdable
}

func NewRateLimitRedisRepository(r redis.Cmdable) *RateLimitRedisRepository {
	return &RateLimitRedisRepository{r: r}
}

func (repo *RateLimitRedisRepository) IncrementWindow(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	windowStart := time.Now().Truncate(window)
	key := windowKey(keyPrefix, subject, windowStart)
	pipe := repo.r.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, windowStart, err
	}
	return int(incr.Val()), windowStart, nil
}

// RateLimitMemoryRepository is the single-process counterpart used with the memory
// cache backend.
type RateLimitMemoryRepository struct {
	mu       sync.Mutex
	counters *ttlcache.Cache[string, int]
}

func NewRateLimitMemoryRepository() *RateLimitMemoryRepository {
	counters := ttlcache.New[string, int](ttlcache.WithDisableTouchOnHit[string, int]())
	go counters.Start()
	return &RateLimitMemoryRepository{counters: counters}
}

func (repo *RateLimitMemoryRepository) IncrementWindow(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	windowStart := time.Now().Truncate(window)
	if err := ctx.Err(); err != nil {
		return 0, windowStart, err
	}
	key := windowKey(keyPrefix, subject, windowStart)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	count := 1
	if item := repo.counters.Get(key); item != nil {
		count = item.Value() + 1
		if left := time.Until(item.ExpiresAt()); left > 0 {
			ttl = left
		}
	}
	repo.counters.Set(key, count, ttl)
	return count, windowStart, nil
}

// Close stops the expiry loop.
func (repo *RateLimitMemoryRepository) Close() {
	repo.counters.Stop()
}
