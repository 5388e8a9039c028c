package redis_test

import (
	"context"
	"os"
	"sort"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	config "github.com/glambooking/glambooking-api/configs"
	"github.com/glambooking/glambooking-api/internal/infrastructure/redis"
)

// newTestStore connects to TEST_REDIS_URL or skips.
func newTestStore(t *testing.T) (*redis.Store, *goredis.Client) {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	client, err := redis.NewRedisClient(&config.RedisConfig{URL: url, PoolSize: 2, DialTimeout: time.Second, ReadTimeout: time.Second, WriteTimeout: time.Second})
	require.NoError(t, err)
	require.NoError(t, redis.Ping(client))
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewStore(client), client
}

func TestNewRedisClient_RequiresURL(t *testing.T) {
	_, err := redis.NewRedisClient(&config.RedisConfig{})
	require.Error(t, err)
}

func TestNewRedisClient_DoesNotDial(t *testing.T) {
	client, err := redis.NewRedisClient(&config.RedisConfig{URL: "redis://127.0.0.1:1/0", Token: "secret"})
	require.NoError(t, err)
	require.Equal(t, "secret", client.Options().Password)
	_ = client.Close()
}

func TestStore_RoundTripAndExpiry(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString() + ":summary"

	_, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, key, []byte(`{"bookings":5}`), 200*time.Millisecond))
	got, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"bookings":5}`, string(got))

	time.Sleep(400 * time.Millisecond)
	_, ok, err = store.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_KeysAndDel(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	owner := uuid.NewString()
	keys := []string{"dashboard:" + owner + ":summary", "dashboard:" + owner + ":revenue"}
	for _, k := range keys {
		require.NoError(t, store.Set(ctx, k, []byte("1"), time.Minute))
	}

	found, err := store.Keys(ctx, "*:"+owner+":*")
	require.NoError(t, err)
	sort.Strings(found)
	sort.Strings(keys)
	require.Equal(t, keys, found)

	n, err := store.Del(ctx, found...)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	n, err = store.Del(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
	require.NoError(t, store.Ping(ctx))
}
