package mocks

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/glambooking/glambooking-api/internal/core/ports"
)

// KVStoreMock overrides individual store operations. Operations without an override are
// delegated to Inner when set, otherwise they behave like an empty store.
type KVStoreMock struct {
	Inner ports.KVStore

	GetFn  func(ctx context.Context, key string) ([]byte, bool, error)
	SetFn  func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DelFn  func(ctx context.Context, keys ...string) (int64, error)
	KeysFn func(ctx context.Context, pattern string) ([]string, error)
	PingFn func(ctx context.Context) error

	GetCalls atomic.Int64
	SetCalls atomic.Int64
	DelCalls atomic.Int64
}

func (m *KVStoreMock) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.GetCalls.Add(1)
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	if m.Inner != nil {
		return m.Inner.Get(ctx, key)
	}
	return nil, false, nil
}

func (m *KVStoreMock) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.SetCalls.Add(1)
	if m.SetFn != nil {
		return m.SetFn(ctx, key, value, ttl)
	}
	if m.Inner != nil {
		return m.Inner.Set(ctx, key, value, ttl)
	}
	return nil
}

func (m *KVStoreMock) Del(ctx context.Context, keys ...string) (int64, error) {
	m.DelCalls.Add(1)
	if m.DelFn != nil {
		return m.DelFn(ctx, keys...)
	}
	if m.Inner != nil {
		return m.Inner.Del(ctx, keys...)
	}
	return 0, nil
}

func (m *KVStoreMock) Keys(ctx context.Context, pattern string) ([]string, error) {
	if m.KeysFn != nil {
		return m.KeysFn(ctx, pattern)
	}
	if m.Inner != nil {
		return m.Inner.Keys(ctx, pattern)
	}
	return nil, nil
}

func (m *KVStoreMock) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}
	if m.Inner != nil {
		return m.Inner.Ping(ctx)
	}
	return nil
}

var _ ports.KVStore = (*KVStoreMock)(nil)
