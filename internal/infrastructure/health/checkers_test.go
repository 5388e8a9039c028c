package health_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glambooking/glambooking-api/internal/core/ports"
	"github.com/glambooking/glambooking-api/internal/infrastructure/health"
	"github.com/glambooking/glambooking-api/internal/infrastructure/memstore"
)

func TestCacheHealthChecker(t *testing.T) {
	store := memstore.New()
	hc := health.NewCacheHealthChecker(store)

	assert.Equal(t, "cache", hc.Name())
	assert.NoError(t, hc.Check(context.Background()))

	optional, ok := hc.(ports.OptionalHealthChecker)
	assert.True(t, ok)
	assert.True(t, optional.Optional())

	_ = store.Close()
	assert.ErrorIs(t, hc.Check(context.Background()), memstore.ErrClosed)
}
