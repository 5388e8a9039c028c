package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/glambooking/glambooking-api/internal/application/cache"
	"github.com/glambooking/glambooking-api/internal/core/domain/catalog"
	"github.com/glambooking/glambooking-api/internal/core/domain/client"
	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
	"github.com/glambooking/glambooking-api/internal/infrastructure/memstore"
	tmocks "github.com/glambooking/glambooking-api/test/mocks"
)

type fixture struct {
	cache    *cache.Cache
	inv      *tmocks.InvalidatorMock
	salons   *tmocks.SalonRepositoryMock
	services *tmocks.ServiceRepositoryMock
	clients  *tmocks.ClientRepositoryMock
	bookings *tmocks.BookingRepositoryMock
	subs     *tmocks.SubscriptionRepositoryMock
	email    *tmocks.EmailServiceMock
	salon    *salon.Salon
}

// newFixture wires a memory-backed cache and a recording invalidator that forwards to
// the real one, plus one active salon owned by "owner-1".
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	t.Cleanup(func() { _ = store.Close() })
	c := cache.New(store, nil, nil)

	f := &fixture{
		cache:    c,
		inv:      &tmocks.InvalidatorMock{Inner: cache.NewInvalidator(c)},
		salons:   &tmocks.SalonRepositoryMock{},
		services: &tmocks.ServiceRepositoryMock{},
		clients:  &tmocks.ClientRepositoryMock{},
		bookings: &tmocks.BookingRepositoryMock{},
		subs:     &tmocks.SubscriptionRepositoryMock{},
		email:    &tmocks.EmailServiceMock{},
		salon: &salon.Salon{
			ID:       uuid.New(),
			OwnerID:  "owner-1",
			Name:     "Glow Studio",
			Slug:     "glowstudio",
			Plan:     salon.PlanFree,
			Status:   salon.StatusActive,
			Settings: salon.Settings{Timezone: "UTC", Currency: "USD", MinNoticeMinutes: 60},
		},
	}
	f.salons.Put(f.salon)
	return f
}

func (f *fixture) addService(t *testing.T, name string, minutes int, price int64, active bool) *catalog.Service {
	t.Helper()
	svc := &catalog.Service{ID: uuid.New(), SalonID: f.salon.ID, Name: name, DurationMinutes: minutes, PriceCents: price, Active: active}
	if err := f.services.Create(context.Background(), svc); err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return svc
}

func (f *fixture) addClient(t *testing.T, name, email string) *client.Client {
	t.Helper()
	c := &client.Client{ID: uuid.New(), SalonID: f.salon.ID, Name: name, Email: email}
	if err := f.clients.Create(context.Background(), c); err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return c
}

func (f *fixture) cached(key string) bool {
	_, ok := cache.Get[any](context.Background(), f.cache, key)
	return ok
}

func (f *fixture) seedKeys(keys ...string) {
	for _, k := range keys {
		f.cache.Set(context.Background(), k, map[string]int{"n": 1}, time.Minute)
	}
}
