package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	impl "github.com/glambooking/glambooking-api/internal/application/services"
	"github.com/glambooking/glambooking-api/internal/core/domain/booking"
	"github.com/glambooking/glambooking-api/internal/core/domain/cachekey"
	"github.com/glambooking/glambooking-api/internal/core/domain/catalog"
	"github.com/glambooking/glambooking-api/internal/core/domain/client"
)

func TestCatalog_ListCachedUntilWrite(t *testing.T) {
	f := newFixture(t)
	svc := impl.NewCatalogService(f.services, f.cache, f.inv, nil)
	ctx := context.Background()
	f.seedKeys(cachekey.SalonPublic(f.salon.ID.String()), cachekey.DashboardSummary(f.salon.OwnerID))

	list, err := svc.List(ctx, f.salon)
	require.NoError(t, err)
	assert.Empty(t, list)
	_, _ = svc.List(ctx, f.salon)
	assert.Equal(t, 1, f.services.Lists)

	created, err := svc.Create(ctx, f.salon, &catalog.CreateServiceRequest{Name: "Brow lamination", DurationMinutes: 45, PriceCents: 5500})
	require.NoError(t, err)
	assert.True(t, created.Active)
	assert.False(t, f.cached(cachekey.ServiceList(f.salon.OwnerID)))
	assert.False(t, f.cached(cachekey.SalonPublic(f.salon.ID.String())))
	assert.True(t, f.cached(cachekey.DashboardSummary(f.salon.OwnerID)), "catalog edits leave aggregates alone")

	list, err = svc.List(ctx, f.salon)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Brow lamination", list[0].Name)
}

func TestCatalog_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	svc := impl.NewCatalogService(f.services, f.cache, f.inv, nil)
	ctx := context.Background()
	existing := f.addService(t, "Pedicure", 50, 4000, true)

	off := false
	price := int64(4200)
	updated, err := svc.Update(ctx, f.salon, existing.ID, &catalog.UpdateServiceRequest{Active: &off, PriceCents: &price})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, int64(4200), updated.PriceCents)

	require.NoError(t, svc.Delete(ctx, f.salon, existing.ID))
	assert.ErrorIs(t, svc.Delete(ctx, f.salon, existing.ID), catalog.ErrNotFound)
	_, err = svc.Update(ctx, f.salon, uuid.New(), &catalog.UpdateServiceRequest{})
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	assert.Equal(t, []string{"mutation:owner-1:catalog,booking", "mutation:owner-1:catalog"}, f.inv.Calls())
}

func TestClients_ListAndCountCachedUntilWrite(t *testing.T) {
	f := newFixture(t)
	svc := impl.NewClientService(f.clients, f.cache, f.inv, nil)
	ctx := context.Background()
	f.addClient(t, "Ana", "ana@example.com")

	n, err := svc.Count(ctx, f.salon)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	f.seedKeys(cachekey.DashboardSummary(f.salon.OwnerID))

	_, err = svc.Create(ctx, f.salon, &client.CreateClientRequest{Name: "Bea", Email: "Bea@example.com"})
	require.NoError(t, err)
	assert.False(t, f.cached(cachekey.ClientCount(f.salon.OwnerID)))
	assert.False(t, f.cached(cachekey.DashboardSummary(f.salon.OwnerID)))

	n, err = svc.Count(ctx, f.salon)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := svc.List(ctx, f.salon)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestClients_EmailUniquePerSalon(t *testing.T) {
	f := newFixture(t)
	svc := impl.NewClientService(f.clients, f.cache, f.inv, nil)
	ctx := context.Background()
	ana := f.addClient(t, "Ana", "ana@example.com")
	bea := f.addClient(t, "Bea", "bea@example.com")

	_, err := svc.Create(ctx, f.salon, &client.CreateClientRequest{Name: "Ana 2", Email: "ANA@example.com"})
	assert.ErrorIs(t, err, client.ErrEmailTaken)

	taken := "ana@example.com"
	_, err = svc.Update(ctx, f.salon, bea.ID, &client.UpdateClientRequest{Email: &taken})
	assert.ErrorIs(t, err, client.ErrEmailTaken)

	same := "ana@example.com"
	notes := "prefers mornings"
	updated, err := svc.Update(ctx, f.salon, ana.ID, &client.UpdateClientRequest{Email: &same, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)

	require.NoError(t, svc.Delete(ctx, f.salon, bea.ID))
	assert.Equal(t, []string{"mutation:owner-1:client,booking", "mutation:owner-1:client,booking"}, f.inv.Calls())
}

func TestClientAndServiceEdits_RefreshBookingListings(t *testing.T) {
	f := newFixture(t)
	bookingSvc := newBookingService(f)
	clients := impl.NewClientService(f.clients, f.cache, f.inv, nil)
	catalogSvc := impl.NewCatalogService(f.services, f.cache, f.inv, nil)
	ctx := context.Background()
	cut := f.addService(t, "Haircut", 60, 4500, true)
	ana := f.addClient(t, "Ana", "ana@example.com")

	_, err := bookingSvc.Create(ctx, f.salon, &booking.CreateBookingRequest{ClientID: ana.ID, ServiceID: cut.ID, StartsAt: testNow.Add(2 * time.Hour)})
	require.NoError(t, err)
	_, err = bookingSvc.List(ctx, f.salon)
	require.NoError(t, err)
	require.True(t, f.cached(cachekey.BookingList(f.salon.OwnerID)))
	lists := f.bookings.Lists

	renamed := "Ana Maria"
	_, err = clients.Update(ctx, f.salon, ana.ID, &client.UpdateClientRequest{Name: &renamed})
	require.NoError(t, err)
	assert.False(t, f.cached(cachekey.BookingList(f.salon.OwnerID)))
	_, err = bookingSvc.List(ctx, f.salon)
	require.NoError(t, err)
	assert.Equal(t, lists+1, f.bookings.Lists, "a client rename refetches the booking list")

	serviceName := "Signature cut"
	_, err = catalogSvc.Update(ctx, f.salon, cut.ID, &catalog.UpdateServiceRequest{Name: &serviceName})
	require.NoError(t, err)
	assert.False(t, f.cached(cachekey.BookingList(f.salon.OwnerID)))
	_, err = bookingSvc.List(ctx, f.salon)
	require.NoError(t, err)
	_, err = bookingSvc.Upcoming(ctx, f.salon)
	require.NoError(t, err)

	require.NoError(t, clients.Delete(ctx, f.salon, ana.ID))
	assert.False(t, f.cached(cachekey.BookingList(f.salon.OwnerID)))
	assert.False(t, f.cached(cachekey.BookingUpcoming(f.salon.OwnerID)))
}
