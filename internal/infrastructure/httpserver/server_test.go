package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/glambooking/glambooking-api/configs"
	"github.com/glambooking/glambooking-api/internal/application/cache"
	"github.com/glambooking/glambooking-api/internal/application/services"
	"github.com/glambooking/glambooking-api/internal/core/domain/auth"
	"github.com/glambooking/glambooking-api/internal/core/domain/billing"
	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
	"github.com/glambooking/glambooking-api/internal/core/ports"
	"github.com/glambooking/glambooking-api/internal/infrastructure/health"
	"github.com/glambooking/glambooking-api/internal/infrastructure/httpserver"
	"github.com/glambooking/glambooking-api/internal/infrastructure/memstore"
	"github.com/glambooking/glambooking-api/internal/infrastructure/repositories"
	"github.com/glambooking/glambooking-api/test/mocks"
)

type harness struct {
	srv    *httpserver.Server
	store  *memstore.Store
	salon  *salon.Salon
	salons *mocks.SalonRepositoryMock
	subs   *mocks.SubscriptionRepositoryMock
}

type failingChecker struct{}

func (failingChecker) Name() string                { return "database" }
func (failingChecker) Check(context.Context) error { return errors.New("connection refused") }

// newHarness builds the server over real services, in-memory repositories and a
// memory cache. Any bearer token other than "bad" authenticates as its own text.
func newHarness(t *testing.T, checkers ...ports.HealthChecker) *harness {
	t.Helper()
	logger, _ := test.NewNullLogger()
	store := memstore.New()
	t.Cleanup(func() { _ = store.Close() })
	c := cache.New(store, nil, logger)
	inv := cache.NewInvalidator(c)

	salons := &mocks.SalonRepositoryMock{}
	catalogRepo := &mocks.ServiceRepositoryMock{}
	clients := &mocks.ClientRepositoryMock{}
	bookings := &mocks.BookingRepositoryMock{}
	subs := &mocks.SubscriptionRepositoryMock{}

	existing := &salon.Salon{
		ID: uuid.New(), OwnerID: "owner-1", Name: "Glow Studio", Slug: "glowstudio",
		Plan: salon.PlanFree, Status: salon.StatusActive,
		Settings: salon.Settings{Timezone: "UTC", Currency: "USD", MinNoticeMinutes: 60},
	}
	salons.Put(existing)
	require.NoError(t, subs.Create(context.Background(), &billing.Subscription{
		ID: uuid.New(), SalonID: existing.ID, Plan: salon.PlanFree, Status: billing.SubscriptionActive,
	}))

	rl := repositories.NewRateLimitMemoryRepository()
	t.Cleanup(rl.Close)

	authMock := &mocks.AuthServiceMock{ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
		if token == "bad" {
			return nil, auth.ErrInvalidToken
		}
		claims := &auth.Claims{Email: token + "@example.com"}
		claims.Subject = token
		return claims, nil
	}}

	if checkers == nil {
		checkers = []ports.HealthChecker{health.NewCacheHealthChecker(store)}
	}

	srv := httpserver.NewServer(&httpserver.ServerConfig{Host: "127.0.0.1", Port: "0"}, logger, httpserver.ServerDeps{
		AuthService:    authMock,
		SalonService:   services.NewSalonService(salons, catalogRepo, subs, c, inv, logger),
		CatalogService: services.NewCatalogService(catalogRepo, c, inv, logger),
		ClientService:  services.NewClientService(clients, c, inv, logger),
		BookingService: services.NewBookingService(services.BookingDeps{
			Bookings: bookings, Clients: clients, Services: catalogRepo, Salons: salons,
			Email: &mocks.EmailServiceMock{}, Cache: c, Invalidator: inv, Logger: logger,
		}),
		DashboardService:   services.NewDashboardService(&mocks.StatsRepositoryMock{}, bookings, c, logger),
		BillingService:     services.NewBillingService(subs, salons, c, inv, logger),
		RateLimiterService: services.NewRateLimiterService(rl, &config.RateLimitConfig{PublicBookingsPerWindow: 2, Window: time.Hour}, logger),
		HealthCheckers:     checkers,
	})
	return &harness{srv: srv, store: store, salon: existing, salons: salons, subs: subs}
}

func (h *harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var b []byte
	if body != nil {
		var err error
		b, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.srv.Echo().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// nextSlot is far enough ahead to satisfy the minimum notice rule.
func nextSlot(hours int) time.Time {
	return time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour).Add(time.Duration(hours) * time.Hour)
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[map[string]any](t, rec)["status"])

	require.NoError(t, h.store.Close())
	rec = h.do(t, http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, "a cache outage degrades but does not fail health")
	assert.Equal(t, "degraded", decode[map[string]any](t, rec)["status"])

	rec = newHarness(t, failingChecker{}).do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodGet, "/api/v1/public/salons/glowstudio", "", nil)
	rec := h.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
	assert.Contains(t, rec.Body.String(), "glambooking_cache_operations_total")
}

func TestAuthRequired(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodGet, "/api/v1/dashboard/summary", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodGet, "/api/v1/dashboard/summary", "bad", nil).Code)
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/api/v1/dashboard/summary", "owner-1", nil).Code)
}

func TestOnboarding(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/v1/profile", "owner-2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[map[string]any](t, rec)["salon"])
	assert.Equal(t, http.StatusForbidden, h.do(t, http.MethodGet, "/api/v1/services", "owner-2", nil).Code)

	rec = h.do(t, http.MethodPost, "/api/v1/salons", "owner-2", map[string]any{"name": "Nails & Co", "slug": "Nails Co"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = h.do(t, http.MethodPost, "/api/v1/salons", "owner-2", map[string]any{"name": "Copycat", "slug": "glowstudio"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/salons", "owner-2", map[string]any{"name": "Nails & Co", "slug": "nails-co"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/api/v1/services", "owner-2", nil).Code)
	rec = h.do(t, http.MethodGet, "/api/v1/profile", "owner-2", nil)
	profile := decode[salon.Profile](t, rec)
	require.NotNil(t, profile.Salon)
	assert.Equal(t, "nails-co", profile.Salon.Slug)
}

func TestBookingFlow(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/services", "owner-1", map[string]any{"name": "Haircut", "duration_minutes": 60, "price_cents": 4500})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	svcID := decode[map[string]any](t, rec)["id"]

	rec = h.do(t, http.MethodPost, "/api/v1/clients", "owner-1", map[string]any{"name": "Ana", "email": "ana@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	clientID := decode[map[string]any](t, rec)["id"]

	rec = h.do(t, http.MethodGet, "/api/v1/clients/count", "owner-1", nil)
	assert.Equal(t, float64(1), decode[map[string]any](t, rec)["count"])

	rec = h.do(t, http.MethodGet, "/api/v1/bookings/upcoming", "owner-1", nil)
	assert.Equal(t, float64(0), decode[map[string]any](t, rec)["total"])

	start := nextSlot(0)
	rec = h.do(t, http.MethodPost, "/api/v1/bookings", "owner-1", map[string]any{"client_id": clientID, "service_id": svcID, "starts_at": start})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bookingID := decode[map[string]any](t, rec)["id"].(string)

	rec = h.do(t, http.MethodPost, "/api/v1/bookings", "owner-1", map[string]any{"client_id": clientID, "service_id": svcID, "starts_at": start.Add(30 * time.Minute)})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/v1/bookings/upcoming", "owner-1", nil)
	assert.Equal(t, float64(1), decode[map[string]any](t, rec)["total"], "upcoming list is refreshed after a booking write")

	assert.Equal(t, http.StatusOK, h.do(t, http.MethodPut, "/api/v1/bookings/"+bookingID+"/cancel", "owner-1", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, h.do(t, http.MethodPut, "/api/v1/bookings/"+bookingID+"/complete", "owner-1", nil).Code)
	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPut, "/api/v1/bookings/not-a-uuid/cancel", "owner-1", nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodPut, "/api/v1/bookings/"+uuid.NewString()+"/cancel", "owner-1", nil).Code)
}

func TestPublicBooking(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodPost, "/api/v1/services", "owner-1", map[string]any{"name": "Gel manicure", "duration_minutes": 45, "price_cents": 3500})
	require.Equal(t, http.StatusCreated, rec.Code)
	svcID := decode[map[string]any](t, rec)["id"]

	rec = h.do(t, http.MethodGet, "/api/v1/public/salons/glowstudio", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[salon.PublicPage](t, rec)
	require.Len(t, page.Services, 1)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/api/v1/public/salons/nope", "", nil).Code)

	book := func(hours int) *httptest.ResponseRecorder {
		return h.do(t, http.MethodPost, "/api/v1/public/salons/glowstudio/bookings", "", map[string]any{
			"service_id": svcID, "starts_at": nextSlot(hours), "name": "Bea", "email": "bea@example.com",
		})
	}
	assert.Equal(t, http.StatusCreated, book(0).Code)
	second := book(2)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))
	limited := book(4)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))

	rec = h.do(t, http.MethodGet, "/api/v1/clients", "owner-1", nil)
	assert.Equal(t, float64(1), decode[map[string]any](t, rec)["total"], "repeat visitors reuse one client record")
}

func TestChangePlan(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/api/v1/billing/subscription", "owner-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "free", decode[map[string]any](t, rec)["plan"])

	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPut, "/api/v1/billing/plan", "owner-1", map[string]any{"plan": "platinum"}).Code)
	assert.Equal(t, http.StatusConflict, h.do(t, http.MethodPut, "/api/v1/billing/plan", "owner-1", map[string]any{"plan": "free"}).Code)

	rec = h.do(t, http.MethodPut, "/api/v1/billing/plan", "owner-1", map[string]any{"plan": "pro"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodGet, "/api/v1/profile", "owner-1", nil)
	profile := decode[salon.Profile](t, rec)
	require.NotNil(t, profile.Salon)
	assert.Equal(t, salon.PlanPro, profile.Salon.Plan, "profile is re-read after the account-wide sweep")

	rec = h.do(t, http.MethodGet, "/api/v1/billing/invoices", "owner-1", nil)
	assert.Equal(t, float64(1), decode[map[string]any](t, rec)["total"])
}

func TestSuspendedSalon(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodPut, "/api/v1/profile/status", "owner-1", map[string]any{"status": "suspended"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/api/v1/public/salons/glowstudio", "", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, h.do(t, http.MethodPut, "/api/v1/profile/status", "owner-1", map[string]any{"status": "suspended"}).Code)
	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPut, "/api/v1/profile/status", "owner-1", map[string]any{"status": "deleted"}).Code)
}
