package mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glambooking/glambooking-api/internal/core/domain/auth"
	"github.com/glambooking/glambooking-api/internal/core/domain/billing"
	"github.com/glambooking/glambooking-api/internal/core/domain/booking"
	"github.com/glambooking/glambooking-api/internal/core/domain/cachekey"
	"github.com/glambooking/glambooking-api/internal/core/domain/catalog"
	"github.com/glambooking/glambooking-api/internal/core/domain/client"
	"github.com/glambooking/glambooking-api/internal/core/domain/dashboard"
	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
	"github.com/glambooking/glambooking-api/internal/core/ports"
)

// SalonRepositoryMock is an in-memory SalonRepository; the Fn fields override it.
type SalonRepositoryMock struct {
	mu     sync.Mutex
	Salons map[uuid.UUID]*salon.Salon

	CreateFn     func(ctx context.Context, s *salon.Salon) error
	GetByOwnerFn func(ctx context.Context, ownerID string) (*salon.Salon, error)
	UpdateFn     func(ctx context.Context, s *salon.Salon) error
	DeleteFn     func(ctx context.Context, id uuid.UUID) error
	Calls        map[string]int
}

func (m *SalonRepositoryMock) init() {
	if m.Salons == nil {
		m.Salons = map[uuid.UUID]*salon.Salon{}
	}
	if m.Calls == nil {
		m.Calls = map[string]int{}
	}
}

func (m *SalonRepositoryMock) Put(s *salon.Salon) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	cp := *s
	m.Salons[s.ID] = &cp
}

func (m *SalonRepositoryMock) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}

func (m *SalonRepositoryMock) Create(ctx context.Context, s *salon.Salon) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	m.Put(s)
	return nil
}

func (m *SalonRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*salon.Salon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	m.Calls["GetByID"]++
	if s, ok := m.Salons[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, salon.ErrNotFound
}

func (m *SalonRepositoryMock) GetBySlug(ctx context.Context, slug string) (*salon.Salon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	m.Calls["GetBySlug"]++
	for _, s := range m.Salons {
		if s.Slug == slug {
			cp := *s
			return &cp, nil
		}
	}
	return nil, salon.ErrNotFound
}

func (m *SalonRepositoryMock) GetByOwner(ctx context.Context, ownerID string) (*salon.Salon, error) {
	if m.GetByOwnerFn != nil {
		return m.GetByOwnerFn(ctx, ownerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	m.Calls["GetByOwner"]++
	for _, s := range m.Salons {
		if s.OwnerID == ownerID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, salon.ErrNotFound
}

func (m *SalonRepositoryMock) Update(ctx context.Context, s *salon.Salon) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, s)
	}
	m.mu.Lock()
	_, ok := m.Salons[s.ID]
	m.mu.Unlock()
	if !ok {
		return salon.ErrNotFound
	}
	m.Put(s)
	return nil
}

func (m *SalonRepositoryMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	delete(m.Salons, id)
	return nil
}

// ServiceRepositoryMock is an in-memory ServiceRepository.
type ServiceRepositoryMock struct {
	mu       sync.Mutex
	Services map[uuid.UUID]*catalog.Service
	ListFn   func(ctx context.Context, salonID uuid.UUID, activeOnly bool) ([]catalog.Service, error)
	Lists    int
}

func (m *ServiceRepositoryMock) Create(ctx context.Context, svc *catalog.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Services == nil {
		m.Services = map[uuid.UUID]*catalog.Service{}
	}
	cp := *svc
	m.Services[svc.ID] = &cp
	return nil
}

func (m *ServiceRepositoryMock) GetByID(ctx context.Context, salonID, id uuid.UUID) (*catalog.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.Services[id]; ok && s.SalonID == salonID {
		cp := *s
		return &cp, nil
	}
	return nil, catalog.ErrNotFound
}

func (m *ServiceRepositoryMock) ListBySalon(ctx context.Context, salonID uuid.UUID, activeOnly bool) ([]catalog.Service, error) {
	m.mu.Lock()
	m.Lists++
	m.mu.Unlock()
	if m.ListFn != nil {
		return m.ListFn(ctx, salonID, activeOnly)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []catalog.Service{}
	for _, s := range m.Services {
		if s.SalonID == salonID && (!activeOnly || s.Active) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *ServiceRepositoryMock) Update(ctx context.Context, svc *catalog.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Services[svc.ID]; !ok {
		return catalog.ErrNotFound
	}
	cp := *svc
	m.Services[svc.ID] = &cp
	return nil
}

func (m *ServiceRepositoryMock) Delete(ctx context.Context, salonID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.Services[id]; !ok || s.SalonID != salonID {
		return catalog.ErrNotFound
	}
	delete(m.Services, id)
	return nil
}

// ClientRepositoryMock is an in-memory ClientRepository.
type ClientRepositoryMock struct {
	mu       sync.Mutex
	Clients  map[uuid.UUID]*client.Client
	CreateFn func(ctx context.Context, c *client.Client) error
	Lists    int
}

func (m *ClientRepositoryMock) Create(ctx context.Context, c *client.Client) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Clients == nil {
		m.Clients = map[uuid.UUID]*client.Client{}
	}
	cp := *c
	m.Clients[c.ID] = &cp
	return nil
}

func (m *ClientRepositoryMock) GetByID(ctx context.Context, salonID, id uuid.UUID) (*client.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.Clients[id]; ok && c.SalonID == salonID {
		cp := *c
		return &cp, nil
	}
	return nil, client.ErrNotFound
}

func (m *ClientRepositoryMock) GetByEmail(ctx context.Context, salonID uuid.UUID, email string) (*client.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Clients {
		if c.SalonID == salonID && strings.EqualFold(c.Email, email) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, client.ErrNotFound
}

func (m *ClientRepositoryMock) ListBySalon(ctx context.Context, salonID uuid.UUID) ([]client.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lists++
	out := []client.Client{}
	for _, c := range m.Clients {
		if c.SalonID == salonID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *ClientRepositoryMock) CountBySalon(ctx context.Context, salonID uuid.UUID) (int, error) {
	list, err := m.ListBySalon(ctx, salonID)
	return len(list), err
}

func (m *ClientRepositoryMock) Update(ctx context.Context, c *client.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Clients[c.ID]; !ok {
		return client.ErrNotFound
	}
	cp := *c
	m.Clients[c.ID] = &cp
	return nil
}

func (m *ClientRepositoryMock) Delete(ctx context.Context, salonID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.Clients[id]; !ok || c.SalonID != salonID {
		return client.ErrNotFound
	}
	delete(m.Clients, id)
	return nil
}

// BookingRepositoryMock is an in-memory BookingRepository.
type BookingRepositoryMock struct {
	mu       sync.Mutex
	Bookings map[uuid.UUID]*booking.Booking
	Lists    int
}

func (m *BookingRepositoryMock) Create(ctx context.Context, b *booking.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Bookings == nil {
		m.Bookings = map[uuid.UUID]*booking.Booking{}
	}
	cp := *b
	m.Bookings[b.ID] = &cp
	return nil
}

func (m *BookingRepositoryMock) GetByID(ctx context.Context, salonID, id uuid.UUID) (*booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.Bookings[id]; ok && b.SalonID == salonID {
		cp := *b
		return &cp, nil
	}
	return nil, booking.ErrNotFound
}

func (m *BookingRepositoryMock) List(ctx context.Context, salonID uuid.UUID, limit int) ([]booking.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lists++
	out := []booking.Listing{}
	for _, b := range m.Bookings {
		if b.SalonID == salonID && len(out) < limit {
			out = append(out, booking.Listing{Booking: *b})
		}
	}
	return out, nil
}

func (m *BookingRepositoryMock) ListUpcoming(ctx context.Context, salonID uuid.UUID, from time.Time, limit int) ([]booking.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lists++
	out := []booking.Listing{}
	for _, b := range m.Bookings {
		if b.SalonID == salonID && b.Status == booking.StatusConfirmed && !b.StartsAt.Before(from) && len(out) < limit {
			out = append(out, booking.Listing{Booking: *b})
		}
	}
	return out, nil
}

func (m *BookingRepositoryMock) HasOverlap(ctx context.Context, salonID uuid.UUID, start, end time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.Bookings {
		if b.SalonID == salonID && b.Status == booking.StatusConfirmed && b.StartsAt.Before(end) && start.Before(b.EndsAt) {
			return true, nil
		}
	}
	return false, nil
}

func (m *BookingRepositoryMock) UpdateStatus(ctx context.Context, salonID, id uuid.UUID, status booking.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Bookings[id]
	if !ok || b.SalonID != salonID {
		return booking.ErrNotFound
	}
	b.Status = status
	return nil
}

// StatsRepositoryMock returns canned aggregates.
type StatsRepositoryMock struct {
	SummaryFn      func(ctx context.Context, salonID uuid.UUID, now time.Time) (*dashboard.Summary, error)
	DailyRevenueFn func(ctx context.Context, salonID uuid.UUID, since time.Time) ([]dashboard.DailyRevenue, error)
}

func (m *StatsRepositoryMock) Summary(ctx context.Context, salonID uuid.UUID, now time.Time) (*dashboard.Summary, error) {
	if m.SummaryFn != nil {
		return m.SummaryFn(ctx, salonID, now)
	}
	return &dashboard.Summary{}, nil
}

func (m *StatsRepositoryMock) DailyRevenue(ctx context.Context, salonID uuid.UUID, since time.Time) ([]dashboard.DailyRevenue, error) {
	if m.DailyRevenueFn != nil {
		return m.DailyRevenueFn(ctx, salonID, since)
	}
	return nil, nil
}

// SubscriptionRepositoryMock is an in-memory SubscriptionRepository.
type SubscriptionRepositoryMock struct {
	mu       sync.Mutex
	Subs     map[uuid.UUID]*billing.Subscription
	Invoices []billing.Invoice
	CreateFn func(ctx context.Context, sub *billing.Subscription) error
}

func (m *SubscriptionRepositoryMock) Create(ctx context.Context, sub *billing.Subscription) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, sub)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Subs == nil {
		m.Subs = map[uuid.UUID]*billing.Subscription{}
	}
	cp := *sub
	m.Subs[sub.SalonID] = &cp
	return nil
}

func (m *SubscriptionRepositoryMock) GetBySalon(ctx context.Context, salonID uuid.UUID) (*billing.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.Subs[salonID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, billing.ErrNotFound
}

func (m *SubscriptionRepositoryMock) Update(ctx context.Context, sub *billing.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Subs[sub.SalonID]; !ok {
		return billing.ErrNotFound
	}
	cp := *sub
	m.Subs[sub.SalonID] = &cp
	return nil
}

func (m *SubscriptionRepositoryMock) CreateInvoice(ctx context.Context, inv *billing.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invoices = append(m.Invoices, *inv)
	return nil
}

func (m *SubscriptionRepositoryMock) ListInvoices(ctx context.Context, salonID uuid.UUID) ([]billing.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []billing.Invoice{}
	for _, inv := range m.Invoices {
		if inv.SalonID == salonID {
			out = append(out, inv)
		}
	}
	return out, nil
}

// InvalidatorMock records invalidation calls. When Inner is set calls are forwarded
// to it as well.
type InvalidatorMock struct {
	Inner ports.CacheInvalidator

	mu    sync.Mutex
	calls []string
}

func (m *InvalidatorMock) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

// Calls returns the recorded calls, e.g. "booking:u1" or "mutation:u1:booking,client".
func (m *InvalidatorMock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *InvalidatorMock) InvalidateDashboard(ctx context.Context, userID string) {
	m.record("dashboard:" + userID)
	if m.Inner != nil {
		m.Inner.InvalidateDashboard(ctx, userID)
	}
}

func (m *InvalidatorMock) InvalidateBilling(ctx context.Context, userID string) {
	m.record("billing:" + userID)
	if m.Inner != nil {
		m.Inner.InvalidateBilling(ctx, userID)
	}
}

func (m *InvalidatorMock) InvalidateBooking(ctx context.Context, userID string) {
	m.record("booking:" + userID)
	if m.Inner != nil {
		m.Inner.InvalidateBooking(ctx, userID)
	}
}

func (m *InvalidatorMock) InvalidateClient(ctx context.Context, userID string) {
	m.record("client:" + userID)
	if m.Inner != nil {
		m.Inner.InvalidateClient(ctx, userID)
	}
}

func (m *InvalidatorMock) InvalidateCatalog(ctx context.Context, userID, salonID string) {
	m.record("catalog:" + userID)
	if m.Inner != nil {
		m.Inner.InvalidateCatalog(ctx, userID, salonID)
	}
}

func (m *InvalidatorMock) InvalidateProfile(ctx context.Context, userID, salonID string) {
	m.record("profile:" + userID)
	if m.Inner != nil {
		m.Inner.InvalidateProfile(ctx, userID, salonID)
	}
}

func (m *InvalidatorMock) InvalidateAllUser(ctx context.Context, userID string) {
	m.record("all:" + userID)
	if m.Inner != nil {
		m.Inner.InvalidateAllUser(ctx, userID)
	}
}

func (m *InvalidatorMock) AfterMutation(ctx context.Context, owner cachekey.Owner, mut cachekey.Mutation) {
	names := make([]string, 0)
	if mut != nil {
		for _, d := range mut.CacheDomains() {
			names = append(names, d.String())
		}
	}
	m.record("mutation:" + owner.UserID + ":" + strings.Join(names, ","))
	if m.Inner != nil {
		m.Inner.AfterMutation(ctx, owner, mut)
	}
}

// EmailServiceMock records confirmations.
type EmailServiceMock struct {
	mu     sync.Mutex
	Sent   []ports.BookingConfirmation
	SendFn func(ctx context.Context, msg *ports.BookingConfirmation) error
}

func (m *EmailServiceMock) SendBookingConfirmation(ctx context.Context, msg *ports.BookingConfirmation) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, *msg)
	m.mu.Unlock()
	if m.SendFn != nil {
		return m.SendFn(ctx, msg)
	}
	return nil
}

// AuthServiceMock accepts any token for which ValidateTokenFn returns claims.
type AuthServiceMock struct {
	ValidateTokenFn func(ctx context.Context, token string) (*auth.Claims, error)
}

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return nil, auth.ErrInvalidToken
}

var (
	_ ports.SalonRepository        = (*SalonRepositoryMock)(nil)
	_ ports.ServiceRepository      = (*ServiceRepositoryMock)(nil)
	_ ports.ClientRepository       = (*ClientRepositoryMock)(nil)
	_ ports.BookingRepository      = (*BookingRepositoryMock)(nil)
	_ ports.StatsRepository        = (*StatsRepositoryMock)(nil)
	_ ports.SubscriptionRepository = (*SubscriptionRepositoryMock)(nil)
	_ ports.CacheInvalidator       = (*InvalidatorMock)(nil)
	_ ports.EmailService           = (*EmailServiceMock)(nil)
	_ ports.AuthService            = (*AuthServiceMock)(nil)
)
