package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/glambooking/glambooking-api/internal/application/cache"
	"github.com/glambooking/glambooking-api/internal/core/domain/booking"
	"github.com/glambooking/glambooking-api/internal/core/domain/cachekey"
	"github.com/glambooking/glambooking-api/internal/core/domain/catalog"
	"github.com/glambooking/glambooking-api/internal/core/domain/client"
	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
	"github.com/glambooking/glambooking-api/internal/core/ports"
)

const (
	bookingListTTL     = 2 * time.Minute
	bookingListLimit   = 100
	upcomingListLimit  = 50
	confirmationBudget = 10 * time.Second
)

type BookingService struct {
	repo        ports.BookingRepository
	clients     ports.ClientRepository
	services    ports.ServiceRepository
	salons      ports.SalonRepository
	email       ports.EmailService
	cache       *cache.Cache
	invalidator ports.CacheInvalidator
	logger      *logrus.Logger
	now         func() time.Time
}

type BookingDeps struct {
	Bookings    ports.BookingRepository
	Clients     ports.ClientRepository
	Services    ports.ServiceRepository
	Salons      ports.SalonRepository
	Email       ports.EmailService
	Cache       *cache.Cache
	Invalidator ports.CacheInvalidator
	Logger      *logrus.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewBookingService(deps BookingDeps) ports.BookingService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		repo:        deps.Bookings,
		clients:     deps.Clients,
		services:    deps.Services,
		salons:      deps.Salons,
		email:       deps.Email,
		cache:       deps.Cache,
		invalidator: deps.Invalidator,
		logger:      ensureLogger(deps.Logger),
		now:         now,
	}
}

func (s *BookingService) List(ctx context.Context, sl *salon.Salon) ([]booking.Listing, error) {
	return cache.Fetch(ctx, s.cache, cachekey.BookingList(sl.OwnerID), func(ctx context.Context) ([]booking.Listing, error) {
		return s.repo.List(ctx, sl.ID, bookingListLimit)
	}, bookingListTTL)
}

func (s *BookingService) Upcoming(ctx context.Context, sl *salon.Salon) ([]booking.Listing, error) {
	return cache.Fetch(ctx, s.cache, cachekey.BookingUpcoming(sl.OwnerID), func(ctx context.Context) ([]booking.Listing, error) {
		return s.repo.ListUpcoming(ctx, sl.ID, s.now(), upcomingListLimit)
	}, bookingListTTL)
}

func (s *BookingService) Create(ctx context.Context, sl *salon.Salon, req *booking.CreateBookingRequest) (*booking.Booking, error) {
	if !sl.CanAccess() {
		return nil, salon.ErrInactive
	}
	c, err := s.clients.GetByID(ctx, sl.ID, req.ClientID)
	if err != nil {
		return nil, err
	}
	svc, err := s.bookableService(ctx, sl.ID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if req.StartsAt.Before(s.now()) {
		return nil, booking.ErrTooSoon
	}

	b, err := s.insert(ctx, sl, c, svc, req.StartsAt, req.Notes, booking.SourceDashboard)
	if err != nil {
		return nil, err
	}
	s.invalidator.AfterMutation(ctx, sl.Owner(), req)
	s.sendConfirmation(ctx, sl, c, svc, b)
	return b, nil
}

// CreatePublic books on behalf of an anonymous visitor. The client record is matched by
// email within the salon and created when missing.
func (s *BookingService) CreatePublic(ctx context.Context, slug string, req *booking.PublicBookingRequest) (*booking.Booking, error) {
	sl, err := s.salons.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !sl.CanAccess() {
		return nil, salon.ErrNotFound
	}
	svc, err := s.bookableService(ctx, sl.ID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	notice := time.Duration(sl.Settings.MinNoticeMinutes) * time.Minute
	if req.StartsAt.Before(s.now().Add(notice)) {
		return nil, booking.ErrTooSoon
	}

	c, created, err := s.findOrCreateClient(ctx, sl.ID, req)
	if err != nil {
		return nil, err
	}
	b, err := s.insert(ctx, sl, c, svc, req.StartsAt, req.Notes, booking.SourcePublic)
	if err != nil {
		// The new client row has committed even though the booking did not.
		if created {
			s.invalidator.AfterMutation(ctx, sl.Owner(), cachekey.Mutates{cachekey.Client})
		}
		return nil, err
	}
	s.invalidator.AfterMutation(ctx, sl.Owner(), req)
	s.logger.WithFields(logrus.Fields{"salon_id": sl.ID, "booking_id": b.ID}).Info("public booking created")
	s.sendConfirmation(ctx, sl, c, svc, b)
	return b, nil
}

func (s *BookingService) Cancel(ctx context.Context, sl *salon.Salon, id uuid.UUID) (*booking.Booking, error) {
	return s.transition(ctx, sl, id, booking.StatusCanceled)
}

func (s *BookingService) Complete(ctx context.Context, sl *salon.Salon, id uuid.UUID) (*booking.Booking, error) {
	return s.transition(ctx, sl, id, booking.StatusCompleted)
}

func (s *BookingService) transition(ctx context.Context, sl *salon.Salon, id uuid.UUID, next booking.Status) (*booking.Booking, error) {
	b, err := s.repo.GetByID(ctx, sl.ID, id)
	if err != nil {
		return nil, err
	}
	if !b.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s to %s", booking.ErrInvalidTransition, b.Status, next)
	}
	if err := s.repo.UpdateStatus(ctx, sl.ID, id, next); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	b.Status = next
	b.UpdatedAt = s.now()
	s.invalidator.AfterMutation(ctx, sl.Owner(), booking.Transition{ID: id, Status: next})
	return b, nil
}

func (s *BookingService) bookableService(ctx context.Context, salonID, id uuid.UUID) (*catalog.Service, error) {
	svc, err := s.services.GetByID(ctx, salonID, id)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, booking.ErrServiceInactive
	}
	return svc, nil
}

// findOrCreateClient reports created=true when it inserted a new client row.
func (s *BookingService) findOrCreateClient(ctx context.Context, salonID uuid.UUID, req *booking.PublicBookingRequest) (*client.Client, bool, error) {
	email := normalizeEmail(req.Email)
	c, err := s.clients.GetByEmail(ctx, salonID, email)
	if err == nil {
		return c, false, nil
	}
	if !errors.Is(err, client.ErrNotFound) {
		return nil, false, err
	}
	now := s.now()
	c = &client.Client{
		ID:        uuid.New(),
		SalonID:   salonID,
		Name:      req.Name,
		Email:     email,
		Phone:     req.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, false, fmt.Errorf("failed to create client: %w", err)
	}
	return c, true, nil
}

func (s *BookingService) insert(ctx context.Context, sl *salon.Salon, c *client.Client, svc *catalog.Service, startsAt time.Time, notes string, source booking.Source) (*booking.Booking, error) {
	endsAt := startsAt.Add(time.Duration(svc.DurationMinutes) * time.Minute)
	overlap, err := s.repo.HasOverlap(ctx, sl.ID, startsAt, endsAt)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if overlap {
		return nil, booking.ErrSlotTaken
	}
	now := s.now()
	b := &booking.Booking{
		ID:         uuid.New(),
		SalonID:    sl.ID,
		ClientID:   c.ID,
		ServiceID:  svc.ID,
		StartsAt:   startsAt.UTC(),
		EndsAt:     endsAt.UTC(),
		Status:     booking.StatusConfirmed,
		Source:     source,
		PriceCents: svc.PriceCents,
		Notes:      notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return b, nil
}

// sendConfirmation never fails the booking; the write has already committed.
func (s *BookingService) sendConfirmation(ctx context.Context, sl *salon.Salon, c *client.Client, svc *catalog.Service, b *booking.Booking) {
	if s.email == nil || c.Email == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), confirmationBudget)
	defer cancel()
	err := s.email.SendBookingConfirmation(ctx, &ports.BookingConfirmation{
		To:          c.Email,
		ClientName:  c.Name,
		SalonName:   sl.Name,
		ServiceName: svc.Name,
		StartsAt:    b.StartsAt,
		Timezone:    sl.Settings.Timezone,
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{"booking_id": b.ID, "salon_id": sl.ID}).WithError(err).Warn("failed to send booking confirmation")
	}
}
