package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/glambooking/glambooking-api/internal/application/cache"
	"github.com/glambooking/glambooking-api/internal/core/domain/cachekey"
	"github.com/glambooking/glambooking-api/internal/core/domain/client"
	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
	"github.com/glambooking/glambooking-api/internal/core/ports"
)

const clientListTTL = 5 * time.Minute

type ClientService struct {
	repo        ports.ClientRepository
	cache       *cache.Cache
	invalidator ports.CacheInvalidator
	logger      *logrus.Logger
}

func NewClientService(repo ports.ClientRepository, c *cache.Cache, inv ports.CacheInvalidator, logger *logrus.Logger) ports.ClientService {
	return &ClientService{repo: repo, cache: c, invalidator: inv, logger: ensureLogger(logger)}
}

func (s *ClientService) List(ctx context.Context, sl *salon.Salon) ([]client.Client, error) {
	return cache.Fetch(ctx, s.cache, cachekey.ClientList(sl.OwnerID), func(ctx context.Context) ([]client.Client, error) {
		return s.repo.ListBySalon(ctx, sl.ID)
	}, clientListTTL)
}

func (s *ClientService) Count(ctx context.Context, sl *salon.Salon) (int, error) {
	return cache.Fetch(ctx, s.cache, cachekey.ClientCount(sl.OwnerID), func(ctx context.Context) (int, error) {
		return s.repo.CountBySalon(ctx, sl.ID)
	}, clientListTTL)
}

func (s *ClientService) Create(ctx context.Context, sl *salon.Salon, req *client.CreateClientRequest) (*client.Client, error) {
	email := normalizeEmail(req.Email)
	if err := s.ensureEmailFree(ctx, sl.ID, email, uuid.Nil); err != nil {
		return nil, err
	}
	now := time.Now()
	c := &client.Client{
		ID:        uuid.New(),
		SalonID:   sl.ID,
		Name:      req.Name,
		Email:     email,
		Phone:     req.Phone,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	s.invalidator.AfterMutation(ctx, sl.Owner(), req)
	return c, nil
}

func (s *ClientService) Update(ctx context.Context, sl *salon.Salon, id uuid.UUID, req *client.UpdateClientRequest) (*client.Client, error) {
	c, err := s.repo.GetByID(ctx, sl.ID, id)
	if err != nil {
		return nil, err
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != c.Email {
			if err := s.ensureEmailFree(ctx, sl.ID, email, c.ID); err != nil {
				return nil, err
			}
		}
		c.Email = email
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}
	c.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	s.invalidator.AfterMutation(ctx, sl.Owner(), req)
	return c, nil
}

func (s *ClientService) Delete(ctx context.Context, sl *salon.Salon, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, sl.ID, id); err != nil {
		return err
	}
	// Deleting a client cascades to its bookings.
	s.invalidator.AfterMutation(ctx, sl.Owner(), cachekey.Mutates{cachekey.Client, cachekey.Booking})
	return nil
}

func (s *ClientService) ensureEmailFree(ctx context.Context, salonID uuid.UUID, email string, self uuid.UUID) error {
	existing, err := s.repo.GetByEmail(ctx, salonID, email)
	if errors.Is(err, client.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != self {
		return client.ErrEmailTaken
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
