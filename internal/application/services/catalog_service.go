package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/glambooking/glambooking-api/internal/application/cache"
	"github.com/glambooking/glambooking-api/internal/core/domain/cachekey"
	"github.com/glambooking/glambooking-api/internal/core/domain/catalog"
	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
	"github.com/glambooking/glambooking-api/internal/core/ports"
)

const serviceListTTL = 10 * time.Minute

type CatalogService struct {
	repo        ports.ServiceRepository
	cache       *cache.Cache
	invalidator ports.CacheInvalidator
	logger      *logrus.Logger
}

func NewCatalogService(repo ports.ServiceRepository, c *cache.Cache, inv ports.CacheInvalidator, logger *logrus.Logger) ports.CatalogService {
	return &CatalogService{repo: repo, cache: c, invalidator: inv, logger: ensureLogger(logger)}
}

func (s *CatalogService) List(ctx context.Context, sl *salon.Salon) ([]catalog.Service, error) {
	return cache.Fetch(ctx, s.cache, cachekey.ServiceList(sl.OwnerID), func(ctx context.Context) ([]catalog.Service, error) {
		return s.repo.ListBySalon(ctx, sl.ID, false)
	}, serviceListTTL)
}

func (s *CatalogService) Create(ctx context.Context, sl *salon.Salon, req *catalog.CreateServiceRequest) (*catalog.Service, error) {
	now := time.Now()
	svc := &catalog.Service{
		ID:              uuid.New(),
		SalonID:         sl.ID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	s.invalidator.AfterMutation(ctx, sl.Owner(), req)
	return svc, nil
}

func (s *CatalogService) Update(ctx context.Context, sl *salon.Salon, id uuid.UUID, req *catalog.UpdateServiceRequest) (*catalog.Service, error) {
	svc, err := s.repo.GetByID(ctx, sl.ID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.PriceCents != nil {
		svc.PriceCents = *req.PriceCents
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}
	svc.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	s.invalidator.AfterMutation(ctx, sl.Owner(), req)
	return svc, nil
}

func (s *CatalogService) Delete(ctx context.Context, sl *salon.Salon, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, sl.ID, id); err != nil {
		return err
	}
	s.invalidator.AfterMutation(ctx, sl.Owner(), cachekey.Mutates{cachekey.Catalog})
	s.logger.WithFields(logrus.Fields{"salon_id": sl.ID, "service_id": id}).Info("service deleted")
	return nil
}
