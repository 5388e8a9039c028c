package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/glambooking/glambooking-api/internal/application/cache"
	"github.com/glambooking/glambooking-api/internal/core/domain/billing"
	"github.com/glambooking/glambooking-api/internal/core/domain/cachekey"
	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
	"github.com/glambooking/glambooking-api/internal/core/ports"
)

const (
	profileTTL    = 10 * time.Minute
	publicPageTTL = 5 * time.Minute
)

var defaultSettings = salon.Settings{Timezone: "UTC", Currency: "USD", MinNoticeMinutes: 60}

type SalonService struct {
	repo        ports.SalonRepository
	serviceRepo ports.ServiceRepository
	subRepo     ports.SubscriptionRepository
	cache       *cache.Cache
	invalidator ports.CacheInvalidator
	logger      *logrus.Logger
}

func NewSalonService(repo ports.SalonRepository, serviceRepo ports.ServiceRepository, subRepo ports.SubscriptionRepository, c *cache.Cache, inv ports.CacheInvalidator, logger *logrus.Logger) ports.SalonService {
	return &SalonService{
		repo:        repo,
		serviceRepo: serviceRepo,
		subRepo:     subRepo,
		cache:       c,
		invalidator: inv,
		logger:      ensureLogger(logger),
	}
}

func (s *SalonService) CreateSalon(ctx context.Context, ownerID string, req *salon.CreateSalonRequest) (*salon.Salon, error) {
	existing, err := s.repo.GetByOwner(ctx, ownerID)
	switch {
	case err == nil && existing != nil:
		return nil, salon.ErrAlreadyOnboarded
	case err != nil && !errors.Is(err, salon.ErrNotFound):
		return nil, err
	}
	if existing, err := s.repo.GetBySlug(ctx, req.Slug); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: %s", salon.ErrSlugTaken, req.Slug)
	}

	settings := defaultSettings
	if req.Settings != nil {
		settings = mergeSettings(settings, *req.Settings)
	}
	now := time.Now()
	newSalon := &salon.Salon{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		Plan:        salon.PlanFree,
		Status:      salon.StatusActive,
		Settings:    settings,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, newSalon); err != nil {
		return nil, fmt.Errorf("failed to create salon: %w", err)
	}

	sub := &billing.Subscription{
		ID:                 uuid.New(),
		SalonID:            newSalon.ID,
		Plan:               salon.PlanFree,
		Status:             billing.SubscriptionActive,
		PriceCents:         billing.PlanPriceCents[salon.PlanFree],
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		if derr := s.repo.Delete(ctx, newSalon.ID); derr != nil {
			s.logger.WithFields(logrus.Fields{"salon_id": newSalon.ID}).WithError(derr).Warn("failed to clean up salon after subscription error")
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	s.invalidator.AfterMutation(ctx, newSalon.Owner(), req)
	s.logger.WithFields(logrus.Fields{"salon_id": newSalon.ID, "user_id": ownerID}).Info("salon onboarded")
	return newSalon, nil
}

func (s *SalonService) GetProfile(ctx context.Context, ownerID string) (*salon.Profile, error) {
	return cache.Fetch(ctx, s.cache, cachekey.UserProfile(ownerID), func(ctx context.Context) (*salon.Profile, error) {
		found, err := s.repo.GetByOwner(ctx, ownerID)
		if errors.Is(err, salon.ErrNotFound) {
			return &salon.Profile{UserID: ownerID}, nil
		}
		if err != nil {
			return nil, err
		}
		return &salon.Profile{UserID: ownerID, Salon: found}, nil
	}, profileTTL)
}

// GetPublicPage resolves slug against the database on every call; only the page body
// is cached, keyed by salon id so that profile and catalog writes can find it.
func (s *SalonService) GetPublicPage(ctx context.Context, slug string) (*salon.PublicPage, error) {
	found, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !found.CanAccess() {
		return nil, salon.ErrNotFound
	}
	return cache.Fetch(ctx, s.cache, cachekey.SalonPublic(found.ID.String()), func(ctx context.Context) (*salon.PublicPage, error) {
		services, err := s.serviceRepo.ListBySalon(ctx, found.ID, true)
		if err != nil {
			return nil, fmt.Errorf("failed to load services: %w", err)
		}
		page := &salon.PublicPage{
			ID:          found.ID,
			Name:        found.Name,
			Slug:        found.Slug,
			Description: found.Description,
			Phone:       found.Phone,
			Address:     found.Address,
			Timezone:    found.Settings.Timezone,
			Currency:    found.Settings.Currency,
			Services:    make([]salon.PublicService, 0, len(services)),
		}
		for _, svc := range services {
			page.Services = append(page.Services, salon.PublicService{
				ID:              svc.ID,
				Name:            svc.Name,
				Description:     svc.Description,
				DurationMinutes: svc.DurationMinutes,
				PriceCents:      svc.PriceCents,
			})
		}
		return page, nil
	}, publicPageTTL)
}

func (s *SalonService) UpdateProfile(ctx context.Context, current *salon.Salon, req *salon.UpdateProfileRequest) (*salon.Salon, error) {
	existing, err := s.repo.GetByID(ctx, current.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Slug != nil && *req.Slug != existing.Slug {
		if other, err := s.repo.GetBySlug(ctx, *req.Slug); err == nil && other != nil && other.ID != existing.ID {
			return nil, fmt.Errorf("%w: %s", salon.ErrSlugTaken, *req.Slug)
		}
		existing.Slug = *req.Slug
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Phone != nil {
		existing.Phone = *req.Phone
	}
	if req.Email != nil {
		existing.Email = *req.Email
	}
	if req.Address != nil {
		existing.Address = *req.Address
	}
	if req.Settings != nil {
		existing.Settings = mergeSettings(existing.Settings, *req.Settings)
	}
	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update salon: %w", err)
	}
	s.invalidator.AfterMutation(ctx, existing.Owner(), req)
	return existing, nil
}

func (s *SalonService) ChangeStatus(ctx context.Context, current *salon.Salon, req *salon.StatusChange) (*salon.Salon, error) {
	existing, err := s.repo.GetByID(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	if !existing.CanTransitionTo(req.Status) {
		return nil, fmt.Errorf("%w: %s to %s", salon.ErrInvalidTransition, existing.Status, req.Status)
	}
	existing.Status = req.Status
	existing.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update salon status: %w", err)
	}
	s.invalidator.AfterMutation(ctx, existing.Owner(), req)
	s.logger.WithFields(logrus.Fields{"salon_id": existing.ID, "status": existing.Status}).Info("salon status changed")
	return existing, nil
}

// mergeSettings overlays the non-zero fields of patch on base.
func mergeSettings(base, patch salon.Settings) salon.Settings {
	if patch.Timezone != "" {
		base.Timezone = patch.Timezone
	}
	if patch.Currency != "" {
		base.Currency = patch.Currency
	}
	if patch.MinNoticeMinutes > 0 {
		base.MinNoticeMinutes = patch.MinNoticeMinutes
	}
	if patch.Customization != nil {
		base.Customization = patch.Customization
	}
	return base
}
