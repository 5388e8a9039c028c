package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
)

type SalonRepository interface {
	Create(ctx context.Context, s *salon.Salon) error
	GetByID(ctx context.Context, id uuid.UUID) (*salon.Salon, error)
	GetBySlug(ctx context.Context, slug string) (*salon.Salon, error)
	GetByOwner(ctx context.Context, ownerID string) (*salon.Salon, error)
	Update(ctx context.Context, s *salon.Salon) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SalonService interface {
	CreateSalon(ctx context.Context, ownerID string, req *salon.CreateSalonRequest) (*salon.Salon, error)
	// GetProfile is cached per owner. Profile.Salon is nil before onboarding.
	GetProfile(ctx context.Context, ownerID string) (*salon.Profile, error)
	GetPublicPage(ctx context.Context, slug string) (*salon.PublicPage, error)
	UpdateProfile(ctx context.Context, s *salon.Salon, req *salon.UpdateProfileRequest) (*salon.Salon, error)
	ChangeStatus(ctx context.Context, s *salon.Salon, req *salon.StatusChange) (*salon.Salon, error)
}
