package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/glambooking/glambooking-api/internal/core/domain/catalog"
	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
)

type ServiceRepository interface {
	Create(ctx context.Context, svc *catalog.Service) error
	GetByID(ctx context.Context, salonID, id uuid.UUID) (*catalog.Service, error)
	ListBySalon(ctx context.Context, salonID uuid.UUID, activeOnly bool) ([]catalog.Service, error)
	Update(ctx context.Context, svc *catalog.Service) error
	Delete(ctx context.Context, salonID, id uuid.UUID) error
}

type CatalogService interface {
	List(ctx context.Context, s *salon.Salon) ([]catalog.Service, error)
	Create(ctx context.Context, s *salon.Salon, req *catalog.CreateServiceRequest) (*catalog.Service, error)
	Update(ctx context.Context, s *salon.Salon, id uuid.UUID, req *catalog.UpdateServiceRequest) (*catalog.Service, error)
	Delete(ctx context.Context, s *salon.Salon, id uuid.UUID) error
}
