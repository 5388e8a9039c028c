package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/glambooking/glambooking-api/internal/core/domain/client"
	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
)

type ClientRepository interface {
	Create(ctx context.Context, c *client.Client) error
	GetByID(ctx context.Context, salonID, id uuid.UUID) (*client.Client, error)
	GetByEmail(ctx context.Context, salonID uuid.UUID, email string) (*client.Client, error)
	ListBySalon(ctx context.Context, salonID uuid.UUID) ([]client.Client, error)
	CountBySalon(ctx context.Context, salonID uuid.UUID) (int, error)
	Update(ctx context.Context, c *client.Client) error
	Delete(ctx context.Context, salonID, id uuid.UUID) error
}

type ClientService interface {
	List(ctx context.Context, s *salon.Salon) ([]client.Client, error)
	Count(ctx context.Context, s *salon.Salon) (int, error)
	Create(ctx context.Context, s *salon.Salon, req *client.CreateClientRequest) (*client.Client, error)
	Update(ctx context.Context, s *salon.Salon, id uuid.UUID, req *client.UpdateClientRequest) (*client.Client, error)
	Delete(ctx context.Context, s *salon.Salon, id uuid.UUID) error
}
