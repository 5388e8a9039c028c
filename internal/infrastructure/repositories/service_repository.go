package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/glambooking/glambooking-api/internal/core/domain/catalog"
	"github.com/glambooking/glambooking-api/internal/core/ports"
	"github.com/glambooking/glambooking-api/internal/infrastructure/db"
)

// ServiceRepository stores the salon's catalog of bookable services.
type ServiceRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewServiceRepository(database *db.Database, logger *logrus.Logger) ports.ServiceRepository {
	return &ServiceRepository{db: database, logger: logger}
}

func (r *ServiceRepository) Create(ctx context.Context, svc *catalog.Service) error {
	query := `
		INSERT INTO services (id, salon_id, name, description, duration_minutes, price_cents, active, created_at, updated_at)
		VALUES (:id, :salon_id, :name, :description, :duration_minutes, :price_cents, :active, :created_at, :updated_at)`

	if _, err := r.db.DB.NamedExecContext(ctx, query, svc); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"salon_id": svc.SalonID, "service_id": svc.ID}).WithError(err).Error("db: failed to create service")
		}
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, salonID, id uuid.UUID) (*catalog.Service, error) {
	var svc catalog.Service
	query := `
		SELECT id, salon_id, name, description, duration_minutes, price_cents, active, created_at, updated_at
		FROM services
		WHERE salon_id = $1 AND id = $2`

	if err := r.db.DB.GetContext(ctx, &svc, query, salonID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &svc, nil
}

// ListBySalon returns services ordered by name. activeOnly hides retired services.
func (r *ServiceRepository) ListBySalon(ctx context.Context, salonID uuid.UUID, activeOnly bool) ([]catalog.Service, error) {
	services := []catalog.Service{}
	query := `
		SELECT id, salon_id, name, description, duration_minutes, price_cents, active, created_at, updated_at
		FROM services
		WHERE salon_id = $1 AND (active OR NOT $2)
		ORDER BY name`

	if err := r.db.DB.SelectContext(ctx, &services, query, salonID, activeOnly); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (r *ServiceRepository) Update(ctx context.Context, svc *catalog.Service) error {
	query := `
		UPDATE services
		SET name = :name, description = :description, duration_minutes = :duration_minutes,
		    price_cents = :price_cents, active = :active, updated_at = :updated_at
		WHERE salon_id = :salon_id AND id = :id`

	result, err := r.db.DB.NamedExecContext(ctx, query, svc)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	return expectRow(result, catalog.ErrNotFound)
}

func (r *ServiceRepository) Delete(ctx context.Context, salonID, id uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM services WHERE salon_id = $1 AND id = $2`, salonID, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return expectRow(result, catalog.ErrNotFound)
}
