package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
	"github.com/glambooking/glambooking-api/internal/core/ports"
	"github.com/glambooking/glambooking-api/internal/infrastructure/db"
)

const salonColumns = `id, owner_id, name, slug, description, phone, email, address, plan, status, settings, created_at, updated_at`

// SalonRepository implements the salon repository interface
type SalonRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewSalonRepository creates a new salon repository
func NewSalonRepository(database *db.Database, logger *logrus.Logger) ports.SalonRepository {
	return &SalonRepository{
		db:     database,
		logger: logger,
	}
}

// Create inserts a salon. Slug and owner are both unique.
func (r *SalonRepository) Create(ctx context.Context, s *salon.Salon) error {
	query := `
		INSERT INTO salons (id, owner_id, name, slug, description, phone, email, address, plan, status, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	settingsJSON, err := json.Marshal(s.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	_, err = r.db.DB.ExecContext(ctx, query,
		s.ID, s.OwnerID, s.Name, s.Slug, s.Description, s.Phone, s.Email, s.Address,
		s.Plan, s.Status, settingsJSON, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		switch {
		case constraintViolation(err, pqUniqueViolation, "salons_slug_key"):
			return salon.ErrSlugTaken
		case constraintViolation(err, pqUniqueViolation, "salons_owner_key"):
			return salon.ErrAlreadyOnboarded
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"salon_id": s.ID, "slug": s.Slug}).WithError(err).Error("db: failed to create salon")
		}
		return fmt.Errorf("failed to create salon: %w", err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"salon_id": s.ID, "slug": s.Slug}).Info("db: salon created")
	}

	return nil
}

// GetByID retrieves a salon by ID
func (r *SalonRepository) GetByID(ctx context.Context, id uuid.UUID) (*salon.Salon, error) {
	return r.getOne(ctx, `SELECT `+salonColumns+` FROM salons WHERE id = $1`, id)
}

// GetBySlug retrieves a salon by its public slug
func (r *SalonRepository) GetBySlug(ctx context.Context, slug string) (*salon.Salon, error) {
	return r.getOne(ctx, `SELECT `+salonColumns+` FROM salons WHERE slug = $1`, slug)
}

// GetByOwner retrieves the salon created by the given identity provider subject
func (r *SalonRepository) GetByOwner(ctx context.Context, ownerID string) (*salon.Salon, error) {
	return r.getOne(ctx, `SELECT `+salonColumns+` FROM salons WHERE owner_id = $1`, ownerID)
}

func (r *SalonRepository) getOne(ctx context.Context, query string, arg any) (*salon.Salon, error) {
	var s salon.Salon
	var settingsJSON sql.NullString

	err := r.db.DB.QueryRowContext(ctx, query, arg).Scan(
		&s.ID, &s.OwnerID, &s.Name, &s.Slug, &s.Description, &s.Phone, &s.Email, &s.Address,
		&s.Plan, &s.Status, &settingsJSON, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, salon.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}

	if settingsJSON.Valid && settingsJSON.String != "" {
		if err := json.Unmarshal([]byte(settingsJSON.String), &s.Settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings: %w", err)
		}
	}

	return &s, nil
}

// Update updates an existing salon
func (r *SalonRepository) Update(ctx context.Context, s *salon.Salon) error {
	settingsJSON, err := json.Marshal(s.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	query := `
		UPDATE salons
		SET name = $2, slug = $3, description = $4, phone = $5, email = $6, address = $7,
		    plan = $8, status = $9, settings = $10, updated_at = $11
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query,
		s.ID, s.Name, s.Slug, s.Description, s.Phone, s.Email, s.Address,
		s.Plan, s.Status, settingsJSON, s.UpdatedAt)
	if err != nil {
		if constraintViolation(err, pqUniqueViolation, "salons_slug_key") {
			return salon.ErrSlugTaken
		}
		return fmt.Errorf("failed to update salon: %w", err)
	}

	return expectRow(result, salon.ErrNotFound)
}

// Delete removes a salon and, through cascades, everything it owns
func (r *SalonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM salons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete salon: %w", err)
	}

	return expectRow(result, salon.ErrNotFound)
}

// expectRow maps a write that touched no rows to notFound.
func expectRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
