package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/glambooking/glambooking-api/internal/core/domain/client"
	"github.com/glambooking/glambooking-api/internal/core/ports"
	"github.com/glambooking/glambooking-api/internal/infrastructure/db"
)

const clientEmailIndex = "clients_salon_email_key"

// ClientRepository stores a salon's customers. Emails are unique per salon, case-insensitively.
type ClientRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewClientRepository(database *db.Database, logger *logrus.Logger) ports.ClientRepository {
	return &ClientRepository{db: database, logger: logger}
}

func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	query := `
		INSERT INTO clients (id, salon_id, name, email, phone, notes, created_at, updated_at)
		VALUES (:id, :salon_id, :name, :email, :phone, :notes, :created_at, :updated_at)`

	if _, err := r.db.DB.NamedExecContext(ctx, query, c); err != nil {
		if constraintViolation(err, pqUniqueViolation, clientEmailIndex) {
			return client.ErrEmailTaken
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"salon_id": c.SalonID, "client_id": c.ID}).WithError(err).Error("db: failed to create client")
		}
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *ClientRepository) GetByID(ctx context.Context, salonID, id uuid.UUID) (*client.Client, error) {
	return r.getOne(ctx, `
		SELECT id, salon_id, name, email, phone, notes, created_at, updated_at
		FROM clients
		WHERE salon_id = $1 AND id = $2`, salonID, id)
}

func (r *ClientRepository) GetByEmail(ctx context.Context, salonID uuid.UUID, email string) (*client.Client, error) {
	return r.getOne(ctx, `
		SELECT id, salon_id, name, email, phone, notes, created_at, updated_at
		FROM clients
		WHERE salon_id = $1 AND lower(email) = lower($2)`, salonID, email)
}

func (r *ClientRepository) getOne(ctx context.Context, query string, args ...any) (*client.Client, error) {
	var c client.Client
	if err := r.db.DB.GetContext(ctx, &c, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, client.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &c, nil
}

func (r *ClientRepository) ListBySalon(ctx context.Context, salonID uuid.UUID) ([]client.Client, error) {
	clients := []client.Client{}
	query := `
		SELECT id, salon_id, name, email, phone, notes, created_at, updated_at
		FROM clients
		WHERE salon_id = $1
		ORDER BY name`

	if err := r.db.DB.SelectContext(ctx, &clients, query, salonID); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (r *ClientRepository) CountBySalon(ctx context.Context, salonID uuid.UUID) (int, error) {
	var count int
	if err := r.db.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM clients WHERE salon_id = $1`, salonID); err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return count, nil
}

func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	query := `
		UPDATE clients
		SET name = :name, email = :email, phone = :phone, notes = :notes, updated_at = :updated_at
		WHERE salon_id = :salon_id AND id = :id`

	result, err := r.db.DB.NamedExecContext(ctx, query, c)
	if err != nil {
		if constraintViolation(err, pqUniqueViolation, clientEmailIndex) {
			return client.ErrEmailTaken
		}
		return fmt.Errorf("failed to update client: %w", err)
	}
	return expectRow(result, client.ErrNotFound)
}

func (r *ClientRepository) Delete(ctx context.Context, salonID, id uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM clients WHERE salon_id = $1 AND id = $2`, salonID, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return expectRow(result, client.ErrNotFound)
}
