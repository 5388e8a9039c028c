package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/glambooking/glambooking-api/internal/core/domain/billing"
	"github.com/glambooking/glambooking-api/internal/core/ports"
	"github.com/glambooking/glambooking-api/internal/infrastructure/db"
)

// SubscriptionRepository stores one subscription per salon plus its invoice history.
type SubscriptionRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewSubscriptionRepository(database *db.Database, logger *logrus.Logger) ports.SubscriptionRepository {
	return &SubscriptionRepository{db: database, logger: logger}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *billing.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, salon_id, plan, status, price_cents, current_period_start, current_period_end, created_at, updated_at)
		VALUES (:id, :salon_id, :plan, :status, :price_cents, :current_period_start, :current_period_end, :created_at, :updated_at)`

	if _, err := r.db.DB.NamedExecContext(ctx, query, sub); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"salon_id": sub.SalonID, "plan": sub.Plan}).WithError(err).Error("db: failed to create subscription")
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) GetBySalon(ctx context.Context, salonID uuid.UUID) (*billing.Subscription, error) {
	var sub billing.Subscription
	query := `
		SELECT id, salon_id, plan, status, price_cents, current_period_start, current_period_end, created_at, updated_at
		FROM subscriptions
		WHERE salon_id = $1`

	if err := r.db.DB.GetContext(ctx, &sub, query, salonID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, billing.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &sub, nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *billing.Subscription) error {
	query := `
		UPDATE subscriptions
		SET plan = :plan, status = :status, price_cents = :price_cents,
		    current_period_start = :current_period_start, current_period_end = :current_period_end,
		    updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.DB.NamedExecContext(ctx, query, sub)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	return expectRow(result, billing.ErrNotFound)
}

func (r *SubscriptionRepository) CreateInvoice(ctx context.Context, inv *billing.Invoice) error {
	query := `
		INSERT INTO invoices (id, salon_id, plan, amount_cents, period_start, period_end, created_at)
		VALUES (:id, :salon_id, :plan, :amount_cents, :period_start, :period_end, :created_at)`

	if _, err := r.db.DB.NamedExecContext(ctx, query, inv); err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

// ListInvoices returns the newest invoices first.
func (r *SubscriptionRepository) ListInvoices(ctx context.Context, salonID uuid.UUID) ([]billing.Invoice, error) {
	invoices := []billing.Invoice{}
	query := `
		SELECT id, salon_id, plan, amount_cents, period_start, period_end, created_at
		FROM invoices
		WHERE salon_id = $1
		ORDER BY created_at DESC`

	if err := r.db.DB.SelectContext(ctx, &invoices, query, salonID); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}
