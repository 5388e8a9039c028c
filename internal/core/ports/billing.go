package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/glambooking/glambooking-api/internal/core/domain/billing"
	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *billing.Subscription) error
	GetBySalon(ctx context.Context, salonID uuid.UUID) (*billing.Subscription, error)
	Update(ctx context.Context, sub *billing.Subscription) error
	CreateInvoice(ctx context.Context, inv *billing.Invoice) error
	ListInvoices(ctx context.Context, salonID uuid.UUID) ([]billing.Invoice, error)
}

type BillingService interface {
	GetSubscription(ctx context.Context, s *salon.Salon) (*billing.Subscription, error)
	ListInvoices(ctx context.Context, s *salon.Salon) ([]billing.Invoice, error)
	ChangePlan(ctx context.Context, s *salon.Salon, req *billing.ChangePlanRequest) (*billing.Subscription, error)
}
