package services

import (
	"context"
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

const billingTTL = 10 * time.Minute

type BillingService struct {
	subs        ports.SubscriptionRepository
	salons      ports.SalonRepository
	cache       *cache.Cache
	invalidator ports.CacheInvalidator
	logger      *logrus.Logger
	now         func() time.Time
}

func NewBillingService(subs ports.SubscriptionRepository, salons ports.SalonRepository, c *cache.Cache, inv ports.CacheInvalidator, logger *logrus.Logger) ports.BillingService {
	return &BillingService{subs: subs, salons: salons, cache: c, invalidator: inv, logger: ensureLogger(logger), now: time.Now}
}

func (s *BillingService) GetSubscription(ctx context.Context, sl *salon.Salon) (*billing.Subscription, error) {
	return cache.Fetch(ctx, s.cache, cachekey.BillingSubscription(sl.OwnerID), func(ctx context.Context) (*billing.Subscription, error) {
		return s.subs.GetBySalon(ctx, sl.ID)
	}, billingTTL)
}

func (s *BillingService) ListInvoices(ctx context.Context, sl *salon.Salon) ([]billing.Invoice, error) {
	return cache.Fetch(ctx, s.cache, cachekey.BillingInvoices(sl.OwnerID), func(ctx context.Context) ([]billing.Invoice, error) {
		return s.subs.ListInvoices(ctx, sl.ID)
	}, billingTTL)
}

// ChangePlan switches the salon to req.Plan starting a new billing period today.
// A plan change touches every view of the account, so the owner's whole cache is swept.
func (s *BillingService) ChangePlan(ctx context.Context, sl *salon.Salon, req *billing.ChangePlanRequest) (*billing.Subscription, error) {
	price, ok := billing.PlanPriceCents[req.Plan]
	if !ok {
		return nil, fmt.Errorf("%w: %s", billing.ErrInvalidPlan, req.Plan)
	}
	sub, err := s.subs.GetBySalon(ctx, sl.ID)
	if err != nil {
		return nil, err
	}
	if sub.Plan == req.Plan {
		return nil, billing.ErrSamePlan
	}

	now := s.now()
	previous := *sub
	sub.Plan = req.Plan
	sub.PriceCents = price
	sub.Status = billing.SubscriptionActive
	sub.CurrentPeriodStart = now
	sub.CurrentPeriodEnd = now.AddDate(0, 1, 0)
	sub.UpdatedAt = now
	if err := s.subs.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}
	// From here on a row has committed, so every return clears the owner's cache.
	defer func() {
		s.invalidator.InvalidateBilling(ctx, sl.OwnerID)
		s.invalidator.InvalidateAllUser(ctx, sl.OwnerID)
	}()

	current, err := s.salons.GetByID(ctx, sl.ID)
	if err != nil {
		s.restoreSubscription(ctx, &previous)
		return nil, err
	}
	current.Plan = req.Plan
	current.UpdatedAt = now
	if err := s.salons.Update(ctx, current); err != nil {
		s.restoreSubscription(ctx, &previous)
		return nil, fmt.Errorf("failed to update salon plan: %w", err)
	}

	if price > 0 {
		inv := &billing.Invoice{
			ID:          uuid.New(),
			SalonID:     sl.ID,
			Plan:        req.Plan,
			AmountCents: price,
			PeriodStart: sub.CurrentPeriodStart,
			PeriodEnd:   sub.CurrentPeriodEnd,
			CreatedAt:   now,
		}
		if err := s.subs.CreateInvoice(ctx, inv); err != nil {
			s.logger.WithFields(logrus.Fields{"salon_id": sl.ID, "plan": req.Plan}).WithError(err).Error("failed to record invoice for plan change")
		}
	}

	s.logger.WithFields(logrus.Fields{"salon_id": sl.ID, "from": previous.Plan, "to": req.Plan}).Info("subscription plan changed")
	return sub, nil
}

// restoreSubscription puts back the subscription row when the salon row could not follow
// it, so subscription and salon agree on the plan and the change can be retried.
func (s *BillingService) restoreSubscription(ctx context.Context, previous *billing.Subscription) {
	if err := s.subs.Update(context.WithoutCancel(ctx), previous); err != nil {
		s.logger.WithFields(logrus.Fields{"salon_id": previous.SalonID, "plan": previous.Plan}).WithError(err).
			Error("failed to restore subscription after salon plan update failed")
	}
}
