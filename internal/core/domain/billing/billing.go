// Package billing holds the subscription record of a salon. Payment collection
// happens elsewhere; this package only tracks which plan is in force.
package billing

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/glambooking/glambooking-api/internal/core/domain/cachekey"
	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
)

var (
	ErrNotFound    = errors.New("subscription not found")
	ErrSamePlan    = errors.New("salon is already on this plan")
	ErrInvalidPlan = errors.New("unknown plan")
)

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// PlanPriceCents is the monthly list price per plan.
var PlanPriceCents = map[salon.SubscriptionPlan]int64{
	salon.PlanFree:       0,
	salon.PlanStarter:    1900,
	salon.PlanPro:        4900,
	salon.PlanEnterprise: 14900,
}

type Subscription struct {
	ID                 uuid.UUID              `json:"id" db:"id"`
	SalonID            uuid.UUID              `json:"salon_id" db:"salon_id"`
	Plan               salon.SubscriptionPlan `json:"plan" db:"plan"`
	Status             SubscriptionStatus     `json:"status" db:"status"`
	PriceCents         int64                  `json:"price_cents" db:"price_cents"`
	CurrentPeriodStart time.Time              `json:"current_period_start" db:"current_period_start"`
	CurrentPeriodEnd   time.Time              `json:"current_period_end" db:"current_period_end"`
	CreatedAt          time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at" db:"updated_at"`
}

type Invoice struct {
	ID          uuid.UUID              `json:"id" db:"id"`
	SalonID     uuid.UUID              `json:"salon_id" db:"salon_id"`
	Plan        salon.SubscriptionPlan `json:"plan" db:"plan"`
	AmountCents int64                  `json:"amount_cents" db:"amount_cents"`
	PeriodStart time.Time              `json:"period_start" db:"period_start"`
	PeriodEnd   time.Time              `json:"period_end" db:"period_end"`
	CreatedAt   time.Time              `json:"created_at" db:"created_at"`
}

// ChangePlanRequest is an account-level event: besides billing it changes limits
// and labels that show up across the owner's cached views.
type ChangePlanRequest struct {
	Plan salon.SubscriptionPlan `json:"plan" validate:"required,oneof=free starter pro enterprise"`
}

func (ChangePlanRequest) CacheDomains() []cachekey.Domain {
	return []cachekey.Domain{cachekey.Billing, cachekey.Profile}
}
