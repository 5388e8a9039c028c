package salon

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/glambooking/glambooking-api/internal/core/domain/cachekey"
)

var (
	ErrNotFound          = errors.New("salon not found")
	ErrSlugTaken         = errors.New("slug is already taken")
	ErrAlreadyOnboarded  = errors.New("owner already has a salon")
	ErrInactive          = errors.New("salon is not active")
	ErrInvalidTransition = errors.New("invalid salon status transition")
)

// Salon is the tenant. OwnerID is the identity provider subject of the account that
// created it; every cache key for the salon's private data is scoped by it.
type Salon struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	OwnerID     string           `json:"owner_id" db:"owner_id"`
	Name        string           `json:"name" db:"name"`
	Slug        string           `json:"slug" db:"slug"`
	Description string           `json:"description" db:"description"`
	Phone       string           `json:"phone" db:"phone"`
	Email       string           `json:"email" db:"email"`
	Address     string           `json:"address" db:"address"`
	Plan        SubscriptionPlan `json:"plan" db:"plan"`
	Status      Status           `json:"status" db:"status"`
	Settings    Settings         `json:"settings" db:"settings"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

// Owner returns the cache owner for this salon.
func (s *Salon) Owner() cachekey.Owner {
	return cachekey.Owner{UserID: s.OwnerID, SalonID: s.ID.String()}
}

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusCanceled  Status = "canceled"
)

// ValidTransitions returns the statuses reachable from ts.
func (ts Status) ValidTransitions() []Status {
	switch ts {
	case StatusActive:
		return []Status{StatusSuspended, StatusCanceled}
	case StatusSuspended:
		return []Status{StatusActive, StatusCanceled}
	default:
		return []Status{}
	}
}

func (ts Status) IsValidTransition(next Status) bool {
	return slices.Contains(ts.ValidTransitions(), next)
}

// CanAccess reports whether the salon accepts dashboard writes and public bookings.
func (s *Salon) CanAccess() bool {
	return s.Status == StatusActive
}

func (s *Salon) CanTransitionTo(next Status) bool {
	return s.Status.IsValidTransition(next)
}

type SubscriptionPlan string

const (
	PlanFree       SubscriptionPlan = "free"
	PlanStarter    SubscriptionPlan = "starter"
	PlanPro        SubscriptionPlan = "pro"
	PlanEnterprise SubscriptionPlan = "enterprise"
)

func (p SubscriptionPlan) Valid() bool {
	switch p {
	case PlanFree, PlanStarter, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

type Settings struct {
	Timezone         string         `json:"timezone"`
	Currency         string         `json:"currency"`
	MinNoticeMinutes int            `json:"min_notice_minutes"`
	Customization    map[string]any `json:"customization,omitempty"`
}

// Profile is the owner's view of their account. Salon is nil until onboarding.
type Profile struct {
	UserID string `json:"user_id"`
	Salon  *Salon `json:"salon"`
}

// PublicService is the subset of a catalog entry shown on the booking page.
type PublicService struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCents      int64     `json:"price_cents"`
}

// PublicPage is what anonymous visitors see at /public/salons/:slug.
type PublicPage struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	Timezone    string          `json:"timezone"`
	Currency    string          `json:"currency"`
	Services    []PublicService `json:"services"`
}

// CreateSalonRequest onboards the calling account.
type CreateSalonRequest struct {
	Name        string    `json:"name" validate:"required,max=120"`
	Slug        string    `json:"slug" validate:"required,slug,max=64"`
	Description string    `json:"description" validate:"max=2000"`
	Phone       string    `json:"phone" validate:"omitempty,e164"`
	Email       string    `json:"email" validate:"omitempty,email"`
	Address     string    `json:"address"`
	Settings    *Settings `json:"settings,omitempty"`
}

// A fresh salon replaces whatever the account's cached profile said (usually "no salon").
func (CreateSalonRequest) CacheDomains() []cachekey.Domain {
	return []cachekey.Domain{cachekey.Profile, cachekey.Billing}
}

type UpdateProfileRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,max=120"`
	Slug        *string   `json:"slug,omitempty" validate:"omitempty,slug,max=64"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Phone       *string   `json:"phone,omitempty" validate:"omitempty,e164"`
	Email       *string   `json:"email,omitempty" validate:"omitempty,email"`
	Address     *string   `json:"address,omitempty"`
	Settings    *Settings `json:"settings,omitempty"`
}

func (UpdateProfileRequest) CacheDomains() []cachekey.Domain {
	return []cachekey.Domain{cachekey.Profile}
}

// StatusChange moves a salon through its lifecycle.
type StatusChange struct {
	Status Status `json:"status" validate:"required,oneof=active suspended canceled"`
}

// Status affects both the private profile and whether the public page is served.
func (StatusChange) CacheDomains() []cachekey.Domain {
	return []cachekey.Domain{cachekey.Profile, cachekey.Dashboard}
}
