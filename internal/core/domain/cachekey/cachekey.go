// Package cachekey is the single registry of cache keys used by the application.
//
// Every owner-scoped key has the shape "<namespace>:<ownerID>:<label>", which is what lets
// a wildcard over the owner segment ("*:<ownerID>:*") find all of an owner's entries.
// Keys built anywhere else escape invalidation, so consumers must go through the
// builders in this package.
package cachekey

import (
	"fmt"
	"strings"
)

// Domain is a closed set of cached areas of the application.
type Domain int

const (
	Dashboard Domain = iota + 1
	Billing
	Booking
	Client
	Catalog
	Profile
)

var domainNames = map[Domain]string{
	Dashboard: "dashboard",
	Billing:   "billing",
	Booking:   "booking",
	Client:    "client",
	Catalog:   "catalog",
	Profile:   "profile",
}

func (d Domain) String() string {
	if n, ok := domainNames[d]; ok {
		return n
	}
	return fmt.Sprintf("domain(%d)", int(d))
}

// Domains returns every registered domain in declaration order.
func Domains() []Domain {
	return []Domain{Dashboard, Billing, Booking, Client, Catalog, Profile}
}

// Owner identifies the tenant whose entries are being read or invalidated.
// SalonID is optional; keys that need it are skipped when it is empty.
type Owner struct {
	UserID  string
	SalonID string
}

// ForUser is shorthand for an Owner without a salon.
func ForUser(userID string) Owner { return Owner{UserID: userID} }

// Mutation is implemented by request types that change cached state.
// It declares which domains must be invalidated once the write commits.
type Mutation interface {
	CacheDomains() []Domain
}

// Mutates is a ready-made Mutation for call sites without a request type.
type Mutates []Domain

func (m Mutates) CacheDomains() []Domain { return m }

const (
	nsDashboard = "dashboard"
	nsBilling   = "billing"
	nsBookings  = "bookings"
	nsClients   = "clients"
	nsServices  = "services"
	nsUser      = "user"
	nsSalon     = "salon"
)

func ownerKey(ns, ownerID, label string) string {
	return ns + ":" + ownerID + ":" + label
}

func DashboardSummary(userID string) string  { return ownerKey(nsDashboard, userID, "summary") }
func DashboardRevenue(userID string) string  { return ownerKey(nsDashboard, userID, "revenue") }
func DashboardUpcoming(userID string) string { return ownerKey(nsDashboard, userID, "upcoming") }

func BillingSubscription(userID string) string { return ownerKey(nsBilling, userID, "subscription") }
func BillingInvoices(userID string) string     { return ownerKey(nsBilling, userID, "invoices") }

func BookingList(userID string) string     { return ownerKey(nsBookings, userID, "list") }
func BookingUpcoming(userID string) string { return ownerKey(nsBookings, userID, "upcoming") }

func ClientList(userID string) string  { return ownerKey(nsClients, userID, "list") }
func ClientCount(userID string) string { return ownerKey(nsClients, userID, "count") }

func ServiceList(userID string) string { return ownerKey(nsServices, userID, "list") }

func UserProfile(userID string) string  { return ownerKey(nsUser, userID, "profile") }
func UserSettings(userID string) string { return ownerKey(nsUser, userID, "settings") }

// SalonPublic is keyed by salon rather than owner; the public booking page has no
// logged-in user. It is reached through the Profile and Catalog domains.
func SalonPublic(salonID string) string { return ownerKey(nsSalon, salonID, "public") }

type entry struct {
	keys     func(o Owner) []string
	cascades []Domain
}

var registry = map[Domain]entry{
	Dashboard: {keys: func(o Owner) []string {
		return []string{DashboardSummary(o.UserID), DashboardRevenue(o.UserID), DashboardUpcoming(o.UserID)}
	}},
	Billing: {keys: func(o Owner) []string {
		return []string{BillingSubscription(o.UserID), BillingInvoices(o.UserID)}
	}},
	Booking: {
		keys: func(o Owner) []string {
			return []string{BookingList(o.UserID), BookingUpcoming(o.UserID)}
		},
		cascades: []Domain{Dashboard},
	},
	Client: {
		keys: func(o Owner) []string {
			return []string{ClientList(o.UserID), ClientCount(o.UserID)}
		},
		cascades: []Domain{Dashboard},
	},
	Catalog: {keys: func(o Owner) []string {
		keys := []string{ServiceList(o.UserID)}
		if o.SalonID != "" {
			keys = append(keys, SalonPublic(o.SalonID))
		}
		return keys
	}},
	Profile: {keys: func(o Owner) []string {
		keys := []string{UserProfile(o.UserID), UserSettings(o.UserID)}
		if o.SalonID != "" {
			keys = append(keys, SalonPublic(o.SalonID))
		}
		return keys
	}},
}

// Cascades returns the domains directly invalidated alongside d.
func Cascades(d Domain) []Domain {
	return registry[d].cascades
}

// Expand returns domains plus everything they cascade into, without duplicates,
// preserving first-seen order.
func Expand(domains ...Domain) []Domain {
	seen := make(map[Domain]bool, len(domains))
	var out []Domain
	var visit func(d Domain)
	visit = func(d Domain) {
		if seen[d] {
			return
		}
		if _, ok := registry[d]; !ok {
			return
		}
		seen[d] = true
		out = append(out, d)
		for _, c := range registry[d].cascades {
			visit(c)
		}
	}
	for _, d := range domains {
		visit(d)
	}
	return out
}

// KeysFor returns the deduplicated keys of the given domains and their cascades.
// An owner without a UserID yields no keys.
func KeysFor(o Owner, domains ...Domain) []string {
	if o.UserID == "" {
		return nil
	}
	seen := make(map[string]bool)
	var keys []string
	for _, d := range Expand(domains...) {
		for _, k := range registry[d].keys(o) {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// AllUserPatterns is the coarse sweep used for account-level events.
// The patterns overlap; all of them are kept on purpose.
func AllUserPatterns(userID string) []string {
	if userID == "" {
		return nil
	}
	id := globEscaper.Replace(userID)
	return []string{
		"*:" + id + ":*",
		nsUser + ":" + id + ":*",
		nsDashboard + ":" + id + "*",
		nsBilling + ":" + id + "*",
	}
}

// globEscaper quotes glob metacharacters so an owner id only ever matches itself.
var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
