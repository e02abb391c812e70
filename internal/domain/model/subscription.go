package model

import (
	"time"

	"memorial-platform/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusTrialing  SubscriptionStatus = "trialing"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// Entitling reports whether a subscription in this status contributes its
// plan to the principal's effective plan set.
func (s SubscriptionStatus) Entitling() bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusTrialing
}

// Subscription is one principal's grant of a plan over time. A principal may
// own several concurrently, one per purchased plan.
type Subscription struct {
	ID          string // UUID
	PrincipalID string
	PlanKey     PlanKey
	Status      SubscriptionStatus
	StartDate   time.Time
	EndDate     *time.Time // nil for open-ended grants
	AutoRenew   bool
	CreatedAt   time.Time
}

// NewSubscription validates and constructs an active grant starting now.
func NewSubscription(id, principalID string, plan PlanKey, endDate *time.Time, autoRenew bool) (*Subscription, error) {
	if id == "" || principalID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if !KnownPlanKey(plan) || CanonicalPlanKey(plan) == PlanFree {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Subscription{
		ID:          id,
		PrincipalID: principalID,
		PlanKey:     CanonicalPlanKey(plan),
		Status:      SubscriptionStatusActive,
		StartDate:   now,
		EndDate:     endDate,
		AutoRenew:   autoRenew,
		CreatedAt:   now,
	}, nil
}

// ExpiredBy reports whether the grant's end date has passed at instant now.
// Open-ended grants never expire.
func (s *Subscription) ExpiredBy(now time.Time) bool {
	return s.EndDate != nil && s.EndDate.Before(now)
}

// EffectivePlanSet derives the entitlement input from a principal's
// subscription records: the distinct plan keys whose status is active or
// trialing. Cancelled and expired rows contribute nothing even while they
// still exist.
func EffectivePlanSet(subs []*Subscription) PlanSet {
	set := make(PlanSet)
	for _, s := range subs {
		if s != nil && s.Status.Entitling() {
			set[CanonicalPlanKey(s.PlanKey)] = true
		}
	}
	return set
}
