package repository

import (
	"context"
	"time"

	"memorial-platform/internal/domain/model"
)

// SubscriptionRepository is the port for plan-grant persistence.
type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, sub *model.Subscription) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Subscription, error)
	ListByPrincipal(ctx context.Context, tx Tx, principalID string) ([]*model.Subscription, error)

	// FindEntitlingByPrincipalAndPlan returns the active-or-trialing grant
	// for one plan, or domain.ErrNotFound. Used by the grant flow to extend
	// rather than duplicate.
	FindEntitlingByPrincipalAndPlan(ctx context.Context, tx Tx, principalID string, plan model.PlanKey) (*model.Subscription, error)

	// ExpireDue marks active grants whose end date precedes now as expired
	// and returns how many rows changed.
	ExpireDue(ctx context.Context, tx Tx, now time.Time) (int, error)

	// CountByStatus feeds the subscriptions gauge.
	CountByStatus(ctx context.Context, tx Tx) (map[model.SubscriptionStatus]int, error)
}
