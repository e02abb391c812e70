package usecase

import (
	"context"
	"time"

	"memorial-platform/internal/domain"
	"memorial-platform/internal/domain/model"
	"memorial-platform/internal/domain/ports/repository"
	"memorial-platform/internal/infra/metrics"
)

// SubscriptionUseCase exposes the plan-grant read model and the few
// mutations this service owns (cancel, expire). Everything else that flips
// grant status lives with external collaborators.
type SubscriptionUseCase struct {
	subs  repository.SubscriptionRepository
	cache PlanSetCache // nil disables invalidation
}

func NewSubscriptionUseCase(subs repository.SubscriptionRepository, cache PlanSetCache) *SubscriptionUseCase {
	return &SubscriptionUseCase{subs: subs, cache: cache}
}

func (uc *SubscriptionUseCase) ListByPrincipal(ctx context.Context, principalID string) ([]*model.Subscription, error) {
	if principalID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return uc.subs.ListByPrincipal(ctx, nil, principalID)
}

func (uc *SubscriptionUseCase) Get(ctx context.Context, id string) (*model.Subscription, error) {
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}
	return uc.subs.FindByID(ctx, nil, id)
}

// Cancel moves an entitling grant to cancelled. Only the owner may cancel,
// and a grant that is already cancelled or expired stays as it is.
func (uc *SubscriptionUseCase) Cancel(ctx context.Context, principalID, id string) (*model.Subscription, error) {
	if principalID == "" || id == "" {
		return nil, domain.ErrInvalidArgument
	}
	sub, err := uc.subs.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if sub.PrincipalID != principalID {
		return nil, domain.ErrNotFound
	}
	if !sub.Status.Entitling() {
		return nil, domain.ErrInvalidTransition
	}
	sub.Status = model.SubscriptionStatusCancelled
	if err := uc.subs.Save(ctx, nil, sub); err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, principalID)
	}
	return sub, nil
}

// FinishExpired marks active grants past their end date as expired and
// returns how many were touched. Called by the expiry worker.
func (uc *SubscriptionUseCase) FinishExpired(ctx context.Context) (int, error) {
	n, err := uc.subs.ExpireDue(ctx, nil, time.Now())
	if err != nil {
		return 0, err
	}
	return n, nil
}

// RefreshGauges publishes the current subscription census.
func (uc *SubscriptionUseCase) RefreshGauges(ctx context.Context) error {
	counts, err := uc.subs.CountByStatus(ctx, nil)
	if err != nil {
		return err
	}
	metrics.SetSubscriptionsTotal(counts)
	return nil
}
