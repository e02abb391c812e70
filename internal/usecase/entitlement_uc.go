package usecase

import (
	"context"

	"memorial-platform/internal/domain/model"
	"memorial-platform/internal/domain/ports/repository"
	"memorial-platform/internal/infra/metrics"
)

// PlanSetCache memoizes effective plan sets per principal. Implemented by
// the Redis cache; tests use in-memory fakes.
type PlanSetCache interface {
	Get(ctx context.Context, principalID string) (model.PlanSet, bool)
	Put(ctx context.Context, principalID string, set model.PlanSet)
	Invalidate(ctx context.Context, principalID string)
}

// EntitlementUseCase answers capability and limit queries for a principal.
// The evaluation itself is pure (model.PlanSet); this layer only resolves
// which plans the principal currently holds.
type EntitlementUseCase struct {
	subs  repository.SubscriptionRepository
	cache PlanSetCache // nil disables caching
}

func NewEntitlementUseCase(subs repository.SubscriptionRepository, cache PlanSetCache) *EntitlementUseCase {
	return &EntitlementUseCase{subs: subs, cache: cache}
}

// PlanSetFor resolves the principal's effective plan set: distinct plan keys
// across subscription records in active or trialing status. An empty or
// unknown principal yields the empty set, which denies everything.
func (uc *EntitlementUseCase) PlanSetFor(ctx context.Context, principalID string) (model.PlanSet, error) {
	if principalID == "" {
		return model.PlanSet{}, nil
	}
	if uc.cache != nil {
		if set, ok := uc.cache.Get(ctx, principalID); ok {
			return set, nil
		}
	}
	subs, err := uc.subs.ListByPrincipal(ctx, nil, principalID)
	if err != nil {
		return nil, err
	}
	set := model.EffectivePlanSet(subs)
	if uc.cache != nil {
		uc.cache.Put(ctx, principalID, set)
	}
	return set, nil
}

// CanAccess reports whether any held plan grants the feature. Lookup
// failures deny access rather than leak entitlements.
func (uc *EntitlementUseCase) CanAccess(ctx context.Context, principalID string, f model.Feature) (bool, error) {
	set, err := uc.PlanSetFor(ctx, principalID)
	if err != nil {
		metrics.IncEntitlementCheck(f, false)
		return false, err
	}
	allowed := set.CanAccess(f)
	metrics.IncEntitlementCheck(f, allowed)
	return allowed, nil
}

func (uc *EntitlementUseCase) PhotoLimit(ctx context.Context, principalID string) (model.Limit, error) {
	set, err := uc.PlanSetFor(ctx, principalID)
	if err != nil {
		return model.Limit{}, err
	}
	return set.PhotoLimit(), nil
}

func (uc *EntitlementUseCase) MemorialLimit(ctx context.Context, principalID string) (model.Limit, error) {
	set, err := uc.PlanSetFor(ctx, principalID)
	if err != nil {
		return model.Limit{}, err
	}
	return set.MemorialLimit(), nil
}

func (uc *EntitlementUseCase) IsPaid(ctx context.Context, principalID string) (bool, error) {
	set, err := uc.PlanSetFor(ctx, principalID)
	if err != nil {
		return false, err
	}
	return set.IsPaid(), nil
}
