package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"memorial-platform/internal/domain/model"
)

func seedSub(t *testing.T, subs *memSubscriptionRepo, id, principal string, plan model.PlanKey, status model.SubscriptionStatus) {
	t.Helper()
	err := subs.Save(context.Background(), nil, &model.Subscription{
		ID:          id,
		PrincipalID: principal,
		PlanKey:     plan,
		Status:      status,
		StartDate:   time.Now(),
		CreatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
}

func TestPlanSetForUnionsEntitlingGrants(t *testing.T) {
	t.Parallel()

	subs := newMemSubscriptionRepo()
	seedSub(t, subs, "s1", "p-1", model.PlanEternalEcho, model.SubscriptionStatusActive)
	seedSub(t, subs, "s2", "p-1", model.PlanPaws, model.SubscriptionStatusTrialing)
	seedSub(t, subs, "s3", "p-1", model.PlanPaws, model.SubscriptionStatusCancelled)
	seedSub(t, subs, "s4", "p-2", model.PlanPaws, model.SubscriptionStatusActive)

	uc := NewEntitlementUseCase(subs, nil)
	set, err := uc.PlanSetFor(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("PlanSetFor: %v", err)
	}
	if len(set) != 2 || !set[model.PlanEternalEcho] || !set[model.PlanPaws] {
		t.Fatalf("unexpected plan set: %v", set)
	}
}

func TestPlanSetForEmptyPrincipal(t *testing.T) {
	t.Parallel()

	uc := NewEntitlementUseCase(newMemSubscriptionRepo(), nil)

	set, err := uc.PlanSetFor(context.Background(), "")
	if err != nil {
		t.Fatalf("PlanSetFor: %v", err)
	}
	if len(set) != 0 {
		t.Fatalf("absent principal must hold no plans, got %v", set)
	}

	for _, f := range model.AllFeatures {
		allowed, err := uc.CanAccess(context.Background(), "", f)
		if err != nil || allowed {
			t.Fatalf("planless principal must be denied %q (err=%v)", f, err)
		}
	}

	limit, err := uc.PhotoLimit(context.Background(), "")
	if err != nil || limit.Unlimited || limit.N != 3 {
		t.Fatalf("default photo limit must be 3, got %+v err=%v", limit, err)
	}
	mLimit, err := uc.MemorialLimit(context.Background(), "")
	if err != nil || mLimit.Unlimited || mLimit.N != 1 {
		t.Fatalf("default memorial limit must be 1, got %+v err=%v", mLimit, err)
	}
}

func TestEntitlementLookupFailureDenies(t *testing.T) {
	t.Parallel()

	subs := newMemSubscriptionRepo()
	subs.listErr = errors.New("db down")
	uc := NewEntitlementUseCase(subs, nil)

	allowed, err := uc.CanAccess(context.Background(), "p-1", model.FeaturePublishPublic)
	if err == nil {
		t.Fatal("expected lookup error to propagate")
	}
	if allowed {
		t.Fatal("lookup failure must deny access")
	}
}

func TestEntitlementUsesCache(t *testing.T) {
	t.Parallel()

	subs := newMemSubscriptionRepo()
	seedSub(t, subs, "s1", "p-1", model.PlanPaws, model.SubscriptionStatusActive)
	cache := newMemPlanSetCache()
	uc := NewEntitlementUseCase(subs, cache)

	// First call populates the cache.
	if _, err := uc.PlanSetFor(context.Background(), "p-1"); err != nil {
		t.Fatalf("PlanSetFor: %v", err)
	}
	if _, ok := cache.Get(context.Background(), "p-1"); !ok {
		t.Fatal("plan set must be cached after first resolution")
	}

	// Second call is served from the cache even if the store breaks.
	subs.listErr = errors.New("db down")
	set, err := uc.PlanSetFor(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("cached PlanSetFor: %v", err)
	}
	if !set[model.PlanPaws] {
		t.Fatalf("cached set mismatch: %v", set)
	}
}

func TestIsPaidThroughUseCase(t *testing.T) {
	t.Parallel()

	subs := newMemSubscriptionRepo()
	seedSub(t, subs, "s1", "payer", model.PlanEternalEcho, model.SubscriptionStatusActive)
	uc := NewEntitlementUseCase(subs, nil)

	paid, err := uc.IsPaid(context.Background(), "payer")
	if err != nil || !paid {
		t.Fatalf("expected paid principal, got %v err=%v", paid, err)
	}
	paid, err = uc.IsPaid(context.Background(), "stranger")
	if err != nil || paid {
		t.Fatalf("unknown principal must not be paid, got %v err=%v", paid, err)
	}
}
