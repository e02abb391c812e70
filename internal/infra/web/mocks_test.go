package web

import (
	"context"
	"sync"
	"time"

	"memorial-platform/internal/domain"
	"memorial-platform/internal/domain/model"
	"memorial-platform/internal/domain/ports/repository"
)

// In-memory ports so handler tests run against the real use cases without a
// database.

type memTxRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Transaction
}

func newMemTxRepo() *memTxRepo {
	return &memTxRepo{store: make(map[string]*model.Transaction)}
}

func (m *memTxRepo) Save(ctx context.Context, tx repository.Tx, t *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.store[t.ID] = &cp
	return nil
}

func (m *memTxRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTxRepo) ListByPrincipal(ctx context.Context, tx repository.Tx, principalID string) ([]*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Transaction
	for _, t := range m.store {
		if t.PrincipalID == principalID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memTxRepo) ListByStatus(ctx context.Context, tx repository.Tx, status model.TransactionStatus, limit int) ([]*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Transaction
	for _, t := range m.store {
		if t.Status == status {
			cp := *t
			out = append(out, &cp)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memTxRepo) UpdateStatusFromPending(ctx context.Context, tx repository.Tx, id string, status model.TransactionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	if t.Status != model.TransactionStatusPending {
		return domain.ErrInvalidTransition
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	return nil
}

func (m *memTxRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.TransactionStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[model.TransactionStatus]int)
	for _, t := range m.store {
		counts[t.Status]++
	}
	return counts, nil
}

type memSubRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Subscription
}

func newMemSubRepo() *memSubRepo {
	return &memSubRepo{store: make(map[string]*model.Subscription)}
}

func (m *memSubRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.ID] = &cp
	return nil
}

func (m *memSubRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSubRepo) ListByPrincipal(ctx context.Context, tx repository.Tx, principalID string) ([]*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Subscription
	for _, s := range m.store {
		if s.PrincipalID == principalID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memSubRepo) FindEntitlingByPrincipalAndPlan(ctx context.Context, tx repository.Tx, principalID string, plan model.PlanKey) (*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.store {
		if s.PrincipalID == principalID && model.CanonicalPlanKey(s.PlanKey) == model.CanonicalPlanKey(plan) && s.Status.Entitling() {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memSubRepo) ExpireDue(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.store {
		if s.Status == model.SubscriptionStatusActive && s.ExpiredBy(now) {
			s.Status = model.SubscriptionStatusExpired
			n++
		}
	}
	return n, nil
}

func (m *memSubRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[model.SubscriptionStatus]int)
	for _, s := range m.store {
		counts[s.Status]++
	}
	return counts, nil
}

// denyAllLimiter refuses every submission, for the 429 path.
type denyAllLimiter struct{}

func (denyAllLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return false, nil
}
