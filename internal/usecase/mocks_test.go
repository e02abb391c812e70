package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"

	"memorial-platform/internal/domain"
	"memorial-platform/internal/domain/model"
	"memorial-platform/internal/domain/ports/repository"
)

// memTransactionRepo is a small in-memory implementation used by unit tests.
type memTransactionRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.Transaction
	saveErr error // simulate save failures
}

func newMemTransactionRepo() *memTransactionRepo {
	return &memTransactionRepo{store: make(map[string]*model.Transaction)}
}

func (m *memTransactionRepo) Save(ctx context.Context, tx repository.Tx, t *model.Transaction) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.store[t.ID] = &cp
	return nil
}

func (m *memTransactionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTransactionRepo) ListByPrincipal(ctx context.Context, tx repository.Tx, principalID string) ([]*model.Transaction, error) {
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

func (m *memTransactionRepo) ListByStatus(ctx context.Context, tx repository.Tx, status model.TransactionStatus, limit int) ([]*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Transaction
	for _, t := range m.store {
		if t.Status == status {
			cp := *t
			out = append(out, &cp)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *memTransactionRepo) UpdateStatusFromPending(ctx context.Context, tx repository.Tx, id string, status model.TransactionStatus) error {
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

func (m *memTransactionRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.TransactionStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[model.TransactionStatus]int)
	for _, t := range m.store {
		counts[t.Status]++
	}
	return counts, nil
}

// memSubscriptionRepo mirrors the subscription port in memory.
type memSubscriptionRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.Subscription
	listErr error
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{store: make(map[string]*model.Subscription)}
}

func (m *memSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.ID] = &cp
	return nil
}

func (m *memSubscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSubscriptionRepo) ListByPrincipal(ctx context.Context, tx repository.Tx, principalID string) ([]*model.Subscription, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
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

func (m *memSubscriptionRepo) FindEntitlingByPrincipalAndPlan(ctx context.Context, tx repository.Tx, principalID string, plan model.PlanKey) (*model.Subscription, error) {
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

func (m *memSubscriptionRepo) ExpireDue(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
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

func (m *memSubscriptionRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[model.SubscriptionStatus]int)
	for _, s := range m.store {
		counts[s.Status]++
	}
	return counts, nil
}

// memPlanSetCache records hits and invalidations.
type memPlanSetCache struct {
	mu            sync.Mutex
	entries       map[string]model.PlanSet
	invalidations []string
}

func newMemPlanSetCache() *memPlanSetCache {
	return &memPlanSetCache{entries: make(map[string]model.PlanSet)}
}

func (c *memPlanSetCache) Get(ctx context.Context, principalID string) (model.PlanSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.entries[principalID]
	return set, ok
}

func (c *memPlanSetCache) Put(ctx context.Context, principalID string, set model.PlanSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[principalID] = set
}

func (c *memPlanSetCache) Invalidate(ctx context.Context, principalID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, principalID)
	c.invalidations = append(c.invalidations, principalID)
}

// stubNotifier records what was sent and can simulate failures.
type stubNotifier struct {
	mu      sync.Mutex
	sent    []*model.Transaction
	sendErr error
}

func (n *stubNotifier) TransactionSubmitted(ctx context.Context, t *model.Transaction) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, t)
	return nil
}

// memTxManager runs the callback without a real database transaction.
type memTxManager struct{ calls int }

func (m *memTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.calls++
	return fn(ctx, nil)
}
