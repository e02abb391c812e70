package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"memorial-platform/internal/domain/model"
	"memorial-platform/internal/infra/metrics"
)

// PlanSetCache memoizes per-principal effective plan sets so entitlement
// checks on hot request paths skip the subscriptions table. Writes to a
// principal's subscriptions must invalidate their entry.
type PlanSetCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewPlanSetCache(client RedisClient, ttl time.Duration) *PlanSetCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PlanSetCache{client: client, ttl: ttl}
}

func planSetKey(principalID string) string {
	return fmt.Sprintf("plan_set:%s", principalID)
}

// Get returns the cached plan set, or ok=false on miss or decode failure.
func (c *PlanSetCache) Get(ctx context.Context, principalID string) (model.PlanSet, bool) {
	val, err := c.client.Get(ctx, planSetKey(principalID))
	if err != nil {
		metrics.IncCacheRequest("plan_set", "miss")
		return nil, false
	}
	var keys []string
	if err := json.Unmarshal([]byte(val), &keys); err != nil {
		metrics.IncCacheRequest("plan_set", "miss")
		return nil, false
	}
	metrics.IncCacheRequest("plan_set", "hit")
	return model.NormalizePlanStrings(keys), true
}

func (c *PlanSetCache) Put(ctx context.Context, principalID string, set model.PlanSet) {
	keys := make([]string, 0, len(set))
	for _, k := range set.Keys() {
		keys = append(keys, string(k))
	}
	if b, err := json.Marshal(keys); err == nil {
		_ = c.client.Set(ctx, planSetKey(principalID), b, c.ttl)
	}
}

func (c *PlanSetCache) Invalidate(ctx context.Context, principalID string) {
	_ = c.client.Del(ctx, planSetKey(principalID))
}
