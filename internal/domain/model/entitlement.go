package model

// PlanSet is the set of plan keys a principal currently holds. A user who
// bought both a human-memorial and a pet-memorial tier holds two keys at
// once. Order never matters; membership does.
type PlanSet map[PlanKey]bool

// NormalizePlans collapses the caller-facing "one key or many" shape into a
// set. Legacy spellings are canonicalized, empty strings dropped, unknown
// keys kept as-is (the catalog fails soft on them, and IsPaid deliberately
// treats any non-free value as paid).
func NormalizePlans(keys ...PlanKey) PlanSet {
	set := make(PlanSet, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		set[CanonicalPlanKey(k)] = true
	}
	return set
}

// NormalizePlanStrings is NormalizePlans over raw string input, for callers
// sitting at a serialization boundary.
func NormalizePlanStrings(keys []string) PlanSet {
	ks := make([]PlanKey, len(keys))
	for i, s := range keys {
		ks[i] = PlanKey(s)
	}
	return NormalizePlans(ks...)
}

// CanAccess reports whether any held plan grants the feature. An empty set
// has no entitlements: an unauthenticated or planless principal is denied
// every feature.
func (s PlanSet) CanAccess(f Feature) bool {
	for k := range s {
		if CatalogEntry(k).Features[f] {
			return true
		}
	}
	return false
}

// PhotoLimit returns the most permissive photo cap across held plans.
// An empty set yields free's cap; any unlimited plan makes the result
// unlimited.
func (s PlanSet) PhotoLimit() Limit {
	limit := PhotoLimitOf(PlanFree)
	for k := range s {
		limit = MaxLimit(limit, PhotoLimitOf(k))
	}
	return limit
}

// MemorialLimit returns the most permissive memorial-creation cap across
// held plans, defaulting to free's cap for an empty set.
func (s PlanSet) MemorialLimit() Limit {
	limit := MemorialLimitOf(PlanFree)
	for k := range s {
		limit = MaxLimit(limit, MemorialLimitOf(k))
	}
	return limit
}

// IsPaid reports whether the principal holds anything beyond the free tier.
// Any non-free key counts, including malformed ones; this mirrors how the
// platform has always billed and is intentionally permissive.
func (s PlanSet) IsPaid() bool {
	for k := range s {
		if k != PlanFree {
			return true
		}
	}
	return false
}

// Keys returns the members of the set. Order is unspecified.
func (s PlanSet) Keys() []PlanKey {
	out := make([]PlanKey, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}
