package model

// PlanCatalogEntry is the immutable description of one tier: its feature set
// and its numeric caps. The catalog is fixed at compile time; there is no
// dynamic reconfiguration.
type PlanCatalogEntry struct {
	Key           PlanKey
	Features      map[Feature]bool
	PhotoLimit    Limit
	MemorialLimit Limit
}

// catalog is the authoritative PlanKey -> entry table.
// Invariants: free always has photo limit 3, memorial limit 1 and an empty
// feature set; every paid plan's feature set is a superset of free's.
var catalog = map[PlanKey]PlanCatalogEntry{
	PlanFree: {
		Key:           PlanFree,
		Features:      map[Feature]bool{},
		PhotoLimit:    FiniteLimit(3),
		MemorialLimit: FiniteLimit(1),
	},
	PlanEternalEcho: {
		Key: PlanEternalEcho,
		Features: map[Feature]bool{
			FeatureMemoryLane:      true,
			FeatureLettersOfLove:   true,
			FeaturePickAMood:       true,
			FeatureUnlimitedPhotos: true,
			FeaturePublishPublic:   true,
			FeaturePrioritySupport: true,
		},
		PhotoLimit:    Unlimited,
		MemorialLimit: Unlimited,
	},
	PlanPaws: {
		Key: PlanPaws,
		Features: map[Feature]bool{
			FeatureMemoryLane:      true,
			FeatureLettersOfLove:   true,
			FeaturePickAMood:       true,
			FeatureUnlimitedPhotos: true,
			FeaturePublishPublic:   true,
		},
		PhotoLimit:    Unlimited,
		MemorialLimit: Unlimited,
	},
}

// CatalogEntry returns the entry for k. Unknown keys fall back to free's
// entry with an empty feature set: entitlement lookups on bad input must
// fail closed, never raise.
func CatalogEntry(k PlanKey) PlanCatalogEntry {
	if e, ok := catalog[CanonicalPlanKey(k)]; ok {
		return e
	}
	free := catalog[PlanFree]
	return PlanCatalogEntry{
		Key:           CanonicalPlanKey(k),
		Features:      map[Feature]bool{},
		PhotoLimit:    free.PhotoLimit,
		MemorialLimit: free.MemorialLimit,
	}
}

// FeaturesOf returns the catalog feature set for a plan. Unrecognized keys
// yield the empty set.
func FeaturesOf(k PlanKey) map[Feature]bool {
	out := make(map[Feature]bool)
	for f := range CatalogEntry(k).Features {
		out[f] = true
	}
	return out
}

// PhotoLimitOf returns the configured photo-upload cap; unrecognized keys
// yield free's cap.
func PhotoLimitOf(k PlanKey) Limit { return CatalogEntry(k).PhotoLimit }

// MemorialLimitOf returns the configured memorial-creation cap; unrecognized
// keys yield free's cap.
func MemorialLimitOf(k PlanKey) Limit { return CatalogEntry(k).MemorialLimit }

// ListCatalog returns all entries in a stable order (free first, then paid
// tiers).
func ListCatalog() []PlanCatalogEntry {
	keys := []PlanKey{PlanFree, PlanEternalEcho, PlanPaws}
	out := make([]PlanCatalogEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, catalog[k])
	}
	return out
}
