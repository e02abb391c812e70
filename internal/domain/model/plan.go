package model

// PlanKey identifies a subscription tier in the catalog.
type PlanKey string

const (
	PlanFree        PlanKey = "free"
	PlanEternalEcho PlanKey = "eternal_echo" // human memorial tier
	PlanPaws        PlanKey = "paws"         // pet memorial tier

	// planPawsLegacy is a historical spelling that still appears in old
	// subscription rows. It is normalized to PlanPaws at every boundary.
	planPawsLegacy PlanKey = "paws_but_not_forgotten"
)

// Feature is a boolean capability flag gated by plan.
type Feature string

const (
	FeatureMemoryLane      Feature = "memory_lane"
	FeatureLettersOfLove   Feature = "letters_of_love"
	FeaturePickAMood       Feature = "pick_a_mood"
	FeatureUnlimitedPhotos Feature = "unlimited_photos"
	FeaturePublishPublic   Feature = "publish_public"
	FeaturePrioritySupport Feature = "priority_support"
)

// AllFeatures is the full feature universe, used by tests and the
// entitlements endpoint.
var AllFeatures = []Feature{
	FeatureMemoryLane,
	FeatureLettersOfLove,
	FeaturePickAMood,
	FeatureUnlimitedPhotos,
	FeaturePublishPublic,
	FeaturePrioritySupport,
}

// Limit is an upload or creation cap. Unlimited is a distinct state, never
// encoded as a large integer, so comparisons cannot confuse the two.
type Limit struct {
	N         int
	Unlimited bool
}

func FiniteLimit(n int) Limit { return Limit{N: n} }

var Unlimited = Limit{Unlimited: true}

// Allows reports whether a count of n items is within the limit.
func (l Limit) Allows(n int) bool {
	if l.Unlimited {
		return true
	}
	return n <= l.N
}

// MaxLimit returns the more permissive of two limits.
func MaxLimit(a, b Limit) Limit {
	if a.Unlimited || b.Unlimited {
		return Unlimited
	}
	if b.N > a.N {
		return b
	}
	return a
}

// CanonicalPlanKey maps the legacy paws spelling to the canonical key and
// passes everything else through untouched. Unknown keys are not rejected
// here; the catalog fails soft on them.
func CanonicalPlanKey(k PlanKey) PlanKey {
	if k == planPawsLegacy {
		return PlanPaws
	}
	return k
}

// KnownPlanKey reports whether k names a catalog entry (after
// canonicalization).
func KnownPlanKey(k PlanKey) bool {
	_, ok := catalog[CanonicalPlanKey(k)]
	return ok
}
