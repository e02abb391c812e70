package model

import "testing"

func TestCatalogFreeTier(t *testing.T) {
	t.Parallel()

	if got := FeaturesOf(PlanFree); len(got) != 0 {
		t.Fatalf("free plan must grant no features, got %v", got)
	}
	if l := PhotoLimitOf(PlanFree); l.Unlimited || l.N != 3 {
		t.Fatalf("free photo limit must be 3, got %+v", l)
	}
	if l := MemorialLimitOf(PlanFree); l.Unlimited || l.N != 1 {
		t.Fatalf("free memorial limit must be 1, got %+v", l)
	}
}

func TestCatalogFeatureSetsAreSubsetsOfUniverse(t *testing.T) {
	t.Parallel()

	universe := make(map[Feature]bool, len(AllFeatures))
	for _, f := range AllFeatures {
		universe[f] = true
	}
	for _, e := range ListCatalog() {
		for f := range FeaturesOf(e.Key) {
			if !universe[f] {
				t.Fatalf("plan %s grants feature %q outside the universe", e.Key, f)
			}
		}
	}
}

func TestCatalogPaidPlansSupersetFree(t *testing.T) {
	t.Parallel()

	freeFeatures := FeaturesOf(PlanFree)
	for _, key := range []PlanKey{PlanEternalEcho, PlanPaws} {
		features := FeaturesOf(key)
		for f := range freeFeatures {
			if !features[f] {
				t.Fatalf("plan %s must grant everything free grants, missing %q", key, f)
			}
		}
	}
}

func TestCatalogUnknownKeyFailsSoft(t *testing.T) {
	t.Parallel()

	const bogus = PlanKey("premium_deluxe")
	if got := FeaturesOf(bogus); len(got) != 0 {
		t.Fatalf("unknown key must yield empty feature set, got %v", got)
	}
	if l := PhotoLimitOf(bogus); l.Unlimited || l.N != 3 {
		t.Fatalf("unknown key must yield free's photo limit, got %+v", l)
	}
	if l := MemorialLimitOf(bogus); l.Unlimited || l.N != 1 {
		t.Fatalf("unknown key must yield free's memorial limit, got %+v", l)
	}
}

func TestCanonicalPlanKeyLegacyPaws(t *testing.T) {
	t.Parallel()

	if got := CanonicalPlanKey(PlanKey("paws_but_not_forgotten")); got != PlanPaws {
		t.Fatalf("legacy paws spelling must canonicalize to %q, got %q", PlanPaws, got)
	}
	if got := CanonicalPlanKey(PlanEternalEcho); got != PlanEternalEcho {
		t.Fatalf("canonical keys must pass through, got %q", got)
	}
	if !KnownPlanKey(PlanKey("paws_but_not_forgotten")) {
		t.Fatal("legacy paws spelling must resolve to a known plan")
	}
}

func TestLimitComparisons(t *testing.T) {
	t.Parallel()

	if !Unlimited.Allows(1 << 40) {
		t.Fatal("unlimited must allow any count")
	}
	if FiniteLimit(3).Allows(4) {
		t.Fatal("limit 3 must not allow 4")
	}
	if !FiniteLimit(3).Allows(3) {
		t.Fatal("limit 3 must allow exactly 3")
	}
	if got := MaxLimit(FiniteLimit(3), Unlimited); !got.Unlimited {
		t.Fatal("unlimited must absorb any finite limit")
	}
	if got := MaxLimit(FiniteLimit(3), FiniteLimit(10)); got.Unlimited || got.N != 10 {
		t.Fatalf("expected finite limit 10, got %+v", got)
	}
}
