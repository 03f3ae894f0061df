package impl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityGuard_AllOpenPassesUntouched(t *testing.T) {
	resolver := newStubResolver()
	g := newAvailabilityGuard(testAssemblyConfig(), resolver)

	plan := buildPlan(t, resolver,
		testPOI("poi-a", "landmark", pointNorth(1), 4.5, 30, nil),
		testPOI("poi-b", "museum", pointNorth(2), 4.3, 30, nil),
		testPOI("poi-c", "park", pointNorth(3), 4.1, 30, nil),
	)

	warnings := g.Check(context.Background(), plan, nil)

	assert.Empty(t, warnings)
	for _, stop := range plan.Stops {
		assert.True(t, stop.IsOpen)
	}
}

func TestAvailabilityGuard_SubstitutesClosedStop(t *testing.T) {
	resolver := newStubResolver()
	g := newAvailabilityGuard(testAssemblyConfig(), resolver)

	closed := testPOI("poi-b", "museum", pointNorth(2), 4.3, 30, nil)
	closed.Hours = weekendEvenings() // morning arrival, evening-only venue

	plan := buildPlan(t, resolver,
		testPOI("poi-a", "landmark", pointNorth(1), 4.5, 30, nil),
		closed,
		testPOI("poi-c", "park", pointNorth(3), 4.1, 30, nil),
	)

	backup := testPOI("poi-x", "museum", pointNorth(2), 4.1, 30, nil)
	ranked := append(scoredSet(backup), scoredSet(closed)...)

	warnings := g.Check(context.Background(), plan, ranked)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "replaced with")

	assert.Equal(t, "poi-x", plan.Stops[1].POI.ID)
	assert.True(t, plan.Stops[1].IsOpen)

	seen := map[string]bool{}
	for i, stop := range plan.Stops {
		assert.Equal(t, i+1, stop.Order)
		assert.False(t, seen[stop.POI.ID])
		seen[stop.POI.ID] = true
	}
}

func TestAvailabilityGuard_KeepsStopWhenSubstitutionExhausted(t *testing.T) {
	resolver := newStubResolver()
	g := newAvailabilityGuard(testAssemblyConfig(), resolver)

	closed := testPOI("poi-b", "museum", pointNorth(2), 4.3, 30, nil)
	closed.Hours = weekendEvenings()

	plan := buildPlan(t, resolver,
		testPOI("poi-a", "landmark", pointNorth(1), 4.5, 30, nil),
		closed,
	)

	// The only other museum is far outside the substitution radius.
	farBackup := testPOI("poi-x", "museum", pointNorth(20), 4.1, 30, nil)
	warnings := g.Check(context.Background(), plan, scoredSet(farBackup))

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no open replacement")

	assert.Equal(t, "poi-b", plan.Stops[1].POI.ID)
	assert.False(t, plan.Stops[1].IsOpen)
}

func TestAvailabilityGuard_RejectsBackupClosedAtShiftedArrival(t *testing.T) {
	resolver := newStubResolver()
	g := newAvailabilityGuard(testAssemblyConfig(), resolver)

	closed := testPOI("poi-b", "museum", pointNorth(2), 4.3, 30, nil)
	closed.Hours = weekendEvenings()

	plan := buildPlan(t, resolver,
		testPOI("poi-a", "landmark", pointNorth(1), 4.5, 30, nil),
		closed,
	)

	// The backup has the same evening-only hours, so it fails its own
	// openness check after the rebuild.
	alsoClosed := testPOI("poi-x", "museum", pointNorth(2), 4.1, 30, nil)
	alsoClosed.Hours = weekendEvenings()

	warnings := g.Check(context.Background(), plan, scoredSet(alsoClosed))

	require.Len(t, warnings, 1)
	assert.Equal(t, "poi-b", plan.Stops[1].POI.ID)
	assert.False(t, plan.Stops[1].IsOpen)
}

func TestAvailabilityGuard_SkipsBreakStops(t *testing.T) {
	resolver := newStubResolver()
	g := newAvailabilityGuard(testAssemblyConfig(), resolver)

	breakPOI := testPOI("cafe-1", "cafe", pointNorth(2), 4.2, 15, nil)
	breakPOI.Hours = weekendEvenings() // would fail the check if it ran

	plan := buildPlan(t, resolver,
		testPOI("poi-a", "landmark", pointNorth(1), 4.5, 30, nil),
		breakPOI,
		testPOI("poi-c", "park", pointNorth(3), 4.1, 30, nil),
	)
	plan.Stops[1].IsCoffeeBreak = true

	warnings := g.Check(context.Background(), plan, nil)

	assert.Empty(t, warnings)
}
