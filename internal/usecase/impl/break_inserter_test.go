package impl

import (
	"context"
	"testing"

	"stroll/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPlan sequences the given stops in order and derives the timeline.
func buildPlan(t *testing.T, resolver *stubResolver, pois ...*entity.POICandidate) *routePlan {
	t.Helper()

	plan := &routePlan{Start: testStart, StartTime: testStartTime}
	for _, poi := range pois {
		plan.Stops = append(plan.Stops, entity.SequencedStop{
			POI:          poi,
			VisitMinutes: poi.AvgVisitMinutes,
			IsOpen:       true,
		})
	}
	require.NoError(t, plan.rebuild(context.Background(), resolver))

	return plan
}

func TestBreakInserter_InsertsBeforeIntervalCrossing(t *testing.T) {
	resolver := newStubResolver()
	b := newBreakInserter(testAssemblyConfig(), resolver)

	// Forty-minute visits: the third stop's arrival lands past the 90-minute
	// mark, so a break belongs between the second and third stops.
	plan := buildPlan(t, resolver,
		testPOI("poi-a", "landmark", pointNorth(1), 4.5, 40, nil),
		testPOI("poi-b", "museum", pointNorth(2), 4.3, 40, nil),
		testPOI("poi-c", "park", pointNorth(3), 4.1, 40, nil),
	)

	cafe := testPOI("cafe-1", "cafe", pointNorth(2), 4.2, 15, nil)
	warnings := b.Insert(context.Background(), plan, entity.BreakPreference{Enabled: true}, []*entity.POICandidate{cafe})

	assert.Empty(t, warnings)
	require.Len(t, plan.Stops, 4)

	assert.True(t, plan.Stops[2].IsCoffeeBreak)
	assert.Equal(t, "cafe-1", plan.Stops[2].POI.ID)
	assert.Equal(t, 3, plan.primaryStopCount())

	// Orders stay contiguous and the downstream stop shifted later.
	for i, stop := range plan.Stops {
		assert.Equal(t, i+1, stop.Order)
	}
	assert.True(t, plan.Stops[3].ArrivalTime.After(plan.Stops[2].LeaveTime))
}

func TestBreakInserter_DisabledDoesNothing(t *testing.T) {
	resolver := newStubResolver()
	b := newBreakInserter(testAssemblyConfig(), resolver)

	plan := buildPlan(t, resolver,
		testPOI("poi-a", "landmark", pointNorth(1), 4.5, 40, nil),
		testPOI("poi-b", "museum", pointNorth(2), 4.3, 40, nil),
		testPOI("poi-c", "park", pointNorth(3), 4.1, 40, nil),
	)

	warnings := b.Insert(context.Background(), plan, entity.BreakPreference{}, nil)

	assert.Empty(t, warnings)
	assert.Len(t, plan.Stops, 3)
}

func TestBreakInserter_NoCandidateWarnsAndContinues(t *testing.T) {
	resolver := newStubResolver()
	b := newBreakInserter(testAssemblyConfig(), resolver)

	plan := buildPlan(t, resolver,
		testPOI("poi-a", "landmark", pointNorth(1), 4.5, 40, nil),
		testPOI("poi-b", "museum", pointNorth(2), 4.3, 40, nil),
		testPOI("poi-c", "park", pointNorth(3), 4.1, 40, nil),
	)

	// The only cafe is far outside the default search radius.
	farCafe := testPOI("cafe-far", "cafe", pointNorth(40), 4.2, 15, nil)
	warnings := b.Insert(context.Background(), plan, entity.BreakPreference{Enabled: true}, []*entity.POICandidate{farCafe})

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "continuing without a break")
	assert.Len(t, plan.Stops, 3)
}

func TestBreakInserter_CoffeeAffinityShortensInterval(t *testing.T) {
	resolver := newStubResolver()
	b := newBreakInserter(testAssemblyConfig(), resolver)

	// The second arrival lands at roughly 80 minutes: inside the default
	// 90-minute interval, past the 70-minute coffee-affinity one.
	plan := buildPlan(t, resolver,
		testPOI("poi-a", "landmark", pointNorth(1), 4.5, 65, nil),
		testPOI("poi-b", "museum", pointNorth(2), 4.3, 30, nil),
	)

	cafe := testPOI("cafe-1", "cafe", pointNorth(1), 4.2, 15, nil)

	defaultPlan := buildPlan(t, resolver, plan.Stops[0].POI, plan.Stops[1].POI)
	b.Insert(context.Background(), defaultPlan, entity.BreakPreference{Enabled: true}, []*entity.POICandidate{cafe})
	assert.Len(t, defaultPlan.Stops, 2)

	b.Insert(context.Background(), plan, entity.BreakPreference{Enabled: true, HighCoffeeAffinity: true}, []*entity.POICandidate{cafe})
	require.Len(t, plan.Stops, 3)
	assert.True(t, plan.Stops[1].IsCoffeeBreak)
}

func TestBreakInserter_ExplicitIntervalOverridesDefaults(t *testing.T) {
	resolver := newStubResolver()
	b := newBreakInserter(testAssemblyConfig(), resolver)

	plan := buildPlan(t, resolver,
		testPOI("poi-a", "landmark", pointNorth(1), 4.5, 30, nil),
		testPOI("poi-b", "museum", pointNorth(2), 4.3, 30, nil),
	)

	cafe := testPOI("cafe-1", "cafe", pointNorth(1), 4.2, 15, nil)
	prefs := entity.BreakPreference{Enabled: true, IntervalMinutes: 40}

	b.Insert(context.Background(), plan, prefs, []*entity.POICandidate{cafe})

	// The second stop's arrival (~45 min) crosses the 40-minute interval.
	require.Len(t, plan.Stops, 3)
	assert.True(t, plan.Stops[1].IsCoffeeBreak)
}

func TestBreakInserter_NeverDuplicatesRoutePOIs(t *testing.T) {
	resolver := newStubResolver()
	b := newBreakInserter(testAssemblyConfig(), resolver)

	onRoute := testPOI("cafe-onroute", "cafe", pointNorth(2), 4.3, 40, nil)
	plan := buildPlan(t, resolver,
		testPOI("poi-a", "landmark", pointNorth(1), 4.5, 40, nil),
		onRoute,
		testPOI("poi-c", "park", pointNorth(3), 4.1, 40, nil),
	)

	// The only nearby break candidate is already a primary stop.
	warnings := b.Insert(context.Background(), plan, entity.BreakPreference{Enabled: true}, []*entity.POICandidate{onRoute})

	require.Len(t, warnings, 1)
	assert.Len(t, plan.Stops, 3)
}
