package impl

import (
	"context"
	"testing"
	"time"

	"stroll/internal/domain/entity"
	domainerrors "stroll/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencer_BuildsFeasibleRouteWithinBudget(t *testing.T) {
	s := newSequencer(testAssemblyConfig(), newStubResolver())

	// Thirty-minute visits spaced about seven minutes of walking apart.
	// A 120-minute budget with 15 minutes of tolerance fits three of them.
	ranked := scoredSet(
		testPOI("poi-a", "landmark", pointNorth(1), 4.5, 30, nil),
		testPOI("poi-b", "museum", pointNorth(2), 4.3, 30, nil),
		testPOI("poi-c", "park", pointNorth(3), 4.1, 30, nil),
		testPOI("poi-d", "market", pointNorth(4), 4.0, 30, nil),
	)

	plan, err := s.Sequence(context.Background(), testStart, testStartTime, 120, ranked)
	require.NoError(t, err)

	assert.Len(t, plan.Stops, 3)
	assert.LessOrEqual(t, plan.TotalMinutes, 135.0)

	for i, stop := range plan.Stops {
		assert.Equal(t, i+1, stop.Order)
		assert.Equal(t, stop.ArrivalTime.Add(time.Duration(stop.VisitMinutes)*time.Minute), stop.LeaveTime)
	}
	assert.Len(t, plan.Legs, len(plan.Stops))
}

func TestSequencer_PrefersMoreStopsWhenBudgetAllows(t *testing.T) {
	s := newSequencer(testAssemblyConfig(), newStubResolver())

	ranked := scoredSet(
		testPOI("poi-a", "landmark", pointNorth(1), 4.5, 30, nil),
		testPOI("poi-b", "museum", pointNorth(2), 4.3, 30, nil),
		testPOI("poi-c", "park", pointNorth(3), 4.1, 30, nil),
		testPOI("poi-d", "market", pointNorth(4), 4.0, 30, nil),
		testPOI("poi-e", "cafe", pointNorth(5), 3.9, 30, nil),
		testPOI("poi-f", "garden", pointNorth(6), 3.8, 30, nil),
	)

	plan, err := s.Sequence(context.Background(), testStart, testStartTime, 300, ranked)
	require.NoError(t, err)

	// Five is the ceiling even with budget to spare.
	assert.Len(t, plan.Stops, 5)
}

func TestSequencer_HighestScoresWinWhenNotAllFit(t *testing.T) {
	s := newSequencer(testAssemblyConfig(), newStubResolver())

	// All candidates sit in the same cluster, so selection is driven purely
	// by score.
	cluster := pointNorth(1)
	ranked := scoredSet(
		testPOI("poi-a", "landmark", cluster, 4.5, 30, nil),
		testPOI("poi-b", "museum", cluster, 4.3, 30, nil),
		testPOI("poi-c", "park", cluster, 4.1, 30, nil),
		testPOI("poi-d", "market", cluster, 4.0, 30, nil),
		testPOI("poi-e", "cafe", cluster, 3.9, 30, nil),
	)

	plan, err := s.Sequence(context.Background(), testStart, testStartTime, 105, ranked)
	require.NoError(t, err)
	require.Len(t, plan.Stops, 3)

	got := map[string]bool{}
	for _, stop := range plan.Stops {
		got[stop.POI.ID] = true
	}
	assert.True(t, got["poi-a"])
	assert.True(t, got["poi-b"])
	assert.True(t, got["poi-c"])
}

func TestSequencer_InsufficientCandidates(t *testing.T) {
	s := newSequencer(testAssemblyConfig(), newStubResolver())

	t.Run("pool too small", func(t *testing.T) {
		ranked := scoredSet(
			testPOI("poi-a", "landmark", pointNorth(1), 4.5, 30, nil),
			testPOI("poi-b", "museum", pointNorth(2), 4.3, 30, nil),
		)

		_, err := s.Sequence(context.Background(), testStart, testStartTime, 300, ranked)
		assert.ErrorIs(t, err, domainerrors.ErrInsufficientCandidates)
	})

	t.Run("budget too tight", func(t *testing.T) {
		ranked := scoredSet(
			testPOI("poi-a", "landmark", pointNorth(1), 4.5, 60, nil),
			testPOI("poi-b", "museum", pointNorth(2), 4.3, 60, nil),
			testPOI("poi-c", "park", pointNorth(3), 4.1, 60, nil),
		)

		_, err := s.Sequence(context.Background(), testStart, testStartTime, 60, ranked)
		assert.ErrorIs(t, err, domainerrors.ErrInsufficientCandidates)
	})
}

func TestSequencer_ExpiredDeadlineIsNotACandidateShortage(t *testing.T) {
	s := newSequencer(testAssemblyConfig(), newStubResolver())

	// The pool and budget would comfortably yield a route; only the expired
	// context stops the search.
	ranked := scoredSet(
		testPOI("poi-a", "landmark", pointNorth(1), 4.5, 30, nil),
		testPOI("poi-b", "museum", pointNorth(2), 4.3, 30, nil),
		testPOI("poi-c", "park", pointNorth(3), 4.1, 30, nil),
		testPOI("poi-d", "market", pointNorth(4), 4.0, 30, nil),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Sequence(ctx, testStart, testStartTime, 300, ranked)
	assert.ErrorIs(t, err, domainerrors.ErrPlanningDeadline)
	assert.NotErrorIs(t, err, domainerrors.ErrInsufficientCandidates)
}

func TestSequencer_NoDuplicateStops(t *testing.T) {
	s := newSequencer(testAssemblyConfig(), newStubResolver())

	ranked := scoredSet(
		testPOI("poi-a", "landmark", pointNorth(1), 4.5, 20, nil),
		testPOI("poi-b", "museum", pointNorth(2), 4.3, 20, nil),
		testPOI("poi-c", "park", pointNorth(3), 4.1, 20, nil),
		testPOI("poi-d", "market", pointNorth(4), 4.0, 20, nil),
	)

	plan, err := s.Sequence(context.Background(), testStart, testStartTime, 240, ranked)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, stop := range plan.Stops {
		assert.False(t, seen[stop.POI.ID], "duplicate stop %s", stop.POI.ID)
		seen[stop.POI.ID] = true
	}
}

func TestSequencer_DeterministicAcrossRuns(t *testing.T) {
	s := newSequencer(testAssemblyConfig(), newStubResolver())

	ranked := scoredSet(
		testPOI("poi-a", "landmark", pointNorth(3), 4.5, 30, nil),
		testPOI("poi-b", "museum", pointNorth(1), 4.3, 30, nil),
		testPOI("poi-c", "park", pointNorth(4), 4.1, 30, nil),
		testPOI("poi-d", "market", pointNorth(2), 4.0, 30, nil),
	)

	first, err := s.Sequence(context.Background(), testStart, testStartTime, 180, ranked)
	require.NoError(t, err)
	second, err := s.Sequence(context.Background(), testStart, testStartTime, 180, ranked)
	require.NoError(t, err)

	require.Equal(t, len(first.Stops), len(second.Stops))
	for i := range first.Stops {
		assert.Equal(t, first.Stops[i].POI.ID, second.Stops[i].POI.ID)
	}
}

func TestSequencer_RouteOrderMinimizesTravel(t *testing.T) {
	s := newSequencer(testAssemblyConfig(), newStubResolver())

	// Equal scores, so greedy insertion order is rank order; the geometry
	// still has to come out as a monotonic walk north.
	ranked := []entity.ScoredCandidate{
		{POI: testPOI("poi-a", "landmark", pointNorth(4), 4.5, 20, nil), Score: 1.0},
		{POI: testPOI("poi-b", "museum", pointNorth(1), 4.3, 20, nil), Score: 1.0},
		{POI: testPOI("poi-c", "park", pointNorth(3), 4.1, 20, nil), Score: 1.0},
		{POI: testPOI("poi-d", "market", pointNorth(2), 4.0, 20, nil), Score: 1.0},
	}

	plan, err := s.Sequence(context.Background(), testStart, testStartTime, 240, ranked)
	require.NoError(t, err)
	require.Len(t, plan.Stops, 4)

	for i := 1; i < len(plan.Stops); i++ {
		assert.Greater(t, plan.Stops[i].POI.Location.Lat, plan.Stops[i-1].POI.Location.Lat,
			"stops should proceed monotonically north")
	}
}
