package impl

import (
	"context"
	"time"

	"stroll/config"
	"stroll/internal/domain/entity"
	"stroll/internal/util"
)

// stubResolver resolves legs from great-circle distance at a fixed walking
// speed. Deterministic and free of I/O, so routes built on it are stable
// across runs.
type stubResolver struct {
	speedKmh     float64
	markEstimate bool
	calls        int
}

func newStubResolver() *stubResolver {
	return &stubResolver{speedKmh: 4.5}
}

func (r *stubResolver) Leg(_ context.Context, from, to entity.Location) (*entity.RouteLeg, error) {
	r.calls++
	distance := util.DistanceKm(from, to)

	return &entity.RouteLeg{
		From:        from,
		To:          to,
		DistanceKm:  distance,
		DurationMin: distance / r.speedKmh * 60,
		Mode:        entity.TravelModeWalk,
		Estimated:   r.markEstimate,
	}, nil
}

func (r *stubResolver) Prefetch(context.Context, []entity.Location) {}

// testStart is the trip origin used across engine tests.
var testStart = entity.Location{Lat: 25.0400, Lng: 121.5100}

// testStartTime is a Saturday morning.
var testStartTime = time.Date(2026, 5, 16, 10, 0, 0, 0, time.UTC)

// pointNorth returns a location n steps north of the origin. One step is
// roughly 560 meters, about seven and a half minutes on foot.
func pointNorth(n int) entity.Location {
	return entity.Location{Lat: testStart.Lat + float64(n)*0.005, Lng: testStart.Lng}
}

func testAssemblyConfig() *config.AssemblyConfig {
	return &config.AssemblyConfig{
		MinStops:                      3,
		MaxStops:                      5,
		OverrunToleranceMinutes:       15,
		Deadline:                      5 * time.Second,
		SwapIterationCap:              50,
		CandidateLimit:                40,
		SearchRadiusKm:                3.0,
		SubstitutionAttempts:          3,
		SubstitutionRadiusKm:          1.5,
		BreakIntervalMinutes:          90,
		CoffeeAffinityIntervalMinutes: 70,
		BreakSearchRadiusKm:           0.8,
		BreakVisitMinutes:             20,
	}
}

func testPOI(id, category string, location entity.Location, rating float64, visitMinutes int, embedding []float64) *entity.POICandidate {
	return &entity.POICandidate{
		ID:              id,
		Name:            "POI " + id,
		Location:        location,
		Category:        category,
		Embedding:       embedding,
		Rating:          rating,
		AvgVisitMinutes: visitMinutes,
	}
}

// weekendEvenings is an opening-hours set that is closed on Saturday
// mornings.
func weekendEvenings() entity.OpeningHours {
	return entity.OpeningHours{
		Windows: []entity.OpeningWindow{
			{Weekday: time.Saturday, OpenMin: 18 * 60, CloseMin: 23 * 60},
			{Weekday: time.Sunday, OpenMin: 18 * 60, CloseMin: 23 * 60},
		},
	}
}

func scoredSet(candidates ...*entity.POICandidate) []entity.ScoredCandidate {
	scored := make([]entity.ScoredCandidate, 0, len(candidates))
	for i, poi := range candidates {
		scored = append(scored, entity.ScoredCandidate{POI: poi, Score: 1.0 - float64(i)*0.05})
	}

	return scored
}
