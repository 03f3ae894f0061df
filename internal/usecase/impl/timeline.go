package impl

import (
	"context"
	"time"

	"stroll/internal/domain/entity"
	"stroll/internal/usecase"

	"github.com/pkg/errors"
)

// routePlan is the working route shared by the sequencer, break inserter,
// and availability guard: an ordered stop list with its derived legs and
// totals. It is rebuilt in place after every structural change so the
// timeline invariants hold at each stage boundary.
type routePlan struct {
	Start           entity.Location
	StartTime       time.Time
	Stops           []entity.SequencedStop
	Legs            []entity.RouteLeg
	TotalMinutes    float64
	TotalDistanceKm float64
}

// rebuild re-derives order indices, arrival/leave times, legs, and totals
// from the current stop sequence. Leg lookups hit the per-request memoized
// resolver, so repeated rebuilds stay cheap.
func (p *routePlan) rebuild(ctx context.Context, resolver usecase.LegResolver) error {
	legs := make([]entity.RouteLeg, 0, len(p.Stops))
	current := p.Start
	now := p.StartTime
	totalKm := 0.0

	for i := range p.Stops {
		stop := &p.Stops[i]

		leg, err := resolver.Leg(ctx, current, stop.POI.Location)
		if err != nil {
			return errors.Wrapf(err, "resolve leg to stop %s", stop.POI.ID)
		}

		stop.Order = i + 1
		stop.ArrivalTime = now.Add(minutesToDuration(leg.DurationMin))
		stop.LeaveTime = stop.ArrivalTime.Add(time.Duration(stop.VisitMinutes) * time.Minute)

		legs = append(legs, *leg)
		totalKm += leg.DistanceKm
		current = stop.POI.Location
		now = stop.LeaveTime
	}

	p.Legs = legs
	p.TotalDistanceKm = totalKm
	p.TotalMinutes = 0
	if len(p.Stops) > 0 {
		p.TotalMinutes = p.Stops[len(p.Stops)-1].LeaveTime.Sub(p.StartTime).Minutes()
	}

	return nil
}

// primaryStopCount counts the stops that are not inserted breaks.
func (p *routePlan) primaryStopCount() int {
	count := 0
	for _, stop := range p.Stops {
		if !stop.IsCoffeeBreak {
			count++
		}
	}

	return count
}

// containsPOI reports whether a POI id is already on the route.
func (p *routePlan) containsPOI(id string) bool {
	for _, stop := range p.Stops {
		if stop.POI.ID == id {
			return true
		}
	}

	return false
}

func minutesToDuration(minutes float64) time.Duration {
	return time.Duration(minutes * float64(time.Minute))
}

// legMatrix memoizes pairwise leg lookups for one sequencing run. Index 0
// is the start location; indices 1..n map to ranked candidates.
type legMatrix struct {
	resolver usecase.LegResolver
	points   []entity.Location
	legs     map[[2]int]*entity.RouteLeg
}

func newLegMatrix(resolver usecase.LegResolver, start entity.Location, candidates []entity.ScoredCandidate) *legMatrix {
	points := make([]entity.Location, 0, len(candidates)+1)
	points = append(points, start)
	for _, c := range candidates {
		points = append(points, c.POI.Location)
	}

	return &legMatrix{
		resolver: resolver,
		points:   points,
		legs:     make(map[[2]int]*entity.RouteLeg),
	}
}

// leg returns the resolved leg between two point indices, consulting the
// adapter once per pair per request.
func (m *legMatrix) leg(ctx context.Context, from, to int) (*entity.RouteLeg, error) {
	key := [2]int{from, to}
	if leg, ok := m.legs[key]; ok {
		return leg, nil
	}

	leg, err := m.resolver.Leg(ctx, m.points[from], m.points[to])
	if err != nil {
		return nil, err
	}
	m.legs[key] = leg

	return leg, nil
}
