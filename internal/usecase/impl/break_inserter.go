package impl

import (
	"context"
	"fmt"
	"math"
	"slices"

	"stroll/config"
	"stroll/internal/domain/entity"
	"stroll/internal/usecase"
	"stroll/internal/util"
)

// breakInserter interleaves refreshment stops into a sequenced route when
// the elapsed time since the trip start or the last break would cross the
// target interval before the next stop. Insertion failures are non-fatal
// and surface as warnings.
type breakInserter struct {
	cfg      *config.AssemblyConfig
	resolver usecase.LegResolver
}

func newBreakInserter(cfg *config.AssemblyConfig, resolver usecase.LegResolver) *breakInserter {
	return &breakInserter{cfg: cfg, resolver: resolver}
}

// Insert walks the route and inserts break stops in place, rebuilding the
// timeline after each insertion so downstream arrival and leave times
// shift accordingly. Returns the warnings produced along the way.
func (b *breakInserter) Insert(
	ctx context.Context,
	plan *routePlan,
	prefs entity.BreakPreference,
	candidates []*entity.POICandidate,
) []string {
	if !prefs.Enabled || len(plan.Stops) == 0 {
		return nil
	}

	interval := b.intervalMinutes(prefs)
	radius := prefs.SearchRadiusKm
	if radius <= 0 {
		radius = b.cfg.BreakSearchRadiusKm
	}

	var warnings []string
	anchor := plan.StartTime

	for i := 0; i < len(plan.Stops); i++ {
		if ctx.Err() != nil {
			break
		}

		stop := plan.Stops[i]
		if stop.IsCoffeeBreak {
			anchor = stop.LeaveTime

			continue
		}

		elapsed := stop.ArrivalTime.Sub(anchor).Minutes()
		if elapsed <= interval {
			continue
		}

		position := plan.Start
		if i > 0 {
			position = plan.Stops[i-1].POI.Location
		}

		candidate := b.nearestQualifying(position, radius, prefs.CategoryFilter, candidates, plan)
		if candidate == nil {
			warnings = append(warnings,
				fmt.Sprintf("no refreshment stop found within %.1f km before %s; continuing without a break",
					radius, stop.POI.Name))
			// Reset the anchor so one uncovered gap doesn't warn repeatedly.
			anchor = stop.ArrivalTime

			continue
		}

		visitMinutes := candidate.AvgVisitMinutes
		if visitMinutes <= 0 {
			visitMinutes = b.cfg.BreakVisitMinutes
		}

		breakStop := entity.SequencedStop{
			POI:           candidate,
			VisitMinutes:  visitMinutes,
			IsCoffeeBreak: true,
			IsOpen:        true,
		}
		plan.Stops = slices.Insert(plan.Stops, i, breakStop)

		if err := plan.rebuild(ctx, b.resolver); err != nil {
			// Roll the insertion back; a break is never worth failing the route.
			plan.Stops = slices.Delete(plan.Stops, i, i+1)
			_ = plan.rebuild(ctx, b.resolver)
			warnings = append(warnings,
				fmt.Sprintf("could not route through break stop %s; skipped", candidate.Name))
			anchor = stop.ArrivalTime

			continue
		}

		anchor = plan.Stops[i].LeaveTime
	}

	return warnings
}

// intervalMinutes picks the target break interval: explicit preference
// first, then the shortened coffee-affinity default, then the engine
// default.
func (b *breakInserter) intervalMinutes(prefs entity.BreakPreference) float64 {
	if prefs.IntervalMinutes > 0 {
		return float64(prefs.IntervalMinutes)
	}
	if prefs.HighCoffeeAffinity {
		return float64(b.cfg.CoffeeAffinityIntervalMinutes)
	}

	return float64(b.cfg.BreakIntervalMinutes)
}

// nearestQualifying returns the closest break candidate to the current
// position within the radius that passes the category filter and is not
// already on the route. Ties resolve by identifier.
func (b *breakInserter) nearestQualifying(
	position entity.Location,
	radiusKm float64,
	categoryFilter []string,
	candidates []*entity.POICandidate,
	plan *routePlan,
) *entity.POICandidate {
	var best *entity.POICandidate
	bestDistance := math.Inf(1)

	for _, candidate := range candidates {
		if len(categoryFilter) > 0 && !slices.Contains(categoryFilter, candidate.Category) {
			continue
		}
		if plan.containsPOI(candidate.ID) {
			continue
		}

		distance := util.DistanceKm(position, candidate.Location)
		if distance > radiusKm {
			continue
		}
		if distance < bestDistance || (distance == bestDistance && best != nil && candidate.ID < best.ID) {
			best = candidate
			bestDistance = distance
		}
	}

	return best
}
