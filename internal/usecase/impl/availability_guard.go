package impl

import (
	"context"
	"fmt"

	"stroll/config"
	"stroll/internal/domain/entity"
	"stroll/internal/usecase"
	"stroll/internal/util"
)

// availabilityGuard validates that every primary stop is open at its
// computed arrival time and substitutes closed stops with the next-best
// unused candidate of the same category. Substitution is bounded; on
// exhaustion the original stop is kept with is_open=false and a warning.
type availabilityGuard struct {
	cfg      *config.AssemblyConfig
	resolver usecase.LegResolver
}

func newAvailabilityGuard(cfg *config.AssemblyConfig, resolver usecase.LegResolver) *availabilityGuard {
	return &availabilityGuard{cfg: cfg, resolver: resolver}
}

// Check walks the route front to back. Substituting a stop rebuilds the
// timeline, so downstream stops are re-evaluated against their shifted
// arrival times as the walk continues. Breaks are exempt.
func (g *availabilityGuard) Check(
	ctx context.Context,
	plan *routePlan,
	ranked []entity.ScoredCandidate,
) []string {
	var warnings []string

	for i := 0; i < len(plan.Stops); i++ {
		if ctx.Err() != nil {
			break
		}

		stop := &plan.Stops[i]
		if stop.IsCoffeeBreak {
			continue
		}
		if stop.POI.Hours.IsOpen(stop.ArrivalTime) {
			stop.IsOpen = true

			continue
		}

		warning, substituted := g.substitute(ctx, plan, i, ranked)
		if !substituted {
			stop = &plan.Stops[i] // plan may have been rebuilt during attempts
			stop.IsOpen = false
			warning = fmt.Sprintf("%s is closed at the planned arrival time (%s) and no open replacement was found; schedule may need adjusting",
				stop.POI.Name, stop.ArrivalTime.Format("15:04"))
		}
		warnings = append(warnings, warning)
	}

	return warnings
}

// substitute tries up to the configured number of same-category backups
// for the stop at index i, highest score first. Each attempt replaces the
// stop, rebuilds the timeline, and accepts only if the backup is open at
// its own recomputed arrival time.
func (g *availabilityGuard) substitute(
	ctx context.Context,
	plan *routePlan,
	i int,
	ranked []entity.ScoredCandidate,
) (string, bool) {
	original := plan.Stops[i]
	attempts := 0

	for _, candidate := range ranked {
		if attempts >= g.cfg.SubstitutionAttempts {
			break
		}
		if candidate.POI.Category != original.POI.Category {
			continue
		}
		if plan.containsPOI(candidate.POI.ID) {
			continue
		}
		if util.DistanceKm(original.POI.Location, candidate.POI.Location) > g.cfg.SubstitutionRadiusKm {
			continue
		}

		attempts++

		plan.Stops[i].POI = candidate.POI
		plan.Stops[i].VisitMinutes = candidate.POI.AvgVisitMinutes
		plan.Stops[i].Score = candidate.Score
		plan.Stops[i].IsOpen = true

		if err := plan.rebuild(ctx, g.resolver); err != nil {
			continue
		}
		if plan.Stops[i].POI.Hours.IsOpen(plan.Stops[i].ArrivalTime) {
			return fmt.Sprintf("%s is closed at the planned arrival time; replaced with %s",
				original.POI.Name, candidate.POI.Name), true
		}
	}

	// Every attempt failed: restore the original stop and timeline.
	plan.Stops[i] = original
	_ = plan.rebuild(ctx, g.resolver)

	return "", false
}
