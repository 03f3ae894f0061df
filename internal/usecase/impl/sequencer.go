package impl

import (
	"context"
	"math"
	"time"

	"stroll/config"
	"stroll/internal/domain/entity"
	domainerrors "stroll/internal/domain/errors"
	"stroll/internal/usecase"
)

// timeEpsilon guards float comparisons during 2-opt so a swap must bring a
// real improvement to be accepted.
const timeEpsilon = 1e-6

// sequencer selects and orders a subset of ranked candidates under the
// time budget. The search is a greedy insertion seed followed by a bounded
// 2-opt improvement pass over the chosen subset, then renewed growth
// attempts while the budget allows. Candidate counts are tens at most, so
// this stays low-polynomial and deterministic.
type sequencer struct {
	cfg      *config.AssemblyConfig
	resolver usecase.LegResolver
}

func newSequencer(cfg *config.AssemblyConfig, resolver usecase.LegResolver) *sequencer {
	return &sequencer{cfg: cfg, resolver: resolver}
}

// Sequence builds a feasible, time-annotated route from the ranked
// candidates. Fails with InsufficientCandidates when fewer than the
// configured minimum fit the budget. If the request deadline expires
// mid-search, refinement stops and the best route found so far is
// finalized.
func (s *sequencer) Sequence(
	ctx context.Context,
	start entity.Location,
	startTime time.Time,
	budgetMinutes int,
	ranked []entity.ScoredCandidate,
) (*routePlan, error) {
	matrix := newLegMatrix(s.resolver, start, ranked)
	limit := float64(budgetMinutes + s.cfg.OverrunToleranceMinutes)

	order := s.greedyInsert(ctx, matrix, ranked, nil, limit)

	// Improvement and growth alternate: shorter travel time can free budget
	// for another stop, and a new stop can open better orderings.
	for iter := 0; iter < s.cfg.SwapIterationCap; iter++ {
		if ctx.Err() != nil {
			break
		}

		improved := s.twoOptPass(ctx, matrix, ranked, order, limit)
		grown := s.greedyInsert(ctx, matrix, ranked, order, limit)
		if len(grown) > len(order) {
			order = grown

			continue
		}
		order = grown
		if !improved {
			break
		}
	}

	if len(order) < s.cfg.MinStops {
		// An expired deadline skips candidates wholesale; that is a timing
		// problem, not a pool problem.
		if ctx.Err() != nil {
			return nil, domainerrors.ErrPlanningDeadline
		}

		return nil, domainerrors.ErrInsufficientCandidates
	}

	plan := &routePlan{Start: start, StartTime: startTime}
	plan.Stops = make([]entity.SequencedStop, 0, len(order))
	for _, idx := range order {
		candidate := ranked[idx]
		plan.Stops = append(plan.Stops, entity.SequencedStop{
			POI:          candidate.POI,
			VisitMinutes: candidate.POI.AvgVisitMinutes,
			IsOpen:       true,
			Score:        candidate.Score,
		})
	}

	if err := plan.rebuild(ctx, s.resolver); err != nil {
		return nil, err
	}

	return plan, nil
}

// greedyInsert extends the given order (nil for a fresh seed) by inserting
// the highest-remaining-score candidates at the position that adds the
// least travel time, while the running total stays within the limit.
func (s *sequencer) greedyInsert(
	ctx context.Context,
	matrix *legMatrix,
	ranked []entity.ScoredCandidate,
	seed []int,
	limit float64,
) []int {
	order := append([]int(nil), seed...)
	used := make(map[int]bool, len(order))
	for _, idx := range order {
		used[idx] = true
	}

	for idx := range ranked {
		if len(order) >= s.cfg.MaxStops {
			break
		}
		if used[idx] || ctx.Err() != nil {
			continue
		}

		bestPos := -1
		bestTotal := math.Inf(1)
		for pos := 0; pos <= len(order); pos++ {
			candidate := insertAt(order, pos, idx)
			total, err := s.routeMinutes(ctx, matrix, ranked, candidate)
			if err != nil {
				continue
			}
			if total <= limit && total < bestTotal-timeEpsilon {
				bestPos = pos
				bestTotal = total
			}
		}

		if bestPos >= 0 {
			order = insertAt(order, bestPos, idx)
			used[idx] = true
		}
	}

	return order
}

// twoOptPass applies segment-reversal swaps over the chosen subset until
// no reversal shortens the route. The stop set is fixed within the pass,
// so cumulative score is preserved; shorter routes only improve
// feasibility. Reports whether any swap was accepted.
func (s *sequencer) twoOptPass(
	ctx context.Context,
	matrix *legMatrix,
	ranked []entity.ScoredCandidate,
	order []int,
	limit float64,
) bool {
	if len(order) < 3 {
		return false
	}

	current, err := s.routeMinutes(ctx, matrix, ranked, order)
	if err != nil {
		return false
	}

	accepted := false
	for i := 0; i < len(order)-1; i++ {
		for j := i + 1; j < len(order); j++ {
			if ctx.Err() != nil {
				return accepted
			}

			reverseSegment(order, i, j)
			total, err := s.routeMinutes(ctx, matrix, ranked, order)
			if err == nil && total < current-timeEpsilon && total <= limit {
				current = total
				accepted = true

				continue
			}
			// Revert the reversal.
			reverseSegment(order, i, j)
		}
	}

	return accepted
}

// routeMinutes computes the total elapsed minutes (legs plus visits) for a
// candidate ordering, starting from the trip origin.
func (s *sequencer) routeMinutes(
	ctx context.Context,
	matrix *legMatrix,
	ranked []entity.ScoredCandidate,
	order []int,
) (float64, error) {
	total := 0.0
	prev := 0 // matrix index of the start location
	for _, idx := range order {
		leg, err := matrix.leg(ctx, prev, idx+1)
		if err != nil {
			return 0, err
		}

		total += leg.DurationMin + float64(ranked[idx].POI.AvgVisitMinutes)
		prev = idx + 1
	}

	return total, nil
}

func insertAt(order []int, pos, value int) []int {
	out := make([]int, 0, len(order)+1)
	out = append(out, order[:pos]...)
	out = append(out, value)
	out = append(out, order[pos:]...)

	return out
}

func reverseSegment(order []int, i, j int) {
	for i < j {
		order[i], order[j] = order[j], order[i]
		i++
		j--
	}
}
