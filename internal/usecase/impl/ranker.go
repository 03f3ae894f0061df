package impl

import (
	"fmt"
	"math"
	"sort"

	"stroll/config"
	"stroll/internal/domain/entity"
	domainerrors "stroll/internal/domain/errors"
)

// ranker scores POI candidates against the user intent vector.
type ranker struct {
	weights *config.WeightsConfig
}

func newRanker(weights *config.WeightsConfig) *ranker {
	return &ranker{weights: weights}
}

// Rank produces a descending-score list of candidates. Scoring is
// cosine similarity times the bounded social and intensity multipliers for
// the candidate's category. Pure function of its inputs.
func (r *ranker) Rank(intent *entity.UserIntent, candidates []*entity.POICandidate) ([]entity.ScoredCandidate, error) {
	if len(candidates) == 0 {
		return nil, domainerrors.ErrEmptyCandidateSet
	}

	scored := make([]entity.ScoredCandidate, 0, len(candidates))
	for _, poi := range candidates {
		if len(poi.Embedding) != len(intent.Embedding) {
			return nil, domainerrors.ErrDimensionMismatch.WithDetails(
				fmt.Sprintf("intent dimension %d, poi %s dimension %d",
					len(intent.Embedding), poi.ID, len(poi.Embedding)))
		}

		similarity := cosineSimilarity(intent.Embedding, poi.Embedding)
		socialMult := r.weights.SocialMultiplier(string(intent.SocialMode), poi.Category)
		intensityMult := r.weights.IntensityMultiplier(string(intent.Intensity), poi.Category)

		scored = append(scored, entity.ScoredCandidate{
			POI:   poi,
			Score: similarity * socialMult * intensityMult,
			Breakdown: entity.ScoreBreakdown{
				Similarity:          similarity,
				SocialMultiplier:    socialMult,
				IntensityMultiplier: intensityMult,
			},
		})
	}

	// Ties resolve by rating, then by identifier, so the ordering is
	// reproducible.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].POI.Rating != scored[j].POI.Rating {
			return scored[i].POI.Rating > scored[j].POI.Rating
		}

		return scored[i].POI.ID < scored[j].POI.ID
	})

	return scored, nil
}

// cosineSimilarity computes the cosine of the angle between two equal
// length vectors. Zero vectors yield zero similarity.
func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
