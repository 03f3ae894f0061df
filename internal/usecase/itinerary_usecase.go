package usecase

import (
	"context"
	"time"

	"stroll/internal/domain/entity"
)

// PlanItineraryInput is the logical planning request consumed by the
// itinerary assembler. Free-text fields are resolved through the
// collaborator ports before the engine runs.
type PlanItineraryInput struct {
	// Interests is the user's free-text description, converted to an
	// intent vector through the embedding provider.
	Interests string `json:"interests"`

	// IntentVector short-circuits embedding when the caller already has a
	// vector (tests, batch tooling).
	IntentVector []float64 `json:"intent_vector,omitempty"`

	// Categories filters the candidate pool; empty means all.
	Categories []string `json:"categories,omitempty"`

	BudgetMinutes int `json:"budget_minutes"`

	// Start is the trip origin. When nil, Address is resolved through the
	// geocoder.
	Start   *entity.Location `json:"start,omitempty"`
	Address string           `json:"address,omitempty"`

	SocialMode entity.SocialMode      `json:"social_mode"`
	Intensity  entity.Intensity       `json:"intensity"`
	Breaks     entity.BreakPreference `json:"breaks"`

	StartTime time.Time `json:"start_time"`
	// TimeZone is the IANA zone used to normalize all timestamps.
	TimeZone string `json:"time_zone"`
}

// ItineraryUsecase defines the interface for itinerary assembly use cases
type ItineraryUsecase interface {
	// PlanItinerary assembles a time-bounded walking itinerary for the
	// given request. Recoverable deviations surface in the itinerary
	// warnings list; only input validation, ranker input errors, and an
	// insufficient candidate pool abort the request.
	PlanItinerary(ctx context.Context, input *PlanItineraryInput) (*entity.Itinerary, error)
}

// LegResolver is the engine-facing port of the leg resolver adapter.
// Lookups degrade to great-circle estimates on provider failure but never
// return a hard error for a resolvable pair of coordinates.
type LegResolver interface {
	// Leg resolves the travel segment between two locations.
	Leg(ctx context.Context, from, to entity.Location) (*entity.RouteLeg, error)

	// Prefetch warms the leg cache for the pairwise combinations of the
	// given points, bounded concurrently. Best effort; errors are absorbed
	// into per-leg estimates.
	Prefetch(ctx context.Context, points []entity.Location)
}
