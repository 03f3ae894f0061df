// Package entity contains the core business objects of the project.
package entity

import "time"

// SocialMode describes who the user is walking with. It modifies category
// weighting during ranking.
type SocialMode string

const (
	SocialModeSolo    SocialMode = "solo"
	SocialModeFriends SocialMode = "friends"
	SocialModeFamily  SocialMode = "family"
)

// Valid reports whether the social mode is one of the known values.
func (m SocialMode) Valid() bool {
	switch m {
	case SocialModeSolo, SocialModeFriends, SocialModeFamily:
		return true
	}

	return false
}

// Intensity describes the desired pacing of the trip.
type Intensity string

const (
	IntensityRelaxed Intensity = "relaxed"
	IntensityMedium  Intensity = "medium"
	IntensityIntense Intensity = "intense"
)

// Valid reports whether the intensity is one of the known values.
func (i Intensity) Valid() bool {
	switch i {
	case IntensityRelaxed, IntensityMedium, IntensityIntense:
		return true
	}

	return false
}

// BreakPreference controls adaptive refreshment-stop insertion.
type BreakPreference struct {
	Enabled bool `json:"enabled"`
	// IntervalMinutes is the target elapsed time between breaks.
	// Zero means "use the engine default".
	IntervalMinutes int `json:"interval_minutes"`
	// HighCoffeeAffinity shortens the interval for users who flagged a
	// strong coffee preference upstream.
	HighCoffeeAffinity bool `json:"high_coffee_affinity"`
	// CategoryFilter restricts break candidates to matching categories
	// (e.g. "cafe", "tea_house"). Empty means any refreshment category.
	CategoryFilter []string `json:"category_filter,omitempty"`
	// SearchRadiusKm bounds how far off the route a break candidate may be.
	SearchRadiusKm float64 `json:"search_radius_km"`
}

// UserIntent is the immutable per-request description of what the user
// wants out of the walk. The embedding is produced upstream by the
// embedding provider and has the same dimension as POI embeddings.
type UserIntent struct {
	Embedding     []float64
	SocialMode    SocialMode
	Intensity     Intensity
	BudgetMinutes int
	Start         Location
	StartTime     time.Time
	Breaks        BreakPreference
}
