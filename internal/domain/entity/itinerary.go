package entity

import (
	"time"

	"github.com/paulmach/orb"
)

// ScoreBreakdown records how a candidate's score was derived so the result
// stays explainable.
type ScoreBreakdown struct {
	Similarity          float64 `json:"similarity"`
	SocialMultiplier    float64 `json:"social_multiplier"`
	IntensityMultiplier float64 `json:"intensity_multiplier"`
}

// ScoredCandidate is a POI candidate with its ranking score attached.
// Produced by the ranker, consumed and discarded within one request.
type ScoredCandidate struct {
	POI       *POICandidate
	Score     float64
	Breakdown ScoreBreakdown
}

// TravelMode identifies how a leg is traversed.
type TravelMode string

const (
	TravelModeWalk    TravelMode = "walk"
	TravelModeTransit TravelMode = "transit"
)

// RouteLeg is the travel segment between two consecutive stops, including
// the segment from the start location to the first stop.
type RouteLeg struct {
	From        Location   `json:"from"`
	To          Location   `json:"to"`
	DistanceKm  float64    `json:"distance_km"`
	DurationMin float64    `json:"duration_min"`
	Mode        TravelMode `json:"mode"`
	// Geometry is the resolved path, when the provider returned one.
	Geometry orb.LineString `json:"geometry,omitempty"`
	// TransitDetail carries line/maneuver info for transit legs.
	TransitDetail string `json:"transit_detail,omitempty"`
	// Estimated marks legs computed by the great-circle fallback instead of
	// the geometry provider.
	Estimated bool `json:"estimated"`
}

// SequencedStop is a POI placed on the timeline. Order indices are
// contiguous starting at 1. LeaveTime is always ArrivalTime plus the visit
// duration.
type SequencedStop struct {
	Order         int
	POI           *POICandidate
	VisitMinutes  int
	ArrivalTime   time.Time
	LeaveTime     time.Time
	IsCoffeeBreak bool
	IsOpen        bool
	// Rationale and Tip are filled by the narrative generator after the
	// core assembly finishes.
	Rationale string
	Tip       string
	Score     float64
}

// VisitDuration is the time spent at the stop.
func (s SequencedStop) VisitDuration() time.Duration {
	return s.LeaveTime.Sub(s.ArrivalTime)
}

// Itinerary is the final assembled result of one planning request.
type Itinerary struct {
	Summary         string
	Stops           []SequencedStop
	Legs            []RouteLeg
	TotalMinutes    float64
	TotalDistanceKm float64
	Warnings        []string
	StartTime       time.Time
}

// PrimaryStopCount counts stops that are not inserted coffee breaks.
func (it *Itinerary) PrimaryStopCount() int {
	count := 0
	for _, s := range it.Stops {
		if !s.IsCoffeeBreak {
			count++
		}
	}

	return count
}

// Warn appends a user-visible warning to the itinerary.
func (it *Itinerary) Warn(msg string) {
	it.Warnings = append(it.Warnings, msg)
}

// RouteGeometry concatenates the leg geometries into a single line for the
// response, skipping legs the provider could not trace.
func (it *Itinerary) RouteGeometry() orb.LineString {
	var line orb.LineString
	for _, leg := range it.Legs {
		line = append(line, leg.Geometry...)
	}

	return line
}
