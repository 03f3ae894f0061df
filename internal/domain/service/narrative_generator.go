package service

import (
	"context"

	"stroll/internal/domain/entity"
)

// Narrative is the text produced for a finished itinerary.
type Narrative struct {
	// Summary is the trip-level description.
	Summary string
	// Rationales maps POI id to the reason the stop was picked.
	Rationales map[string]string
	// Tips maps POI id to a practical visiting tip.
	Tips map[string]string
}

// NarrativeGenerator defines the interface for producing the natural
// language layer of a response. It runs after the core assembly and must
// never block it; callers bound it with its own deadline and fall back to
// placeholders on failure.
type NarrativeGenerator interface {
	Generate(ctx context.Context, itinerary *entity.Itinerary) (*Narrative, error)
}
