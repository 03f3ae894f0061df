// Package narrative produces the natural language layer of a response
// from templates. It stands in for an LLM-backed generator and keeps the
// same port, so swapping the backend touches only this package.
package narrative

import (
	"context"
	"fmt"
	"strings"

	"stroll/internal/domain/entity"
	"stroll/internal/domain/service"
)

// TemplateGenerator renders summaries, rationales and tips from fixed
// templates keyed by stop category.
type TemplateGenerator struct{}

// NewTemplateGenerator creates the generator.
func NewTemplateGenerator() service.NarrativeGenerator {
	return &TemplateGenerator{}
}

var categoryRationales = map[string]string{
	"cafe":       "A well-rated spot to slow down without leaving the route.",
	"tea_house":  "A calm tea stop that fits naturally between the nearby sights.",
	"bakery":     "A quick, well-loved bakery right along the way.",
	"bar":        "A lively pick that matches the mood of this outing.",
	"landmark":   "A signature sight of the area, close to the rest of the route.",
	"museum":     "A highlight worth the visit time it takes.",
	"park":       "An open stretch to break up the walking.",
	"restaurant": "A solid meal stop placed where hunger tends to hit.",
}

var categoryTips = map[string]string{
	"cafe":     "Seats fill up fast at peak hours; ordering at the counter is quicker.",
	"bar":      "Evenings get crowded, arriving before the rush helps.",
	"landmark": "The best photo angle is usually a short walk past the main entrance.",
	"museum":   "Check for a cloakroom so you can walk the halls unburdened.",
	"park":     "The paths stay pleasant even when the main lawns are busy.",
}

// Generate builds a narrative for the itinerary. It never calls out, so
// errors only come from cancellation.
func (g *TemplateGenerator) Generate(ctx context.Context, itinerary *entity.Itinerary) (*service.Narrative, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	narrative := &service.Narrative{
		Summary:    g.summary(itinerary),
		Rationales: make(map[string]string, len(itinerary.Stops)),
		Tips:       make(map[string]string, len(itinerary.Stops)),
	}

	for _, stop := range itinerary.Stops {
		narrative.Rationales[stop.POI.ID] = g.rationale(stop)
		if tip, ok := categoryTips[stop.POI.Category]; ok {
			narrative.Tips[stop.POI.ID] = tip
		}
	}

	return narrative, nil
}

func (g *TemplateGenerator) summary(itinerary *entity.Itinerary) string {
	names := make([]string, 0, len(itinerary.Stops))
	for _, stop := range itinerary.Stops {
		if !stop.IsCoffeeBreak {
			names = append(names, stop.POI.Name)
		}
	}

	hours := itinerary.TotalMinutes / 60

	return fmt.Sprintf("A %.1f-hour walk through %s, covering %.1f km at an easy pace.",
		hours, joinNames(names), itinerary.TotalDistanceKm)
}

func (g *TemplateGenerator) rationale(stop entity.SequencedStop) string {
	if stop.IsCoffeeBreak {
		return "Placed here so you get a proper pause before the next stretch."
	}

	if r, ok := categoryRationales[stop.POI.Category]; ok {
		return r
	}

	return fmt.Sprintf("A good match for your interests, rated %.1f by visitors.", stop.POI.Rating)
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return "the neighbourhood"
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
