package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stroll/config"
	"stroll/internal/domain/entity"
	domainerrors "stroll/internal/domain/errors"
	"stroll/internal/domain/repository"
	"stroll/internal/domain/service"
	"stroll/internal/usecase"
	"stroll/internal/util"

	"go.uber.org/fx"
)

const defaultNarrativeTimeout = 2 * time.Second

// defaultBreakCategories is used when the break preference has no explicit
// category filter.
var defaultBreakCategories = []string{"cafe", "tea_house", "bakery"}

// ItineraryServiceParams holds dependencies for the itinerary service, injected by Fx.
type ItineraryServiceParams struct {
	fx.In

	Config   *config.Config
	Logger   *slog.Logger
	POIRepo  repository.POIRepository
	Embedder service.EmbeddingProvider
	Geocoder service.Geocoder
	Narrator service.NarrativeGenerator
	Resolver usecase.LegResolver
}

// itineraryService implements the ItineraryUsecase interface. One call to
// PlanItinerary runs the linear pipeline
// Ranked → Sequenced → BreaksInserted → LegsResolved → AvailabilityChecked → Final,
// bounded by the assembly deadline.
type itineraryService struct {
	cfg      *config.Config
	logger   *slog.Logger
	poiRepo  repository.POIRepository
	embedder service.EmbeddingProvider
	geocoder service.Geocoder
	narrator service.NarrativeGenerator
	resolver usecase.LegResolver

	ranker    *ranker
	sequencer *sequencer
	breaks    *breakInserter
	guard     *availabilityGuard
}

// NewItineraryService creates a new itinerary service instance
func NewItineraryService(params ItineraryServiceParams) usecase.ItineraryUsecase {
	assembly := params.Config.Assembly

	return &itineraryService{
		cfg:       params.Config,
		logger:    params.Logger,
		poiRepo:   params.POIRepo,
		embedder:  params.Embedder,
		geocoder:  params.Geocoder,
		narrator:  params.Narrator,
		resolver:  params.Resolver,
		ranker:    newRanker(params.Config.Weights),
		sequencer: newSequencer(assembly, params.Resolver),
		breaks:    newBreakInserter(assembly, params.Resolver),
		guard:     newAvailabilityGuard(assembly, params.Resolver),
	}
}

// PlanItinerary assembles a walking itinerary for one request.
func (s *itineraryService) PlanItinerary(ctx context.Context, input *usecase.PlanItineraryInput) (*entity.Itinerary, error) {
	intent, err := s.buildIntent(ctx, input)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Assembly.Deadline)
	defer cancel()

	started := time.Now()

	candidates, err := s.poiRepo.FindCandidates(ctx, repository.CandidateQuery{
		Center:     intent.Start,
		RadiusKm:   s.cfg.Assembly.SearchRadiusKm,
		Categories: input.Categories,
		Limit:      s.cfg.Assembly.CandidateLimit,
	})
	if err != nil {
		return nil, err
	}

	// Ranked
	ranked, err := s.ranker.Rank(intent, candidates)
	if err != nil {
		return nil, err
	}

	// Warm the leg cache for the pairs the sequencer is about to consider.
	points := make([]entity.Location, 0, len(ranked)+1)
	points = append(points, intent.Start)
	for _, c := range ranked {
		points = append(points, c.POI.Location)
	}
	s.resolver.Prefetch(ctx, points)

	// Sequenced
	plan, err := s.sequencer.Sequence(ctx, intent.Start, intent.StartTime, intent.BudgetMinutes, ranked)
	if err != nil {
		return nil, err
	}

	var warnings []string

	// BreaksInserted
	if intent.Breaks.Enabled {
		breakCandidates, berr := s.findBreakCandidates(ctx, intent)
		if berr != nil {
			warnings = append(warnings, "refreshment stop lookup failed; continuing without breaks")
		} else {
			warnings = append(warnings, s.breaks.Insert(ctx, plan, intent.Breaks, breakCandidates)...)
		}
	}

	// AvailabilityChecked
	warnings = append(warnings, s.guard.Check(ctx, plan, ranked)...)

	// LegsResolved happens incrementally through the resolver; count the
	// estimation fallback after the last rebuild so legs introduced by
	// availability substitutions are covered too.
	estimated := 0
	for _, leg := range plan.Legs {
		if leg.Estimated {
			estimated++
		}
	}
	if estimated > 0 {
		warnings = append(warnings,
			fmt.Sprintf("%d of %d travel legs use straight-line estimates; actual walking times may differ", estimated, len(plan.Legs)))
	}

	if plan.TotalMinutes > float64(intent.BudgetMinutes) {
		warnings = append(warnings,
			fmt.Sprintf("planned route runs %.0f minutes, %.0f over the requested budget", plan.TotalMinutes, plan.TotalMinutes-float64(intent.BudgetMinutes)))
	}
	if ctx.Err() != nil {
		warnings = append(warnings, "planning deadline reached; returning the best plan found so far")
	}

	// Final
	itinerary := &entity.Itinerary{
		Stops:           plan.Stops,
		Legs:            plan.Legs,
		TotalMinutes:    plan.TotalMinutes,
		TotalDistanceKm: plan.TotalDistanceKm,
		Warnings:        warnings,
		StartTime:       intent.StartTime,
	}
	s.applyNarrative(ctx, itinerary)

	s.logger.Info("Itinerary assembled",
		slog.Int("stops", len(itinerary.Stops)),
		slog.Int("primaryStops", itinerary.PrimaryStopCount()),
		slog.String("totalTime", util.FormatDuration(minutesToDuration(itinerary.TotalMinutes))),
		slog.Int("warnings", len(itinerary.Warnings)),
		slog.Duration("elapsed", time.Since(started)),
	)

	return itinerary, nil
}

// buildIntent validates the request and resolves free-text fields into the
// immutable per-request intent.
func (s *itineraryService) buildIntent(ctx context.Context, input *usecase.PlanItineraryInput) (*entity.UserIntent, error) {
	if input == nil {
		return nil, domainerrors.ErrInputValidation
	}
	if input.BudgetMinutes <= 0 {
		return nil, domainerrors.ErrInvalidTimeBudget
	}
	if !input.SocialMode.Valid() {
		return nil, domainerrors.ErrInputValidation.WithDetails("unknown social mode: " + string(input.SocialMode))
	}
	if !input.Intensity.Valid() {
		return nil, domainerrors.ErrInputValidation.WithDetails("unknown intensity: " + string(input.Intensity))
	}

	location, err := s.resolveStart(ctx, input)
	if err != nil {
		return nil, err
	}

	zone := time.UTC
	if input.TimeZone != "" {
		zone, err = time.LoadLocation(input.TimeZone)
		if err != nil {
			return nil, domainerrors.ErrInvalidTimeZone.WithDetails(input.TimeZone)
		}
	}

	startTime := input.StartTime
	if startTime.IsZero() {
		startTime = time.Now()
	}
	startTime = startTime.In(zone)

	vector := input.IntentVector
	if len(vector) == 0 {
		vector, err = s.embedder.Embed(ctx, input.Interests)
		if err != nil {
			return nil, domainerrors.ErrEmbeddingFailed.WithDetails(err.Error())
		}
	}

	return &entity.UserIntent{
		Embedding:     vector,
		SocialMode:    input.SocialMode,
		Intensity:     input.Intensity,
		BudgetMinutes: input.BudgetMinutes,
		Start:         location,
		StartTime:     startTime,
		Breaks:        input.Breaks,
	}, nil
}

// resolveStart returns the trip origin, geocoding the address when no
// coordinates were supplied.
func (s *itineraryService) resolveStart(ctx context.Context, input *usecase.PlanItineraryInput) (entity.Location, error) {
	if input.Start != nil {
		if !input.Start.Valid() {
			return entity.Location{}, domainerrors.ErrInvalidCoordinates
		}

		return *input.Start, nil
	}

	if input.Address == "" {
		return entity.Location{}, domainerrors.ErrInputValidation.WithDetails("either start coordinates or an address is required")
	}

	location, err := s.geocoder.Geocode(ctx, input.Address)
	if err != nil {
		return entity.Location{}, domainerrors.ErrGeocodeFailed.WithDetails(input.Address)
	}

	return location, nil
}

// findBreakCandidates pulls refreshment POIs around the start location.
func (s *itineraryService) findBreakCandidates(ctx context.Context, intent *entity.UserIntent) ([]*entity.POICandidate, error) {
	categories := intent.Breaks.CategoryFilter
	if len(categories) == 0 {
		categories = defaultBreakCategories
	}

	return s.poiRepo.FindCandidates(ctx, repository.CandidateQuery{
		Center:     intent.Start,
		RadiusKm:   s.cfg.Assembly.SearchRadiusKm,
		Categories: categories,
		Limit:      s.cfg.Assembly.CandidateLimit,
	})
}

// applyNarrative fills the summary and per-stop text slots. The generator
// gets its own bounded context so a slow or failing narrative layer never
// blocks or voids the assembled result.
func (s *itineraryService) applyNarrative(ctx context.Context, itinerary *entity.Itinerary) {
	timeout := defaultNarrativeTimeout
	if s.cfg.Narrative != nil && s.cfg.Narrative.Timeout > 0 {
		timeout = s.cfg.Narrative.Timeout
	}

	narrativeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	narrative, err := s.narrator.Generate(narrativeCtx, itinerary)
	if err != nil {
		itinerary.Summary = fmt.Sprintf("A %d-stop walk starting at %s.",
			itinerary.PrimaryStopCount(), itinerary.StartTime.Format("15:04"))
		itinerary.Warn("narrative generation unavailable; using placeholder text")

		return
	}

	itinerary.Summary = narrative.Summary
	for i := range itinerary.Stops {
		stop := &itinerary.Stops[i]
		stop.Rationale = narrative.Rationales[stop.POI.ID]
		stop.Tip = narrative.Tips[stop.POI.ID]
	}
}
