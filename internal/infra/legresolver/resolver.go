// Package legresolver adapts the external geometry provider to the
// engine's leg lookup port. Provider failures degrade into great-circle
// estimates; resolution never hard-fails for valid coordinates.
package legresolver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stroll/config"
	"stroll/internal/domain/entity"
	"stroll/internal/domain/service"
	"stroll/internal/usecase"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

// prefetchPointCap bounds how many points a single warm-up covers. The
// sequencer picks almost exclusively from the top of the ranked list, so
// warming every pairwise combination of a large pool wastes provider quota.
const prefetchPointCap = 10

// ResolverParams holds dependencies for the leg resolver, injected by Fx.
type ResolverParams struct {
	fx.In

	Config   *config.Config
	Logger   *slog.Logger
	Provider service.LegProvider
	Cache    service.LegCache
}

type resolver struct {
	cfg      *config.LegResolverConfig
	logger   *slog.Logger
	provider service.LegProvider
	cache    service.LegCache
}

// NewResolver creates the leg resolver adapter.
func NewResolver(params ResolverParams) usecase.LegResolver {
	return &resolver{
		cfg:      params.Config.LegResolver,
		logger:   params.Logger,
		provider: params.Provider,
		cache:    params.Cache,
	}
}

// Leg resolves one travel segment, serving repeated (from, to, mode) keys
// from the cache within its TTL.
func (r *resolver) Leg(ctx context.Context, from, to entity.Location) (*entity.RouteLeg, error) {
	if !from.Valid() || !to.Valid() {
		return nil, errors.New("leg endpoints outside valid coordinate bounds")
	}

	key := legKey(from, to, entity.TravelModeWalk)

	return r.cache.GetOrFill(key, func() (*entity.RouteLeg, error) {
		return r.fetch(ctx, from, to), nil
	})
}

// Prefetch warms the cache for the pairwise legs of the given points with
// a bounded number of in-flight provider calls. Best effort.
func (r *resolver) Prefetch(ctx context.Context, points []entity.Location) {
	if len(points) > prefetchPointCap {
		points = points[:prefetchPointCap]
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.cfg.MaxInFlight)

	for i := range points {
		for j := range points {
			if i == j {
				continue
			}

			from, to := points[i], points[j]
			group.Go(func() error {
				_, _ = r.Leg(groupCtx, from, to)

				return nil
			})
		}
	}

	_ = group.Wait()
}

// fetch calls the provider with a per-call timeout and a single retry with
// backoff, then falls back to the estimated leg. It never returns nil.
func (r *resolver) fetch(ctx context.Context, from, to entity.Location) *entity.RouteLeg {
	leg, err := r.callProvider(ctx, from, to)
	if err == nil {
		return leg
	}

	select {
	case <-time.After(r.cfg.RetryBackoff):
	case <-ctx.Done():
		return r.estimate(from, to)
	}

	leg, retryErr := r.callProvider(ctx, from, to)
	if retryErr == nil {
		return leg
	}

	r.logger.Warn("Leg provider unavailable, using great-circle estimate",
		slog.String("error", retryErr.Error()),
	)

	return r.estimate(from, to)
}

func (r *resolver) callProvider(ctx context.Context, from, to entity.Location) (*entity.RouteLeg, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.cfg.CallTimeout)
	defer cancel()

	leg, err := r.provider.GetLeg(callCtx, from, to, entity.TravelModeWalk)
	if err != nil {
		return nil, err
	}

	return leg, nil
}

// estimate builds the straight-line fallback leg: great-circle distance at
// the configured walking speed plus a fixed buffer, marked estimated.
func (r *resolver) estimate(from, to entity.Location) *entity.RouteLeg {
	distanceKm := geo.Distance(orb.Point{from.Lng, from.Lat}, orb.Point{to.Lng, to.Lat}) / 1000.0
	durationMin := distanceKm/r.cfg.WalkSpeedKmh*60 + r.cfg.FallbackBufferMinutes

	return &entity.RouteLeg{
		From:        from,
		To:          to,
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Mode:        entity.TravelModeWalk,
		Geometry:    orb.LineString{{from.Lng, from.Lat}, {to.Lng, to.Lat}},
		Estimated:   true,
	}
}

func legKey(from, to entity.Location, mode entity.TravelMode) string {
	return fmt.Sprintf("%.6f,%.6f|%.6f,%.6f|%s", from.Lat, from.Lng, to.Lat, to.Lng, mode)
}
