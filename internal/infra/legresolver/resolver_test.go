package legresolver

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"stroll/config"
	"stroll/internal/domain/entity"
	"stroll/internal/infra/cache"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	calls atomic.Int32
	fail  bool
	leg   *entity.RouteLeg
}

func (f *fakeProvider) GetLeg(_ context.Context, from, to entity.Location, mode entity.TravelMode) (*entity.RouteLeg, error) {
	f.calls.Add(1)
	if f.fail {
		return nil, errors.New("provider down")
	}

	leg := *f.leg
	leg.From = from
	leg.To = to
	leg.Mode = mode

	return &leg, nil
}

func newTestResolver(provider *fakeProvider) *resolver {
	cfg := &config.LegResolverConfig{
		CallTimeout:           50 * time.Millisecond,
		RetryBackoff:          time.Millisecond,
		MaxInFlight:           4,
		WalkSpeedKmh:          4.5,
		FallbackBufferMinutes: 5,
		CacheTTL:              time.Minute,
	}

	return &resolver{
		cfg:      cfg,
		logger:   slog.Default(),
		provider: provider,
		cache:    cache.NewLegCache(cfg.CacheTTL),
	}
}

func TestResolver_ProviderResultIsUsed(t *testing.T) {
	provider := &fakeProvider{leg: &entity.RouteLeg{DistanceKm: 1.2, DurationMin: 16}}
	r := newTestResolver(provider)

	leg, err := r.Leg(context.Background(), entity.Location{Lat: 25.03, Lng: 121.56}, entity.Location{Lat: 25.04, Lng: 121.56})
	require.NoError(t, err)

	assert.False(t, leg.Estimated)
	assert.Equal(t, 16.0, leg.DurationMin)
}

func TestResolver_FallsBackToEstimateAfterRetry(t *testing.T) {
	provider := &fakeProvider{fail: true}
	r := newTestResolver(provider)

	from := entity.Location{Lat: 25.0330, Lng: 121.5654}
	to := entity.Location{Lat: 25.0425, Lng: 121.5649}

	leg, err := r.Leg(context.Background(), from, to)
	require.NoError(t, err)

	// One call plus one retry before degrading.
	assert.Equal(t, int32(2), provider.calls.Load())
	assert.True(t, leg.Estimated)
	assert.Greater(t, leg.DistanceKm, 0.0)

	// Duration is distance at walking speed plus the fixed buffer.
	expected := leg.DistanceKm/4.5*60 + 5
	assert.InDelta(t, expected, leg.DurationMin, 1e-9)
}

func TestResolver_RepeatedLookupsHitTheCache(t *testing.T) {
	provider := &fakeProvider{leg: &entity.RouteLeg{DistanceKm: 0.5, DurationMin: 7}}
	r := newTestResolver(provider)

	from := entity.Location{Lat: 25.0, Lng: 121.5}
	to := entity.Location{Lat: 25.01, Lng: 121.5}

	for i := 0; i < 5; i++ {
		_, err := r.Leg(context.Background(), from, to)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestResolver_InvalidCoordinatesAreRejected(t *testing.T) {
	provider := &fakeProvider{leg: &entity.RouteLeg{}}
	r := newTestResolver(provider)

	_, err := r.Leg(context.Background(), entity.Location{Lat: 95, Lng: 0}, entity.Location{Lat: 0, Lng: 0})
	assert.Error(t, err)
	assert.Equal(t, int32(0), provider.calls.Load())
}

func TestResolver_PrefetchWarmsPairs(t *testing.T) {
	provider := &fakeProvider{leg: &entity.RouteLeg{DistanceKm: 0.3, DurationMin: 4}}
	r := newTestResolver(provider)

	points := []entity.Location{
		{Lat: 25.00, Lng: 121.50},
		{Lat: 25.01, Lng: 121.51},
		{Lat: 25.02, Lng: 121.52},
	}
	r.Prefetch(context.Background(), points)

	// All ordered pairs resolved once.
	assert.Equal(t, int32(6), provider.calls.Load())

	// Subsequent lookups are cache hits.
	_, err := r.Leg(context.Background(), points[0], points[1])
	require.NoError(t, err)
	assert.Equal(t, int32(6), provider.calls.Load())
}
