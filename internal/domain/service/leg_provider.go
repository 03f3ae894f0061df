package service

import (
	"context"

	"stroll/internal/domain/entity"
)

// LegProvider defines the interface for the external geometry provider that
// computes point-to-point travel distance, duration, and path. Provider
// failures are expected; the leg resolver adapter recovers with a
// great-circle estimate and never propagates them as hard errors.
type LegProvider interface {
	// GetLeg resolves a single leg between two locations.
	GetLeg(ctx context.Context, from, to entity.Location, mode entity.TravelMode) (*entity.RouteLeg, error)
}

// LegCache is the read-mostly cache consulted by the leg resolver adapter.
// Concurrent readers are always safe; fills use an insert-if-absent
// discipline so concurrent misses for one key converge to a single value.
type LegCache interface {
	// Get returns the cached leg for a key, or false when absent/expired.
	Get(key string) (*entity.RouteLeg, bool)

	// GetOrFill returns the cached leg for a key, computing and storing it
	// through fill on a miss. Concurrent callers for the same key share one
	// fill.
	GetOrFill(key string, fill func() (*entity.RouteLeg, error)) (*entity.RouteLeg, error)
}
