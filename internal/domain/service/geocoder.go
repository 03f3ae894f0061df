package service

import (
	"context"

	"stroll/internal/domain/entity"
	"stroll/internal/errors"
)

// ErrAddressNotResolved is returned when the geocoder cannot resolve an
// address to coordinates.
var ErrAddressNotResolved = errors.New("address could not be resolved")

// Geocoder defines the interface for resolving free-text addresses to
// coordinates.
type Geocoder interface {
	// Geocode resolves an address string to a coordinate pair.
	// Returns ErrAddressNotResolved when no match is found.
	Geocode(ctx context.Context, address string) (entity.Location, error)
}
