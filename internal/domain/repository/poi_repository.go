// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"stroll/internal/domain/entity"
	"stroll/internal/errors"
)

// Domain-specific errors for POI persistence.
var (
	// ErrPOINotFound is returned when a POI is not found.
	ErrPOINotFound = errors.New("poi not found")
)

// CandidateQuery describes a candidate search against the POI store.
type CandidateQuery struct {
	// Center of the search, usually the trip start location.
	Center entity.Location
	// RadiusKm bounds the search area.
	RadiusKm float64
	// Categories restricts results; empty means all categories.
	Categories []string
	// Limit caps the number of returned candidates. Zero means the store
	// default.
	Limit int
}

// POIRepository defines the interface for POI store access. Returned
// candidates include embeddings and opening-hours data and are treated as
// read-only snapshots by the engine.
type POIRepository interface {
	// FindCandidates retrieves candidate POIs around a location, filtered
	// by category, ordered by rating descending then ID for determinism.
	FindCandidates(ctx context.Context, query CandidateQuery) ([]*entity.POICandidate, error)

	// FindByID retrieves a single POI by its identifier.
	// Returns ErrPOINotFound if no such POI exists.
	FindByID(ctx context.Context, id string) (*entity.POICandidate, error)
}
