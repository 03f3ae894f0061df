package postgres

import (
	"context"
	"math"

	"stroll/internal/domain/entity"
	domainerrors "stroll/internal/domain/errors"
	"stroll/internal/domain/repository"
	"stroll/internal/infra/persistence/model"
	"stroll/internal/util"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const defaultCandidateLimit = 40

// poiRepository implements the domain.POIRepository interface.
type poiRepository struct {
	db *gorm.DB
}

// NewPOIRepository is the constructor for poiRepository.
func NewPOIRepository(db *gorm.DB) repository.POIRepository {
	return &poiRepository{db: db}
}

// FindCandidates retrieves candidate POIs around a location. The query
// prefilters on a bounding box so the index is used, then the exact
// great-circle distance trims the corners. Ordering is rating descending
// then ID ascending so equal inputs return equal result sets.
func (repo *poiRepository) FindCandidates(ctx context.Context, query repository.CandidateQuery) ([]*entity.POICandidate, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultCandidateLimit
	}

	latDelta, lngDelta := boundingBoxDeltas(query.Center, query.RadiusKm)

	tx := repo.db.WithContext(ctx).
		Where("latitude BETWEEN ? AND ?", query.Center.Lat-latDelta, query.Center.Lat+latDelta).
		Where("longitude BETWEEN ? AND ?", query.Center.Lng-lngDelta, query.Center.Lng+lngDelta)
	if len(query.Categories) > 0 {
		tx = tx.Where("category IN ?", query.Categories)
	}

	var poiModels []*model.POIModel
	if err := tx.Order("rating DESC, id ASC").Find(&poiModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find POI candidates")
	}

	candidates := make([]*entity.POICandidate, 0, len(poiModels))
	for _, poiM := range poiModels {
		candidate := toPOIDomain(poiM)
		if util.DistanceKm(query.Center, candidate.Location) > query.RadiusKm {
			continue
		}

		candidates = append(candidates, candidate)
		if len(candidates) == limit {
			break
		}
	}

	return candidates, nil
}

// FindByID retrieves a single POI by its identifier.
func (repo *poiRepository) FindByID(ctx context.Context, id string) (*entity.POICandidate, error) {
	var poiM model.POIModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&poiM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPOINotFound
		}

		return nil, errors.Wrap(err, "failed to find POI by ID")
	}

	return toPOIDomain(&poiM), nil
}

// boundingBoxDeltas converts a radius to latitude/longitude half-widths.
// Longitude degrees shrink with latitude; clamp near the poles.
func boundingBoxDeltas(center entity.Location, radiusKm float64) (latDelta, lngDelta float64) {
	const kmPerDegreeLat = 111.32

	latDelta = radiusKm / kmPerDegreeLat

	cosLat := math.Cos(center.Lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lngDelta = radiusKm / (kmPerDegreeLat * cosLat)

	return latDelta, lngDelta
}

// --- Mapper Functions ---

// toPOIDomain converts a GORM POIModel to a domain POICandidate entity.
func toPOIDomain(data *model.POIModel) *entity.POICandidate {
	if data == nil {
		return nil
	}

	return &entity.POICandidate{
		ID:   data.ID,
		Name: data.Name,
		Location: entity.Location{
			Lat: data.Latitude,
			Lng: data.Longitude,
		},
		Category:        data.Category,
		Embedding:       data.Embedding,
		Rating:          data.Rating,
		AvgVisitMinutes: data.AvgVisitMinutes,
		Hours:           data.Hours,
		Tags:            data.Tags,
	}
}
