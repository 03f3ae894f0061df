package model

import (
	"time"

	"stroll/internal/domain/entity"
)

// POIModel is the GORM-specific struct for the 'pois' table. Embedding,
// opening hours and tags live in jsonb columns through the json serializer.
type POIModel struct {
	ID              string              `gorm:"type:varchar(64);primary_key"`
	Name            string              `gorm:"type:varchar(255);not null"`
	Category        string              `gorm:"type:varchar(64);not null;index:idx_pois_on_category"`
	Latitude        float64             `gorm:"type:decimal(10,8);not null;index:idx_pois_on_location"`
	Longitude       float64             `gorm:"type:decimal(11,8);not null;index:idx_pois_on_location"`
	Rating          float64             `gorm:"type:decimal(2,1);not null;default:0"`
	AvgVisitMinutes int                 `gorm:"not null;default:30"`
	Embedding       []float64           `gorm:"type:jsonb;serializer:json"`
	Hours           entity.OpeningHours `gorm:"type:jsonb;serializer:json"`
	Tags            []string            `gorm:"type:jsonb;serializer:json"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (POIModel) TableName() string {
	return "pois"
}
