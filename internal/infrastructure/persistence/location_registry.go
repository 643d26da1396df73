package persistence

import (
	"context"

	appcatalog "github.com/commercebay/backoffice/internal/application/catalog"
	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location is the minimal registry row for a store's stock locations.
// The back office only needs location identity; address and contact data
// live in the upstream store management system.
type Location struct {
	shared.BaseEntity
	StoreID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name    string    `gorm:"type:varchar(100);not null"`
	Active  bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// GormLocationRegistry implements the catalog LocationRegistry port
type GormLocationRegistry struct {
	db *gorm.DB
}

// NewGormLocationRegistry creates a new GormLocationRegistry
func NewGormLocationRegistry(db *gorm.DB) *GormLocationRegistry {
	return &GormLocationRegistry{db: db}
}

// LocationIDs returns the active location ids for a store
func (r *GormLocationRegistry) LocationIDs(ctx context.Context, storeID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&Location{}).
		Where("store_id = ? AND active = true", storeID).
		Order("created_at ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

var _ appcatalog.LocationRegistry = (*GormLocationRegistry)(nil)
