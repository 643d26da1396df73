package persistence

import (
	"context"
	"errors"

	"github.com/commercebay/backoffice/internal/domain/inventory"
	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryLevelRepository implements inventory.InventoryLevelRepository using GORM
type GormInventoryLevelRepository struct {
	db *gorm.DB
}

// NewGormInventoryLevelRepository creates a new GormInventoryLevelRepository
func NewGormInventoryLevelRepository(db *gorm.DB) *GormInventoryLevelRepository {
	return &GormInventoryLevelRepository{db: db}
}

// Save creates or updates a ledger row
func (r *GormInventoryLevelRepository) Save(ctx context.Context, level *inventory.InventoryLevel) error {
	return r.db.WithContext(ctx).Save(level).Error
}

// SaveWithLock saves with optimistic locking: the update only lands if no
// other writer bumped the version since this row was read.
func (r *GormInventoryLevelRepository) SaveWithLock(ctx context.Context, level *inventory.InventoryLevel) error {
	result := r.db.WithContext(ctx).
		Model(level).
		Where("id = ? AND version = ?", level.ID, level.Version-1).
		Updates(map[string]interface{}{
			"on_hand":                     level.OnHand,
			"committed":                   level.Committed,
			"unavailable_damaged":         level.Unavailable.Damaged,
			"unavailable_quality_control": level.Unavailable.QualityControl,
			"unavailable_safety_stock":    level.Unavailable.SafetyStock,
			"unavailable_other":           level.Unavailable.Other,
			"available":                   level.Available,
			"incoming":                    level.Incoming,
			"version":                     level.Version,
			"updated_at":                  level.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByKey finds the ledger row for a (variant, location) pair
func (r *GormInventoryLevelRepository) FindByKey(ctx context.Context, storeID uuid.UUID, key inventory.LevelKey) (*inventory.InventoryLevel, error) {
	var level inventory.InventoryLevel
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND variant_id = ? AND location_id = ?", storeID, key.VariantID, key.LocationID).
		First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// GetOrCreate returns the row for the key, creating it at all-zero defaults
// when missing. ON CONFLICT DO NOTHING absorbs the race where two callers
// create the same row.
func (r *GormInventoryLevelRepository) GetOrCreate(ctx context.Context, storeID uuid.UUID, key inventory.LevelKey) (*inventory.InventoryLevel, error) {
	level, err := r.FindByKey(ctx, storeID, key)
	if err == nil {
		return level, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	level, err = inventory.NewInventoryLevel(storeID, key.VariantID, key.LocationID)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "variant_id"}, {Name: "location_id"}},
			DoNothing: true,
		}).
		Create(level)
	if result.Error != nil {
		return nil, result.Error
	}

	// Lost the race: another writer created the row first, fetch theirs
	if result.RowsAffected == 0 {
		return r.FindByKey(ctx, storeID, key)
	}

	return level, nil
}

// FindByVariant returns every location's ledger row for a variant
func (r *GormInventoryLevelRepository) FindByVariant(ctx context.Context, storeID, variantID uuid.UUID) ([]*inventory.InventoryLevel, error) {
	var levels []*inventory.InventoryLevel
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND variant_id = ?", storeID, variantID).
		Order("location_id ASC").
		Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// FindByLocation returns a page of the location's ledger rows
func (r *GormInventoryLevelRepository) FindByLocation(ctx context.Context, storeID, locationID uuid.UUID, filter shared.Filter) (*shared.Paginated[*inventory.InventoryLevel], error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.InventoryLevel{}).
		Where("store_id = ? AND location_id = ?", storeID, locationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, InventoryLevelSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var levels []*inventory.InventoryLevel
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&levels).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(levels, total, filter.Page, filter.PageSize)
	return &page, nil
}

// SeedZero inserts all-zero rows for the given keys, skipping rows that
// already exist. Used when variant generation introduces new variants.
func (r *GormInventoryLevelRepository) SeedZero(ctx context.Context, storeID uuid.UUID, keys []inventory.LevelKey) error {
	if len(keys) == 0 {
		return nil
	}

	rows := make([]*inventory.InventoryLevel, 0, len(keys))
	for _, key := range keys {
		row, err := inventory.NewInventoryLevel(storeID, key.VariantID, key.LocationID)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "variant_id"}, {Name: "location_id"}},
			DoNothing: true,
		}).
		Create(rows).Error
}

var _ inventory.InventoryLevelRepository = (*GormInventoryLevelRepository)(nil)
