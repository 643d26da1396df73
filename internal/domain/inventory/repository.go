package inventory

import (
	"context"

	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// LevelKey addresses one ledger row
type LevelKey struct {
	VariantID  uuid.UUID
	LocationID uuid.UUID
}

// InventoryLevelRepository defines the persistence port for ledger rows.
// Multi-row moves must fetch rows in canonical (locationID, variantID)
// order inside one transaction scope; single-row writes go through
// SaveWithLock so concurrent writers conflict instead of losing updates.
type InventoryLevelRepository interface {
	Save(ctx context.Context, level *InventoryLevel) error
	// SaveWithLock persists with a version check and returns
	// shared.ErrConcurrencyConflict when another writer got there first.
	SaveWithLock(ctx context.Context, level *InventoryLevel) error
	FindByKey(ctx context.Context, storeID uuid.UUID, key LevelKey) (*InventoryLevel, error)
	// GetOrCreate returns the row for the key, creating it at all-zero
	// defaults when missing.
	GetOrCreate(ctx context.Context, storeID uuid.UUID, key LevelKey) (*InventoryLevel, error)
	FindByVariant(ctx context.Context, storeID, variantID uuid.UUID) ([]*InventoryLevel, error)
	FindByLocation(ctx context.Context, storeID, locationID uuid.UUID, filter shared.Filter) (*shared.Paginated[*InventoryLevel], error)
	SeedZero(ctx context.Context, storeID uuid.UUID, keys []LevelKey) error
}
