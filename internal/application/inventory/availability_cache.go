package inventory

import (
	"context"

	"github.com/google/uuid"
)

// CachedAvailability is the cached projection for one ledger row
type CachedAvailability struct {
	Available int64 `json:"available"`
	Incoming  int64 `json:"incoming"`
}

// AvailabilityCache fronts the storefront availability reads. Misses
// fall back to the database; ledger writers invalidate the touched keys
// after commit so readers never see quantities newer than the row.
type AvailabilityCache interface {
	Get(ctx context.Context, storeID, variantID, locationID uuid.UUID) (*CachedAvailability, error)
	Set(ctx context.Context, storeID, variantID, locationID uuid.UUID, value CachedAvailability) error
	Invalidate(ctx context.Context, storeID, variantID, locationID uuid.UUID) error
}
