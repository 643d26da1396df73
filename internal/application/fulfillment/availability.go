package fulfillment

import (
	"context"

	appinventory "github.com/commercebay/backoffice/internal/application/inventory"
	"github.com/commercebay/backoffice/internal/domain/inventory"
	"github.com/google/uuid"
)

// invalidateAvailability drops the cached storefront projection of every
// touched ledger key. Runs after the transaction committed; a failed
// invalidation is not an error, the cache TTL bounds the staleness.
func invalidateAvailability(ctx context.Context, cache appinventory.AvailabilityCache, storeID uuid.UUID, keys []inventory.LevelKey) {
	if cache == nil {
		return
	}
	for _, key := range keys {
		_ = cache.Invalidate(ctx, storeID, key.VariantID, key.LocationID)
	}
}
