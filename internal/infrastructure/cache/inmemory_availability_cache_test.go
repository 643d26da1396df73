package cache

import (
	"context"
	"testing"
	"time"

	appinventory "github.com/commercebay/backoffice/internal/application/inventory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryAvailabilityCache(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	variantID := uuid.New()
	locationID := uuid.New()

	t.Run("miss returns nil without error", func(t *testing.T) {
		c := NewInMemoryAvailabilityCache(time.Minute)
		got, err := c.Get(ctx, storeID, variantID, locationID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("set then get round-trips", func(t *testing.T) {
		c := NewInMemoryAvailabilityCache(time.Minute)
		require.NoError(t, c.Set(ctx, storeID, variantID, locationID, appinventory.CachedAvailability{Available: 7, Incoming: 2}))

		got, err := c.Get(ctx, storeID, variantID, locationID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(7), got.Available)
		assert.Equal(t, int64(2), got.Incoming)
	})

	t.Run("entries expire", func(t *testing.T) {
		c := NewInMemoryAvailabilityCache(time.Millisecond)
		require.NoError(t, c.Set(ctx, storeID, variantID, locationID, appinventory.CachedAvailability{Available: 1}))
		time.Sleep(5 * time.Millisecond)

		got, err := c.Get(ctx, storeID, variantID, locationID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		c := NewInMemoryAvailabilityCache(time.Minute)
		require.NoError(t, c.Set(ctx, storeID, variantID, locationID, appinventory.CachedAvailability{Available: 3}))
		require.NoError(t, c.Invalidate(ctx, storeID, variantID, locationID))

		got, err := c.Get(ctx, storeID, variantID, locationID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("keys are scoped per row", func(t *testing.T) {
		c := NewInMemoryAvailabilityCache(time.Minute)
		otherLocation := uuid.New()
		require.NoError(t, c.Set(ctx, storeID, variantID, locationID, appinventory.CachedAvailability{Available: 4}))

		got, err := c.Get(ctx, storeID, variantID, otherLocation)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
