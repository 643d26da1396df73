package cache

import (
	"context"
	"sync"
	"time"

	appinventory "github.com/commercebay/backoffice/internal/application/inventory"
	"github.com/google/uuid"
)

// InMemoryAvailabilityCache implements the availability cache in process
// memory. Suitable for single-instance deployments and tests; entries
// expire lazily on read.
type InMemoryAvailabilityCache struct {
	mu      sync.RWMutex
	entries map[string]inMemoryEntry
	ttl     time.Duration
}

type inMemoryEntry struct {
	value     appinventory.CachedAvailability
	expiresAt time.Time
}

// NewInMemoryAvailabilityCache creates an in-memory availability cache
func NewInMemoryAvailabilityCache(ttl time.Duration) *InMemoryAvailabilityCache {
	return &InMemoryAvailabilityCache{
		entries: make(map[string]inMemoryEntry),
		ttl:     ttl,
	}
}

// Get returns the cached availability, or (nil, nil) on miss or expiry
func (c *InMemoryAvailabilityCache) Get(_ context.Context, storeID, variantID, locationID uuid.UUID) (*appinventory.CachedAvailability, error) {
	key := availabilityKey(storeID, variantID, locationID)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}

	value := entry.value
	return &value, nil
}

// Set stores the availability projection with the configured TTL
func (c *InMemoryAvailabilityCache) Set(_ context.Context, storeID, variantID, locationID uuid.UUID, value appinventory.CachedAvailability) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[availabilityKey(storeID, variantID, locationID)] = inMemoryEntry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Invalidate drops the cached entry
func (c *InMemoryAvailabilityCache) Invalidate(_ context.Context, storeID, variantID, locationID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, availabilityKey(storeID, variantID, locationID))
	return nil
}

var _ appinventory.AvailabilityCache = (*InMemoryAvailabilityCache)(nil)
