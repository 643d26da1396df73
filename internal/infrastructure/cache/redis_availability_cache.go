package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appinventory "github.com/commercebay/backoffice/internal/application/inventory"
	"github.com/commercebay/backoffice/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const availabilityKeyPrefix = "availability:"

// RedisAvailabilityCache implements the availability cache on Redis.
// Suitable for distributed deployments where multiple instances serve
// storefront reads against the same ledger.
type RedisAvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisAvailabilityCache creates a cache from Redis configuration,
// verifying connectivity before returning
func NewRedisAvailabilityCache(cfg *config.RedisConfig) (*RedisAvailabilityCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisAvailabilityCache{client: client, ttl: cfg.AvailabilityTTL}, nil
}

// NewRedisAvailabilityCacheWithClient creates a cache with an existing
// Redis client. Useful for testing or when sharing a client.
func NewRedisAvailabilityCacheWithClient(client *redis.Client, ttl time.Duration) *RedisAvailabilityCache {
	return &RedisAvailabilityCache{client: client, ttl: ttl}
}

func availabilityKey(storeID, variantID, locationID uuid.UUID) string {
	return availabilityKeyPrefix + storeID.String() + ":" + variantID.String() + ":" + locationID.String()
}

// Get returns the cached availability for a ledger row, or (nil, nil) on miss
func (c *RedisAvailabilityCache) Get(ctx context.Context, storeID, variantID, locationID uuid.UUID) (*appinventory.CachedAvailability, error) {
	data, err := c.client.Get(ctx, availabilityKey(storeID, variantID, locationID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read availability cache: %w", err)
	}

	var value appinventory.CachedAvailability
	if err := json.Unmarshal(data, &value); err != nil {
		// Corrupt entry: treat as a miss, the next Set overwrites it
		return nil, nil
	}
	return &value, nil
}

// Set stores the availability projection with the configured TTL
func (c *RedisAvailabilityCache) Set(ctx context.Context, storeID, variantID, locationID uuid.UUID, value appinventory.CachedAvailability) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode availability: %w", err)
	}
	if err := c.client.Set(ctx, availabilityKey(storeID, variantID, locationID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write availability cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached entry after a ledger write commits
func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, storeID, variantID, locationID uuid.UUID) error {
	if err := c.client.Del(ctx, availabilityKey(storeID, variantID, locationID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate availability cache: %w", err)
	}
	return nil
}

// Ping checks the Redis connection, used by the health endpoint
func (c *RedisAvailabilityCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying Redis client
func (c *RedisAvailabilityCache) Close() error {
	return c.client.Close()
}

var _ appinventory.AvailabilityCache = (*RedisAvailabilityCache)(nil)
