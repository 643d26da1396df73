package middleware

import (
	"net/http"
	"strings"

	"github.com/commercebay/backoffice/internal/infrastructure/logger"
	"github.com/commercebay/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Store scoping keys
const (
	StoreIDKey     = "store_id"
	StoreHeaderKey = "X-Store-ID"
)

// StoreScopeConfig holds configuration for the store scope middleware
type StoreScopeConfig struct {
	// SkipPaths are paths served without a store context
	SkipPaths []string
}

// DefaultStoreScopeConfig returns the default store scope configuration
func DefaultStoreScopeConfig() StoreScopeConfig {
	return StoreScopeConfig{
		SkipPaths: []string{"/healthz", "/readyz"},
	}
}

// StoreScope extracts the store id from the X-Store-ID header. Every
// aggregate is partitioned by store, so requests without a valid store
// id are rejected before reaching a handler.
func StoreScope() gin.HandlerFunc {
	return StoreScopeWithConfig(DefaultStoreScopeConfig())
}

// StoreScopeWithConfig returns the store scope middleware with custom configuration
func StoreScopeWithConfig(cfg StoreScopeConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip || strings.HasPrefix(path, skip+"/") {
				c.Next()
				return
			}
		}

		raw := c.GetHeader(StoreHeaderKey)
		if raw == "" {
			abortStoreScope(c, "Store identification required")
			return
		}
		storeID, err := uuid.Parse(raw)
		if err != nil || storeID == uuid.Nil {
			abortStoreScope(c, "Invalid store ID format")
			return
		}

		c.Set(StoreIDKey, storeID.String())

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithStoreID(ctx, log, storeID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortStoreScope(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}

// GetStoreID retrieves the store id string from gin.Context
func GetStoreID(c *gin.Context) string {
	return c.GetString(StoreIDKey)
}

// GetStoreUUID retrieves the store id as a UUID from gin.Context
func GetStoreUUID(c *gin.Context) (uuid.UUID, error) {
	raw := GetStoreID(c)
	if raw == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(raw)
}
