package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DatabasePinger reports database connectivity
type DatabasePinger interface {
	Ping() error
}

// CachePinger reports cache connectivity
type CachePinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves health and readiness endpoints
type SystemHandler struct {
	db      DatabasePinger
	cache   CachePinger
	version string
}

// NewSystemHandler creates a new SystemHandler. The cache pinger is
// optional; deployments without Redis pass nil.
func NewSystemHandler(db DatabasePinger, cache CachePinger, version string) *SystemHandler {
	return &SystemHandler{db: db, cache: cache, version: version}
}

// RegisterRoutes registers health routes directly on the engine so
// they bypass the store scope middleware.
func (h *SystemHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", h.Healthz)
	engine.GET("/readyz", h.Readyz)
}

// Healthz reports liveness
func (h *SystemHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}

// Readyz reports readiness, checking every backing dependency
func (h *SystemHandler) Readyz(c *gin.Context) {
	checks := gin.H{}
	healthy := true

	if err := h.db.Ping(); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if h.cache != nil {
		if err := h.cache.Ping(c.Request.Context()); err != nil {
			checks["cache"] = err.Error()
			healthy = false
		} else {
			checks["cache"] = "ok"
		}
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	c.JSON(status, gin.H{
		"status": overall,
		"checks": checks,
	})
}
