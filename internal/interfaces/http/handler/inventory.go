package handler

import (
	inventoryapp "github.com/commercebay/backoffice/internal/application/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryHandler handles ledger and availability endpoints
type InventoryHandler struct {
	BaseHandler
	levels *inventoryapp.LevelService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(levels *inventoryapp.LevelService) *InventoryHandler {
	return &InventoryHandler{levels: levels}
}

// RegisterRoutes registers inventory routes on the given group
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inventory := rg.Group("/inventory")
	{
		inventory.GET("/levels", h.GetLevel)
		inventory.GET("/variants/:id/levels", h.ListByVariant)
		inventory.GET("/locations/:id/levels", h.ListByLocation)
		inventory.POST("/unavailable", h.SetUnavailable)
		inventory.GET("/availability", h.Availability)
	}
}

// GetLevel returns the ledger row for one (variant, location) pair,
// both passed as query parameters.
func (h *InventoryHandler) GetLevel(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}
	variantID, locationID, ok := h.levelKeyQuery(c)
	if !ok {
		return
	}

	level, err := h.levels.GetLevel(c.Request.Context(), storeID, variantID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}

// ListByVariant returns the rows of one variant across all locations
func (h *InventoryHandler) ListByVariant(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}
	variantID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid variant ID")
		return
	}

	levels, err := h.levels.ListByVariant(c.Request.Context(), storeID, variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, levels)
}

// ListByLocation returns a page of rows at one location
func (h *InventoryHandler) ListByLocation(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}
	locationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.levels.ListByLocation(c.Request.Context(), storeID, locationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// SetUnavailable replaces one unavailable bucket on a ledger row
func (h *InventoryHandler) SetUnavailable(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	var req inventoryapp.SetUnavailableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	level, err := h.levels.SetUnavailable(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}

// Availability returns the storefront availability projection
func (h *InventoryHandler) Availability(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}
	variantID, locationID, ok := h.levelKeyQuery(c)
	if !ok {
		return
	}

	availability, err := h.levels.Availability(c.Request.Context(), storeID, variantID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, availability)
}

// levelKeyQuery parses the variant_id and location_id query parameters
func (h *InventoryHandler) levelKeyQuery(c *gin.Context) (variantID, locationID uuid.UUID, ok bool) {
	var err error
	variantID, err = uuid.Parse(c.Query("variant_id"))
	if err != nil {
		h.BadRequest(c, "Invalid or missing variant_id")
		return uuid.Nil, uuid.Nil, false
	}
	locationID, err = uuid.Parse(c.Query("location_id"))
	if err != nil {
		h.BadRequest(c, "Invalid or missing location_id")
		return uuid.Nil, uuid.Nil, false
	}
	return variantID, locationID, true
}
