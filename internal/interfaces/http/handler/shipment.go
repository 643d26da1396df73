package handler

import (
	"context"

	fulfillmentapp "github.com/commercebay/backoffice/internal/application/fulfillment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ShipmentHandler handles shipment endpoints
type ShipmentHandler struct {
	BaseHandler
	shipments *fulfillmentapp.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler
func NewShipmentHandler(shipments *fulfillmentapp.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{shipments: shipments}
}

// RegisterRoutes registers shipment routes on the given group
func (h *ShipmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	shipments := rg.Group("/shipments")
	{
		shipments.POST("", h.Create)
		shipments.GET("/:id", h.Get)
		shipments.PUT("/:id/tracking", h.SetTracking)
		shipments.POST("/:id/in-transit", h.MarkInTransit)
		shipments.POST("/:id/receive", h.MarkReceived)
	}
	rg.GET("/transfers/:id/shipment", h.GetByTransfer)
}

// Create creates the shipment for a ready transfer and ships the
// reserved units out of the origin.
func (h *ShipmentHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	var req fulfillmentapp.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shipment, err := h.shipments.Create(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, shipment)
}

// Get returns one shipment
func (h *ShipmentHandler) Get(c *gin.Context) {
	h.fetch(c, h.shipments.Get)
}

// GetByTransfer returns the shipment of one transfer
func (h *ShipmentHandler) GetByTransfer(c *gin.Context) {
	h.fetch(c, h.shipments.GetByTransfer)
}

// SetTracking attaches carrier tracking metadata
func (h *ShipmentHandler) SetTracking(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}
	shipmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}

	var req fulfillmentapp.TrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shipment, err := h.shipments.SetTracking(c.Request.Context(), storeID, shipmentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipment)
}

// MarkInTransit marks the shipment as picked up by the carrier
func (h *ShipmentHandler) MarkInTransit(c *gin.Context) {
	h.fetch(c, h.shipments.MarkInTransit)
}

// MarkReceived books the arrival of a shipment at the destination
func (h *ShipmentHandler) MarkReceived(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}
	shipmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}

	var req fulfillmentapp.ReceiveShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shipment, err := h.shipments.MarkReceived(c.Request.Context(), storeID, shipmentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipment)
}

func (h *ShipmentHandler) fetch(
	c *gin.Context,
	op func(ctx context.Context, storeID, id uuid.UUID) (*fulfillmentapp.ShipmentDTO, error),
) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid ID")
		return
	}

	shipment, err := op(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipment)
}
