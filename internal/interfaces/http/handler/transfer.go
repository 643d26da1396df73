package handler

import (
	"context"

	fulfillmentapp "github.com/commercebay/backoffice/internal/application/fulfillment"
	"github.com/commercebay/backoffice/internal/domain/fulfillment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransferHandler handles transfer endpoints
type TransferHandler struct {
	BaseHandler
	transfers *fulfillmentapp.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transfers *fulfillmentapp.TransferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

// RegisterRoutes registers transfer routes on the given group
func (h *TransferHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.Create)
		transfers.GET("", h.List)
		transfers.GET("/:id", h.Get)
		transfers.POST("/:id/ready", h.MarkReady)
		transfers.POST("/:id/cancel", h.Cancel)
		transfers.DELETE("/:id", h.Delete)
	}
}

// Create creates a draft transfer and reserves origin stock
func (h *TransferHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	var req fulfillmentapp.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transfer, err := h.transfers.Create(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, transfer)
}

// List returns a page of transfers, optionally filtered by ?status=
func (h *TransferHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	status := fulfillment.TransferStatus(c.Query("status"))
	page, err := h.transfers.List(c.Request.Context(), storeID, status, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one transfer with its entries
func (h *TransferHandler) Get(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}
	transferID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	transfer, err := h.transfers.Get(c.Request.Context(), storeID, transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}

// MarkReady moves a draft transfer to ready_to_ship
func (h *TransferHandler) MarkReady(c *gin.Context) {
	h.transition(c, h.transfers.MarkReady)
}

// Cancel cancels a transfer and releases its reservations
func (h *TransferHandler) Cancel(c *gin.Context) {
	h.transition(c, h.transfers.Cancel)
}

// Delete removes a draft or cancelled transfer
func (h *TransferHandler) Delete(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}
	transferID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	if err := h.transfers.Delete(c.Request.Context(), storeID, transferID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *TransferHandler) transition(
	c *gin.Context,
	op func(ctx context.Context, storeID, transferID uuid.UUID) (*fulfillmentapp.TransferDTO, error),
) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}
	transferID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	transfer, err := op(c.Request.Context(), storeID, transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}
