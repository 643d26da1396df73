package fulfillment

import (
	"time"

	"github.com/commercebay/backoffice/internal/domain/fulfillment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTransferRequest creates a draft transfer
type CreateTransferRequest struct {
	OriginLocationID      uuid.UUID              `json:"origin_location_id" binding:"required"`
	DestinationLocationID uuid.UUID              `json:"destination_location_id" binding:"required"`
	Reference             string                 `json:"reference" binding:"max=100"`
	Entries               []TransferEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// TransferEntryRequest is one requested transfer line
type TransferEntryRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
}

// TransferEntryDTO is the outward representation of a transfer line
type TransferEntryDTO struct {
	ID               uuid.UUID `json:"id"`
	VariantID        uuid.UUID `json:"variant_id"`
	Quantity         int64     `json:"quantity"`
	QuantityReceived int64     `json:"quantity_received"`
}

// TransferDTO is the outward representation of a transfer
type TransferDTO struct {
	ID                    uuid.UUID                 `json:"id"`
	OriginLocationID      uuid.UUID                 `json:"origin_location_id"`
	DestinationLocationID uuid.UUID                 `json:"destination_location_id"`
	Status                fulfillment.TransferStatus `json:"status"`
	Reference             string                    `json:"reference"`
	Entries               []TransferEntryDTO        `json:"entries"`
	CreatedAt             time.Time                 `json:"created_at"`
	UpdatedAt             time.Time                 `json:"updated_at"`
}

// ToTransferDTO converts a transfer to its DTO
func ToTransferDTO(t *fulfillment.Transfer) *TransferDTO {
	entries := make([]TransferEntryDTO, 0, len(t.Entries))
	for _, e := range t.Entries {
		entries = append(entries, TransferEntryDTO{
			ID:               e.ID,
			VariantID:        e.VariantID,
			Quantity:         e.Quantity,
			QuantityReceived: e.QuantityReceived,
		})
	}
	return &TransferDTO{
		ID:                    t.ID,
		OriginLocationID:      t.OriginLocationID,
		DestinationLocationID: t.DestinationLocationID,
		Status:                t.Status,
		Reference:             t.Reference,
		Entries:               entries,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
	}
}

// CreateShipmentRequest creates the shipment for a ready transfer
type CreateShipmentRequest struct {
	TransferID uuid.UUID `json:"transfer_id" binding:"required"`
	Carrier    string    `json:"carrier" binding:"max=100"`
}

// TrackingRequest attaches tracking metadata to a shipment
type TrackingRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"max=100"`
	TrackingURL    string `json:"tracking_url" binding:"omitempty,url,max=500"`
}

// ShipmentDTO is the outward representation of a shipment
type ShipmentDTO struct {
	ID             uuid.UUID                 `json:"id"`
	TransferID     uuid.UUID                 `json:"transfer_id"`
	Status         fulfillment.ShipmentStatus `json:"status"`
	Carrier        string                    `json:"carrier"`
	TrackingNumber string                    `json:"tracking_number"`
	TrackingURL    string                    `json:"tracking_url"`
	ShippedAt      *time.Time                `json:"shipped_at,omitempty"`
	ReceivedAt     *time.Time                `json:"received_at,omitempty"`
}

// ToShipmentDTO converts a shipment to its DTO
func ToShipmentDTO(s *fulfillment.Shipment) *ShipmentDTO {
	return &ShipmentDTO{
		ID:             s.ID,
		TransferID:     s.TransferID,
		Status:         s.Status,
		Carrier:        s.Carrier,
		TrackingNumber: s.TrackingNumber,
		TrackingURL:    s.TrackingURL,
		ShippedAt:      s.ShippedAt,
		ReceivedAt:     s.ReceivedAt,
	}
}

// ReceiptEntryRequest is the accept/reject payload for one entry
type ReceiptEntryRequest struct {
	EntryID uuid.UUID `json:"entry_id" binding:"required"`
	Accept  int64     `json:"accept" binding:"min=0"`
	Reject  int64     `json:"reject" binding:"min=0"`
}

// ReceiveShipmentRequest books the arrival of a shipment
type ReceiveShipmentRequest struct {
	Entries []ReceiptEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// CreatePurchaseOrderRequest creates a draft purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID            uuid.UUID                   `json:"supplier_id" binding:"required"`
	DestinationLocationID uuid.UUID                   `json:"destination_location_id" binding:"required"`
	Reference             string                      `json:"reference" binding:"max=100"`
	Entries               []PurchaseOrderEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// PurchaseOrderEntryRequest is one requested order line
type PurchaseOrderEntryRequest struct {
	VariantID       uuid.UUID       `json:"variant_id" binding:"required"`
	QuantityOrdered int64           `json:"quantity_ordered" binding:"required,gt=0"`
	Cost            decimal.Decimal `json:"cost"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
}

// ReceivePurchaseOrderRequest books a (possibly partial) receipt
type ReceivePurchaseOrderRequest struct {
	Entries []ReceiptEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// PurchaseOrderEntryDTO is the outward representation of an order line
type PurchaseOrderEntryDTO struct {
	ID               uuid.UUID       `json:"id"`
	VariantID        uuid.UUID       `json:"variant_id"`
	QuantityOrdered  int64           `json:"quantity_ordered"`
	QuantityReceived int64           `json:"quantity_received"`
	Cost             decimal.Decimal `json:"cost"`
	TaxPercent       decimal.Decimal `json:"tax_percent"`
}

// PurchaseOrderDTO is the outward representation of a purchase order
type PurchaseOrderDTO struct {
	ID                    uuid.UUID                       `json:"id"`
	SupplierID            uuid.UUID                       `json:"supplier_id"`
	DestinationLocationID uuid.UUID                       `json:"destination_location_id"`
	Status                fulfillment.PurchaseOrderStatus `json:"status"`
	Reference             string                          `json:"reference"`
	SubtotalCost          decimal.Decimal                 `json:"subtotal_cost"`
	TotalTax              decimal.Decimal                 `json:"total_tax"`
	TotalCost             decimal.Decimal                 `json:"total_cost"`
	Entries               []PurchaseOrderEntryDTO         `json:"entries"`
	CreatedAt             time.Time                       `json:"created_at"`
	UpdatedAt             time.Time                       `json:"updated_at"`
}

// ToPurchaseOrderDTO converts a purchase order to its DTO
func ToPurchaseOrderDTO(po *fulfillment.PurchaseOrder) *PurchaseOrderDTO {
	entries := make([]PurchaseOrderEntryDTO, 0, len(po.Entries))
	for _, e := range po.Entries {
		entries = append(entries, PurchaseOrderEntryDTO{
			ID:               e.ID,
			VariantID:        e.VariantID,
			QuantityOrdered:  e.QuantityOrdered,
			QuantityReceived: e.QuantityReceived,
			Cost:             e.Cost,
			TaxPercent:       e.TaxPercent,
		})
	}
	return &PurchaseOrderDTO{
		ID:                    po.ID,
		SupplierID:            po.SupplierID,
		DestinationLocationID: po.DestinationLocationID,
		Status:                po.Status,
		Reference:             po.Reference,
		SubtotalCost:          po.SubtotalCost,
		TotalTax:              po.TotalTax,
		TotalCost:             po.TotalCost,
		Entries:               entries,
		CreatedAt:             po.CreatedAt,
		UpdatedAt:             po.UpdatedAt,
	}
}
