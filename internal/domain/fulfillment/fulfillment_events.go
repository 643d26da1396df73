package fulfillment

import (
	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeTransfer      = "Transfer"
	AggregateTypeShipment      = "Shipment"
	AggregateTypePurchaseOrder = "PurchaseOrder"
)

// Event type constants
const (
	EventTypeTransferCreated            = "TransferCreated"
	EventTypeTransferStatusChanged      = "TransferStatusChanged"
	EventTypeShipmentStatusChanged      = "ShipmentStatusChanged"
	EventTypePurchaseOrderCreated       = "PurchaseOrderCreated"
	EventTypePurchaseOrderStatusChanged = "PurchaseOrderStatusChanged"
)

// TransferCreatedEvent is raised when a draft transfer is created
type TransferCreatedEvent struct {
	shared.BaseDomainEvent
	TransferID            uuid.UUID `json:"transfer_id"`
	OriginLocationID      uuid.UUID `json:"origin_location_id"`
	DestinationLocationID uuid.UUID `json:"destination_location_id"`
	EntryCount            int       `json:"entry_count"`
}

// NewTransferCreatedEvent creates a new TransferCreatedEvent
func NewTransferCreatedEvent(t *Transfer) *TransferCreatedEvent {
	return &TransferCreatedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeTransferCreated, AggregateTypeTransfer, t.ID, t.StoreID),
		TransferID:            t.ID,
		OriginLocationID:      t.OriginLocationID,
		DestinationLocationID: t.DestinationLocationID,
		EntryCount:            len(t.Entries),
	}
}

// TransferStatusChangedEvent is raised on every transfer transition
type TransferStatusChangedEvent struct {
	shared.BaseDomainEvent
	TransferID uuid.UUID      `json:"transfer_id"`
	FromStatus TransferStatus `json:"from_status"`
	ToStatus   TransferStatus `json:"to_status"`
}

// NewTransferStatusChangedEvent creates a new TransferStatusChangedEvent
func NewTransferStatusChangedEvent(t *Transfer, from TransferStatus) *TransferStatusChangedEvent {
	return &TransferStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferStatusChanged, AggregateTypeTransfer, t.ID, t.StoreID),
		TransferID:      t.ID,
		FromStatus:      from,
		ToStatus:        t.Status,
	}
}

// ShipmentStatusChangedEvent is raised when a shipment departs or arrives
type ShipmentStatusChangedEvent struct {
	shared.BaseDomainEvent
	ShipmentID uuid.UUID      `json:"shipment_id"`
	TransferID uuid.UUID      `json:"transfer_id"`
	FromStatus ShipmentStatus `json:"from_status"`
	ToStatus   ShipmentStatus `json:"to_status"`
}

// NewShipmentStatusChangedEvent creates a new ShipmentStatusChangedEvent
func NewShipmentStatusChangedEvent(s *Shipment, from ShipmentStatus) *ShipmentStatusChangedEvent {
	return &ShipmentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShipmentStatusChanged, AggregateTypeShipment, s.ID, s.StoreID),
		ShipmentID:      s.ID,
		TransferID:      s.TransferID,
		FromStatus:      from,
		ToStatus:        s.Status,
	}
}

// PurchaseOrderCreatedEvent is raised when a draft purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID       uuid.UUID `json:"purchase_order_id"`
	SupplierID            uuid.UUID `json:"supplier_id"`
	DestinationLocationID uuid.UUID `json:"destination_location_id"`
	EntryCount            int       `json:"entry_count"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(po *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, po.ID, po.StoreID),
		PurchaseOrderID:       po.ID,
		SupplierID:            po.SupplierID,
		DestinationLocationID: po.DestinationLocationID,
		EntryCount:            len(po.Entries),
	}
}

// PurchaseOrderStatusChangedEvent is raised on every purchase order transition
type PurchaseOrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID uuid.UUID           `json:"purchase_order_id"`
	FromStatus      PurchaseOrderStatus `json:"from_status"`
	ToStatus        PurchaseOrderStatus `json:"to_status"`
}

// NewPurchaseOrderStatusChangedEvent creates a new PurchaseOrderStatusChangedEvent
func NewPurchaseOrderStatusChangedEvent(po *PurchaseOrder, from PurchaseOrderStatus) *PurchaseOrderStatusChangedEvent {
	return &PurchaseOrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderStatusChanged, AggregateTypePurchaseOrder, po.ID, po.StoreID),
		PurchaseOrderID: po.ID,
		FromStatus:      from,
		ToStatus:        po.Status,
	}
}
