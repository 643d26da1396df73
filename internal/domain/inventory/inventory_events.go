package inventory

import (
	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeInventoryLevel identifies the ledger aggregate in events
const AggregateTypeInventoryLevel = "InventoryLevel"

// EventTypeInventoryAdjusted is raised on every ledger mutation
const EventTypeInventoryAdjusted = "InventoryAdjusted"

// Ledger operation names carried on adjustment events
const (
	OperationReserve         = "reserve"
	OperationRelease         = "release"
	OperationShip            = "ship"
	OperationIncomingAdd     = "incoming_add"
	OperationIncomingConsume = "incoming_consume"
	OperationReceive         = "receive"
	OperationSetUnavailable  = "set_unavailable"
)

// InventoryAdjustedEvent carries the resulting bucket snapshot so
// downstream consumers (availability caches, storefront feeds) never
// have to re-read the row.
type InventoryAdjustedEvent struct {
	shared.BaseDomainEvent
	VariantID  uuid.UUID `json:"variant_id"`
	LocationID uuid.UUID `json:"location_id"`
	Operation  string    `json:"operation"`
	Quantity   int64     `json:"quantity"`
	OnHand     int64     `json:"on_hand"`
	Available  int64     `json:"available"`
	Incoming   int64     `json:"incoming"`
}

// NewInventoryAdjustedEvent creates a new InventoryAdjustedEvent
func NewInventoryAdjustedEvent(l *InventoryLevel, operation string, qty int64) *InventoryAdjustedEvent {
	return &InventoryAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryAdjusted, AggregateTypeInventoryLevel, l.ID, l.StoreID),
		VariantID:       l.VariantID,
		LocationID:      l.LocationID,
		Operation:       operation,
		Quantity:        qty,
		OnHand:          l.OnHand,
		Available:       l.Available,
		Incoming:        l.Incoming,
	}
}
