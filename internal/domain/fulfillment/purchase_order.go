package fulfillment

import (
	"time"

	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus is the lifecycle state of a purchase order
type PurchaseOrderStatus string

// Purchase order statuses
const (
	PurchaseOrderStatusDraft             PurchaseOrderStatus = "draft"
	PurchaseOrderStatusOrdered           PurchaseOrderStatus = "ordered"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "partially_received"
	PurchaseOrderStatusReceived          PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled         PurchaseOrderStatus = "cancelled"
)

var purchaseOrderTransitions = map[PurchaseOrderStatus][]PurchaseOrderStatus{
	PurchaseOrderStatusDraft:             {PurchaseOrderStatusOrdered, PurchaseOrderStatusCancelled},
	PurchaseOrderStatusOrdered:           {PurchaseOrderStatusPartiallyReceived, PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled},
	PurchaseOrderStatusPartiallyReceived: {PurchaseOrderStatusPartiallyReceived, PurchaseOrderStatusReceived},
	PurchaseOrderStatusReceived:          {},
	PurchaseOrderStatusCancelled:         {},
}

// CanTransitionTo reports whether the move is legal
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	for _, allowed := range purchaseOrderTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// PurchaseOrderEntry is one ordered line. Cost and tax are captured at
// creation and drive the order totals; they are never recomputed on
// partial receipt.
type PurchaseOrderEntry struct {
	shared.BaseEntity
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID        uuid.UUID       `gorm:"type:uuid;not null"`
	QuantityOrdered  int64           `gorm:"not null"`
	QuantityReceived int64           `gorm:"not null;default:0"`
	Cost             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxPercent       decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (PurchaseOrderEntry) TableName() string {
	return "purchase_order_entries"
}

// Remaining returns the ordered units not yet received
func (e *PurchaseOrderEntry) Remaining() int64 {
	return e.QuantityOrdered - e.QuantityReceived
}

// IsComplete reports whether the full ordered quantity was received
func (e *PurchaseOrderEntry) IsComplete() bool {
	return e.QuantityReceived >= e.QuantityOrdered
}

// PurchaseOrder brings externally supplied stock into one destination
// location. Receiving is repeatable and per-entry partial; totals are
// fixed at creation time.
type PurchaseOrder struct {
	shared.StoreAggregateRoot
	SupplierID            uuid.UUID             `gorm:"type:uuid;not null;index"`
	DestinationLocationID uuid.UUID             `gorm:"type:uuid;not null;index"`
	Status                PurchaseOrderStatus   `gorm:"type:varchar(20);not null;default:'draft';index"`
	Reference             string                `gorm:"type:varchar(100)"`
	SubtotalCost          decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTax              decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	TotalCost             decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Entries               []*PurchaseOrderEntry `gorm:"foreignKey:PurchaseOrderID"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderEntryInput is one requested order line
type PurchaseOrderEntryInput struct {
	VariantID       uuid.UUID
	QuantityOrdered int64
	Cost            decimal.Decimal
	TaxPercent      decimal.Decimal
}

// NewPurchaseOrder creates a draft purchase order and computes its
// totals from the entry lines.
func NewPurchaseOrder(storeID, supplierID, destinationID uuid.UUID, reference string, entries []PurchaseOrderEntryInput) (*PurchaseOrder, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier is required")
	}
	if destinationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Destination location is required")
	}
	if len(entries) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Purchase order must have at least one entry")
	}

	po := &PurchaseOrder{
		StoreAggregateRoot:    shared.NewStoreAggregateRoot(storeID),
		SupplierID:            supplierID,
		DestinationLocationID: destinationID,
		Status:                PurchaseOrderStatusDraft,
		Reference:             reference,
		Entries:               make([]*PurchaseOrderEntry, 0, len(entries)),
	}

	subtotal := decimal.Zero
	tax := decimal.Zero
	hundred := decimal.NewFromInt(100)
	for _, in := range entries {
		if in.VariantID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_ENTRY", "Purchase order entry variant is required")
		}
		if in.QuantityOrdered <= 0 {
			return nil, shared.NewDomainError("INVALID_ENTRY", "Purchase order entry quantity must be positive")
		}
		if in.Cost.IsNegative() || in.TaxPercent.IsNegative() {
			return nil, shared.NewDomainError("INVALID_ENTRY", "Cost and tax percent cannot be negative")
		}
		po.Entries = append(po.Entries, &PurchaseOrderEntry{
			BaseEntity:      shared.NewBaseEntity(),
			PurchaseOrderID: po.ID,
			VariantID:       in.VariantID,
			QuantityOrdered: in.QuantityOrdered,
			Cost:            in.Cost,
			TaxPercent:      in.TaxPercent,
		})
		lineCost := in.Cost.Mul(decimal.NewFromInt(in.QuantityOrdered))
		subtotal = subtotal.Add(lineCost)
		tax = tax.Add(lineCost.Mul(in.TaxPercent).Div(hundred))
	}
	po.SubtotalCost = subtotal
	po.TotalTax = tax
	po.TotalCost = subtotal.Add(tax)

	po.AddDomainEvent(NewPurchaseOrderCreatedEvent(po))
	return po, nil
}

// transition performs a guarded status move
func (po *PurchaseOrder) transition(target PurchaseOrderStatus) error {
	if !po.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Purchase order cannot move from "+string(po.Status)+" to "+string(target))
	}
	from := po.Status
	po.Status = target
	po.UpdatedAt = time.Now()
	po.IncrementVersion()
	po.AddDomainEvent(NewPurchaseOrderStatusChangedEvent(po, from))
	return nil
}

// MarkOrdered places the draft order with the supplier. The service
// books the full ordered quantity as incoming at the destination.
func (po *PurchaseOrder) MarkOrdered() error {
	return po.transition(PurchaseOrderStatusOrdered)
}

// CanReceive reports whether receipt calls are currently legal
func (po *PurchaseOrder) CanReceive() bool {
	return po.Status == PurchaseOrderStatusOrdered || po.Status == PurchaseOrderStatusPartiallyReceived
}

// ApplyReceipt books processed units against one entry and returns the
// pair the ledger receive call needs. Clamping keeps receipts safe to
// repeat: processing never exceeds the entry's remainder and acceptance
// never exceeds what was processed. The received counter grows by the
// accepted portion only.
func (po *PurchaseOrder) ApplyReceipt(entryID uuid.UUID, accept, reject int64) (effectiveAccept, processed int64, err error) {
	if !po.CanReceive() {
		return 0, 0, shared.NewDomainError("INVALID_TRANSITION",
			"Purchase order cannot receive while "+string(po.Status))
	}
	if accept < 0 || reject < 0 {
		return 0, 0, shared.NewDomainError("INVALID_QUANTITY", "Accept and reject quantities cannot be negative")
	}
	entry := po.Entry(entryID)
	if entry == nil {
		return 0, 0, shared.NewDomainError("ENTRY_NOT_FOUND", "Purchase order entry not found")
	}

	processed = min64(entry.Remaining(), accept+reject)
	effectiveAccept = min64(accept, processed)
	entry.QuantityReceived += effectiveAccept
	entry.UpdatedAt = time.Now()

	po.UpdatedAt = time.Now()
	po.IncrementVersion()
	return effectiveAccept, processed, nil
}

// SettleStatus moves the order to received or partially_received after
// a receipt pass, based on whether every entry is complete.
func (po *PurchaseOrder) SettleStatus() error {
	if !po.CanReceive() {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Purchase order cannot settle while "+string(po.Status))
	}
	for _, e := range po.Entries {
		if !e.IsComplete() {
			if po.Status == PurchaseOrderStatusPartiallyReceived {
				return nil
			}
			return po.transition(PurchaseOrderStatusPartiallyReceived)
		}
	}
	return po.transition(PurchaseOrderStatusReceived)
}

// Cancel aborts the order. From ordered, the service consumes each
// entry's outstanding incoming remainder; once units were received the
// order can no longer be cancelled.
func (po *PurchaseOrder) Cancel() error {
	return po.transition(PurchaseOrderStatusCancelled)
}

// OutstandingIncoming returns the per-entry remainders still booked as
// incoming, used when cancelling an ordered purchase order.
func (po *PurchaseOrder) OutstandingIncoming() map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64, len(po.Entries))
	for _, e := range po.Entries {
		if r := e.Remaining(); r > 0 {
			out[e.VariantID] += r
		}
	}
	return out
}

// Entry returns the entry with the given id, or nil
func (po *PurchaseOrder) Entry(entryID uuid.UUID) *PurchaseOrderEntry {
	for _, e := range po.Entries {
		if e.ID == entryID {
			return e
		}
	}
	return nil
}

// CanDelete reports whether hard deletion is permitted
func (po *PurchaseOrder) CanDelete() bool {
	return po.Status == PurchaseOrderStatusDraft
}
