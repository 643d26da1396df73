package fulfillment

import (
	"time"

	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// TransferStatus is the lifecycle state of a stock transfer
type TransferStatus string

// Transfer statuses
const (
	TransferStatusDraft       TransferStatus = "draft"
	TransferStatusReadyToShip TransferStatus = "ready_to_ship"
	TransferStatusInProgress  TransferStatus = "in_progress"
	TransferStatusTransferred TransferStatus = "transferred"
	TransferStatusCancelled   TransferStatus = "cancelled"
)

// transferTransitions is the total transition table: absence means the
// move is illegal. Terminal states have no outgoing edges.
var transferTransitions = map[TransferStatus][]TransferStatus{
	TransferStatusDraft:       {TransferStatusReadyToShip, TransferStatusCancelled},
	TransferStatusReadyToShip: {TransferStatusInProgress, TransferStatusCancelled},
	TransferStatusInProgress:  {TransferStatusTransferred},
	TransferStatusTransferred: {},
	TransferStatusCancelled:   {},
}

// CanTransitionTo reports whether the move is legal
func (s TransferStatus) CanTransitionTo(target TransferStatus) bool {
	for _, allowed := range transferTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsValid reports whether the status is a known value
func (s TransferStatus) IsValid() bool {
	_, ok := transferTransitions[s]
	return ok
}

// TransferEntry is one line of a transfer. Entries are immutable after
// creation except for the received counter maintained during receipt.
type TransferEntry struct {
	shared.BaseEntity
	TransferID       uuid.UUID `gorm:"type:uuid;not null;index"`
	VariantID        uuid.UUID `gorm:"type:uuid;not null"`
	Quantity         int64     `gorm:"not null"`
	QuantityReceived int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (TransferEntry) TableName() string {
	return "transfer_entries"
}

// Remaining returns the units not yet processed by a receipt
func (e *TransferEntry) Remaining() int64 {
	return e.Quantity - e.QuantityReceived
}

// Transfer moves stock of one or more variants between two locations
// of the same store. The ledger moves themselves are driven by the
// application service; the aggregate owns the status machine and the
// entry list.
type Transfer struct {
	shared.StoreAggregateRoot
	OriginLocationID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	DestinationLocationID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Status                TransferStatus   `gorm:"type:varchar(20);not null;default:'draft';index"`
	Reference             string           `gorm:"type:varchar(100)"`
	Entries               []*TransferEntry `gorm:"foreignKey:TransferID"`
}

// TableName returns the table name for GORM
func (Transfer) TableName() string {
	return "transfers"
}

// TransferEntryInput is one requested transfer line
type TransferEntryInput struct {
	VariantID uuid.UUID
	Quantity  int64
}

// NewTransfer creates a draft transfer. Origin and destination must
// differ and every entry must move a positive quantity.
func NewTransfer(storeID, originID, destinationID uuid.UUID, reference string, entries []TransferEntryInput) (*Transfer, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if originID == uuid.Nil || destinationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Origin and destination locations are required")
	}
	if originID == destinationID {
		return nil, shared.NewDomainError("SAME_LOCATION", "Origin and destination locations must differ")
	}
	if len(entries) == 0 {
		return nil, shared.NewDomainError("EMPTY_TRANSFER", "Transfer must have at least one entry")
	}

	t := &Transfer{
		StoreAggregateRoot:    shared.NewStoreAggregateRoot(storeID),
		OriginLocationID:      originID,
		DestinationLocationID: destinationID,
		Status:                TransferStatusDraft,
		Reference:             reference,
		Entries:               make([]*TransferEntry, 0, len(entries)),
	}
	for _, in := range entries {
		if in.VariantID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_ENTRY", "Transfer entry variant is required")
		}
		if in.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_ENTRY", "Transfer entry quantity must be positive")
		}
		t.Entries = append(t.Entries, &TransferEntry{
			BaseEntity: shared.NewBaseEntity(),
			TransferID: t.ID,
			VariantID:  in.VariantID,
			Quantity:   in.Quantity,
		})
	}

	t.AddDomainEvent(NewTransferCreatedEvent(t))
	return t, nil
}

// transition performs a guarded status move
func (t *Transfer) transition(target TransferStatus) error {
	if !t.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Transfer cannot move from "+string(t.Status)+" to "+string(target))
	}
	from := t.Status
	t.Status = target
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	t.AddDomainEvent(NewTransferStatusChangedEvent(t, from))
	return nil
}

// MarkReady moves the draft to ready_to_ship. The service reserves
// every entry at the origin in the same transaction.
func (t *Transfer) MarkReady() error {
	return t.transition(TransferStatusReadyToShip)
}

// Depart moves ready_to_ship to in_progress, driven by the paired
// shipment entering transit.
func (t *Transfer) Depart() error {
	return t.transition(TransferStatusInProgress)
}

// Complete moves in_progress to transferred, driven by the paired
// shipment receipt. The move is unconditional once receipt finishes:
// transfers have no partial status.
func (t *Transfer) Complete() error {
	return t.transition(TransferStatusTransferred)
}

// Cancel aborts the transfer. Legal from draft and ready_to_ship only;
// once goods moved the transfer must run to completion.
func (t *Transfer) Cancel() error {
	return t.transition(TransferStatusCancelled)
}

// RequiresReservationRelease reports whether cancelling from the
// current status must unwind origin reservations.
func (t *Transfer) RequiresReservationRelease() bool {
	return t.Status == TransferStatusReadyToShip
}

// RecordReceipt books processed units against an entry and returns the
// pair the ledger receive call needs. Receipts clamp: processing never
// exceeds what remains and acceptance never exceeds what was processed.
func (t *Transfer) RecordReceipt(entryID uuid.UUID, accept, reject int64) (effectiveAccept, processed int64, err error) {
	if t.Status != TransferStatusInProgress {
		return 0, 0, shared.NewDomainError("INVALID_TRANSITION",
			"Transfer entries can only be received while in progress")
	}
	if accept < 0 || reject < 0 {
		return 0, 0, shared.NewDomainError("INVALID_QUANTITY", "Accept and reject quantities cannot be negative")
	}
	entry := t.Entry(entryID)
	if entry == nil {
		return 0, 0, shared.NewDomainError("ENTRY_NOT_FOUND", "Transfer entry not found")
	}

	processed = min64(entry.Remaining(), accept+reject)
	effectiveAccept = min64(accept, processed)
	entry.QuantityReceived += processed
	entry.UpdatedAt = time.Now()

	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return effectiveAccept, processed, nil
}

// Entry returns the entry with the given id, or nil
func (t *Transfer) Entry(entryID uuid.UUID) *TransferEntry {
	for _, e := range t.Entries {
		if e.ID == entryID {
			return e
		}
	}
	return nil
}

// CanDelete reports whether hard deletion is permitted
func (t *Transfer) CanDelete() bool {
	return t.Status == TransferStatusDraft
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
