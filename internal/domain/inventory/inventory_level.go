package inventory

import (
	"time"

	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// UnavailableBuckets splits stock that is on hand but not sellable.
type UnavailableBuckets struct {
	Damaged        int64 `gorm:"not null;default:0"`
	QualityControl int64 `gorm:"not null;default:0"`
	SafetyStock    int64 `gorm:"not null;default:0"`
	Other          int64 `gorm:"not null;default:0"`
}

// Total sums all unavailable buckets
func (u UnavailableBuckets) Total() int64 {
	return u.Damaged + u.QualityControl + u.SafetyStock + u.Other
}

// InventoryLevel is the ledger row for one (variant, location) pair.
// One row exists per pair; quantities are discrete units and every
// bucket stays non-negative. Available is derived from the other
// buckets on every mutation except Receive, which credits it directly.
type InventoryLevel struct {
	shared.StoreAggregateRoot
	VariantID   uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_level_variant_location,priority:1"`
	LocationID  uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_level_variant_location,priority:2"`
	OnHand      int64              `gorm:"not null;default:0"`
	Committed   int64              `gorm:"not null;default:0"`
	Unavailable UnavailableBuckets `gorm:"embedded;embeddedPrefix:unavailable_"`
	Available   int64              `gorm:"not null;default:0"`
	Incoming    int64              `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (InventoryLevel) TableName() string {
	return "inventory_levels"
}

// NewInventoryLevel creates an all-zero ledger row
func NewInventoryLevel(storeID, variantID, locationID uuid.UUID) (*InventoryLevel, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if variantID == uuid.Nil || locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEVEL_KEY", "Variant and location IDs cannot be empty")
	}
	return &InventoryLevel{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		VariantID:          variantID,
		LocationID:         locationID,
	}, nil
}

// Reserve parks stock awaiting transfer in the unavailable.other bucket
func (l *InventoryLevel) Reserve(qty int64) error {
	if err := positive(qty); err != nil {
		return err
	}
	l.Unavailable.Other += qty
	l.touch(OperationReserve, qty)
	return nil
}

// Release returns reserved stock to the sellable pool. Releasing more
// than is reserved clamps at zero rather than failing, so unwinding a
// cancelled reservation is always safe.
func (l *InventoryLevel) Release(qty int64) error {
	if err := positive(qty); err != nil {
		return err
	}
	l.Unavailable.Other = clampZero(l.Unavailable.Other - qty)
	l.touch(OperationRelease, qty)
	return nil
}

// Ship removes departed stock: on hand drops and the matching
// reservation is released, both clamped at zero.
func (l *InventoryLevel) Ship(qty int64) error {
	if err := positive(qty); err != nil {
		return err
	}
	l.OnHand = clampZero(l.OnHand - qty)
	l.Unavailable.Other = clampZero(l.Unavailable.Other - qty)
	l.touch(OperationShip, qty)
	return nil
}

// IncomingAdd records stock en route to this location
func (l *InventoryLevel) IncomingAdd(qty int64) error {
	if err := positive(qty); err != nil {
		return err
	}
	l.Incoming += qty
	l.touch(OperationIncomingAdd, qty)
	return nil
}

// IncomingConsume clears en-route stock that arrived or was cancelled,
// clamping at zero.
func (l *InventoryLevel) IncomingConsume(qty int64) error {
	if err := positive(qty); err != nil {
		return err
	}
	l.Incoming = clampZero(l.Incoming - qty)
	l.touch(OperationIncomingConsume, qty)
	return nil
}

// Receive books an inbound receipt: accepted units go straight onto
// both on hand and available, and processed units leave the incoming
// bucket. Available is credited directly here instead of being
// recomputed, so units parked in unavailable buckets do not swallow
// the receipt.
func (l *InventoryLevel) Receive(accepted, processed int64) error {
	if accepted < 0 || processed < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Receipt quantities cannot be negative")
	}
	if accepted > processed {
		return shared.NewDomainError("INVALID_QUANTITY", "Accepted quantity cannot exceed processed quantity")
	}
	if accepted == 0 && processed == 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Receipt must process at least one unit")
	}
	l.OnHand += accepted
	l.Available += accepted
	l.Incoming = clampZero(l.Incoming - processed)

	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	l.AddDomainEvent(NewInventoryAdjustedEvent(l, OperationReceive, accepted))
	return nil
}

// SetUnavailable replaces one unavailable bucket with a new quantity
func (l *InventoryLevel) SetUnavailable(bucket string, qty int64) error {
	if qty < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Unavailable quantity cannot be negative")
	}
	switch bucket {
	case BucketDamaged:
		l.Unavailable.Damaged = qty
	case BucketQualityControl:
		l.Unavailable.QualityControl = qty
	case BucketSafetyStock:
		l.Unavailable.SafetyStock = qty
	case BucketOther:
		l.Unavailable.Other = qty
	default:
		return shared.NewDomainError("INVALID_BUCKET", "Unknown unavailable bucket "+bucket)
	}
	l.touch(OperationSetUnavailable, qty)
	return nil
}

// Unavailable bucket names
const (
	BucketDamaged        = "damaged"
	BucketQualityControl = "quality_control"
	BucketSafetyStock    = "safety_stock"
	BucketOther          = "other"
)

// touch recomputes the derived available bucket and records the mutation
func (l *InventoryLevel) touch(operation string, qty int64) {
	l.recomputeAvailable()
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	l.AddDomainEvent(NewInventoryAdjustedEvent(l, operation, qty))
}

func (l *InventoryLevel) recomputeAvailable() {
	l.Available = clampZero(l.OnHand - l.Committed - l.Unavailable.Total())
}

func positive(qty int64) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return nil
}

func clampZero(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
