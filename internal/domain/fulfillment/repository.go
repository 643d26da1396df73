package fulfillment

import (
	"context"

	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// TransferRepository defines the persistence port for transfers
type TransferRepository interface {
	Save(ctx context.Context, transfer *Transfer) error
	// SaveWithStatusGuard persists only if the stored status still equals
	// expected, returning shared.ErrConcurrencyConflict otherwise. This is
	// the check-then-set that keeps concurrent transitions from racing.
	SaveWithStatusGuard(ctx context.Context, transfer *Transfer, expected TransferStatus) error
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*Transfer, error)
	FindByStore(ctx context.Context, storeID uuid.UUID, status TransferStatus, filter shared.Filter) (*shared.Paginated[*Transfer], error)
	Delete(ctx context.Context, storeID, id uuid.UUID) error
}

// ShipmentRepository defines the persistence port for shipments
type ShipmentRepository interface {
	Save(ctx context.Context, shipment *Shipment) error
	SaveWithStatusGuard(ctx context.Context, shipment *Shipment, expected ShipmentStatus) error
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*Shipment, error)
	FindByTransfer(ctx context.Context, storeID, transferID uuid.UUID) (*Shipment, error)
}

// PurchaseOrderRepository defines the persistence port for purchase orders
type PurchaseOrderRepository interface {
	Save(ctx context.Context, po *PurchaseOrder) error
	SaveWithStatusGuard(ctx context.Context, po *PurchaseOrder, expected PurchaseOrderStatus) error
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*PurchaseOrder, error)
	FindByStore(ctx context.Context, storeID uuid.UUID, status PurchaseOrderStatus, filter shared.Filter) (*shared.Paginated[*PurchaseOrder], error)
	Delete(ctx context.Context, storeID, id uuid.UUID) error
}
