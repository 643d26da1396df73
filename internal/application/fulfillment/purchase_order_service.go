package fulfillment

import (
	"context"

	appinventory "github.com/commercebay/backoffice/internal/application/inventory"
	"github.com/commercebay/backoffice/internal/domain/fulfillment"
	"github.com/commercebay/backoffice/internal/domain/inventory"
	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/commercebay/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// PurchaseOrderService drives the purchase order receiving machine.
// All ledger moves target the order's destination location and run in
// the same transaction as the status change.
type PurchaseOrderService struct {
	purchaseOrders fulfillment.PurchaseOrderRepository
	scope          TransactionScope
	ledger         *appinventory.Ledger
	cache          appinventory.AvailabilityCache
	eventPublisher shared.EventPublisher
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(purchaseOrders fulfillment.PurchaseOrderRepository, scope TransactionScope) *PurchaseOrderService {
	return &PurchaseOrderService{
		purchaseOrders: purchaseOrders,
		scope:          scope,
		ledger:         appinventory.NewLedger(),
	}
}

// SetAvailabilityCache sets the optional availability cache whose keys
// are dropped whenever a transition writes ledger rows
func (s *PurchaseOrderService) SetAvailabilityCache(cache appinventory.AvailabilityCache) {
	s.cache = cache
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a draft purchase order
func (s *PurchaseOrderService) Create(ctx context.Context, storeID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "PurchaseOrderService", "Create")
	defer span.End()

	entries := make([]fulfillment.PurchaseOrderEntryInput, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, fulfillment.PurchaseOrderEntryInput{
			VariantID:       e.VariantID,
			QuantityOrdered: e.QuantityOrdered,
			Cost:            e.Cost,
			TaxPercent:      e.TaxPercent,
		})
	}
	po, err := fulfillment.NewPurchaseOrder(storeID, req.SupplierID, req.DestinationLocationID, req.Reference, entries)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.PurchaseOrders().Save(ctx, po)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, po)
	return ToPurchaseOrderDTO(po), nil
}

// Get returns one purchase order
func (s *PurchaseOrderService) Get(ctx context.Context, storeID, orderID uuid.UUID) (*PurchaseOrderDTO, error) {
	po, err := s.purchaseOrders.FindByID(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderDTO(po), nil
}

// List returns a page of the store's purchase orders, optionally by status
func (s *PurchaseOrderService) List(ctx context.Context, storeID uuid.UUID, status fulfillment.PurchaseOrderStatus, filter shared.Filter) (*shared.Paginated[*PurchaseOrderDTO], error) {
	page, err := s.purchaseOrders.FindByStore(ctx, storeID, status, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]*PurchaseOrderDTO, 0, len(page.Items))
	for _, po := range page.Items {
		dtos = append(dtos, ToPurchaseOrderDTO(po))
	}
	result := shared.NewPaginated(dtos, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// MarkOrdered places the order with the supplier, booking every entry's
// full quantity incoming at the destination.
func (s *PurchaseOrderService) MarkOrdered(ctx context.Context, storeID, orderID uuid.UUID) (*PurchaseOrderDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "PurchaseOrderService", "MarkOrdered")
	defer span.End()

	var po *fulfillment.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		po, err = repos.PurchaseOrders().FindByID(ctx, storeID, orderID)
		if err != nil {
			return err
		}
		previous := po.Status
		if err := po.MarkOrdered(); err != nil {
			return err
		}

		rows, err := s.ledger.Fetch(ctx, repos.Levels(), storeID, s.destinationKeys(po))
		if err != nil {
			return err
		}
		for _, entry := range po.Entries {
			key := inventory.LevelKey{VariantID: entry.VariantID, LocationID: po.DestinationLocationID}
			if err := rows[key].IncomingAdd(entry.QuantityOrdered); err != nil {
				return err
			}
		}
		if err := s.ledger.SaveAll(ctx, repos.Levels(), rows); err != nil {
			return err
		}
		return repos.PurchaseOrders().SaveWithStatusGuard(ctx, po, previous)
	})
	if err != nil {
		return nil, err
	}

	invalidateAvailability(ctx, s.cache, storeID, s.destinationKeys(po))
	s.publishEvents(ctx, po)
	return ToPurchaseOrderDTO(po), nil
}

// Receive books a receipt pass. Repeatable while ordered or partially
// received; the final status is settled from the entries afterwards.
func (s *PurchaseOrderService) Receive(ctx context.Context, storeID, orderID uuid.UUID, req ReceivePurchaseOrderRequest) (*PurchaseOrderDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "PurchaseOrderService", "Receive")
	defer span.End()

	var po *fulfillment.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		po, err = repos.PurchaseOrders().FindByID(ctx, storeID, orderID)
		if err != nil {
			return err
		}
		previous := po.Status

		rows, err := s.ledger.Fetch(ctx, repos.Levels(), storeID, s.destinationKeys(po))
		if err != nil {
			return err
		}
		for _, receipt := range req.Entries {
			entry := po.Entry(receipt.EntryID)
			if entry == nil {
				return shared.NewDomainError("ENTRY_NOT_FOUND", "Purchase order entry not found")
			}
			accepted, processed, err := po.ApplyReceipt(receipt.EntryID, receipt.Accept, receipt.Reject)
			if err != nil {
				return err
			}
			if processed == 0 {
				continue
			}
			key := inventory.LevelKey{VariantID: entry.VariantID, LocationID: po.DestinationLocationID}
			if err := rows[key].Receive(accepted, processed); err != nil {
				return err
			}
		}
		if err := po.SettleStatus(); err != nil {
			return err
		}

		if err := s.ledger.SaveAll(ctx, repos.Levels(), rows); err != nil {
			return err
		}
		return repos.PurchaseOrders().SaveWithStatusGuard(ctx, po, previous)
	})
	if err != nil {
		return nil, err
	}

	invalidateAvailability(ctx, s.cache, storeID, s.destinationKeys(po))
	s.publishEvents(ctx, po)
	return ToPurchaseOrderDTO(po), nil
}

// Cancel aborts the order. From ordered, the outstanding incoming is
// consumed at the destination; once any units were received the order
// can no longer be cancelled.
func (s *PurchaseOrderService) Cancel(ctx context.Context, storeID, orderID uuid.UUID) (*PurchaseOrderDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "PurchaseOrderService", "Cancel")
	defer span.End()

	var (
		po      *fulfillment.PurchaseOrder
		touched []inventory.LevelKey
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		po, err = repos.PurchaseOrders().FindByID(ctx, storeID, orderID)
		if err != nil {
			return err
		}
		previous := po.Status
		outstanding := po.OutstandingIncoming()
		if err := po.Cancel(); err != nil {
			return err
		}

		if previous == fulfillment.PurchaseOrderStatusOrdered && len(outstanding) > 0 {
			for variantID := range outstanding {
				touched = append(touched, inventory.LevelKey{VariantID: variantID, LocationID: po.DestinationLocationID})
			}
			rows, err := s.ledger.Fetch(ctx, repos.Levels(), storeID, touched)
			if err != nil {
				return err
			}
			for variantID, qty := range outstanding {
				key := inventory.LevelKey{VariantID: variantID, LocationID: po.DestinationLocationID}
				if err := rows[key].IncomingConsume(qty); err != nil {
					return err
				}
			}
			if err := s.ledger.SaveAll(ctx, repos.Levels(), rows); err != nil {
				return err
			}
		}
		return repos.PurchaseOrders().SaveWithStatusGuard(ctx, po, previous)
	})
	if err != nil {
		return nil, err
	}

	invalidateAvailability(ctx, s.cache, storeID, touched)
	s.publishEvents(ctx, po)
	return ToPurchaseOrderDTO(po), nil
}

// Delete hard-deletes a purchase order, permitted only while draft
func (s *PurchaseOrderService) Delete(ctx context.Context, storeID, orderID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "PurchaseOrderService", "Delete")
	defer span.End()

	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		po, err := repos.PurchaseOrders().FindByID(ctx, storeID, orderID)
		if err != nil {
			return err
		}
		if !po.CanDelete() {
			return shared.NewDomainError("INVALID_STATE", "Only draft purchase orders can be deleted")
		}
		return repos.PurchaseOrders().Delete(ctx, storeID, orderID)
	})
}

// destinationKeys lists the destination-side ledger keys of every entry
func (s *PurchaseOrderService) destinationKeys(po *fulfillment.PurchaseOrder) []inventory.LevelKey {
	keys := make([]inventory.LevelKey, 0, len(po.Entries))
	for _, entry := range po.Entries {
		keys = append(keys, inventory.LevelKey{VariantID: entry.VariantID, LocationID: po.DestinationLocationID})
	}
	return keys
}

func (s *PurchaseOrderService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.eventPublisher != nil {
		if events := aggregate.GetDomainEvents(); len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
		}
	}
	aggregate.ClearDomainEvents()
}
