package fulfillment

import (
	"context"
	"errors"

	appinventory "github.com/commercebay/backoffice/internal/application/inventory"
	"github.com/commercebay/backoffice/internal/domain/fulfillment"
	"github.com/commercebay/backoffice/internal/domain/inventory"
	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/commercebay/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// ShipmentService drives the shipment state machine and, through it,
// the paired transfer: departure ships stock at the origin and books it
// incoming at the destination, receipt books the accepted units on
// hand. Each transition is one transaction across shipment, transfer
// and every touched ledger row.
type ShipmentService struct {
	shipments      fulfillment.ShipmentRepository
	scope          TransactionScope
	ledger         *appinventory.Ledger
	cache          appinventory.AvailabilityCache
	eventPublisher shared.EventPublisher
}

// NewShipmentService creates a new ShipmentService
func NewShipmentService(shipments fulfillment.ShipmentRepository, scope TransactionScope) *ShipmentService {
	return &ShipmentService{
		shipments: shipments,
		scope:     scope,
		ledger:    appinventory.NewLedger(),
	}
}

// SetAvailabilityCache sets the optional availability cache whose keys
// are dropped whenever a transition writes ledger rows
func (s *ShipmentService) SetAvailabilityCache(cache appinventory.AvailabilityCache) {
	s.cache = cache
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ShipmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates the pending shipment for a ready transfer
func (s *ShipmentService) Create(ctx context.Context, storeID uuid.UUID, req CreateShipmentRequest) (*ShipmentDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ShipmentService", "Create")
	defer span.End()

	var shipment *fulfillment.Shipment
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		transfer, err := repos.Transfers().FindByID(ctx, storeID, req.TransferID)
		if err != nil {
			return err
		}
		if transfer.Status != fulfillment.TransferStatusReadyToShip {
			return shared.NewDomainError("INVALID_STATE", "Shipments can only be created for transfers ready to ship")
		}
		existing, err := repos.Shipments().FindByTransfer(ctx, storeID, req.TransferID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.ErrAlreadyExists
		}

		shipment, err = fulfillment.NewShipment(storeID, transfer.ID, req.Carrier)
		if err != nil {
			return err
		}
		return repos.Shipments().Save(ctx, shipment)
	})
	if err != nil {
		return nil, err
	}
	return ToShipmentDTO(shipment), nil
}

// Get returns one shipment
func (s *ShipmentService) Get(ctx context.Context, storeID, shipmentID uuid.UUID) (*ShipmentDTO, error) {
	shipment, err := s.shipments.FindByID(ctx, storeID, shipmentID)
	if err != nil {
		return nil, err
	}
	return ToShipmentDTO(shipment), nil
}

// GetByTransfer returns the transfer's shipment
func (s *ShipmentService) GetByTransfer(ctx context.Context, storeID, transferID uuid.UUID) (*ShipmentDTO, error) {
	shipment, err := s.shipments.FindByTransfer(ctx, storeID, transferID)
	if err != nil {
		return nil, err
	}
	return ToShipmentDTO(shipment), nil
}

// SetTracking attaches tracking metadata to a shipment
func (s *ShipmentService) SetTracking(ctx context.Context, storeID, shipmentID uuid.UUID, req TrackingRequest) (*ShipmentDTO, error) {
	var shipment *fulfillment.Shipment
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		shipment, err = repos.Shipments().FindByID(ctx, storeID, shipmentID)
		if err != nil {
			return err
		}
		if err := shipment.SetTracking(req.TrackingNumber, req.TrackingURL); err != nil {
			return err
		}
		return repos.Shipments().Save(ctx, shipment)
	})
	if err != nil {
		return nil, err
	}
	return ToShipmentDTO(shipment), nil
}

// MarkInTransit records departure: per entry the origin ships and the
// destination books the quantity incoming, and the transfer moves to
// in_progress.
func (s *ShipmentService) MarkInTransit(ctx context.Context, storeID, shipmentID uuid.UUID) (*ShipmentDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ShipmentService", "MarkInTransit")
	defer span.End()

	var (
		shipment *fulfillment.Shipment
		transfer *fulfillment.Transfer
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		shipment, err = repos.Shipments().FindByID(ctx, storeID, shipmentID)
		if err != nil {
			return err
		}
		transfer, err = repos.Transfers().FindByID(ctx, storeID, shipment.TransferID)
		if err != nil {
			return err
		}

		shipmentPrevious := shipment.Status
		if err := shipment.MarkInTransit(); err != nil {
			return err
		}
		transferPrevious := transfer.Status
		if err := transfer.Depart(); err != nil {
			return err
		}

		rows, err := s.ledger.Fetch(ctx, repos.Levels(), storeID, bothSideKeys(transfer))
		if err != nil {
			return err
		}
		for _, entry := range transfer.Entries {
			origin := inventory.LevelKey{VariantID: entry.VariantID, LocationID: transfer.OriginLocationID}
			destination := inventory.LevelKey{VariantID: entry.VariantID, LocationID: transfer.DestinationLocationID}
			if err := rows[origin].Ship(entry.Quantity); err != nil {
				return err
			}
			if err := rows[destination].IncomingAdd(entry.Quantity); err != nil {
				return err
			}
		}
		if err := s.ledger.SaveAll(ctx, repos.Levels(), rows); err != nil {
			return err
		}

		if err := repos.Transfers().SaveWithStatusGuard(ctx, transfer, transferPrevious); err != nil {
			return err
		}
		return repos.Shipments().SaveWithStatusGuard(ctx, shipment, shipmentPrevious)
	})
	if err != nil {
		return nil, err
	}

	invalidateAvailability(ctx, s.cache, storeID, bothSideKeys(transfer))
	s.publishEvents(ctx, shipment, transfer)
	return ToShipmentDTO(shipment), nil
}

// MarkReceived books the arrival: per entry the processed units leave
// the destination's incoming bucket and the accepted units land on
// hand, then the transfer unconditionally completes.
func (s *ShipmentService) MarkReceived(ctx context.Context, storeID, shipmentID uuid.UUID, req ReceiveShipmentRequest) (*ShipmentDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ShipmentService", "MarkReceived")
	defer span.End()

	var (
		shipment *fulfillment.Shipment
		transfer *fulfillment.Transfer
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		shipment, err = repos.Shipments().FindByID(ctx, storeID, shipmentID)
		if err != nil {
			return err
		}
		transfer, err = repos.Transfers().FindByID(ctx, storeID, shipment.TransferID)
		if err != nil {
			return err
		}

		shipmentPrevious := shipment.Status
		if err := shipment.MarkReceived(); err != nil {
			return err
		}

		rows, err := s.ledger.Fetch(ctx, repos.Levels(), storeID, destinationSideKeys(transfer))
		if err != nil {
			return err
		}

		for _, receipt := range req.Entries {
			entry := transfer.Entry(receipt.EntryID)
			if entry == nil {
				return shared.NewDomainError("ENTRY_NOT_FOUND", "Transfer entry not found")
			}
			accepted, processed, err := transfer.RecordReceipt(receipt.EntryID, receipt.Accept, receipt.Reject)
			if err != nil {
				return err
			}
			if processed == 0 {
				continue
			}
			key := inventory.LevelKey{VariantID: entry.VariantID, LocationID: transfer.DestinationLocationID}
			if err := rows[key].Receive(accepted, processed); err != nil {
				return err
			}
		}

		transferPrevious := transfer.Status
		if err := transfer.Complete(); err != nil {
			return err
		}

		if err := s.ledger.SaveAll(ctx, repos.Levels(), rows); err != nil {
			return err
		}
		if err := repos.Transfers().SaveWithStatusGuard(ctx, transfer, transferPrevious); err != nil {
			return err
		}
		return repos.Shipments().SaveWithStatusGuard(ctx, shipment, shipmentPrevious)
	})
	if err != nil {
		return nil, err
	}

	invalidateAvailability(ctx, s.cache, storeID, destinationSideKeys(transfer))
	s.publishEvents(ctx, shipment, transfer)
	return ToShipmentDTO(shipment), nil
}

// bothSideKeys lists origin and destination keys for every entry
func bothSideKeys(t *fulfillment.Transfer) []inventory.LevelKey {
	keys := make([]inventory.LevelKey, 0, 2*len(t.Entries))
	for _, entry := range t.Entries {
		keys = append(keys,
			inventory.LevelKey{VariantID: entry.VariantID, LocationID: t.OriginLocationID},
			inventory.LevelKey{VariantID: entry.VariantID, LocationID: t.DestinationLocationID},
		)
	}
	return keys
}

// destinationSideKeys lists the destination keys for every entry
func destinationSideKeys(t *fulfillment.Transfer) []inventory.LevelKey {
	keys := make([]inventory.LevelKey, 0, len(t.Entries))
	for _, entry := range t.Entries {
		keys = append(keys, inventory.LevelKey{VariantID: entry.VariantID, LocationID: t.DestinationLocationID})
	}
	return keys
}

func (s *ShipmentService) publishEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	for _, aggregate := range aggregates {
		if s.eventPublisher != nil {
			if events := aggregate.GetDomainEvents(); len(events) > 0 {
				_ = s.eventPublisher.Publish(ctx, events...)
			}
		}
		aggregate.ClearDomainEvents()
	}
}
