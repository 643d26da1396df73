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

// TransferService drives the transfer state machine. Ledger moves and
// status changes always share one transaction; the status change is
// persisted through a conditional update on the previous status so
// concurrent callers cannot apply the same transition twice.
type TransferService struct {
	transfers      fulfillment.TransferRepository
	scope          TransactionScope
	ledger         *appinventory.Ledger
	cache          appinventory.AvailabilityCache
	eventPublisher shared.EventPublisher
}

// NewTransferService creates a new TransferService
func NewTransferService(transfers fulfillment.TransferRepository, scope TransactionScope) *TransferService {
	return &TransferService{
		transfers: transfers,
		scope:     scope,
		ledger:    appinventory.NewLedger(),
	}
}

// SetAvailabilityCache sets the optional availability cache whose keys
// are dropped whenever a transition writes ledger rows
func (s *TransferService) SetAvailabilityCache(cache appinventory.AvailabilityCache) {
	s.cache = cache
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a draft transfer
func (s *TransferService) Create(ctx context.Context, storeID uuid.UUID, req CreateTransferRequest) (*TransferDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "TransferService", "Create")
	defer span.End()

	entries := make([]fulfillment.TransferEntryInput, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, fulfillment.TransferEntryInput{
			VariantID: e.VariantID,
			Quantity:  e.Quantity,
		})
	}
	transfer, err := fulfillment.NewTransfer(storeID, req.OriginLocationID, req.DestinationLocationID, req.Reference, entries)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.Transfers().Save(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, transfer)
	return ToTransferDTO(transfer), nil
}

// Get returns one transfer
func (s *TransferService) Get(ctx context.Context, storeID, transferID uuid.UUID) (*TransferDTO, error) {
	transfer, err := s.transfers.FindByID(ctx, storeID, transferID)
	if err != nil {
		return nil, err
	}
	return ToTransferDTO(transfer), nil
}

// List returns a page of the store's transfers, optionally by status
func (s *TransferService) List(ctx context.Context, storeID uuid.UUID, status fulfillment.TransferStatus, filter shared.Filter) (*shared.Paginated[*TransferDTO], error) {
	page, err := s.transfers.FindByStore(ctx, storeID, status, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]*TransferDTO, 0, len(page.Items))
	for _, t := range page.Items {
		dtos = append(dtos, ToTransferDTO(t))
	}
	result := shared.NewPaginated(dtos, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// MarkReady moves a draft to ready_to_ship, reserving every entry's
// quantity at the origin.
func (s *TransferService) MarkReady(ctx context.Context, storeID, transferID uuid.UUID) (*TransferDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "TransferService", "MarkReady")
	defer span.End()

	var transfer *fulfillment.Transfer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		transfer, err = repos.Transfers().FindByID(ctx, storeID, transferID)
		if err != nil {
			return err
		}
		previous := transfer.Status
		if err := transfer.MarkReady(); err != nil {
			return err
		}

		rows, err := s.ledger.Fetch(ctx, repos.Levels(), storeID, originKeys(transfer))
		if err != nil {
			return err
		}
		for _, entry := range transfer.Entries {
			key := inventory.LevelKey{VariantID: entry.VariantID, LocationID: transfer.OriginLocationID}
			if err := rows[key].Reserve(entry.Quantity); err != nil {
				return err
			}
		}
		if err := s.ledger.SaveAll(ctx, repos.Levels(), rows); err != nil {
			return err
		}
		return repos.Transfers().SaveWithStatusGuard(ctx, transfer, previous)
	})
	if err != nil {
		return nil, err
	}

	invalidateAvailability(ctx, s.cache, storeID, originKeys(transfer))
	s.publishEvents(ctx, transfer)
	return ToTransferDTO(transfer), nil
}

// Cancel aborts a transfer. Cancelling from ready_to_ship releases the
// origin reservations; once goods departed the transfer cannot be
// cancelled.
func (s *TransferService) Cancel(ctx context.Context, storeID, transferID uuid.UUID) (*TransferDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "TransferService", "Cancel")
	defer span.End()

	var (
		transfer *fulfillment.Transfer
		touched  []inventory.LevelKey
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		transfer, err = repos.Transfers().FindByID(ctx, storeID, transferID)
		if err != nil {
			return err
		}
		previous := transfer.Status
		release := transfer.RequiresReservationRelease()
		if err := transfer.Cancel(); err != nil {
			return err
		}

		if release {
			touched = originKeys(transfer)
			rows, err := s.ledger.Fetch(ctx, repos.Levels(), storeID, touched)
			if err != nil {
				return err
			}
			for _, entry := range transfer.Entries {
				key := inventory.LevelKey{VariantID: entry.VariantID, LocationID: transfer.OriginLocationID}
				if err := rows[key].Release(entry.Quantity); err != nil {
					return err
				}
			}
			if err := s.ledger.SaveAll(ctx, repos.Levels(), rows); err != nil {
				return err
			}
		}
		return repos.Transfers().SaveWithStatusGuard(ctx, transfer, previous)
	})
	if err != nil {
		return nil, err
	}

	invalidateAvailability(ctx, s.cache, storeID, touched)
	s.publishEvents(ctx, transfer)
	return ToTransferDTO(transfer), nil
}

// Delete hard-deletes a transfer, permitted only while draft
func (s *TransferService) Delete(ctx context.Context, storeID, transferID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "TransferService", "Delete")
	defer span.End()

	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		transfer, err := repos.Transfers().FindByID(ctx, storeID, transferID)
		if err != nil {
			return err
		}
		if !transfer.CanDelete() {
			return shared.NewDomainError("INVALID_STATE", "Only draft transfers can be deleted")
		}
		return repos.Transfers().Delete(ctx, storeID, transferID)
	})
}

// originKeys lists the origin-side ledger keys of every entry
func originKeys(t *fulfillment.Transfer) []inventory.LevelKey {
	keys := make([]inventory.LevelKey, 0, len(t.Entries))
	for _, entry := range t.Entries {
		keys = append(keys, inventory.LevelKey{VariantID: entry.VariantID, LocationID: t.OriginLocationID})
	}
	return keys
}

func (s *TransferService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.eventPublisher != nil {
		if events := aggregate.GetDomainEvents(); len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
		}
	}
	aggregate.ClearDomainEvents()
}
