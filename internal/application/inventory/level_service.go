package inventory

import (
	"context"

	"github.com/commercebay/backoffice/internal/domain/inventory"
	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/commercebay/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// LevelService exposes the ledger's read surface and the manual
// unavailable-bucket adjustments. Machine-driven moves (transfers,
// purchase orders) go through their own services; this one covers what
// the back office UI and the storefront need directly.
type LevelService struct {
	levels         inventory.InventoryLevelRepository
	scope          TransactionScope
	ledger         *Ledger
	cache          AvailabilityCache
	eventPublisher shared.EventPublisher
}

// NewLevelService creates a new LevelService
func NewLevelService(levels inventory.InventoryLevelRepository, scope TransactionScope) *LevelService {
	return &LevelService{
		levels: levels,
		scope:  scope,
		ledger: NewLedger(),
	}
}

// SetAvailabilityCache sets the optional availability cache
func (s *LevelService) SetAvailabilityCache(cache AvailabilityCache) {
	s.cache = cache
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LevelService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetLevel returns the ledger row for one (variant, location) pair
func (s *LevelService) GetLevel(ctx context.Context, storeID, variantID, locationID uuid.UUID) (*LevelDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "LevelService", "GetLevel")
	defer span.End()

	row, err := s.levels.FindByKey(ctx, storeID, inventory.LevelKey{VariantID: variantID, LocationID: locationID})
	if err != nil {
		return nil, err
	}
	return ToLevelDTO(row), nil
}

// ListByVariant returns the rows of one variant across all locations
func (s *LevelService) ListByVariant(ctx context.Context, storeID, variantID uuid.UUID) ([]*LevelDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "LevelService", "ListByVariant")
	defer span.End()

	rows, err := s.levels.FindByVariant(ctx, storeID, variantID)
	if err != nil {
		return nil, err
	}
	dtos := make([]*LevelDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, ToLevelDTO(row))
	}
	return dtos, nil
}

// ListByLocation returns a page of rows at one location
func (s *LevelService) ListByLocation(ctx context.Context, storeID, locationID uuid.UUID, filter shared.Filter) (*shared.Paginated[*LevelDTO], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "LevelService", "ListByLocation")
	defer span.End()

	page, err := s.levels.FindByLocation(ctx, storeID, locationID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]*LevelDTO, 0, len(page.Items))
	for _, row := range page.Items {
		dtos = append(dtos, ToLevelDTO(row))
	}
	result := shared.NewPaginated(dtos, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// SetUnavailable replaces one unavailable bucket on a row
func (s *LevelService) SetUnavailable(ctx context.Context, storeID uuid.UUID, req SetUnavailableRequest) (*LevelDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "LevelService", "SetUnavailable")
	defer span.End()

	key := inventory.LevelKey{VariantID: req.VariantID, LocationID: req.LocationID}
	var row *inventory.InventoryLevel
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		row, err = s.ledger.Adjust(ctx, repos.Levels(), storeID, key, func(l *inventory.InventoryLevel) error {
			return l.SetUnavailable(req.Bucket, req.Quantity)
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, storeID, key)
	s.publishEvents(ctx, row)
	return ToLevelDTO(row), nil
}

// Availability returns the storefront projection, cache first
func (s *LevelService) Availability(ctx context.Context, storeID, variantID, locationID uuid.UUID) (*AvailabilityDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "LevelService", "Availability")
	defer span.End()

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, storeID, variantID, locationID); err == nil && cached != nil {
			return &AvailabilityDTO{
				VariantID:  variantID,
				LocationID: locationID,
				Available:  cached.Available,
				Incoming:   cached.Incoming,
			}, nil
		}
	}

	row, err := s.levels.FindByKey(ctx, storeID, inventory.LevelKey{VariantID: variantID, LocationID: locationID})
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		// Best effort: a failed cache write never fails the read.
		_ = s.cache.Set(ctx, storeID, variantID, locationID, CachedAvailability{
			Available: row.Available,
			Incoming:  row.Incoming,
		})
	}
	return &AvailabilityDTO{
		VariantID:  variantID,
		LocationID: locationID,
		Available:  row.Available,
		Incoming:   row.Incoming,
	}, nil
}

func (s *LevelService) invalidate(ctx context.Context, storeID uuid.UUID, key inventory.LevelKey) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, storeID, key.VariantID, key.LocationID)
}

func (s *LevelService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.eventPublisher == nil {
		aggregate.ClearDomainEvents()
		return
	}
	for _, event := range aggregate.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	aggregate.ClearDomainEvents()
}
