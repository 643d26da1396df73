package catalog

import (
	"context"
	"errors"

	"github.com/commercebay/backoffice/internal/domain/catalog"
	"github.com/commercebay/backoffice/internal/domain/inventory"
	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/commercebay/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// LocationRegistry lists the valid location ids of a store. Locations
// are owned by a collaborator outside this core; only the id list is
// consumed, to seed ledger rows for new variants.
type LocationRegistry interface {
	LocationIDs(ctx context.Context, storeID uuid.UUID) ([]uuid.UUID, error)
}

// VariantService orchestrates option-dimension changes: it runs the
// generator, persists the product and the variant delta in one
// transaction, and seeds all-zero ledger rows for every created
// variant at every store location.
type VariantService struct {
	products       catalog.ProductRepository
	variants       catalog.VariantRepository
	scope          TransactionScope
	locations      LocationRegistry
	generator      *catalog.VariantGenerator
	eventPublisher shared.EventPublisher
}

// NewVariantService creates a new VariantService
func NewVariantService(
	products catalog.ProductRepository,
	variants catalog.VariantRepository,
	scope TransactionScope,
	locations LocationRegistry,
) *VariantService {
	return &VariantService{
		products:  products,
		variants:  variants,
		scope:     scope,
		locations: locations,
		generator: catalog.NewVariantGenerator(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *VariantService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateProduct creates a dimensionless product together with its
// synthetic variant and the variant's zero ledger rows.
func (s *VariantService) CreateProduct(ctx context.Context, storeID uuid.UUID, req CreateProductRequest) (*ProductDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "VariantService", "CreateProduct")
	defer span.End()

	product, err := catalog.NewProduct(storeID, req.Title, req.BaseSKU)
	if err != nil {
		return nil, err
	}
	if err := product.SetPricing(req.Price, req.Cost, req.Weight); err != nil {
		return nil, err
	}
	synthetic, err := catalog.NewSyntheticVariant(product)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.Products().FindByBaseSKU(ctx, storeID, product.BaseSKU)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.ErrAlreadyExists
		}
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		if err := repos.Variants().Save(ctx, synthetic); err != nil {
			return err
		}
		return s.seedLevels(ctx, repos, storeID, []*catalog.Variant{synthetic})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product, synthetic)
	return ToProductDTO(product), nil
}

// GetProduct returns one product
func (s *VariantService) GetProduct(ctx context.Context, storeID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.products.FindByID(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	return ToProductDTO(product), nil
}

// ListProducts returns a page of the store's products
func (s *VariantService) ListProducts(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ProductDTO], error) {
	page, err := s.products.FindByStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]*ProductDTO, 0, len(page.Items))
	for _, p := range page.Items {
		dtos = append(dtos, ToProductDTO(p))
	}
	result := shared.NewPaginated(dtos, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// ListVariants returns the product's variants, optionally active only
func (s *VariantService) ListVariants(ctx context.Context, storeID, productID uuid.UUID, activeOnly bool) ([]*VariantDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "VariantService", "ListVariants")
	defer span.End()

	var (
		rows []*catalog.Variant
		err  error
	)
	if activeOnly {
		rows, err = s.variants.FindActiveByProduct(ctx, storeID, productID)
	} else {
		rows, err = s.variants.FindByProduct(ctx, storeID, productID)
	}
	if err != nil {
		return nil, err
	}
	dtos := make([]*VariantDTO, 0, len(rows))
	for _, v := range rows {
		dtos = append(dtos, ToVariantDTO(v))
	}
	return dtos, nil
}

// AddDimension declares a new option dimension and regenerates variants
func (s *VariantService) AddDimension(ctx context.Context, storeID, productID uuid.UUID, req DimensionRequest) (*GenerationResultDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "VariantService", "AddDimension")
	defer span.End()

	return s.mutate(ctx, storeID, productID, func(product *catalog.Product, variants []*catalog.Variant) (*catalog.GenerationResult, error) {
		return s.generator.AddDimension(product, variants, req.Name, req.Values)
	})
}

// AddValues extends an existing dimension and regenerates variants
func (s *VariantService) AddValues(ctx context.Context, storeID, productID uuid.UUID, req DimensionRequest) (*GenerationResultDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "VariantService", "AddValues")
	defer span.End()

	return s.mutate(ctx, storeID, productID, func(product *catalog.Product, variants []*catalog.Variant) (*catalog.GenerationResult, error) {
		return s.generator.AddValues(product, variants, req.Name, req.Values)
	})
}

// RemoveDimension drops a dimension and regenerates variants
func (s *VariantService) RemoveDimension(ctx context.Context, storeID, productID uuid.UUID, name string) (*GenerationResultDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "VariantService", "RemoveDimension")
	defer span.End()

	return s.mutate(ctx, storeID, productID, func(product *catalog.Product, variants []*catalog.Variant) (*catalog.GenerationResult, error) {
		return s.generator.RemoveDimension(product, variants, name)
	})
}

// mutate runs one generator operation inside a transaction. Created
// variants persist before deprecations so the product never has zero
// active variants mid-flight; ledger rows are seeded for the created
// set only, deprecated variants keep their rows untouched.
func (s *VariantService) mutate(
	ctx context.Context,
	storeID, productID uuid.UUID,
	op func(*catalog.Product, []*catalog.Variant) (*catalog.GenerationResult, error),
) (*GenerationResultDTO, error) {
	var (
		product *catalog.Product
		result  *catalog.GenerationResult
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		product, err = repos.Products().FindByID(ctx, storeID, productID)
		if err != nil {
			return err
		}
		variants, err := repos.Variants().FindByProduct(ctx, storeID, productID)
		if err != nil {
			return err
		}

		result, err = op(product, variants)
		if err != nil {
			return err
		}

		if len(result.Created) > 0 {
			if err := repos.Variants().SaveAll(ctx, result.Created); err != nil {
				return err
			}
		}
		if result.Reactivated != nil {
			if err := repos.Variants().Save(ctx, result.Reactivated); err != nil {
				return err
			}
		}
		for _, v := range result.Deprecated {
			if err := repos.Variants().Save(ctx, v); err != nil {
				return err
			}
		}
		if err := repos.Products().SaveWithLock(ctx, product); err != nil {
			return err
		}
		return s.seedLevels(ctx, repos, storeID, result.Created)
	})
	if err != nil {
		return nil, err
	}

	aggregates := []shared.AggregateRoot{product}
	for _, v := range result.Created {
		aggregates = append(aggregates, v)
	}
	for _, v := range result.Deprecated {
		aggregates = append(aggregates, v)
	}
	if result.Reactivated != nil {
		aggregates = append(aggregates, result.Reactivated)
	}
	s.publishEvents(ctx, aggregates...)

	return s.toResultDTO(product, result), nil
}

// seedLevels creates the all-zero ledger rows for new variants across
// every store location.
func (s *VariantService) seedLevels(ctx context.Context, repos TransactionalRepositories, storeID uuid.UUID, created []*catalog.Variant) error {
	if len(created) == 0 {
		return nil
	}
	locationIDs, err := s.locations.LocationIDs(ctx, storeID)
	if err != nil {
		return err
	}
	keys := make([]inventory.LevelKey, 0, len(created)*len(locationIDs))
	for _, v := range created {
		for _, locationID := range locationIDs {
			keys = append(keys, inventory.LevelKey{VariantID: v.ID, LocationID: locationID})
		}
	}
	return repos.Levels().SeedZero(ctx, storeID, keys)
}

func (s *VariantService) toResultDTO(product *catalog.Product, result *catalog.GenerationResult) *GenerationResultDTO {
	dto := &GenerationResultDTO{
		Product:    ToProductDTO(product),
		Created:    make([]*VariantDTO, 0, len(result.Created)),
		Deprecated: make([]*VariantDTO, 0, len(result.Deprecated)),
	}
	for _, v := range result.Created {
		dto.Created = append(dto.Created, ToVariantDTO(v))
	}
	for _, v := range result.Deprecated {
		dto.Deprecated = append(dto.Deprecated, ToVariantDTO(v))
	}
	if result.Reactivated != nil {
		dto.Reactivated = ToVariantDTO(result.Reactivated)
	}
	return dto
}

func (s *VariantService) publishEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	for _, aggregate := range aggregates {
		if s.eventPublisher != nil {
			if events := aggregate.GetDomainEvents(); len(events) > 0 {
				_ = s.eventPublisher.Publish(ctx, events...)
			}
		}
		aggregate.ClearDomainEvents()
	}
}
