package catalog

import (
	"context"

	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the persistence port for products
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	SaveWithLock(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*Product, error)
	FindByBaseSKU(ctx context.Context, storeID uuid.UUID, baseSKU string) (*Product, error)
	FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Product], error)
	Delete(ctx context.Context, storeID, id uuid.UUID) error
}

// VariantRepository defines the persistence port for variants
type VariantRepository interface {
	Save(ctx context.Context, variant *Variant) error
	SaveAll(ctx context.Context, variants []*Variant) error
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*Variant, error)
	FindBySKU(ctx context.Context, storeID uuid.UUID, sku string) (*Variant, error)
	// FindByProduct returns all variants of the product, deprecated included.
	FindByProduct(ctx context.Context, storeID, productID uuid.UUID) ([]*Variant, error)
	// FindActiveByProduct returns only variants still participating in
	// generation and sale.
	FindActiveByProduct(ctx context.Context, storeID, productID uuid.UUID) ([]*Variant, error)
	CountByProduct(ctx context.Context, storeID, productID uuid.UUID) (int64, error)
}
