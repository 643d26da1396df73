package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OptionValue binds one dimension name to the single value this variant
// carries for it.
type OptionValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OptionValues is the ordered dimension-to-value mapping of a variant.
// Order follows the product's axis declaration order; the signature is
// order-independent so renumbering axes never changes identity.
type OptionValues []OptionValue

// Get returns the value for the named dimension
func (o OptionValues) Get(name string) (string, bool) {
	for _, ov := range o {
		if ov.Name == name {
			return ov.Value, true
		}
	}
	return "", false
}

// Signature derives the canonical identity of this combination: the
// sorted "name=value" pairs joined with "/". Two variants of a product
// are the same sellable combination iff their signatures are equal.
func (o OptionValues) Signature() string {
	pairs := make([]string, 0, len(o))
	for _, ov := range o {
		pairs = append(pairs, ov.Name+"="+ov.Value)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "/")
}

// Variant is one concrete sellable combination of a product's option
// values. Variants are never hard-deleted: historical orders and ledger
// rows keep referencing them, so retirement is the Deprecated flag.
type Variant struct {
	shared.StoreAggregateRoot
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU         string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_variant_product_sku,priority:2"`
	Options     OptionValues    `gorm:"type:jsonb;serializer:json"`
	IsSynthetic bool            `gorm:"not null;default:false"` // placeholder variant for a dimensionless product
	Deprecated  bool            `gorm:"not null;default:false;index"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Cost        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Weight      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "variants"
}

// NewVariant creates a variant for a concrete option combination,
// snapshotting the product's pricing.
func NewVariant(product *Product, sku string, options OptionValues) (*Variant, error) {
	if product == nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product cannot be nil")
	}
	if strings.TrimSpace(sku) == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Variant SKU cannot be empty")
	}
	if len(options) == 0 {
		return nil, shared.NewDomainError("INVALID_OPTIONS", "Variant must carry at least one option value")
	}
	seen := make(map[string]struct{}, len(options))
	for _, ov := range options {
		if _, dup := seen[ov.Name]; dup {
			return nil, shared.NewDomainError("DUPLICATE_OPTION", "Option dimension appears twice on variant")
		}
		seen[ov.Name] = struct{}{}
	}

	v := &Variant{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(product.StoreID),
		ProductID:          product.ID,
		SKU:                sku,
		Options:            options,
		Price:              product.Price,
		Cost:               product.Cost,
		Weight:             product.Weight,
	}
	v.AddDomainEvent(NewVariantCreatedEvent(v))
	return v, nil
}

// NewSyntheticVariant creates the placeholder variant representing a
// product with no declared option dimensions. Its SKU is the product's
// base SKU and it carries no option values.
func NewSyntheticVariant(product *Product) (*Variant, error) {
	if product == nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product cannot be nil")
	}
	v := &Variant{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(product.StoreID),
		ProductID:          product.ID,
		SKU:                product.BaseSKU,
		Options:            OptionValues{},
		IsSynthetic:        true,
		Price:              product.Price,
		Cost:               product.Cost,
		Weight:             product.Weight,
	}
	v.AddDomainEvent(NewVariantCreatedEvent(v))
	return v, nil
}

// Signature returns the canonical option-combination identity
func (v *Variant) Signature() string {
	return v.Options.Signature()
}

// Deprecate soft-retires the variant. The flag is monotonic: calling
// Deprecate on an already deprecated variant is a no-op.
func (v *Variant) Deprecate() {
	if v.Deprecated {
		return
	}
	v.Deprecated = true
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	v.AddDomainEvent(NewVariantDeprecatedEvent(v))
}

// Reactivate clears the deprecated flag. Only the synthetic placeholder
// may come back; real combinations stay retired forever so SKUs and
// history never resurrect.
func (v *Variant) Reactivate() error {
	if !v.IsSynthetic {
		return shared.NewDomainError("INVALID_STATE", "Only the synthetic placeholder variant can be reactivated")
	}
	if !v.Deprecated {
		return nil
	}
	v.Deprecated = false
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	v.AddDomainEvent(NewVariantReactivatedEvent(v))
	return nil
}

// IsActive reports whether the variant participates in generation and sale
func (v *Variant) IsActive() bool {
	return !v.Deprecated
}
