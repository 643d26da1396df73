package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OptionDimension is one named axis of a product's variant space,
// e.g. {Name: "Size", Values: ["S", "M", "L"]}. Value order is the
// declaration order and drives cartesian expansion.
type OptionDimension struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Product is the aggregate root for a sellable product and its option
// dimensions. Variants are generated from the dimensions but live as
// their own aggregate; the product only owns the axis declarations and
// the SKU sequence.
type Product struct {
	shared.StoreAggregateRoot
	Title       string            `gorm:"type:varchar(200);not null"`
	BaseSKU     string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_store_sku,priority:2"`
	Dimensions  []OptionDimension `gorm:"type:jsonb;serializer:json"`
	SKUSequence int               `gorm:"not null;default:0"` // monotonic, never reset, drives variant SKU suffixes
	Price       decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Cost        decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Weight      decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with no option dimensions
func NewProduct(storeID uuid.UUID, title, baseSKU string) (*Product, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if strings.TrimSpace(baseSKU) == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product base SKU cannot be empty")
	}

	return &Product{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Title:              title,
		BaseSKU:            strings.ToUpper(strings.TrimSpace(baseSKU)),
		Dimensions:         make([]OptionDimension, 0),
		Price:              decimal.Zero,
		Cost:               decimal.Zero,
		Weight:             decimal.Zero,
	}, nil
}

// Dimension returns the named dimension, if declared
func (p *Product) Dimension(name string) (*OptionDimension, bool) {
	for idx := range p.Dimensions {
		if p.Dimensions[idx].Name == name {
			return &p.Dimensions[idx], true
		}
	}
	return nil, false
}

// HasDimension reports whether the named dimension is declared
func (p *Product) HasDimension(name string) bool {
	_, ok := p.Dimension(name)
	return ok
}

// AddDimension declares a new option dimension with its initial values.
// The dimension name must not already be declared.
func (p *Product) AddDimension(name string, values []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_DIMENSION", "Dimension name cannot be empty")
	}
	if p.HasDimension(name) {
		return shared.NewDomainError("DUPLICATE_DIMENSION", "Dimension already declared on product")
	}
	cleaned, err := cleanValues(values, nil)
	if err != nil {
		return err
	}

	p.Dimensions = append(p.Dimensions, OptionDimension{Name: name, Values: cleaned})
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductOptionsChangedEvent(p))

	return nil
}

// AddValues appends values to an existing dimension. Values already
// present on the dimension are rejected, not silently skipped.
func (p *Product) AddValues(name string, values []string) error {
	dim, ok := p.Dimension(strings.TrimSpace(name))
	if !ok {
		return shared.NewDomainError("DIMENSION_NOT_FOUND", "Dimension is not declared on product")
	}
	cleaned, err := cleanValues(values, dim.Values)
	if err != nil {
		return err
	}

	dim.Values = append(dim.Values, cleaned...)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductOptionsChangedEvent(p))

	return nil
}

// RemoveDimension drops a declared dimension. The variant set is
// regenerated by the VariantGenerator afterwards.
func (p *Product) RemoveDimension(name string) error {
	name = strings.TrimSpace(name)
	for idx := range p.Dimensions {
		if p.Dimensions[idx].Name == name {
			p.Dimensions = append(p.Dimensions[:idx], p.Dimensions[idx+1:]...)
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			p.AddDomainEvent(NewProductOptionsChangedEvent(p))
			return nil
		}
	}
	return shared.NewDomainError("DIMENSION_NOT_FOUND", "Dimension is not declared on product")
}

// NextSKU returns the next variant SKU for this product. The sequence
// is persisted with the product and never rewinds, so SKUs are never
// reused across generations even after variants are deprecated.
func (p *Product) NextSKU() string {
	p.SKUSequence++
	p.UpdatedAt = time.Now()
	return p.BaseSKU + "-" + strconv.Itoa(p.SKUSequence)
}

// EnsureSequenceAtLeast bumps the SKU sequence so that it is not behind
// the number of variants that already exist (covers products imported
// with pre-assigned variant SKUs).
func (p *Product) EnsureSequenceAtLeast(n int) {
	if p.SKUSequence < n {
		p.SKUSequence = n
	}
}

// SetPricing updates the price/cost/weight snapshot copied onto new variants
func (p *Product) SetPricing(price, cost, weight decimal.Decimal) error {
	if price.IsNegative() || cost.IsNegative() || weight.IsNegative() {
		return shared.NewDomainError("INVALID_PRICING", "Price, cost and weight cannot be negative")
	}
	p.Price = price
	p.Cost = cost
	p.Weight = weight
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// cleanValues trims and validates a requested value list against values
// already present on a dimension.
func cleanValues(values, existing []string) ([]string, error) {
	if len(values) == 0 {
		return nil, shared.NewDomainError("INVALID_VALUES", "Value list cannot be empty")
	}
	seen := make(map[string]struct{}, len(existing)+len(values))
	for _, v := range existing {
		seen[v] = struct{}{}
	}
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, shared.NewDomainError("INVALID_VALUES", "Values cannot be blank")
		}
		if _, dup := seen[v]; dup {
			return nil, shared.NewDomainError("DUPLICATE_VALUE", "Value "+v+" already exists on dimension")
		}
		seen[v] = struct{}{}
		cleaned = append(cleaned, v)
	}
	return cleaned, nil
}
