package catalog

import (
	"time"

	"github.com/commercebay/backoffice/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest creates a dimensionless product; its synthetic
// variant is generated alongside.
type CreateProductRequest struct {
	Title   string          `json:"title" binding:"required,max=200"`
	BaseSKU string          `json:"base_sku" binding:"required,max=50"`
	Price   decimal.Decimal `json:"price"`
	Cost    decimal.Decimal `json:"cost"`
	Weight  decimal.Decimal `json:"weight"`
}

// DimensionRequest adds a dimension or extends one with values
type DimensionRequest struct {
	Name   string   `json:"name" binding:"required,max=50"`
	Values []string `json:"values" binding:"required,min=1,dive,required,max=50"`
}

// ProductDTO is the outward representation of a product
type ProductDTO struct {
	ID         uuid.UUID                 `json:"id"`
	Title      string                    `json:"title"`
	BaseSKU    string                    `json:"base_sku"`
	Dimensions []catalog.OptionDimension `json:"dimensions"`
	Price      decimal.Decimal           `json:"price"`
	Cost       decimal.Decimal           `json:"cost"`
	Weight     decimal.Decimal           `json:"weight"`
	CreatedAt  time.Time                 `json:"created_at"`
	UpdatedAt  time.Time                 `json:"updated_at"`
}

// ToProductDTO converts a product to its DTO
func ToProductDTO(p *catalog.Product) *ProductDTO {
	return &ProductDTO{
		ID:         p.ID,
		Title:      p.Title,
		BaseSKU:    p.BaseSKU,
		Dimensions: p.Dimensions,
		Price:      p.Price,
		Cost:       p.Cost,
		Weight:     p.Weight,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// VariantDTO is the outward representation of a variant
type VariantDTO struct {
	ID          uuid.UUID            `json:"id"`
	ProductID   uuid.UUID            `json:"product_id"`
	SKU         string               `json:"sku"`
	Options     catalog.OptionValues `json:"options"`
	Signature   string               `json:"signature"`
	IsSynthetic bool                 `json:"is_synthetic"`
	Deprecated  bool                 `json:"deprecated"`
	Price       decimal.Decimal      `json:"price"`
	CreatedAt   time.Time            `json:"created_at"`
}

// ToVariantDTO converts a variant to its DTO
func ToVariantDTO(v *catalog.Variant) *VariantDTO {
	return &VariantDTO{
		ID:          v.ID,
		ProductID:   v.ProductID,
		SKU:         v.SKU,
		Options:     v.Options,
		Signature:   v.Signature(),
		IsSynthetic: v.IsSynthetic,
		Deprecated:  v.Deprecated,
		Price:       v.Price,
		CreatedAt:   v.CreatedAt,
	}
}

// GenerationResultDTO reports what one option change did to the variant set
type GenerationResultDTO struct {
	Product     *ProductDTO   `json:"product"`
	Created     []*VariantDTO `json:"created"`
	Deprecated  []*VariantDTO `json:"deprecated"`
	Reactivated *VariantDTO   `json:"reactivated,omitempty"`
}
