package catalog

import (
	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeProduct = "Product"
	AggregateTypeVariant = "Variant"
)

// Event type constants
const (
	EventTypeProductOptionsChanged = "ProductOptionsChanged"
	EventTypeVariantCreated        = "VariantCreated"
	EventTypeVariantDeprecated     = "VariantDeprecated"
	EventTypeVariantReactivated    = "VariantReactivated"
)

// ProductOptionsChangedEvent is raised when a product's option
// dimensions are added to, extended or removed.
type ProductOptionsChangedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID         `json:"product_id"`
	Dimensions []OptionDimension `json:"dimensions"`
}

// NewProductOptionsChangedEvent creates a new ProductOptionsChangedEvent
func NewProductOptionsChangedEvent(p *Product) *ProductOptionsChangedEvent {
	dims := make([]OptionDimension, len(p.Dimensions))
	copy(dims, p.Dimensions)
	return &ProductOptionsChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductOptionsChanged, AggregateTypeProduct, p.ID, p.StoreID),
		ProductID:       p.ID,
		Dimensions:      dims,
	}
}

// VariantCreatedEvent is raised when a new variant (including the
// synthetic placeholder) is generated.
type VariantCreatedEvent struct {
	shared.BaseDomainEvent
	VariantID   uuid.UUID `json:"variant_id"`
	ProductID   uuid.UUID `json:"product_id"`
	SKU         string    `json:"sku"`
	Signature   string    `json:"signature"`
	IsSynthetic bool      `json:"is_synthetic"`
}

// NewVariantCreatedEvent creates a new VariantCreatedEvent
func NewVariantCreatedEvent(v *Variant) *VariantCreatedEvent {
	return &VariantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVariantCreated, AggregateTypeVariant, v.ID, v.StoreID),
		VariantID:       v.ID,
		ProductID:       v.ProductID,
		SKU:             v.SKU,
		Signature:       v.Signature(),
		IsSynthetic:     v.IsSynthetic,
	}
}

// VariantDeprecatedEvent is raised when a variant is soft-retired
type VariantDeprecatedEvent struct {
	shared.BaseDomainEvent
	VariantID uuid.UUID `json:"variant_id"`
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
}

// NewVariantDeprecatedEvent creates a new VariantDeprecatedEvent
func NewVariantDeprecatedEvent(v *Variant) *VariantDeprecatedEvent {
	return &VariantDeprecatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVariantDeprecated, AggregateTypeVariant, v.ID, v.StoreID),
		VariantID:       v.ID,
		ProductID:       v.ProductID,
		SKU:             v.SKU,
	}
}

// VariantReactivatedEvent is raised when the synthetic placeholder
// comes back after the last dimension is removed.
type VariantReactivatedEvent struct {
	shared.BaseDomainEvent
	VariantID uuid.UUID `json:"variant_id"`
	ProductID uuid.UUID `json:"product_id"`
}

// NewVariantReactivatedEvent creates a new VariantReactivatedEvent
func NewVariantReactivatedEvent(v *Variant) *VariantReactivatedEvent {
	return &VariantReactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVariantReactivated, AggregateTypeVariant, v.ID, v.StoreID),
		VariantID:       v.ID,
		ProductID:       v.ProductID,
	}
}
