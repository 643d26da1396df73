package inventory

import (
	"time"

	"github.com/commercebay/backoffice/internal/domain/inventory"
	"github.com/google/uuid"
)

// LevelDTO is the outward representation of one ledger row
type LevelDTO struct {
	ID          uuid.UUID      `json:"id"`
	VariantID   uuid.UUID      `json:"variant_id"`
	LocationID  uuid.UUID      `json:"location_id"`
	OnHand      int64          `json:"on_hand"`
	Committed   int64          `json:"committed"`
	Unavailable UnavailableDTO `json:"unavailable"`
	Available   int64          `json:"available"`
	Incoming    int64          `json:"incoming"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// UnavailableDTO mirrors the unavailable buckets
type UnavailableDTO struct {
	Damaged        int64 `json:"damaged"`
	QualityControl int64 `json:"quality_control"`
	SafetyStock    int64 `json:"safety_stock"`
	Other          int64 `json:"other"`
}

// ToLevelDTO converts a ledger row to its DTO
func ToLevelDTO(l *inventory.InventoryLevel) *LevelDTO {
	return &LevelDTO{
		ID:         l.ID,
		VariantID:  l.VariantID,
		LocationID: l.LocationID,
		OnHand:     l.OnHand,
		Committed:  l.Committed,
		Unavailable: UnavailableDTO{
			Damaged:        l.Unavailable.Damaged,
			QualityControl: l.Unavailable.QualityControl,
			SafetyStock:    l.Unavailable.SafetyStock,
			Other:          l.Unavailable.Other,
		},
		Available: l.Available,
		Incoming:  l.Incoming,
		UpdatedAt: l.UpdatedAt,
	}
}

// SetUnavailableRequest moves stock into or out of one unavailable bucket
type SetUnavailableRequest struct {
	VariantID  uuid.UUID `json:"variant_id" binding:"required"`
	LocationID uuid.UUID `json:"location_id" binding:"required"`
	Bucket     string    `json:"bucket" binding:"required,oneof=damaged quality_control safety_stock other"`
	Quantity   int64     `json:"quantity" binding:"min=0"`
}

// AvailabilityDTO is the storefront-facing availability projection
type AvailabilityDTO struct {
	VariantID  uuid.UUID `json:"variant_id"`
	LocationID uuid.UUID `json:"location_id"`
	Available  int64     `json:"available"`
	Incoming   int64     `json:"incoming"`
}
