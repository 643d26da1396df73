package persistence

import (
	"context"
	"errors"

	"github.com/commercebay/backoffice/internal/domain/fulfillment"
	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormShipmentRepository implements fulfillment.ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// Save creates or updates a shipment
func (r *GormShipmentRepository) Save(ctx context.Context, shipment *fulfillment.Shipment) error {
	return r.db.WithContext(ctx).Save(shipment).Error
}

// SaveWithStatusGuard persists only if the stored status still equals
// expected, returning shared.ErrConcurrencyConflict otherwise
func (r *GormShipmentRepository) SaveWithStatusGuard(ctx context.Context, shipment *fulfillment.Shipment, expected fulfillment.ShipmentStatus) error {
	result := r.db.WithContext(ctx).
		Model(shipment).
		Where("id = ? AND status = ?", shipment.ID, expected).
		Updates(map[string]interface{}{
			"status":          shipment.Status,
			"carrier":         shipment.Carrier,
			"tracking_number": shipment.TrackingNumber,
			"tracking_url":    shipment.TrackingURL,
			"shipped_at":      shipment.ShippedAt,
			"received_at":     shipment.ReceivedAt,
			"version":         shipment.Version,
			"updated_at":      shipment.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a shipment by ID within a store
func (r *GormShipmentRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*fulfillment.Shipment, error) {
	var shipment fulfillment.Shipment
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&shipment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shipment, nil
}

// FindByTransfer finds the shipment attached to a transfer
func (r *GormShipmentRepository) FindByTransfer(ctx context.Context, storeID, transferID uuid.UUID) (*fulfillment.Shipment, error) {
	var shipment fulfillment.Shipment
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND transfer_id = ?", storeID, transferID).
		First(&shipment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shipment, nil
}

var _ fulfillment.ShipmentRepository = (*GormShipmentRepository)(nil)
