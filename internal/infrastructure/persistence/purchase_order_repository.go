package persistence

import (
	"context"
	"errors"

	"github.com/commercebay/backoffice/internal/domain/fulfillment"
	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements fulfillment.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// Save creates or updates a purchase order including its entries
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *fulfillment.PurchaseOrder) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(po).Error
}

// SaveWithStatusGuard persists only if the stored status still equals
// expected. Partial receipts re-enter with expected == partially_received,
// which the status machine allows as a self-transition.
func (r *GormPurchaseOrderRepository) SaveWithStatusGuard(ctx context.Context, po *fulfillment.PurchaseOrder, expected fulfillment.PurchaseOrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(po).
		Where("id = ? AND status = ?", po.ID, expected).
		Updates(map[string]interface{}{
			"status":     po.Status,
			"reference":  po.Reference,
			"version":    po.Version,
			"updated_at": po.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	// Entry receipt counters ride along with the transition
	for _, entry := range po.Entries {
		if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID finds a purchase order with its entries
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*fulfillment.PurchaseOrder, error) {
	var po fulfillment.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Entries").
		Where("store_id = ? AND id = ?", storeID, id).
		First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindByStore returns a page of the store's purchase orders, optionally
// filtered by status ("" means all)
func (r *GormPurchaseOrderRepository) FindByStore(ctx context.Context, storeID uuid.UUID, status fulfillment.PurchaseOrderStatus, filter shared.Filter) (*shared.Paginated[*fulfillment.PurchaseOrder], error) {
	query := r.db.WithContext(ctx).Model(&fulfillment.PurchaseOrder{}).Where("store_id = ?", storeID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var orders []*fulfillment.PurchaseOrder
	if err := query.
		Preload("Entries").
		Order(orderBy + " " + orderDir).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Delete removes a purchase order and its entries
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&fulfillment.PurchaseOrder{}, "store_id = ? AND id = ?", storeID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Delete(&fulfillment.PurchaseOrderEntry{}, "purchase_order_id = ?", id).Error
	})
}

var _ fulfillment.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
