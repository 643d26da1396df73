package persistence

import (
	"context"
	"errors"

	"github.com/commercebay/backoffice/internal/domain/fulfillment"
	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransferRepository implements fulfillment.TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// Save creates or updates a transfer including its entries
func (r *GormTransferRepository) Save(ctx context.Context, transfer *fulfillment.Transfer) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(transfer).Error
}

// SaveWithStatusGuard persists only if the stored status still equals
// expected. The guarded UPDATE is the check-then-set that keeps two
// concurrent transitions from both applying.
func (r *GormTransferRepository) SaveWithStatusGuard(ctx context.Context, transfer *fulfillment.Transfer, expected fulfillment.TransferStatus) error {
	result := r.db.WithContext(ctx).
		Model(transfer).
		Where("id = ? AND status = ?", transfer.ID, expected).
		Updates(map[string]interface{}{
			"status":     transfer.Status,
			"reference":  transfer.Reference,
			"version":    transfer.Version,
			"updated_at": transfer.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	// Entry receipt counters ride along with the transition
	for _, entry := range transfer.Entries {
		if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID finds a transfer with its entries
func (r *GormTransferRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*fulfillment.Transfer, error) {
	var transfer fulfillment.Transfer
	if err := r.db.WithContext(ctx).
		Preload("Entries").
		Where("store_id = ? AND id = ?", storeID, id).
		First(&transfer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindByStore returns a page of the store's transfers, optionally filtered
// by status ("" means all)
func (r *GormTransferRepository) FindByStore(ctx context.Context, storeID uuid.UUID, status fulfillment.TransferStatus, filter shared.Filter) (*shared.Paginated[*fulfillment.Transfer], error) {
	query := r.db.WithContext(ctx).Model(&fulfillment.Transfer{}).Where("store_id = ?", storeID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, TransferSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var transfers []*fulfillment.Transfer
	if err := query.
		Preload("Entries").
		Order(orderBy + " " + orderDir).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&transfers).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(transfers, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Delete removes a transfer and its entries
func (r *GormTransferRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&fulfillment.Transfer{}, "store_id = ? AND id = ?", storeID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Delete(&fulfillment.TransferEntry{}, "transfer_id = ?", id).Error
	})
}

var _ fulfillment.TransferRepository = (*GormTransferRepository)(nil)
