package persistence

import (
	"context"
	"errors"

	"github.com/commercebay/backoffice/internal/domain/catalog"
	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVariantRepository implements catalog.VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// Save creates or updates a variant
func (r *GormVariantRepository) Save(ctx context.Context, variant *catalog.Variant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

// SaveAll persists a batch of variants in one statement
func (r *GormVariantRepository) SaveAll(ctx context.Context, variants []*catalog.Variant) error {
	if len(variants) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(variants).Error
}

// FindByID finds a variant by ID within a store
func (r *GormVariantRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*catalog.Variant, error) {
	var variant catalog.Variant
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindBySKU finds a variant by SKU within a store
func (r *GormVariantRepository) FindBySKU(ctx context.Context, storeID uuid.UUID, sku string) (*catalog.Variant, error) {
	var variant catalog.Variant
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND sku = ?", storeID, sku).
		First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindByProduct returns all variants of the product, deprecated included
func (r *GormVariantRepository) FindByProduct(ctx context.Context, storeID, productID uuid.UUID) ([]*catalog.Variant, error) {
	var variants []*catalog.Variant
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Order("created_at ASC").
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// FindActiveByProduct returns only variants still participating in
// generation and sale
func (r *GormVariantRepository) FindActiveByProduct(ctx context.Context, storeID, productID uuid.UUID) ([]*catalog.Variant, error) {
	var variants []*catalog.Variant
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ? AND deprecated = false", storeID, productID).
		Order("created_at ASC").
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// CountByProduct counts all variants of a product
func (r *GormVariantRepository) CountByProduct(ctx context.Context, storeID, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Variant{}).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ catalog.VariantRepository = (*GormVariantRepository)(nil)
