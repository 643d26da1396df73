package persistence

import (
	"context"

	appcatalog "github.com/commercebay/backoffice/internal/application/catalog"
	appfulfillment "github.com/commercebay/backoffice/internal/application/fulfillment"
	appinventory "github.com/commercebay/backoffice/internal/application/inventory"
	"github.com/commercebay/backoffice/internal/domain/catalog"
	"github.com/commercebay/backoffice/internal/domain/fulfillment"
	"github.com/commercebay/backoffice/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormInventoryTransactionScope implements the inventory TransactionScope
// using GORM transactions.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxRepos{tx: tx})
	})
}

// GormCatalogTransactionScope implements the catalog TransactionScope
// using GORM transactions.
type GormCatalogTransactionScope struct {
	db *gorm.DB
}

// NewGormCatalogTransactionScope creates a new GormCatalogTransactionScope
func NewGormCatalogTransactionScope(db *gorm.DB) *GormCatalogTransactionScope {
	return &GormCatalogTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormCatalogTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxRepos{tx: tx})
	})
}

// GormFulfillmentTransactionScope implements the fulfillment TransactionScope
// using GORM transactions.
type GormFulfillmentTransactionScope struct {
	db *gorm.DB
}

// NewGormFulfillmentTransactionScope creates a new GormFulfillmentTransactionScope
func NewGormFulfillmentTransactionScope(db *gorm.DB) *GormFulfillmentTransactionScope {
	return &GormFulfillmentTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormFulfillmentTransactionScope) Execute(ctx context.Context, fn func(repos appfulfillment.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxRepos{tx: tx})
	})
}

// gormTxRepos provides repositories scoped to one transaction. A single
// type backs all three scope interfaces since the repository set overlaps.
type gormTxRepos struct {
	tx *gorm.DB
}

// Products returns the product repository scoped to the current transaction
func (r *gormTxRepos) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Variants returns the variant repository scoped to the current transaction
func (r *gormTxRepos) Variants() catalog.VariantRepository {
	return NewGormVariantRepository(r.tx)
}

// Levels returns the ledger repository scoped to the current transaction
func (r *gormTxRepos) Levels() inventory.InventoryLevelRepository {
	return NewGormInventoryLevelRepository(r.tx)
}

// Transfers returns the transfer repository scoped to the current transaction
func (r *gormTxRepos) Transfers() fulfillment.TransferRepository {
	return NewGormTransferRepository(r.tx)
}

// Shipments returns the shipment repository scoped to the current transaction
func (r *gormTxRepos) Shipments() fulfillment.ShipmentRepository {
	return NewGormShipmentRepository(r.tx)
}

// PurchaseOrders returns the purchase order repository scoped to the current transaction
func (r *gormTxRepos) PurchaseOrders() fulfillment.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

var _ appinventory.TransactionScope = (*GormInventoryTransactionScope)(nil)
var _ appcatalog.TransactionScope = (*GormCatalogTransactionScope)(nil)
var _ appfulfillment.TransactionScope = (*GormFulfillmentTransactionScope)(nil)

var _ appinventory.TransactionalRepositories = (*gormTxRepos)(nil)
var _ appcatalog.TransactionalRepositories = (*gormTxRepos)(nil)
var _ appfulfillment.TransactionalRepositories = (*gormTxRepos)(nil)
