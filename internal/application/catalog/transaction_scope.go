package catalog

import (
	"context"

	"github.com/commercebay/backoffice/internal/domain/catalog"
	"github.com/commercebay/backoffice/internal/domain/inventory"
)

// TransactionScope provides transactional access to the catalog
// repositories plus the ledger, which variant generation seeds.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories scoped
// to the current transaction.
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Variants() catalog.VariantRepository
	Levels() inventory.InventoryLevelRepository
}

// NoOpTransactionScope runs the function without a real transaction.
type NoOpTransactionScope struct {
	products catalog.ProductRepository
	variants catalog.VariantRepository
	levels   inventory.InventoryLevelRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	products catalog.ProductRepository,
	variants catalog.VariantRepository,
	levels inventory.InventoryLevelRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{products: products, variants: variants, levels: levels}
}

// Execute runs the function directly.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Products returns the product repository.
func (s *NoOpTransactionScope) Products() catalog.ProductRepository { return s.products }

// Variants returns the variant repository.
func (s *NoOpTransactionScope) Variants() catalog.VariantRepository { return s.variants }

// Levels returns the ledger repository.
func (s *NoOpTransactionScope) Levels() inventory.InventoryLevelRepository { return s.levels }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
