package inventory

import (
	"context"

	"github.com/commercebay/backoffice/internal/domain/inventory"
)

// TransactionScope provides transactional access to the ledger repository.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories scoped to
// the current transaction.
type TransactionalRepositories interface {
	// Levels returns the ledger repository scoped to the current transaction
	Levels() inventory.InventoryLevelRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful in tests and wherever transactional guarantees are not needed.
type NoOpTransactionScope struct {
	levels inventory.InventoryLevelRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repository.
func NewNoOpTransactionScope(levels inventory.InventoryLevelRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{levels: levels}
}

// Execute runs the function directly.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Levels returns the ledger repository.
func (s *NoOpTransactionScope) Levels() inventory.InventoryLevelRepository {
	return s.levels
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
