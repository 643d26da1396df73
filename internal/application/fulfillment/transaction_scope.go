package fulfillment

import (
	"context"

	"github.com/commercebay/backoffice/internal/domain/fulfillment"
	"github.com/commercebay/backoffice/internal/domain/inventory"
)

// TransactionScope provides transactional access to the fulfillment
// repositories plus the ledger they mutate. Every state transition runs
// exactly one Execute call so a half-applied transition is never
// observable.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories scoped
// to the current transaction.
type TransactionalRepositories interface {
	Transfers() fulfillment.TransferRepository
	Shipments() fulfillment.ShipmentRepository
	PurchaseOrders() fulfillment.PurchaseOrderRepository
	Levels() inventory.InventoryLevelRepository
}

// NoOpTransactionScope runs the function without a real transaction.
type NoOpTransactionScope struct {
	transfers      fulfillment.TransferRepository
	shipments      fulfillment.ShipmentRepository
	purchaseOrders fulfillment.PurchaseOrderRepository
	levels         inventory.InventoryLevelRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	transfers fulfillment.TransferRepository,
	shipments fulfillment.ShipmentRepository,
	purchaseOrders fulfillment.PurchaseOrderRepository,
	levels inventory.InventoryLevelRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		transfers:      transfers,
		shipments:      shipments,
		purchaseOrders: purchaseOrders,
		levels:         levels,
	}
}

// Execute runs the function directly.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Transfers returns the transfer repository.
func (s *NoOpTransactionScope) Transfers() fulfillment.TransferRepository { return s.transfers }

// Shipments returns the shipment repository.
func (s *NoOpTransactionScope) Shipments() fulfillment.ShipmentRepository { return s.shipments }

// PurchaseOrders returns the purchase order repository.
func (s *NoOpTransactionScope) PurchaseOrders() fulfillment.PurchaseOrderRepository {
	return s.purchaseOrders
}

// Levels returns the ledger repository.
func (s *NoOpTransactionScope) Levels() inventory.InventoryLevelRepository { return s.levels }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
