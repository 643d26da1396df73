package fulfillment

import (
	"context"

	appinventory "github.com/commercebay/backoffice/internal/application/inventory"
	"github.com/commercebay/backoffice/internal/domain/fulfillment"
	"github.com/commercebay/backoffice/internal/domain/inventory"
	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// In-memory repositories backing the service tests.

type fakeTransferRepo struct {
	items map[uuid.UUID]*fulfillment.Transfer
}

func newFakeTransferRepo() *fakeTransferRepo {
	return &fakeTransferRepo{items: make(map[uuid.UUID]*fulfillment.Transfer)}
}

func (r *fakeTransferRepo) Save(_ context.Context, t *fulfillment.Transfer) error {
	r.items[t.ID] = t
	return nil
}

func (r *fakeTransferRepo) SaveWithStatusGuard(_ context.Context, t *fulfillment.Transfer, _ fulfillment.TransferStatus) error {
	r.items[t.ID] = t
	return nil
}

func (r *fakeTransferRepo) FindByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*fulfillment.Transfer, error) {
	t, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (r *fakeTransferRepo) FindByStore(_ context.Context, _ uuid.UUID, status fulfillment.TransferStatus, filter shared.Filter) (*shared.Paginated[*fulfillment.Transfer], error) {
	items := make([]*fulfillment.Transfer, 0, len(r.items))
	for _, t := range r.items {
		if status == "" || t.Status == status {
			items = append(items, t)
		}
	}
	page := shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize)
	return &page, nil
}

func (r *fakeTransferRepo) Delete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeShipmentRepo struct {
	items             map[uuid.UUID]*fulfillment.Shipment
	findByTransferErr error
}

func newFakeShipmentRepo() *fakeShipmentRepo {
	return &fakeShipmentRepo{items: make(map[uuid.UUID]*fulfillment.Shipment)}
}

func (r *fakeShipmentRepo) Save(_ context.Context, s *fulfillment.Shipment) error {
	r.items[s.ID] = s
	return nil
}

func (r *fakeShipmentRepo) SaveWithStatusGuard(_ context.Context, s *fulfillment.Shipment, _ fulfillment.ShipmentStatus) error {
	r.items[s.ID] = s
	return nil
}

func (r *fakeShipmentRepo) FindByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*fulfillment.Shipment, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *fakeShipmentRepo) FindByTransfer(_ context.Context, _ uuid.UUID, transferID uuid.UUID) (*fulfillment.Shipment, error) {
	if r.findByTransferErr != nil {
		return nil, r.findByTransferErr
	}
	for _, s := range r.items {
		if s.TransferID == transferID {
			return s, nil
		}
	}
	return nil, shared.ErrNotFound
}

type fakePurchaseOrderRepo struct {
	items map[uuid.UUID]*fulfillment.PurchaseOrder
}

func newFakePurchaseOrderRepo() *fakePurchaseOrderRepo {
	return &fakePurchaseOrderRepo{items: make(map[uuid.UUID]*fulfillment.PurchaseOrder)}
}

func (r *fakePurchaseOrderRepo) Save(_ context.Context, po *fulfillment.PurchaseOrder) error {
	r.items[po.ID] = po
	return nil
}

func (r *fakePurchaseOrderRepo) SaveWithStatusGuard(_ context.Context, po *fulfillment.PurchaseOrder, _ fulfillment.PurchaseOrderStatus) error {
	r.items[po.ID] = po
	return nil
}

func (r *fakePurchaseOrderRepo) FindByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*fulfillment.PurchaseOrder, error) {
	po, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return po, nil
}

func (r *fakePurchaseOrderRepo) FindByStore(_ context.Context, _ uuid.UUID, status fulfillment.PurchaseOrderStatus, filter shared.Filter) (*shared.Paginated[*fulfillment.PurchaseOrder], error) {
	items := make([]*fulfillment.PurchaseOrder, 0, len(r.items))
	for _, po := range r.items {
		if status == "" || po.Status == status {
			items = append(items, po)
		}
	}
	page := shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize)
	return &page, nil
}

func (r *fakePurchaseOrderRepo) Delete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeLevelRepo struct {
	rows map[inventory.LevelKey]*inventory.InventoryLevel
}

func newFakeLevelRepo() *fakeLevelRepo {
	return &fakeLevelRepo{rows: make(map[inventory.LevelKey]*inventory.InventoryLevel)}
}

func (r *fakeLevelRepo) Save(_ context.Context, l *inventory.InventoryLevel) error {
	r.rows[inventory.LevelKey{VariantID: l.VariantID, LocationID: l.LocationID}] = l
	return nil
}

func (r *fakeLevelRepo) SaveWithLock(ctx context.Context, l *inventory.InventoryLevel) error {
	return r.Save(ctx, l)
}

func (r *fakeLevelRepo) FindByKey(_ context.Context, _ uuid.UUID, key inventory.LevelKey) (*inventory.InventoryLevel, error) {
	row, ok := r.rows[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return row, nil
}

func (r *fakeLevelRepo) GetOrCreate(_ context.Context, storeID uuid.UUID, key inventory.LevelKey) (*inventory.InventoryLevel, error) {
	if row, ok := r.rows[key]; ok {
		return row, nil
	}
	row, err := inventory.NewInventoryLevel(storeID, key.VariantID, key.LocationID)
	if err != nil {
		return nil, err
	}
	r.rows[key] = row
	return row, nil
}

func (r *fakeLevelRepo) FindByVariant(_ context.Context, _ uuid.UUID, variantID uuid.UUID) ([]*inventory.InventoryLevel, error) {
	out := make([]*inventory.InventoryLevel, 0)
	for key, row := range r.rows {
		if key.VariantID == variantID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeLevelRepo) FindByLocation(_ context.Context, _ uuid.UUID, locationID uuid.UUID, filter shared.Filter) (*shared.Paginated[*inventory.InventoryLevel], error) {
	out := make([]*inventory.InventoryLevel, 0)
	for key, row := range r.rows {
		if key.LocationID == locationID {
			out = append(out, row)
		}
	}
	page := shared.NewPaginated(out, int64(len(out)), filter.Page, filter.PageSize)
	return &page, nil
}

func (r *fakeLevelRepo) SeedZero(ctx context.Context, storeID uuid.UUID, keys []inventory.LevelKey) error {
	for _, key := range keys {
		if _, err := r.GetOrCreate(ctx, storeID, key); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeLevelRepo) mustGet(key inventory.LevelKey) *inventory.InventoryLevel {
	return r.rows[key]
}

type fakeAvailabilityCache struct {
	values      map[inventory.LevelKey]appinventory.CachedAvailability
	invalidated map[inventory.LevelKey]int
}

func newFakeAvailabilityCache() *fakeAvailabilityCache {
	return &fakeAvailabilityCache{
		values:      make(map[inventory.LevelKey]appinventory.CachedAvailability),
		invalidated: make(map[inventory.LevelKey]int),
	}
}

func (c *fakeAvailabilityCache) Get(_ context.Context, _, variantID, locationID uuid.UUID) (*appinventory.CachedAvailability, error) {
	if v, ok := c.values[inventory.LevelKey{VariantID: variantID, LocationID: locationID}]; ok {
		return &v, nil
	}
	return nil, nil
}

func (c *fakeAvailabilityCache) Set(_ context.Context, _, variantID, locationID uuid.UUID, value appinventory.CachedAvailability) error {
	c.values[inventory.LevelKey{VariantID: variantID, LocationID: locationID}] = value
	return nil
}

func (c *fakeAvailabilityCache) Invalidate(_ context.Context, _, variantID, locationID uuid.UUID) error {
	key := inventory.LevelKey{VariantID: variantID, LocationID: locationID}
	c.invalidated[key]++
	delete(c.values, key)
	return nil
}

var (
	_ fulfillment.TransferRepository      = (*fakeTransferRepo)(nil)
	_ fulfillment.ShipmentRepository      = (*fakeShipmentRepo)(nil)
	_ fulfillment.PurchaseOrderRepository = (*fakePurchaseOrderRepo)(nil)
	_ inventory.InventoryLevelRepository  = (*fakeLevelRepo)(nil)
	_ appinventory.AvailabilityCache      = (*fakeAvailabilityCache)(nil)
)
