package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/commercebay/backoffice/internal/domain/catalog"
	"github.com/commercebay/backoffice/internal/domain/inventory"
	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	items        map[uuid.UUID]*catalog.Product
	findBySKUErr error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{items: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.items[p.ID] = p
	return nil
}

func (r *fakeProductRepo) SaveWithLock(_ context.Context, p *catalog.Product) error {
	r.items[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindByBaseSKU(_ context.Context, _ uuid.UUID, baseSKU string) (*catalog.Product, error) {
	if r.findBySKUErr != nil {
		return nil, r.findBySKUErr
	}
	for _, p := range r.items {
		if p.BaseSKU == baseSKU {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindByStore(_ context.Context, _ uuid.UUID, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	items := make([]*catalog.Product, 0, len(r.items))
	for _, p := range r.items {
		items = append(items, p)
	}
	page := shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize)
	return &page, nil
}

func (r *fakeProductRepo) Delete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

type fakeVariantRepo struct {
	items map[uuid.UUID]*catalog.Variant
}

func newFakeVariantRepo() *fakeVariantRepo {
	return &fakeVariantRepo{items: make(map[uuid.UUID]*catalog.Variant)}
}

func (r *fakeVariantRepo) Save(_ context.Context, v *catalog.Variant) error {
	r.items[v.ID] = v
	return nil
}

func (r *fakeVariantRepo) SaveAll(ctx context.Context, variants []*catalog.Variant) error {
	for _, v := range variants {
		if err := r.Save(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeVariantRepo) FindByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*catalog.Variant, error) {
	v, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return v, nil
}

func (r *fakeVariantRepo) FindBySKU(_ context.Context, _ uuid.UUID, sku string) (*catalog.Variant, error) {
	for _, v := range r.items {
		if v.SKU == sku {
			return v, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeVariantRepo) FindByProduct(_ context.Context, _ uuid.UUID, productID uuid.UUID) ([]*catalog.Variant, error) {
	out := make([]*catalog.Variant, 0)
	for _, v := range r.items {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVariantRepo) FindActiveByProduct(ctx context.Context, storeID, productID uuid.UUID) ([]*catalog.Variant, error) {
	all, err := r.FindByProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	out := make([]*catalog.Variant, 0, len(all))
	for _, v := range all {
		if v.IsActive() {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVariantRepo) CountByProduct(ctx context.Context, storeID, productID uuid.UUID) (int64, error) {
	all, err := r.FindByProduct(ctx, storeID, productID)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
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

type fakeLocations struct {
	ids []uuid.UUID
}

func (f *fakeLocations) LocationIDs(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	return f.ids, nil
}

type serviceFixture struct {
	products  *fakeProductRepo
	variants  *fakeVariantRepo
	levels    *fakeLevelRepo
	locations *fakeLocations
	svc       *VariantService
}

func newServiceFixture(locationCount int) *serviceFixture {
	f := &serviceFixture{
		products:  newFakeProductRepo(),
		variants:  newFakeVariantRepo(),
		levels:    newFakeLevelRepo(),
		locations: &fakeLocations{},
	}
	for i := 0; i < locationCount; i++ {
		f.locations.ids = append(f.locations.ids, uuid.New())
	}
	scope := NewNoOpTransactionScope(f.products, f.variants, f.levels)
	f.svc = NewVariantService(f.products, f.variants, scope, f.locations)
	return f
}

func TestVariantServiceCreateProduct(t *testing.T) {
	f := newServiceFixture(2)
	ctx := context.Background()
	storeID := uuid.New()

	dto, err := f.svc.CreateProduct(ctx, storeID, CreateProductRequest{
		Title:   "Canvas Tote",
		BaseSKU: "tote-01",
		Price:   decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.Equal(t, "TOTE-01", dto.BaseSKU)

	variants, err := f.svc.ListVariants(ctx, storeID, dto.ID, true)
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.True(t, variants[0].IsSynthetic)

	// One zero ledger row per store location.
	assert.Len(t, f.levels.rows, 2)

	t.Run("duplicate base SKU is rejected", func(t *testing.T) {
		_, err := f.svc.CreateProduct(ctx, storeID, CreateProductRequest{
			Title:   "Another Tote",
			BaseSKU: "TOTE-01",
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("duplicate lookup failures surface as-is", func(t *testing.T) {
		f := newServiceFixture(1)
		repoErr := errors.New("connection reset")
		f.products.findBySKUErr = repoErr

		_, err := f.svc.CreateProduct(ctx, storeID, CreateProductRequest{
			Title:   "Tote",
			BaseSKU: "TOTE-02",
		})
		assert.ErrorIs(t, err, repoErr)
		assert.Empty(t, f.products.items)
	})
}

func TestVariantServiceAddDimension(t *testing.T) {
	f := newServiceFixture(3)
	ctx := context.Background()
	storeID := uuid.New()

	product, err := f.svc.CreateProduct(ctx, storeID, CreateProductRequest{Title: "Tee", BaseSKU: "TEE"})
	require.NoError(t, err)

	result, err := f.svc.AddDimension(ctx, storeID, product.ID, DimensionRequest{
		Name:   "Size",
		Values: []string{"S", "M"},
	})
	require.NoError(t, err)

	assert.Len(t, result.Created, 2)
	require.Len(t, result.Deprecated, 1)
	assert.True(t, result.Deprecated[0].IsSynthetic)

	// 1 synthetic + 2 new, each seeded at 3 locations.
	assert.Len(t, f.levels.rows, 9)

	active, err := f.svc.ListVariants(ctx, storeID, product.ID, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	all, err := f.svc.ListVariants(ctx, storeID, product.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestVariantServiceRemoveLastDimension(t *testing.T) {
	f := newServiceFixture(1)
	ctx := context.Background()
	storeID := uuid.New()

	product, err := f.svc.CreateProduct(ctx, storeID, CreateProductRequest{Title: "Tee", BaseSKU: "TEE"})
	require.NoError(t, err)
	_, err = f.svc.AddDimension(ctx, storeID, product.ID, DimensionRequest{Name: "Size", Values: []string{"S", "M"}})
	require.NoError(t, err)

	result, err := f.svc.RemoveDimension(ctx, storeID, product.ID, "Size")
	require.NoError(t, err)

	assert.Len(t, result.Deprecated, 2)
	require.NotNil(t, result.Reactivated)
	assert.True(t, result.Reactivated.IsSynthetic)
	assert.Empty(t, result.Created)

	active, err := f.svc.ListVariants(ctx, storeID, product.ID, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.True(t, active[0].IsSynthetic)
}

func TestVariantServiceValidationErrors(t *testing.T) {
	f := newServiceFixture(1)
	ctx := context.Background()
	storeID := uuid.New()

	product, err := f.svc.CreateProduct(ctx, storeID, CreateProductRequest{Title: "Tee", BaseSKU: "TEE"})
	require.NoError(t, err)

	t.Run("remove unknown dimension", func(t *testing.T) {
		_, err := f.svc.RemoveDimension(ctx, storeID, product.ID, "Size")
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "DIMENSION_NOT_FOUND", derr.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := f.svc.AddDimension(ctx, storeID, uuid.New(), DimensionRequest{Name: "Size", Values: []string{"S"}})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
