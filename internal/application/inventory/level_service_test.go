package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/commercebay/backoffice/internal/domain/inventory"
	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

type countingCache struct {
	values      map[string]CachedAvailability
	hits        int
	sets        int
	invalidated int
}

func newCountingCache() *countingCache {
	return &countingCache{values: make(map[string]CachedAvailability)}
}

func cacheKey(storeID, variantID, locationID uuid.UUID) string {
	return storeID.String() + ":" + variantID.String() + ":" + locationID.String()
}

func (c *countingCache) Get(_ context.Context, storeID, variantID, locationID uuid.UUID) (*CachedAvailability, error) {
	if v, ok := c.values[cacheKey(storeID, variantID, locationID)]; ok {
		c.hits++
		return &v, nil
	}
	return nil, nil
}

func (c *countingCache) Set(_ context.Context, storeID, variantID, locationID uuid.UUID, value CachedAvailability) error {
	c.sets++
	c.values[cacheKey(storeID, variantID, locationID)] = value
	return nil
}

func (c *countingCache) Invalidate(_ context.Context, storeID, variantID, locationID uuid.UUID) error {
	c.invalidated++
	delete(c.values, cacheKey(storeID, variantID, locationID))
	return nil
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

// failingCommitScope runs the function, then fails the transaction as a
// whole, the way a commit error does.
type failingCommitScope struct {
	inner *NoOpTransactionScope
	err   error
}

func (s *failingCommitScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	if err := fn(s.inner); err != nil {
		return err
	}
	return s.err
}

func seededService(t *testing.T) (*LevelService, *fakeLevelRepo, uuid.UUID, inventory.LevelKey) {
	t.Helper()
	repo := newFakeLevelRepo()
	svc := NewLevelService(repo, NewNoOpTransactionScope(repo))

	storeID := uuid.New()
	key := inventory.LevelKey{VariantID: uuid.New(), LocationID: uuid.New()}
	row, err := repo.GetOrCreate(context.Background(), storeID, key)
	require.NoError(t, err)
	require.NoError(t, row.Receive(10, 10))
	row.ClearDomainEvents()
	return svc, repo, storeID, key
}

func TestLevelServiceGetLevel(t *testing.T) {
	svc, _, storeID, key := seededService(t)
	ctx := context.Background()

	dto, err := svc.GetLevel(ctx, storeID, key.VariantID, key.LocationID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), dto.OnHand)
	assert.Equal(t, int64(10), dto.Available)

	_, err = svc.GetLevel(ctx, storeID, uuid.New(), key.LocationID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLevelServiceSetUnavailable(t *testing.T) {
	svc, repo, storeID, key := seededService(t)
	ctx := context.Background()

	dto, err := svc.SetUnavailable(ctx, storeID, SetUnavailableRequest{
		VariantID:  key.VariantID,
		LocationID: key.LocationID,
		Bucket:     inventory.BucketDamaged,
		Quantity:   4,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), dto.Unavailable.Damaged)
	assert.Equal(t, int64(6), dto.Available)
	assert.Equal(t, int64(6), repo.rows[key].Available)

	t.Run("unknown bucket is rejected", func(t *testing.T) {
		_, err := svc.SetUnavailable(ctx, storeID, SetUnavailableRequest{
			VariantID:  key.VariantID,
			LocationID: key.LocationID,
			Bucket:     "lost",
			Quantity:   1,
		})
		assert.Error(t, err)
	})
}

func TestLevelServiceSetUnavailablePublishesAfterCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("committed adjustments publish", func(t *testing.T) {
		svc, _, storeID, key := seededService(t)
		publisher := &recordingPublisher{}
		svc.SetEventPublisher(publisher)

		_, err := svc.SetUnavailable(ctx, storeID, SetUnavailableRequest{
			VariantID:  key.VariantID,
			LocationID: key.LocationID,
			Bucket:     inventory.BucketDamaged,
			Quantity:   2,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, publisher.events)
	})

	t.Run("a failed commit publishes nothing", func(t *testing.T) {
		repo := newFakeLevelRepo()
		storeID := uuid.New()
		key := inventory.LevelKey{VariantID: uuid.New(), LocationID: uuid.New()}
		row, err := repo.GetOrCreate(ctx, storeID, key)
		require.NoError(t, err)
		require.NoError(t, row.Receive(10, 10))
		row.ClearDomainEvents()

		commitErr := errors.New("commit failed")
		svc := NewLevelService(repo, &failingCommitScope{inner: NewNoOpTransactionScope(repo), err: commitErr})
		publisher := &recordingPublisher{}
		svc.SetEventPublisher(publisher)

		_, err = svc.SetUnavailable(ctx, storeID, SetUnavailableRequest{
			VariantID:  key.VariantID,
			LocationID: key.LocationID,
			Bucket:     inventory.BucketDamaged,
			Quantity:   2,
		})
		assert.ErrorIs(t, err, commitErr)
		assert.Empty(t, publisher.events)
	})
}

func TestLevelServiceAvailability(t *testing.T) {
	svc, _, storeID, key := seededService(t)
	cache := newCountingCache()
	svc.SetAvailabilityCache(cache)
	ctx := context.Background()

	t.Run("miss falls back to the database and fills the cache", func(t *testing.T) {
		dto, err := svc.Availability(ctx, storeID, key.VariantID, key.LocationID)
		require.NoError(t, err)
		assert.Equal(t, int64(10), dto.Available)
		assert.Equal(t, 1, cache.sets)
		assert.Zero(t, cache.hits)
	})

	t.Run("second read hits the cache", func(t *testing.T) {
		_, err := svc.Availability(ctx, storeID, key.VariantID, key.LocationID)
		require.NoError(t, err)
		assert.Equal(t, 1, cache.hits)
	})

	t.Run("writes invalidate", func(t *testing.T) {
		_, err := svc.SetUnavailable(ctx, storeID, SetUnavailableRequest{
			VariantID:  key.VariantID,
			LocationID: key.LocationID,
			Bucket:     inventory.BucketOther,
			Quantity:   2,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, cache.invalidated)

		dto, err := svc.Availability(ctx, storeID, key.VariantID, key.LocationID)
		require.NoError(t, err)
		assert.Equal(t, int64(8), dto.Available)
	})
}

func TestSortKeysCanonicalOrder(t *testing.T) {
	a := inventory.LevelKey{VariantID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), LocationID: uuid.MustParse("00000000-0000-0000-0000-00000000000a")}
	b := inventory.LevelKey{VariantID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), LocationID: uuid.MustParse("00000000-0000-0000-0000-00000000000b")}
	c := inventory.LevelKey{VariantID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), LocationID: uuid.MustParse("00000000-0000-0000-0000-00000000000a")}

	keys := []inventory.LevelKey{a, b, c}
	SortKeys(keys)

	// Location first, then variant.
	assert.Equal(t, []inventory.LevelKey{c, a, b}, keys)
}
