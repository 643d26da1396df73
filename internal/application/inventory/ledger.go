package inventory

import (
	"bytes"
	"context"
	"sort"

	"github.com/commercebay/backoffice/internal/domain/inventory"
	"github.com/google/uuid"
)

// Ledger applies row-scoped adjustments against the inventory level
// repository. Multi-row moves fetch and persist rows in canonical
// (locationID, variantID) order so concurrent transitions touching the
// same rows lock in the same order and cannot deadlock.
type Ledger struct{}

// NewLedger creates a new Ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// SortKeys orders ledger keys canonically, location first then variant
func SortKeys(keys []inventory.LevelKey) {
	sort.Slice(keys, func(i, j int) bool {
		if c := bytes.Compare(keys[i].LocationID[:], keys[j].LocationID[:]); c != 0 {
			return c < 0
		}
		return bytes.Compare(keys[i].VariantID[:], keys[j].VariantID[:]) < 0
	})
}

// Fetch loads (or lazily creates) every requested row in canonical order
func (l *Ledger) Fetch(ctx context.Context, repo inventory.InventoryLevelRepository, storeID uuid.UUID, keys []inventory.LevelKey) (map[inventory.LevelKey]*inventory.InventoryLevel, error) {
	sorted := make([]inventory.LevelKey, len(keys))
	copy(sorted, keys)
	SortKeys(sorted)

	rows := make(map[inventory.LevelKey]*inventory.InventoryLevel, len(sorted))
	for _, key := range sorted {
		if _, ok := rows[key]; ok {
			continue
		}
		row, err := repo.GetOrCreate(ctx, storeID, key)
		if err != nil {
			return nil, err
		}
		rows[key] = row
	}
	return rows, nil
}

// SaveAll persists every touched row through the version-checked write,
// again in canonical order.
func (l *Ledger) SaveAll(ctx context.Context, repo inventory.InventoryLevelRepository, rows map[inventory.LevelKey]*inventory.InventoryLevel) error {
	keys := make([]inventory.LevelKey, 0, len(rows))
	for key := range rows {
		keys = append(keys, key)
	}
	SortKeys(keys)

	for _, key := range keys {
		if err := repo.SaveWithLock(ctx, rows[key]); err != nil {
			return err
		}
	}
	return nil
}

// Adjust applies one mutation to a single row and persists it
func (l *Ledger) Adjust(ctx context.Context, repo inventory.InventoryLevelRepository, storeID uuid.UUID, key inventory.LevelKey, mutate func(*inventory.InventoryLevel) error) (*inventory.InventoryLevel, error) {
	row, err := repo.GetOrCreate(ctx, storeID, key)
	if err != nil {
		return nil, err
	}
	if err := mutate(row); err != nil {
		return nil, err
	}
	if err := repo.SaveWithLock(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}
