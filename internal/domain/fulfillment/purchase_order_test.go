package fulfillment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPurchaseOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	po, err := NewPurchaseOrder(uuid.New(), uuid.New(), uuid.New(), "PO-100", []PurchaseOrderEntryInput{
		{VariantID: uuid.New(), QuantityOrdered: 5, Cost: decimal.NewFromInt(10), TaxPercent: decimal.NewFromInt(20)},
		{VariantID: uuid.New(), QuantityOrdered: 2, Cost: decimal.NewFromInt(4), TaxPercent: decimal.Zero},
	})
	require.NoError(t, err)
	return po
}

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("computes totals once at creation", func(t *testing.T) {
		po := newTestPurchaseOrder(t)
		// 5×10 + 2×4 = 58; tax 50×20% = 10
		assert.True(t, po.SubtotalCost.Equal(decimal.NewFromInt(58)), po.SubtotalCost.String())
		assert.True(t, po.TotalTax.Equal(decimal.NewFromInt(10)), po.TotalTax.String())
		assert.True(t, po.TotalCost.Equal(decimal.NewFromInt(68)), po.TotalCost.String())
		assert.Equal(t, PurchaseOrderStatusDraft, po.Status)
	})

	t.Run("rejects invalid entries", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), uuid.New(), uuid.New(), "", nil)
		assert.Error(t, err)

		_, err = NewPurchaseOrder(uuid.New(), uuid.New(), uuid.New(), "", []PurchaseOrderEntryInput{
			{VariantID: uuid.New(), QuantityOrdered: 0, Cost: decimal.NewFromInt(1)},
		})
		assert.Error(t, err)

		_, err = NewPurchaseOrder(uuid.New(), uuid.New(), uuid.New(), "", []PurchaseOrderEntryInput{
			{VariantID: uuid.New(), QuantityOrdered: 1, Cost: decimal.NewFromInt(-1)},
		})
		assert.Error(t, err)
	})
}

func TestPurchaseOrderLifecycle(t *testing.T) {
	po := newTestPurchaseOrder(t)

	require.NoError(t, po.MarkOrdered())
	assert.Equal(t, PurchaseOrderStatusOrdered, po.Status)
	assert.True(t, po.CanReceive())

	assert.Error(t, po.MarkOrdered())
}

func TestPurchaseOrderPartialReceiptIdempotence(t *testing.T) {
	// Receiving {accept:2} twice against an entry ordered at 5 must land
	// on 4 received and partially_received; a final {accept:1} completes.
	po, err := NewPurchaseOrder(uuid.New(), uuid.New(), uuid.New(), "", []PurchaseOrderEntryInput{
		{VariantID: uuid.New(), QuantityOrdered: 5, Cost: decimal.NewFromInt(10), TaxPercent: decimal.Zero},
	})
	require.NoError(t, err)
	require.NoError(t, po.MarkOrdered())
	entry := po.Entries[0]

	accept, processed, err := po.ApplyReceipt(entry.ID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), accept)
	assert.Equal(t, int64(2), processed)
	require.NoError(t, po.SettleStatus())
	assert.Equal(t, PurchaseOrderStatusPartiallyReceived, po.Status)

	accept, processed, err = po.ApplyReceipt(entry.ID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), accept)
	assert.Equal(t, int64(2), processed)
	require.NoError(t, po.SettleStatus())
	assert.Equal(t, int64(4), entry.QuantityReceived)
	assert.Equal(t, PurchaseOrderStatusPartiallyReceived, po.Status)

	accept, processed, err = po.ApplyReceipt(entry.ID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), accept)
	assert.Equal(t, int64(1), processed)
	require.NoError(t, po.SettleStatus())
	assert.Equal(t, int64(5), entry.QuantityReceived)
	assert.Equal(t, PurchaseOrderStatusReceived, po.Status)

	t.Run("received orders reject further receipts", func(t *testing.T) {
		_, _, err := po.ApplyReceipt(entry.ID, 1, 0)
		assert.Error(t, err)
	})
}

func TestPurchaseOrderReceiptClamping(t *testing.T) {
	po, err := NewPurchaseOrder(uuid.New(), uuid.New(), uuid.New(), "", []PurchaseOrderEntryInput{
		{VariantID: uuid.New(), QuantityOrdered: 3, Cost: decimal.NewFromInt(1), TaxPercent: decimal.Zero},
	})
	require.NoError(t, err)
	require.NoError(t, po.MarkOrdered())
	entry := po.Entries[0]

	t.Run("processed clamps to the remainder", func(t *testing.T) {
		accept, processed, err := po.ApplyReceipt(entry.ID, 10, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(3), processed)
		assert.Equal(t, int64(3), accept)
	})

	t.Run("rejected units consume the remainder without counting as received", func(t *testing.T) {
		po2, err := NewPurchaseOrder(uuid.New(), uuid.New(), uuid.New(), "", []PurchaseOrderEntryInput{
			{VariantID: uuid.New(), QuantityOrdered: 4, Cost: decimal.NewFromInt(1), TaxPercent: decimal.Zero},
		})
		require.NoError(t, err)
		require.NoError(t, po2.MarkOrdered())

		accept, processed, err := po2.ApplyReceipt(po2.Entries[0].ID, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(1), accept)
		assert.Equal(t, int64(4), processed)
		assert.Equal(t, int64(1), po2.Entries[0].QuantityReceived)

		require.NoError(t, po2.SettleStatus())
		assert.Equal(t, PurchaseOrderStatusPartiallyReceived, po2.Status)
	})
}

func TestPurchaseOrderCancel(t *testing.T) {
	t.Run("draft cancels freely", func(t *testing.T) {
		po := newTestPurchaseOrder(t)
		require.NoError(t, po.Cancel())
		assert.Equal(t, PurchaseOrderStatusCancelled, po.Status)
	})

	t.Run("ordered cancel exposes the outstanding incoming", func(t *testing.T) {
		po := newTestPurchaseOrder(t)
		require.NoError(t, po.MarkOrdered())

		outstanding := po.OutstandingIncoming()
		require.Len(t, outstanding, 2)
		assert.Equal(t, int64(5), outstanding[po.Entries[0].VariantID])
		assert.Equal(t, int64(2), outstanding[po.Entries[1].VariantID])

		require.NoError(t, po.Cancel())
	})

	t.Run("partially received orders cannot cancel", func(t *testing.T) {
		po := newTestPurchaseOrder(t)
		require.NoError(t, po.MarkOrdered())
		_, _, err := po.ApplyReceipt(po.Entries[0].ID, 1, 0)
		require.NoError(t, err)
		require.NoError(t, po.SettleStatus())

		assert.Error(t, po.Cancel())
	})
}
