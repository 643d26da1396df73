package fulfillment

import (
	"testing"

	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransfer(t *testing.T) *Transfer {
	t.Helper()
	tr, err := NewTransfer(uuid.New(), uuid.New(), uuid.New(), "TR-100", []TransferEntryInput{
		{VariantID: uuid.New(), Quantity: 3},
		{VariantID: uuid.New(), Quantity: 5},
	})
	require.NoError(t, err)
	return tr
}

func TestNewTransfer(t *testing.T) {
	t.Run("creates draft with entries", func(t *testing.T) {
		tr := newTestTransfer(t)
		assert.Equal(t, TransferStatusDraft, tr.Status)
		assert.Len(t, tr.Entries, 2)
		assert.True(t, tr.CanDelete())
	})

	t.Run("rejects same origin and destination", func(t *testing.T) {
		loc := uuid.New()
		_, err := NewTransfer(uuid.New(), loc, loc, "", []TransferEntryInput{
			{VariantID: uuid.New(), Quantity: 1},
		})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "SAME_LOCATION", derr.Code)
	})

	t.Run("rejects empty entry list", func(t *testing.T) {
		_, err := NewTransfer(uuid.New(), uuid.New(), uuid.New(), "", nil)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewTransfer(uuid.New(), uuid.New(), uuid.New(), "", []TransferEntryInput{
			{VariantID: uuid.New(), Quantity: 0},
		})
		assert.Error(t, err)
	})
}

func TestTransferLifecycle(t *testing.T) {
	t.Run("happy path runs draft to transferred", func(t *testing.T) {
		tr := newTestTransfer(t)
		require.NoError(t, tr.MarkReady())
		assert.Equal(t, TransferStatusReadyToShip, tr.Status)
		assert.False(t, tr.CanDelete())

		require.NoError(t, tr.Depart())
		assert.Equal(t, TransferStatusInProgress, tr.Status)

		require.NoError(t, tr.Complete())
		assert.Equal(t, TransferStatusTransferred, tr.Status)
	})

	t.Run("every illegal move is rejected", func(t *testing.T) {
		tr := newTestTransfer(t)
		assert.Error(t, tr.Depart())
		assert.Error(t, tr.Complete())

		require.NoError(t, tr.MarkReady())
		assert.Error(t, tr.MarkReady())
		assert.Error(t, tr.Complete())

		require.NoError(t, tr.Depart())
		assert.Error(t, tr.Cancel())

		require.NoError(t, tr.Complete())
		assert.Error(t, tr.Depart())
		assert.Error(t, tr.Cancel())
	})

	t.Run("transitions emit status events", func(t *testing.T) {
		tr := newTestTransfer(t)
		tr.ClearDomainEvents()
		require.NoError(t, tr.MarkReady())

		events := tr.GetDomainEvents()
		require.Len(t, events, 1)
		changed, ok := events[0].(*TransferStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, TransferStatusDraft, changed.FromStatus)
		assert.Equal(t, TransferStatusReadyToShip, changed.ToStatus)
	})
}

func TestTransferCancel(t *testing.T) {
	t.Run("draft cancels without unwind", func(t *testing.T) {
		tr := newTestTransfer(t)
		assert.False(t, tr.RequiresReservationRelease())
		require.NoError(t, tr.Cancel())
		assert.Equal(t, TransferStatusCancelled, tr.Status)
	})

	t.Run("ready_to_ship requires reservation release", func(t *testing.T) {
		tr := newTestTransfer(t)
		require.NoError(t, tr.MarkReady())
		assert.True(t, tr.RequiresReservationRelease())
		require.NoError(t, tr.Cancel())
	})
}

func TestTransferRecordReceipt(t *testing.T) {
	tr := newTestTransfer(t)
	entry := tr.Entries[0] // quantity 3
	require.NoError(t, tr.MarkReady())
	require.NoError(t, tr.Depart())

	t.Run("clamps processed to the remainder", func(t *testing.T) {
		accept, processed, err := tr.RecordReceipt(entry.ID, 2, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(2), accept)
		assert.Equal(t, int64(3), processed)
		assert.Zero(t, entry.Remaining())
	})

	t.Run("receipt against an exhausted entry is a no-op", func(t *testing.T) {
		accept, processed, err := tr.RecordReceipt(entry.ID, 4, 0)
		require.NoError(t, err)
		assert.Zero(t, accept)
		assert.Zero(t, processed)
	})

	t.Run("rejects unknown entry", func(t *testing.T) {
		_, _, err := tr.RecordReceipt(uuid.New(), 1, 0)
		assert.Error(t, err)
	})

	t.Run("only legal while in progress", func(t *testing.T) {
		draft := newTestTransfer(t)
		_, _, err := draft.RecordReceipt(draft.Entries[0].ID, 1, 0)
		assert.Error(t, err)
	})
}
