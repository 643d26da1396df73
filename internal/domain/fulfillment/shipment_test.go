package fulfillment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShipment(t *testing.T) {
	s, err := NewShipment(uuid.New(), uuid.New(), "  DHL ")
	require.NoError(t, err)
	assert.Equal(t, ShipmentStatusPending, s.Status)
	assert.Equal(t, "DHL", s.Carrier)
	assert.Nil(t, s.ShippedAt)

	_, err = NewShipment(uuid.New(), uuid.Nil, "DHL")
	assert.Error(t, err)
}

func TestShipmentTransit(t *testing.T) {
	s, err := NewShipment(uuid.New(), uuid.New(), "DHL")
	require.NoError(t, err)

	t.Run("enters transit exactly once", func(t *testing.T) {
		require.NoError(t, s.MarkInTransit())
		assert.Equal(t, ShipmentStatusInTransit, s.Status)
		assert.NotNil(t, s.ShippedAt)

		assert.Error(t, s.MarkInTransit())
	})

	t.Run("receipt only from transit", func(t *testing.T) {
		require.NoError(t, s.MarkReceived())
		assert.NotNil(t, s.ReceivedAt)

		assert.Error(t, s.MarkReceived())
		assert.Error(t, s.MarkInTransit())
	})
}

func TestShipmentReceiptRequiresTransit(t *testing.T) {
	s, err := NewShipment(uuid.New(), uuid.New(), "")
	require.NoError(t, err)
	assert.Error(t, s.MarkReceived())
}

func TestShipmentTracking(t *testing.T) {
	s, err := NewShipment(uuid.New(), uuid.New(), "UPS")
	require.NoError(t, err)
	require.NoError(t, s.SetTracking(" 1Z999 ", "https://track.example/1Z999"))
	assert.Equal(t, "1Z999", s.TrackingNumber)

	require.NoError(t, s.MarkInTransit())
	require.NoError(t, s.SetTracking("1Z999-2", ""))

	require.NoError(t, s.MarkReceived())
	assert.Error(t, s.SetTracking("1Z999-3", ""))
}
