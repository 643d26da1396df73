package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLevel(t *testing.T) *InventoryLevel {
	t.Helper()
	l, err := NewInventoryLevel(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	return l
}

func assertFormula(t *testing.T, l *InventoryLevel) {
	t.Helper()
	expected := l.OnHand - l.Committed - l.Unavailable.Total()
	if expected < 0 {
		expected = 0
	}
	assert.Equal(t, expected, l.Available)
}

func TestNewInventoryLevel(t *testing.T) {
	t.Run("starts at all-zero", func(t *testing.T) {
		l := newTestLevel(t)
		assert.Zero(t, l.OnHand)
		assert.Zero(t, l.Available)
		assert.Zero(t, l.Incoming)
		assert.Zero(t, l.Unavailable.Total())
	})

	t.Run("rejects nil key components", func(t *testing.T) {
		_, err := NewInventoryLevel(uuid.New(), uuid.Nil, uuid.New())
		assert.Error(t, err)
		_, err = NewInventoryLevel(uuid.New(), uuid.New(), uuid.Nil)
		assert.Error(t, err)
	})
}

func TestInventoryLevelReserveRelease(t *testing.T) {
	l := newTestLevel(t)
	require.NoError(t, l.Receive(10, 10))

	t.Run("reserve parks stock in unavailable other", func(t *testing.T) {
		require.NoError(t, l.Reserve(3))
		assert.Equal(t, int64(3), l.Unavailable.Other)
		assert.Equal(t, int64(7), l.Available)
		assertFormula(t, l)
	})

	t.Run("release clamps at zero", func(t *testing.T) {
		require.NoError(t, l.Release(5))
		assert.Zero(t, l.Unavailable.Other)
		assert.Equal(t, int64(10), l.Available)
		assertFormula(t, l)
	})

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		assert.Error(t, l.Reserve(0))
		assert.Error(t, l.Release(-1))
	})
}

func TestInventoryLevelShip(t *testing.T) {
	l := newTestLevel(t)
	require.NoError(t, l.Receive(5, 5))
	require.NoError(t, l.Reserve(3))

	require.NoError(t, l.Ship(3))
	assert.Equal(t, int64(2), l.OnHand)
	assert.Zero(t, l.Unavailable.Other)
	assert.Equal(t, int64(2), l.Available)
	assertFormula(t, l)

	t.Run("shipping past zero clamps rather than going negative", func(t *testing.T) {
		require.NoError(t, l.Ship(9))
		assert.Zero(t, l.OnHand)
		assert.Zero(t, l.Available)
		assertFormula(t, l)
	})
}

func TestInventoryLevelIncoming(t *testing.T) {
	l := newTestLevel(t)
	require.NoError(t, l.IncomingAdd(4))
	assert.Equal(t, int64(4), l.Incoming)

	require.NoError(t, l.IncomingConsume(6))
	assert.Zero(t, l.Incoming)
}

func TestInventoryLevelReceive(t *testing.T) {
	t.Run("credits available directly, bypassing the formula", func(t *testing.T) {
		l := newTestLevel(t)
		require.NoError(t, l.IncomingAdd(5))
		require.NoError(t, l.SetUnavailable(BucketDamaged, 2))

		require.NoError(t, l.Receive(3, 5))
		assert.Equal(t, int64(3), l.OnHand)
		assert.Equal(t, int64(3), l.Available)
		assert.Zero(t, l.Incoming)
	})

	t.Run("processed may exceed incoming and clamps", func(t *testing.T) {
		l := newTestLevel(t)
		require.NoError(t, l.Receive(2, 8))
		assert.Equal(t, int64(2), l.OnHand)
		assert.Zero(t, l.Incoming)
	})

	t.Run("rejects invalid receipt quantities", func(t *testing.T) {
		l := newTestLevel(t)
		assert.Error(t, l.Receive(-1, 2))
		assert.Error(t, l.Receive(3, 2))
		assert.Error(t, l.Receive(0, 0))
	})
}

func TestInventoryLevelSetUnavailable(t *testing.T) {
	l := newTestLevel(t)
	require.NoError(t, l.Receive(10, 10))

	require.NoError(t, l.SetUnavailable(BucketDamaged, 2))
	require.NoError(t, l.SetUnavailable(BucketSafetyStock, 3))
	assert.Equal(t, int64(5), l.Available)
	assertFormula(t, l)

	assert.Error(t, l.SetUnavailable("lost", 1))
	assert.Error(t, l.SetUnavailable(BucketOther, -1))
}

func TestInventoryLevelNonNegativity(t *testing.T) {
	// Arbitrary operation sequence never drives any bucket negative.
	l := newTestLevel(t)
	ops := []func() error{
		func() error { return l.Receive(4, 4) },
		func() error { return l.Reserve(6) },
		func() error { return l.Ship(5) },
		func() error { return l.Release(9) },
		func() error { return l.IncomingAdd(2) },
		func() error { return l.IncomingConsume(7) },
		func() error { return l.Receive(1, 3) },
	}
	for _, op := range ops {
		require.NoError(t, op())
		assert.GreaterOrEqual(t, l.OnHand, int64(0))
		assert.GreaterOrEqual(t, l.Committed, int64(0))
		assert.GreaterOrEqual(t, l.Incoming, int64(0))
		assert.GreaterOrEqual(t, l.Available, int64(0))
		assert.GreaterOrEqual(t, l.Unavailable.Total(), int64(0))
	}
}

func TestInventoryLevelVersionAndEvents(t *testing.T) {
	l := newTestLevel(t)
	v0 := l.Version

	require.NoError(t, l.IncomingAdd(1))
	require.NoError(t, l.Receive(1, 1))

	assert.Equal(t, v0+2, l.Version)
	events := l.GetDomainEvents()
	require.Len(t, events, 2)
	adjusted, ok := events[1].(*InventoryAdjustedEvent)
	require.True(t, ok)
	assert.Equal(t, OperationReceive, adjusted.Operation)
	assert.Equal(t, int64(1), adjusted.OnHand)
}
