package catalog

import (
	"testing"

	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct(uuid.New(), "Canvas Tote", "tote-01")
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	t.Run("creates product with uppercased base SKU", func(t *testing.T) {
		p, err := NewProduct(uuid.New(), "Canvas Tote", "tote-01")
		require.NoError(t, err)
		assert.Equal(t, "TOTE-01", p.BaseSKU)
		assert.Empty(t, p.Dimensions)
		assert.Equal(t, 0, p.SKUSequence)
	})

	t.Run("rejects empty store id", func(t *testing.T) {
		_, err := NewProduct(uuid.Nil, "Canvas Tote", "tote-01")
		assert.Error(t, err)
	})

	t.Run("rejects blank title", func(t *testing.T) {
		_, err := NewProduct(uuid.New(), "  ", "tote-01")
		assert.Error(t, err)
	})

	t.Run("rejects blank base SKU", func(t *testing.T) {
		_, err := NewProduct(uuid.New(), "Canvas Tote", "")
		assert.Error(t, err)
	})
}

func TestProductAddDimension(t *testing.T) {
	t.Run("declares dimension and emits event", func(t *testing.T) {
		p := newTestProduct(t)
		err := p.AddDimension("Size", []string{"S", "M"})
		require.NoError(t, err)

		dim, ok := p.Dimension("Size")
		require.True(t, ok)
		assert.Equal(t, []string{"S", "M"}, dim.Values)
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("rejects duplicate dimension name", func(t *testing.T) {
		p := newTestProduct(t)
		require.NoError(t, p.AddDimension("Size", []string{"S"}))

		err := p.AddDimension("Size", []string{"L"})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "DUPLICATE_DIMENSION", derr.Code)
	})

	t.Run("rejects empty value list", func(t *testing.T) {
		p := newTestProduct(t)
		assert.Error(t, p.AddDimension("Size", nil))
	})

	t.Run("rejects blank values", func(t *testing.T) {
		p := newTestProduct(t)
		assert.Error(t, p.AddDimension("Size", []string{"S", " "}))
	})

	t.Run("rejects duplicate values within request", func(t *testing.T) {
		p := newTestProduct(t)
		err := p.AddDimension("Size", []string{"S", "S"})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "DUPLICATE_VALUE", derr.Code)
	})
}

func TestProductAddValues(t *testing.T) {
	t.Run("appends values preserving declaration order", func(t *testing.T) {
		p := newTestProduct(t)
		require.NoError(t, p.AddDimension("Size", []string{"S"}))
		require.NoError(t, p.AddValues("Size", []string{"M", "L"}))

		dim, _ := p.Dimension("Size")
		assert.Equal(t, []string{"S", "M", "L"}, dim.Values)
	})

	t.Run("rejects unknown dimension", func(t *testing.T) {
		p := newTestProduct(t)
		err := p.AddValues("Color", []string{"Red"})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "DIMENSION_NOT_FOUND", derr.Code)
	})

	t.Run("rejects value already on dimension", func(t *testing.T) {
		p := newTestProduct(t)
		require.NoError(t, p.AddDimension("Size", []string{"S"}))
		assert.Error(t, p.AddValues("Size", []string{"S"}))
	})
}

func TestProductRemoveDimension(t *testing.T) {
	t.Run("removes declared dimension", func(t *testing.T) {
		p := newTestProduct(t)
		require.NoError(t, p.AddDimension("Size", []string{"S"}))
		require.NoError(t, p.AddDimension("Color", []string{"Red"}))

		require.NoError(t, p.RemoveDimension("Size"))
		assert.False(t, p.HasDimension("Size"))
		assert.True(t, p.HasDimension("Color"))
	})

	t.Run("rejects unknown dimension", func(t *testing.T) {
		p := newTestProduct(t)
		err := p.RemoveDimension("Size")
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "DIMENSION_NOT_FOUND", derr.Code)
	})
}

func TestProductNextSKU(t *testing.T) {
	t.Run("sequence is monotonic and never rewinds", func(t *testing.T) {
		p := newTestProduct(t)
		assert.Equal(t, "TOTE-01-1", p.NextSKU())
		assert.Equal(t, "TOTE-01-2", p.NextSKU())
		assert.Equal(t, "TOTE-01-3", p.NextSKU())
		assert.Equal(t, 3, p.SKUSequence)
	})

	t.Run("EnsureSequenceAtLeast only moves forward", func(t *testing.T) {
		p := newTestProduct(t)
		p.EnsureSequenceAtLeast(5)
		assert.Equal(t, "TOTE-01-6", p.NextSKU())

		p.EnsureSequenceAtLeast(2)
		assert.Equal(t, "TOTE-01-7", p.NextSKU())
	})
}

func TestProductSetPricing(t *testing.T) {
	p := newTestProduct(t)
	require.NoError(t, p.SetPricing(decimal.NewFromInt(20), decimal.NewFromInt(8), decimal.NewFromFloat(0.4)))
	assert.True(t, p.Price.Equal(decimal.NewFromInt(20)))

	err := p.SetPricing(decimal.NewFromInt(-1), decimal.Zero, decimal.Zero)
	assert.Error(t, err)
}
