package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder(" ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
	assert.Equal(t, "DESC", ValidateSortOrder("ASC; DROP TABLE products"))
}

func TestValidateSortField(t *testing.T) {
	t.Run("accepts whitelisted fields", func(t *testing.T) {
		assert.Equal(t, "title", ValidateSortField("title", ProductSortFields, "created_at"))
		assert.Equal(t, "on_hand", ValidateSortField("on_hand", InventoryLevelSortFields, "created_at"))
	})

	t.Run("falls back to default", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("", ProductSortFields, "created_at"))
		assert.Equal(t, "created_at", ValidateSortField("secret_column", ProductSortFields, "created_at"))
		assert.Equal(t, "created_at", ValidateSortField("title; --", ProductSortFields, "created_at"))
	})
}
