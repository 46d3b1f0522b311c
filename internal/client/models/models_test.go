package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnit(t *testing.T) {
	u, err := ParseUnit(" KG ")
	require.NoError(t, err)
	assert.Equal(t, UnitKilograms, u)

	_, err = ParseUnit("шт")
	require.ErrorIs(t, err, ErrUnknownUnit)
}

func TestCategoryLookup(t *testing.T) {
	c, ok := CategoryByID(3)
	require.True(t, ok)
	assert.Equal(t, "Vegetables", c.Name)

	_, ok = CategoryByID(99)
	assert.False(t, ok)

	c, ok = CategoryByName("Fruits")
	require.True(t, ok)
	assert.Equal(t, 4, c.ID)
}

func TestCategories_UniqueIDs(t *testing.T) {
	seen := map[int]bool{}
	for _, c := range Categories {
		require.False(t, seen[c.ID], "duplicate id %d", c.ID)
		seen[c.ID] = true
	}
}

func TestNote_JSONUsesEpochMillis(t *testing.T) {
	created := time.UnixMilli(1760000000123).UTC()
	n := Note{ID: "n1", Title: "milk", Text: "buy 2", CreatedAt: created, UpdatedAt: created, Pinned: true}

	b, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":"n1","title":"milk","text":"buy 2","createdAt":1760000000123,"updatedAt":1760000000123,"pinned":true}`,
		string(b))

	var back Note
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, n, back)
}

func TestNote_MissingPinnedIsFalse(t *testing.T) {
	var n Note
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","title":"t","text":"","createdAt":1,"updatedAt":2}`), &n))
	assert.False(t, n.Pinned)
	assert.Equal(t, int64(2), n.UpdatedAt.UnixMilli())
}

func TestProduct_StorageName(t *testing.T) {
	assert.Empty(t, Product{}.StorageName())
	assert.Equal(t, "Fridge", Product{StoragePlace: &StoragePlace{ID: "1", Name: "Fridge"}}.StorageName())
}
