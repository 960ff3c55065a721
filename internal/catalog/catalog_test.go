package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCategories() []Category {
	return []Category{
		{ID: 1, Name: "AGUA POTABLE", Definition: "captación y distribución de agua"},
		{ID: 2, Name: "PISTAS Y VEREDAS", Definition: "infraestructura vial urbana"},
		{ID: 3, Name: "EDUCACIÓN INICIAL", Definition: "niños menores de 6 años"},
	}
}

func TestNew_PreservesOrderAndLookups(t *testing.T) {
	cat, err := New("test", testCategories())
	require.NoError(t, err)

	assert.Equal(t, 3, cat.Len())
	assert.Equal(t, "test", cat.Source())
	assert.Equal(t, testCategories(), cat.All())

	got, ok := cat.Lookup("PISTAS Y VEREDAS")
	require.True(t, ok)
	assert.Equal(t, 2, got.ID)

	got, ok = cat.ByID(3)
	require.True(t, ok)
	assert.Equal(t, "EDUCACIÓN INICIAL", got.Name)

	_, ok = cat.Lookup("pistas y veredas")
	assert.False(t, ok, "names are case-sensitive")

	assert.True(t, cat.Contains("AGUA POTABLE", 1))
	assert.False(t, cat.Contains("AGUA POTABLE", 2))
	assert.False(t, cat.Contains("DESCONOCIDA", 1))
}

func TestNew_AllReturnsCopy(t *testing.T) {
	cat, err := New("test", testCategories())
	require.NoError(t, err)

	all := cat.All()
	all[0].Name = "mutated"

	assert.Equal(t, "AGUA POTABLE", cat.All()[0].Name)
}

func TestNew_Rejects(t *testing.T) {
	testCases := []struct {
		name       string
		categories []Category
		reason     string
	}{
		{name: "empty", categories: nil, reason: "catalog is empty"},
		{name: "missing id", categories: []Category{{Name: "A", Definition: "d"}}, reason: "missing or non-positive id"},
		{name: "missing name", categories: []Category{{ID: 1, Name: "  ", Definition: "d"}}, reason: "missing name"},
		{name: "missing definition", categories: []Category{{ID: 1, Name: "A", Definition: "\n"}}, reason: "missing definition"},
		{name: "reserved name", categories: []Category{{ID: 1, Name: SentinelName, Definition: "d"}}, reason: "reserved"},
		{
			name:       "duplicate id",
			categories: []Category{{ID: 1, Name: "A", Definition: "d"}, {ID: 1, Name: "B", Definition: "d"}},
			reason:     "duplicate id 1",
		},
		{
			name:       "duplicate name",
			categories: []Category{{ID: 1, Name: "A", Definition: "d"}, {ID: 2, Name: "A", Definition: "d"}},
			reason:     `duplicate name "A"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cat, err := New("test", tc.categories)
			require.Error(t, err)
			assert.Nil(t, cat)
			assert.ErrorIs(t, err, ErrCatalogLoad)
			assert.Contains(t, err.Error(), tc.reason)
		})
	}
}
