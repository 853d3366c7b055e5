package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CargoFit/internal/model"
)

func TestExpandItems_IDsAndNames(t *testing.T) {
	specs := []model.CargoSpec{
		{ID: "crate", Name: "Crate", Length: 10, Width: 10, Height: 10, Weight: 5, Quantity: 3, NonStackable: true},
		{ID: "drum", Name: "Drum", Length: 5, Width: 5, Height: 8, Weight: 2, Quantity: 1, NonRotatable: true},
	}

	units := ExpandItems(specs)
	require.Len(t, units, 4)

	assert.Equal(t, "crate_1", units[0].ID)
	assert.Equal(t, "crate_3", units[2].ID)
	assert.Equal(t, "Crate #2", units[1].Name)
	assert.True(t, units[1].NonStackable)

	assert.Equal(t, "drum_1", units[3].ID)
	assert.Equal(t, "Drum", units[3].Name, "single units keep the plain name")
	assert.True(t, units[3].NonRotatable)
	assert.Equal(t, "drum", units[3].SpecID)
	for _, u := range units {
		assert.False(t, u.Fitted)
	}
}

func TestExpandItems_UniqueIDs(t *testing.T) {
	// "a_1" with quantity 1 and "a" with quantity 11 would collide with a
	// naive scheme that only suffixes multi-unit specs.
	specs := []model.CargoSpec{
		{ID: "a_1", Name: "X", Length: 1, Width: 1, Height: 1, Weight: 1, Quantity: 1},
		{ID: "a", Name: "Y", Length: 1, Width: 1, Height: 1, Weight: 1, Quantity: 11},
	}
	seen := map[string]bool{}
	for _, u := range ExpandItems(specs) {
		assert.False(t, seen[u.ID], "duplicate id %s", u.ID)
		seen[u.ID] = true
	}
	assert.Len(t, seen, 12)
}

func TestSortUnits_Priority(t *testing.T) {
	units := []model.UnitItem{
		{ID: "small", Length: 10, Width: 10, Height: 10, Weight: 1},
		{ID: "flat", Length: 80, Width: 50, Height: 2, Weight: 1},    // volume 8000, aspect 40
		{ID: "cube", Length: 20, Width: 20, Height: 20, Weight: 1},   // volume 8000, aspect 1
		{ID: "heavy", Length: 20, Width: 20, Height: 20, Weight: 50}, // same shape, heavier
		{ID: "big", Length: 100, Width: 100, Height: 100, Weight: 1},
	}
	SortUnits(units)

	var ids []string
	for _, u := range units {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []string{"big", "heavy", "cube", "flat", "small"}, ids)
}

func TestSortUnits_StableOnFullTie(t *testing.T) {
	units := []model.UnitItem{
		{ID: "first", Length: 10, Width: 10, Height: 10, Weight: 1},
		{ID: "second", Length: 10, Width: 10, Height: 10, Weight: 1},
	}
	SortUnits(units)
	assert.Equal(t, "first", units[0].ID)
}

func TestOrientations(t *testing.T) {
	box := model.UnitItem{Length: 10, Width: 20, Height: 30}

	all := Orientations(box, model.RotationAll)
	require.Len(t, all, 6)
	assert.Equal(t, model.Dimensions{Length: 10, Width: 20, Height: 30}, all[0].Dimensions)
	assert.False(t, all[0].Rotated)
	assert.Equal(t, model.Dimensions{Length: 20, Width: 10, Height: 30}, all[1].Dimensions)
	for _, o := range all[1:] {
		assert.True(t, o.Rotated)
		assert.InDelta(t, 6000.0, o.Volume(), 1e-9)
	}

	upright := Orientations(box, model.RotationUpright)
	require.Len(t, upright, 2)
	assert.Equal(t, 30.0, upright[1].Height)

	box.NonRotatable = true
	only := Orientations(box, model.RotationAll)
	require.Len(t, only, 1)
	assert.False(t, only[0].Rotated)
}

func TestOrientations_Dedup(t *testing.T) {
	cube := model.UnitItem{Length: 5, Width: 5, Height: 5}
	assert.Len(t, Orientations(cube, model.RotationAll), 1)

	square := model.UnitItem{Length: 10, Width: 10, Height: 20}
	got := Orientations(square, model.RotationAll)
	require.Len(t, got, 3)
	assert.Equal(t, model.Dimensions{Length: 10, Width: 10, Height: 20}, got[0].Dimensions)
	assert.Equal(t, model.Dimensions{Length: 10, Width: 20, Height: 10}, got[1].Dimensions)
	assert.Equal(t, model.Dimensions{Length: 20, Width: 10, Height: 10}, got[2].Dimensions)

	assert.Len(t, Orientations(square, model.RotationUpright), 1)
}
