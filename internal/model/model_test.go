package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimensions_VolumeAndAspect(t *testing.T) {
	d := Dimensions{Length: 40, Width: 20, Height: 10}
	assert.Equal(t, 8000.0, d.Volume())
	assert.Equal(t, 800.0, d.FootprintArea())
	assert.Equal(t, 4.0, d.AspectRatio())

	cube := Dimensions{Length: 5, Width: 5, Height: 5}
	assert.Equal(t, 1.0, cube.AspectRatio())
}

func TestDimensions_FitsWithin(t *testing.T) {
	outer := Dimensions{Length: 100, Width: 50, Height: 100}
	assert.True(t, Dimensions{Length: 100, Width: 50, Height: 100}.FitsWithin(outer))
	assert.False(t, Dimensions{Length: 50, Width: 100, Height: 100}.FitsWithin(outer))
}

func TestNewCargoSpec(t *testing.T) {
	s := NewCargoSpec("Crate", 120, 80, 90, 250, 3)
	assert.Len(t, s.ID, 8)
	assert.Equal(t, "Crate", s.Name)
	assert.Equal(t, Dimensions{Length: 120, Width: 80, Height: 90}, s.Dimensions())
	assert.False(t, s.NonStackable)
	assert.False(t, s.NonRotatable)

	other := NewCargoSpec("Crate", 120, 80, 90, 250, 3)
	assert.NotEqual(t, s.ID, other.ID, "ids should be unique")
}

func TestCargoSpec_Validate(t *testing.T) {
	valid := NewCargoSpec("Box", 10, 10, 10, 1, 1)
	require.NoError(t, valid.Validate())

	cases := map[string]func(*CargoSpec){
		"empty id":        func(s *CargoSpec) { s.ID = "" },
		"zero length":     func(s *CargoSpec) { s.Length = 0 },
		"negative width":  func(s *CargoSpec) { s.Width = -1 },
		"NaN height":      func(s *CargoSpec) { s.Height = math.NaN() },
		"infinite length": func(s *CargoSpec) { s.Length = math.Inf(1) },
		"infinite weight": func(s *CargoSpec) { s.Weight = math.Inf(1) },
		"zero weight":     func(s *CargoSpec) { s.Weight = 0 },
		"zero quantity":   func(s *CargoSpec) { s.Quantity = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := valid
			mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSpec))

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.NotEmpty(t, ve.Field)
		})
	}
}

func TestValidateSpecs_DuplicateID(t *testing.T) {
	a := NewCargoSpec("A", 10, 10, 10, 1, 1)
	b := NewCargoSpec("B", 10, 10, 10, 1, 1)
	b.ID = a.ID

	err := ValidateSpecs([]CargoSpec{a, b})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSpec)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestContainer_Validate(t *testing.T) {
	assert.NoError(t, NewContainer(100, 100, 100, 0).Validate(), "zero max weight means unlimited")
	assert.ErrorIs(t, NewContainer(0, 100, 100, 10).Validate(), ErrInvalidContainer)
	assert.ErrorIs(t, NewContainer(100, 100, 100, -5).Validate(), ErrInvalidContainer)
	assert.ErrorIs(t, NewContainer(math.Inf(1), 100, 100, 0).Validate(), ErrInvalidContainer)
	assert.ErrorIs(t, NewContainer(100, math.NaN(), 100, 0).Validate(), ErrInvalidContainer)
	assert.ErrorIs(t, NewContainer(100, 100, 100, math.Inf(1)).Validate(), ErrInvalidContainer)
	assert.NoError(t, NewContainer(1e20, 100, 100, 0).Validate(), "large but finite")
}

func TestUnitItem_PlaceAndUnplace(t *testing.T) {
	u := UnitItem{ID: "a_1", Length: 10, Width: 20, Height: 30, Reason: ReasonNoPosition}

	placed := u.Place(Position{X: 1, Y: 2, Z: 3}, Orientation{Dimensions: Dimensions{Length: 20, Width: 10, Height: 30}, Rotated: true})
	assert.True(t, placed.Fitted)
	assert.True(t, placed.Rotated)
	assert.Equal(t, Position{X: 1, Y: 2, Z: 3}, placed.Position())
	assert.Equal(t, 20.0, placed.Length)
	assert.Equal(t, ReasonNone, placed.Reason)

	// The receiver is a value; the original stays untouched.
	assert.False(t, u.Fitted)

	un := placed.Unplace(ReasonOverweight)
	assert.False(t, un.Fitted)
	assert.False(t, un.Rotated)
	assert.Equal(t, ReasonOverweight, un.Reason)
}

func TestDefaultSettings_Valid(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())
	assert.Equal(t, 0.5, s.SupportFraction)
	assert.Equal(t, 0.01, s.CollisionTolerance)
	assert.GreaterOrEqual(t, s.GridIterLimit, 500)
}

func TestPackSettings_ValidateRejects(t *testing.T) {
	s := DefaultSettings()
	s.SupportFraction = 1.5
	assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)

	s = DefaultSettings()
	s.Rotation = "sideways"
	assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)

	s = DefaultSettings()
	s.GridIterLimit = 0
	assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)

	s.GridEnabled = false
	assert.NoError(t, s.Validate(), "grid limits are ignored when the grid is off")
}

func TestPackSettings_ValidateRejectsNonFinite(t *testing.T) {
	cases := map[string]func(*PackSettings){
		"NaN support":        func(s *PackSettings) { s.SupportFraction = math.NaN() },
		"infinite tolerance": func(s *PackSettings) { s.CollisionTolerance = math.Inf(1) },
		"NaN bonus":          func(s *PackSettings) { s.AdjacencyBonus = math.NaN() },
		"NaN divisor":        func(s *PackSettings) { s.GridDivisor = math.NaN() },
		"infinite cell size": func(s *PackSettings) { s.SpatialCellSize = math.Inf(1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := DefaultSettings()
			mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}
}

func TestPackResult_Stats(t *testing.T) {
	r := PackResult{
		Container: NewContainer(100, 100, 100, 1000),
		Items: []UnitItem{
			{ID: "a_1", SpecID: "a", Length: 50, Width: 50, Height: 50, Weight: 100, Fitted: true},
			{ID: "a_2", SpecID: "a", Length: 50, Width: 50, Height: 50, Weight: 100, Fitted: true, X: 50},
			{ID: "b_1", SpecID: "b", Length: 60, Width: 60, Height: 60, Weight: 300, Reason: ReasonNoPosition},
		},
	}

	st := r.Stats()
	assert.Equal(t, 3, st.TotalItems)
	assert.Equal(t, 2, st.FittedItems)
	assert.Equal(t, 1, st.UnfittedItems)
	assert.Equal(t, 250000.0, st.UsedVolume)
	assert.InDelta(t, 25.0, st.VolumeEfficiency, 1e-9)
	assert.Equal(t, 500.0, st.TotalWeight)
	assert.Equal(t, 200.0, st.FittedWeight)
	assert.InDelta(t, 20.0, st.WeightUtilization, 1e-9)
	require.Len(t, st.BySpec, 2)
	assert.Equal(t, SpecStats{SpecID: "a", Total: 2, Fitted: 2}, st.BySpec[0])
	assert.Equal(t, SpecStats{SpecID: "b", Total: 1, Fitted: 0}, st.BySpec[1])

	assert.Len(t, r.Fitted(), 2)
	assert.Len(t, r.Unfitted(), 1)
}

func TestPackResult_EfficiencyEmptyContainer(t *testing.T) {
	r := PackResult{}
	assert.Equal(t, 0.0, r.Efficiency())
	assert.Equal(t, 0.0, r.Stats().WeightUtilization)
}

func TestGetPreset(t *testing.T) {
	p, ok := GetPreset("40FT-HC")
	require.True(t, ok)
	assert.Equal(t, "40ft-hc", p.Name)
	assert.NoError(t, p.Container.Validate())

	_, ok = GetPreset("no-such-box")
	assert.False(t, ok)
}

func TestPresets_InchConversion(t *testing.T) {
	p, ok := GetPreset("ld3-ake")
	require.True(t, ok)
	assert.InDelta(t, 75.6*2.54, p.Container.Length, 1e-9)
	assert.InDelta(t, 57.1*2.54, p.Container.Width, 1e-9)
}

func TestGetPresetNames_AllValid(t *testing.T) {
	names := GetPresetNames()
	assert.Len(t, names, len(ContainerPresets))
	for _, p := range ContainerPresets {
		assert.NoError(t, p.Container.Validate(), p.Name)
		assert.Equal(t, p.Name, p.Container.Label)
	}
}
