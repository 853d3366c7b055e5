package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/CargoFit/internal/model"
)

func newTestValidator(c model.Container, placed ...model.UnitItem) *validator {
	s := model.DefaultSettings()
	reg := newRegistry(c, s.SpatialCellSize, s.GroundTolerance)
	for _, it := range placed {
		reg.add(it)
	}
	return &validator{c: c, s: s, reg: reg}
}

func placedAt(id string, x, y, z, l, w, h float64) model.UnitItem {
	return model.UnitItem{ID: id, Weight: 1, X: x, Y: y, Z: z, Length: l, Width: w, Height: h, Fitted: true}
}

func TestValidator_SupportBoundary(t *testing.T) {
	c := model.NewContainer(100, 150, 100, 0)
	v := newTestValidator(c, placedAt("A", 0, 0, 0, 100, 100, 10))
	b := model.UnitItem{ID: "B", Length: 100, Width: 50, Height: 10, Weight: 1}
	dims := b.Dimensions()

	// Exactly half the footprint rests on A.
	_, rej := v.check(b, model.Position{X: 0, Y: 75, Z: 10}, dims)
	assert.Equal(t, Accepted, rej)

	_, rej = v.check(b, model.Position{X: 0, Y: 75.5, Z: 10}, dims)
	assert.Equal(t, RejectInsufficientSupport, rej)
}

func TestValidator_Bounds(t *testing.T) {
	v := newTestValidator(model.NewContainer(100, 100, 100, 0))
	u := model.UnitItem{Length: 50, Width: 50, Height: 50}

	_, rej := v.check(u, model.Position{X: 50, Y: 50, Z: 0}, u.Dimensions())
	assert.Equal(t, Accepted, rej)
	_, rej = v.check(u, model.Position{X: 51, Y: 0, Z: 0}, u.Dimensions())
	assert.Equal(t, RejectBounds, rej)
	_, rej = v.check(u, model.Position{X: -1, Y: 0, Z: 0}, u.Dimensions())
	assert.Equal(t, RejectBounds, rej)
}

func TestValidator_CollisionTolerance(t *testing.T) {
	v := newTestValidator(model.NewContainer(200, 200, 200, 0), placedAt("A", 0, 0, 0, 50, 50, 50))
	u := model.UnitItem{Length: 50, Width: 50, Height: 50}

	// Overlap of 0.005 is within the 0.01 tolerance.
	_, rej := v.check(u, model.Position{X: 49.995, Y: 0, Z: 0}, u.Dimensions())
	assert.Equal(t, Accepted, rej)

	_, rej = v.check(u, model.Position{X: 49.9, Y: 0, Z: 0}, u.Dimensions())
	assert.Equal(t, RejectCollision, rej)
}

func TestValidator_NonStackable(t *testing.T) {
	c := model.NewContainer(200, 200, 200, 0)
	base := placedAt("A", 0, 0, 0, 100, 100, 50)
	base.NonStackable = true
	v := newTestValidator(c, base)

	u := model.UnitItem{Length: 50, Width: 50, Height: 50}
	_, rej := v.check(u, model.Position{X: 0, Y: 0, Z: 50}, u.Dimensions())
	assert.Equal(t, RejectLoadOnNonStackable, rej)

	stackable := placedAt("S", 100, 0, 0, 100, 100, 50)
	v = newTestValidator(c, stackable)
	ns := model.UnitItem{Length: 50, Width: 50, Height: 50, NonStackable: true}
	_, rej = v.check(ns, model.Position{X: 100, Y: 0, Z: 50}, ns.Dimensions())
	assert.Equal(t, RejectNonStackableAboveGround, rej)
}

func TestValidator_NonStackableUnderOverhang(t *testing.T) {
	c := model.NewContainer(200, 200, 200, 0)
	v := newTestValidator(c,
		placedAt("support", 0, 0, 0, 100, 100, 50),
		placedAt("overhang", 50, 0, 50, 100, 100, 20),
	)

	ns := model.UnitItem{Length: 50, Width: 100, Height: 50, NonStackable: true}
	_, rej := v.check(ns, model.Position{X: 100, Y: 0, Z: 0}, ns.Dimensions())
	assert.Equal(t, RejectLoadOnNonStackable, rej)

	plain := model.UnitItem{Length: 50, Width: 100, Height: 50}
	_, rej = v.check(plain, model.Position{X: 100, Y: 0, Z: 0}, plain.Dimensions())
	assert.Equal(t, Accepted, rej)
}

func TestValidator_ScorePrefersLowAndTouching(t *testing.T) {
	c := model.NewContainer(200, 200, 200, 0)
	v := newTestValidator(c, placedAt("A", 0, 0, 0, 50, 50, 50))
	u := model.UnitItem{Length: 50, Width: 50, Height: 50}

	flush, rej := v.check(u, model.Position{X: 50, Y: 0, Z: 0}, u.Dimensions())
	assert.Equal(t, Accepted, rej)
	gapped, rej := v.check(u, model.Position{X: 60, Y: 0, Z: 0}, u.Dimensions())
	assert.Equal(t, Accepted, rej)
	assert.Less(t, flush, gapped)
	assert.Equal(t, 50.0-v.s.AdjacencyBonus, flush)
	assert.Equal(t, 60.0, gapped)

	high, rej := v.check(u, model.Position{X: 0, Y: 0, Z: 50}, u.Dimensions())
	assert.Equal(t, Accepted, rej)
	assert.Greater(t, high, gapped)
}

func TestTouches(t *testing.T) {
	a := box{0, 0, 0, 10, 10, 10}
	assert.True(t, touches(a, box{10, 0, 0, 20, 10, 10}, 0.01))
	assert.True(t, touches(a, box{0, 0, 10, 10, 10, 20}, 0.01))
	assert.False(t, touches(a, box{10, 10, 0, 20, 20, 10}, 0.01), "edge contact only")
	assert.False(t, touches(a, box{11, 0, 0, 20, 10, 10}, 0.01), "gap")
}

func TestRejection_String(t *testing.T) {
	assert.Equal(t, "accepted", Accepted.String())
	assert.Equal(t, "insufficient support", RejectInsufficientSupport.String())
	assert.Equal(t, "unknown", Rejection(99).String())
}
