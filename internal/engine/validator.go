package engine

import (
	"math"

	"github.com/piwi3910/CargoFit/internal/model"
)

// boundsEpsilon absorbs float error in sums like x + length that should land
// exactly on a container wall.
const boundsEpsilon = 1e-9

// Rejection says why a candidate placement is invalid.
type Rejection int

const (
	Accepted Rejection = iota
	RejectBounds
	RejectCollision
	RejectNonStackableAboveGround // the item itself may not be lifted off the floor
	RejectLoadOnNonStackable      // a non-stackable item would carry the item
	RejectInsufficientSupport
)

func (r Rejection) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case RejectBounds:
		return "out of bounds"
	case RejectCollision:
		return "collision"
	case RejectNonStackableAboveGround:
		return "non-stackable item above ground"
	case RejectLoadOnNonStackable:
		return "resting on non-stackable item"
	case RejectInsufficientSupport:
		return "insufficient support"
	}
	return "unknown"
}

// validator checks candidates against one run's registry.
type validator struct {
	c   model.Container
	s   model.PackSettings
	reg *registry
}

// overlap returns the length of the intersection of [a0,a1] and [b0,b1],
// negative when they are apart.
func overlap(a0, a1, b0, b1 float64) float64 {
	return math.Min(a1, b1) - math.Max(a0, b0)
}

func inBounds(c model.Container, b box) bool {
	return b.x0 >= -boundsEpsilon && b.y0 >= -boundsEpsilon && b.z0 >= -boundsEpsilon &&
		b.x1 <= c.Length+boundsEpsilon && b.y1 <= c.Width+boundsEpsilon && b.z1 <= c.Height+boundsEpsilon
}

func collides(a, b box, tol float64) bool {
	return overlap(a.x0, a.x1, b.x0, b.x1) > tol &&
		overlap(a.y0, a.y1, b.y0, b.y1) > tol &&
		overlap(a.z0, a.z1, b.z0, b.z1) > tol
}

// touches reports whether a and b share a face within tol and overlap on the
// two remaining axes.
func touches(a, b box, tol float64) bool {
	ox := overlap(a.x0, a.x1, b.x0, b.x1)
	oy := overlap(a.y0, a.y1, b.y0, b.y1)
	oz := overlap(a.z0, a.z1, b.z0, b.z1)
	flush := func(a0, a1, b0, b1 float64) bool {
		return math.Abs(a1-b0) <= tol || math.Abs(b1-a0) <= tol
	}
	switch {
	case flush(a.x0, a.x1, b.x0, b.x1) && oy > tol && oz > tol:
		return true
	case flush(a.y0, a.y1, b.y0, b.y1) && ox > tol && oz > tol:
		return true
	case flush(a.z0, a.z1, b.z0, b.z1) && ox > tol && oy > tol:
		return true
	}
	return false
}

// footprintOverlap returns the horizontal intersection area of a and b.
func footprintOverlap(a, b box) float64 {
	ox := overlap(a.x0, a.x1, b.x0, b.x1)
	oy := overlap(a.y0, a.y1, b.y0, b.y1)
	if ox <= 0 || oy <= 0 {
		return 0
	}
	return ox * oy
}

// check validates item u at pos with dimensions d and returns its score.
// Lower scores are better. Checks run in order bounds, collision, support
// and stop at the first failure.
func (v *validator) check(u model.UnitItem, pos model.Position, d model.Dimensions) (float64, Rejection) {
	b := boxOf(pos, d)
	if !inBounds(v.c, b) {
		return 0, RejectBounds
	}

	near := v.reg.near(b)
	for _, i := range near {
		if collides(b, itemBox(v.reg.items[i]), v.s.CollisionTolerance) {
			return 0, RejectCollision
		}
	}

	// A non-stackable item may not slide under something already resting
	// at its top face.
	if u.NonStackable {
		for _, i := range near {
			ob := itemBox(v.reg.items[i])
			if math.Abs(ob.z0-b.z1) <= v.s.GroundTolerance && footprintOverlap(b, ob) > 0 {
				return 0, RejectLoadOnNonStackable
			}
		}
	}

	if pos.Z > v.s.GroundTolerance {
		if u.NonStackable {
			return 0, RejectNonStackableAboveGround
		}
		var supported float64
		for _, i := range near {
			other := v.reg.items[i]
			ob := itemBox(other)
			if math.Abs(ob.z1-pos.Z) > v.s.GroundTolerance {
				continue
			}
			area := footprintOverlap(b, ob)
			if area <= 0 {
				continue
			}
			if other.NonStackable {
				return 0, RejectLoadOnNonStackable
			}
			supported += area
		}
		if supported < v.s.SupportFraction*d.FootprintArea() {
			return 0, RejectInsufficientSupport
		}
	}

	score := pos.Z*100 + pos.Y*10 + pos.X
	for _, i := range near {
		if touches(b, itemBox(v.reg.items[i]), v.s.CollisionTolerance) {
			score -= v.s.AdjacencyBonus
		}
	}
	return score, Accepted
}
