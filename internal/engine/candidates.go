package engine

import (
	"context"
	"math"
	"sort"

	"github.com/piwi3910/CargoFit/internal/model"
)

// ctxCheckInterval is how many grid positions are examined between
// cancellation checks.
const ctxCheckInterval = 1024

func sortPositions(ps []model.Position) {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].Z != ps[j].Z {
			return ps[i].Z < ps[j].Z
		}
		if ps[i].Y != ps[j].Y {
			return ps[i].Y < ps[j].Y
		}
		return ps[i].X < ps[j].X
	})
}

// adjacencyCandidates proposes positions flush against the right, front and
// top faces of the anchor items, ordered by (z, y, x). Top faces are skipped
// when either item is non-stackable. Proposals that leave the container are
// dropped. With no placed items the only candidate is the origin.
func adjacencyCandidates(c model.Container, reg *registry, anchors []int, u model.UnitItem, o model.Orientation) []model.Position {
	fits := func(p model.Position) bool {
		return inBounds(c, boxOf(p, o.Dimensions))
	}

	if reg.len() == 0 {
		origin := model.Position{}
		if fits(origin) {
			return []model.Position{origin}
		}
		return nil
	}

	seen := make(map[model.Position]struct{}, len(anchors)*3)
	out := make([]model.Position, 0, len(anchors)*3)
	propose := func(p model.Position) {
		if _, ok := seen[p]; ok || !fits(p) {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, i := range anchors {
		a := reg.items[i]
		propose(model.Position{X: a.X + a.Length, Y: a.Y, Z: a.Z})
		propose(model.Position{X: a.X, Y: a.Y + a.Width, Z: a.Z})
		if !a.NonStackable && !u.NonStackable {
			propose(model.Position{X: a.X, Y: a.Y, Z: a.Z + a.Height})
		}
	}
	sortPositions(out)
	return out
}

// gridAxis yields the sweep coordinates along one axis in ascending order:
// multiples of step, the flush position against the far wall, and any extra
// face coordinates that keep the item inside. Values are produced on demand so
// the cost is bounded by how many the caller consumes.
type gridAxis struct {
	last  float64
	step  float64
	extra []float64 // sorted, in range, includes last

	i       int // next multiple of step
	j       int // next extra
	prev    float64
	started bool
}

func newGridAxis(limit, size, step float64, extra []float64) *gridAxis {
	a := &gridAxis{last: limit - size, step: step}
	if a.last < -boundsEpsilon {
		a.last = -1
		return a
	}
	a.last = math.Max(a.last, 0)

	a.extra = make([]float64, 0, len(extra)+1)
	a.extra = append(a.extra, a.last)
	for _, e := range extra {
		if e >= 0 && e <= a.last+boundsEpsilon {
			a.extra = append(a.extra, math.Min(e, a.last))
		}
	}
	sort.Float64s(a.extra)
	return a
}

func (a *gridAxis) empty() bool {
	return a.last < 0
}

func (a *gridAxis) reset() {
	a.i, a.j, a.started = 0, 0, false
}

// next returns the next coordinate, skipping values within boundsEpsilon of
// the previous one.
func (a *gridAxis) next() (float64, bool) {
	if a.empty() {
		return 0, false
	}
	for {
		reg := float64(a.i) * a.step
		regOK := reg <= a.last+boundsEpsilon
		extOK := a.j < len(a.extra)

		var v float64
		switch {
		case !regOK && !extOK:
			return 0, false
		case regOK && (!extOK || reg <= a.extra[a.j]):
			v = math.Min(reg, a.last)
			a.i++
		default:
			v = a.extra[a.j]
			a.j++
		}
		if a.started && v-a.prev <= boundsEpsilon {
			continue
		}
		a.prev, a.started = v, true
		return v, true
	}
}

// gridResult is the outcome of sweeping the grid for one orientation.
type gridResult struct {
	pos       model.Position
	score     float64
	found     bool
	exhausted bool // iteration limit reached before a valid position
}

// gridSearch sweeps the container in z, y, x order and returns the first
// valid position for orientation o. At most GridIterLimit positions are
// examined.
func (v *validator) gridSearch(ctx context.Context, u model.UnitItem, o model.Orientation) (gridResult, error) {
	s := v.s
	stepX := math.Max(s.GridMinStep, o.Length/s.GridDivisor)
	stepY := math.Max(s.GridMinStep, o.Width/s.GridDivisor)
	minDim := math.Min(o.Length, math.Min(o.Width, o.Height))
	stepZ := math.Max(s.GridMinStepZ, minDim/s.GridDivisor)

	var rights, fronts, tops []float64
	for _, it := range v.reg.items {
		rights = append(rights, it.X+it.Length)
		fronts = append(fronts, it.Y+it.Width)
		tops = append(tops, it.Z+it.Height)
	}

	xs := newGridAxis(v.c.Length, o.Length, stepX, rights)
	ys := newGridAxis(v.c.Width, o.Width, stepY, fronts)
	zs := newGridAxis(v.c.Height, o.Height, stepZ, tops)
	if xs.empty() || ys.empty() || zs.empty() {
		return gridResult{}, nil
	}

	n := 0
	for z, ok := zs.next(); ok; z, ok = zs.next() {
		ys.reset()
		for y, ok := ys.next(); ok; y, ok = ys.next() {
			xs.reset()
			for x, ok := xs.next(); ok; x, ok = xs.next() {
				if n >= s.GridIterLimit {
					return gridResult{exhausted: true}, nil
				}
				n++
				if n%ctxCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return gridResult{}, err
					}
				}
				pos := model.Position{X: x, Y: y, Z: z}
				if score, rej := v.check(u, pos, o.Dimensions); rej == Accepted {
					return gridResult{pos: pos, score: score, found: true}, nil
				}
			}
		}
	}
	return gridResult{}, nil
}
