package engine

import (
	"math"
	"slices"
	"sort"

	"github.com/piwi3910/CargoFit/internal/model"
)

// maxIndexCells caps the number of cells a container may span before the
// registry falls back to scanning every placed item.
const maxIndexCells = 1 << 22

// box is an axis-aligned box given by its minimum and maximum corners.
type box struct {
	x0, y0, z0 float64
	x1, y1, z1 float64
}

func boxOf(pos model.Position, d model.Dimensions) box {
	return box{
		x0: pos.X, y0: pos.Y, z0: pos.Z,
		x1: pos.X + d.Length, y1: pos.Y + d.Width, z1: pos.Z + d.Height,
	}
}

func itemBox(u model.UnitItem) box {
	return boxOf(u.Position(), u.Dimensions())
}

func (b box) grow(m float64) box {
	return box{b.x0 - m, b.y0 - m, b.z0 - m, b.x1 + m, b.y1 + m, b.z1 + m}
}

type cellKey struct {
	x, y, z int
}

// spatialHash maps uniform grid cells to the registry indices of the items
// occupying them. Cell ranges are inclusive on both ends so items that only
// touch a cell boundary are still found.
type spatialHash struct {
	size  float64
	cells map[cellKey][]int
}

func newSpatialHash(size float64) *spatialHash {
	return &spatialHash{size: size, cells: make(map[cellKey][]int)}
}

func (h *spatialHash) cell(v float64) int {
	return int(math.Floor(v / h.size))
}

func (h *spatialHash) insert(idx int, b box) {
	for ix := h.cell(b.x0); ix <= h.cell(b.x1); ix++ {
		for iy := h.cell(b.y0); iy <= h.cell(b.y1); iy++ {
			for iz := h.cell(b.z0); iz <= h.cell(b.z1); iz++ {
				k := cellKey{ix, iy, iz}
				h.cells[k] = append(h.cells[k], idx)
			}
		}
	}
}

// query returns the sorted, de-duplicated indices stored in every cell b
// touches.
func (h *spatialHash) query(b box) []int {
	var out []int
	for ix := h.cell(b.x0); ix <= h.cell(b.x1); ix++ {
		for iy := h.cell(b.y0); iy <= h.cell(b.y1); iy++ {
			for iz := h.cell(b.z0); iz <= h.cell(b.z1); iz++ {
				out = append(out, h.cells[cellKey{ix, iy, iz}]...)
			}
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// registry is the append-only list of committed placements for one run.
// The item slice is authoritative; the hash only narrows lookups.
type registry struct {
	items    []model.UnitItem
	byVolume []int // indices, largest volume first, stable on ties
	weight   float64
	index    *spatialHash
	margin   float64
}

// newRegistry builds an empty registry for container c. margin is added
// around every lookup box so indexed lookups return a superset of what any
// tolerance-based check can match.
func newRegistry(c model.Container, cellSize, margin float64) *registry {
	r := &registry{margin: margin}
	if cellSize > 0 {
		cells := math.Ceil(c.Length/cellSize+1) * math.Ceil(c.Width/cellSize+1) * math.Ceil(c.Height/cellSize+1)
		if cells <= maxIndexCells {
			r.index = newSpatialHash(cellSize)
		}
	}
	return r
}

// registryOf builds a brute-force registry holding items.
func registryOf(items []model.UnitItem) *registry {
	r := &registry{}
	for _, it := range items {
		r.add(it)
	}
	return r
}

func (r *registry) len() int {
	return len(r.items)
}

func (r *registry) add(u model.UnitItem) {
	idx := len(r.items)
	r.items = append(r.items, u)
	r.weight += u.Weight

	v := u.Volume()
	pos := sort.Search(len(r.byVolume), func(i int) bool {
		return r.items[r.byVolume[i]].Volume() < v
	})
	r.byVolume = append(r.byVolume, 0)
	copy(r.byVolume[pos+1:], r.byVolume[pos:])
	r.byVolume[pos] = idx

	if r.index != nil {
		r.index.insert(idx, itemBox(u))
	}
}

// largest returns the indices of the n largest placed items; n <= 0 means all.
func (r *registry) largest(n int) []int {
	if n <= 0 || n > len(r.byVolume) {
		n = len(r.byVolume)
	}
	return r.byVolume[:n]
}

// near returns, in ascending order, the indices of every item that might
// intersect b grown by the registry margin.
func (r *registry) near(b box) []int {
	if r.index == nil {
		out := make([]int, len(r.items))
		for i := range out {
			out[i] = i
		}
		return out
	}
	return r.index.query(b.grow(r.margin))
}
