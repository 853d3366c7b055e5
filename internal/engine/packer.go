package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/piwi3910/CargoFit/internal/model"
)

// Packer runs the single-container placement engine.
type Packer struct {
	Settings model.PackSettings
}

func New(settings model.PackSettings) *Packer {
	return &Packer{Settings: settings}
}

// placement is an accepted candidate. It is only turned into a committed
// UnitItem once it has won across all orientations.
type placement struct {
	pos    model.Position
	orient model.Orientation
	score  float64
}

// Pack places the units expanded from specs into container c.
//
// Invalid settings, container or specs are rejected before any work with an
// error wrapping the matching model.ErrInvalid* sentinel. Units that cannot
// be placed are reported with Fitted=false and a reason; that is not an
// error. If ctx is done before the run finishes, the partial result is
// returned together with the context error and the remaining units carry
// reason "cancelled".
func (p *Packer) Pack(ctx context.Context, c model.Container, specs []model.CargoSpec) (model.PackResult, error) {
	if err := p.Settings.Validate(); err != nil {
		return model.PackResult{}, err
	}
	if err := c.Validate(); err != nil {
		return model.PackResult{}, err
	}
	if err := model.ValidateSpecs(specs); err != nil {
		return model.PackResult{}, err
	}

	if p.Settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Settings.Timeout)
		defer cancel()
	}

	start := time.Now()
	units := ExpandItems(specs)
	SortUnits(units)

	margin := math.Max(p.Settings.CollisionTolerance, p.Settings.GroundTolerance)
	v := &validator{
		c:   c,
		s:   p.Settings,
		reg: newRegistry(c, p.Settings.SpatialCellSize, margin),
	}

	result := model.PackResult{
		Container: c,
		Settings:  p.Settings,
		Items:     make([]model.UnitItem, 0, len(units)),
	}

	for i, u := range units {
		if err := ctx.Err(); err != nil {
			return p.interrupted(result, units[i:], start, err)
		}

		orients := Orientations(u, p.Settings.Rotation)
		if !fitsEmpty(orients, c) {
			result.Items = append(result.Items, u.Unplace(model.ReasonOversized))
			continue
		}
		if p.Settings.EnforceWeightLimit && c.MaxWeight > 0 && v.reg.weight+u.Weight > c.MaxWeight {
			result.Items = append(result.Items, u.Unplace(model.ReasonOverweight))
			continue
		}

		best, reason, err := p.place(ctx, v, u, orients)
		if err != nil {
			return p.interrupted(result, units[i:], start, err)
		}
		if reason != model.ReasonNone {
			result.Items = append(result.Items, u.Unplace(reason))
			continue
		}

		placed := u.Place(best.pos, best.orient)
		v.reg.add(placed)
		result.Items = append(result.Items, placed)
	}

	result.Elapsed = time.Since(start)
	return result, nil
}

func (p *Packer) interrupted(result model.PackResult, rest []model.UnitItem, start time.Time, err error) (model.PackResult, error) {
	for _, u := range rest {
		result.Items = append(result.Items, u.Unplace(model.ReasonCancelled))
	}
	result.Elapsed = time.Since(start)
	placed := len(result.Items) - len(rest)
	return result, fmt.Errorf("packing stopped after %d of %d items: %w", placed, len(result.Items), err)
}

// place finds the best placement for u. The adjacency strategy is tried for
// every orientation first; the grid sweep only runs when adjacency found
// nothing. Across orientations the lowest score wins and ties keep the
// earlier orientation.
func (p *Packer) place(ctx context.Context, v *validator, u model.UnitItem, orients []model.Orientation) (placement, model.UnplacedReason, error) {
	var best placement
	found := false
	consider := func(pos model.Position, o model.Orientation, score float64) {
		if !found || score < best.score {
			best = placement{pos: pos, orient: o, score: score}
			found = true
		}
	}

	anchors := v.reg.largest(p.Settings.AdjacencyLimit)
	for _, o := range orients {
		for _, pos := range adjacencyCandidates(v.c, v.reg, anchors, u, o) {
			if score, rej := v.check(u, pos, o.Dimensions); rej == Accepted {
				consider(pos, o, score)
			}
		}
	}
	if found {
		return best, model.ReasonNone, nil
	}
	if !p.Settings.GridEnabled {
		return placement{}, model.ReasonNoPosition, nil
	}

	exhausted := false
	for _, o := range orients {
		g, err := v.gridSearch(ctx, u, o)
		if err != nil {
			return placement{}, model.ReasonCancelled, err
		}
		if g.found {
			consider(g.pos, o, g.score)
		}
		exhausted = exhausted || g.exhausted
	}
	switch {
	case found:
		return best, model.ReasonNone, nil
	case exhausted:
		return placement{}, model.ReasonBudgetExhausted, nil
	}
	return placement{}, model.ReasonNoPosition, nil
}
