package engine

import (
	"fmt"

	"github.com/piwi3910/CargoFit/internal/model"
)

// ViolationKind names a broken layout invariant.
type ViolationKind string

const (
	ViolationBounds       ViolationKind = "bounds"
	ViolationOverlap      ViolationKind = "overlap"
	ViolationSupport      ViolationKind = "support"
	ViolationNonStackable ViolationKind = "non_stackable"
	ViolationNonRotatable ViolationKind = "non_rotatable"
	ViolationOverweight   ViolationKind = "overweight"
	ViolationDuplicateID  ViolationKind = "duplicate_id"
	ViolationCount        ViolationKind = "count"
	ViolationDimensions   ViolationKind = "dimensions"
)

// Violation is one invariant a layout breaks.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	ItemID  string        `json:"item_id,omitempty"`
	OtherID string        `json:"other_id,omitempty"`
	Detail  string        `json:"detail"`
}

func (v Violation) String() string {
	if v.OtherID != "" {
		return fmt.Sprintf("%s: %s / %s: %s", v.Kind, v.ItemID, v.OtherID, v.Detail)
	}
	if v.ItemID != "" {
		return fmt.Sprintf("%s: %s: %s", v.Kind, v.ItemID, v.Detail)
	}
	return fmt.Sprintf("%s: %s", v.Kind, v.Detail)
}

// VerifyLayout checks every fitted item of r against the layout invariants
// by brute force, using the tolerances in r.Settings. It returns nil for a
// valid layout.
func VerifyLayout(r model.PackResult) []Violation {
	s := r.Settings
	var out []Violation
	add := func(kind ViolationKind, a, b, format string, args ...any) {
		out = append(out, Violation{Kind: kind, ItemID: a, OtherID: b, Detail: fmt.Sprintf(format, args...)})
	}

	ids := make(map[string]bool, len(r.Items))
	for _, it := range r.Items {
		if ids[it.ID] {
			add(ViolationDuplicateID, it.ID, "", "id used more than once")
		}
		ids[it.ID] = true
	}

	fitted := r.Fitted()
	for i, a := range fitted {
		ab := itemBox(a)
		if !inBounds(r.Container, ab) {
			add(ViolationBounds, a.ID, "", "box %v at %+v leaves the container", a.Dimensions(), a.Position())
		}
		if a.NonRotatable && a.Rotated {
			add(ViolationNonRotatable, a.ID, "", "non-rotatable item is rotated")
		}
		for _, b := range fitted[i+1:] {
			if collides(ab, itemBox(b), s.CollisionTolerance) {
				add(ViolationOverlap, a.ID, b.ID, "boxes overlap")
			}
		}

		if a.Z <= s.GroundTolerance {
			continue
		}
		if a.NonStackable {
			add(ViolationNonStackable, a.ID, "", "non-stackable item placed at z=%g", a.Z)
		}
		var supported float64
		for j, b := range fitted {
			if j == i {
				continue
			}
			bb := itemBox(b)
			if d := bb.z1 - a.Z; d > s.GroundTolerance || d < -s.GroundTolerance {
				continue
			}
			area := footprintOverlap(ab, bb)
			if area <= 0 {
				continue
			}
			if b.NonStackable {
				add(ViolationNonStackable, a.ID, b.ID, "rests on a non-stackable item")
				continue
			}
			supported += area
		}
		need := s.SupportFraction * a.Dimensions().FootprintArea()
		if supported < need {
			add(ViolationSupport, a.ID, "", "supported area %.2f below required %.2f", supported, need)
		}
	}

	if s.EnforceWeightLimit && r.Container.MaxWeight > 0 {
		if w := r.FittedWeight(); w > r.Container.MaxWeight {
			add(ViolationOverweight, "", "", "fitted weight %.2f kg exceeds %.2f kg", w, r.Container.MaxWeight)
		}
	}
	return out
}

// VerifyAgainstSpecs checks r against the specs it was packed from: one unit
// per unit of quantity, and non-rotatable units keep their original
// dimensions. It includes the checks of VerifyLayout.
func VerifyAgainstSpecs(r model.PackResult, specs []model.CargoSpec) []Violation {
	out := VerifyLayout(r)

	want := 0
	bySpec := make(map[string]model.CargoSpec, len(specs))
	for _, s := range specs {
		want += s.Quantity
		bySpec[s.ID] = s
	}
	if len(r.Items) != want {
		out = append(out, Violation{
			Kind:   ViolationCount,
			Detail: fmt.Sprintf("%d units in result, %d expected", len(r.Items), want),
		})
	}

	for _, it := range r.Items {
		spec, ok := bySpec[it.SpecID]
		if !ok || !spec.NonRotatable || !it.Fitted {
			continue
		}
		if it.Dimensions() != spec.Dimensions() {
			out = append(out, Violation{
				Kind:   ViolationDimensions,
				ItemID: it.ID,
				Detail: fmt.Sprintf("non-rotatable unit placed as %v, spec is %v", it.Dimensions(), spec.Dimensions()),
			})
		}
	}
	return out
}

// ValidatePlacement re-validates the fitted item with the given id against
// every other fitted item of r.
func ValidatePlacement(r model.PackResult, id string) (Rejection, error) {
	var target *model.UnitItem
	others := make([]model.UnitItem, 0, len(r.Items))
	for i := range r.Items {
		it := r.Items[i]
		if !it.Fitted {
			continue
		}
		if it.ID == id && target == nil {
			target = &r.Items[i]
			continue
		}
		others = append(others, it)
	}
	if target == nil {
		return 0, fmt.Errorf("no fitted item %q in layout", id)
	}

	v := &validator{c: r.Container, s: r.Settings, reg: registryOf(others)}
	_, rej := v.check(*target, target.Position(), target.Dimensions())
	return rej, nil
}
