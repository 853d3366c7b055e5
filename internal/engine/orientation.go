package engine

import "github.com/piwi3910/CargoFit/internal/model"

// Orientations returns the permitted orientations of u, original first.
//
// Non-rotatable units only get their original orientation. In upright mode
// the length/width swap is added; in full mode the remaining axis
// permutations follow. Permutations with the same dimensions as an earlier
// one are dropped, so a cube always yields exactly one orientation.
func Orientations(u model.UnitItem, mode model.RotationMode) []model.Orientation {
	l, w, h := u.Length, u.Width, u.Height
	out := []model.Orientation{{Dimensions: model.Dimensions{Length: l, Width: w, Height: h}}}
	if u.NonRotatable {
		return out
	}

	perms := []model.Dimensions{{Length: w, Width: l, Height: h}}
	if mode == model.RotationAll {
		perms = append(perms,
			model.Dimensions{Length: l, Width: h, Height: w},
			model.Dimensions{Length: h, Width: l, Height: w},
			model.Dimensions{Length: w, Width: h, Height: l},
			model.Dimensions{Length: h, Width: w, Height: l},
		)
	}

	for _, d := range perms {
		dup := false
		for _, o := range out {
			if o.Dimensions == d {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, model.Orientation{Dimensions: d, Rotated: true})
		}
	}
	return out
}

// fitsEmpty reports whether any orientation fits inside the empty container.
func fitsEmpty(orients []model.Orientation, c model.Container) bool {
	cd := c.Dimensions()
	for _, o := range orients {
		if o.Dimensions.FitsWithin(cd) {
			return true
		}
	}
	return false
}
