package engine

import (
	"fmt"
	"sort"

	"github.com/piwi3910/CargoFit/internal/model"
)

// ExpandItems expands each spec into Quantity unit items. Unit ids are
// "{spec.id}_{index}" with a 1-based index, so they are unique whenever the
// spec ids are.
func ExpandItems(specs []model.CargoSpec) []model.UnitItem {
	total := 0
	for _, s := range specs {
		total += s.Quantity
	}

	units := make([]model.UnitItem, 0, total)
	for _, s := range specs {
		for i := 1; i <= s.Quantity; i++ {
			name := s.Name
			if s.Quantity > 1 {
				name = fmt.Sprintf("%s #%d", s.Name, i)
			}
			units = append(units, model.UnitItem{
				ID:           fmt.Sprintf("%s_%d", s.ID, i),
				SpecID:       s.ID,
				Name:         name,
				Length:       s.Length,
				Width:        s.Width,
				Height:       s.Height,
				Weight:       s.Weight,
				NonStackable: s.NonStackable,
				NonRotatable: s.NonRotatable,
			})
		}
	}
	return units
}

// SortUnits orders units for placement: volume descending, then the most
// cube-like first, then heaviest first. The sort is stable so input order
// breaks remaining ties.
func SortUnits(units []model.UnitItem) {
	sort.SliceStable(units, func(i, j int) bool {
		a, b := units[i].Dimensions(), units[j].Dimensions()
		if va, vb := a.Volume(), b.Volume(); va != vb {
			return va > vb
		}
		if ra, rb := a.AspectRatio(), b.AspectRatio(); ra != rb {
			return ra < rb
		}
		return units[i].Weight > units[j].Weight
	})
}
