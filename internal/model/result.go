package model

import "time"

// PackResult is the outcome of one packing run. Items holds one entry per
// expanded unit, in the order the engine attempted them.
type PackResult struct {
	Container Container     `json:"container"`
	Settings  PackSettings  `json:"settings"`
	Items     []UnitItem    `json:"items"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Fitted returns the placed units in attempt order.
func (r PackResult) Fitted() []UnitItem {
	var out []UnitItem
	for _, it := range r.Items {
		if it.Fitted {
			out = append(out, it)
		}
	}
	return out
}

// Unfitted returns the units that could not be placed.
func (r PackResult) Unfitted() []UnitItem {
	var out []UnitItem
	for _, it := range r.Items {
		if !it.Fitted {
			out = append(out, it)
		}
	}
	return out
}

// UsedVolume returns the total volume of fitted units.
func (r PackResult) UsedVolume() float64 {
	var total float64
	for _, it := range r.Items {
		if it.Fitted {
			total += it.Volume()
		}
	}
	return total
}

// Efficiency returns the used volume as a percentage of the container volume.
func (r PackResult) Efficiency() float64 {
	cv := r.Container.Volume()
	if cv == 0 {
		return 0
	}
	return (r.UsedVolume() / cv) * 100.0
}

// FittedWeight returns the total weight of fitted units in kg.
func (r PackResult) FittedWeight() float64 {
	var total float64
	for _, it := range r.Items {
		if it.Fitted {
			total += it.Weight
		}
	}
	return total
}

// PackStats is the presentation summary of a run.
type PackStats struct {
	TotalItems        int         `json:"total_items"`
	FittedItems       int         `json:"fitted_items"`
	UnfittedItems     int         `json:"unfitted_items"`
	ContainerVolume   float64     `json:"container_volume"` // cm³
	UsedVolume        float64     `json:"used_volume"`      // cm³
	VolumeEfficiency  float64     `json:"volume_efficiency"`
	TotalWeight       float64     `json:"total_weight"`  // kg
	FittedWeight      float64     `json:"fitted_weight"` // kg
	WeightUtilization float64     `json:"weight_utilization"`
	BySpec            []SpecStats `json:"by_spec"`

	// Chargeable rates the loaded units for air freight billing.
	Chargeable ChargeableWeight `json:"chargeable"`
}

// SpecStats counts fitted units per cargo line.
type SpecStats struct {
	SpecID string `json:"spec_id"`
	Total  int    `json:"total"`
	Fitted int    `json:"fitted"`
}

// Stats computes the summary numbers for r.
func (r PackResult) Stats() PackStats {
	st := PackStats{
		TotalItems:       len(r.Items),
		ContainerVolume:  r.Container.Volume(),
		UsedVolume:       r.UsedVolume(),
		VolumeEfficiency: r.Efficiency(),
		FittedWeight:     r.FittedWeight(),
		Chargeable:       r.Chargeable(),
	}

	index := make(map[string]int)
	for _, it := range r.Items {
		st.TotalWeight += it.Weight
		if it.Fitted {
			st.FittedItems++
		}

		i, ok := index[it.SpecID]
		if !ok {
			i = len(st.BySpec)
			index[it.SpecID] = i
			st.BySpec = append(st.BySpec, SpecStats{SpecID: it.SpecID})
		}
		st.BySpec[i].Total++
		if it.Fitted {
			st.BySpec[i].Fitted++
		}
	}
	st.UnfittedItems = st.TotalItems - st.FittedItems

	if r.Container.MaxWeight > 0 {
		st.WeightUtilization = (st.FittedWeight / r.Container.MaxWeight) * 100.0
	}
	return st
}
