package model

import "math"

// ContainerEstimate is a lower bound on how many identical containers a cargo
// list needs. It does not allocate items to containers.
type ContainerEstimate struct {
	TotalVolume       float64 `json:"total_volume"` // cm³ of all units
	TotalWeight       float64 `json:"total_weight"` // kg of all units
	ContainerVolume   float64 `json:"container_volume"`
	ByVolumeExact     float64 `json:"by_volume_exact"`     // fractional containers by volume
	ByWeightExact     float64 `json:"by_weight_exact"`     // fractional containers by weight, 0 when unlimited
	ContainersMin     int     `json:"containers_min"`      // ceiling of the binding constraint
	ContainersWithGap int     `json:"containers_with_gap"` // including the void allowance
	VoidPercent       float64 `json:"void_percent"`        // expected unusable volume, e.g. 15 for 15%
}

// EstimateContainers computes a volume and weight based lower bound on the
// number of containers for specs. voidPercent models space lost to gaps.
func EstimateContainers(specs []CargoSpec, c Container, voidPercent float64) ContainerEstimate {
	var totalVolume, totalWeight float64
	for _, s := range specs {
		q := float64(s.Quantity)
		totalVolume += s.Dimensions().Volume() * q
		totalWeight += s.Weight * q
	}

	est := ContainerEstimate{
		TotalVolume:     totalVolume,
		TotalWeight:     totalWeight,
		ContainerVolume: c.Volume(),
		VoidPercent:     voidPercent,
	}
	if est.ContainerVolume <= 0 {
		return est
	}

	est.ByVolumeExact = totalVolume / est.ContainerVolume
	if c.MaxWeight > 0 {
		est.ByWeightExact = totalWeight / c.MaxWeight
	}

	binding := math.Max(est.ByVolumeExact, est.ByWeightExact)
	est.ContainersMin = int(math.Ceil(binding))

	// The void allowance only inflates the volume bound.
	withGap := math.Max(est.ByVolumeExact*(1.0+voidPercent/100.0), est.ByWeightExact)
	est.ContainersWithGap = int(math.Ceil(withGap))
	if est.ContainersWithGap < est.ContainersMin {
		est.ContainersWithGap = est.ContainersMin
	}
	return est
}
