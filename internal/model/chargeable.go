package model

// VolumetricDivisor converts cm³ into volumetric kilograms (IATA air freight
// standard of 6000 cm³ per kg).
const VolumetricDivisor = 6000.0

// ChargeableWeight is the billable weight of a shipment: the larger of its
// actual and volumetric weight.
type ChargeableWeight struct {
	ActualWeight     float64 `json:"actual_weight"`     // kg
	VolumetricWeight float64 `json:"volumetric_weight"` // kg
	ChargeableWeight float64 `json:"chargeable_weight"` // kg
	CBM              float64 `json:"cbm"`               // m³
}

func chargeableOf(volume, weight float64) ChargeableWeight {
	cw := ChargeableWeight{
		ActualWeight:     weight,
		VolumetricWeight: volume / VolumetricDivisor,
		CBM:              volume / 1e6,
	}
	cw.ChargeableWeight = cw.ActualWeight
	if cw.VolumetricWeight > cw.ChargeableWeight {
		cw.ChargeableWeight = cw.VolumetricWeight
	}
	return cw
}

// Chargeable returns the chargeable weight of all units of the line.
func (s CargoSpec) Chargeable() ChargeableWeight {
	q := float64(s.Quantity)
	return chargeableOf(s.Dimensions().Volume()*q, s.Weight*q)
}

// ChargeableForSpecs rates a cargo list as one shipment. Volumes and weights
// are summed before the larger of the two is taken.
func ChargeableForSpecs(specs []CargoSpec) ChargeableWeight {
	var volume, weight float64
	for _, s := range specs {
		q := float64(s.Quantity)
		volume += s.Dimensions().Volume() * q
		weight += s.Weight * q
	}
	return chargeableOf(volume, weight)
}

// Chargeable rates the loaded units of r.
func (r PackResult) Chargeable() ChargeableWeight {
	return chargeableOf(r.UsedVolume(), r.FittedWeight())
}
