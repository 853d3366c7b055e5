package model

import "strings"

// cmPerInch converts catalog dimensions published in inches.
const cmPerInch = 2.54

// ContainerPreset is a named equipment type from the built-in catalog.
type ContainerPreset struct {
	Name        string    `json:"name"`
	Category    string    `json:"category"` // sea-container, truck, air-container
	Description string    `json:"description"`
	Container   Container `json:"container"`
}

func inches(l, w, h float64) (float64, float64, float64) {
	return l * cmPerInch, w * cmPerInch, h * cmPerInch
}

func preset(name, category, description string, l, w, h, maxWeight float64) ContainerPreset {
	return ContainerPreset{
		Name:        name,
		Category:    category,
		Description: description,
		Container:   Container{Label: name, Length: l, Width: w, Height: h, MaxWeight: maxWeight},
	}
}

func inchPreset(name, category, description string, l, w, h, maxWeight float64) ContainerPreset {
	cl, cw, ch := inches(l, w, h)
	return preset(name, category, description, cl, cw, ch, maxWeight)
}

// ContainerPresets is the built-in equipment catalog. Inner dimensions in cm.
var ContainerPresets = []ContainerPreset{
	preset("20ft", "sea-container", "20' standard dry container", 589.8, 235.2, 239.3, 28200),
	preset("40ft", "sea-container", "40' standard dry container", 1203.2, 235.2, 239.3, 26700),
	preset("40ft-hc", "sea-container", "40' high cube dry container", 1203.2, 235.2, 269.8, 26500),
	preset("45ft-hc", "sea-container", "45' high cube dry container", 1355.6, 235.2, 269.8, 27700),
	inchPreset("53-truck", "truck", "53' truck trailer", 636, 102, 110, 26000),
	inchPreset("pmc-p6p-ld", "air-container", "PMC/P6P lower deck pallet", 124.8, 96.1, 64, 5035),
	inchPreset("pmc-p6p-ld-winged", "air-container", "PMC/P6P lower deck pallet, winged contour", 164.2, 96.1, 64.2, 5035),
	inchPreset("pmc-p6p-q6", "air-container", "PMC/P6P main deck pallet, Q6 contour", 124.8, 96.1, 96, 6804),
	inchPreset("pag-p1p-ld7", "air-container", "PAG/P1P LD-7 pallet", 88.2, 124.8, 64.2, 4626),
	inchPreset("ld3-ake", "air-container", "LD-3 / AKE unit load device", 75.6, 57.1, 63.8, 1588),
}

// GetPreset returns the preset with the given name, ignoring case.
func GetPreset(name string) (ContainerPreset, bool) {
	for _, p := range ContainerPresets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return ContainerPreset{}, false
}

// GetPresetNames returns the catalog names in catalog order.
func GetPresetNames() []string {
	names := make([]string, 0, len(ContainerPresets))
	for _, p := range ContainerPresets {
		names = append(names, p.Name)
	}
	return names
}
