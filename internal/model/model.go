package model

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Dimensions is an axis-aligned box extent in centimeters.
type Dimensions struct {
	Length float64 `json:"length" yaml:"length"` // cm, along x
	Width  float64 `json:"width" yaml:"width"`   // cm, along y
	Height float64 `json:"height" yaml:"height"` // cm, along z
}

// Volume returns length × width × height in cubic centimeters.
func (d Dimensions) Volume() float64 {
	return d.Length * d.Width * d.Height
}

// FootprintArea returns the horizontal (length × width) area in square centimeters.
func (d Dimensions) FootprintArea() float64 {
	return d.Length * d.Width
}

// AspectRatio returns the largest dimension divided by the smallest.
// A cube returns 1.
func (d Dimensions) AspectRatio() float64 {
	lo := math.Min(d.Length, math.Min(d.Width, d.Height))
	hi := math.Max(d.Length, math.Max(d.Width, d.Height))
	if lo <= 0 {
		return math.Inf(1)
	}
	return hi / lo
}

// FitsWithin reports whether d fits inside outer without rotation.
func (d Dimensions) FitsWithin(outer Dimensions) bool {
	return d.Length <= outer.Length && d.Width <= outer.Width && d.Height <= outer.Height
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%gx%gx%g", d.Length, d.Width, d.Height)
}

// Position is the minimum corner of a placed box, in centimeters from the
// container's back-left-floor corner.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Orientation is one permitted axis-aligned rotation of an item.
type Orientation struct {
	Dimensions
	Rotated bool `json:"rotated"` // false only for the original orientation
}

// CargoSpec describes one line of a cargo list.
type CargoSpec struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Length       float64 `json:"length"` // cm
	Width        float64 `json:"width"`  // cm
	Height       float64 `json:"height"` // cm
	Weight       float64 `json:"weight"` // kg per unit
	Quantity     int     `json:"quantity"`
	NonStackable bool    `json:"non_stackable"` // nothing on top, never placed above ground
	NonRotatable bool    `json:"non_rotatable"` // original orientation only
}

func NewCargoSpec(name string, l, w, h, weight float64, qty int) CargoSpec {
	return CargoSpec{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Length:   l,
		Width:    w,
		Height:   h,
		Weight:   weight,
		Quantity: qty,
	}
}

// Dimensions returns the spec's original orientation.
func (s CargoSpec) Dimensions() Dimensions {
	return Dimensions{Length: s.Length, Width: s.Width, Height: s.Height}
}

// Container is the single bin a run packs into.
type Container struct {
	Label     string  `json:"label,omitempty"`
	Length    float64 `json:"length"`     // cm
	Width     float64 `json:"width"`      // cm
	Height    float64 `json:"height"`     // cm
	MaxWeight float64 `json:"max_weight"` // kg, 0 = unlimited
}

func NewContainer(l, w, h, maxWeight float64) Container {
	return Container{Length: l, Width: w, Height: h, MaxWeight: maxWeight}
}

// Dimensions returns the inner extent of the container.
func (c Container) Dimensions() Dimensions {
	return Dimensions{Length: c.Length, Width: c.Width, Height: c.Height}
}

// Volume returns the inner volume in cubic centimeters.
func (c Container) Volume() float64 {
	return c.Dimensions().Volume()
}

// UnplacedReason explains why a unit was left unfitted.
type UnplacedReason string

const (
	ReasonNone            UnplacedReason = ""
	ReasonOversized       UnplacedReason = "oversized"        // no permitted orientation fits the container
	ReasonOverweight      UnplacedReason = "overweight"       // would exceed the container's max weight
	ReasonNoPosition      UnplacedReason = "no_position"      // all orientations and strategies exhausted
	ReasonBudgetExhausted UnplacedReason = "budget_exhausted" // grid search hit its iteration cap
	ReasonCancelled       UnplacedReason = "cancelled"        // run deadline expired before the attempt
)

// UnitItem is one physical unit expanded from a CargoSpec together with its
// placement outcome. Length/Width/Height are the effective dimensions after
// orientation; they equal the spec's dimensions while unfitted.
type UnitItem struct {
	ID           string         `json:"id"`
	SpecID       string         `json:"spec_id"`
	Name         string         `json:"name"`
	Length       float64        `json:"length"` // cm
	Width        float64        `json:"width"`  // cm
	Height       float64        `json:"height"` // cm
	Weight       float64        `json:"weight"` // kg
	X            float64        `json:"x"`
	Y            float64        `json:"y"`
	Z            float64        `json:"z"`
	Fitted       bool           `json:"fitted"`
	Rotated      bool           `json:"rotated"`
	NonStackable bool           `json:"non_stackable"`
	NonRotatable bool           `json:"non_rotatable"`
	Reason       UnplacedReason `json:"reason,omitempty"`
}

// Dimensions returns the item's effective dimensions.
func (u UnitItem) Dimensions() Dimensions {
	return Dimensions{Length: u.Length, Width: u.Width, Height: u.Height}
}

// Position returns the item's minimum corner.
func (u UnitItem) Position() Position {
	return Position{X: u.X, Y: u.Y, Z: u.Z}
}

// Volume returns the item's volume in cubic centimeters.
func (u UnitItem) Volume() float64 {
	return u.Dimensions().Volume()
}

// Place returns a copy of u committed at pos with orientation o.
func (u UnitItem) Place(pos Position, o Orientation) UnitItem {
	u.X, u.Y, u.Z = pos.X, pos.Y, pos.Z
	u.Length, u.Width, u.Height = o.Length, o.Width, o.Height
	u.Rotated = o.Rotated
	u.Fitted = true
	u.Reason = ReasonNone
	return u
}

// Unplace returns a copy of u marked unfitted with the given reason.
func (u UnitItem) Unplace(reason UnplacedReason) UnitItem {
	u.X, u.Y, u.Z = 0, 0, 0
	u.Fitted = false
	u.Rotated = false
	u.Reason = reason
	return u
}
