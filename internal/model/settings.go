package model

import (
	"fmt"
	"time"
)

// RotationMode selects which orientations the engine may try for rotatable items.
type RotationMode string

const (
	RotationUpright RotationMode = "upright" // original plus length/width swap, height stays vertical
	RotationAll     RotationMode = "all"     // all six axis permutations
)

// PackSettings is the placement policy for one packing run. One engine
// parameterized by these values replaces separate algorithm variants.
type PackSettings struct {
	// Support check
	SupportFraction float64 `json:"support_fraction" yaml:"support_fraction"` // share of footprint that must rest on supporters
	GroundTolerance float64 `json:"ground_tolerance" yaml:"ground_tolerance"` // cm; z at or below counts as floor, also top-face matching

	// Collision check
	CollisionTolerance float64 `json:"collision_tolerance" yaml:"collision_tolerance"` // cm of overlap ignored between boxes

	// Orientation policy
	Rotation RotationMode `json:"rotation" yaml:"rotation"`

	// Adjacency strategy
	AdjacencyLimit int     `json:"adjacency_limit" yaml:"adjacency_limit"` // largest placed items used as anchors, 0 = all
	AdjacencyBonus float64 `json:"adjacency_bonus" yaml:"adjacency_bonus"` // score reward per flush-touching neighbour

	// Grid fallback strategy
	GridEnabled   bool    `json:"grid_enabled" yaml:"grid_enabled"`
	GridDivisor   float64 `json:"grid_divisor" yaml:"grid_divisor"`       // step = dimension / divisor
	GridMinStep   float64 `json:"grid_min_step" yaml:"grid_min_step"`     // cm, floor for x/y steps
	GridMinStepZ  float64 `json:"grid_min_step_z" yaml:"grid_min_step_z"` // cm, floor for z steps
	GridIterLimit int     `json:"grid_iter_limit" yaml:"grid_iter_limit"` // positions examined per item and orientation

	// Spatial hash cell size in cm; 0 disables the index and scans the registry.
	SpatialCellSize float64 `json:"spatial_cell_size" yaml:"spatial_cell_size"`

	// EnforceWeightLimit rejects items that would push the fitted weight past
	// the container's max weight. When false weight is only reported.
	EnforceWeightLimit bool `json:"enforce_weight_limit" yaml:"enforce_weight_limit"`

	// Timeout bounds one run; 0 means no deadline beyond the caller's context.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

func DefaultSettings() PackSettings {
	return PackSettings{
		SupportFraction:    0.5,
		GroundTolerance:    0.1,
		CollisionTolerance: 0.01,
		Rotation:           RotationAll,
		AdjacencyLimit:     20,
		AdjacencyBonus:     50,
		GridEnabled:        true,
		GridDivisor:        4,
		GridMinStep:        2,
		GridMinStepZ:       1,
		GridIterLimit:      20000,
		SpatialCellSize:    50,
		EnforceWeightLimit: true,
	}
}

// Validate rejects settings the engine cannot run with.
func (s PackSettings) Validate() error {
	fail := func(field string, value any, reason string) error {
		return &ValidationError{Subject: "settings", Field: field, Value: value, Reason: reason, Err: ErrInvalidSettings}
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"support_fraction", s.SupportFraction},
		{"ground_tolerance", s.GroundTolerance},
		{"collision_tolerance", s.CollisionTolerance},
		{"adjacency_bonus", s.AdjacencyBonus},
		{"grid_divisor", s.GridDivisor},
		{"grid_min_step", s.GridMinStep},
		{"grid_min_step_z", s.GridMinStepZ},
		{"spatial_cell_size", s.SpatialCellSize},
	} {
		if !finite(f.value) {
			return fail(f.name, f.value, "must be a finite number")
		}
	}
	switch {
	case s.SupportFraction < 0 || s.SupportFraction > 1:
		return fail("support_fraction", s.SupportFraction, "must be within [0, 1]")
	case s.GroundTolerance < 0:
		return fail("ground_tolerance", s.GroundTolerance, "must not be negative")
	case s.CollisionTolerance < 0:
		return fail("collision_tolerance", s.CollisionTolerance, "must not be negative")
	case s.Rotation != RotationUpright && s.Rotation != RotationAll:
		return fail("rotation", s.Rotation, fmt.Sprintf("must be %q or %q", RotationUpright, RotationAll))
	case s.AdjacencyLimit < 0:
		return fail("adjacency_limit", s.AdjacencyLimit, "must not be negative")
	case s.GridEnabled && s.GridDivisor < 1:
		return fail("grid_divisor", s.GridDivisor, "must be at least 1")
	case s.GridEnabled && (s.GridMinStep <= 0 || s.GridMinStepZ <= 0):
		return fail("grid_min_step", s.GridMinStep, "steps must be positive")
	case s.GridEnabled && s.GridIterLimit < 1:
		return fail("grid_iter_limit", s.GridIterLimit, "must be at least 1")
	case s.SpatialCellSize < 0:
		return fail("spatial_cell_size", s.SpatialCellSize, "must not be negative")
	case s.Timeout < 0:
		return fail("timeout", s.Timeout, "must not be negative")
	}
	return nil
}
