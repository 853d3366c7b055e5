package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidSpec      = errors.New("invalid cargo spec")
	ErrInvalidContainer = errors.New("invalid container")
	ErrInvalidSettings  = errors.New("invalid pack settings")
)

// ValidationError describes one rejected input field. It wraps one of the
// Err* sentinels so callers can match with errors.Is.
type ValidationError struct {
	Subject string // spec id, "container" or "settings"
	Field   string
	Value   any
	Reason  string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s.%s = %v: %s", e.Err, e.Subject, e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// positive reports whether v is a finite number above zero.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func specError(id, field string, value any, reason string) error {
	return &ValidationError{Subject: id, Field: field, Value: value, Reason: reason, Err: ErrInvalidSpec}
}

// Validate checks that the spec can be expanded and packed.
func (s CargoSpec) Validate() error {
	subject := s.ID
	if subject == "" {
		subject = s.Name
	}
	switch {
	case s.ID == "":
		return specError(subject, "id", s.ID, "must not be empty")
	case !positive(s.Length):
		return specError(subject, "length", s.Length, "must be a positive finite number")
	case !positive(s.Width):
		return specError(subject, "width", s.Width, "must be a positive finite number")
	case !positive(s.Height):
		return specError(subject, "height", s.Height, "must be a positive finite number")
	case !positive(s.Weight):
		return specError(subject, "weight", s.Weight, "must be a positive finite number")
	case s.Quantity < 1:
		return specError(subject, "quantity", s.Quantity, "must be at least 1")
	}
	return nil
}

// ValidateSpecs validates every spec and rejects duplicate ids, which would
// make derived unit ids collide.
func ValidateSpecs(specs []CargoSpec) error {
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.ID] {
			return specError(s.ID, "id", s.ID, "duplicate id")
		}
		seen[s.ID] = true
	}
	return nil
}

// Validate checks that the container has a usable volume.
func (c Container) Validate() error {
	fail := func(field string, value float64, reason string) error {
		return &ValidationError{Subject: "container", Field: field, Value: value, Reason: reason, Err: ErrInvalidContainer}
	}
	switch {
	case !positive(c.Length):
		return fail("length", c.Length, "must be a positive finite number")
	case !positive(c.Width):
		return fail("width", c.Width, "must be a positive finite number")
	case !positive(c.Height):
		return fail("height", c.Height, "must be a positive finite number")
	case c.MaxWeight < 0 || !finite(c.MaxWeight):
		return fail("max_weight", c.MaxWeight, "must be a finite number, not negative")
	}
	return nil
}
