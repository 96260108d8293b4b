package ir

import (
	"fmt"
	"math"
)

// FlameType is a sealed interface representing the closed set of value kinds.
// Only Angle, Vector, Bounded, Integer, and Boolean implement it.
type FlameType interface {
	flameType() // Sealed - only these types implement it
}

// Angle is a radian value held in [0, 2π) at all times.
// The payload is unexported: the only way to obtain an Angle is NewAngle,
// so no out-of-range instance can ever be observed.
type Angle struct {
	radians float64
}

func (Angle) flameType() {}

// Radians returns the normalized radian value.
func (a Angle) Radians() float64 { return a.radians }

// NewAngle creates an Angle, normalizing radians into [0, 2π) via the
// Euclidean remainder: negative inputs map into the upper part of the range.
// Total - never fails.
func NewAngle(radians float64) Angle {
	r := math.Mod(radians, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	// Adding 2π to a tiny negative remainder can round to exactly 2π,
	// which would violate the half-open range.
	if r >= 2*math.Pi {
		r = 0
	}
	return Angle{radians: r}
}

// Vector is an ordered sequence of reals. No invariant on length or values.
type Vector []float64

func (Vector) flameType() {}

// Bounded is a real value constrained to a closed interval.
// The payload is unexported: the only way to obtain a Bounded is NewBounded,
// so min <= value <= max holds for every live instance.
type Bounded struct {
	value float64
	min   float64
	max   float64
}

func (Bounded) flameType() {}

// Value returns the constrained value.
func (b Bounded) Value() float64 { return b.value }

// Min returns the lower bound (inclusive).
func (b Bounded) Min() float64 { return b.min }

// Max returns the upper bound (inclusive).
func (b Bounded) Max() float64 { return b.max }

// NewBounded creates a Bounded value, validating min <= value <= max.
// Inclusive bounds are legal. Out-of-range values are a hard BOUND_ERROR,
// never a silent clamp; the payload is returned unmodified on success.
func NewBounded(value, min, max float64) (Bounded, error) {
	if value < min || value > max {
		return Bounded{}, NewBoundError(fmt.Sprintf("value %v not in range [%v, %v]", value, min, max))
	}
	return Bounded{value: value, min: min, max: max}, nil
}

// Integer is a signed 64-bit integer value.
type Integer int64

func (Integer) flameType() {}

// Boolean is a boolean value.
type Boolean bool

func (Boolean) flameType() {}

// Equal reports structural equality between two values.
// Comparison is exact - no epsilon tolerance. Callers needing tolerance
// must apply it explicitly.
func Equal(a, b FlameType) bool {
	switch av := a.(type) {
	case Angle:
		bv, ok := b.(Angle)
		return ok && av.radians == bv.radians
	case Vector:
		bv, ok := b.(Vector)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	case Bounded:
		bv, ok := b.(Bounded)
		return ok && av.value == bv.value && av.min == bv.min && av.max == bv.max
	case Integer:
		bv, ok := b.(Integer)
		return ok && av == bv
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	default:
		return false
	}
}
