package engine

import (
	"github.com/flamelang/flamec/internal/ir"
)

// Transform is one unit of the pipeline's capability contract.
// The engine dispatches over heterogeneous stage implementations through
// this interface; future Linguistic, Numeric, Geometric, Bound, and
// Symbolic stages plug in by conforming to it.
type Transform interface {
	// Apply performs the stage's core transformation. It must be a pure
	// function of its input and the instance's own configuration. Failures
	// are reported as typed errors, never as silently wrong values.
	Apply(input ir.FlameType) (ir.FlameType, error)

	// ValidateBounds is a cheap, input-independent pre-flight check.
	// A false result causes the pipeline to abort before Apply is called.
	ValidateBounds() bool

	// Name is a stable identifier for diagnostics.
	Name() string
}

// Identity is the no-op transform: Apply returns its input unchanged.
type Identity struct{}

// Apply implements Transform.
func (Identity) Apply(input ir.FlameType) (ir.FlameType, error) {
	return input, nil
}

// ValidateBounds implements Transform. Identity has no static constraint.
func (Identity) ValidateBounds() bool { return true }

// Name implements Transform.
func (Identity) Name() string { return "Identity" }

// Scale multiplies numeric payloads by a constant factor.
//
// Semantics per value kind:
//   - Integer: widened to float64, multiplied, truncated back to int64.
//     The truncation happens per stage, so chained scales are observably
//     different from a single combined scale.
//   - Vector: every element multiplied.
//   - Angle: multiplied, then renormalized into [0, 2π) like construction.
//   - Bounded: value and both bounds multiplied, then re-validated through
//     ir.NewBounded - the only case where Apply can fail. A negative factor
//     flips the interval, so re-validation rejects it with a BOUND_ERROR.
//   - Boolean: passed through unchanged. Scale has no defined semantics
//     there; pass-through is documented behavior, not an error.
type Scale struct {
	Factor float64
}

// Apply implements Transform.
func (s Scale) Apply(input ir.FlameType) (ir.FlameType, error) {
	switch v := input.(type) {
	case ir.Integer:
		return ir.Integer(int64(float64(v) * s.Factor)), nil
	case ir.Vector:
		out := make(ir.Vector, len(v))
		for i, x := range v {
			out[i] = x * s.Factor
		}
		return out, nil
	case ir.Angle:
		return ir.NewAngle(v.Radians() * s.Factor), nil
	case ir.Bounded:
		scaled, err := ir.NewBounded(v.Value()*s.Factor, v.Min()*s.Factor, v.Max()*s.Factor)
		if err != nil {
			return nil, err
		}
		return scaled, nil
	default:
		return input, nil
	}
}

// ValidateBounds implements Transform. Scale has no static constraint;
// Bounded violations surface at Apply time via re-validation.
func (Scale) ValidateBounds() bool { return true }

// Name implements Transform.
func (Scale) Name() string { return "Scale" }
