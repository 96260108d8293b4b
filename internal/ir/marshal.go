package ir

import (
	"encoding/json"
	"fmt"
)

// Kind discriminators used in the tagged JSON encoding of FlameType.
const (
	KindAngle   = "angle"
	KindVector  = "vector"
	KindBounded = "bounded"
	KindInteger = "integer"
	KindBoolean = "boolean"
)

// KindOf returns the kind discriminator for a value.
func KindOf(v FlameType) string {
	switch v.(type) {
	case Angle:
		return KindAngle
	case Vector:
		return KindVector
	case Bounded:
		return KindBounded
	case Integer:
		return KindInteger
	case Boolean:
		return KindBoolean
	default:
		return ""
	}
}

// MarshalJSON implements json.Marshaler for Angle.
func (a Angle) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string  `json:"kind"`
		Radians float64 `json:"radians"`
	}{KindAngle, a.radians})
}

// MarshalJSON implements json.Marshaler for Vector.
func (v Vector) MarshalJSON() ([]byte, error) {
	elems := []float64(v)
	if elems == nil {
		elems = []float64{}
	}
	return json.Marshal(struct {
		Kind  string    `json:"kind"`
		Elems []float64 `json:"elems"`
	}{KindVector, elems})
}

// MarshalJSON implements json.Marshaler for Bounded.
func (b Bounded) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  string  `json:"kind"`
		Value float64 `json:"value"`
		Min   float64 `json:"min"`
		Max   float64 `json:"max"`
	}{KindBounded, b.value, b.min, b.max})
}

// MarshalJSON implements json.Marshaler for Integer.
func (n Integer) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  string `json:"kind"`
		Value int64  `json:"value"`
	}{KindInteger, int64(n)})
}

// MarshalJSON implements json.Marshaler for Boolean.
func (b Boolean) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  string `json:"kind"`
		Value bool   `json:"value"`
	}{KindBoolean, bool(b)})
}

// MarshalValue encodes any FlameType as tagged JSON.
func MarshalValue(v FlameType) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// UnmarshalValue decodes tagged JSON produced by MarshalValue.
//
// Angle and Bounded payloads are routed back through their constructors, so
// decoded values satisfy the same invariants as freshly constructed ones -
// a stored Bounded that no longer fits its bounds is a BOUND_ERROR, not a
// silently invalid value.
func UnmarshalValue(data []byte) (FlameType, error) {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("unmarshal value: %w", err)
	}

	switch probe.Kind {
	case KindAngle:
		var raw struct {
			Radians float64 `json:"radians"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal angle: %w", err)
		}
		return NewAngle(raw.Radians), nil

	case KindVector:
		var raw struct {
			Elems []float64 `json:"elems"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal vector: %w", err)
		}
		return Vector(raw.Elems), nil

	case KindBounded:
		var raw struct {
			Value float64 `json:"value"`
			Min   float64 `json:"min"`
			Max   float64 `json:"max"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal bounded: %w", err)
		}
		b, err := NewBounded(raw.Value, raw.Min, raw.Max)
		if err != nil {
			return nil, err
		}
		return b, nil

	case KindInteger:
		var raw struct {
			Value int64 `json:"value"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal integer: %w", err)
		}
		return Integer(raw.Value), nil

	case KindBoolean:
		var raw struct {
			Value bool `json:"value"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal boolean: %w", err)
		}
		return Boolean(raw.Value), nil

	default:
		return nil, fmt.Errorf("unknown value kind %q", probe.Kind)
	}
}
