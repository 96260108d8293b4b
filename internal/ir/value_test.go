package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAngleNormalization(t *testing.T) {
	tests := []struct {
		name    string
		radians float64
		want    float64
	}{
		{"zero", 0.0, 0.0},
		{"in_range", 1.5, 1.5},
		{"full_turn", 2 * math.Pi, 0.0},
		{"negative_pi", -math.Pi, math.Pi},
		{"negative_quarter", -math.Pi / 2, 3 * math.Pi / 2},
		{"multiple_turns", 5 * math.Pi, math.Pi},
		{"large_negative", -7 * math.Pi, math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAngle(tt.radians)
			assert.InDelta(t, tt.want, a.Radians(), 1e-10)
		})
	}
}

func TestNewAngleAlwaysInRange(t *testing.T) {
	// Includes the rounding edge where r mod 2π + 2π lands on exactly 2π.
	inputs := []float64{
		0, 1, -1, 100, -100, 1e9, -1e9,
		2 * math.Pi, -2 * math.Pi, 4 * math.Pi,
		-1e-20, math.Nextafter(2*math.Pi, 0), math.Nextafter(0, -1),
	}
	for _, r := range inputs {
		a := NewAngle(r)
		assert.GreaterOrEqual(t, a.Radians(), 0.0, "input %v", r)
		assert.Less(t, a.Radians(), 2*math.Pi, "input %v", r)
	}
}

func TestNewAngleCongruence(t *testing.T) {
	// Normalization preserves the value modulo 2π.
	inputs := []float64{3.0, -3.0, 10.0, -10.0, 7 * math.Pi / 3}
	for _, r := range inputs {
		a := NewAngle(r)
		diff := math.Mod(a.Radians()-r, 2*math.Pi)
		if diff < 0 {
			diff += 2 * math.Pi
		}
		if diff > math.Pi {
			diff = 2*math.Pi - diff
		}
		assert.InDelta(t, 0.0, diff, 1e-9, "input %v normalized to %v", r, a.Radians())
	}
}

func TestNewBoundedValidation(t *testing.T) {
	tests := []struct {
		name            string
		value, min, max float64
		wantErr         bool
	}{
		{"inside", 5, 0, 10, false},
		{"at_min", 0, 0, 10, false},
		{"at_max", 10, 0, 10, false},
		{"above_max", 15, 0, 10, true},
		{"below_min", -1, 0, 10, true},
		{"degenerate_interval", 3, 3, 3, false},
		{"inverted_interval", 3, 5, 1, true},
		{"negative_range", -5, -10, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBounded(tt.value, tt.min, tt.max)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsBoundError(err))
				return
			}
			require.NoError(t, err)
			// Payload passes through unmodified - no clamping, no rounding.
			assert.Equal(t, tt.value, b.Value())
			assert.Equal(t, tt.min, b.Min())
			assert.Equal(t, tt.max, b.Max())
		})
	}
}

func TestEqualStructural(t *testing.T) {
	five, err := NewBounded(5, 0, 10)
	require.NoError(t, err)
	fiveWider, err := NewBounded(5, 0, 20)
	require.NoError(t, err)

	tests := []struct {
		name string
		a, b FlameType
		want bool
	}{
		{"integers_equal", Integer(5), Integer(5), true},
		{"integers_differ", Integer(5), Integer(6), false},
		{"booleans", Boolean(true), Boolean(true), true},
		{"kind_mismatch", Integer(1), Boolean(true), false},
		{"vectors_equal", Vector{1, 2, 3}, Vector{1, 2, 3}, true},
		{"vectors_length_differ", Vector{1, 2}, Vector{1, 2, 3}, false},
		{"vectors_value_differ", Vector{1, 2, 3}, Vector{1, 2, 4}, false},
		{"angles_equal", NewAngle(1.0), NewAngle(1.0), true},
		{"angles_differ", NewAngle(1.0), NewAngle(2.0), false},
		{"bounded_equal", five, five, true},
		{"bounded_bounds_differ", five, fiveWider, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}
