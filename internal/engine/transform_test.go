package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flamelang/flamec/internal/ir"
)

func TestIdentity(t *testing.T) {
	in := ir.Vector{1, 2, 3}
	out, err := Identity{}.Apply(in)
	require.NoError(t, err)
	assert.True(t, ir.Equal(in, out))
	assert.True(t, Identity{}.ValidateBounds())
	assert.Equal(t, "Identity", Identity{}.Name())
}

func TestScaleInteger(t *testing.T) {
	tests := []struct {
		name   string
		input  int64
		factor float64
		want   int64
	}{
		{"double", 5, 2.0, 10},
		{"halve_truncates", 5, 0.5, 2},
		{"fractional_truncates_toward_zero", 5, 1.5, 7},
		{"negative_truncates_toward_zero", -5, 1.5, -7},
		{"zero_factor", 9, 0.0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Scale{Factor: tt.factor}.Apply(ir.Integer(tt.input))
			require.NoError(t, err)
			assert.Equal(t, ir.Integer(tt.want), out)
		})
	}
}

func TestScaleVector(t *testing.T) {
	out, err := Scale{Factor: 2.0}.Apply(ir.Vector{1, -2.5, 0})
	require.NoError(t, err)
	assert.True(t, ir.Equal(ir.Vector{2, -5, 0}, out))
}

func TestScaleAngleRenormalizes(t *testing.T) {
	// 3π/2 doubled is 3π, which wraps to π.
	out, err := Scale{Factor: 2.0}.Apply(ir.NewAngle(3 * math.Pi / 2))
	require.NoError(t, err)
	a, ok := out.(ir.Angle)
	require.True(t, ok)
	assert.InDelta(t, math.Pi, a.Radians(), 1e-10)
}

func TestScaleBounded(t *testing.T) {
	b, err := ir.NewBounded(5, 0, 10)
	require.NoError(t, err)

	out, err := Scale{Factor: 3.0}.Apply(b)
	require.NoError(t, err)
	scaled, ok := out.(ir.Bounded)
	require.True(t, ok)
	assert.Equal(t, 15.0, scaled.Value())
	assert.Equal(t, 0.0, scaled.Min())
	assert.Equal(t, 30.0, scaled.Max())
}

func TestScaleBoundedNegativeFactorFails(t *testing.T) {
	// A negative factor flips the interval, so re-validation rejects it.
	b, err := ir.NewBounded(5, 1, 10)
	require.NoError(t, err)

	_, err = Scale{Factor: -1.0}.Apply(b)
	require.Error(t, err)
	assert.True(t, ir.IsBoundError(err))
}

func TestScaleBooleanPassThrough(t *testing.T) {
	out, err := Scale{Factor: 100.0}.Apply(ir.Boolean(true))
	require.NoError(t, err)
	assert.Equal(t, ir.Boolean(true), out)
}
