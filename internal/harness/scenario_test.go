package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flamelang/flamec/internal/ir"
)

func TestLoadScenario(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/scale_chain.yaml")
	require.NoError(t, err)

	assert.Equal(t, "scale_chain", scenario.Name)
	assert.Equal(t, "golden-scale-chain", scenario.RunToken)
	assert.Equal(t, "doubler", scenario.Pipeline.Name)
	require.Len(t, scenario.Pipeline.Stages, 2)
	assert.Equal(t, "identity", scenario.Pipeline.Stages[0].Kind)
	assert.Nil(t, scenario.Pipeline.Stages[0].Factor)
	assert.Equal(t, "scale", scenario.Pipeline.Stages[1].Kind)
	require.NotNil(t, scenario.Pipeline.Stages[1].Factor)
	assert.Equal(t, 2.0, *scenario.Pipeline.Stages[1].Factor)

	require.NotNil(t, scenario.Expect)
	require.NotNil(t, scenario.Expect.Value)
	assert.Equal(t, ir.KindInteger, scenario.Expect.Value.Kind)
	assert.Len(t, scenario.Assertions, 2)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/does_not_exist.yaml")
	require.Error(t, err)
}

func TestLoadScenario_MissingName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unnamed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("description: no name here\n"), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestLoadScenarioDir(t *testing.T) {
	scenarios, err := LoadScenarioDir("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	// Sorted by file name, so bounded_negative_scale comes first.
	assert.Equal(t, "bounded_negative_scale", scenarios[0].Name)
}

func TestLoadScenarioDir_Empty(t *testing.T) {
	_, err := LoadScenarioDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenario files")
}

func TestValueDef_ToFlameType(t *testing.T) {
	tests := []struct {
		name    string
		def     ValueDef
		want    ir.FlameType
		wantErr bool
	}{
		{
			name: "integer",
			def:  ValueDef{Kind: ir.KindInteger, Value: 42},
			want: ir.Integer(42),
		},
		{
			name: "boolean",
			def:  ValueDef{Kind: ir.KindBoolean, Value: true},
			want: ir.Boolean(true),
		},
		{
			name: "vector",
			def:  ValueDef{Kind: ir.KindVector, Elems: []float64{1, 2}},
			want: ir.Vector{1, 2},
		},
		{
			name: "angle_normalizes",
			def:  ValueDef{Kind: ir.KindAngle, Radians: -1.0},
			want: ir.NewAngle(-1.0),
		},
		{
			name:    "bounded_out_of_range",
			def:     ValueDef{Kind: ir.KindBounded, Value: 9, Min: 0, Max: 5},
			wantErr: true,
		},
		{
			name:    "integer_wrong_type",
			def:     ValueDef{Kind: ir.KindInteger, Value: "five"},
			wantErr: true,
		},
		{
			name:    "unknown_kind",
			def:     ValueDef{Kind: "quaternion"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.def.toFlameType()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, ir.Equal(tt.want, got))
		})
	}
}

func TestPipelineDef_ToSpec(t *testing.T) {
	def := PipelineDef{
		Name: "p",
		Stages: []StageDef{
			{Kind: "identity"},
			{Kind: "scale", Factor: floatPtr(1.5)},
		},
	}

	spec := def.toSpec()
	assert.Equal(t, "p", spec.Name)
	require.Len(t, spec.Stages, 2)
	assert.Equal(t, ir.StageSpec{Kind: "identity"}, spec.Stages[0])
	assert.Equal(t, ir.StageSpec{Kind: "scale", Factor: 1.5}, spec.Stages[1])
}
