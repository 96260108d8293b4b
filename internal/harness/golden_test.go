package harness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_ScaleChain(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/scale_chain.yaml")
	require.NoError(t, err)

	require.NoError(t, RunWithGolden(t, scenario))
}

func TestRunWithGolden_BoundedNegativeScale(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/bounded_negative_scale.yaml")
	require.NoError(t, err)

	require.NoError(t, RunWithGolden(t, scenario))
}
