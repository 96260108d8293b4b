package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/flamelang/flamec/internal/ir"
)

// TraceSnapshot captures the complete trace for a scenario execution.
// It is what golden files record.
type TraceSnapshot struct {
	ScenarioName string          `json:"scenario_name"`
	RunToken     string          `json:"run_token,omitempty"`
	Trace        []ir.TraceEvent `json:"trace"`
}

// RunWithGolden executes a scenario and compares the trace against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the trace doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	return AssertGolden(t, scenario.Name, scenario.RunToken, result)
}

// AssertGolden compares a result's trace against a golden file. Useful
// when a scenario has already run and only the comparison is needed.
func AssertGolden(t *testing.T, scenarioName, runToken string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		RunToken:     runToken,
		Trace:        result.Trace,
	}

	traceJSON, err := json.MarshalIndent(&snapshot, "", "  ")
	if err != nil {
		return err
	}
	traceJSON = append(traceJSON, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
