package harness

import (
	"context"
	"fmt"

	"github.com/flamelang/flamec/internal/compiler"
	"github.com/flamelang/flamec/internal/ir"
	"github.com/flamelang/flamec/internal/store"
	"github.com/flamelang/flamec/internal/testutil"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when the expect clause and every assertion held.
	Pass bool `json:"pass"`

	// Trace contains the per-stage events of the run, in order.
	Trace []ir.TraceEvent `json:"trace"`

	// Errors contains validation failure messages. Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Run is the record written to the scenario's run log.
	Run ir.RunRecord `json:"run"`
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// Run executes a scenario and returns its result.
//
// Each scenario runs in isolation: a freshly built pipeline, a fresh
// in-memory run log, a deterministic clock, and a fixed run token. The
// same scenario therefore produces an identical trace on every execution,
// which is what makes golden comparison possible.
func Run(scenario *Scenario) (*Result, error) {
	seed, err := scenario.Seed.toFlameType()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: seed: %w", scenario.Name, err)
	}

	spec := scenario.Pipeline.toSpec()
	pipeline, err := compiler.Build(&spec)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: build pipeline: %w", scenario.Name, err)
	}

	specHash, err := ir.SpecHash(spec)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	// Fresh in-memory run log for isolation.
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("scenario %s: open store: %w", scenario.Name, err)
	}
	defer st.Close()

	clock := testutil.NewDeterministicClock()
	tokenGen := testutil.NewFixedRunTokenGenerator(scenario.RunToken)

	runRes := pipeline.Run(seed)

	record := ir.RunRecord{
		Token:         tokenGen.Generate(),
		Pipeline:      pipeline.Name(),
		SpecHash:      specHash,
		Seed:          seed,
		Result:        runRes.Value,
		Status:        runRes.Status(),
		LayerCount:    pipeline.LayerCount(),
		Seq:           clock.Next(),
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
	if runRes.Err != nil {
		if kind, ok := ir.ErrorKindOf(runRes.Err); ok {
			record.ErrorKind = string(kind)
		}
		record.ErrorMessage = runRes.Err.Error()
	}

	if _, err := st.WriteRunAtomic(context.Background(), record, spec, runRes.Trace); err != nil {
		return nil, fmt.Errorf("scenario %s: record run: %w", scenario.Name, err)
	}

	result := &Result{
		Pass:  true,
		Trace: runRes.Trace,
		Run:   record,
	}

	evaluateExpect(result, scenario.Expect, runRes.Value, runRes.Err)
	for _, assertion := range scenario.Assertions {
		if err := evaluateAssertion(result.Trace, assertion); err != nil {
			result.AddError(err.Error())
		}
	}

	return result, nil
}

// evaluateExpect validates the run outcome against the expect clause.
func evaluateExpect(result *Result, expect *ExpectClause, value ir.FlameType, runErr error) {
	if expect == nil {
		return
	}

	if expect.ErrorKind != "" {
		if runErr == nil {
			result.AddError(fmt.Sprintf("expected %s, run succeeded with %v", expect.ErrorKind, value))
			return
		}
		kind, ok := ir.ErrorKindOf(runErr)
		if !ok || string(kind) != expect.ErrorKind {
			result.AddError(fmt.Sprintf("expected %s, got %v", expect.ErrorKind, runErr))
		}
		return
	}

	if expect.Value != nil {
		if runErr != nil {
			result.AddError(fmt.Sprintf("expected a value, run failed: %v", runErr))
			return
		}
		want, err := expect.Value.toFlameType()
		if err != nil {
			result.AddError(fmt.Sprintf("invalid expected value: %v", err))
			return
		}
		if !ir.Equal(want, value) {
			result.AddError(fmt.Sprintf("expected %v, got %v", want, value))
		}
	}
}
