package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/flamelang/flamec/internal/ir"
)

// Scenario defines a conformance test scenario: one pipeline, one seed,
// one expected outcome, plus assertions over the resulting trace.
type Scenario struct {
	// Name uniquely identifies this scenario (and its golden file).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// RunToken is an optional fixed run token for deterministic recording.
	// If empty, defaults to "test-run-default".
	RunToken string `yaml:"run_token,omitempty"`

	// Pipeline describes the stages to build, in execution order.
	Pipeline PipelineDef `yaml:"pipeline"`

	// Seed is the value fed into the pipeline.
	Seed ValueDef `yaml:"seed"`

	// Expect specifies the expected outcome. If nil, the run's outcome is
	// not validated (assertions may still constrain the trace).
	Expect *ExpectClause `yaml:"expect,omitempty"`

	// Assertions validate the per-stage trace.
	// Supported types: trace_count, trace_order, layer_failed.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// PipelineDef describes the pipeline under test.
type PipelineDef struct {
	Name   string     `yaml:"name"`
	Stages []StageDef `yaml:"stages"`
}

// StageDef describes one stage. Factor is a pointer so "factor: 0" and
// "no factor" are distinguishable.
type StageDef struct {
	Kind   string   `yaml:"kind"`
	Factor *float64 `yaml:"factor,omitempty"`
}

// ValueDef describes a flame value in YAML form. Exactly the fields for
// the named kind are consulted; the rest are ignored.
type ValueDef struct {
	Kind    string    `yaml:"kind"`
	Value   any       `yaml:"value,omitempty"`   // integer, boolean, bounded
	Elems   []float64 `yaml:"elems,omitempty"`   // vector
	Radians float64   `yaml:"radians,omitempty"` // angle
	Min     float64   `yaml:"min,omitempty"`     // bounded
	Max     float64   `yaml:"max,omitempty"`     // bounded
}

// ExpectClause specifies the expected run outcome.
// Set exactly one of Value or ErrorKind.
type ExpectClause struct {
	// Value is the expected final value (structural equality).
	Value *ValueDef `yaml:"value,omitempty"`

	// ErrorKind is the expected failure kind, e.g. "BOUND_ERROR".
	ErrorKind string `yaml:"error_kind,omitempty"`
}

// Assertion validates the trace after execution.
type Assertion struct {
	// Type selects the assertion: trace_count, trace_order, layer_failed.
	Type string `yaml:"type"`

	// Count is the expected number of trace events (trace_count).
	Count int `yaml:"count,omitempty"`

	// Layers lists layer names expected in order, not necessarily
	// consecutive (trace_order).
	Layers []string `yaml:"layers,omitempty"`

	// Layer and Index identify the stage expected to have failed
	// (layer_failed).
	Layer string `yaml:"layer,omitempty"`
	Index int    `yaml:"index,omitempty"`
}

// Supported assertion types.
const (
	AssertTraceCount  = "trace_count"
	AssertTraceOrder  = "trace_order"
	AssertLayerFailed = "layer_failed"
)

// LoadScenario parses a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	return &s, nil
}

// LoadScenarioDir loads every *.yaml scenario in a directory, sorted by
// file name for deterministic execution order.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("scan scenarios: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}
	sort.Strings(matches)

	scenarios := make([]*Scenario, 0, len(matches))
	for _, path := range matches {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// toFlameType converts a ValueDef to a constructed value.
// Construction invariants apply: angles normalize, bounded validates.
func (v ValueDef) toFlameType() (ir.FlameType, error) {
	switch v.Kind {
	case ir.KindInteger:
		n, err := toInt64(v.Value)
		if err != nil {
			return nil, fmt.Errorf("integer value: %w", err)
		}
		return ir.Integer(n), nil

	case ir.KindBoolean:
		b, ok := v.Value.(bool)
		if !ok {
			return nil, fmt.Errorf("boolean value: got %T", v.Value)
		}
		return ir.Boolean(b), nil

	case ir.KindVector:
		return ir.Vector(v.Elems), nil

	case ir.KindAngle:
		return ir.NewAngle(v.Radians), nil

	case ir.KindBounded:
		val, err := toFloat64(v.Value)
		if err != nil {
			return nil, fmt.Errorf("bounded value: %w", err)
		}
		b, err := ir.NewBounded(val, v.Min, v.Max)
		if err != nil {
			return nil, err
		}
		return b, nil

	default:
		return nil, fmt.Errorf("unknown value kind %q", v.Kind)
	}
}

// toSpec converts a PipelineDef to an IR spec.
func (p PipelineDef) toSpec() ir.PipelineSpec {
	spec := ir.PipelineSpec{Name: p.Name}
	for _, s := range p.Stages {
		stage := ir.StageSpec{Kind: s.Kind}
		if s.Factor != nil {
			stage.Factor = *s.Factor
		}
		spec.Stages = append(spec.Stages, stage)
	}
	return spec
}

// toInt64 converts the loosely-typed YAML scalar to int64.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

// toFloat64 converts the loosely-typed YAML scalar to float64.
func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}
