package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/flamelang/flamec/internal/ir"
)

// Pipeline is an ordered, owned sequence of transform stages plus a
// display name.
//
// Lifecycle: created empty, grown by AddLayer (append order is execution
// order - no reordering or removal), executed zero or more times, discarded
// by the caller. Execution never touches the stage list, so a pipeline is
// freely re-executable. Stages are exclusively owned: no two pipelines
// share a transform instance.
type Pipeline struct {
	name   string
	layers []Transform
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for per-stage diagnostics.
// The default discards all output - diagnostic presentation is the caller's
// concern, not part of the engine contract.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty pipeline with the given display name.
func New(name string, opts ...Option) *Pipeline {
	p := &Pipeline{
		name:   name,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the pipeline's display name.
func (p *Pipeline) Name() string { return p.name }

// AddLayer appends a transform stage. The pipeline takes exclusive
// ownership of the instance.
func (p *Pipeline) AddLayer(t Transform) {
	p.layers = append(p.layers, t)
}

// LayerCount returns the current number of stages. Size query only.
func (p *Pipeline) LayerCount() int {
	return len(p.layers)
}

// Execute runs the pipeline over one seed value.
//
// Stages run strictly in insertion order. On the first failure the whole
// run aborts: a failed pre-flight check yields a BOUND_ERROR naming the
// stage and its index, and an Apply error propagates unchanged - the engine
// never wraps, retries, or substitutes a default. Later stages are never
// invoked after a failure.
func (p *Pipeline) Execute(seed ir.FlameType) (ir.FlameType, error) {
	return p.run(seed, nil)
}

// RunResult is the outcome of Run: the final value (or error) plus the
// ordered per-stage trace.
type RunResult struct {
	Value ir.FlameType
	Err   error
	Trace []ir.TraceEvent
}

// Status returns ir.RunSucceeded or ir.RunFailed.
func (r *RunResult) Status() string {
	if r.Err != nil {
		return ir.RunFailed
	}
	return ir.RunSucceeded
}

// Run executes the pipeline like Execute, additionally capturing a trace
// event per attempted stage. On failure the last trace event carries the
// error; stages after the failure do not appear in the trace.
func (p *Pipeline) Run(seed ir.FlameType) *RunResult {
	res := &RunResult{Trace: make([]ir.TraceEvent, 0, len(p.layers))}
	res.Value, res.Err = p.run(seed, &res.Trace)
	return res
}

// run is the single fail-fast left fold behind Execute and Run.
// trace, when non-nil, receives one event per attempted stage.
func (p *Pipeline) run(seed ir.FlameType, trace *[]ir.TraceEvent) (ir.FlameType, error) {
	current := seed
	for idx, layer := range p.layers {
		p.logger.Debug("applying layer", "pipeline", p.name, "index", idx, "layer", layer.Name())

		if !layer.ValidateBounds() {
			err := &ir.FlameError{
				Kind:    ir.ErrKindBound,
				Message: fmt.Sprintf("layer %s failed bound validation", layer.Name()),
				Layer:   layer.Name(),
				Index:   idx,
			}
			recordTrace(trace, idx, layer.Name(), current, nil, err)
			return nil, err
		}

		next, err := layer.Apply(current)
		if err != nil {
			recordTrace(trace, idx, layer.Name(), current, nil, err)
			return nil, err
		}

		recordTrace(trace, idx, layer.Name(), current, next, nil)
		current = next
	}
	return current, nil
}

func recordTrace(trace *[]ir.TraceEvent, idx int, layer string, input, output ir.FlameType, err error) {
	if trace == nil {
		return
	}
	ev := ir.TraceEvent{
		Index:  idx,
		Layer:  layer,
		Input:  input,
		Output: output,
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
		var fe *ir.FlameError
		if errors.As(err, &fe) {
			ev.ErrorKind = string(fe.Kind)
			ev.ErrorMessage = fe.Message
		}
	}
	*trace = append(*trace, ev)
}
