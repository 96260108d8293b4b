package harness

import (
	"fmt"
	"strings"

	"github.com/flamelang/flamec/internal/ir"
)

// AssertionError is returned when a trace assertion fails.
// It includes the full trace so a failing scenario is debuggable from the
// message alone.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []ir.TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		if ev.ErrorKind != "" {
			fmt.Fprintf(&buf, "  [%d] %s FAILED: %s\n", ev.Index, ev.Layer, ev.ErrorMessage)
			continue
		}
		fmt.Fprintf(&buf, "  [%d] %s\n", ev.Index, ev.Layer)
	}

	return buf.String()
}

// evaluateAssertion dispatches one assertion against the trace.
func evaluateAssertion(trace []ir.TraceEvent, assertion Assertion) error {
	switch assertion.Type {
	case AssertTraceCount:
		return assertTraceCount(trace, assertion)
	case AssertTraceOrder:
		return assertTraceOrder(trace, assertion)
	case AssertLayerFailed:
		return assertLayerFailed(trace, assertion)
	default:
		return fmt.Errorf("unknown assertion type %q", assertion.Type)
	}
}

// assertTraceCount checks the trace holds exactly Count events.
func assertTraceCount(trace []ir.TraceEvent, assertion Assertion) error {
	if len(trace) == assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceCount,
		Expected: fmt.Sprintf("%d trace events", assertion.Count),
		Actual:   fmt.Sprintf("%d trace events", len(trace)),
		Trace:    trace,
	}
}

// assertTraceOrder checks layer names appear in the given order.
// Layers need not be consecutive; intervening stages are allowed.
func assertTraceOrder(trace []ir.TraceEvent, assertion Assertion) error {
	next := 0
	for _, ev := range trace {
		if next < len(assertion.Layers) && ev.Layer == assertion.Layers[next] {
			next++
		}
	}
	if next == len(assertion.Layers) {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: fmt.Sprintf("layers in order: %v", assertion.Layers),
		Actual:   fmt.Sprintf("missing %q (matched %d of %d)", assertion.Layers[next], next, len(assertion.Layers)),
		Trace:    trace,
	}
}

// assertLayerFailed checks that the stage at Index is named Layer and
// carries an error - i.e. the run failed exactly there.
func assertLayerFailed(trace []ir.TraceEvent, assertion Assertion) error {
	for _, ev := range trace {
		if ev.Index != assertion.Index {
			continue
		}
		if ev.Layer != assertion.Layer {
			return &AssertionError{
				Type:     AssertLayerFailed,
				Expected: fmt.Sprintf("layer %q at index %d", assertion.Layer, assertion.Index),
				Actual:   fmt.Sprintf("layer %q at index %d", ev.Layer, ev.Index),
				Trace:    trace,
			}
		}
		if ev.ErrorKind == "" {
			return &AssertionError{
				Type:     AssertLayerFailed,
				Expected: fmt.Sprintf("layer %q failed", assertion.Layer),
				Actual:   "layer succeeded",
				Trace:    trace,
			}
		}
		return nil
	}
	return &AssertionError{
		Type:     AssertLayerFailed,
		Expected: fmt.Sprintf("a trace event at index %d", assertion.Index),
		Actual:   fmt.Sprintf("trace has %d events", len(trace)),
		Trace:    trace,
	}
}
