// Package engine implements the flame transformation pipeline.
//
// The pipeline is the heart of the compiler scaffold - an ordered sequence
// of named transform stages executed as a left fold over one seed value,
// with fail-fast short-circuiting.
//
// ARCHITECTURE:
//
// Sequential, synchronous execution:
// Each Execute call walks the stage list in insertion order in the calling
// goroutine. This ensures:
//   - Predictable stage evaluation order
//   - Reproducible traces for the same seed
//   - Simple reasoning about where a failure originated
//
// Execution flow:
//  1. current = seed
//  2. For each stage, in insertion order:
//     a. ValidateBounds() - a false result aborts with a BOUND_ERROR naming
//     the stage and its index, before Apply is ever called
//     b. Apply(current) - an error aborts immediately and propagates
//     unchanged; later stages are never invoked
//     c. current = stage output
//  3. The final value is returned as success
//
// Execution never mutates the stage list: a pipeline is re-executable, and
// two runs with the same seed produce identical results. There is no retry
// anywhere - every stage is a deterministic pure function, so retrying
// without changing the input is pointless.
//
// Stage instances are exclusively owned by their pipeline. The reference
// transforms (Identity, Scale) are stateless after construction; stateful
// stages, if ever added, must document their own mutation discipline.
package engine
