// Package harness provides a conformance testing framework for the flame
// pipeline engine.
//
// Scenarios are YAML documents describing a pipeline, a seed value, the
// expected outcome, and assertions over the per-stage trace. Each scenario
// runs against a freshly built pipeline and a fresh in-memory run log, with
// a deterministic clock and a fixed run token, so the same scenario always
// produces a byte-identical trace.
//
// Golden trace snapshots (testdata/golden) pin the exact trace shape; run
// the harness tests with -update to regenerate them after an intentional
// behavior change.
package harness
