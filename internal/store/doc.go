// Package store provides durable storage for flame pipeline run logs.
//
// Every recorded run consists of one RunRecord plus its ordered TraceEvents,
// written atomically in a single transaction: a crash mid-write leaves either
// the whole run or nothing.
//
// Values are stored as tagged JSON TEXT (see ir.MarshalValue) and routed back
// through the value constructors on read, so a decoded Bounded or Angle
// satisfies the same invariants as a freshly constructed one.
//
// The store is a CLI-side provenance log: the pipeline engine itself has no
// persistence in its contract and never imports this package.
package store
