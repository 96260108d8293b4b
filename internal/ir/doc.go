// Package ir provides the flame value model: the closed set of typed values
// the pipeline engine manipulates, the flat compilation error taxonomy, and
// the append-only FlameIR accumulator.
//
// This package contains value and type definitions only. All other internal
// packages import ir; ir imports nothing internal. This ensures the value
// model remains the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Every constructed value satisfies its declared invariant: an Angle is
//     always in [0, 2π), a Bounded always lies within its bounds.
//   - Values are immutable - transforms produce new values, never mutate.
//   - Error kinds are flat (one per originating layer), no cause chains.
//   - All JSON tags use snake_case.
package ir
