// Package compiler turns CUE pipeline definitions into canonical IR specs
// and instantiates executable pipelines from them.
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/flamelang/flamec/internal/ir"
)

// CompilePipeline parses a CUE value into a PipelineSpec.
// Uses the CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the pipeline struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`pipeline: demo: { stages: [...] }`)
//	spec, err := CompilePipeline(v.LookupPath(cue.ParsePath("pipeline.demo")))
func CompilePipeline(v cue.Value) (*ir.PipelineSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.PipelineSpec{}

	// Pipeline name from the struct label (the path selector)
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}

	// An explicit name field overrides the label
	nameVal := v.LookupPath(cue.ParsePath("name"))
	if nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		spec.Name = name
	}

	stagesVal := v.LookupPath(cue.ParsePath("stages"))
	if !stagesVal.Exists() {
		return nil, &CompileError{
			Field:   "stages",
			Message: "stages list is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := stagesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		stage, err := parseStage(iter.Value())
		if err != nil {
			return nil, err
		}
		spec.Stages = append(spec.Stages, stage)
	}

	return spec, nil
}

// parseStage parses one stage struct: {kind: "identity"} or
// {kind: "scale", factor: <number>}.
func parseStage(v cue.Value) (ir.StageSpec, error) {
	var stage ir.StageSpec

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return stage, &CompileError{
			Field:   "kind",
			Message: "stage kind is required",
			Pos:     v.Pos(),
		}
	}
	kind, err := kindVal.String()
	if err != nil {
		return stage, formatCUEError(err)
	}
	stage.Kind = kind

	factorVal := v.LookupPath(cue.ParsePath("factor"))
	if kind == ir.StageScale {
		if !factorVal.Exists() {
			return stage, &CompileError{
				Field:   "factor",
				Message: "scale stage requires a factor",
				Pos:     v.Pos(),
			}
		}
		f, err := factorVal.Float64()
		if err != nil {
			return stage, formatCUEError(err)
		}
		stage.Factor = f
	} else if factorVal.Exists() {
		return stage, &CompileError{
			Field:   "factor",
			Message: fmt.Sprintf("%s stage does not take a factor", kind),
			Pos:     v.Pos(),
		}
	}

	return stage, nil
}

// CompileSeed parses a CUE value into a FlameType seed.
//
// Construction invariants apply at compile time: angle seeds are normalized
// and bounded seeds are validated, so an out-of-range bounded seed fails
// here with a BOUND_ERROR rather than producing an invalid live value.
func CompileSeed(v cue.Value) (ir.FlameType, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return nil, &CompileError{
			Field:   "kind",
			Message: "seed kind is required",
			Pos:     v.Pos(),
		}
	}
	kind, err := kindVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}

	switch kind {
	case ir.KindInteger:
		n, err := v.LookupPath(cue.ParsePath("value")).Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.Integer(n), nil

	case ir.KindBoolean:
		b, err := v.LookupPath(cue.ParsePath("value")).Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.Boolean(b), nil

	case ir.KindVector:
		iter, err := v.LookupPath(cue.ParsePath("elems")).List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		vec := ir.Vector{}
		for iter.Next() {
			x, err := iter.Value().Float64()
			if err != nil {
				return nil, formatCUEError(err)
			}
			vec = append(vec, x)
		}
		return vec, nil

	case ir.KindAngle:
		r, err := v.LookupPath(cue.ParsePath("radians")).Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.NewAngle(r), nil

	case ir.KindBounded:
		value, err := v.LookupPath(cue.ParsePath("value")).Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		min, err := v.LookupPath(cue.ParsePath("min")).Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		max, err := v.LookupPath(cue.ParsePath("max")).Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		b, err := ir.NewBounded(value, min, max)
		if err != nil {
			return nil, err
		}
		return b, nil

	default:
		return nil, &CompileError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown seed kind %q", kind),
			Pos:     v.Pos(),
		}
	}
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
