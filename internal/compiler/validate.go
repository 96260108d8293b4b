package compiler

import (
	"fmt"
	"math"

	"github.com/flamelang/flamec/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation
	ErrPipelineNameEmpty = "E101" // pipeline name is required
	ErrUnknownStageKind  = "E102" // stage kind not in ir.ValidStageKinds
	ErrFactorNotFinite   = "E103" // scale factor is NaN or infinite
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates a compiled pipeline spec against schema rules.
// Returns all errors found (does not fail-fast).
func Validate(v any) []ValidationError {
	switch spec := v.(type) {
	case *ir.PipelineSpec:
		return validatePipelineSpec(spec)
	case ir.PipelineSpec:
		return validatePipelineSpec(&spec)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

func validatePipelineSpec(spec *ir.PipelineSpec) []ValidationError {
	var errs []ValidationError

	if spec.Name == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "pipeline name is required",
			Code:    ErrPipelineNameEmpty,
		})
	}

	// An empty stage list is valid: pipelines are created empty and grown.
	for i, stage := range spec.Stages {
		field := fmt.Sprintf("stages[%d]", i)
		if !ir.ValidStageKinds[stage.Kind] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("unknown stage kind %q", stage.Kind),
				Code:    ErrUnknownStageKind,
			})
			continue
		}
		if stage.Kind == ir.StageScale {
			if math.IsNaN(stage.Factor) || math.IsInf(stage.Factor, 0) {
				errs = append(errs, ValidationError{
					Field:   field + ".factor",
					Message: fmt.Sprintf("scale factor must be finite, got %v", stage.Factor),
					Code:    ErrFactorNotFinite,
				})
			}
		}
	}

	return errs
}
