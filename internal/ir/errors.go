package ir

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes failures by the compiler layer that raised them.
// The taxonomy is deliberately flat: one kind per originating layer.
type ErrorKind string

const (
	// ErrKindLex indicates a lexical error (linguistic layer).
	ErrKindLex ErrorKind = "LEX_ERROR"

	// ErrKindParse indicates a parse error (linguistic layer).
	ErrKindParse ErrorKind = "PARSE_ERROR"

	// ErrKindType indicates a type inference error (numeric layer).
	ErrKindType ErrorKind = "TYPE_ERROR"

	// ErrKindBound indicates a bound violation: out-of-range construction,
	// a failed pre-flight check, or a stage re-validation failure.
	ErrKindBound ErrorKind = "BOUND_ERROR"

	// ErrKindCodegen indicates a code generation error (symbolic layer).
	ErrKindCodegen ErrorKind = "CODEGEN_ERROR"
)

// FlameError is the single error type for the value model and pipeline engine.
//
// When the failure occurred inside a pipeline run, Layer and Index identify
// the failing stage. Errors raised by value construction leave them unset
// (Index is -1 when not applicable).
type FlameError struct {
	// Kind identifies the error category.
	Kind ErrorKind

	// Message is a human-readable description of the violated constraint.
	Message string

	// Layer names the failing pipeline stage, if any.
	Layer string

	// Index is the failing stage's 0-based position; -1 when not applicable.
	Index int
}

// Error implements the error interface.
func (e *FlameError) Error() string {
	if e.Layer != "" {
		return fmt.Sprintf("%s: %s (layer %d: %s)", e.Kind, e.Message, e.Index, e.Layer)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewLexError creates a FlameError for the linguistic lexing layer.
func NewLexError(msg string) *FlameError {
	return &FlameError{Kind: ErrKindLex, Message: msg, Index: -1}
}

// NewParseError creates a FlameError for the linguistic parsing layer.
func NewParseError(msg string) *FlameError {
	return &FlameError{Kind: ErrKindParse, Message: msg, Index: -1}
}

// NewTypeError creates a FlameError for the numeric type-inference layer.
func NewTypeError(msg string) *FlameError {
	return &FlameError{Kind: ErrKindType, Message: msg, Index: -1}
}

// NewBoundError creates a FlameError for a bound violation.
func NewBoundError(msg string) *FlameError {
	return &FlameError{Kind: ErrKindBound, Message: msg, Index: -1}
}

// NewCodegenError creates a FlameError for the symbolic codegen layer.
func NewCodegenError(msg string) *FlameError {
	return &FlameError{Kind: ErrKindCodegen, Message: msg, Index: -1}
}

// ErrorKindOf extracts the kind from an error.
// Returns false if the error is not a FlameError.
// Uses errors.As to handle wrapped errors.
func ErrorKindOf(err error) (ErrorKind, bool) {
	var fe *FlameError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}

// IsBoundError returns true if the error is a bound violation.
// Uses errors.As to handle wrapped errors.
func IsBoundError(err error) bool {
	kind, ok := ErrorKindOf(err)
	return ok && kind == ErrKindBound
}

// IsTypeError returns true if the error is a type error.
// Uses errors.As to handle wrapped errors.
func IsTypeError(err error) bool {
	kind, ok := ErrorKindOf(err)
	return ok && kind == ErrKindType
}
