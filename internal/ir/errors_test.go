package ir

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlameErrorMessage(t *testing.T) {
	err := NewBoundError("value 15 not in range [0, 10]")
	assert.Equal(t, "BOUND_ERROR: value 15 not in range [0, 10]", err.Error())
}

func TestFlameErrorMessageWithLayer(t *testing.T) {
	err := &FlameError{
		Kind:    ErrKindBound,
		Message: "failed bound validation",
		Layer:   "Scale",
		Index:   2,
	}
	assert.Equal(t, "BOUND_ERROR: failed bound validation (layer 2: Scale)", err.Error())
}

func TestErrorKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
		ok   bool
	}{
		{"lex", NewLexError("bad token"), ErrKindLex, true},
		{"parse", NewParseError("unexpected eof"), ErrKindParse, true},
		{"type", NewTypeError("mismatch"), ErrKindType, true},
		{"bound", NewBoundError("out of range"), ErrKindBound, true},
		{"codegen", NewCodegenError("no target"), ErrKindCodegen, true},
		{"wrapped", fmt.Errorf("run failed: %w", NewBoundError("out of range")), ErrKindBound, true},
		{"foreign", fmt.Errorf("plain error"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := ErrorKindOf(tt.err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestIsBoundError(t *testing.T) {
	assert.True(t, IsBoundError(NewBoundError("x")))
	assert.True(t, IsBoundError(fmt.Errorf("wrapped: %w", NewBoundError("x"))))
	assert.False(t, IsBoundError(NewTypeError("x")))
	assert.False(t, IsBoundError(fmt.Errorf("plain")))
}
