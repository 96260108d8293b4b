package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlameIRCounts(t *testing.T) {
	f := NewFlameIR()
	assert.Equal(t, 0, f.DeclarationCount())
	assert.Equal(t, 0, f.ExpressionCount())

	f.AddDeclaration("let x = 5")
	f.AddExpression("x + 10")
	f.AddExpression("x * 2")
	f.AddType(Integer(5))

	assert.Equal(t, 1, f.DeclarationCount())
	assert.Equal(t, 2, f.ExpressionCount())
}

func TestFlameIRLogsAreIndependent(t *testing.T) {
	f := NewFlameIR()
	for i := 0; i < 5; i++ {
		f.AddDeclaration("decl")
	}
	// Appending to one log never affects the others.
	assert.Equal(t, 5, f.DeclarationCount())
	assert.Equal(t, 0, f.ExpressionCount())
}

func TestFlameIRNormalizesText(t *testing.T) {
	f := NewFlameIR()
	// "é" as combining sequence (U+0065 U+0301) vs precomposed (U+00E9):
	// both must land as the same NFC form.
	f.AddDeclaration("let é = 1")
	f.AddDeclaration("let é = 1")
	assert.Equal(t, f.declarations[0], f.declarations[1])
}
