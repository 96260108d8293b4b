package ir

import "golang.org/x/text/unicode/norm"

// FlameIR accumulates front-end output destined for the pipeline: source
// declarations, expressions, and accepted types, in three independent
// ordered logs.
//
// The container is purely additive - no operation removes entries - and
// exposes only appends and counts. The backing logs are never handed out,
// so external code cannot desynchronize them or depend on their shape.
type FlameIR struct {
	declarations []string
	expressions  []string
	types        []FlameType
}

// NewFlameIR creates an empty accumulator.
func NewFlameIR() *FlameIR {
	return &FlameIR{}
}

// AddDeclaration appends a declaration. The text is NFC-normalized so later
// comparisons are stable across source encodings.
func (f *FlameIR) AddDeclaration(decl string) {
	f.declarations = append(f.declarations, norm.NFC.String(decl))
}

// AddExpression appends an expression. The text is NFC-normalized.
func (f *FlameIR) AddExpression(expr string) {
	f.expressions = append(f.expressions, norm.NFC.String(expr))
}

// AddType appends an accepted type.
func (f *FlameIR) AddType(t FlameType) {
	f.types = append(f.types, t)
}

// DeclarationCount returns the number of recorded declarations.
func (f *FlameIR) DeclarationCount() int {
	return len(f.declarations)
}

// ExpressionCount returns the number of recorded expressions.
func (f *FlameIR) ExpressionCount() int {
	return len(f.expressions)
}
