package testutil

// FixedRunTokenGenerator returns the same run token every time.
//
// Unlike engine.FixedGenerator, which hands out a finite sequence of tokens,
// this generator never exhausts - useful for scenarios where every execution
// should be recorded under one known token for golden comparison.
//
// Thread-safety: stateless, safe for concurrent use.
type FixedRunTokenGenerator struct {
	token string
}

// NewFixedRunTokenGenerator creates a fixed run token generator.
//
// The token is typically set in the scenario YAML:
//
//	run_token: "test-run-00000000-0000-0000-0000-000000000001"
//
// If token is empty, Generate() returns "test-run-default".
func NewFixedRunTokenGenerator(token string) *FixedRunTokenGenerator {
	if token == "" {
		token = "test-run-default"
	}
	return &FixedRunTokenGenerator{token: token}
}

// Generate returns the fixed run token.
// Implements engine.RunTokenGenerator.
func (g *FixedRunTokenGenerator) Generate() string {
	return g.token
}
