package compiler

import (
	"fmt"

	"github.com/flamelang/flamec/internal/engine"
	"github.com/flamelang/flamec/internal/ir"
)

// Build instantiates an executable pipeline from a validated spec.
//
// The spec is validated first; the first validation error aborts the build.
// Stage instances are freshly constructed per call, so two built pipelines
// never share transforms.
func Build(spec *ir.PipelineSpec, opts ...engine.Option) (*engine.Pipeline, error) {
	if errs := Validate(spec); len(errs) > 0 {
		return nil, errs[0]
	}

	p := engine.New(spec.Name, opts...)
	for _, stage := range spec.Stages {
		switch stage.Kind {
		case ir.StageIdentity:
			p.AddLayer(engine.Identity{})
		case ir.StageScale:
			p.AddLayer(engine.Scale{Factor: stage.Factor})
		default:
			// Unreachable after Validate; kept as a guard for new kinds.
			return nil, fmt.Errorf("unhandled stage kind %q", stage.Kind)
		}
	}
	return p, nil
}
