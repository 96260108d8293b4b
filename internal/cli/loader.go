package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/flamelang/flamec/internal/compiler"
	"github.com/flamelang/flamec/internal/ir"
)

// LoadMode controls how errors are handled during pipeline loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadedPipeline is one compiled pipeline from a spec directory, with its
// optional seed value.
type LoadedPipeline struct {
	Spec ir.PipelineSpec
	Seed ir.FlameType // nil when the pipeline declares no seed
}

// LoadResult contains the results of loading pipelines from a directory.
type LoadResult struct {
	Pipelines []LoadedPipeline
	CUEValue  cue.Value
	FileCount int
}

// LoadError represents an error that occurred during pipeline loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadPipelines loads and compiles CUE pipeline definitions from a directory.
//
// Pipelines are declared under a top-level "pipeline" struct, one field per
// pipeline:
//
//	pipeline: doubler: {
//	    stages: [{kind: "identity"}, {kind: "scale", factor: 2.0}]
//	    seed: {kind: "integer", value: 5}
//	}
func LoadPipelines(dir string, mode LoadMode) (*LoadResult, []error) {
	var errs []error

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	pipelinesVal := value.LookupPath(cue.ParsePath("pipeline"))
	if pipelinesVal.Exists() {
		iter, iterErr := pipelinesVal.Fields()
		if iterErr != nil {
			errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating pipelines: %v", iterErr)})
			return result, errs
		}
		for iter.Next() {
			pv := iter.Value()

			spec, compileErr := compiler.CompilePipeline(pv)
			if compileErr != nil {
				errs = append(errs, convertCompileError(compileErr, "pipeline."+iter.Label()))
				if mode == LoadModeFailFast {
					return result, errs
				}
				continue
			}

			loaded := LoadedPipeline{Spec: *spec}

			seedVal := pv.LookupPath(cue.ParsePath("seed"))
			if seedVal.Exists() {
				seed, seedErr := compiler.CompileSeed(seedVal)
				if seedErr != nil {
					errs = append(errs, convertCompileError(seedErr, "pipeline."+iter.Label()+".seed"))
					if mode == LoadModeFailFast {
						return result, errs
					}
					continue
				}
				loaded.Seed = seed
			}

			result.Pipelines = append(result.Pipelines, loaded)
		}
	}

	if len(result.Pipelines) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no pipelines found in specs"})
	}

	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	var flameErr *ir.FlameError
	if errors.As(err, &flameErr) {
		return &LoadError{
			Code:    ErrCodeBoundViolation,
			Message: flameErr.Error(),
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error

	// Pipeline compilation errors
	ErrCodeMissingStages  = "E101" // Missing stages list
	ErrCodeStageKind      = "E102" // Missing or invalid stage kind
	ErrCodeStageFactor    = "E103" // Missing or misplaced factor
	ErrCodeSeedKind       = "E104" // Missing or unknown seed kind
	ErrCodeBoundViolation = "E105" // Bounded seed out of range
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "stages":
		return ErrCodeMissingStages
	case "kind":
		return ErrCodeStageKind
	case "factor":
		return ErrCodeStageFactor
	default:
		return ErrCodeGeneric
	}
}
