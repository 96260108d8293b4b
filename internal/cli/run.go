package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/flamelang/flamec/internal/compiler"
	"github.com/flamelang/flamec/internal/engine"
	"github.com/flamelang/flamec/internal/ir"
	"github.com/flamelang/flamec/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Pipeline string
	Database string

	// TokenGenerator allows overriding the run token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	TokenGenerator engine.RunTokenGenerator
}

// RunOutput is the reported outcome of one pipeline execution.
type RunOutput struct {
	Token        string          `json:"token,omitempty"` // set when recorded
	Pipeline     string          `json:"pipeline"`
	SpecHash     string          `json:"spec_hash"`
	Status       string          `json:"status"`
	Result       ir.FlameType    `json:"result,omitempty"`
	ErrorKind    string          `json:"error_kind,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Trace        []ir.TraceEvent `json:"trace"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <specs-dir>",
		Short: "Execute a compiled pipeline over its seed",
		Long: `Execute a pipeline definition over the seed declared in its spec.

Stages run in order and abort on the first failure. With --db, the run and
its per-stage trace are recorded to a SQLite run log under a fresh run
token, for later replay and trace queries.

Examples:
  flamec run ./specs --pipeline doubler
  flamec run ./specs --pipeline doubler --db ./runs.db
  flamec run ./specs --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Pipeline, "pipeline", "", "pipeline name (required when the specs define more than one)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run log (optional)")

	return cmd
}

func runPipeline(opts *RunOptions, specsDir string, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	loadResult, loadErrors := LoadPipelines(specsDir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return WrapExitError(ExitCommandError, "failed to compile specs", loadErrors[0])
	}

	selected, err := selectPipeline(loadResult.Pipelines, opts.Pipeline)
	if err != nil {
		return WrapExitError(ExitCommandError, "pipeline selection", err)
	}
	if selected.Seed == nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("pipeline %s declares no seed", selected.Spec.Name))
	}

	pipeline, err := compiler.Build(&selected.Spec, engine.WithLogger(logger))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build pipeline", err)
	}

	specHash, err := ir.SpecHash(selected.Spec)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to hash spec", err)
	}

	logger.Debug("executing pipeline", "pipeline", pipeline.Name(), "layers", pipeline.LayerCount())
	runRes := pipeline.Run(selected.Seed)

	output := RunOutput{
		Pipeline: pipeline.Name(),
		SpecHash: specHash,
		Status:   runRes.Status(),
		Result:   runRes.Value,
		Trace:    runRes.Trace,
	}
	if runRes.Err != nil {
		if kind, ok := ir.ErrorKindOf(runRes.Err); ok {
			output.ErrorKind = string(kind)
		}
		output.ErrorMessage = runRes.Err.Error()
	}

	if opts.Database != "" {
		token, err := recordRun(opts, selected, specHash, pipeline.LayerCount(), runRes)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		output.Token = token
		logger.Info("run recorded", "token", token, "db", opts.Database)
	}

	return outputRun(cmd, opts, output)
}

// selectPipeline picks the pipeline to execute from the loaded set.
func selectPipeline(pipelines []LoadedPipeline, name string) (LoadedPipeline, error) {
	if name == "" {
		if len(pipelines) == 1 {
			return pipelines[0], nil
		}
		return LoadedPipeline{}, fmt.Errorf("specs define %d pipelines, use --pipeline to pick one", len(pipelines))
	}
	for _, p := range pipelines {
		if p.Spec.Name == name {
			return p, nil
		}
	}
	return LoadedPipeline{}, fmt.Errorf("pipeline %q not found in specs", name)
}

// recordRun writes the run and its trace to the run log.
// The seq continues from the log's current maximum, so tokens and seqs
// stay monotonic across CLI invocations.
func recordRun(opts *RunOptions, selected LoadedPipeline, specHash string, layerCount int, runRes *engine.RunResult) (string, error) {
	ctx := context.Background()

	st, err := store.Open(opts.Database)
	if err != nil {
		return "", err
	}
	defer st.Close()

	maxSeq, err := st.MaxSeq(ctx)
	if err != nil {
		return "", err
	}
	clock := engine.NewClockAt(maxSeq)

	tokenGen := opts.TokenGenerator
	if tokenGen == nil {
		tokenGen = engine.UUIDv7Generator{}
	}

	record := ir.RunRecord{
		Token:         tokenGen.Generate(),
		Pipeline:      selected.Spec.Name,
		SpecHash:      specHash,
		Seed:          selected.Seed,
		Result:        runRes.Value,
		Status:        runRes.Status(),
		LayerCount:    layerCount,
		Seq:           clock.Next(),
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
	if runRes.Err != nil {
		if kind, ok := ir.ErrorKindOf(runRes.Err); ok {
			record.ErrorKind = string(kind)
		}
		record.ErrorMessage = runRes.Err.Error()
	}

	if _, err := st.WriteRunAtomic(ctx, record, selected.Spec, runRes.Trace); err != nil {
		return "", err
	}
	return record.Token, nil
}

// outputRun prints the run outcome. A failed run exits 1.
func outputRun(cmd *cobra.Command, opts *RunOptions, output RunOutput) error {
	w := cmd.OutOrStdout()

	if opts.Format == "json" {
		response := CLIResponse{Status: "ok", Data: output}
		if output.Status == ir.RunFailed {
			response.Status = "error"
			response.Error = &CLIError{Code: output.ErrorKind, Message: output.ErrorMessage}
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		if output.Status == ir.RunFailed {
			return NewExitError(ExitFailure, output.ErrorMessage)
		}
		return nil
	}

	if output.Status == ir.RunFailed {
		fmt.Fprintf(w, "✗ %s failed at stage %d: %s\n", output.Pipeline, failedIndex(output.Trace), output.ErrorMessage)
		return NewExitError(ExitFailure, output.ErrorMessage)
	}

	fmt.Fprintf(w, "✓ %s: %v\n", output.Pipeline, output.Result)
	if opts.Verbose {
		for _, ev := range output.Trace {
			fmt.Fprintf(w, "  [%d] %s: %v -> %v\n", ev.Index, ev.Layer, ev.Input, ev.Output)
		}
	}
	if output.Token != "" {
		fmt.Fprintf(w, "Recorded as run %s\n", output.Token)
	}
	return nil
}

// failedIndex returns the index of the failing trace event, or -1.
func failedIndex(trace []ir.TraceEvent) int {
	for _, ev := range trace {
		if ev.ErrorKind != "" {
			return ev.Index
		}
	}
	return -1
}
