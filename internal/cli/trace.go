package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flamelang/flamec/internal/ir"
	"github.com/flamelang/flamec/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunToken string
}

// TraceResult holds the complete trace output for one run.
type TraceResult struct {
	Run   ir.RunRecord    `json:"run"`
	Spec  ir.PipelineSpec `json:"spec"`
	Trace []ir.TraceEvent `json:"trace"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the recorded trace for a run",
		Long: `Show the per-stage trace recorded for a run.

Prints the run summary followed by the stage timeline: each stage's input,
output, and failure if the run aborted there.

Examples:
  flamec trace --db ./runs.db --run 01890a5d-ac96-774b-bcce-b302099a8057
  flamec trace --db ./runs.db --run <token> --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run log (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunToken, "run", "", "run token to trace (required)")
	_ = cmd.MarkFlagRequired("run")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	record, spec, err := st.ReadRun(ctx, opts.RunToken)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			return NewExitError(ExitCommandError, fmt.Sprintf("run %s not found", opts.RunToken))
		}
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	trace, err := st.ReadTrace(ctx, opts.RunToken)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read trace", err)
	}

	result := TraceResult{Run: record, Spec: spec, Trace: trace}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: result})
	}

	return outputTraceText(cmd, result, opts.Verbose)
}

// outputTraceText prints the run summary and stage timeline.
func outputTraceText(cmd *cobra.Command, result TraceResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Run: %s\n", result.Run.Token)
	fmt.Fprintf(w, "  Pipeline: %s (%d layers)\n", result.Run.Pipeline, result.Run.LayerCount)
	fmt.Fprintf(w, "  Status: %s\n", result.Run.Status)
	fmt.Fprintf(w, "  Seed: %v\n", result.Run.Seed)
	if result.Run.Status == ir.RunSucceeded {
		fmt.Fprintf(w, "  Result: %v\n", result.Run.Result)
	} else {
		fmt.Fprintf(w, "  Error: %s: %s\n", result.Run.ErrorKind, result.Run.ErrorMessage)
	}
	if verbose {
		fmt.Fprintf(w, "  Spec hash: %s\n", result.Run.SpecHash)
		fmt.Fprintf(w, "  Seq: %d\n", result.Run.Seq)
		fmt.Fprintf(w, "  Engine: %s, IR: %s\n", result.Run.EngineVersion, result.Run.IRVersion)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Timeline:")
	for _, ev := range result.Trace {
		if ev.ErrorKind != "" {
			fmt.Fprintf(w, "  [%d] %s: %v → %s: %s\n", ev.Index, ev.Layer, ev.Input, ev.ErrorKind, ev.ErrorMessage)
			continue
		}
		fmt.Fprintf(w, "  [%d] %s: %v → %v\n", ev.Index, ev.Layer, ev.Input, ev.Output)
	}

	return nil
}
