package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/flamelang/flamec/internal/compiler"
	"github.com/flamelang/flamec/internal/ir"
	"github.com/flamelang/flamec/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunToken string // optional - specific run only
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	Token         string `json:"token"`
	Pipeline      string `json:"pipeline"`
	Status        string `json:"status"`
	LayerCount    int    `json:"layer_count"`
	Deterministic bool   `json:"deterministic"`
	Mismatch      string `json:"mismatch,omitempty"` // first difference found
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs             []ReplayRunResult `json:"runs"`
	TotalRuns        int               `json:"total_runs"`
	AllDeterministic bool              `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-execute recorded runs and verify determinism",
		Long: `Re-execute recorded runs from the run log and verify determinism.

Each recorded run carries its full pipeline spec and seed. Replay rebuilds
the pipeline from the stored spec, executes it over the stored seed, and
compares the fresh result and trace against what was recorded. Identical
inputs must produce identical outputs; any difference is reported.

Exit codes:
  0 - All runs replayed identically
  1 - Determinism verification failed (differences detected)
  2 - Command error (database not found, etc.)

Examples:
  flamec replay --db ./runs.db
  flamec replay --db ./runs.db --run 01890a5d-ac96-774b-bcce-b302099a8057
  flamec replay --db ./runs.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run log (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunToken, "run", "", "replay specific run only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var tokens []string
	if opts.RunToken != "" {
		tokens = []string{opts.RunToken}
	} else {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		for _, run := range runs {
			tokens = append(tokens, run.Token)
		}
	}

	if len(tokens) == 0 {
		if opts.Format == "json" {
			return outputReplayJSON(cmd, ReplayResult{
				Runs:             []ReplayRunResult{},
				AllDeterministic: true,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No runs found in database.")
		return nil
	}

	result := ReplayResult{
		Runs:             make([]ReplayRunResult, 0, len(tokens)),
		TotalRuns:        len(tokens),
		AllDeterministic: true,
	}

	for _, token := range tokens {
		runResult, err := replayRun(ctx, st, token)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", token), err)
		}
		result.Runs = append(result.Runs, runResult)
		if !runResult.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// replayRun rebuilds one recorded run from its stored spec and seed,
// re-executes it, and compares against the recorded outcome.
func replayRun(ctx context.Context, st *store.Store, token string) (ReplayRunResult, error) {
	record, spec, err := st.ReadRun(ctx, token)
	if err != nil {
		return ReplayRunResult{}, err
	}
	storedTrace, err := st.ReadTrace(ctx, token)
	if err != nil {
		return ReplayRunResult{}, err
	}

	pipeline, err := compiler.Build(&spec)
	if err != nil {
		return ReplayRunResult{}, fmt.Errorf("rebuilding pipeline: %w", err)
	}

	fresh := pipeline.Run(record.Seed)

	result := ReplayRunResult{
		Token:         token,
		Pipeline:      record.Pipeline,
		Status:        record.Status,
		LayerCount:    record.LayerCount,
		Deterministic: true,
	}
	result.Mismatch = compareRun(record, storedTrace, fresh.Status(), fresh.Value, fresh.Err, fresh.Trace)
	result.Deterministic = result.Mismatch == ""

	return result, nil
}

// compareRun returns a description of the first difference between the
// recorded run and a fresh execution, or "" when they match.
func compareRun(record ir.RunRecord, storedTrace []ir.TraceEvent, status string, value ir.FlameType, runErr error, trace []ir.TraceEvent) string {
	if record.Status != status {
		return fmt.Sprintf("status: recorded %s, replayed %s", record.Status, status)
	}

	if record.Status == ir.RunSucceeded {
		if !ir.Equal(record.Result, value) {
			return fmt.Sprintf("result: recorded %v, replayed %v", record.Result, value)
		}
	} else {
		kind, _ := ir.ErrorKindOf(runErr)
		if record.ErrorKind != string(kind) {
			return fmt.Sprintf("error kind: recorded %s, replayed %s", record.ErrorKind, kind)
		}
	}

	if len(storedTrace) != len(trace) {
		return fmt.Sprintf("trace length: recorded %d, replayed %d", len(storedTrace), len(trace))
	}
	for i := range storedTrace {
		if !reflect.DeepEqual(storedTrace[i], trace[i]) {
			return fmt.Sprintf("trace event %d differs", i)
		}
	}
	return ""
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_DETERMINISM",
			Message: "determinism verification failed",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d run(s)\n", result.TotalRuns)
	fmt.Fprintln(w)

	for _, run := range result.Runs {
		status := "✓"
		if !run.Deterministic {
			status = "✗"
		}
		fmt.Fprintf(w, "%s Run: %s (%s, %s)\n", status, run.Token, run.Pipeline, run.Status)

		if verbose {
			fmt.Fprintf(w, "  Layers: %d\n", run.LayerCount)
		}
		if !run.Deterministic {
			fmt.Fprintf(w, "  Mismatch: %s\n", run.Mismatch)
		}
	}
	fmt.Fprintln(w)

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All runs verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	return NewExitError(ExitFailure, "determinism verification failed")
}
