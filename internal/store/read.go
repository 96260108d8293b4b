package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flamelang/flamec/internal/ir"
)

// ErrRunNotFound is returned when no run exists for a token.
var ErrRunNotFound = errors.New("run not found")

// ReadRun returns the run record and stored pipeline spec for a token.
func (s *Store) ReadRun(ctx context.Context, token string) (ir.RunRecord, ir.PipelineSpec, error) {
	var (
		run        ir.RunRecord
		specJSON   string
		seedJSON   string
		resultJSON sql.NullString
		errKind    sql.NullString
		errMsg     sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT token, pipeline, spec, spec_hash, seed, result, status, error_kind, error_message, layer_count, seq, engine_version, ir_version
		FROM runs
		WHERE token = ?
	`, token).Scan(
		&run.Token,
		&run.Pipeline,
		&specJSON,
		&run.SpecHash,
		&seedJSON,
		&resultJSON,
		&run.Status,
		&errKind,
		&errMsg,
		&run.LayerCount,
		&run.Seq,
		&run.EngineVersion,
		&run.IRVersion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return run, ir.PipelineSpec{}, fmt.Errorf("%w: %s", ErrRunNotFound, token)
	}
	if err != nil {
		return run, ir.PipelineSpec{}, fmt.Errorf("read run: %w", err)
	}

	spec, err := unmarshalSpec(specJSON)
	if err != nil {
		return run, spec, fmt.Errorf("read run: %w", err)
	}
	if run.Seed, err = unmarshalValue(seedJSON); err != nil {
		return run, spec, fmt.Errorf("read run seed: %w", err)
	}
	if run.Result, err = unmarshalValue(resultJSON.String); err != nil {
		return run, spec, fmt.Errorf("read run result: %w", err)
	}
	run.ErrorKind = errKind.String
	run.ErrorMessage = errMsg.String

	return run, spec, nil
}

// ReadTrace returns the ordered trace events for a run token.
// Results are ordered by stage index ascending.
// Returns an empty slice (not nil) if the run recorded no events.
func (s *Store) ReadTrace(ctx context.Context, token string) ([]ir.TraceEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, layer, input, output, error_kind, error_message
		FROM trace_events
		WHERE run_token = ?
		ORDER BY idx ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("query trace: %w", err)
	}
	defer rows.Close()

	trace := []ir.TraceEvent{}
	for rows.Next() {
		var (
			ev         ir.TraceEvent
			inputJSON  string
			outputJSON sql.NullString
			errKind    sql.NullString
			errMsg     sql.NullString
		)
		if err := rows.Scan(&ev.Index, &ev.Layer, &inputJSON, &outputJSON, &errKind, &errMsg); err != nil {
			return nil, fmt.Errorf("scan trace event: %w", err)
		}
		if ev.Input, err = unmarshalValue(inputJSON); err != nil {
			return nil, fmt.Errorf("trace event %d input: %w", ev.Index, err)
		}
		if ev.Output, err = unmarshalValue(outputJSON.String); err != nil {
			return nil, fmt.Errorf("trace event %d output: %w", ev.Index, err)
		}
		ev.ErrorKind = errKind.String
		ev.ErrorMessage = errMsg.String
		trace = append(trace, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trace: %w", err)
	}

	return trace, nil
}

// ListRuns returns run records ordered by seq ascending, token ascending.
// The ordering is deterministic so listings are replay-stable.
// Returns an empty slice (not nil) when the log is empty.
func (s *Store) ListRuns(ctx context.Context) ([]ir.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, pipeline, spec_hash, seed, result, status, error_kind, error_message, layer_count, seq, engine_version, ir_version
		FROM runs
		ORDER BY seq ASC, token COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.RunRecord{}
	for rows.Next() {
		var (
			run        ir.RunRecord
			seedJSON   string
			resultJSON sql.NullString
			errKind    sql.NullString
			errMsg     sql.NullString
		)
		if err := rows.Scan(
			&run.Token,
			&run.Pipeline,
			&run.SpecHash,
			&seedJSON,
			&resultJSON,
			&run.Status,
			&errKind,
			&errMsg,
			&run.LayerCount,
			&run.Seq,
			&run.EngineVersion,
			&run.IRVersion,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.Seed, err = unmarshalValue(seedJSON); err != nil {
			return nil, fmt.Errorf("run %s seed: %w", run.Token, err)
		}
		if run.Result, err = unmarshalValue(resultJSON.String); err != nil {
			return nil, fmt.Errorf("run %s result: %w", run.Token, err)
		}
		run.ErrorKind = errKind.String
		run.ErrorMessage = errMsg.String
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// MaxSeq returns the highest seq recorded in the run log, or 0 when empty.
// Used to resume a logical clock against an existing database.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("max seq: %w", err)
	}
	return seq.Int64, nil
}
