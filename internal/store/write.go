package store

import (
	"context"
	"fmt"

	"github.com/flamelang/flamec/internal/ir"
)

// WriteRunAtomic inserts a run record and its full trace in one transaction.
//
// Either the run and every trace event are persisted, or nothing is - a
// crash mid-write cannot leave a run without its trace.
//
// Uses ON CONFLICT(token) DO NOTHING for idempotency: writing the same run
// token twice is a no-op and reports inserted=false, so callers can detect
// a replayed write without treating it as an error.
func (s *Store) WriteRunAtomic(ctx context.Context, run ir.RunRecord, spec ir.PipelineSpec, trace []ir.TraceEvent) (inserted bool, err error) {
	specJSON, err := marshalSpec(spec)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}
	seedJSON, err := marshalValue(run.Seed)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}
	resultJSON, err := marshalValue(run.Result)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(token, pipeline, spec, spec_hash, seed, result, status, error_kind, error_message, layer_count, seq, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		run.Token,
		run.Pipeline,
		specJSON,
		run.SpecHash,
		seedJSON,
		nullable(resultJSON),
		run.Status,
		nullable(run.ErrorKind),
		nullable(run.ErrorMessage),
		run.LayerCount,
		run.Seq,
		run.EngineVersion,
		run.IRVersion,
	)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write run: rows affected: %w", err)
	}
	if rows == 0 {
		// Token already recorded - idempotent replay, skip trace writes.
		return false, tx.Commit()
	}

	for _, ev := range trace {
		inputJSON, err := marshalValue(ev.Input)
		if err != nil {
			return false, fmt.Errorf("write trace event %d: %w", ev.Index, err)
		}
		outputJSON, err := marshalValue(ev.Output)
		if err != nil {
			return false, fmt.Errorf("write trace event %d: %w", ev.Index, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO trace_events
			(run_token, idx, layer, input, output, error_kind, error_message)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			run.Token,
			ev.Index,
			ev.Layer,
			inputJSON,
			nullable(outputJSON),
			nullable(ev.ErrorKind),
			nullable(ev.ErrorMessage),
		)
		if err != nil {
			return false, fmt.Errorf("write trace event %d: %w", ev.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write run: commit: %w", err)
	}
	return true, nil
}
