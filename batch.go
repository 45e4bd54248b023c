package oci

import (
	"context"
	"database/sql/driver"
	"errors"

	"gorm.io/oci/codec"
	"gorm.io/oci/dialect"
	"gorm.io/oci/internal/stmt_store"
	"gorm.io/oci/types"
)

// BatchResult of ExecuteBatch
type BatchResult struct {
	RowsAffected int64
	// Returning concatenates the RETURNING rows of every input row, in input order
	Returning [][]types.Value
}

// ExecuteBatch executes stmt once per row on a single prepared statement.
//
// The batch is atomic: outside a transaction it runs in its own, inside one
// it runs under a savepoint. When row k fails the earlier rows are rolled
// back and the error is a *BatchPartialFailure with RowIndex k.
func (s *Session) ExecuteBatch(ctx context.Context, stmt *dialect.Statement, rows [][]types.Value) (BatchResult, error) {
	if stmt == nil {
		return BatchResult{}, errors.New("oracle: nil statement")
	}
	release, err := s.enter()
	if err != nil {
		return BatchResult{}, err
	}
	defer release()

	for idx, row := range rows {
		if err := codec.CheckSlots(stmt.Binds, row); err != nil {
			return BatchResult{}, &BatchPartialFailure{RowIndex: idx, Cause: err}
		}
	}
	if len(rows) == 0 {
		return BatchResult{}, nil
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	native, err := s.prepare(ctx, stmt.SQL, !stmt.NoCache)
	if err != nil {
		return BatchResult{}, err
	}
	defer native.Release()

	undo, done, err := s.atomicScope(ctx, "OCI_BATCH")
	if err != nil {
		return BatchResult{}, err
	}

	var result BatchResult
	for idx, row := range rows {
		res, err := s.executeRow(ctx, native, stmt, row)
		if err != nil {
			failure := &BatchPartialFailure{RowIndex: idx, Cause: err}
			if undoErr := undo(); undoErr != nil {
				return BatchResult{}, errors.Join(failure, undoErr)
			}
			return BatchResult{}, failure
		}
		result.RowsAffected += res.RowsAffected
		result.Returning = append(result.Returning, res.Returning...)
	}

	if err := done(); err != nil {
		return BatchResult{}, err
	}
	return result, nil
}

func (s *Session) executeRow(ctx context.Context, native *stmt_store.Stmt, stmt *dialect.Statement, row []types.Value) (Result, error) {
	args, outs, err := s.bind(stmt, row)
	if err != nil {
		return Result{}, err
	}
	return s.execute(ctx, native, stmt, row, args, outs)
}

// atomicScope opens the transaction, or inside one the savepoint named
// after prefix, that a batch or a guarded statement runs in. undo discards
// the work done since, done keeps it.
func (s *Session) atomicScope(ctx context.Context, prefix string) (undo, done func() error, err error) {
	if s.tx == nil {
		if err := s.begin(ctx); err != nil {
			return nil, nil, err
		}
		undo = func() error { return s.end(ctx, "ROLLBACK", driver.Tx.Rollback) }
		done = func() error { return s.end(ctx, "COMMIT", driver.Tx.Commit) }
		return undo, done, nil
	}

	name := dialect.QuoteIdentifier(s.nextSavepoint(prefix))
	if err := s.execDirect(ctx, "SAVEPOINT "+name); err != nil {
		return nil, nil, err
	}
	undo = func() error { return s.execDirect(ctx, "ROLLBACK TO SAVEPOINT "+name) }
	done = func() error { return nil }
	return undo, done, nil
}
