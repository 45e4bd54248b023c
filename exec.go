package oci

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"gorm.io/oci/dialect"
	"gorm.io/oci/internal/stmt_store"
	"gorm.io/oci/types"
)

// Result of executing a statement
type Result struct {
	RowsAffected int64
	// Returning holds the RETURNING values of the affected row, in the order
	// of the statement's Returning columns
	Returning [][]types.Value
}

// Execute binds values and executes stmt. Values that do not fit the bind
// slots, including a missing list, fail with ErrBindMismatch before
// anything is sent to the server.
//
// An UPDATE or DELETE with RETURNING runs under a savepoint, or in its own
// transaction outside one, and is undone with ErrReturningManyRows when it
// changes more than one row.
func (s *Session) Execute(ctx context.Context, stmt *dialect.Statement, values ...types.Value) (Result, error) {
	if stmt == nil {
		return Result{}, errors.New("oracle: nil statement")
	}
	release, err := s.enter()
	if err != nil {
		return Result{}, err
	}
	defer release()

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	args, outs, err := s.bind(stmt, values)
	if err != nil {
		return Result{}, err
	}

	native, err := s.prepare(ctx, stmt.SQL, !stmt.NoCache)
	if err != nil {
		return Result{}, err
	}
	defer native.Release()

	if len(stmt.Returning) == 0 || !stmt.ManyRows {
		return s.execute(ctx, native, stmt, values, args, outs)
	}

	undo, done, err := s.atomicScope(ctx, "OCI_RETURNING")
	if err != nil {
		return Result{}, err
	}
	result, err := s.execute(ctx, native, stmt, values, args, outs)
	if err != nil {
		return Result{}, errors.Join(err, undo())
	}
	return result, done()
}

// ExecuteStatement executes stmt with the values collected when it was built
func (s *Session) ExecuteStatement(ctx context.Context, stmt *dialect.Statement) (Result, error) {
	if stmt == nil {
		return Result{}, errors.New("oracle: nil statement")
	}
	return s.Execute(ctx, stmt, stmt.Vars...)
}

// bind encodes values and allocates one out-bind per RETURNING column
func (s *Session) bind(stmt *dialect.Statement, values []types.Value) ([]driver.NamedValue, []interface{}, error) {
	natives, err := s.codec.EncodeAll(stmt.Binds, values)
	if err != nil {
		return nil, nil, err
	}

	args := make([]driver.NamedValue, 0, len(natives)+len(stmt.Returning))
	for idx, native := range natives {
		args = append(args, driver.NamedValue{Ordinal: idx + 1, Value: native})
	}

	outs := make([]interface{}, len(stmt.Returning))
	for idx, column := range stmt.Returning {
		dest, err := s.codec.OutDest(column.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("RETURNING %s: %w", column.Name, err)
		}
		outs[idx] = dest
		args = append(args, driver.NamedValue{Ordinal: len(args) + 1, Value: sql.Out{Dest: dest}})
	}
	return args, outs, nil
}

func (s *Session) execute(ctx context.Context, native *stmt_store.Stmt, stmt *dialect.Statement, values []types.Value, args []driver.NamedValue, outs []interface{}) (Result, error) {
	var result Result

	begin := s.Config.NowFunc()
	res, err := execStmt(ctx, native.Stmt, args)
	if err == nil {
		result.RowsAffected, err = res.RowsAffected()
	}
	if err != nil {
		err = s.execError(stmt.SQL, err)
		s.trace(ctx, begin, stmt.SQL, values, -1, err)
		return Result{}, err
	}
	s.trace(ctx, begin, stmt.SQL, values, result.RowsAffected, nil)

	if len(outs) > 0 && result.RowsAffected > 1 {
		return Result{}, fmt.Errorf("%w: %d rows", ErrReturningManyRows, result.RowsAffected)
	}
	if len(outs) > 0 && result.RowsAffected == 1 {
		row := make([]types.Value, len(outs))
		for idx, column := range stmt.Returning {
			if row[idx], err = s.codec.DecodeOut(column.Type, !column.NotNull, outs[idx]); err != nil {
				return Result{}, fmt.Errorf("RETURNING %s: %w", column.Name, err)
			}
		}
		result.Returning = append(result.Returning, row)
	}
	return result, nil
}
