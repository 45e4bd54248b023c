package oci

import (
	"context"
	"database/sql/driver"
	"errors"

	"github.com/godror/godror"

	"gorm.io/oci/internal/stmt_store"
)

// Prepare prepares sql on the session's connection and keeps it in the
// statement cache. Statements already cached are reused without a round trip.
func (s *Session) Prepare(ctx context.Context, sql string) error {
	release, err := s.enter()
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	stmt, err := s.prepare(ctx, sql, true)
	if err != nil {
		return err
	}
	return stmt.Release()
}

// CachedStatements lists the cached SQL texts from least to most recently used
func (s *Session) CachedStatements() []string {
	return s.stmts.Keys()
}

// prepare returns the statement for sql, cached unless cache is false.
// Release the statement once done.
func (s *Session) prepare(ctx context.Context, sql string, cache bool) (*stmt_store.Stmt, error) {
	if stmt, ok := s.stmts.Get(sql); ok && cache && !stmt.Pinned() {
		return s.stmts.Prepare(ctx, s.conn, sql, true)
	}

	begin := s.Config.NowFunc()
	stmt, err := s.stmts.Prepare(ctx, s.conn, sql, cache)
	if err != nil {
		err = s.execError(sql, err)
	}
	s.trace(ctx, begin, "PREPARE "+sql, nil, -1, err)
	return stmt, err
}

func execStmt(ctx context.Context, stmt driver.Stmt, args []driver.NamedValue) (driver.Result, error) {
	args, err := checkArgs(stmt, args)
	if err != nil {
		return nil, err
	}
	if execer, ok := stmt.(driver.StmtExecContext); ok {
		return execer.ExecContext(ctx, args)
	}
	values, err := namedToValues(args)
	if err != nil {
		return nil, err
	}
	//nolint:staticcheck
	return stmt.Exec(values)
}

func queryStmt(ctx context.Context, stmt driver.Stmt, args []driver.NamedValue) (driver.Rows, error) {
	args, err := checkArgs(stmt, withLobAsReader(stmt, args))
	if err != nil {
		return nil, err
	}
	if queryer, ok := stmt.(driver.StmtQueryContext); ok {
		return queryer.QueryContext(ctx, args)
	}
	values, err := namedToValues(args)
	if err != nil {
		return nil, err
	}
	//nolint:staticcheck
	return stmt.Query(values)
}

// withLobAsReader asks statements that take options as arguments, godror's
// among them, to fetch LOB columns as locators instead of whole values
func withLobAsReader(stmt driver.Stmt, args []driver.NamedValue) []driver.NamedValue {
	if _, ok := stmt.(driver.NamedValueChecker); !ok {
		return args
	}
	return append(args, driver.NamedValue{Ordinal: len(args) + 1, Value: godror.LobAsReader()})
}

// checkArgs runs the statement's own argument check, dropping the arguments
// it consumes as options
func checkArgs(stmt driver.Stmt, args []driver.NamedValue) ([]driver.NamedValue, error) {
	checker, ok := stmt.(driver.NamedValueChecker)
	if !ok {
		return args, nil
	}
	checked := make([]driver.NamedValue, 0, len(args))
	for _, arg := range args {
		err := checker.CheckNamedValue(&arg)
		switch {
		case err == nil, errors.Is(err, driver.ErrSkip):
			checked = append(checked, arg)
		case errors.Is(err, driver.ErrRemoveArgument):
		default:
			return nil, err
		}
	}
	return checked, nil
}

func namedToValues(args []driver.NamedValue) ([]driver.Value, error) {
	values := make([]driver.Value, len(args))
	for idx, arg := range args {
		if arg.Name != "" {
			return nil, errors.New("driver does not support named parameters")
		}
		values[idx] = arg.Value
	}
	return values, nil
}
