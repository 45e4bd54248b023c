package oci

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"

	"gorm.io/oci/codec"
	"gorm.io/oci/dialect"
	"gorm.io/oci/internal/stmt_store"
	"gorm.io/oci/types"
)

// Query binds values and opens a forward-only cursor. Rows are fetched and
// decoded one at a time; LOB columns larger than the inline threshold are
// streamed.
func (s *Session) Query(ctx context.Context, stmt *dialect.Statement, values ...types.Value) (*Rows, error) {
	if stmt == nil {
		return nil, errors.New("oracle: nil statement")
	}
	if len(stmt.Returning) > 0 {
		return nil, ErrReturningNotQueryable
	}
	release, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	args, _, err := s.bind(stmt, values)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.callContext(ctx)
	native, err := s.prepare(ctx, stmt.SQL, !stmt.NoCache)
	if err != nil {
		cancel()
		return nil, err
	}
	native.Pin()

	begin := s.Config.NowFunc()
	cursor, err := queryStmt(ctx, native.Stmt, args)
	if err != nil {
		err = s.execError(stmt.SQL, err)
		s.trace(ctx, begin, stmt.SQL, values, -1, err)
		cancel()
		return nil, errors.Join(err, native.Release())
	}
	s.trace(ctx, begin, stmt.SQL, values, -1, nil)

	rows := newRows(s, native, cursor, stmt)
	rows.cancel = cancel
	s.rows[rows] = struct{}{}
	return rows, nil
}

// QueryStatement opens a cursor binding the values collected when stmt was built
func (s *Session) QueryStatement(ctx context.Context, stmt *dialect.Statement) (*Rows, error) {
	if stmt == nil {
		return nil, errors.New("oracle: nil statement")
	}
	return s.Query(ctx, stmt, stmt.Vars...)
}

// Rows is a forward-only cursor. Close it once done; reading to the end
// closes it too.
type Rows struct {
	session *Session
	stmt    *stmt_store.Stmt
	cursor  driver.Rows
	cancel  context.CancelFunc
	sql     string

	columns []dialect.ColumnSlot
	dest    []driver.Value
	dbTypes []string
	current []types.Value
	fetched int64

	err    error
	closed bool
}

func newRows(s *Session, stmt *stmt_store.Stmt, cursor driver.Rows, st *dialect.Statement) *Rows {
	names := cursor.Columns()
	visible := len(names) - st.TrailingHidden
	if visible < 0 {
		visible = 0
	}

	columns := make([]dialect.ColumnSlot, visible)
	for idx := range columns {
		columns[idx] = dialect.ColumnSlot{Name: names[idx], Type: types.Unknown}
		if idx < len(st.Columns) {
			columns[idx].Type = st.Columns[idx].Type
			columns[idx].NotNull = st.Columns[idx].NotNull
		}
	}

	return &Rows{
		session: s,
		stmt:    stmt,
		cursor:  cursor,
		sql:     st.SQL,
		columns: columns,
		dest:    make([]driver.Value, len(names)),
	}
}

// Columns are the visible columns with their declared types; Unknown types
// are resolved per value from what the driver returns
func (r *Rows) Columns() []dialect.ColumnSlot {
	return r.columns
}

// Next fetches and decodes the next row
func (r *Rows) Next() bool {
	if r.closed {
		return false
	}
	release, err := r.session.enter()
	if err != nil {
		r.err = err
		return false
	}
	defer release()

	if err := r.cursor.Next(r.dest); err != nil {
		if !errors.Is(err, io.EOF) {
			r.err = r.session.execError(r.sql, err)
		}
		r.closeWithErr()
		return false
	}

	row := make([]types.Value, len(r.columns))
	for idx, column := range r.columns {
		native := r.dest[idx]
		tag := column.Type
		if tag == types.Unknown && native == nil {
			tag = r.databaseType(idx)
		}
		if row[idx], err = r.session.codec.Decode(tag, !column.NotNull, native); err != nil {
			r.err = err
			r.closeWithErr()
			return false
		}
	}
	r.current = row
	r.fetched++
	return true
}

// databaseType resolves the type of a NULL in an untyped column from the
// column type name the driver reports
func (r *Rows) databaseType(idx int) types.TypeTag {
	typed, ok := r.cursor.(driver.RowsColumnTypeDatabaseTypeName)
	if !ok {
		return types.Unknown
	}
	if r.dbTypes == nil {
		r.dbTypes = make([]string, len(r.columns))
		for i := range r.dbTypes {
			r.dbTypes[i] = typed.ColumnTypeDatabaseTypeName(i)
		}
	}
	return codec.TagForDatabaseType(r.dbTypes[idx])
}

// Values returns the row fetched by the last Next
func (r *Rows) Values() []types.Value {
	return r.current
}

// Value returns the column idx of the current row
func (r *Rows) Value(idx int) types.Value {
	return r.current[idx]
}

// Err returns the error that stopped Next, nil at the end of the rows
func (r *Rows) Err() error {
	return r.err
}

// Close releases the cursor; closing twice is a no-op
func (r *Rows) Close() error {
	if r.closed {
		return nil
	}
	release, err := r.session.enter()
	if err != nil && !errors.Is(err, ErrSessionClosed) {
		return err
	}
	if release != nil {
		defer release()
	}
	return r.close()
}

func (r *Rows) closeWithErr() {
	if err := r.close(); err != nil && r.err == nil {
		r.err = err
	}
}

func (r *Rows) close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	delete(r.session.rows, r)

	err := errors.Join(r.cursor.Close(), r.stmt.Release())
	if r.cancel != nil {
		r.cancel()
	}
	r.session.Config.Logger.Trace(r.session.context(context.Background()), r.session.Config.NowFunc(), func() (string, int64) {
		return "FETCH " + r.sql, r.fetched
	}, err)
	return err
}
