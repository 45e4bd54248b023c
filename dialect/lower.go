package dialect

import (
	"fmt"

	"gorm.io/oci/clause"
	"gorm.io/oci/types"
)

// rowNumberColumn is the pagination bookkeeping column added by the offset wrapper
const rowNumberColumn = "RN_"

// buildSelect writes a SELECT, wrapping it in ROWNUM filters when it is
// paginated. It returns the typed projection when known and the number of
// trailing bookkeeping columns.
func (b *builder) buildSelect(q clause.SelectQuery) ([]ColumnSlot, int) {
	columns := selectSlots(q.Select)
	if q.Limit.IsZero() {
		b.buildSelectBody(q)
		return columns, 0
	}

	if q.Locking != nil {
		b.AddError(unsupported("FOR UPDATE", "row locking cannot be combined with LIMIT or OFFSET"))
		return nil, 0
	}

	limit, offset := -1, max(q.Limit.Offset, 0)
	if q.Limit.Limit != nil && *q.Limit.Limit >= 0 {
		limit = *q.Limit.Limit
	}

	done := b.enter("LIMIT")
	b.WriteString("SELECT ")
	hidden := b.writeOuterProjection(columns, offset > 0)
	b.WriteString(" FROM (")
	if offset > 0 {
		b.WriteString("SELECT q_.*, ROWNUM AS " + rowNumberColumn + " FROM (")
	}
	done()

	b.buildSelectBody(q)

	defer b.enter("LIMIT")()
	b.WriteByte(')')
	if offset == 0 {
		b.WriteString(" WHERE ROWNUM <= ")
		b.AddVar(b, types.BigIntValue(int64(limit)))
		return columns, hidden
	}

	b.WriteString(" q_")
	if limit >= 0 {
		b.WriteString(" WHERE ROWNUM <= ")
		b.AddVar(b, types.BigIntValue(int64(offset)+int64(limit)))
	}
	b.WriteString(") WHERE " + rowNumberColumn + " > ")
	b.AddVar(b, types.BigIntValue(int64(offset)))
	// subqueries may not carry ORDER BY
	if b.nested == 0 {
		b.WriteString(" ORDER BY " + rowNumberColumn)
	}
	return columns, hidden
}

// writeOuterProjection lists the inner columns by name when they are known,
// otherwise selects everything and reports the hidden row number column
func (b *builder) writeOuterProjection(columns []ColumnSlot, withRowNumber bool) int {
	if len(columns) == 0 {
		b.WriteByte('*')
		if withRowNumber {
			return 1
		}
		return 0
	}
	for idx, column := range columns {
		if idx > 0 {
			b.WriteByte(',')
		}
		b.writeIdentifier(column.Name)
	}
	return 0
}

func (b *builder) buildSelectBody(q clause.SelectQuery) {
	if len(q.With.Exprs) > 0 {
		done := b.enter(q.With.Name())
		b.WriteString("WITH ")
		q.With.Build(b)
		b.WriteByte(' ')
		done()
	}

	b.buildClause("SELECT ", q.Select)

	if len(q.From.Tables) == 0 && len(q.From.Joins) == 0 {
		b.WriteString(" FROM DUAL")
	} else {
		b.buildClause(" FROM ", q.From)
	}

	if len(q.Where.Exprs) > 0 {
		b.buildClause(" WHERE ", q.Where)
	}

	if len(q.GroupBy.Columns) > 0 {
		b.buildClause(" GROUP BY ", q.GroupBy)
	} else if len(q.GroupBy.Having) > 0 {
		b.AddError(unsupported("HAVING", "HAVING without GROUP BY columns"))
	}

	if len(q.OrderBy.Columns) > 0 || q.OrderBy.Expression != nil {
		b.buildClause(" ORDER BY ", q.OrderBy)
	}

	if q.Locking != nil {
		if q.Locking.Strength != clause.LockingStrengthUpdate {
			b.AddError(unsupported("FOR "+string(q.Locking.Strength), "Oracle only locks rows FOR UPDATE"))
			return
		}
		b.buildClause(" FOR ", *q.Locking)
	}
}

func (b *builder) buildClause(prefix string, c clause.Interface) {
	defer b.enter(c.Name())()
	b.WriteString(prefix)
	c.Build(b)
}

func selectSlots(s clause.Select) []ColumnSlot {
	if s.Expression != nil {
		return nil
	}
	for _, column := range s.Columns {
		if column.Name == "*" || (column.Raw && column.Alias == "") {
			return nil
		}
	}
	return columnSlots(s.Columns)
}

func (b *builder) buildInsert(q clause.InsertQuery) []ColumnSlot {
	if q.OnConflict != nil {
		b.AddError(unsupported(q.OnConflict.Name(), "upserts are not lowered, use a MERGE through a raw query"))
		return nil
	}

	b.buildClause("INSERT ", q.Insert)

	switch {
	case q.Select != nil:
		if len(q.Values.Columns) > 0 {
			b.WriteByte(' ')
			q.Values.BuildColumns(b)
		}
		b.WriteByte(' ')
		b.buildSelect(*q.Select)
	case len(q.Values.Values) > 1:
		if len(q.Returning.Columns) > 0 {
			b.AddError(unsupported(q.Returning.Name(), "RETURNING INTO is limited to single row inserts"))
			return nil
		}
		b.buildMultiRowValues(q.Values)
	default:
		if !b.checkRows(q.Values) {
			return nil
		}
		b.buildClause(" ", q.Values)
	}

	return b.buildReturning(q.Returning)
}

// buildMultiRowValues lowers a multi-row VALUES list to INSERT ... SELECT
// from DUAL joined with UNION ALL
func (b *builder) buildMultiRowValues(values clause.Values) {
	defer b.enter(values.Name())()
	if !b.checkRows(values) {
		return
	}

	b.WriteByte(' ')
	values.BuildColumns(b)
	for idx, row := range values.Values {
		if idx > 0 {
			b.WriteString(" UNION ALL")
		}
		b.WriteString(" SELECT ")
		b.AddVar(b, row...)
		b.WriteString(" FROM DUAL")
	}
}

func (b *builder) checkRows(values clause.Values) bool {
	if len(values.Columns) == 0 || len(values.Values) == 0 {
		b.AddError(&UnsupportedConstructError{Construct: values.Name(), Err: clause.ErrEmptyValues})
		return false
	}
	for idx, row := range values.Values {
		if len(row) != len(values.Columns) {
			b.AddError(unsupported(values.Name(), "row %d has %d values for %d columns", idx, len(row), len(values.Columns)))
			return false
		}
	}
	return true
}

func (b *builder) buildUpdate(q clause.UpdateQuery) []ColumnSlot {
	b.WriteString("UPDATE ")
	b.WriteQuoted(q.Table)
	b.buildClause(" SET ", q.Set)
	if len(q.Where.Exprs) > 0 {
		b.buildClause(" WHERE ", q.Where)
	}
	return b.buildReturning(q.Returning)
}

func (b *builder) buildDelete(q clause.DeleteQuery) []ColumnSlot {
	b.WriteString("DELETE FROM ")
	b.WriteQuoted(q.Table)
	if len(q.Where.Exprs) > 0 {
		b.buildClause(" WHERE ", q.Where)
	}
	return b.buildReturning(q.Returning)
}

// buildReturning writes RETURNING ... INTO with one typed out-bind per column,
// numbered after the in-binds
func (b *builder) buildReturning(returning clause.Returning) []ColumnSlot {
	if len(returning.Columns) == 0 {
		return nil
	}
	defer b.enter(returning.Name())()

	slots := make([]ColumnSlot, len(returning.Columns))
	for idx, column := range returning.Columns {
		switch {
		case column.Name == "*" || column.Raw:
			b.AddError(fmt.Errorf("RETURNING needs named columns"))
			return nil
		case column.Type == types.Unknown:
			b.AddError(fmt.Errorf("RETURNING column %s has no type for its out-bind", column.Name))
			return nil
		}
		slots[idx] = ColumnSlot{Name: column.Name, Type: column.Type, NotNull: column.NotNull}
	}

	b.WriteString(" RETURNING ")
	returning.Build(b)
	b.WriteString(" INTO ")
	for idx := range slots {
		if idx > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b.sql, ":%d", len(b.binds)+idx+1)
	}
	return slots
}
