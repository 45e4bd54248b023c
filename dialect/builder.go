package dialect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/oci/clause"
	"gorm.io/oci/codec"
	"gorm.io/oci/types"
)

// builder implements clause.Builder for one Build call
type builder struct {
	sql     strings.Builder
	binds   []types.TypeTag
	vars    []types.Value
	err     error
	current string
	nested  int
}

func (b *builder) WriteByte(c byte) error {
	return b.sql.WriteByte(c)
}

func (b *builder) WriteString(s string) (int, error) {
	return b.sql.WriteString(s)
}

// WriteQuoted writes a table, a column, a possibly dotted name or an expression
func (b *builder) WriteQuoted(field interface{}) {
	switch v := field.(type) {
	case clause.Table:
		if v.Raw {
			b.WriteString(v.Name)
		} else {
			b.writeName(v.Name)
		}
		if v.Alias != "" {
			b.WriteByte(' ')
			b.writeIdentifier(v.Alias)
		}
	case clause.Column:
		if v.Table != "" {
			b.writeName(v.Table)
			b.WriteByte('.')
		}
		switch {
		case v.Raw:
			b.WriteString(v.Name)
		case v.Name == "*":
			b.WriteByte('*')
		default:
			b.writeIdentifier(v.Name)
		}
		if v.Alias != "" {
			b.WriteString(" AS ")
			b.writeIdentifier(v.Alias)
		}
	case string:
		b.writeName(v)
	case clause.Expression:
		v.Build(b)
	default:
		b.AddError(fmt.Errorf("cannot quote %T", field))
	}
}

// writeName quotes each part of a schema qualified name
func (b *builder) writeName(name string) {
	for idx, part := range strings.Split(name, ".") {
		if idx > 0 {
			b.WriteByte('.')
		}
		b.writeIdentifier(part)
	}
}

func (b *builder) writeIdentifier(name string) {
	if !validIdentifier(name) {
		b.AddError(fmt.Errorf("invalid identifier %q", name))
		return
	}
	b.WriteString(QuoteIdentifier(name))
}

// AddVar binds values, inlines literals and builds nested expressions and subqueries
func (b *builder) AddVar(writer clause.Writer, vars ...interface{}) {
	for idx, v := range vars {
		if idx > 0 {
			writer.WriteByte(',')
		}

		switch v := v.(type) {
		case nil:
			writer.WriteString("NULL")
		case clause.Literal:
			lit, err := codec.FormatLiteral(v.Value)
			if err != nil {
				b.AddError(err)
				return
			}
			writer.WriteString(lit)
		case clause.Column, clause.Table:
			b.WriteQuoted(v)
		case clause.Query:
			writer.WriteByte('(')
			b.buildNested(v)
			writer.WriteByte(')')
		case clause.Expression:
			v.Build(b)
		case []interface{}:
			writer.WriteByte('(')
			if len(v) > 0 {
				b.AddVar(writer, v...)
			} else {
				writer.WriteString("NULL")
			}
			writer.WriteByte(')')
		case types.Value:
			b.bind(writer, v)
		default:
			value, err := types.ValueOf(v)
			if err != nil {
				b.AddError(err)
				return
			}
			b.bind(writer, value)
		}
	}
}

func (b *builder) bind(writer clause.Writer, v types.Value) {
	b.binds = append(b.binds, v.Tag())
	b.vars = append(b.vars, v)
	writer.WriteByte(':')
	writer.WriteString(strconv.Itoa(len(b.binds)))
}

// AddError keeps the first error, naming the clause being built
func (b *builder) AddError(err error) error {
	if err == nil {
		return b.err
	}
	if b.err == nil {
		var unsupportedErr *UnsupportedConstructError
		if errors.As(err, &unsupportedErr) {
			b.err = err
		} else {
			b.err = &UnsupportedConstructError{Construct: b.current, Err: err}
		}
	}
	return b.err
}

// enter records the clause being built and returns a func restoring the previous one
func (b *builder) enter(name string) func() {
	prev := b.current
	b.current = name
	return func() { b.current = prev }
}

func (b *builder) buildNested(q clause.Query) {
	b.nested++
	defer func() { b.nested-- }()

	switch v := q.(type) {
	case clause.SelectQuery:
		b.buildSelect(v)
	case *clause.SelectQuery:
		b.buildSelect(*v)
	case clause.RawQuery:
		b.buildRaw(v)
	case *clause.RawQuery:
		b.buildRaw(*v)
	default:
		b.AddError(unsupported("SUBQUERY", "%s statement used as a subquery", q.Kind()))
	}
}

func (b *builder) buildRaw(q clause.RawQuery) ([]ColumnSlot, bool) {
	defer b.enter("RAW")()
	clause.Expr{SQL: q.SQL, Vars: q.Vars}.Build(b)
	return columnSlots(q.Columns), q.NoCache
}

func columnSlots(columns []clause.Column) []ColumnSlot {
	if len(columns) == 0 {
		return nil
	}
	slots := make([]ColumnSlot, len(columns))
	for idx, column := range columns {
		name := column.Alias
		if name == "" {
			name = column.Name
		}
		slots[idx] = ColumnSlot{Name: name, Type: column.Type, NotNull: column.NotNull}
	}
	return slots
}
