package clause

import "errors"

// ErrEmptyValues is reported when an insert carries no columns or no rows
var ErrEmptyValues = errors.New("insert without values")

type Values struct {
	Columns []Column
	Values  [][]interface{}
}

// Name from clause name
func (Values) Name() string {
	return "VALUES"
}

// Build writes the column list and the first row; multi-row inserts are
// lowered by the dialect
func (values Values) Build(builder Builder) {
	if len(values.Columns) == 0 || len(values.Values) == 0 {
		builder.AddError(ErrEmptyValues)
		return
	}

	values.BuildColumns(builder)
	builder.WriteString(" VALUES (")
	builder.AddVar(builder, values.Values[0]...)
	builder.WriteByte(')')
}

// BuildColumns writes the parenthesized column list
func (values Values) BuildColumns(builder Builder) {
	builder.WriteByte('(')
	buildList(builder, values.Columns, func(column Column) { builder.WriteQuoted(column) })
	builder.WriteByte(')')
}
