package clause

type Returning struct {
	Columns []Column
}

// Name where clause name
func (returning Returning) Name() string {
	return "RETURNING"
}

// Build writes the returned column list
func (returning Returning) Build(builder Builder) {
	if len(returning.Columns) > 0 {
		buildList(builder, returning.Columns, func(column Column) { builder.WriteQuoted(column) })
	} else {
		builder.WriteByte('*')
	}
}
