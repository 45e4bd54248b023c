package clause

type OrderByColumn struct {
	Column Column
	Desc   bool
	// NullsFirst/NullsLast override Oracle's default of NULLS LAST ascending
	NullsFirst bool
	NullsLast  bool
}

type OrderBy struct {
	Columns    []OrderByColumn
	Expression Expression
}

// Name where clause name
func (orderBy OrderBy) Name() string {
	return "ORDER BY"
}

// Build build where clause
func (orderBy OrderBy) Build(builder Builder) {
	if orderBy.Expression != nil {
		orderBy.Expression.Build(builder)
		return
	}

	buildList(builder, orderBy.Columns, func(column OrderByColumn) {
		builder.WriteQuoted(column.Column)
		if column.Desc {
			builder.WriteString(" DESC")
		}
		switch {
		case column.NullsFirst:
			builder.WriteString(" NULLS FIRST")
		case column.NullsLast:
			builder.WriteString(" NULLS LAST")
		}
	})
}
