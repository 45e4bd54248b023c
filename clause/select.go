package clause

// Select select attrs when querying
type Select struct {
	Distinct   bool
	Columns    []Column
	Expression Expression
}

func (s Select) Name() string {
	return "SELECT"
}

func (s Select) Build(builder Builder) {
	if s.Distinct {
		builder.WriteString("DISTINCT ")
	}

	switch {
	case s.Expression != nil:
		s.Expression.Build(builder)
	case len(s.Columns) > 0:
		buildList(builder, s.Columns, func(column Column) { builder.WriteQuoted(column) })
	default:
		builder.WriteByte('*')
	}
}
