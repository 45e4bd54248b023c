package clause

// With Common Table Expressions, Oracle infers recursion from the
// self reference so there is no RECURSIVE keyword
type With struct {
	Exprs []WithExpression
}

// Name with clause name
func (with With) Name() string {
	return "WITH"
}

// Build build with clause
func (with With) Build(builder Builder) {
	buildList(builder, with.Exprs, func(expr WithExpression) { expr.Build(builder) })
}

// WithExpression with expression
type WithExpression struct {
	Name    string
	Columns []string
	Query   Query
}

func (with WithExpression) Build(builder Builder) {
	if with.Name == "" || with.Query == nil {
		builder.AddError(errEmptyWith)
		return
	}

	builder.WriteQuoted(with.Name)

	if len(with.Columns) > 0 {
		builder.WriteString(" (")
		buildList(builder, with.Columns, func(column string) { builder.WriteQuoted(column) })
		builder.WriteByte(')')
	}

	builder.WriteString(" AS ")
	builder.AddVar(builder, with.Query)
}
