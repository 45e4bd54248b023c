package clause

// From from clause
type From struct {
	Tables []Table
	Joins  []Join
}

type JoinType string

const (
	CrossJoin JoinType = "CROSS"
	InnerJoin JoinType = "INNER"
	LeftJoin  JoinType = "LEFT"
	RightJoin JoinType = "RIGHT"
	FullJoin  JoinType = "FULL"
)

// Join join clause for from
type Join struct {
	Type       JoinType
	Table      Table
	ON         Where
	Using      []string
	Expression Expression
}

// Name from clause name
func (from From) Name() string {
	return "FROM"
}

// Build build from clause
func (from From) Build(builder Builder) {
	buildList(builder, from.Tables, func(table Table) { builder.WriteQuoted(table) })

	for _, join := range from.Joins {
		builder.WriteByte(' ')
		join.Build(builder)
	}
}

func (join Join) Build(builder Builder) {
	if join.Expression != nil {
		join.Expression.Build(builder)
		return
	}

	if join.Type != "" {
		builder.WriteString(string(join.Type))
		builder.WriteByte(' ')
	}

	builder.WriteString("JOIN ")
	builder.WriteQuoted(join.Table)

	if len(join.ON.Exprs) > 0 {
		builder.WriteString(" ON ")
		join.ON.Build(builder)
	} else if len(join.Using) > 0 {
		builder.WriteString(" USING (")
		buildList(builder, join.Using, func(c string) { builder.WriteQuoted(c) })
		builder.WriteByte(')')
	}
}
