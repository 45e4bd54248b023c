package clause

// ExprCaseCondition is one WHEN branch, ? in When and Then take Vars in order
type ExprCaseCondition struct {
	When string
	Then string
	Vars []any
}

type ExprCaseElse struct {
	Then string
	Vars []any
}

// ExprCase searched CASE expression
type ExprCase struct {
	Cases []*ExprCaseCondition
	Else  *ExprCaseElse
}

func (expr ExprCase) Name() string {
	return "CASE"
}

func (expr ExprCase) Build(builder Builder) {
	builder.WriteString("CASE")
	for _, condition := range expr.Cases {
		builder.WriteByte(' ')
		Expr{SQL: "WHEN " + condition.When + " THEN " + condition.Then, Vars: condition.Vars}.Build(builder)
	}

	if expr.Else != nil {
		builder.WriteByte(' ')
		Expr{SQL: "ELSE " + expr.Else.Then, Vars: expr.Else.Vars}.Build(builder)
	}
	builder.WriteString(" END")
}
