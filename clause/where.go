package clause

// Where where clause
type Where struct {
	Exprs []Expression
}

// Name where clause name
func (where Where) Name() string {
	return "WHERE"
}

// Build build where clause
func (where Where) Build(builder Builder) {
	exprs := where.Exprs
	// a leading single Or condition is moved behind the first plain condition
	for idx, expr := range exprs {
		if v, ok := expr.(OrConditions); !ok || len(v.Exprs) > 1 {
			if idx != 0 {
				exprs = append([]Expression(nil), exprs...)
				exprs[0], exprs[idx] = exprs[idx], exprs[0]
			}
			break
		}
	}

	buildExprs(exprs, builder, " AND ")
}

func buildExprs(exprs []Expression, builder Builder, joinCond string) {
	for idx, expr := range exprs {
		if idx > 0 {
			if v, ok := expr.(OrConditions); ok && len(v.Exprs) == 1 {
				builder.WriteString(" OR ")
			} else {
				builder.WriteString(joinCond)
			}
		}

		wrapInParentheses := false
		if len(exprs) > 1 {
			switch v := expr.(type) {
			case OrConditions:
				wrapInParentheses = singleExprHasAndOr(v.Exprs)
			case AndConditions:
				wrapInParentheses = singleExprHasAndOr(v.Exprs)
			case Expr:
				wrapInParentheses = containsAndOr(v.SQL)
			}
		}

		if wrapInParentheses {
			builder.WriteByte('(')
			expr.Build(builder)
			builder.WriteByte(')')
		} else {
			expr.Build(builder)
		}
	}
}

func singleExprHasAndOr(exprs []Expression) bool {
	if len(exprs) == 1 {
		if e, ok := exprs[0].(Expr); ok {
			return containsAndOr(e.SQL)
		}
	}
	return false
}

func And(exprs ...Expression) Expression {
	if len(exprs) == 0 {
		return nil
	}

	if len(exprs) == 1 {
		if _, ok := exprs[0].(OrConditions); !ok {
			return exprs[0]
		}
	}

	return AndConditions{Exprs: exprs}
}

type AndConditions struct {
	Exprs []Expression
}

func (and AndConditions) Build(builder Builder) {
	if len(and.Exprs) > 1 {
		builder.WriteByte('(')
		buildExprs(and.Exprs, builder, " AND ")
		builder.WriteByte(')')
	} else {
		buildExprs(and.Exprs, builder, " AND ")
	}
}

func Or(exprs ...Expression) Expression {
	if len(exprs) == 0 {
		return nil
	}
	return OrConditions{Exprs: exprs}
}

type OrConditions struct {
	Exprs []Expression
}

func (or OrConditions) Build(builder Builder) {
	if len(or.Exprs) > 1 {
		builder.WriteByte('(')
		buildExprs(or.Exprs, builder, " OR ")
		builder.WriteByte(')')
	} else {
		buildExprs(or.Exprs, builder, " OR ")
	}
}

func Not(exprs ...Expression) Expression {
	if len(exprs) == 0 {
		return nil
	}
	return NotConditions{Exprs: exprs}
}

type NotConditions struct {
	Exprs []Expression
}

func (not NotConditions) Build(builder Builder) {
	if len(not.Exprs) > 1 {
		builder.WriteByte('(')
	}

	for idx, c := range not.Exprs {
		if idx > 0 {
			builder.WriteString(" AND ")
		}

		if negationBuilder, ok := c.(NegationExpressionBuilder); ok {
			negationBuilder.NegationBuild(builder)
			continue
		}

		builder.WriteString("NOT ")
		wrap := true
		if e, ok := c.(Expr); ok {
			wrap = containsAndOr(e.SQL)
		}
		if wrap {
			builder.WriteByte('(')
		}
		c.Build(builder)
		if wrap {
			builder.WriteByte(')')
		}
	}

	if len(not.Exprs) > 1 {
		builder.WriteByte(')')
	}
}
