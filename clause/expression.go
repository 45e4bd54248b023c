package clause

import (
	"fmt"
	"strings"

	"gorm.io/oci/types"
)

// Expression expression interface
type Expression interface {
	Build(builder Builder)
}

// NegationExpressionBuilder negation expression builder
type NegationExpressionBuilder interface {
	NegationBuild(builder Builder)
}

// Column quote with name
type Column struct {
	Table string
	Name  string
	Alias string
	Raw   bool
	// Type is the abstract type of the column, required for RETURNING
	Type types.TypeTag
	// NotNull fails the fetch of a NULL in this column with a null violation
	NotNull bool
}

// Table quote with name
type Table struct {
	Name  string
	Alias string
	Raw   bool
}

// Expr raw expression, every ? in SQL takes the next var
type Expr struct {
	SQL                string
	Vars               []interface{}
	WithoutParentheses bool
}

// Build build raw expression
func (expr Expr) Build(builder Builder) {
	var idx int
	for _, v := range []byte(expr.SQL) {
		if v == '?' {
			if idx >= len(expr.Vars) {
				builder.AddError(fmt.Errorf("expression %q has more placeholders than its %d vars", expr.SQL, len(expr.Vars)))
				return
			}
			if expr.WithoutParentheses {
				if vars, ok := expr.Vars[idx].([]interface{}); ok {
					builder.AddVar(builder, vars...)
					idx++
					continue
				}
			}
			builder.AddVar(builder, expr.Vars[idx])
			idx++
		} else {
			builder.WriteByte(v)
		}
	}

	if idx < len(expr.Vars) {
		builder.AddError(fmt.Errorf("expression %q has %d placeholders for %d vars", expr.SQL, idx, len(expr.Vars)))
	}
}

// Literal is a value rendered inline instead of bound
type Literal struct {
	Value types.Value
}

func (lit Literal) Build(builder Builder) {
	builder.AddVar(builder, lit)
}

// CommaExpression joins expressions with commas
type CommaExpression struct {
	Exprs []Expression
}

func (comma CommaExpression) Build(builder Builder) {
	for idx, expr := range comma.Exprs {
		if idx > 0 {
			builder.WriteString(", ")
		}
		expr.Build(builder)
	}
}

// IN Whether a value is within a set of values
type IN struct {
	Column interface{}
	Values []interface{}
}

// MaxInListSize is the largest expression list Oracle accepts in one IN
const MaxInListSize = 1000

func (in IN) Build(builder Builder) {
	switch len(in.Values) {
	case 0:
		builder.WriteQuoted(in.Column)
		builder.WriteString(" IN (NULL)")
	case 1:
		builder.WriteQuoted(in.Column)
		if _, ok := in.Values[0].(Query); ok {
			builder.WriteString(" IN ")
		} else {
			builder.WriteString(" = ")
		}
		builder.AddVar(builder, in.Values...)
	default:
		in.buildChunks(builder, " IN (", " OR ")
	}
}

func (in IN) NegationBuild(builder Builder) {
	switch len(in.Values) {
	case 0:
		builder.WriteQuoted(in.Column)
		builder.WriteString(" IS NOT NULL")
	case 1:
		builder.WriteQuoted(in.Column)
		if _, ok := in.Values[0].(Query); ok {
			builder.WriteString(" NOT IN ")
		} else {
			builder.WriteString(" <> ")
		}
		builder.AddVar(builder, in.Values...)
	default:
		in.buildChunks(builder, " NOT IN (", " AND ")
	}
}

func (in IN) buildChunks(builder Builder, op, join string) {
	chunks := (len(in.Values) + MaxInListSize - 1) / MaxInListSize
	if chunks > 1 {
		builder.WriteByte('(')
	}
	for i := 0; i < chunks; i++ {
		if i > 0 {
			builder.WriteString(join)
		}
		end := min((i+1)*MaxInListSize, len(in.Values))
		builder.WriteQuoted(in.Column)
		builder.WriteString(op)
		builder.AddVar(builder, in.Values[i*MaxInListSize:end]...)
		builder.WriteByte(')')
	}
	if chunks > 1 {
		builder.WriteByte(')')
	}
}

// Eq equal to for where
type Eq struct {
	Column interface{}
	Value  interface{}
}

func (eq Eq) Build(builder Builder) {
	builder.WriteQuoted(eq.Column)

	if eqNil(eq.Value) {
		builder.WriteString(" IS NULL")
	} else {
		builder.WriteString(" = ")
		builder.AddVar(builder, eq.Value)
	}
}

func (eq Eq) NegationBuild(builder Builder) {
	Neq(eq).Build(builder)
}

// Neq not equal to for where
type Neq Eq

func (neq Neq) Build(builder Builder) {
	builder.WriteQuoted(neq.Column)

	if eqNil(neq.Value) {
		builder.WriteString(" IS NOT NULL")
	} else {
		builder.WriteString(" <> ")
		builder.AddVar(builder, neq.Value)
	}
}

func (neq Neq) NegationBuild(builder Builder) {
	Eq(neq).Build(builder)
}

// Gt greater than for where
type Gt Eq

func (gt Gt) Build(builder Builder) {
	builder.WriteQuoted(gt.Column)
	builder.WriteString(" > ")
	builder.AddVar(builder, gt.Value)
}

func (gt Gt) NegationBuild(builder Builder) {
	Lte(gt).Build(builder)
}

// Gte greater than or equal to for where
type Gte Eq

func (gte Gte) Build(builder Builder) {
	builder.WriteQuoted(gte.Column)
	builder.WriteString(" >= ")
	builder.AddVar(builder, gte.Value)
}

func (gte Gte) NegationBuild(builder Builder) {
	Lt(gte).Build(builder)
}

// Lt less than for where
type Lt Eq

func (lt Lt) Build(builder Builder) {
	builder.WriteQuoted(lt.Column)
	builder.WriteString(" < ")
	builder.AddVar(builder, lt.Value)
}

func (lt Lt) NegationBuild(builder Builder) {
	Gte(lt).Build(builder)
}

// Lte less than or equal to for where
type Lte Eq

func (lte Lte) Build(builder Builder) {
	builder.WriteQuoted(lte.Column)
	builder.WriteString(" <= ")
	builder.AddVar(builder, lte.Value)
}

func (lte Lte) NegationBuild(builder Builder) {
	Gt(lte).Build(builder)
}

// Like whether string matches regular expression
type Like Eq

func (like Like) Build(builder Builder) {
	builder.WriteQuoted(like.Column)
	builder.WriteString(" LIKE ")
	builder.AddVar(builder, like.Value)
}

func (like Like) NegationBuild(builder Builder) {
	builder.WriteQuoted(like.Column)
	builder.WriteString(" NOT LIKE ")
	builder.AddVar(builder, like.Value)
}

// eqNil reports a Go nil or an untyped or typed NULL value
func eqNil(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case types.Value:
		return v.IsNull()
	}
	return false
}

func containsAndOr(sql string) bool {
	sql = strings.ToLower(sql)
	return strings.Contains(sql, " and ") || strings.Contains(sql, " or ")
}
