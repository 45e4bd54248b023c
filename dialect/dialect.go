// Package dialect lowers clause queries to Oracle SQL.
package dialect

import (
	"gorm.io/oci/clause"
	"gorm.io/oci/types"
)

// ColumnSlot is one typed column of a result set or of a RETURNING list
type ColumnSlot struct {
	Name    string
	Type    types.TypeTag
	NotNull bool
}

// Statement is the SQL text generated for one query together with its bind
// slots. Binds are numbered :1..:n in the order of Binds; Returning out-binds
// follow as :n+1..
type Statement struct {
	SQL   string
	Binds []types.TypeTag
	// Vars are the values collected from the query, in bind order
	Vars      []types.Value
	Columns   []ColumnSlot
	Returning []ColumnSlot
	NoCache   bool
	// ManyRows is set on UPDATE and DELETE, which may change any number of rows
	ManyRows bool
	// TrailingHidden counts bookkeeping columns appended to each row by
	// pagination that callers never see
	TrailingHidden int
}

// Oracle is the Oracle query builder. It is stateless and safe for
// concurrent use; the same query always yields the same Statement.
type Oracle struct{}

// Build lowers q. Errors wrap ErrUnsupportedConstruct.
func (Oracle) Build(q clause.Query) (*Statement, error) {
	b := &builder{}
	stmt := &Statement{}

	switch v := q.(type) {
	case clause.SelectQuery:
		stmt.Columns, stmt.TrailingHidden = b.buildSelect(v)
	case *clause.SelectQuery:
		stmt.Columns, stmt.TrailingHidden = b.buildSelect(*v)
	case clause.InsertQuery:
		stmt.Returning = b.buildInsert(v)
	case *clause.InsertQuery:
		stmt.Returning = b.buildInsert(*v)
	case clause.UpdateQuery:
		stmt.Returning, stmt.ManyRows = b.buildUpdate(v), true
	case *clause.UpdateQuery:
		stmt.Returning, stmt.ManyRows = b.buildUpdate(*v), true
	case clause.DeleteQuery:
		stmt.Returning, stmt.ManyRows = b.buildDelete(v), true
	case *clause.DeleteQuery:
		stmt.Returning, stmt.ManyRows = b.buildDelete(*v), true
	case clause.RawQuery:
		stmt.Columns, stmt.NoCache = b.buildRaw(v)
	case *clause.RawQuery:
		stmt.Columns, stmt.NoCache = b.buildRaw(*v)
	case nil:
		return nil, unsupported("QUERY", "nil query")
	default:
		return nil, unsupported("QUERY", "%T", q)
	}

	if b.err != nil {
		return nil, b.err
	}

	stmt.SQL = b.sql.String()
	stmt.Binds = b.binds
	stmt.Vars = b.vars
	return stmt, nil
}
