package clause

import "errors"

var errEmptyWith = errors.New("WITH expression needs a name and a query")

// Kind of a statement
type Kind uint8

const (
	KindSelect Kind = iota + 1
	KindInsert
	KindUpdate
	KindDelete
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "SELECT"
	case KindInsert:
		return "INSERT"
	case KindUpdate:
		return "UPDATE"
	case KindDelete:
		return "DELETE"
	case KindRaw:
		return "RAW"
	}
	return "UNKNOWN"
}

// Query is a complete statement. Queries are values; building one never
// modifies it, and a Query passed as a var is built inline as a subquery.
type Query interface {
	Kind() Kind
}

// SelectQuery SELECT statement
type SelectQuery struct {
	With    With
	Select  Select
	From    From
	Where   Where
	GroupBy GroupBy
	OrderBy OrderBy
	Limit   Limit
	Locking *Locking
}

func (SelectQuery) Kind() Kind { return KindSelect }

// InsertQuery INSERT statement, from Values or from a Select
type InsertQuery struct {
	Insert     Insert
	Values     Values
	Select     *SelectQuery
	Returning  Returning
	OnConflict *OnConflict
}

func (InsertQuery) Kind() Kind { return KindInsert }

// UpdateQuery UPDATE statement
type UpdateQuery struct {
	Table     Table
	Set       Set
	Where     Where
	Returning Returning
}

func (UpdateQuery) Kind() Kind { return KindUpdate }

// DeleteQuery DELETE statement
type DeleteQuery struct {
	Table     Table
	Where     Where
	Returning Returning
}

func (DeleteQuery) Kind() Kind { return KindDelete }

// RawQuery is SQL written by hand with ? placeholders. Columns optionally
// types the result set, NoCache keeps the statement out of the session cache.
type RawQuery struct {
	SQL     string
	Vars    []interface{}
	Columns []Column
	NoCache bool
}

func (RawQuery) Kind() Kind { return KindRaw }
