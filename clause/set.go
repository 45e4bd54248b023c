package clause

import "errors"

// ErrEmptySet is reported when an update assigns no column
var ErrEmptySet = errors.New("update without assignments")

type Set []Assignment

type Assignment struct {
	Column Column
	Value  interface{}
}

func (set Set) Name() string {
	return "SET"
}

func (set Set) Build(builder Builder) {
	if len(set) == 0 {
		builder.AddError(ErrEmptySet)
		return
	}

	buildList(builder, set, func(assignment Assignment) {
		builder.WriteQuoted(assignment.Column)
		builder.WriteByte('=')
		builder.AddVar(builder, assignment.Value)
	})
}

// Assignments builds a Set from column names to values, in column order
func Assignments(columns []string, values map[string]interface{}) Set {
	set := make(Set, 0, len(columns))
	for _, name := range columns {
		set = append(set, Assignment{Column: Column{Name: name}, Value: values[name]})
	}
	return set
}
