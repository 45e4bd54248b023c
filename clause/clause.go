// Package clause is the backend-agnostic SQL syntax tree.
//
// Nodes only describe SQL; a dialect Builder decides how identifiers are
// quoted, how values are bound and how dialect specific constructs such as
// LIMIT or RETURNING are lowered.
package clause

// Interface clause interface
type Interface interface {
	Name() string
	Build(Builder)
}

// Writer writer interface
type Writer interface {
	WriteByte(byte) error
	WriteString(string) (int, error)
}

// Builder builder interface
type Builder interface {
	Writer
	WriteQuoted(field interface{})
	AddVar(Writer, ...interface{})
	AddError(error) error
}

// buildList writes each item separated by commas
func buildList[T any](builder Builder, items []T, build func(T)) {
	for idx, item := range items {
		if idx > 0 {
			builder.WriteByte(',')
		}
		build(item)
	}
}
