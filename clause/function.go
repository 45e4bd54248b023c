package clause

// DateWithoutTime truncates a DATE or TIMESTAMP column to its day
type DateWithoutTime struct {
	Column Column
	Alias  string
}

func (fnc DateWithoutTime) Build(builder Builder) {
	builder.WriteString("TRUNC(")
	builder.WriteQuoted(fnc.Column)
	builder.WriteByte(')')
	if fnc.Alias != "" {
		builder.WriteString(" AS ")
		builder.WriteQuoted(fnc.Alias)
	}
}

// Count is COUNT(*), or COUNT of a column when one is set
type Count struct {
	Column   *Column
	Distinct bool
	Alias    string
}

func (cnt Count) Build(builder Builder) {
	builder.WriteString("COUNT(")
	if cnt.Distinct {
		builder.WriteString("DISTINCT ")
	}
	if cnt.Column != nil {
		builder.WriteQuoted(*cnt.Column)
	} else {
		builder.WriteByte('*')
	}
	builder.WriteByte(')')
	if cnt.Alias != "" {
		builder.WriteString(" AS ")
		builder.WriteQuoted(cnt.Alias)
	}
}
