// Package types defines the abstract SQL type system shared by the query
// builder, the codec and the session: a closed set of type tags and the
// tagged Value that carries one parameter or column value.
package types

import "strconv"

// TypeTag identifies an abstract SQL type
type TypeTag uint8

const (
	// Unknown is only valid for untyped NULL values and untyped raw columns
	Unknown TypeTag = iota
	Bool
	SmallInt
	Integer
	BigInt
	Float
	Double
	Decimal
	Text
	Binary
	Date
	Time
	Timestamp
	// TimestampTZ is a timezone-aware timestamp
	TimestampTZ
)

var tagNames = [...]string{
	Unknown:     "Unknown",
	Bool:        "Bool",
	SmallInt:    "SmallInt",
	Integer:     "Integer",
	BigInt:      "BigInt",
	Float:       "Float",
	Double:      "Double",
	Decimal:     "Decimal",
	Text:        "Text",
	Binary:      "Binary",
	Date:        "Date",
	Time:        "Time",
	Timestamp:   "Timestamp",
	TimestampTZ: "TimestampTZ",
}

func (t TypeTag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "TypeTag(" + strconv.Itoa(int(t)) + ")"
}

// Valid reports whether t is one of the declared tags
func (t TypeTag) Valid() bool {
	return t <= TimestampTZ
}

// IsInteger reports whether t is stored as a whole number
func (t TypeTag) IsInteger() bool {
	return t == SmallInt || t == Integer || t == BigInt
}

// IsNumeric reports whether t is lowered to an Oracle NUMBER or BINARY_* column
func (t TypeTag) IsNumeric() bool {
	switch t {
	case Bool, SmallInt, Integer, BigInt, Float, Double, Decimal:
		return true
	}
	return false
}

// IsTemporal reports whether t is a date or time type
func (t TypeTag) IsTemporal() bool {
	switch t {
	case Date, Time, Timestamp, TimestampTZ:
		return true
	}
	return false
}

// IsLOBCapable reports whether values of t may be bound or fetched as large objects
func (t TypeTag) IsLOBCapable() bool {
	return t == Text || t == Binary
}

// Tags lists every declared tag except Unknown, in declaration order
func Tags() []TypeTag {
	tags := make([]TypeTag, 0, len(tagNames)-1)
	for t := Bool; t <= TimestampTZ; t++ {
		tags = append(tags, t)
	}
	return tags
}
