package dialect

import (
	"crypto/sha1"
	"fmt"
	"unicode/utf8"

	"gorm.io/oci/clause"
	"gorm.io/oci/types"
)

// SearchBlob returns a condition matching rows whose BLOB column contains needle
func SearchBlob(column string, needle string) clause.Expression {
	// oracle requires some hoop jumping to search []byte stored as BLOB
	return clause.Expr{
		SQL:  "dbms_lob.instr(?, utl_raw.cast_to_raw(?), 1, 1) > 0",
		Vars: []interface{}{clause.Column{Name: column}, types.TextValue(needle)},
	}
}

// ShortName keeps names within MaxIdentifierLength, replacing the tail of a
// longer name with a hash of the whole so distinct names stay distinct
func ShortName(name string) string {
	if utf8.RuneCountInString(name) <= MaxIdentifierLength {
		return name
	}

	sum := fmt.Sprintf("%x", sha1.Sum([]byte(name)))[:8]
	runes := []rune(name)
	keep := MaxIdentifierLength - len(sum) - 1
	return string(runes[:keep]) + "_" + sum
}

// DataTypeOf returns the Oracle column type storing tag; size is the
// character or byte length for Text and Binary, 0 for the LOB form
func DataTypeOf(tag types.TypeTag, size int) string {
	switch tag {
	case types.Bool:
		return "NUMBER(1)"
	case types.SmallInt:
		return "NUMBER(5)"
	case types.Integer:
		return "NUMBER(10)"
	case types.BigInt:
		return "NUMBER(19)"
	case types.Float:
		return "BINARY_FLOAT"
	case types.Double:
		return "BINARY_DOUBLE"
	case types.Decimal:
		return "NUMBER"
	case types.Text:
		if size > 0 && size <= 4000 {
			return fmt.Sprintf("VARCHAR2(%d CHAR)", size)
		}
		return "CLOB"
	case types.Binary:
		if size > 0 && size <= 2000 {
			return fmt.Sprintf("RAW(%d)", size)
		}
		return "BLOB"
	case types.Date:
		return "DATE"
	case types.Time, types.Timestamp:
		return "TIMESTAMP"
	case types.TimestampTZ:
		return "TIMESTAMP WITH TIME ZONE"
	}
	return ""
}
