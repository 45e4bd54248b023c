package codec

import (
	"io"
	"strings"
	"time"

	"github.com/godror/godror"
	"github.com/shopspring/decimal"

	"gorm.io/oci/types"
)

// TagForDatabaseType maps a column type name reported by the driver to a tag.
// Unknown is returned for names it does not recognize.
func TagForDatabaseType(name string) types.TypeTag {
	name = strings.ToUpper(strings.TrimSpace(name))
	switch {
	case name == "":
		return types.Unknown
	case strings.HasPrefix(name, "TIMESTAMP") && strings.Contains(name, "TIME ZONE"):
		return types.TimestampTZ
	case strings.HasPrefix(name, "TIMESTAMP"), name == "DATE":
		return types.Timestamp
	case name == "BINARY_DOUBLE":
		return types.Double
	case name == "BINARY_FLOAT":
		return types.Float
	case name == "BOOLEAN":
		return types.Bool
	case strings.HasPrefix(name, "NUMBER"), name == "FLOAT", name == "INTEGER":
		return types.Decimal
	case name == "BLOB", name == "BFILE", strings.HasSuffix(name, "RAW"):
		return types.Binary
	case strings.Contains(name, "CHAR"), strings.HasSuffix(name, "CLOB"), name == "LONG", name == "ROWID", name == "UROWID":
		return types.Text
	}
	return types.Unknown
}

// TagForNative guesses the tag of a native value when nothing better is known
func TagForNative(native interface{}) types.TypeTag {
	switch n := native.(type) {
	case bool:
		return types.Bool
	case int64, int32, int:
		return types.BigInt
	case float32:
		return types.Float
	case float64:
		return types.Double
	case godror.Number, decimal.Decimal:
		return types.Decimal
	case string:
		return types.Text
	case []byte:
		return types.Binary
	case time.Time:
		return types.TimestampTZ
	case *godror.Lob:
		if n.IsClob {
			return types.Text
		}
		return types.Binary
	case io.Reader:
		return types.Binary
	}
	return types.Unknown
}
