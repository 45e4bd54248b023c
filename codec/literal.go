package codec

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gorm.io/oci/types"
)

// FormatLiteral renders v as an Oracle SQL literal.
// Bool becomes 1 or 0, matching the NUMBER(1) it is stored in.
func FormatLiteral(v types.Value) (string, error) {
	if v.IsNull() {
		return "NULL", nil
	}
	switch v.Tag() {
	case types.Bool:
		if v.Bool() {
			return "1", nil
		}
		return "0", nil
	case types.SmallInt, types.Integer, types.BigInt:
		return strconv.FormatInt(v.Int64(), 10), nil
	case types.Decimal:
		return v.Decimal().String(), nil
	case types.Float, types.Double:
		return floatLiteral(v), nil
	case types.Text:
		if v.IsStream() {
			return "", encodeErr(types.Text, ErrIncompatibleType, fmt.Errorf("streaming value has no literal form"))
		}
		s, _ := v.Text()
		return "'" + strings.ReplaceAll(s, "'", "''") + "'", nil
	case types.Binary:
		if v.IsStream() {
			return "", encodeErr(types.Binary, ErrIncompatibleType, fmt.Errorf("streaming value has no literal form"))
		}
		b, _ := v.Bytes()
		return "HEXTORAW('" + strings.ToUpper(hex.EncodeToString(b)) + "')", nil
	case types.Date:
		return "DATE '" + v.Time().Format("2006-01-02") + "'", nil
	case types.Time, types.Timestamp:
		return "TIMESTAMP '" + v.Time().Format("2006-01-02 15:04:05.999999999") + "'", nil
	case types.TimestampTZ:
		return "TIMESTAMP '" + v.Time().Format("2006-01-02 15:04:05.999999999 -07:00") + "'", nil
	}
	return "", encodeErr(v.Tag(), ErrIncompatibleType, fmt.Errorf("no literal form"))
}

func floatLiteral(v types.Value) string {
	suffix, kind := "d", "DOUBLE"
	bits := 64
	if v.Tag() == types.Float {
		suffix, kind, bits = "f", "FLOAT", 32
	}
	f := v.Float64()
	switch {
	case math.IsNaN(f):
		return "BINARY_" + kind + "_NAN"
	case math.IsInf(f, 1):
		return "BINARY_" + kind + "_INFINITY"
	case math.IsInf(f, -1):
		return "-BINARY_" + kind + "_INFINITY"
	}
	return strconv.FormatFloat(f, 'E', -1, bits) + suffix
}
