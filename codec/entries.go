package codec

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/godror/godror"
	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"

	"gorm.io/oci/types"
)

// maxNumberDigits is the precision of an Oracle NUMBER
const maxNumberDigits = 38

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

func encodeBool(_ *Codec, v types.Value) (driver.Value, error) {
	if v.Bool() {
		return int64(1), nil
	}
	return int64(0), nil
}

func encodeInt(_ *Codec, v types.Value) (driver.Value, error) {
	return v.Int64(), nil
}

func encodeFloat(_ *Codec, v types.Value) (driver.Value, error) {
	return float64(float32(v.Float64())), nil
}

func encodeDouble(_ *Codec, v types.Value) (driver.Value, error) {
	return v.Float64(), nil
}

func encodeDecimal(_ *Codec, v types.Value) (driver.Value, error) {
	d := v.Decimal()
	if digits(d) > maxNumberDigits {
		return nil, encodeErr(types.Decimal, ErrOutOfRange, fmt.Errorf("%s exceeds %d digits", d, maxNumberDigits))
	}
	return godror.Number(d.String()), nil
}

func encodeText(c *Codec, v types.Value) (driver.Value, error) {
	if v.IsStream() || v.Len() > c.InlineText {
		return godror.Lob{Reader: v.Reader(), IsClob: true}, nil
	}
	s, err := v.Text()
	if err != nil {
		return nil, encodeErr(types.Text, ErrIncompatibleType, err)
	}
	return s, nil
}

func encodeBinary(c *Codec, v types.Value) (driver.Value, error) {
	if v.IsStream() || v.Len() > c.InlineBinary {
		return godror.Lob{Reader: v.Reader()}, nil
	}
	b, err := v.Bytes()
	if err != nil {
		return nil, encodeErr(types.Binary, ErrIncompatibleType, err)
	}
	return b, nil
}

// encodeNaive places the wall clock reading of a naive value in the session zone
func encodeNaive(c *Codec, v types.Value) (driver.Value, error) {
	t := v.Time()
	y, m, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, m, d, h, mi, s, t.Nanosecond(), c.Location), nil
}

func encodeTZ(_ *Codec, v types.Value) (driver.Value, error) {
	return v.Time(), nil
}

func decodeBool(_ *Codec, tag types.TypeTag, native interface{}) (types.Value, error) {
	if b, ok := native.(bool); ok {
		return types.BoolValue(b), nil
	}
	d, err := numeric(tag, native)
	if err != nil {
		return types.Value{}, err
	}
	switch {
	case d.IsZero():
		return types.BoolValue(false), nil
	case d.Equal(decimal.NewFromInt(1)):
		return types.BoolValue(true), nil
	}
	return types.Value{}, decodeErr(tag, native, ErrOutOfRange, fmt.Errorf("%s is not 0 or 1", d))
}

func decodeInt(_ *Codec, tag types.TypeTag, native interface{}) (types.Value, error) {
	if i, ok := native.(int64); ok {
		return intValue(tag, i, native)
	}
	d, err := numeric(tag, native)
	if err != nil {
		return types.Value{}, err
	}
	if !d.Equal(d.Truncate(0)) {
		return types.Value{}, decodeErr(tag, native, ErrOutOfRange, fmt.Errorf("%s is not a whole number", d))
	}
	if d.LessThan(minInt64) || d.GreaterThan(maxInt64) {
		return types.Value{}, decodeErr(tag, native, ErrOutOfRange, nil)
	}
	return intValue(tag, d.IntPart(), native)
}

func intValue(tag types.TypeTag, i int64, native interface{}) (types.Value, error) {
	switch tag {
	case types.SmallInt:
		if i < math.MinInt16 || i > math.MaxInt16 {
			return types.Value{}, decodeErr(tag, native, ErrOutOfRange, nil)
		}
		return types.SmallIntValue(int16(i)), nil
	case types.Integer:
		if i < math.MinInt32 || i > math.MaxInt32 {
			return types.Value{}, decodeErr(tag, native, ErrOutOfRange, nil)
		}
		return types.IntegerValue(int32(i)), nil
	}
	return types.BigIntValue(i), nil
}

func decodeFloat(_ *Codec, tag types.TypeTag, native interface{}) (types.Value, error) {
	var f float64
	switch n := native.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	default:
		d, err := numeric(tag, native)
		if err != nil {
			return types.Value{}, err
		}
		f = d.InexactFloat64()
	}
	if tag == types.Float {
		if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
			return types.Value{}, decodeErr(tag, native, ErrOutOfRange, nil)
		}
		return types.FloatValue(float32(f)), nil
	}
	return types.DoubleValue(f), nil
}

func decodeDecimal(_ *Codec, tag types.TypeTag, native interface{}) (types.Value, error) {
	d, err := numeric(tag, native)
	if err != nil {
		return types.Value{}, err
	}
	return types.DecimalValue(d), nil
}

// numeric reads any numeric native into an exact decimal
func numeric(tag types.TypeTag, native interface{}) (decimal.Decimal, error) {
	switch n := native.(type) {
	case int64:
		return decimal.NewFromInt(n), nil
	case int32:
		return decimal.NewFromInt32(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case uint64:
		return decimal.NewFromString(strconv.FormatUint(n, 10))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Decimal{}, decodeErr(tag, native, ErrOutOfRange, nil)
		}
		return decimal.NewFromFloat(n), nil
	case float32:
		if math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
			return decimal.Decimal{}, decodeErr(tag, native, ErrOutOfRange, nil)
		}
		return decimal.NewFromFloat32(n), nil
	case bool:
		if n {
			return decimal.NewFromInt(1), nil
		}
		return decimal.Zero, nil
	case decimal.Decimal:
		return n, nil
	case godror.Number:
		return parseDecimal(tag, native, string(n))
	case string:
		return parseDecimal(tag, native, n)
	case []byte:
		return parseDecimal(tag, native, string(n))
	}
	return decimal.Decimal{}, decodeErr(tag, native, ErrIncompatibleType, nil)
}

func parseDecimal(tag types.TypeTag, native interface{}, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, decodeErr(tag, native, ErrIncompatibleType, err)
	}
	return d, nil
}

func decodeText(c *Codec, tag types.TypeTag, native interface{}) (types.Value, error) {
	switch n := native.(type) {
	case string:
		return types.TextValue(n), nil
	case []byte:
		return types.TextValue(string(n)), nil
	case godror.Number:
		return types.TextValue(string(n)), nil
	case *godror.Lob:
		return decodeLOB(tag, n, c.InlineText)
	case godror.Lob:
		return decodeLOB(tag, &n, c.InlineText)
	case io.Reader:
		return types.TextStream(types.NewLOB(n, -1)), nil
	case time.Time:
		return types.TextValue(n.Format(time.RFC3339Nano)), nil
	case int64, float64:
		return types.TextValue(fmt.Sprint(n)), nil
	}
	return types.Value{}, decodeErr(tag, native, ErrIncompatibleType, nil)
}

func decodeBinary(c *Codec, tag types.TypeTag, native interface{}) (types.Value, error) {
	switch n := native.(type) {
	case []byte:
		return types.BinaryValue(n), nil
	case *godror.Lob:
		return decodeLOB(tag, n, c.InlineBinary)
	case godror.Lob:
		return decodeLOB(tag, &n, c.InlineBinary)
	case io.Reader:
		return types.BinaryStream(types.NewLOB(n, -1)), nil
	case string:
		return types.BinaryValue([]byte(n)), nil
	}
	return types.Value{}, decodeErr(tag, native, ErrIncompatibleType, nil)
}

// decodeLOB reads a LOB of at most limit into memory and streams larger
// ones. A LOB whose size the driver cannot report is streamed.
func decodeLOB(tag types.TypeTag, lob *godror.Lob, limit int) (types.Value, error) {
	size, err := lob.Size()
	if err != nil || size > int64(limit) {
		if err != nil {
			size = -1
		}
		if tag == types.Binary {
			return types.BinaryStream(types.NewLOB(lob, size)), nil
		}
		return types.TextStream(types.NewLOB(lob, size)), nil
	}

	data, err := io.ReadAll(lob)
	if err != nil {
		return types.Value{}, decodeErr(tag, lob, ErrIncompatibleType, err)
	}
	if tag == types.Binary {
		return types.BinaryValue(data), nil
	}
	return types.TextValue(string(data)), nil
}

func decodeTemporal(c *Codec, tag types.TypeTag, native interface{}) (types.Value, error) {
	var t time.Time
	switch n := native.(type) {
	case time.Time:
		t = n
	case string:
		parsed, err := parseTime(c, tag, n)
		if err != nil {
			return types.Value{}, decodeErr(tag, native, ErrIncompatibleType, err)
		}
		t = parsed
	case []byte:
		parsed, err := parseTime(c, tag, string(n))
		if err != nil {
			return types.Value{}, decodeErr(tag, native, ErrIncompatibleType, err)
		}
		t = parsed
	default:
		return types.Value{}, decodeErr(tag, native, ErrIncompatibleType, nil)
	}

	switch tag {
	case types.TimestampTZ:
		return types.TimestampTZValue(t), nil
	case types.Date:
		return types.DateValue(t.In(c.Location)), nil
	case types.Time:
		return types.TimeValue(t.In(c.Location)), nil
	}
	return types.TimestampValue(t.In(c.Location)), nil
}

// parseTime accepts RFC 3339 text for aware values and the layouts understood
// by jinzhu/now, read in the session zone, for naive ones
func parseTime(c *Codec, tag types.TypeTag, s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if tag == types.Time {
		// anchor clock-only text on the fixed date used for Time values
		return now.ParseInLocation(c.Location, "1970-01-01 "+s)
	}
	return now.ParseInLocation(c.Location, s)
}

func numberDest(_ *Codec) interface{} { return new(godror.Number) }

func textDest(_ *Codec) interface{} { return new(sql.NullString) }

func binaryDest(_ *Codec) interface{} { return new([]byte) }

func timeDest(_ *Codec) interface{} { return new(sql.NullTime) }

func derefOut(dest interface{}) interface{} {
	switch d := dest.(type) {
	case *godror.Number:
		if *d == "" {
			return nil
		}
		return *d
	case *sql.NullString:
		if !d.Valid {
			return nil
		}
		return d.String
	case *[]byte:
		if *d == nil {
			return nil
		}
		return *d
	case *sql.NullTime:
		if !d.Valid {
			return nil
		}
		return d.Time
	case *int64:
		return *d
	case *float64:
		return *d
	case *string:
		return *d
	case *time.Time:
		return *d
	}
	return dest
}

// digits counts the significant digits of d
func digits(d decimal.Decimal) int {
	c := d.Coefficient()
	if c.Sign() == 0 {
		return 1
	}
	s := c.String()
	if s[0] == '-' {
		s = s[1:]
	}
	end := len(s)
	for end > 1 && s[end-1] == '0' {
		end--
	}
	return end
}
