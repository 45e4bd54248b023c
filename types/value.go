package types

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnsupportedGoType is returned by ValueOf for Go values without an abstract type
var ErrUnsupportedGoType = errors.New("unsupported Go type")

// Value is one parameter or column value in the abstract type system.
//
// The zero Value is an untyped NULL. Naive temporal values (Date, Time,
// Timestamp) are stored as wall clock readings in time.UTC; TimestampTZ
// keeps the location it was built with.
type Value struct {
	tag   TypeTag
	valid bool
	i     int64
	f     float64
	d     decimal.Decimal
	s     string
	b     []byte
	t     time.Time
	lob   *LOB
}

// Null returns the NULL of the given type
func Null(tag TypeTag) Value {
	return Value{tag: tag}
}

func BoolValue(v bool) Value {
	var i int64
	if v {
		i = 1
	}
	return Value{tag: Bool, valid: true, i: i}
}

func SmallIntValue(v int16) Value {
	return Value{tag: SmallInt, valid: true, i: int64(v)}
}

func IntegerValue(v int32) Value {
	return Value{tag: Integer, valid: true, i: int64(v)}
}

func BigIntValue(v int64) Value {
	return Value{tag: BigInt, valid: true, i: v}
}

func FloatValue(v float32) Value {
	return Value{tag: Float, valid: true, f: float64(v)}
}

func DoubleValue(v float64) Value {
	return Value{tag: Double, valid: true, f: v}
}

func DecimalValue(v decimal.Decimal) Value {
	return Value{tag: Decimal, valid: true, d: v}
}

func TextValue(v string) Value {
	return Value{tag: Text, valid: true, s: v}
}

// BinaryValue keeps a copy of v so later writes by the caller are not observed
func BinaryValue(v []byte) Value {
	if v == nil {
		v = []byte{}
	}
	return Value{tag: Binary, valid: true, b: append([]byte(nil), v...)}
}

// TextStream returns a Text value backed by a streaming handle
func TextStream(lob *LOB) Value {
	return Value{tag: Text, valid: lob != nil, lob: lob}
}

// BinaryStream returns a Binary value backed by a streaming handle
func BinaryStream(lob *LOB) Value {
	return Value{tag: Binary, valid: lob != nil, lob: lob}
}

// DateValue keeps the calendar day of v, read in v's own location
func DateValue(v time.Time) Value {
	y, m, d := v.Date()
	return Value{tag: Date, valid: true, t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// TimeValue keeps the clock reading of v, read in v's own location
func TimeValue(v time.Time) Value {
	h, mi, s := v.Clock()
	return Value{tag: Time, valid: true, t: time.Date(1970, 1, 1, h, mi, s, v.Nanosecond(), time.UTC)}
}

// TimestampValue keeps the wall clock reading of v and drops its location
func TimestampValue(v time.Time) Value {
	return Value{tag: Timestamp, valid: true, t: wallClock(v)}
}

// TimestampTZValue keeps v together with its location
func TimestampTZValue(v time.Time) Value {
	return Value{tag: TimestampTZ, valid: true, t: v}
}

func wallClock(v time.Time) time.Time {
	y, m, d := v.Date()
	h, mi, s := v.Clock()
	return time.Date(y, m, d, h, mi, s, v.Nanosecond(), time.UTC)
}

// Tag returns the abstract type of v
func (v Value) Tag() TypeTag { return v.tag }

// IsNull reports whether v is a NULL of its type
func (v Value) IsNull() bool { return !v.valid }

// IsStream reports whether v is backed by a LOB handle
func (v Value) IsStream() bool { return v.lob != nil }

// LOB returns the streaming handle of v, nil for inline values
func (v Value) LOB() *LOB { return v.lob }

// Bool returns the boolean payload, numeric values are true when non zero
func (v Value) Bool() bool {
	switch v.tag {
	case Float, Double:
		return v.f != 0
	case Decimal:
		return !v.d.IsZero()
	}
	return v.i != 0
}

// Int64 returns the integer payload of Bool, SmallInt, Integer and BigInt values
func (v Value) Int64() int64 {
	switch v.tag {
	case Float, Double:
		return int64(v.f)
	case Decimal:
		return v.d.IntPart()
	}
	return v.i
}

// Float64 returns the floating point payload, converting other numerics
func (v Value) Float64() float64 {
	switch v.tag {
	case Float, Double:
		return v.f
	case Decimal:
		return v.d.InexactFloat64()
	}
	return float64(v.i)
}

// Decimal returns the payload of any numeric value as an exact decimal
func (v Value) Decimal() decimal.Decimal {
	switch v.tag {
	case Decimal:
		return v.d
	case Float:
		return decimal.NewFromFloat32(float32(v.f))
	case Double:
		return decimal.NewFromFloat(v.f)
	}
	return decimal.NewFromInt(v.i)
}

// Time returns the temporal payload
func (v Value) Time() time.Time { return v.t }

// Text returns the textual payload, materializing a LOB handle
func (v Value) Text() (string, error) {
	if v.lob != nil {
		data, err := v.lob.Bytes()
		return string(data), err
	}
	if v.tag == Binary {
		return string(v.b), nil
	}
	return v.s, nil
}

// Bytes returns the binary payload, materializing a LOB handle
func (v Value) Bytes() ([]byte, error) {
	if v.lob != nil {
		return v.lob.Bytes()
	}
	if v.tag == Text {
		return []byte(v.s), nil
	}
	return v.b, nil
}

// Reader streams a Text or Binary payload
func (v Value) Reader() io.Reader {
	switch {
	case v.lob != nil:
		return v.lob
	case v.tag == Text:
		return strings.NewReader(v.s)
	default:
		return bytes.NewReader(v.b)
	}
}

// Len returns the payload length of inline Text and Binary values, -1 for streams
func (v Value) Len() int {
	switch {
	case v.lob != nil:
		return -1
	case v.tag == Text:
		return len(v.s)
	case v.tag == Binary:
		return len(v.b)
	}
	return 0
}

// Interface returns the Go representation of v, nil for NULL
func (v Value) Interface() interface{} {
	if !v.valid {
		return nil
	}
	switch v.tag {
	case Bool:
		return v.i != 0
	case SmallInt:
		return int16(v.i)
	case Integer:
		return int32(v.i)
	case BigInt:
		return v.i
	case Float:
		return float32(v.f)
	case Double:
		return v.f
	case Decimal:
		return v.d
	case Text:
		if v.lob != nil {
			return v.lob
		}
		return v.s
	case Binary:
		if v.lob != nil {
			return v.lob
		}
		return v.b
	case Date, Time, Timestamp, TimestampTZ:
		return v.t
	}
	return nil
}

// Equal reports whether v and o have the same tag, nullness and payload.
// Streaming values are materialized for the comparison.
func (v Value) Equal(o Value) bool {
	if v.tag != o.tag || v.valid != o.valid {
		return false
	}
	if !v.valid {
		return true
	}
	switch v.tag {
	case Bool, SmallInt, Integer, BigInt:
		return v.i == o.i
	case Float, Double:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case Decimal:
		return v.d.Equal(o.d)
	case Text:
		a, errA := v.Text()
		b, errB := o.Text()
		return errA == nil && errB == nil && a == b
	case Binary:
		a, errA := v.Bytes()
		b, errB := o.Bytes()
		return errA == nil && errB == nil && bytes.Equal(a, b)
	case TimestampTZ:
		_, offA := v.t.Zone()
		_, offB := o.t.Zone()
		return v.t.Equal(o.t) && offA == offB
	case Date, Time, Timestamp:
		return v.t.Equal(o.t)
	}
	return false
}

func (v Value) String() string {
	if !v.valid {
		return "NULL"
	}
	switch v.tag {
	case Text, Binary:
		if v.lob != nil {
			return "<lob>"
		}
		if v.tag == Text {
			return v.s
		}
		return fmt.Sprintf("%x", v.b)
	case Date:
		return v.t.Format("2006-01-02")
	case Time:
		return v.t.Format("15:04:05.999999999")
	case Timestamp:
		return v.t.Format("2006-01-02 15:04:05.999999999")
	case TimestampTZ:
		return v.t.Format("2006-01-02 15:04:05.999999999 -07:00")
	case Decimal:
		return v.d.String()
	}
	return fmt.Sprint(v.Interface())
}

// ValueOf converts a Go value into a Value.
//
// time.Time becomes TimestampTZ since a Go time is always zone aware; use
// TimestampValue or DateValue for naive columns.
func ValueOf(src interface{}) (Value, error) {
	switch v := src.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return v, nil
	case *Value:
		if v == nil {
			return Value{}, nil
		}
		return *v, nil
	case bool:
		return BoolValue(v), nil
	case int8:
		return SmallIntValue(int16(v)), nil
	case int16:
		return SmallIntValue(v), nil
	case uint8:
		return SmallIntValue(int16(v)), nil
	case int32:
		return IntegerValue(v), nil
	case uint16:
		return IntegerValue(int32(v)), nil
	case int:
		return BigIntValue(int64(v)), nil
	case int64:
		return BigIntValue(v), nil
	case uint32:
		return BigIntValue(int64(v)), nil
	case uint:
		return unsignedValue(uint64(v))
	case uint64:
		return unsignedValue(v)
	case float32:
		return FloatValue(v), nil
	case float64:
		return DoubleValue(v), nil
	case decimal.Decimal:
		return DecimalValue(v), nil
	case string:
		return TextValue(v), nil
	case []byte:
		if v == nil {
			return Null(Binary), nil
		}
		return BinaryValue(v), nil
	case time.Time:
		return TimestampTZValue(v), nil
	case *LOB:
		return Value{}, fmt.Errorf("%w: %T needs TextStream or BinaryStream", ErrUnsupportedGoType, v)
	case sql.NullString:
		if !v.Valid {
			return Null(Text), nil
		}
		return TextValue(v.String), nil
	case sql.NullInt64:
		if !v.Valid {
			return Null(BigInt), nil
		}
		return BigIntValue(v.Int64), nil
	case sql.NullInt32:
		if !v.Valid {
			return Null(Integer), nil
		}
		return IntegerValue(v.Int32), nil
	case sql.NullInt16:
		if !v.Valid {
			return Null(SmallInt), nil
		}
		return SmallIntValue(v.Int16), nil
	case sql.NullFloat64:
		if !v.Valid {
			return Null(Double), nil
		}
		return DoubleValue(v.Float64), nil
	case sql.NullBool:
		if !v.Valid {
			return Null(Bool), nil
		}
		return BoolValue(v.Bool), nil
	case sql.NullTime:
		if !v.Valid {
			return Null(TimestampTZ), nil
		}
		return TimestampTZValue(v.Time), nil
	case driver.Valuer:
		nv, err := v.Value()
		if err != nil {
			return Value{}, err
		}
		return ValueOf(nv)
	}
	return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedGoType, src)
}

func unsignedValue(v uint64) (Value, error) {
	if v > math.MaxInt64 {
		return DecimalValue(decimal.RequireFromString(fmt.Sprint(v))), nil
	}
	return BigIntValue(int64(v)), nil
}
