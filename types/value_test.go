package types

import (
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueOf(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 30, 0, 0, time.FixedZone("CET", 3600))
	results := []struct {
		Src  interface{}
		Want Value
	}{
		{nil, Value{}},
		{true, BoolValue(true)},
		{int8(-3), SmallIntValue(-3)},
		{int16(7), SmallIntValue(7)},
		{int32(70000), IntegerValue(70000)},
		{42, BigIntValue(42)},
		{int64(-1), BigIntValue(-1)},
		{uint64(18446744073709551615), DecimalValue(decimal.RequireFromString("18446744073709551615"))},
		{float32(1.5), FloatValue(1.5)},
		{2.25, DoubleValue(2.25)},
		{decimal.RequireFromString("12.340"), DecimalValue(decimal.RequireFromString("12.34"))},
		{"abc", TextValue("abc")},
		{[]byte{1, 2}, BinaryValue([]byte{1, 2})},
		{[]byte(nil), Null(Binary)},
		{ts, TimestampTZValue(ts)},
		{sql.NullString{}, Null(Text)},
		{sql.NullInt64{Int64: 5, Valid: true}, BigIntValue(5)},
		{sql.NullTime{}, Null(TimestampTZ)},
	}

	for _, result := range results {
		got, err := ValueOf(result.Src)
		if err != nil {
			t.Fatalf("ValueOf(%#v) failed: %v", result.Src, err)
		}
		if !got.Equal(result.Want) {
			t.Errorf("ValueOf(%#v) expects %v (%v) got %v (%v)", result.Src, result.Want, result.Want.Tag(), got, got.Tag())
		}
	}
}

func TestValueOfUnsupported(t *testing.T) {
	_, err := ValueOf(struct{}{})
	assert.True(t, errors.Is(err, ErrUnsupportedGoType))

	_, err = ValueOf(NewLOB(strings.NewReader("x"), 1))
	assert.True(t, errors.Is(err, ErrUnsupportedGoType))
}

func TestNaiveTemporalDropsLocation(t *testing.T) {
	loc := time.FixedZone("X", -5*3600)
	src := time.Date(2023, 12, 31, 23, 15, 1, 500, loc)

	ts := TimestampValue(src)
	assert.Equal(t, time.UTC, ts.Time().Location())
	assert.Equal(t, 23, ts.Time().Hour())
	assert.Equal(t, 31, ts.Time().Day())

	d := DateValue(src)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), d.Time())

	tm := TimeValue(src)
	assert.Equal(t, time.Date(1970, 1, 1, 23, 15, 1, 500, time.UTC), tm.Time())
}

func TestTimestampTZEqualComparesOffset(t *testing.T) {
	a := time.Date(2024, 1, 1, 12, 0, 0, 0, time.FixedZone("A", 3600))
	b := a.In(time.UTC)

	assert.True(t, a.Equal(b))
	assert.False(t, TimestampTZValue(a).Equal(TimestampTZValue(b)))
	assert.True(t, TimestampTZValue(a).Equal(TimestampTZValue(a)))
}

func TestEqualNullness(t *testing.T) {
	assert.True(t, Null(Text).Equal(Null(Text)))
	assert.False(t, Null(Text).Equal(Null(Binary)))
	assert.False(t, Null(BigInt).Equal(BigIntValue(0)))
	assert.True(t, Value{}.IsNull())
	assert.Equal(t, Unknown, Value{}.Tag())
}

func TestBinaryValueCopies(t *testing.T) {
	src := []byte("abc")
	v := BinaryValue(src)
	src[0] = 'x'

	b, err := v.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), b)
}

func TestInterface(t *testing.T) {
	assert.Nil(t, Null(BigInt).Interface())
	assert.Equal(t, int16(3), SmallIntValue(3).Interface())
	assert.Equal(t, int32(3), IntegerValue(3).Interface())
	assert.Equal(t, true, BoolValue(true).Interface())
	assert.Equal(t, float32(0.5), FloatValue(0.5).Interface())
	assert.Equal(t, "x", TextValue("x").Interface())
}

func TestNumericConversions(t *testing.T) {
	v := DecimalValue(decimal.RequireFromString("10.75"))
	assert.Equal(t, int64(10), v.Int64())
	assert.Equal(t, 10.75, v.Float64())
	assert.True(t, v.Bool())

	assert.True(t, BigIntValue(7).Decimal().Equal(decimal.NewFromInt(7)))
	assert.True(t, FloatValue(1.25).Decimal().Equal(decimal.RequireFromString("1.25")))
}

func TestTextStream(t *testing.T) {
	payload := strings.Repeat("a", 10000)
	v := TextStream(NewLOB(strings.NewReader(payload), int64(len(payload))))

	assert.True(t, v.IsStream())
	assert.Equal(t, -1, v.Len())

	s, err := v.Text()
	require.NoError(t, err)
	assert.Equal(t, payload, s)

	// materialized payloads can still be read as a stream
	data, err := io.ReadAll(v.Reader())
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))
	assert.Equal(t, int64(len(payload)), v.LOB().Size())
}

func TestLOBConsumedByStreaming(t *testing.T) {
	lob := NewLOB(strings.NewReader("hello world"), -1)
	buf := make([]byte, 5)
	n, err := lob.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))

	_, err = lob.Bytes()
	assert.ErrorIs(t, err, ErrLOBConsumed)
}

func TestTagHelpers(t *testing.T) {
	assert.Equal(t, "TimestampTZ", TimestampTZ.String())
	assert.Equal(t, "TypeTag(99)", TypeTag(99).String())
	assert.False(t, TypeTag(99).Valid())
	assert.True(t, Integer.IsInteger())
	assert.False(t, Decimal.IsInteger())
	assert.True(t, Bool.IsNumeric())
	assert.True(t, Time.IsTemporal())
	assert.True(t, Binary.IsLOBCapable())
	assert.Len(t, Tags(), 13)
	assert.Equal(t, Bool, Tags()[0])
}
