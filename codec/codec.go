// Package codec converts between the abstract Value model and the native
// values exchanged with the Oracle driver.
//
// Every type tag has one entry in a dispatch table holding its encoder, its
// decoder and its out-bind destination; adding a type means adding one entry.
package codec

import (
	"database/sql/driver"
	"fmt"
	"time"

	"gorm.io/oci/types"
)

const (
	// DefaultInlineText is the largest text bound inline, VARCHAR2 limit in bytes
	DefaultInlineText = 4000
	// DefaultInlineBinary is the largest binary bound inline, RAW limit in bytes
	DefaultInlineBinary = 2000
)

type entry struct {
	encode  func(c *Codec, v types.Value) (driver.Value, error)
	decode  func(c *Codec, tag types.TypeTag, native interface{}) (types.Value, error)
	outDest func(c *Codec) interface{}
}

var table map[types.TypeTag]entry

func init() {
	table = map[types.TypeTag]entry{
		types.Bool:        {encode: encodeBool, decode: decodeBool, outDest: numberDest},
		types.SmallInt:    {encode: encodeInt, decode: decodeInt, outDest: numberDest},
		types.Integer:     {encode: encodeInt, decode: decodeInt, outDest: numberDest},
		types.BigInt:      {encode: encodeInt, decode: decodeInt, outDest: numberDest},
		types.Float:       {encode: encodeFloat, decode: decodeFloat, outDest: numberDest},
		types.Double:      {encode: encodeDouble, decode: decodeFloat, outDest: numberDest},
		types.Decimal:     {encode: encodeDecimal, decode: decodeDecimal, outDest: numberDest},
		types.Text:        {encode: encodeText, decode: decodeText, outDest: textDest},
		types.Binary:      {encode: encodeBinary, decode: decodeBinary, outDest: binaryDest},
		types.Date:        {encode: encodeNaive, decode: decodeTemporal, outDest: timeDest},
		types.Time:        {encode: encodeNaive, decode: decodeTemporal, outDest: timeDest},
		types.Timestamp:   {encode: encodeNaive, decode: decodeTemporal, outDest: timeDest},
		types.TimestampTZ: {encode: encodeTZ, decode: decodeTemporal, outDest: timeDest},
	}
}

// Codec holds the per-session conversion settings
type Codec struct {
	// Location is the session time zone naive temporal values are read and written in
	Location *time.Location
	// InlineText is the largest Text payload in bytes bound without a LOB,
	// and the largest fetched CLOB read into memory instead of streamed
	InlineText int
	// InlineBinary is the largest Binary payload in bytes bound without a LOB,
	// and the largest fetched BLOB read into memory instead of streamed
	InlineBinary int
}

// Default converts naive temporal values in UTC with the Oracle inline limits
var Default = New(time.UTC, 0)

// New returns a codec for loc; a positive inlineThreshold lowers both inline limits
func New(loc *time.Location, inlineThreshold int) *Codec {
	if loc == nil {
		loc = time.UTC
	}
	c := &Codec{Location: loc, InlineText: DefaultInlineText, InlineBinary: DefaultInlineBinary}
	if inlineThreshold > 0 {
		c.InlineText = min(inlineThreshold, DefaultInlineText)
		c.InlineBinary = min(inlineThreshold, DefaultInlineBinary)
	}
	return c
}

// Encode converts v into the native value bound to a slot of type slot.
// An Unknown slot accepts any value and is encoded by the value's own tag.
func (c *Codec) Encode(slot types.TypeTag, v types.Value) (driver.Value, error) {
	if err := CheckSlot(slot, v); err != nil {
		return nil, err
	}
	if v.IsNull() {
		return nil, nil
	}
	tag := slot
	if tag == types.Unknown {
		tag = v.Tag()
	}
	e, ok := table[tag]
	if !ok {
		return nil, encodeErr(tag, ErrIncompatibleType, fmt.Errorf("no encoder for %s", tag))
	}
	return e.encode(c, v)
}

// EncodeAll checks every value against its slot, then encodes them in order
func (c *Codec) EncodeAll(slots []types.TypeTag, values []types.Value) ([]driver.Value, error) {
	if err := CheckSlots(slots, values); err != nil {
		return nil, err
	}
	natives := make([]driver.Value, len(values))
	for idx, v := range values {
		native, err := c.Encode(slots[idx], v)
		if err != nil {
			return nil, fmt.Errorf("bind :%d: %w", idx+1, err)
		}
		natives[idx] = native
	}
	return natives, nil
}

// Decode converts a native value fetched for a slot of type tag.
// A native nil is a NULL of tag, or ErrNullViolation when nullable is false.
// An Unknown tag is resolved from the native value.
func (c *Codec) Decode(tag types.TypeTag, nullable bool, native interface{}) (types.Value, error) {
	if tag == types.Unknown {
		tag = TagForNative(native)
	}
	if native == nil {
		if !nullable {
			return types.Value{}, decodeErr(tag, nil, ErrNullViolation, nil)
		}
		return types.Null(tag), nil
	}
	e, ok := table[tag]
	if !ok {
		return types.Value{}, decodeErr(tag, native, ErrIncompatibleType, nil)
	}
	return e.decode(c, tag, native)
}

// OutDest returns a fresh out-bind destination for a RETURNING column of type tag
func (c *Codec) OutDest(tag types.TypeTag) (interface{}, error) {
	e, ok := table[tag]
	if !ok {
		return nil, encodeErr(tag, ErrIncompatibleType, fmt.Errorf("no out-bind for %s", tag))
	}
	return e.outDest(c), nil
}

// DecodeOut decodes an out-bind destination returned by OutDest
func (c *Codec) DecodeOut(tag types.TypeTag, nullable bool, dest interface{}) (types.Value, error) {
	return c.Decode(tag, nullable, derefOut(dest))
}
