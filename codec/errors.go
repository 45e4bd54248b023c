package codec

import (
	"errors"
	"fmt"

	"gorm.io/oci/types"
)

var (
	// ErrBindMismatch bound values do not match the statement's bind slots
	ErrBindMismatch = errors.New("bind mismatch")
	// ErrNullViolation native null decoded into a non-nullable slot
	ErrNullViolation = errors.New("null into non-nullable slot")
	// ErrOutOfRange numeric value does not fit the target type
	ErrOutOfRange = errors.New("value out of range")
	// ErrIncompatibleType value cannot be represented by the target type
	ErrIncompatibleType = errors.New("incompatible type")
)

// Direction of a conversion
type Direction uint8

const (
	Encoding Direction = iota
	Decoding
)

func (d Direction) String() string {
	if d == Decoding {
		return "decode"
	}
	return "encode"
}

// ConversionError reports a failed conversion between a Value and a native value
type ConversionError struct {
	Type      types.TypeTag
	Direction Direction
	Native    interface{}
	Err       error
	Cause     error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Direction, e.Type, e.Err)
	if e.Native != nil {
		msg += fmt.Sprintf(" (native %T)", e.Native)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConversionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func encodeErr(tag types.TypeTag, err error, cause error) error {
	return &ConversionError{Type: tag, Direction: Encoding, Err: err, Cause: cause}
}

func decodeErr(tag types.TypeTag, native interface{}, err error, cause error) error {
	return &ConversionError{Type: tag, Direction: Decoding, Native: native, Err: err, Cause: cause}
}
