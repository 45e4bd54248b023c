package codec

import (
	"fmt"

	"gorm.io/oci/types"
)

// widening lists the value tags each slot accepts besides its own
var widening = map[types.TypeTag][]types.TypeTag{
	types.Integer:   {types.SmallInt},
	types.BigInt:    {types.SmallInt, types.Integer},
	types.Decimal:   {types.SmallInt, types.Integer, types.BigInt},
	types.Double:    {types.Float},
	types.Timestamp: {types.Date},
}

// CheckSlot reports whether v may be bound to a slot of type slot.
//
// Untyped NULLs and Unknown slots accept anything. A timezone-aware value
// offered to a naive temporal slot fails with ErrIncompatibleType, any
// other mismatch with ErrBindMismatch.
func CheckSlot(slot types.TypeTag, v types.Value) error {
	tag := v.Tag()
	if slot == types.Unknown || tag == slot || (tag == types.Unknown && v.IsNull()) {
		return nil
	}
	for _, t := range widening[slot] {
		if t == tag {
			return nil
		}
	}
	if tag == types.TimestampTZ && slot.IsTemporal() {
		return encodeErr(slot, ErrIncompatibleType, fmt.Errorf("timezone-aware value into naive %s", slot))
	}
	return fmt.Errorf("%w: %s value for %s slot", ErrBindMismatch, tag, slot)
}

// CheckSlots validates values against slots before any of them is encoded
func CheckSlots(slots []types.TypeTag, values []types.Value) error {
	if len(slots) != len(values) {
		return fmt.Errorf("%w: statement has %d binds, got %d values", ErrBindMismatch, len(slots), len(values))
	}
	for idx, v := range values {
		if err := CheckSlot(slots[idx], v); err != nil {
			return fmt.Errorf("bind :%d: %w", idx+1, err)
		}
	}
	return nil
}
