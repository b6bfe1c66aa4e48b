package types

import "math"

// Flash and FRAM geometry defaults. The flight model uses an S25FL512S NOR
// flash (256 KiB erase sections, 512-byte program pages) and an FM33256B
// FRAM (32 KiB, byte addressable). Writes must never cross a page boundary:
// the NOR part wraps to the start of the page instead of advancing.
const (
	// PageSize is the flash write-boundary unit in bytes.
	PageSize = 512

	// SectionSize is the flash erase unit in bytes.
	SectionSize = 256 * 1024

	// FramSize is the total FRAM capacity in bytes.
	FramSize = 32 * 1024
)

// Flight plan entry limits. The on-media entry is fixed at exactly one flash
// page so a single write can never straddle a page boundary.
const (
	// CmdMaxStrName is the fixed size of the command name field.
	CmdMaxStrName = 248

	// CmdMaxStrParams is the fixed size of the command arguments field.
	CmdMaxStrParams = 248

	// FPEntrySize is the on-media size of a flight plan entry.
	FPEntrySize = 512

	// TLBEntrySize is the on-media size of one TLB slot.
	TLBEntrySize = 8
)

// FPNull marks an empty flight plan slot, both for the unixtime and the
// flash address fields of a TLB slot.
const FPNull int32 = -1

// PayloadStrSize is the fixed size of a %s field inside a payload record.
const PayloadStrSize = 32

// Value32 is a 32-bit status value. The same bits are read back as a signed
// integer, an unsigned integer or an IEEE 754 float depending on the access,
// there is no stored discriminator.
type Value32 uint32

// IntValue builds a Value32 from a signed integer.
func IntValue(i int32) Value32 {
	return Value32(uint32(i))
}

// FloatValue builds a Value32 from a float.
func FloatValue(f float32) Value32 {
	return Value32(math.Float32bits(f))
}

// Int reinterprets the value as a signed integer.
func (v Value32) Int() int32 {
	return int32(uint32(v))
}

// Uint reinterprets the value as an unsigned integer.
func (v Value32) Uint() uint32 {
	return uint32(v)
}

// Float reinterprets the value as a float.
func (v Value32) Float() float32 {
	return math.Float32frombits(uint32(v))
}
