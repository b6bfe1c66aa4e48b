package flightplan

import (
	"encoding/binary"
	"fmt"

	"github.com/joalopez1206/suchai/internal/types"
)

// On-media layout of one TLB slot, little-endian, 8 bytes:
//
//	0  int32 addr      flash byte offset, -1 when empty
//	4  int32 unixtime  scheduled time, -1 when empty
//
// A TLB image of n logical slots carries n+1 slots on media; the last one is
// metadata whose addr field is the count of flash slots ever allocated. An
// all-0xFF image (erased medium) decodes as every field -1, i.e. the empty
// table, which is what a cold boot expects.

// MarshalTLB serializes the slot array.
func MarshalTLB(slots []types.TLBSlot) []byte {
	data := make([]byte, len(slots)*types.TLBEntrySize)
	endian := binary.LittleEndian
	for i, s := range slots {
		off := i * types.TLBEntrySize
		endian.PutUint32(data[off:], uint32(s.Addr))
		endian.PutUint32(data[off+4:], uint32(s.Unixtime))
	}
	return data
}

// MarshalTLBSlot serializes a single slot.
func MarshalTLBSlot(slot types.TLBSlot) []byte {
	data := make([]byte, types.TLBEntrySize)
	endian := binary.LittleEndian
	endian.PutUint32(data[0:], uint32(slot.Addr))
	endian.PutUint32(data[4:], uint32(slot.Unixtime))
	return data
}

// UnmarshalTLB parses count slots from an on-media image.
func UnmarshalTLB(data []byte, count int) ([]types.TLBSlot, error) {
	if len(data) < count*types.TLBEntrySize {
		return nil, fmt.Errorf("data too small for %d TLB slots: %d bytes", count, len(data))
	}
	endian := binary.LittleEndian
	slots := make([]types.TLBSlot, count)
	for i := range slots {
		off := i * types.TLBEntrySize
		slots[i].Addr = int32(endian.Uint32(data[off:]))
		slots[i].Unixtime = int32(endian.Uint32(data[off+4:]))
	}
	return slots, nil
}
