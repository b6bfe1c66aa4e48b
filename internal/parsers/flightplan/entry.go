package flightplan

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/joalopez1206/suchai/internal/types"
)

// On-media layout of a flight plan entry, little-endian, 512 bytes total:
//
//	0   int32 unixtime
//	4   int32 executions
//	8   int32 periodical
//	12  int32 node
//	16  byte  cmd[248]   null padded
//	264 byte  args[248]  null padded
//
// One entry fills exactly one flash page so a single page program never
// straddles a page boundary.
const (
	offUnixtime   = 0
	offExecutions = 4
	offPeriodical = 8
	offNode       = 12
	offCmd        = 16
	offArgs       = offCmd + types.CmdMaxStrName
)

// MarshalEntry serializes an entry into a fresh FPEntrySize buffer. Cmd and
// Args longer than their fields are truncated; shorter ones are zero padded.
func MarshalEntry(entry *types.FPEntry) ([]byte, error) {
	if entry == nil {
		return nil, fmt.Errorf("flight plan entry is nil")
	}

	data := make([]byte, types.FPEntrySize)
	endian := binary.LittleEndian

	endian.PutUint32(data[offUnixtime:], uint32(entry.Unixtime))
	endian.PutUint32(data[offExecutions:], uint32(entry.Executions))
	endian.PutUint32(data[offPeriodical:], uint32(entry.Periodical))
	endian.PutUint32(data[offNode:], uint32(entry.Node))
	copy(data[offCmd:offCmd+types.CmdMaxStrName], entry.Cmd)
	copy(data[offArgs:offArgs+types.CmdMaxStrParams], entry.Args)

	return data, nil
}

// UnmarshalEntry parses an on-media entry. Trailing bytes after the first
// null of each string field are undefined on media and are dropped.
func UnmarshalEntry(data []byte) (*types.FPEntry, error) {
	if len(data) < types.FPEntrySize {
		return nil, fmt.Errorf("data too small for flight plan entry: %d bytes", len(data))
	}

	endian := binary.LittleEndian
	entry := &types.FPEntry{
		Unixtime:   int32(endian.Uint32(data[offUnixtime:])),
		Executions: int32(endian.Uint32(data[offExecutions:])),
		Periodical: int32(endian.Uint32(data[offPeriodical:])),
		Node:       int32(endian.Uint32(data[offNode:])),
		Cmd:        fixedString(data[offCmd : offCmd+types.CmdMaxStrName]),
		Args:       fixedString(data[offArgs : offArgs+types.CmdMaxStrParams]),
	}
	return entry, nil
}

// fixedString returns the bytes up to the first null of a fixed-size field.
func fixedString(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		return string(field[:i])
	}
	return string(field)
}
