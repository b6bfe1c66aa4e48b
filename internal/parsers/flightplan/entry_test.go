package flightplan

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joalopez1206/suchai/internal/types"
)

func TestMarshalEntrySize(t *testing.T) {
	data, err := MarshalEntry(&types.FPEntry{Unixtime: 100, Cmd: "obc_reset"})
	require.NoError(t, err)
	assert.Len(t, data, types.FPEntrySize)
}

func TestMarshalEntryNil(t *testing.T) {
	_, err := MarshalEntry(nil)
	assert.Error(t, err)
}

func TestEntryRoundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		entry types.FPEntry
	}{
		{
			name: "plain command",
			entry: types.FPEntry{
				Unixtime:   1680000000,
				Executions: 1,
				Periodical: 0,
				Node:       1,
				Cmd:        "tm_send_status",
				Args:       "10",
			},
		},
		{
			name: "periodic command",
			entry: types.FPEntry{
				Unixtime:   1680003600,
				Executions: 5,
				Periodical: 60,
				Node:       2,
				Cmd:        "drp_add_hk_sample",
				Args:       "",
			},
		},
		{
			name: "negative sentinel time",
			entry: types.FPEntry{
				Unixtime: types.FPNull,
				Cmd:      "noop",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := MarshalEntry(&tc.entry)
			require.NoError(t, err)

			got, err := UnmarshalEntry(data)
			require.NoError(t, err)
			assert.Equal(t, &tc.entry, got)
		})
	}
}

func TestEntryFieldOffsets(t *testing.T) {
	entry := &types.FPEntry{
		Unixtime:   0x01020304,
		Executions: 2,
		Periodical: 30,
		Node:       5,
		Cmd:        "ping",
		Args:       "all",
	}
	data, err := MarshalEntry(entry)
	require.NoError(t, err)

	endian := binary.LittleEndian
	assert.Equal(t, uint32(0x01020304), endian.Uint32(data[0:4]))
	assert.Equal(t, uint32(2), endian.Uint32(data[4:8]))
	assert.Equal(t, uint32(30), endian.Uint32(data[8:12]))
	assert.Equal(t, uint32(5), endian.Uint32(data[12:16]))
	assert.Equal(t, byte('p'), data[16])
	assert.Equal(t, byte(0), data[20], "cmd must be null padded")
	assert.Equal(t, byte('a'), data[264])
	assert.Equal(t, byte(0), data[267], "args must be null padded")
}

func TestEntryStringTruncation(t *testing.T) {
	long := strings.Repeat("x", 2*types.CmdMaxStrName)
	data, err := MarshalEntry(&types.FPEntry{Unixtime: 1, Cmd: long, Args: long})
	require.NoError(t, err)

	got, err := UnmarshalEntry(data)
	require.NoError(t, err)
	assert.Len(t, got.Cmd, types.CmdMaxStrName)
	assert.Len(t, got.Args, types.CmdMaxStrParams)
}

func TestUnmarshalEntryShortData(t *testing.T) {
	_, err := UnmarshalEntry(make([]byte, types.FPEntrySize-1))
	assert.Error(t, err)
}
