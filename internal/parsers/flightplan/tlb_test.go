package flightplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joalopez1206/suchai/internal/types"
)

func TestTLBRoundTrip(t *testing.T) {
	slots := []types.TLBSlot{
		{Addr: 262144, Unixtime: 100},
		{Addr: types.FPNull, Unixtime: types.FPNull},
		{Addr: 262656, Unixtime: 300},
		{Addr: 3, Unixtime: 0}, // metadata slot
	}

	data := MarshalTLB(slots)
	assert.Len(t, data, len(slots)*types.TLBEntrySize)

	got, err := UnmarshalTLB(data, len(slots))
	require.NoError(t, err)
	assert.Equal(t, slots, got)
}

func TestTLBSlotRoundTrip(t *testing.T) {
	slot := types.TLBSlot{Addr: 1024, Unixtime: 42}
	got, err := UnmarshalTLB(MarshalTLBSlot(slot), 1)
	require.NoError(t, err)
	assert.Equal(t, slot, got[0])
}

func TestTLBErasedMediumDecodesEmpty(t *testing.T) {
	// An erased medium reads back all 0xFF; every field must decode as the
	// -1 sentinel.
	data := make([]byte, 5*types.TLBEntrySize)
	for i := range data {
		data[i] = 0xFF
	}

	slots, err := UnmarshalTLB(data, 5)
	require.NoError(t, err)
	for i, s := range slots {
		assert.Equal(t, types.FPNull, s.Unixtime, "slot %d unixtime", i)
		assert.Equal(t, types.FPNull, s.Addr, "slot %d addr", i)
	}
}

func TestTLBShortData(t *testing.T) {
	_, err := UnmarshalTLB(make([]byte, 7), 1)
	assert.Error(t, err)
}
