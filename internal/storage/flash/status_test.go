package flash

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joalopez1206/suchai/internal/storage"
	"github.com/joalopez1206/suchai/internal/types"
)

func TestStatusRoundTrip(t *testing.T) {
	flashDev, framDev := newTestMedia(t)
	s := newTestStore(t, testConfig(), flashDev, framDev)

	require.NoError(t, s.StatusSet(types.ObcOpMode, types.IntValue(2)))
	v, err := s.StatusGet(types.ObcOpMode)
	require.NoError(t, err)
	assert.Equal(t, int32(2), v.Int())

	require.NoError(t, s.StatusSet(types.AdsQuat0, types.FloatValue(0.7071)))
	v, err = s.StatusGet(types.AdsQuat0)
	require.NoError(t, err)
	assert.Equal(t, float32(0.7071), v.Float())
}

func TestStatusBounds(t *testing.T) {
	flashDev, framDev := newTestMedia(t)
	s := newTestStore(t, testConfig(), flashDev, framDev)

	_, err := s.StatusGet(types.StatusLastVar)
	assert.ErrorIs(t, err, storage.ErrBounds)
	err = s.StatusSet(-1, types.IntValue(0))
	assert.ErrorIs(t, err, storage.ErrBounds)
}

// corruptStatusCopy overwrites one physical copy behind the engine's back,
// simulating a single-event upset in the FRAM.
func corruptStatusCopy(t *testing.T, s *Store, framDev interface {
	WriteFram(addr uint32, buf []byte) error
}, index types.StatusAddress, copy int, raw uint32) {
	t.Helper()
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], raw)
	require.NoError(t, framDev.WriteFram(s.statusAddr(index, copy), buf[:]))
}

func TestStatusTripleWriteVoting(t *testing.T) {
	cfg := testConfig()
	cfg.TripleWrite = true

	flashDev, framDev := newTestMedia(t)
	s := newTestStore(t, cfg, flashDev, framDev)

	const index = types.StatusAddress(7)
	require.NoError(t, s.StatusSet(index, types.IntValue(0xA5)))

	// All three copies must hold the value.
	for c := 0; c < 3; c++ {
		v, err := s.readStatusCopy(index, c)
		require.NoError(t, err)
		assert.Equal(t, uint32(0xA5), v.Uint(), "copy %d", c)
	}

	// One upset copy: the majority still wins.
	corruptStatusCopy(t, s, framDev, index, 0, 0x00)
	v, err := s.StatusGet(index)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xA5), v.Uint())

	// Two upset copies: the result is undefined but the call must return.
	corruptStatusCopy(t, s, framDev, index, 1, 0x17)
	_, err = s.StatusGet(index)
	assert.NoError(t, err)
}

func TestStatusTripleWriteRepairsOnSet(t *testing.T) {
	cfg := testConfig()
	cfg.TripleWrite = true

	flashDev, framDev := newTestMedia(t)
	s := newTestStore(t, cfg, flashDev, framDev)

	const index = types.ObcResetCounter
	corruptStatusCopy(t, s, framDev, index, 2, 0xDEADBEEF)
	require.NoError(t, s.StatusSet(index, types.IntValue(9)))

	for c := 0; c < 3; c++ {
		v, err := s.readStatusCopy(index, c)
		require.NoError(t, err)
		assert.Equal(t, int32(9), v.Int(), "copy %d", c)
	}
}

func TestStatusInitCapacity(t *testing.T) {
	flashDev, framDev := newTestMedia(t)
	s, err := New(flashDev, framDev, testConfig())
	require.NoError(t, err)
	require.NoError(t, s.Open())

	// More variables than the FRAM can hold next to the TLB backup.
	err = s.StatusInit(types.FramSize, false)
	assert.Error(t, err)
}

func TestStatusInitDropZeroes(t *testing.T) {
	flashDev, framDev := newTestMedia(t)
	s := newTestStore(t, testConfig(), flashDev, framDev)

	require.NoError(t, s.StatusSet(types.ObcOpMode, types.IntValue(3)))
	require.NoError(t, s.StatusInit(int(types.StatusLastVar), true))

	v, err := s.StatusGet(types.ObcOpMode)
	require.NoError(t, err)
	assert.Equal(t, int32(0), v.Int())
}
