package bolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joalopez1206/suchai/internal/storage"
	"github.com/joalopez1206/suchai/internal/types"
)

var testSchemas = []types.DataMap{
	{Table: "temp_data", Size: 8, SysIndex: types.DrpTemp, DataOrder: "%u %f", VarNames: "timestamp temp"},
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "suchai.db"))
	require.NoError(t, err)
	require.NoError(t, s.Open())
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.StatusInit(int(types.StatusLastVar), false))
	require.NoError(t, s.FlightPlanInit(8, false))
	require.NoError(t, s.PayloadInit(testSchemas, false))
	return s
}

func fpEntry(unixtime int32) *types.FPEntry {
	return &types.FPEntry{Unixtime: unixtime, Executions: 1, Node: 1, Cmd: "obc_get_mem"}
}

func TestNotOpen(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "suchai.db"))
	require.NoError(t, err)

	_, err = s.StatusGet(0)
	assert.ErrorIs(t, err, storage.ErrNotOpen)
	assert.ErrorIs(t, s.FlightPlanSet(fpEntry(1)), storage.ErrNotOpen)
}

func TestStatusRoundTrip(t *testing.T) {
	s := newTestStore(t)

	// Unwritten variables read as zero.
	v, err := s.StatusGet(types.ObcOpMode)
	require.NoError(t, err)
	assert.Equal(t, int32(0), v.Int())

	require.NoError(t, s.StatusSet(types.ObcOpMode, types.IntValue(2)))
	require.NoError(t, s.StatusSet(types.AdsQuat0, types.FloatValue(0.5)))

	v, err = s.StatusGet(types.ObcOpMode)
	require.NoError(t, err)
	assert.Equal(t, int32(2), v.Int())
	v, err = s.StatusGet(types.AdsQuat0)
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), v.Float())

	_, err = s.StatusGet(types.StatusLastVar)
	assert.ErrorIs(t, err, storage.ErrBounds)
}

func TestStatusSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suchai.db")
	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Open())
	require.NoError(t, s.StatusInit(int(types.StatusLastVar), false))
	require.NoError(t, s.StatusSet(types.ObcResetCounter, types.IntValue(3)))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	require.NoError(t, s.Open())
	defer s.Close()
	require.NoError(t, s.StatusInit(int(types.StatusLastVar), false))

	v, err := s.StatusGet(types.ObcResetCounter)
	require.NoError(t, err)
	assert.Equal(t, int32(3), v.Int())
}

func TestFlightPlanRoundTrip(t *testing.T) {
	s := newTestStore(t)

	entry := fpEntry(1680000000)
	entry.Args = "10 1"
	require.NoError(t, s.FlightPlanSet(entry))

	got, err := s.FlightPlanGet(1680000000)
	require.NoError(t, err)
	assert.Equal(t, entry, got)

	_, err = s.FlightPlanGet(42)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.FlightPlanDelete(1680000000))
	_, err = s.FlightPlanGet(1680000000)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFlightPlanIdxWalksInTimeOrder(t *testing.T) {
	s := newTestStore(t)

	for _, when := range []int32{300, 100, 200} {
		require.NoError(t, s.FlightPlanSet(fpEntry(when)))
	}
	want := []int32{100, 200, 300}
	for i, when := range want {
		got, err := s.FlightPlanGetIdx(i)
		require.NoError(t, err)
		assert.Equal(t, when, got.Unixtime, "slot %d", i)
	}
	_, err := s.FlightPlanGetIdx(3)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFlightPlanCapacity(t *testing.T) {
	s := newTestStore(t)

	for i := int32(0); i < 8; i++ {
		require.NoError(t, s.FlightPlanSet(fpEntry(100+i)))
	}
	err := s.FlightPlanSet(fpEntry(900))
	assert.ErrorIs(t, err, storage.ErrFull)

	// Replacing an existing time is not an append.
	assert.NoError(t, s.FlightPlanSet(fpEntry(100)))
}

func TestFlightPlanReset(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.FlightPlanSet(fpEntry(100)))
	require.NoError(t, s.FlightPlanReset())
	require.NoError(t, s.FlightPlanReset())

	_, err := s.FlightPlanGetIdx(0)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPayloadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	schema := &testSchemas[0]

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, s.PayloadSet(0, 0, data, schema))

	buf := make([]byte, 8)
	require.NoError(t, s.PayloadGet(0, 0, buf, schema))
	assert.Equal(t, data, buf)

	assert.ErrorIs(t, s.PayloadGet(0, 1, buf, schema), storage.ErrNotFound)
	assert.ErrorIs(t, s.PayloadSet(1, 0, data, schema), storage.ErrBounds)

	require.NoError(t, s.PayloadResetTable(0))
	assert.ErrorIs(t, s.PayloadGet(0, 0, buf, schema), storage.ErrNotFound)
}
