package flash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joalopez1206/suchai/internal/storage"
	"github.com/joalopez1206/suchai/internal/types"
)

var testSchemas = []types.DataMap{
	{Table: "temp_data", Size: 8, SysIndex: types.DrpTemp, DataOrder: "%u %f", VarNames: "timestamp temp"},
	{Table: "ads_data", Size: 200, SysIndex: types.DrpAds, DataOrder: "%u %f", VarNames: "timestamp gyro"},
}

func newPayloadStore(t *testing.T) *Store {
	t.Helper()
	flashDev, framDev := newTestMedia(t)
	s := newTestStore(t, testConfig(), flashDev, framDev)
	require.NoError(t, s.PayloadInit(testSchemas, false))
	return s
}

func record(size int, fill byte) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = fill
	}
	return data
}

func TestPayloadRoundTrip(t *testing.T) {
	s := newPayloadStore(t)
	schema := &testSchemas[0]

	for i := 0; i < 10; i++ {
		require.NoError(t, s.PayloadSet(0, i, record(8, byte(i+1)), schema))
	}
	for i := 0; i < 10; i++ {
		buf := make([]byte, 8)
		require.NoError(t, s.PayloadGet(0, i, buf, schema))
		assert.Equal(t, record(8, byte(i+1)), buf, "sample %d", i)
	}
}

// Samples pack whole into pages: with 200-byte records a page holds two and
// the third sample starts on the next page, never straddling the boundary.
func TestPayloadPagePlacement(t *testing.T) {
	s := newPayloadStore(t)
	base := s.payloadAddr[1*s.cfg.SectionsPerPayload] // payload 1 sections

	testCases := []struct {
		index int
		want  uint32
	}{
		{index: 0, want: base},
		{index: 1, want: base + 200},
		{index: 2, want: base + 512},
		{index: 3, want: base + 712},
		{index: 4, want: base + 1024},
	}
	for _, tc := range testCases {
		addr, err := s.sampleAddress(1, tc.index, 200)
		require.NoError(t, err, "index %d", tc.index)
		assert.Equal(t, tc.want, addr, "index %d", tc.index)
	}
}

func TestPayloadAlignmentGuard(t *testing.T) {
	s := newPayloadStore(t)

	// Bytes 400-599 straddle the page boundary at 512.
	assert.ErrorIs(t, s.checkAlignment(400, 200), storage.ErrAlignment)
	// A record ending exactly on the boundary stays inside its page.
	assert.NoError(t, s.checkAlignment(256, 256))
	assert.NoError(t, s.checkAlignment(512, 200))
}

func TestPayloadRecordLargerThanPage(t *testing.T) {
	s := newPayloadStore(t)
	_, err := s.sampleAddress(0, 0, 600)
	assert.ErrorIs(t, err, storage.ErrAlignment)
}

func TestPayloadSectionRunExhausted(t *testing.T) {
	s := newPayloadStore(t)

	// 512-byte records: one per page, four pages per test section, two
	// sections per payload.
	schema := types.DataMap{Size: 512}
	perPayload := 2 * (testSectionSize / types.PageSize)
	_, err := s.sampleAddress(0, perPayload-1, schema.Size)
	assert.NoError(t, err)
	_, err = s.sampleAddress(0, perPayload, schema.Size)
	assert.ErrorIs(t, err, storage.ErrBounds)
}

func TestPayloadDistinctStores(t *testing.T) {
	s := newPayloadStore(t)

	require.NoError(t, s.PayloadSet(0, 0, record(8, 0xAA), &testSchemas[0]))
	require.NoError(t, s.PayloadSet(1, 0, record(200, 0xBB), &testSchemas[1]))

	buf := make([]byte, 8)
	require.NoError(t, s.PayloadGet(0, 0, buf, &testSchemas[0]))
	assert.Equal(t, record(8, 0xAA), buf)
}

func TestPayloadResetTable(t *testing.T) {
	s := newPayloadStore(t)
	schema := &testSchemas[0]

	require.NoError(t, s.PayloadSet(0, 0, record(8, 0x42), schema))
	require.NoError(t, s.PayloadResetTable(0))

	buf := make([]byte, 8)
	require.NoError(t, s.PayloadGet(0, 0, buf, schema))
	assert.Equal(t, record(8, 0xFF), buf, "erased flash reads back 0xFF")
}

func TestPayloadResetAll(t *testing.T) {
	s := newPayloadStore(t)

	require.NoError(t, s.PayloadSet(0, 0, record(8, 1), &testSchemas[0]))
	require.NoError(t, s.PayloadSet(1, 0, record(200, 2), &testSchemas[1]))
	require.NoError(t, s.PayloadReset())

	buf := make([]byte, 200)
	require.NoError(t, s.PayloadGet(1, 0, buf, &testSchemas[1]))
	assert.Equal(t, record(200, 0xFF), buf)
}

func TestPayloadBadArguments(t *testing.T) {
	s := newPayloadStore(t)
	schema := &testSchemas[0]

	assert.ErrorIs(t, s.PayloadSet(5, 0, record(8, 1), schema), storage.ErrBounds)
	assert.ErrorIs(t, s.PayloadSet(0, 0, nil, schema), storage.ErrBounds)
	assert.ErrorIs(t, s.PayloadSet(0, 0, record(4, 1), schema), storage.ErrBounds)
	assert.ErrorIs(t, s.PayloadGet(0, 0, make([]byte, 4), schema), storage.ErrBounds)
}

func TestPayloadInitTooManySections(t *testing.T) {
	flashDev, framDev := newTestMedia(t)
	s := newTestStore(t, testConfig(), flashDev, framDev)

	many := make([]types.DataMap, 32)
	for i := range many {
		many[i] = types.DataMap{Size: 8}
	}
	err := s.PayloadInit(many, false)
	assert.Error(t, err, "payload sections beyond the flash capacity must be rejected")
}
