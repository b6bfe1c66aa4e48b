package flash

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joalopez1206/suchai/internal/device"
	"github.com/joalopez1206/suchai/internal/types"
)

// Shrunken geometry so boundary scenarios fit a test: 2 KiB sections hold
// four 512-byte flight plan entries each.
const (
	testSectionSize = 2048
	testSections    = 16
	testFPEntries   = 4
)

func testConfig() Config {
	return Config{
		FlashInit:          0,
		SectionSize:        testSectionSize,
		PageSize:           types.PageSize,
		FPMaxEntries:       testFPEntries,
		SectionsPerPayload: 2,
	}
}

// newTestMedia builds a fresh simulated flash/FRAM pair.
func newTestMedia(t *testing.T) (*device.SimFlash, *device.SimFram) {
	t.Helper()
	flashDev, err := device.NewSimFlash(1, testSections, testSectionSize)
	require.NoError(t, err)
	framDev, err := device.NewSimFram(types.FramSize)
	require.NoError(t, err)
	return flashDev, framDev
}

// newTestStore opens a store over the given media with every table ready.
func newTestStore(t *testing.T, cfg Config, flashDev *device.SimFlash, framDev *device.SimFram) *Store {
	t.Helper()
	s, err := New(flashDev, framDev, cfg)
	require.NoError(t, err)
	require.NoError(t, s.Open())
	require.NoError(t, s.StatusInit(int(types.StatusLastVar), false))
	require.NoError(t, s.FlightPlanInit(cfg.FPMaxEntries, false))
	return s
}

func fpEntry(unixtime int32) *types.FPEntry {
	return &types.FPEntry{
		Unixtime:   unixtime,
		Executions: 1,
		Node:       1,
		Cmd:        "obc_get_mem",
		Args:       "",
	}
}
