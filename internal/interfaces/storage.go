package interfaces

import "github.com/joalopez1206/suchai/internal/types"

// StatusStore holds the fixed-index table of 32-bit system variables.
type StatusStore interface {
	// StatusInit prepares the table for n variables. drop requests a reset
	// to defaults where the backend supports it; persistent backends may
	// treat it as advisory.
	StatusInit(n int, drop bool) error

	// StatusGet returns the value at index.
	StatusGet(index types.StatusAddress) (types.Value32, error)

	// StatusSet stores value at index.
	StatusSet(index types.StatusAddress, value types.Value32) error
}

// FlightPlanStore holds the time-indexed queue of deferred commands.
type FlightPlanStore interface {
	// FlightPlanInit prepares storage for up to n entries. drop resets the
	// table; initializing an already initialized table without drop fails.
	FlightPlanInit(n int, drop bool) error

	// FlightPlanSet appends an entry.
	FlightPlanSet(entry *types.FPEntry) error

	// FlightPlanGet returns the first entry scheduled at unixtime.
	FlightPlanGet(unixtime int32) (*types.FPEntry, error)

	// FlightPlanGetIdx returns the entry at storage slot index; deleted
	// slots fail.
	FlightPlanGetIdx(index int) (*types.FPEntry, error)

	// FlightPlanDelete removes the first entry scheduled at unixtime.
	FlightPlanDelete(unixtime int32) error

	// FlightPlanDeleteIdx removes the entry at storage slot index.
	FlightPlanDeleteIdx(index int) error

	// FlightPlanReset removes every entry.
	FlightPlanReset() error

	// FlightPlanEntries returns the configured slot capacity.
	FlightPlanEntries() int
}

// PayloadStore holds per-payload append-only sample runs.
type PayloadStore interface {
	// PayloadInit reserves storage for the given payload schemas.
	PayloadInit(schemas []types.DataMap, drop bool) error

	// PayloadSet writes sample index of the given payload.
	PayloadSet(payload, index int, data []byte, schema *types.DataMap) error

	// PayloadGet reads sample index of the given payload into buf, which
	// must be at least schema.Size bytes.
	PayloadGet(payload, index int, buf []byte, schema *types.DataMap) error

	// PayloadResetTable removes every sample of one payload.
	PayloadResetTable(payload int) error

	// PayloadReset removes every sample of every payload.
	PayloadReset() error
}

// Store is a complete storage backend. Implementations are not safe for
// concurrent use: the repository façade serializes every call through its
// own mutex.
type Store interface {
	// Open prepares the backend. Every other call fails before Open or
	// after Close.
	Open() error

	// Close releases the backend.
	Close() error

	StatusStore
	FlightPlanStore
	PayloadStore
}
