package types

// FPEntry is a deferred command in the flight plan. On media it occupies
// exactly FPEntrySize bytes (one flash page); Cmd and Args are truncated to
// their fixed field widths when written.
type FPEntry struct {
	Unixtime   int32  // Scheduled execution unix time, FPNull when empty
	Executions int32  // Times the command executes per periodic cycle
	Periodical int32  // Seconds between periodic executions, 0 for one-shot
	Node       int32  // Destination node address
	Cmd        string // Command name
	Args       string // Command arguments
}

// TLBSlot maps one flight plan entry to its flash location. A slot with
// Unixtime == FPNull is a tombstone: the flash bytes it pointed at are
// reclaimed on the next compaction.
type TLBSlot struct {
	Addr     int32 // Byte offset in flash, FPNull when empty
	Unixtime int32 // Scheduled execution unix time, FPNull when empty
}
