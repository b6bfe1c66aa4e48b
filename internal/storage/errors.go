// Package storage defines the error taxonomy shared by every storage
// backend. Leaf operations wrap these sentinels with context; callers test
// with errors.Is.
package storage

import "errors"

var (
	// ErrNotOpen reports an operation issued before Open or after Close,
	// including table operations before the matching table init.
	ErrNotOpen = errors.New("storage not open")

	// ErrBounds reports an index or payload id outside the configured
	// range, or a nil required argument.
	ErrBounds = errors.New("out of bounds")

	// ErrAlignment reports a payload access that would straddle a flash
	// page boundary.
	ErrAlignment = errors.New("access straddles a flash page")

	// ErrFull reports that no free flight plan slot exists and compaction
	// cannot reclaim one.
	ErrFull = errors.New("flight plan is full")

	// ErrNotFound reports that no live flight plan entry matches the
	// requested time or index. The database backend also returns it for a
	// payload sample that was never written.
	ErrNotFound = errors.New("no such flight plan entry")

	// ErrVoting reports that the three status table copies disagree
	// pairwise. No backend returns it: the voted read logs the
	// disagreement and returns the first copy.
	ErrVoting = errors.New("status copies disagree")
)
