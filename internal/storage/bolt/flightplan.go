package bolt

import (
	"fmt"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/joalopez1206/suchai/internal/parsers/flightplan"
	"github.com/joalopez1206/suchai/internal/storage"
	"github.com/joalopez1206/suchai/internal/types"
)

// Flight plan rows are keyed by scheduled time (big-endian, so a cursor
// walks them in time order) and carry the same 512-byte record the flash
// engine programs into a page. Unlike the flash engine, a second entry with
// the same time replaces the first.

// FlightPlanInit creates the flight plan table for up to n entries.
func (s *Store) FlightPlanInit(n int, drop bool) error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("flight plan init: %w: %d entries", storage.ErrBounds, n)
	}
	if s.fpEntries != 0 && !drop {
		return fmt.Errorf("flight plan init: table already initialized")
	}
	s.fpEntries = n
	return s.db.Update(func(tx *bbolt.Tx) error {
		if drop {
			if tx.Bucket(flightPlanBucket) != nil {
				if err := tx.DeleteBucket(flightPlanBucket); err != nil {
					return err
				}
			}
		}
		_, err := tx.CreateBucketIfNotExists(flightPlanBucket)
		return err
	})
}

func (s *Store) requireFlightPlan() error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if s.fpEntries == 0 {
		return fmt.Errorf("flight plan: %w: table not initialized", storage.ErrNotOpen)
	}
	return nil
}

// FlightPlanSet stores an entry keyed by its scheduled time.
func (s *Store) FlightPlanSet(entry *types.FPEntry) error {
	if err := s.requireFlightPlan(); err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("flight plan set: %w: nil entry", storage.ErrBounds)
	}
	buf, err := flightplan.MarshalEntry(entry)
	if err != nil {
		return fmt.Errorf("flight plan set: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(flightPlanBucket)
		if b.Stats().KeyN >= s.fpEntries && b.Get(itob(uint32(entry.Unixtime))) == nil {
			return fmt.Errorf("flight plan set: %w", storage.ErrFull)
		}
		s.log.Debug("flight plan entry stored", zap.Int32("unixtime", entry.Unixtime))
		return b.Put(itob(uint32(entry.Unixtime)), buf)
	})
}

// FlightPlanGet returns the entry scheduled at unixtime.
func (s *Store) FlightPlanGet(unixtime int32) (*types.FPEntry, error) {
	if err := s.requireFlightPlan(); err != nil {
		return nil, err
	}
	var entry *types.FPEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(flightPlanBucket).Get(itob(uint32(unixtime)))
		if v == nil {
			return fmt.Errorf("flight plan get: %w: time %d", storage.ErrNotFound, unixtime)
		}
		var err error
		entry, err = flightplan.UnmarshalEntry(v)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// FlightPlanGetIdx returns the index-th entry in time order.
func (s *Store) FlightPlanGetIdx(index int) (*types.FPEntry, error) {
	if err := s.requireFlightPlan(); err != nil {
		return nil, err
	}
	if index < 0 || index >= s.fpEntries {
		return nil, fmt.Errorf("flight plan get: %w: slot %d of %d",
			storage.ErrBounds, index, s.fpEntries)
	}
	var entry *types.FPEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(flightPlanBucket).Cursor()
		i := 0
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if i == index {
				var err error
				entry, err = flightplan.UnmarshalEntry(v)
				return err
			}
			i++
		}
		return fmt.Errorf("flight plan get: %w: slot %d", storage.ErrNotFound, index)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// FlightPlanDelete removes the entry scheduled at unixtime.
func (s *Store) FlightPlanDelete(unixtime int32) error {
	if err := s.requireFlightPlan(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(flightPlanBucket)
		key := itob(uint32(unixtime))
		if b.Get(key) == nil {
			return fmt.Errorf("flight plan delete: %w: time %d", storage.ErrNotFound, unixtime)
		}
		return b.Delete(key)
	})
}

// FlightPlanDeleteIdx removes the index-th entry in time order.
func (s *Store) FlightPlanDeleteIdx(index int) error {
	if err := s.requireFlightPlan(); err != nil {
		return err
	}
	if index < 0 || index >= s.fpEntries {
		return fmt.Errorf("flight plan delete: %w: slot %d of %d",
			storage.ErrBounds, index, s.fpEntries)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		c := tx.Bucket(flightPlanBucket).Cursor()
		i := 0
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if i == index {
				return c.Delete()
			}
			i++
		}
		return fmt.Errorf("flight plan delete: %w: slot %d", storage.ErrNotFound, index)
	})
}

// FlightPlanReset removes every entry.
func (s *Store) FlightPlanReset() error {
	if err := s.requireFlightPlan(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(flightPlanBucket) != nil {
			if err := tx.DeleteBucket(flightPlanBucket); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucketIfNotExists(flightPlanBucket)
		return err
	})
}

// FlightPlanEntries returns the configured entry capacity.
func (s *Store) FlightPlanEntries() int {
	return s.fpEntries
}
