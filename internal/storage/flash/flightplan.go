package flash

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/joalopez1206/suchai/internal/parsers/flightplan"
	"github.com/joalopez1206/suchai/internal/storage"
	"github.com/joalopez1206/suchai/internal/types"
)

// FlightPlanInit reserves the flight plan sections and loads the TLB from
// its non-volatile backup. Re-initializing requires drop, which resets the
// table first.
func (s *Store) FlightPlanInit(n int, drop bool) error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if n <= 0 || n > s.cfg.FPMaxEntries {
		return fmt.Errorf("flight plan init: %w: %d entries, capacity %d",
			storage.ErrBounds, n, s.cfg.FPMaxEntries)
	}
	if s.tlb != nil {
		if !drop {
			return fmt.Errorf("flight plan init: table already initialized")
		}
		if err := s.FlightPlanReset(); err != nil {
			return fmt.Errorf("flight plan init: %w", err)
		}
	}

	s.fpEntries = n
	s.fpAddr = make([]uint32, s.fpSections)
	for i := range s.fpAddr {
		s.fpAddr[i] = s.fpBase + uint32(i)*s.cfg.SectionSize
	}
	s.log.Debug("flight plan sections reserved",
		zap.Int("sections", s.fpSections),
		zap.Uint32("base", s.fpBase))

	if !s.cfg.TLBInFlash {
		if s.tlbReserved() > int(s.fram.FramSize()) {
			return fmt.Errorf("flight plan init: TLB of %d slots does not fit the FRAM",
				s.cfg.FPMaxEntries+1)
		}
	}
	s.tlb = newTLB(s.cfg.FPMaxEntries, s.flash, s.fram,
		s.cfg.TLBInFlash, s.tlbBase, s.cfg.PageSize, s.log)
	if err := s.tlb.load(); err != nil {
		s.tlb = nil
		return fmt.Errorf("flight plan init: %w", err)
	}
	return nil
}

func (s *Store) requireFlightPlan() error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if s.tlb == nil {
		return fmt.Errorf("flight plan: %w: table not initialized", storage.ErrNotOpen)
	}
	return nil
}

// entryAddr maps a physical append index to its flash byte address.
func (s *Store) entryAddr(index int) (uint32, error) {
	section := index / s.commandsPerSection
	if section < 0 || section >= len(s.fpAddr) {
		return 0, fmt.Errorf("%w: append index %d beyond the flight plan sections",
			storage.ErrFull, index)
	}
	return s.fpAddr[section] + uint32(index%s.commandsPerSection)*types.FPEntrySize, nil
}

// FlightPlanSet appends an entry. The TLB slot is persisted before the page
// program: a crash between the two leaves a slot pointing at unwritten
// flash, recovered operationally by a purge. The reverse order would leak
// flash space instead.
func (s *Store) FlightPlanSet(entry *types.FPEntry) error {
	if err := s.requireFlightPlan(); err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("flight plan set: %w: nil entry", storage.ErrBounds)
	}

	// Compact once the live section has no virgin slots left.
	if int(s.tlb.counter()) >= s.commandsPerSection {
		if err := s.rebuild(); err != nil {
			return fmt.Errorf("flight plan set: %w", err)
		}
	}

	index := s.tlb.find(types.FPNull)
	if index < 0 || index >= s.fpEntries {
		s.log.Error("flight plan TLB has no space for another command",
			zap.Int("entries", s.fpEntries))
		return fmt.Errorf("flight plan set: %w", storage.ErrFull)
	}

	appendIdx := int(s.tlb.counter())
	addr, err := s.entryAddr(appendIdx)
	if err != nil {
		return fmt.Errorf("flight plan set: %w", err)
	}

	buf, err := flightplan.MarshalEntry(entry)
	if err != nil {
		return fmt.Errorf("flight plan set: %w", err)
	}
	if err := s.tlb.update(index, entry.Unixtime, int32(addr)); err != nil {
		return fmt.Errorf("flight plan set: %w", err)
	}
	if err := s.flash.WriteFlash(0, addr, buf); err != nil {
		return fmt.Errorf("flight plan set: %w", err)
	}
	s.log.Debug("flight plan entry written",
		zap.Int32("unixtime", entry.Unixtime),
		zap.Int("slot", index),
		zap.Uint32("addr", addr))
	return nil
}

// FlightPlanGet returns the first entry scheduled at unixtime. Duplicate
// times may coexist; only the lowest-indexed one is reachable by time.
func (s *Store) FlightPlanGet(unixtime int32) (*types.FPEntry, error) {
	if err := s.requireFlightPlan(); err != nil {
		return nil, err
	}
	index := s.tlb.find(unixtime)
	if index < 0 {
		return nil, fmt.Errorf("flight plan get: %w: time %d", storage.ErrNotFound, unixtime)
	}
	return s.FlightPlanGetIdx(index)
}

// FlightPlanGetIdx returns the entry at TLB slot index.
func (s *Store) FlightPlanGetIdx(index int) (*types.FPEntry, error) {
	if err := s.requireFlightPlan(); err != nil {
		return nil, err
	}
	if index < 0 || index >= s.fpEntries {
		return nil, fmt.Errorf("flight plan get: %w: slot %d of %d",
			storage.ErrBounds, index, s.fpEntries)
	}
	slot := s.tlb.slots[index]
	if slot.Unixtime == types.FPNull {
		return nil, fmt.Errorf("flight plan get: %w: slot %d", storage.ErrNotFound, index)
	}

	buf := make([]byte, types.FPEntrySize)
	if err := s.flash.ReadFlash(0, uint32(slot.Addr), buf); err != nil {
		return nil, fmt.Errorf("flight plan get: %w", err)
	}
	entry, err := flightplan.UnmarshalEntry(buf)
	if err != nil {
		return nil, fmt.Errorf("flight plan get: %w", err)
	}
	return entry, nil
}

// FlightPlanDelete tombstones the first entry scheduled at unixtime. Flash
// is untouched.
func (s *Store) FlightPlanDelete(unixtime int32) error {
	if err := s.requireFlightPlan(); err != nil {
		return err
	}
	index := s.tlb.find(unixtime)
	if index < 0 {
		s.log.Warn("no flight plan entry to delete", zap.Int32("unixtime", unixtime))
		return fmt.Errorf("flight plan delete: %w: time %d", storage.ErrNotFound, unixtime)
	}
	return s.FlightPlanDeleteIdx(index)
}

// FlightPlanDeleteIdx tombstones the entry at TLB slot index.
func (s *Store) FlightPlanDeleteIdx(index int) error {
	if err := s.requireFlightPlan(); err != nil {
		return err
	}
	if index < 0 || index >= s.fpEntries {
		return fmt.Errorf("flight plan delete: %w: slot %d of %d",
			storage.ErrBounds, index, s.fpEntries)
	}
	if err := s.tlb.eraseSlot(index); err != nil {
		return fmt.Errorf("flight plan delete: %w", err)
	}
	return nil
}

// FlightPlanReset erases every flight plan section and persists an empty
// TLB. Resetting an already empty table is a no-op that still succeeds.
func (s *Store) FlightPlanReset() error {
	if err := s.requireFlightPlan(); err != nil {
		return err
	}
	for i, addr := range s.fpAddr {
		if err := s.flash.EraseFlashSection(0, addr); err != nil {
			return fmt.Errorf("flight plan reset: section %d: %w", i, err)
		}
		s.log.Debug("flight plan section erased", zap.Int("section", i), zap.Uint32("addr", addr))
	}
	s.tlb.resetAll()
	if err := s.tlb.dump(-1); err != nil {
		return fmt.Errorf("flight plan reset: %w", err)
	}
	return nil
}

// FlightPlanEntries returns the configured slot capacity.
func (s *Store) FlightPlanEntries() int {
	return s.fpEntries
}

// rebuild compacts the live section: read it whole, erase it, rewrite only
// the entries still referenced by the TLB at dense addresses from zero, and
// persist the rebuilt TLB. This is the only operation that reclaims
// tombstoned flash space.
func (s *Store) rebuild() error {
	s.log.Info("rebuilding flight plan section")

	live := make([]byte, s.commandsPerSection*types.FPEntrySize)
	if err := s.flash.ReadFlash(0, s.fpAddr[0], live); err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	if err := s.flash.EraseFlashSection(0, s.fpAddr[0]); err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	s.tlb.slots[s.tlb.nmax] = types.TLBSlot{Addr: 0, Unixtime: 0}

	for index := 0; index < s.tlb.nmax; index++ {
		slot := s.tlb.slots[index]
		if slot.Unixtime == types.FPNull {
			continue
		}
		oldIdx := (uint32(slot.Addr) - s.fpAddr[0]) / types.FPEntrySize
		if int(oldIdx) >= s.commandsPerSection {
			// Entry outside the live section (overflow write); leave the
			// slot alone, its flash bytes were not erased.
			s.log.Warn("flight plan entry outside the live section, not compacted",
				zap.Int("slot", index), zap.Int32("addr", slot.Addr))
			continue
		}
		entry := live[oldIdx*types.FPEntrySize : (oldIdx+1)*types.FPEntrySize]

		newIdx := int(s.tlb.counter())
		addr, err := s.entryAddr(newIdx)
		if err != nil {
			return fmt.Errorf("rebuild: %w", err)
		}
		if err := s.tlb.update(index, slot.Unixtime, int32(addr)); err != nil {
			return fmt.Errorf("rebuild: %w", err)
		}
		if err := s.flash.WriteFlash(0, addr, entry); err != nil {
			return fmt.Errorf("rebuild: %w", err)
		}
	}

	if err := s.tlb.dump(-1); err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	s.log.Info("flight plan section rebuilt", zap.Int32("live_entries", s.tlb.counter()))
	return nil
}
