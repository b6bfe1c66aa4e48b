package flash

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/joalopez1206/suchai/internal/interfaces"
	"github.com/joalopez1206/suchai/internal/parsers/flightplan"
	"github.com/joalopez1206/suchai/internal/types"
)

// The flight plan TLB is a small RAM index from scheduled time to flash
// address. Flash rewrites are expensive (read-erase-write of a 256 KiB
// section), so lookups and deletes go through the TLB and never touch
// flash: a delete only tombstones the slot, and the dead flash bytes are
// reclaimed when the live section fills and gets compacted.
//
// The TLB is backed up to non-volatile memory on every mutation so a reset
// rebuilds it as-is, tombstones included. The backup lives either at the
// end of the FRAM (fast, byte-granular) or in the dedicated flash section
// (erase-rewrite per dump).
//
// Slot nmax is metadata: its addr field counts the flash slots ever
// allocated, i.e. the next free append position in the live section. It
// grows monotonically until a compaction resets it.
type tlb struct {
	slots []types.TLBSlot // nmax+1 entries, last one is metadata
	nmax  int

	flash     interfaces.FlashDevice
	fram      interfaces.FramDevice
	inFlash   bool
	flashBase uint32
	pageSize  uint32
	log       *zap.Logger
}

func newTLB(nmax int, flashDev interfaces.FlashDevice, framDev interfaces.FramDevice,
	inFlash bool, flashBase, pageSize uint32, log *zap.Logger) *tlb {

	t := &tlb{
		slots:     make([]types.TLBSlot, nmax+1),
		nmax:      nmax,
		flash:     flashDev,
		fram:      framDev,
		inFlash:   inFlash,
		flashBase: flashBase,
		pageSize:  pageSize,
		log:       log,
	}
	for i := range t.slots {
		t.slots[i] = types.TLBSlot{Addr: types.FPNull, Unixtime: types.FPNull}
	}
	return t
}

func (t *tlb) sizeBytes() int {
	return len(t.slots) * types.TLBEntrySize
}

// framBase returns the backup address: the TLB claims the tail of the FRAM.
func (t *tlb) framBase() uint32 {
	return t.fram.FramSize() - uint32(t.sizeBytes())
}

// load reads the backup into RAM. On a cold boot the medium is either
// all-0xFF (erased, decodes as the empty table) or a previous backup.
func (t *tlb) load() error {
	buf := make([]byte, t.sizeBytes())
	var err error
	if t.inFlash {
		err = t.flash.ReadFlash(0, t.flashBase, buf)
	} else {
		err = t.fram.ReadFram(t.framBase(), buf)
	}
	if err != nil {
		return fmt.Errorf("tlb load: %w", err)
	}
	slots, err := flightplan.UnmarshalTLB(buf, len(t.slots))
	if err != nil {
		return fmt.Errorf("tlb load: %w", err)
	}
	t.slots = slots
	// An erased medium decodes as all -1, which stands for the empty
	// table: give it a zero append counter instead of the -1 sentinel.
	if t.slots[t.nmax].Addr == types.FPNull {
		t.slots[t.nmax] = types.TLBSlot{Addr: 0, Unixtime: 0}
	}
	return nil
}

// dump persists slot index, or the whole table when index < 0. The FRAM
// backup updates in place; the flash backup needs an erase and a page-sized
// rewrite of the whole section regardless of the slot touched.
func (t *tlb) dump(index int) error {
	if !t.inFlash {
		if index < 0 {
			if err := t.fram.WriteFram(t.framBase(), flightplan.MarshalTLB(t.slots)); err != nil {
				return fmt.Errorf("tlb dump: %w", err)
			}
			return nil
		}
		addr := t.framBase() + uint32(index*types.TLBEntrySize)
		if err := t.fram.WriteFram(addr, flightplan.MarshalTLBSlot(t.slots[index])); err != nil {
			return fmt.Errorf("tlb dump slot %d: %w", index, err)
		}
		return nil
	}

	if err := t.flash.EraseFlashSection(0, t.flashBase); err != nil {
		return fmt.Errorf("tlb dump: erase: %w", err)
	}
	image := flightplan.MarshalTLB(t.slots)
	for off := 0; off < len(image); off += int(t.pageSize) {
		end := off + int(t.pageSize)
		if end > len(image) {
			end = len(image)
		}
		if err := t.flash.WriteFlash(0, t.flashBase+uint32(off), image[off:end]); err != nil {
			return fmt.Errorf("tlb dump: write at %d: %w", off, err)
		}
	}
	return nil
}

// find returns the lowest-indexed slot scheduled at unixtime, or -1. Passing
// FPNull finds the first free slot.
func (t *tlb) find(unixtime int32) int {
	for i := 0; i < t.nmax; i++ {
		if t.slots[i].Unixtime == unixtime {
			return i
		}
	}
	return -1
}

// counter returns the number of flash slots ever allocated in the live
// section, i.e. the next append position.
func (t *tlb) counter() int32 {
	return t.slots[t.nmax].Addr
}

// update sets slot index, advances the append counter and persists both
// touched slots.
func (t *tlb) update(index int, unixtime, addr int32) error {
	t.slots[index] = types.TLBSlot{Addr: addr, Unixtime: unixtime}
	t.slots[t.nmax].Addr++
	if err := t.dump(index); err != nil {
		return err
	}
	return t.dump(t.nmax)
}

// eraseSlot tombstones slot index and persists it. Flash is not touched:
// the stale entry stays in place until the next compaction.
func (t *tlb) eraseSlot(index int) error {
	t.slots[index] = types.TLBSlot{Addr: types.FPNull, Unixtime: types.FPNull}
	return t.dump(index)
}

// resetAll empties every slot and zeroes the append counter in RAM. The
// caller persists with dump(-1).
func (t *tlb) resetAll() {
	for i := 0; i < t.nmax; i++ {
		t.slots[i] = types.TLBSlot{Addr: types.FPNull, Unixtime: types.FPNull}
	}
	t.slots[t.nmax] = types.TLBSlot{Addr: 0, Unixtime: 0}
	t.log.Debug("TLB reset")
}
