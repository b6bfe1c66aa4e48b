// Package flash implements the storage engine over NOR flash and FRAM
// media. The flash partition is divided in erase sections: one optional TLB
// backup section, a run of flight plan sections holding 512-byte entries,
// then SectionsPerPayload consecutive sections per payload. The status table
// and (by default) the flight plan TLB live in FRAM.
package flash

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/joalopez1206/suchai/internal/interfaces"
	"github.com/joalopez1206/suchai/internal/storage"
	"github.com/joalopez1206/suchai/internal/types"
)

// Config fixes the media geometry and engine limits. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// FlashInit is the base byte address of the storage area in flash.
	FlashInit uint32

	// SectionSize is the flash erase unit in bytes.
	SectionSize uint32

	// PageSize is the flash write-boundary unit in bytes.
	PageSize uint32

	// FPMaxEntries is the TLB slot capacity; the TLB carries one extra
	// metadata slot on top of it.
	FPMaxEntries int

	// SectionsPerPayload is the number of flash sections reserved for each
	// payload sample store.
	SectionsPerPayload int

	// TripleWrite stores three copies of every status variable and votes
	// on read.
	TripleWrite bool

	// TLBInFlash keeps the TLB backup in the dedicated flash section
	// instead of the end of FRAM.
	TLBInFlash bool
}

// DefaultConfig matches the flight hardware: S25FL512S sections and pages,
// 32 KiB FRAM, one section worth of flight plan entries.
func DefaultConfig() Config {
	return Config{
		FlashInit:          0,
		SectionSize:        types.SectionSize,
		PageSize:           types.PageSize,
		FPMaxEntries:       types.SectionSize / types.FPEntrySize,
		SectionsPerPayload: 2,
		TripleWrite:        false,
		TLBInFlash:         false,
	}
}

func (c Config) validate() error {
	if c.PageSize == 0 || c.SectionSize == 0 || c.SectionSize%c.PageSize != 0 {
		return fmt.Errorf("flash: bad geometry: section %d, page %d", c.SectionSize, c.PageSize)
	}
	// A flight plan entry must fill exactly one page so entry writes can
	// never straddle a page boundary.
	if c.PageSize != types.FPEntrySize {
		return fmt.Errorf("flash: page size %d does not match the %d-byte flight plan entry",
			c.PageSize, types.FPEntrySize)
	}
	if c.FPMaxEntries <= 0 {
		return fmt.Errorf("flash: FPMaxEntries must be positive, got %d", c.FPMaxEntries)
	}
	if c.SectionsPerPayload <= 0 {
		return fmt.Errorf("flash: SectionsPerPayload must be positive, got %d", c.SectionsPerPayload)
	}
	// TLB slots must coincide with page boundaries when dumped to flash.
	if c.PageSize%types.TLBEntrySize != 0 {
		return fmt.Errorf("flash: page size %d is not a multiple of the TLB slot size", c.PageSize)
	}
	return nil
}

// Store is the flash/FRAM storage engine. It owns all engine state that the
// original flight software kept in process-wide tables; create one with New
// and thread it through every call. Not safe for concurrent use.
type Store struct {
	cfg   Config
	flash interfaces.FlashDevice
	fram  interfaces.FramDevice
	log   *zap.Logger

	open bool

	// Address map, computed once at Open.
	tlbBase     uint32
	fpBase      uint32
	payloadBase uint32

	// Status table.
	statusLen    int
	statusCopies int

	// Flight plan.
	fpEntries          int
	fpSections         int
	fpAddr             []uint32
	commandsPerSection int
	tlb                *tlb

	// Payload stores.
	payloadCount int
	payloadAddr  []uint32
}

// Option configures a Store.
type Option func(*Store)

// WithLogger attaches a logger; the default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates an engine over the given media devices.
func New(flashDev interfaces.FlashDevice, framDev interfaces.FramDevice, cfg Config, opts ...Option) (*Store, error) {
	if flashDev == nil || framDev == nil {
		return nil, fmt.Errorf("flash: media devices must not be nil")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Store{
		cfg:   cfg,
		flash: flashDev,
		fram:  framDev,
		log:   zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.Named("storage.flash")
	return s, nil
}

// Open computes the partition plan. Layout from FlashInit:
//
//	[section 0]      TLB backup (used only with TLBInFlash)
//	[section 1..F]   flight plan entries, dense 512-byte records
//	[section F+1..]  payload sections, SectionsPerPayload per payload
//
// With the TLB in FRAM it occupies the last bytes of the FRAM instead and
// section 0 stays reserved.
func (s *Store) Open() error {
	if s.open {
		return fmt.Errorf("flash: already open")
	}

	s.tlbBase = s.cfg.FlashInit
	s.fpBase = s.tlbBase + s.cfg.SectionSize
	s.fpSections = (s.cfg.FPMaxEntries*types.FPEntrySize)/int(s.cfg.SectionSize) + 1
	s.payloadBase = s.fpBase + uint32(s.fpSections)*s.cfg.SectionSize
	s.commandsPerSection = int(s.cfg.SectionSize / types.FPEntrySize)
	s.statusCopies = 1
	if s.cfg.TripleWrite {
		s.statusCopies = 3
	}

	s.log.Debug("address map computed",
		zap.Uint32("tlb_base", s.tlbBase),
		zap.Uint32("fp_base", s.fpBase),
		zap.Int("fp_sections", s.fpSections),
		zap.Uint32("payload_base", s.payloadBase))

	s.open = true
	return nil
}

// Close drops the in-RAM state. Media devices stay owned by the caller.
func (s *Store) Close() error {
	s.open = false
	s.statusLen = 0
	s.fpEntries = 0
	s.fpAddr = nil
	s.tlb = nil
	s.payloadCount = 0
	s.payloadAddr = nil
	return nil
}

// tlbReserved returns the FRAM bytes claimed by the TLB backup.
func (s *Store) tlbReserved() int {
	if s.cfg.TLBInFlash {
		return 0
	}
	return (s.cfg.FPMaxEntries + 1) * types.TLBEntrySize
}

func (s *Store) requireOpen() error {
	if !s.open {
		return storage.ErrNotOpen
	}
	return nil
}
