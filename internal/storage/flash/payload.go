package flash

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/joalopez1206/suchai/internal/storage"
	"github.com/joalopez1206/suchai/internal/types"
)

// Payload samples pack into pages: a page holds PageSize/size whole records
// and the remainder bytes stay unused, so a record never straddles a page.
// Each payload owns SectionsPerPayload consecutive sections and fills them
// in append order.

// PayloadInit reserves the payload sections. With drop set it then erases
// every payload section through PayloadReset.
func (s *Store) PayloadInit(schemas []types.DataMap, drop bool) error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if len(schemas) == 0 {
		return fmt.Errorf("payload init: %w: no schemas", storage.ErrBounds)
	}
	for i, schema := range schemas {
		if schema.Size == 0 || uint32(schema.Size) > s.cfg.PageSize {
			return fmt.Errorf("payload init: %w: payload %d record size %d, page %d",
				storage.ErrBounds, i, schema.Size, s.cfg.PageSize)
		}
	}

	sections := len(schemas) * s.cfg.SectionsPerPayload
	end := s.payloadBase + uint32(sections)*s.cfg.SectionSize
	if end > s.flash.FlashSize() {
		return fmt.Errorf("payload init: %d sections end at %d, flash holds %d bytes",
			sections, end, s.flash.FlashSize())
	}

	s.payloadCount = len(schemas)
	s.payloadAddr = make([]uint32, sections)
	for i := range s.payloadAddr {
		s.payloadAddr[i] = s.payloadBase + uint32(i)*s.cfg.SectionSize
	}
	s.log.Debug("payload sections reserved",
		zap.Int("payloads", s.payloadCount),
		zap.Int("sections", sections),
		zap.Uint32("base", s.payloadBase))
	if drop {
		// Samples live in flash either way; reclaiming them is an erase,
		// not a re-init.
		return s.PayloadReset()
	}
	return nil
}

func (s *Store) requirePayload(payload int) error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if s.payloadAddr == nil {
		return fmt.Errorf("payload: %w: tables not initialized", storage.ErrNotOpen)
	}
	if payload < 0 || payload >= s.payloadCount {
		return fmt.Errorf("payload: %w: payload %d of %d", storage.ErrBounds, payload, s.payloadCount)
	}
	return nil
}

// sampleAddress places sample index of a payload. Records pack whole into
// pages, pages into the payload's run of sections.
func (s *Store) sampleAddress(payload, index int, size uint16) (uint32, error) {
	samplesPerPage := s.cfg.PageSize / uint32(size)
	if samplesPerPage == 0 {
		return 0, fmt.Errorf("%w: record of %d bytes exceeds a page", storage.ErrAlignment, size)
	}
	pagesPerSection := s.cfg.SectionSize / s.cfg.PageSize
	samplesPerSection := samplesPerPage * pagesPerSection

	sampleSection := uint32(index) / samplesPerSection
	if int(sampleSection) >= s.cfg.SectionsPerPayload {
		return 0, fmt.Errorf("%w: sample %d beyond the %d sections of payload %d",
			storage.ErrBounds, index, s.cfg.SectionsPerPayload, payload)
	}
	sectionIdx := payload*s.cfg.SectionsPerPayload + int(sampleSection)

	page := (uint32(index) / samplesPerPage) % pagesPerSection
	inPage := uint32(index) % samplesPerPage
	return s.payloadAddr[sectionIdx] + page*s.cfg.PageSize + inPage*uint32(size), nil
}

// checkAlignment rejects an access whose last byte lands past the page of
// its first byte.
func (s *Store) checkAlignment(addr uint32, size uint16) error {
	if (addr+uint32(size)-1)/s.cfg.PageSize > addr/s.cfg.PageSize {
		return fmt.Errorf("%w: [%d, %d)", storage.ErrAlignment, addr, addr+uint32(size))
	}
	return nil
}

// PayloadSet writes sample index of the given payload.
func (s *Store) PayloadSet(payload, index int, data []byte, schema *types.DataMap) error {
	if err := s.requirePayload(payload); err != nil {
		return err
	}
	if data == nil || schema == nil {
		return fmt.Errorf("payload set: %w: nil data or schema", storage.ErrBounds)
	}
	if len(data) < int(schema.Size) {
		return fmt.Errorf("payload set: %w: %d bytes for a %d-byte record",
			storage.ErrBounds, len(data), schema.Size)
	}

	addr, err := s.sampleAddress(payload, index, schema.Size)
	if err != nil {
		return fmt.Errorf("payload set: %w", err)
	}
	if err := s.checkAlignment(addr, schema.Size); err != nil {
		return fmt.Errorf("payload set: %w", err)
	}
	s.log.Debug("writing payload sample",
		zap.Int("payload", payload), zap.Int("index", index), zap.Uint32("addr", addr))
	if err := s.flash.WriteFlash(0, addr, data[:schema.Size]); err != nil {
		return fmt.Errorf("payload set: %w", err)
	}
	return nil
}

// PayloadGet reads sample index of the given payload into buf.
func (s *Store) PayloadGet(payload, index int, buf []byte, schema *types.DataMap) error {
	if err := s.requirePayload(payload); err != nil {
		return err
	}
	if buf == nil || schema == nil {
		return fmt.Errorf("payload get: %w: nil buffer or schema", storage.ErrBounds)
	}
	if len(buf) < int(schema.Size) {
		return fmt.Errorf("payload get: %w: %d bytes for a %d-byte record",
			storage.ErrBounds, len(buf), schema.Size)
	}

	addr, err := s.sampleAddress(payload, index, schema.Size)
	if err != nil {
		return fmt.Errorf("payload get: %w", err)
	}
	if err := s.checkAlignment(addr, schema.Size); err != nil {
		return fmt.Errorf("payload get: %w", err)
	}
	if err := s.flash.ReadFlash(0, addr, buf[:schema.Size]); err != nil {
		return fmt.Errorf("payload get: %w", err)
	}
	return nil
}

// PayloadResetTable erases every section of one payload.
func (s *Store) PayloadResetTable(payload int) error {
	if err := s.requirePayload(payload); err != nil {
		return err
	}
	for i := 0; i < s.cfg.SectionsPerPayload; i++ {
		sectionIdx := payload*s.cfg.SectionsPerPayload + i
		addr := s.payloadAddr[sectionIdx]
		if err := s.flash.EraseFlashSection(0, addr); err != nil {
			return fmt.Errorf("payload reset: payload %d section %d: %w", payload, i, err)
		}
		s.log.Debug("payload section erased",
			zap.Int("payload", payload), zap.Int("section", sectionIdx), zap.Uint32("addr", addr))
	}
	return nil
}

// PayloadReset erases every section of every payload.
func (s *Store) PayloadReset() error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if s.payloadAddr == nil || s.payloadCount == 0 {
		return fmt.Errorf("payload reset: %w: tables not initialized", storage.ErrNotOpen)
	}
	for p := 0; p < s.payloadCount; p++ {
		if err := s.PayloadResetTable(p); err != nil {
			return err
		}
	}
	return nil
}
