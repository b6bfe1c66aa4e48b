package flash

import (
	"encoding/binary"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/joalopez1206/suchai/internal/storage"
	"github.com/joalopez1206/suchai/internal/types"
)

// The status table occupies the start of the FRAM: n variables of 4 bytes,
// little-endian, repeated three times when triple writing is on. Copy c of
// variable i lives at (i + c*n) * 4.

// StatusInit validates capacity for n variables. FRAM keeps values across
// resets, so drop only zeroes the region instead of dropping a table.
func (s *Store) StatusInit(n int, drop bool) error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("status init: %w: table length %d", storage.ErrBounds, n)
	}
	need := n * 4 * s.statusCopies
	avail := int(s.fram.FramSize()) - s.tlbReserved()
	if need > avail {
		return fmt.Errorf("status init: %d variables x %d copies need %d bytes, FRAM offers %d",
			n, s.statusCopies, need, avail)
	}
	s.statusLen = n

	if drop {
		zero := make([]byte, need)
		if err := s.fram.WriteFram(0, zero); err != nil {
			return fmt.Errorf("status init: cannot zero table: %w", err)
		}
	}
	return nil
}

func (s *Store) statusAddr(index types.StatusAddress, copy int) uint32 {
	return uint32(int(index)+copy*s.statusLen) * 4
}

func (s *Store) readStatusCopy(index types.StatusAddress, copy int) (types.Value32, error) {
	var buf [4]byte
	if err := s.fram.ReadFram(s.statusAddr(index, copy), buf[:]); err != nil {
		return 0, err
	}
	return types.Value32(binary.LittleEndian.Uint32(buf[:])), nil
}

func (s *Store) writeStatusCopy(index types.StatusAddress, copy int, value types.Value32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value.Uint())
	return s.fram.WriteFram(s.statusAddr(index, copy), buf[:])
}

// StatusGet returns the value at index. With triple writing on, the three
// copies are read and the majority wins; a three-way disagreement is logged
// and the first copy returned, so a double upset degrades but never aborts.
func (s *Store) StatusGet(index types.StatusAddress) (types.Value32, error) {
	if err := s.requireOpen(); err != nil {
		return 0, err
	}
	if index < 0 || int(index) >= s.statusLen {
		return 0, fmt.Errorf("status get: %w: index %d of %d", storage.ErrBounds, index, s.statusLen)
	}

	v1, err := s.readStatusCopy(index, 0)
	if err != nil {
		return 0, fmt.Errorf("status get: %w", err)
	}
	if s.statusCopies == 1 {
		return v1, nil
	}

	v2, err2 := s.readStatusCopy(index, 1)
	v3, err3 := s.readStatusCopy(index, 2)
	if err2 != nil || err3 != nil {
		return v1, fmt.Errorf("status get: copy read failed: %w", errors.Join(err2, err3))
	}

	switch {
	case v1 == v2 || v1 == v3:
		return v1, nil
	case v2 == v3:
		return v2, nil
	default:
		s.log.Error("status table copies disagree",
			zap.Int("index", int(index)),
			zap.Uint32("copy0", v1.Uint()),
			zap.Uint32("copy1", v2.Uint()),
			zap.Uint32("copy2", v3.Uint()))
		return v1, nil
	}
}

// StatusSet stores value at index, updating every copy. Partial failures are
// reported joined so the caller sees each failing copy.
func (s *Store) StatusSet(index types.StatusAddress, value types.Value32) error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if index < 0 || int(index) >= s.statusLen {
		return fmt.Errorf("status set: %w: index %d of %d", storage.ErrBounds, index, s.statusLen)
	}

	var errs []error
	for c := 0; c < s.statusCopies; c++ {
		if err := s.writeStatusCopy(index, c, value); err != nil {
			errs = append(errs, fmt.Errorf("copy %d: %w", c, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("status set: %w", errors.Join(errs...))
	}
	return nil
}
