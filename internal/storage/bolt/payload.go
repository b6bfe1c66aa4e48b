package bolt

import (
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/joalopez1206/suchai/internal/storage"
	"github.com/joalopez1206/suchai/internal/types"
)

// Payload samples live in one bucket per payload, keyed by sample index.

func payloadBucket(payload int) []byte {
	return []byte(fmt.Sprintf("%s%d", payloadPrefix, payload))
}

// PayloadInit creates one bucket per payload schema.
func (s *Store) PayloadInit(schemas []types.DataMap, drop bool) error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if len(schemas) == 0 {
		return fmt.Errorf("payload init: %w: no schemas", storage.ErrBounds)
	}
	s.payloadCount = len(schemas)
	return s.db.Update(func(tx *bbolt.Tx) error {
		for p := range schemas {
			name := payloadBucket(p)
			if drop && tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) requirePayload(payload int) error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if s.payloadCount == 0 {
		return fmt.Errorf("payload: %w: tables not initialized", storage.ErrNotOpen)
	}
	if payload < 0 || payload >= s.payloadCount {
		return fmt.Errorf("payload: %w: payload %d of %d", storage.ErrBounds, payload, s.payloadCount)
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
	record := make([]byte, schema.Size)
	copy(record, data)
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(payloadBucket(payload)).Put(itob(uint32(index)), record)
	})
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
	return s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(payloadBucket(payload)).Get(itob(uint32(index)))
		if v == nil {
			return fmt.Errorf("payload get: %w: payload %d sample %d",
				storage.ErrNotFound, payload, index)
		}
		copy(buf[:schema.Size], v)
		return nil
	})
}

// PayloadResetTable removes every sample of one payload.
func (s *Store) PayloadResetTable(payload int) error {
	if err := s.requirePayload(payload); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		name := payloadBucket(payload)
		if tx.Bucket(name) != nil {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	})
}

// PayloadReset removes every sample of every payload.
func (s *Store) PayloadReset() error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if s.payloadCount == 0 {
		return fmt.Errorf("payload reset: %w: tables not initialized", storage.ErrNotOpen)
	}
	for p := 0; p < s.payloadCount; p++ {
		if err := s.PayloadResetTable(p); err != nil {
			return err
		}
	}
	return nil
}
