// Package bolt implements the database storage mode over a bbolt file. It
// honors the same contracts as the flash engine with ordinary K/V tables:
// no TLB, no alignment rules, one copy per status variable. Useful on
// hosted builds where a filesystem is available and media emulation is not
// wanted.
package bolt

import (
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/joalopez1206/suchai/internal/storage"
	"github.com/joalopez1206/suchai/internal/types"
)

var (
	statusBucket     = []byte("status")
	flightPlanBucket = []byte("flightplan")
	payloadPrefix    = "payload/"
)

// Store is a bbolt-backed storage backend. Not safe for concurrent use; the
// repository façade serializes access.
type Store struct {
	path string
	log  *zap.Logger

	db   *bbolt.DB
	open bool

	statusLen    int
	fpEntries    int
	payloadCount int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger attaches a logger; the default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates a store persisting to the given file path.
func New(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("bolt: database path must not be empty")
	}
	s := &Store{path: path, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.Named("storage.bolt")
	return s, nil
}

// Open opens the database file, creating it with 0600 rights if missing.
func (s *Store) Open() error {
	if s.open {
		return fmt.Errorf("bolt: already open")
	}
	db, err := bbolt.Open(s.path, 0o600, nil)
	if err != nil {
		return fmt.Errorf("bolt: can't open bbolt at %s: %w", s.path, err)
	}
	s.db = db
	s.open = true
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if !s.open {
		return nil
	}
	s.open = false
	s.statusLen = 0
	s.fpEntries = 0
	s.payloadCount = 0
	return s.db.Close()
}

func (s *Store) requireOpen() error {
	if !s.open {
		return storage.ErrNotOpen
	}
	return nil
}

func itob(v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}

// StatusInit creates the status table. drop clears stored values so reads
// fall back to zero.
func (s *Store) StatusInit(n int, drop bool) error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("status init: %w: table length %d", storage.ErrBounds, n)
	}
	s.statusLen = n
	return s.db.Update(func(tx *bbolt.Tx) error {
		if drop {
			if tx.Bucket(statusBucket) != nil {
				if err := tx.DeleteBucket(statusBucket); err != nil {
					return fmt.Errorf("status init: %w", err)
				}
			}
		}
		_, err := tx.CreateBucketIfNotExists(statusBucket)
		return err
	})
}

// StatusGet returns the value at index; missing values read as zero.
func (s *Store) StatusGet(index types.StatusAddress) (types.Value32, error) {
	if err := s.requireOpen(); err != nil {
		return 0, err
	}
	if index < 0 || int(index) >= s.statusLen {
		return 0, fmt.Errorf("status get: %w: index %d of %d", storage.ErrBounds, index, s.statusLen)
	}
	var value types.Value32
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(statusBucket)
		if b == nil {
			return nil
		}
		if v := b.Get(itob(uint32(index))); v != nil {
			if len(v) != 4 {
				return fmt.Errorf("status get: unexpected value length %d", len(v))
			}
			value = types.Value32(binary.LittleEndian.Uint32(v))
		}
		return nil
	})
	return value, err
}

// StatusSet stores the value at index.
func (s *Store) StatusSet(index types.StatusAddress, value types.Value32) error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if index < 0 || int(index) >= s.statusLen {
		return fmt.Errorf("status set: %w: index %d of %d", storage.ErrBounds, index, s.statusLen)
	}
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, value.Uint())
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(statusBucket)
		if err != nil {
			return err
		}
		return b.Put(itob(uint32(index)), buf)
	})
}
