// Package repository is the data repository façade the rest of the flight
// software talks to. It serializes every storage call through one mutex,
// maintains the derived counters (flight plan queue length, per-payload
// write cursors) in the status table, and owns the mission clock offset.
package repository

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/joalopez1206/suchai/internal/interfaces"
	"github.com/joalopez1206/suchai/internal/types"
)

// Repository wraps a storage backend with thread safety and counters.
type Repository struct {
	mu    sync.Mutex
	store interfaces.Store
	log   *zap.Logger

	dataMap []types.DataMap
	node    int32

	// Mission time = host time + offset, settable from the ground.
	clockOffset int64
	now         func() time.Time

	writeDefaults bool
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger attaches a logger; the default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Repository) { r.log = l }
}

// WithNode sets the node address stamped on flight plan entries.
func WithNode(node int32) Option {
	return func(r *Repository) { r.node = node }
}

// WithStatusDefaults writes every status variable's default value at init.
// Used with volatile backends that lose the table across restarts.
func WithStatusDefaults() Option {
	return func(r *Repository) { r.writeDefaults = true }
}

// WithNowFunc overrides the host clock source.
func WithNowFunc(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// New opens the backend and initializes the three tables: status, payload
// sample stores (one per schema in dataMap) and a flight plan of fpEntries
// slots.
func New(store interfaces.Store, dataMap []types.DataMap, fpEntries int, opts ...Option) (*Repository, error) {
	if store == nil {
		return nil, fmt.Errorf("repository: storage backend must not be nil")
	}
	r := &Repository{
		store:   store,
		log:     zap.NewNop(),
		dataMap: dataMap,
		now:     time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	r.log = r.log.Named("repository")

	if err := store.Open(); err != nil {
		return nil, fmt.Errorf("repository: cannot initialize data storage: %w", err)
	}
	if err := store.StatusInit(int(types.StatusLastVar), false); err != nil {
		return nil, fmt.Errorf("repository: cannot create status table: %w", err)
	}
	if r.writeDefaults {
		for _, v := range types.StatusVars {
			if err := store.StatusSet(v.Address, v.Default); err != nil {
				return nil, fmt.Errorf("repository: cannot write default for %s: %w", v.Name, err)
			}
		}
	}
	if len(dataMap) > 0 {
		if err := store.PayloadInit(dataMap, false); err != nil {
			return nil, fmt.Errorf("repository: cannot create payload tables: %w", err)
		}
	}
	if err := store.FlightPlanInit(fpEntries, false); err != nil {
		return nil, fmt.Errorf("repository: cannot create flight plan table: %w", err)
	}
	return r, nil
}

// Close releases the backend.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Close()
}

// DataMap returns the payload schema table.
func (r *Repository) DataMap() []types.DataMap {
	return r.dataMap
}

// Unlocked status helpers for internal counter maintenance.

func (r *Repository) getStatus(index types.StatusAddress) (types.Value32, error) {
	return r.store.StatusGet(index)
}

func (r *Repository) setStatus(index types.StatusAddress, value types.Value32) error {
	return r.store.StatusSet(index, value)
}

// GetStatus returns the status variable at index.
func (r *Repository) GetStatus(index types.StatusAddress) (types.Value32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getStatus(index)
}

// SetStatus stores the status variable at index.
func (r *Repository) SetStatus(index types.StatusAddress, value types.Value32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setStatus(index, value)
}

// GetStatusByName returns the status variable with the given name.
func (r *Repository) GetStatusByName(name string) (types.Value32, error) {
	v, ok := types.FindStatusVar(name)
	if !ok {
		return 0, fmt.Errorf("repository: no status variable named %q", name)
	}
	return r.GetStatus(v.Address)
}

// SetStatusByName stores the status variable with the given name.
func (r *Repository) SetStatusByName(name string, value types.Value32) error {
	v, ok := types.FindStatusVar(name)
	if !ok {
		return fmt.Errorf("repository: no status variable named %q", name)
	}
	return r.SetStatus(v.Address, value)
}

// Time returns the current mission unix time.
func (r *Repository) Time() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now().Unix() + r.clockOffset
}

// SetTime moves the mission clock to the given unix time.
func (r *Repository) SetTime(unixtime int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clockOffset = unixtime - r.now().Unix()
}

// ShowTime writes the mission time: format 0 is human readable, 1 the raw
// unix time, anything else both.
func (r *Repository) ShowTime(w io.Writer, format int) error {
	now := r.Time()
	if format != 1 {
		fmt.Fprintln(w, time.Unix(now, 0).UTC().Format("2006-01-02 15:04:05 UTC"))
	}
	if format != 0 {
		fmt.Fprintln(w, now)
	}
	return nil
}
