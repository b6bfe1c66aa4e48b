package repository

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/joalopez1206/suchai/internal/types"
)

// AddPayloadSample appends a record to the given payload store. The write
// cursor lives in the status table so it survives resets with the data; it
// advances only when the write succeeds.
func (r *Repository) AddPayloadSample(payload int, data []byte) error {
	if payload < 0 || payload >= len(r.dataMap) {
		return fmt.Errorf("repository: no payload %d", payload)
	}
	schema := &r.dataMap[payload]

	r.mu.Lock()
	defer r.mu.Unlock()
	cursor, err := r.getStatus(schema.SysIndex)
	if err != nil {
		return fmt.Errorf("repository: cannot read payload cursor: %w", err)
	}
	index := int(cursor.Int())
	r.log.Debug("adding payload sample", zap.Int("payload", payload), zap.Int("index", index))

	if err := r.store.PayloadSet(payload, index, data, schema); err != nil {
		r.log.Error("cannot store payload sample",
			zap.Int("payload", payload), zap.Int("index", index), zap.Error(err))
		return err
	}
	if err := r.setStatus(schema.SysIndex, types.IntValue(int32(index+1))); err != nil {
		return fmt.Errorf("repository: cannot advance payload cursor: %w", err)
	}
	return nil
}

// GetPayloadSample reads the record at index of the given payload.
func (r *Repository) GetPayloadSample(payload, index int) ([]byte, error) {
	if payload < 0 || payload >= len(r.dataMap) {
		return nil, fmt.Errorf("repository: no payload %d", payload)
	}
	schema := &r.dataMap[payload]

	r.mu.Lock()
	defer r.mu.Unlock()
	buf := make([]byte, schema.Size)
	if err := r.store.PayloadGet(payload, index, buf, schema); err != nil {
		return nil, err
	}
	return buf, nil
}

// GetRecentPayloadSample reads the record offset places behind the write
// cursor; offset 0 is the latest sample.
func (r *Repository) GetRecentPayloadSample(payload, offset int) ([]byte, error) {
	if payload < 0 || payload >= len(r.dataMap) {
		return nil, fmt.Errorf("repository: no payload %d", payload)
	}
	schema := &r.dataMap[payload]

	r.mu.Lock()
	defer r.mu.Unlock()
	cursor, err := r.getStatus(schema.SysIndex)
	if err != nil {
		return nil, fmt.Errorf("repository: cannot read payload cursor: %w", err)
	}
	index := int(cursor.Int()) - 1 - offset
	if index < 0 {
		return nil, fmt.Errorf("repository: offset %d too large for payload %d (cursor %d)",
			offset, payload, cursor.Int())
	}
	buf := make([]byte, schema.Size)
	if err := r.store.PayloadGet(payload, index, buf, schema); err != nil {
		return nil, err
	}
	return buf, nil
}

// PayloadCursor returns the write cursor of the given payload.
func (r *Repository) PayloadCursor(payload int) (int, error) {
	if payload < 0 || payload >= len(r.dataMap) {
		return 0, fmt.Errorf("repository: no payload %d", payload)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cursor, err := r.getStatus(r.dataMap[payload].SysIndex)
	if err != nil {
		return 0, err
	}
	return int(cursor.Int()), nil
}

// DeleteMemorySections drops every payload store and the flight plan, then
// zeroes the derived counters.
func (r *Repository) DeleteMemorySections() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	perr := r.store.PayloadReset()
	ferr := r.store.FlightPlanReset()

	for i := range r.dataMap {
		if err := r.setStatus(r.dataMap[i].SysIndex, types.IntValue(0)); err != nil {
			r.log.Error("cannot zero payload cursor", zap.Int("payload", i), zap.Error(err))
		}
	}
	if err := r.setStatus(types.FplQueue, types.IntValue(0)); err != nil {
		r.log.Error("cannot zero fpl_queue", zap.Error(err))
	}

	if perr != nil {
		return perr
	}
	return ferr
}
