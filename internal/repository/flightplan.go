package repository

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/joalopez1206/suchai/internal/storage"
	"github.com/joalopez1206/suchai/internal/types"
)

// fplQueueAdd shifts the live-entry counter. Called with the lock held.
func (r *Repository) fplQueueAdd(delta int32) {
	entries, err := r.getStatus(types.FplQueue)
	if err != nil {
		r.log.Error("cannot read fpl_queue", zap.Error(err))
		return
	}
	if err := r.setStatus(types.FplQueue, types.IntValue(entries.Int()+delta)); err != nil {
		r.log.Error("cannot update fpl_queue", zap.Error(err))
	}
}

// SetFP schedules a command at timetodo.
func (r *Repository) SetFP(timetodo int32, command, args string, executions, period int32) error {
	if timetodo < 0 || command == "" {
		return fmt.Errorf("repository: bad flight plan entry (time %d, cmd %q)", timetodo, command)
	}
	entry := &types.FPEntry{
		Unixtime:   timetodo,
		Executions: executions,
		Periodical: period,
		Node:       r.node,
		Cmd:        command,
		Args:       args,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.FlightPlanSet(entry); err != nil {
		r.log.Error("cannot put flight plan entry",
			zap.Int32("unixtime", timetodo), zap.String("cmd", command), zap.Error(err))
		return err
	}
	r.fplQueueAdd(1)
	return nil
}

// PopFP returns the entry scheduled at unixtime and removes it. This is the
// path the flight plan task uses to consume due commands.
func (r *Repository) PopFP(unixtime int32) (*types.FPEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, err := r.store.FlightPlanGet(unixtime)
	if err != nil {
		return nil, err
	}
	if err := r.store.FlightPlanDelete(unixtime); err != nil {
		return nil, err
	}
	r.fplQueueAdd(-1)
	return entry, nil
}

// GetFP returns the entry scheduled at unixtime without consuming it.
func (r *Repository) GetFP(unixtime int32) (*types.FPEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.FlightPlanGet(unixtime)
}

// GetFPIdx returns the entry at storage slot index without consuming it.
func (r *Repository) GetFPIdx(index int) (*types.FPEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.FlightPlanGetIdx(index)
}

// DeleteFP removes the entry scheduled at unixtime.
func (r *Repository) DeleteFP(unixtime int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.FlightPlanDelete(unixtime); err != nil {
		return err
	}
	r.fplQueueAdd(-1)
	return nil
}

// ResetFP removes every flight plan entry and zeroes the queue counter.
func (r *Repository) ResetFP() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.FlightPlanReset(); err != nil {
		return err
	}
	if err := r.setStatus(types.FplQueue, types.IntValue(0)); err != nil {
		r.log.Error("cannot zero fpl_queue", zap.Error(err))
	}
	return nil
}

// PurgeFP deletes every entry already due (scheduled at or before the
// current mission time) and recounts the queue from what is left. This is
// the recovery path for slots that survived a crash pointing at garbage.
func (r *Repository) PurgeFP() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := int32(r.now().Unix() + r.clockOffset)

	live := int32(0)
	for i := 0; i < r.store.FlightPlanEntries(); i++ {
		entry, err := r.store.FlightPlanGetIdx(i)
		switch {
		case err == nil && entry.Unixtime > now:
			live++
		case err == nil:
			if derr := r.store.FlightPlanDeleteIdx(i); derr != nil {
				r.log.Warn("purge: cannot delete entry", zap.Int("slot", i), zap.Error(derr))
			}
		case errors.Is(err, storage.ErrNotFound):
			// Empty slot.
		default:
			return fmt.Errorf("repository: purge: %w", err)
		}
	}
	if err := r.setStatus(types.FplQueue, types.IntValue(live)); err != nil {
		r.log.Error("cannot recount fpl_queue", zap.Error(err))
	}
	return nil
}

// ShowFP writes the live flight plan, one line per entry.
func (r *Repository) ShowFP(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(w, "Time\tCommand\tArguments\tExecutions\tPeriodical\tNode")
	for i := 0; i < r.store.FlightPlanEntries(); i++ {
		entry, err := r.store.FlightPlanGetIdx(i)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return err
		}
		when := time.Unix(int64(entry.Unixtime), 0).UTC().Format("2006-01-02 15:04:05 UTC")
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			when, entry.Cmd, entry.Args, entry.Executions, entry.Periodical, entry.Node)
	}
	return nil
}
