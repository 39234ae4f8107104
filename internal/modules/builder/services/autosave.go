package services

import (
	"sync"
	"time"
)

// SaveState is the persistence state of an open session.
type SaveState string

const (
	SaveClean  SaveState = "clean"
	SaveDirty  SaveState = "dirty"
	SaveSaving SaveState = "saving"
)

// Autosaver debounces project saves: a save is attempted only after the
// quiet interval elapses with no further edits, and always persists the
// snapshot current at the moment the timer fires. A failed save reverts to
// dirty so the next edit or an explicit flush retries.
//
// The save function must capture the latest snapshot itself when invoked;
// the autosaver never holds data.
type Autosaver struct {
	mu    sync.Mutex
	quiet time.Duration
	save  func() error
	timer *time.Timer
	state SaveState
	seq   uint64 // edit counter, detects edits racing an in-flight save
}

func NewAutosaver(quiet time.Duration, save func() error) *Autosaver {
	return &Autosaver{
		quiet: quiet,
		save:  save,
		state: SaveClean,
	}
}

// State returns the current persistence state.
func (a *Autosaver) State() SaveState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// MarkDirty records an edit and (re)starts the quiet timer. Edits during
// the quiet interval supersede the previous timer.
func (a *Autosaver) MarkDirty() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.seq++
	a.state = SaveDirty
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.quiet, a.flush)
}

// Flush attempts an immediate save if there are unsaved edits. Used when a
// session closes.
func (a *Autosaver) Flush() {
	a.flush()
}

// Stop cancels any scheduled save without attempting one.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Autosaver) flush() {
	a.mu.Lock()
	if a.state != SaveDirty {
		a.mu.Unlock()
		return
	}
	a.state = SaveSaving
	seq := a.seq
	a.mu.Unlock()

	err := a.save()

	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case err != nil:
		a.state = SaveDirty
	case a.seq != seq:
		// An edit landed while the save was in flight; the timer it armed
		// will persist the newer snapshot.
		a.state = SaveDirty
	default:
		a.state = SaveClean
	}
}
