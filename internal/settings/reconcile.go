// Package settings models the toggle/save lifecycle of the skill settings
// screen: the server's persisted disabled set on one side, the user's
// in-progress edits on the other, and an explicit save transition between
// them. State is confined to the UI loop, so the type is not safe for
// concurrent use.
package settings

import (
	"errors"
	"sort"
)

// Phase is the lifecycle position of the reconciler.
type Phase int

const (
	// PhaseUnloaded means no server data has arrived yet.
	PhaseUnloaded Phase = iota
	// PhaseLoaded means the local set mirrors the server set, no edits.
	PhaseLoaded
	// PhaseEdited means the user has unsaved toggles.
	PhaseEdited
	// PhaseSaving means a save is in flight.
	PhaseSaving
)

// ErrNotSavable is returned by BeginSave when there is nothing to save or a
// save is already in flight.
var ErrNotSavable = errors.New("no unsaved changes or save in flight")

// Reconciler tracks the server-persisted disabled set against local edits.
type Reconciler struct {
	phase  Phase
	server map[string]struct{}
	local  map[string]struct{}
	dirty  bool
	seeded bool
	// editedWhileSaving records toggles that landed after BeginSave, so a
	// succeeding save doesn't wipe them.
	editedWhileSaving bool
}

// New returns a Reconciler in PhaseUnloaded.
func New() *Reconciler {
	return &Reconciler{
		server: make(map[string]struct{}),
		local:  make(map[string]struct{}),
	}
}

// Phase returns the current lifecycle phase.
func (r *Reconciler) Phase() Phase { return r.phase }

// Dirty reports whether any toggle happened since the last load or
// successful save.
func (r *Reconciler) Dirty() bool { return r.dirty }

// CanSave reports whether the save control should be enabled: there must be
// unsaved edits and no save in flight.
func (r *Reconciler) CanSave() bool {
	return r.dirty && r.phase != PhaseSaving
}

// Seed installs the server's disabled set. The local set is initialized from
// it only on the first call of a load cycle; a refetch that lands while the
// user has unsaved edits updates the server copy but never clobbers local
// state.
func (r *Reconciler) Seed(serverNames []string) {
	r.server = toSet(serverNames)
	if !r.seeded || !r.dirty {
		r.local = toSet(serverNames)
	}
	if !r.seeded {
		r.seeded = true
		r.phase = PhaseLoaded
	}
}

// Toggle flips a single skill. enabled=true removes the name from the
// disabled set, enabled=false adds it. Any toggle marks the state dirty.
func (r *Reconciler) Toggle(name string, enabled bool) {
	if !r.seeded {
		return
	}
	if enabled {
		delete(r.local, name)
	} else {
		r.local[name] = struct{}{}
	}
	r.dirty = true
	if r.phase == PhaseSaving {
		r.editedWhileSaving = true
	} else {
		r.phase = PhaseEdited
	}
}

// IsDisabled reports whether a skill is currently toggled off locally.
func (r *Reconciler) IsDisabled(name string) bool {
	_, off := r.local[name]
	return off
}

// Disabled returns the local disabled set as a sorted slice, ready to submit.
func (r *Reconciler) Disabled() []string {
	out := make([]string, 0, len(r.local))
	for name := range r.local {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// BeginSave transitions to PhaseSaving and returns the set to submit.
func (r *Reconciler) BeginSave() ([]string, error) {
	if !r.CanSave() {
		return nil, ErrNotSavable
	}
	r.phase = PhaseSaving
	r.editedWhileSaving = false
	return r.Disabled(), nil
}

// SaveSucceeded records a successful save: the server's returned set becomes
// the new baseline and the dirty flag clears. Toggles that landed while the
// save was in flight stay as fresh unsaved edits.
func (r *Reconciler) SaveSucceeded(serverNames []string) {
	r.server = toSet(serverNames)
	if r.editedWhileSaving {
		r.editedWhileSaving = false
		r.phase = PhaseEdited
		return
	}
	r.local = toSet(serverNames)
	r.dirty = false
	r.phase = PhaseLoaded
}

// SaveFailed returns to PhaseEdited. Local edits and the dirty flag are
// preserved so nothing the user did is lost.
func (r *Reconciler) SaveFailed() {
	if r.phase == PhaseSaving {
		r.phase = PhaseEdited
	}
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
