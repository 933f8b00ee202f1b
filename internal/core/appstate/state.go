package appstate

import (
	"slices"
	"sync"

	"timedeck/internal/storage"
)

// Mode is the active time display.
type Mode string

const (
	ModeClock     Mode = "clock"
	ModeStopwatch Mode = "stopwatch"
	ModeCountdown Mode = "countdown"
)

// Modes lists the display modes in switcher order.
var Modes = []Mode{ModeClock, ModeStopwatch, ModeCountdown}

// Valid reports whether mode is a known display mode.
func (mode Mode) Valid() bool {
	switch mode {
	case ModeClock, ModeStopwatch, ModeCountdown:
		return true
	default:
		return false
	}
}

// Label returns the display name of the mode.
func (mode Mode) Label() string {
	switch mode {
	case ModeStopwatch:
		return "Stopwatch"
	case ModeCountdown:
		return "Countdown"
	default:
		return "Clock"
	}
}

// Snapshot is a consistent copy of the application state.
type Snapshot struct {
	Mode              Mode
	Expanded          bool
	CountdownDuration int
}

// State holds the active mode, the expanded flag and the countdown duration.
// It is passed explicitly to every component that reads or writes it.
type State struct {
	mu                sync.Mutex
	mode              Mode
	expanded          bool
	countdownDuration int
	modeKey           storage.Key[Mode]
	durationKey       storage.Key[int]
	observers         []func(Snapshot)
}

// New loads the persisted mode and countdown duration from store.
// Unknown persisted modes fall back to the clock.
func New(store *storage.Store, defaultCountdown int) *State {
	state := &State{
		modeKey:     storage.NewKey(store, storage.KeyLastMode, ModeClock),
		durationKey: storage.NewKey(store, storage.KeyCountdownDuration, defaultCountdown),
	}
	state.mode = state.modeKey.Load()
	if !state.mode.Valid() {
		state.mode = ModeClock
	}
	state.countdownDuration = state.durationKey.Load()
	if state.countdownDuration < 0 {
		state.countdownDuration = defaultCountdown
	}
	return state
}

// OnChange registers an observer called after every change.
func (state *State) OnChange(observer func(Snapshot)) {
	state.mu.Lock()
	defer state.mu.Unlock()
	state.observers = append(state.observers, observer)
}

// Snapshot returns the current state.
func (state *State) Snapshot() Snapshot {
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.snapshotLocked()
}

// Mode returns the active mode.
func (state *State) Mode() Mode {
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.mode
}

// SetMode switches the active mode and persists it. Switching to a
// stopwatch or countdown expands it; switching to the clock leaves the
// expanded flag unchanged.
func (state *State) SetMode(mode Mode) {
	if !mode.Valid() {
		return
	}
	state.mu.Lock()
	state.mode = mode
	if mode != ModeClock {
		state.expanded = true
	}
	state.modeKey.Save(mode)
	state.notifyUnlock()
}

// Expanded reports whether the active mode is shown in detail.
func (state *State) Expanded() bool {
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.expanded
}

// SetExpanded expands or collapses the active mode.
func (state *State) SetExpanded(expanded bool) {
	state.mu.Lock()
	if state.expanded == expanded {
		state.mu.Unlock()
		return
	}
	state.expanded = expanded
	state.notifyUnlock()
}

// CountdownDuration returns the configured countdown length in seconds.
func (state *State) CountdownDuration() int {
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.countdownDuration
}

// SetCountdownDuration stores the configured countdown length in seconds.
func (state *State) SetCountdownDuration(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	state.mu.Lock()
	state.countdownDuration = seconds
	state.durationKey.Save(seconds)
	state.notifyUnlock()
}

func (state *State) snapshotLocked() Snapshot {
	return Snapshot{
		Mode:              state.mode,
		Expanded:          state.expanded,
		CountdownDuration: state.countdownDuration,
	}
}

// notifyUnlock releases the lock and calls observers with the new snapshot.
func (state *State) notifyUnlock() {
	snapshot := state.snapshotLocked()
	observers := slices.Clone(state.observers)
	state.mu.Unlock()

	for _, observer := range observers {
		observer(snapshot)
	}
}
