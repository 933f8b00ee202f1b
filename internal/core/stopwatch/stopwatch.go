package stopwatch

import (
	"log/slog"
	"sync"
	"time"

	"timedeck/internal/core/model"
)

// State is the persisted form of a stopwatch.
type State struct {
	ElapsedMs int64   `json:"elapsedMs"`
	Laps      []int64 `json:"laps"`
	IsRunning bool    `json:"isRunning"`
	AnchorMs  int64   `json:"anchorMs,omitempty"`
}

// Persister loads and saves stopwatch state.
type Persister interface {
	Load() State
	Save(State)
}

// Options contains runtime hooks for Stopwatch.
type Options struct {
	Now    func() time.Time
	Logger *slog.Logger
}

// Stopwatch measures elapsed wall-clock time with pause, resume and laps.
// Elapsed time is always recomputed from an anchor instant, so a stalled
// or delayed sampler never loses time.
type Stopwatch struct {
	mu        sync.Mutex
	config    model.StopwatchConfig
	now       func() time.Time
	logger    *slog.Logger
	persister Persister
	running   bool
	anchor    time.Time
	elapsed   time.Duration
	laps      []time.Duration
	events    []chan Event
	stopCh    chan struct{}
	runID     uint64
	sampling  bool
	closed    bool
}

// New creates a Stopwatch and restores persisted state when a persister is given.
// A restored running stopwatch resumes sampling immediately.
func New(config model.StopwatchConfig, persister Persister, options Options) *Stopwatch {
	if config.SampleInterval <= 0 {
		config.SampleInterval = 10 * time.Millisecond
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	watch := &Stopwatch{
		config:    config,
		now:       options.Now,
		logger:    options.Logger,
		persister: persister,
		sampling:  true,
	}
	if persister != nil {
		watch.restore(persister.Load())
	}
	return watch
}

func (watch *Stopwatch) restore(state State) {
	watch.mu.Lock()
	defer watch.mu.Unlock()

	if state.ElapsedMs < 0 {
		state.ElapsedMs = 0
	}
	watch.elapsed = time.Duration(state.ElapsedMs) * time.Millisecond
	watch.laps = watch.laps[:0]
	for _, lap := range state.Laps {
		if lap < 0 {
			continue
		}
		watch.laps = append(watch.laps, time.Duration(lap)*time.Millisecond)
	}
	if !state.IsRunning {
		return
	}

	now := watch.wallNow()
	watch.anchor = now.Add(-watch.elapsed)
	if state.AnchorMs > 0 {
		anchor := time.UnixMilli(state.AnchorMs)
		if !anchor.After(now) {
			watch.anchor = anchor
			watch.measureLocked(now)
		}
	}
	watch.running = true
	watch.startSamplerLocked()
	watch.logger.Debug("stopwatch restored running", "elapsed", watch.elapsed)
}

// Subscribe registers a new observer channel.
func (watch *Stopwatch) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	watch.mu.Lock()
	defer watch.mu.Unlock()
	if watch.closed {
		close(ch)
		return ch
	}
	watch.events = append(watch.events, ch)
	return ch
}

// ToggleRun starts a paused stopwatch or pauses a running one.
func (watch *Stopwatch) ToggleRun() {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	if watch.closed {
		return
	}

	now := watch.wallNow()
	if watch.running {
		watch.measureLocked(now)
		watch.running = false
		watch.stopSamplerLocked()
	} else {
		watch.anchor = now.Add(-watch.elapsed)
		watch.running = true
		watch.startSamplerLocked()
	}

	watch.persistLocked()
	watch.emitLocked(watch.eventLocked(EventStateChange, now))
}

// Start resumes the stopwatch if it is paused.
func (watch *Stopwatch) Start() {
	if !watch.Running() {
		watch.ToggleRun()
	}
}

// Pause stops the stopwatch if it is running.
func (watch *Stopwatch) Pause() {
	if watch.Running() {
		watch.ToggleRun()
	}
}

// Reset pauses the stopwatch and clears elapsed time and laps.
func (watch *Stopwatch) Reset() {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	if watch.closed {
		return
	}

	watch.stopSamplerLocked()
	watch.running = false
	watch.anchor = time.Time{}
	watch.elapsed = 0
	watch.laps = nil

	watch.persistLocked()
	watch.emitLocked(watch.eventLocked(EventReset, watch.wallNow()))
}

// RecordLap prepends the current elapsed time to the lap list.
// It reports false and does nothing while the stopwatch is paused.
func (watch *Stopwatch) RecordLap() bool {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	if watch.closed || !watch.running {
		return false
	}

	now := watch.wallNow()
	watch.measureLocked(now)
	watch.laps = append([]time.Duration{watch.elapsed}, watch.laps...)

	watch.persistLocked()
	watch.emitLocked(watch.eventLocked(EventLap, now))
	return true
}

// Sync resamples elapsed time immediately. Call it when the window regains
// focus or the app returns to the foreground.
func (watch *Stopwatch) Sync() {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	if watch.closed || !watch.running {
		return
	}
	watch.sampleLocked(watch.wallNow())
}

// UpdateConfig changes the sampling cadence. A running sampler restarts
// with the new interval.
func (watch *Stopwatch) UpdateConfig(config model.StopwatchConfig) {
	if config.SampleInterval <= 0 {
		return
	}
	watch.mu.Lock()
	defer watch.mu.Unlock()
	watch.config = config
	if watch.running && !watch.closed {
		watch.startSamplerLocked()
	}
}

// SetSampling turns the progress sampler on or off without changing the run
// state. Elapsed time keeps following the wall clock while sampling is off,
// and turning it back on resamples immediately.
func (watch *Stopwatch) SetSampling(enabled bool) {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	if watch.closed || watch.sampling == enabled {
		return
	}
	watch.sampling = enabled
	if !watch.running {
		return
	}
	if enabled {
		watch.sampleLocked(watch.wallNow())
		watch.startSamplerLocked()
		return
	}
	watch.stopSamplerLocked()
}

// Sampling reports whether the progress sampler is enabled.
func (watch *Stopwatch) Sampling() bool {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	return watch.sampling
}

// Elapsed returns the current elapsed time.
func (watch *Stopwatch) Elapsed() time.Duration {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	if watch.running {
		return watch.measureLocked(watch.wallNow())
	}
	return watch.elapsed
}

// Laps returns recorded laps, most recent first.
func (watch *Stopwatch) Laps() []time.Duration {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	return append([]time.Duration(nil), watch.laps...)
}

// Running reports whether the stopwatch is running.
func (watch *Stopwatch) Running() bool {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	return watch.running
}

// Snapshot returns the persistable state.
func (watch *Stopwatch) Snapshot() State {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	if watch.running {
		watch.measureLocked(watch.wallNow())
	}
	return watch.stateLocked()
}

// Close stops sampling, persists the final state and closes observers.
func (watch *Stopwatch) Close() {
	watch.mu.Lock()
	if watch.closed {
		watch.mu.Unlock()
		return
	}
	if watch.running {
		watch.measureLocked(watch.wallNow())
	}
	watch.stopSamplerLocked()
	watch.persistLocked()
	watch.closed = true
	events := watch.events
	watch.events = nil
	watch.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (watch *Stopwatch) startSamplerLocked() {
	watch.stopSamplerLocked()
	if !watch.sampling {
		return
	}
	watch.runID++
	watch.stopCh = make(chan struct{})
	go watch.run(watch.runID, watch.config.SampleInterval, watch.stopCh)
}

func (watch *Stopwatch) stopSamplerLocked() {
	if watch.stopCh != nil {
		close(watch.stopCh)
		watch.stopCh = nil
		watch.runID++
	}
}

func (watch *Stopwatch) run(runID uint64, interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			watch.sample(runID)
		}
	}
}

func (watch *Stopwatch) sample(runID uint64) {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	if watch.closed || !watch.running || runID != watch.runID {
		return
	}
	watch.sampleLocked(watch.wallNow())
}

func (watch *Stopwatch) sampleLocked(now time.Time) {
	watch.measureLocked(now)
	watch.emitLocked(watch.eventLocked(EventProgress, now))
}

// wallNow reads the clock without its monotonic reading so elapsed time
// follows the wall clock, including time the machine spent suspended.
func (watch *Stopwatch) wallNow() time.Time {
	return watch.now().Round(0)
}

// measureLocked recomputes elapsed from the anchor. If the wall clock stepped
// backwards past the anchor, it re-anchors at now with zero elapsed.
func (watch *Stopwatch) measureLocked(now time.Time) time.Duration {
	watch.elapsed = now.Sub(watch.anchor)
	if watch.elapsed < 0 {
		watch.anchor = now
		watch.elapsed = 0
	}
	return watch.elapsed
}

func (watch *Stopwatch) stateLocked() State {
	state := State{
		ElapsedMs: watch.elapsed.Milliseconds(),
		Laps:      make([]int64, 0, len(watch.laps)),
		IsRunning: watch.running,
	}
	for _, lap := range watch.laps {
		state.Laps = append(state.Laps, lap.Milliseconds())
	}
	if watch.running {
		state.AnchorMs = watch.anchor.UnixMilli()
	}
	return state
}

func (watch *Stopwatch) persistLocked() {
	if watch.persister == nil {
		return
	}
	watch.persister.Save(watch.stateLocked())
}

func (watch *Stopwatch) eventLocked(eventType EventType, now time.Time) Event {
	return Event{
		Type:    eventType,
		Running: watch.running,
		Elapsed: watch.elapsed,
		Laps:    append([]time.Duration(nil), watch.laps...),
		At:      now,
	}
}

func (watch *Stopwatch) emitLocked(event Event) {
	for _, ch := range watch.events {
		select {
		case ch <- event:
		default:
		}
	}
}
