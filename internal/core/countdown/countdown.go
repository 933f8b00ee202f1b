package countdown

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"timedeck/internal/core/model"
)

// ErrRunning indicates the countdown cannot be reconfigured while it runs.
var ErrRunning = errors.New("countdown is running")

// DefaultDuration is the configured duration used when none is stored.
const DefaultDuration = 60

// DurationStore keeps the configured duration across sessions.
type DurationStore interface {
	CountdownDuration() int
	SetCountdownDuration(seconds int)
}

// Options contains runtime hooks for Countdown.
type Options struct {
	Now    func() time.Time
	Logger *slog.Logger
}

// Countdown is a state machine counting a configured duration down to zero
// once per tick.
type Countdown struct {
	mu          sync.Mutex
	config      model.CountdownConfig
	now         func() time.Time
	logger      *slog.Logger
	durations   DurationStore
	configured  int
	remaining   int
	running     bool
	configuring bool
	events      []chan Event
	stopCh      chan struct{}
	runID       uint64
	closed      bool
}

// New creates an armed Countdown with the stored configured duration.
func New(config model.CountdownConfig, durations DurationStore, options Options) *Countdown {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if config.MaxHours <= 0 {
		config.MaxHours = 23
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	countdown := &Countdown{
		config:     config,
		now:        options.Now,
		logger:     options.Logger,
		durations:  durations,
		configured: DefaultDuration,
	}
	if durations != nil {
		countdown.configured = countdown.clampTotal(durations.CountdownDuration())
	}
	countdown.remaining = countdown.configured
	return countdown
}

// Subscribe registers a new observer channel.
func (countdown *Countdown) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	if countdown.closed {
		close(ch)
		return ch
	}
	countdown.events = append(countdown.events, ch)
	return ch
}

// BeginConfigure pauses the countdown and enters the configuring state.
func (countdown *Countdown) BeginConfigure() {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	if countdown.closed || countdown.configuring {
		return
	}
	countdown.haltLocked()
	countdown.configuring = true
	countdown.emitLocked(countdown.eventLocked(EventStateChange))
}

// CancelConfigure leaves the configuring state without changing the duration.
func (countdown *Countdown) CancelConfigure() {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	if countdown.closed || !countdown.configuring {
		return
	}
	countdown.configuring = false
	countdown.emitLocked(countdown.eventLocked(EventStateChange))
}

// Configure sets the configured duration and rearms the countdown.
// Fields are clamped to hours [0,MaxHours], minutes and seconds [0,59].
func (countdown *Countdown) Configure(hours, minutes, seconds int) error {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	if countdown.running {
		return ErrRunning
	}
	if countdown.closed {
		return nil
	}

	total := clamp(hours, 0, countdown.config.MaxHours)*3600 +
		clamp(minutes, 0, 59)*60 +
		clamp(seconds, 0, 59)
	countdown.configured = total
	countdown.remaining = total
	countdown.configuring = false
	if countdown.durations != nil {
		countdown.durations.SetCountdownDuration(total)
	}

	countdown.logger.Debug("countdown configured", "seconds", total)
	countdown.emitLocked(countdown.eventLocked(EventConfigured))
	return nil
}

// Start begins counting down. It reports false and does nothing when the
// countdown is not armed or has nothing left to count.
func (countdown *Countdown) Start() bool {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	if countdown.closed || countdown.running || countdown.configuring || countdown.remaining <= 0 {
		return false
	}

	countdown.running = true
	countdown.runID++
	countdown.stopCh = make(chan struct{})
	go countdown.run(countdown.runID, countdown.stopCh)

	countdown.emitLocked(countdown.eventLocked(EventStateChange))
	return true
}

// Pause stops counting and keeps the remaining time.
func (countdown *Countdown) Pause() {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	if !countdown.running {
		return
	}
	countdown.haltLocked()
	countdown.emitLocked(countdown.eventLocked(EventStateChange))
}

// ToggleRun pauses a running countdown or starts an armed one.
func (countdown *Countdown) ToggleRun() {
	if countdown.Running() {
		countdown.Pause()
		return
	}
	countdown.Start()
}

// Reset stops counting and restores the configured duration.
func (countdown *Countdown) Reset() {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	if countdown.closed {
		return
	}
	countdown.haltLocked()
	countdown.configuring = false
	countdown.remaining = countdown.configured
	countdown.emitLocked(countdown.eventLocked(EventStateChange))
}

// Close stops counting and closes observers.
func (countdown *Countdown) Close() {
	countdown.mu.Lock()
	if countdown.closed {
		countdown.mu.Unlock()
		return
	}
	countdown.haltLocked()
	countdown.closed = true
	events := countdown.events
	countdown.events = nil
	countdown.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// State returns the current state.
func (countdown *Countdown) State() State {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	return countdown.stateLocked()
}

// Running reports whether the countdown is ticking.
func (countdown *Countdown) Running() bool {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	return countdown.running
}

// Remaining returns the remaining whole seconds.
func (countdown *Countdown) Remaining() int {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	return countdown.remaining
}

// Configured returns the configured duration in seconds.
func (countdown *Countdown) Configured() int {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	return countdown.configured
}

// Progress returns the elapsed fraction of the configured duration.
func (countdown *Countdown) Progress() float64 {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	return countdown.progressLocked()
}

// EndsAt returns when the countdown would reach zero if it ran from now.
func (countdown *Countdown) EndsAt(now time.Time) time.Time {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	return now.Add(time.Duration(countdown.remaining) * time.Second)
}

func (countdown *Countdown) run(runID uint64, stopCh <-chan struct{}) {
	ticker := time.NewTicker(countdown.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !countdown.tick(runID) {
				return
			}
		}
	}
}

// tick decrements the remaining time and reports whether the run continues.
func (countdown *Countdown) tick(runID uint64) bool {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	if countdown.closed || !countdown.running || runID != countdown.runID {
		return false
	}

	countdown.remaining--
	if countdown.remaining > 0 {
		countdown.emitLocked(countdown.eventLocked(EventProgress))
		return true
	}

	countdown.remaining = 0
	countdown.haltLocked()
	countdown.logger.Info("countdown expired", "configured", countdown.configured)
	countdown.emitLocked(countdown.eventLocked(EventExpired))
	return false
}

func (countdown *Countdown) haltLocked() {
	countdown.running = false
	if countdown.stopCh != nil {
		close(countdown.stopCh)
		countdown.stopCh = nil
	}
}

func (countdown *Countdown) stateLocked() State {
	switch {
	case countdown.running:
		return StateRunning
	case countdown.configuring:
		return StateConfiguring
	case countdown.remaining <= 0:
		return StateExpired
	default:
		return StateArmed
	}
}

func (countdown *Countdown) progressLocked() float64 {
	if countdown.configured <= 0 {
		return 0
	}
	return float64(countdown.configured-countdown.remaining) / float64(countdown.configured)
}

func (countdown *Countdown) clampTotal(seconds int) int {
	maxSeconds := countdown.config.MaxHours*3600 + 59*60 + 59
	return clamp(seconds, 0, maxSeconds)
}

func (countdown *Countdown) eventLocked(eventType EventType) Event {
	return Event{
		Type:       eventType,
		State:      countdown.stateLocked(),
		Remaining:  countdown.remaining,
		Configured: countdown.configured,
		Progress:   countdown.progressLocked(),
		At:         countdown.now(),
	}
}

func (countdown *Countdown) emitLocked(event Event) {
	for _, ch := range countdown.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func clamp(value, minimum, maximum int) int {
	if value < minimum {
		return minimum
	}
	if value > maximum {
		return maximum
	}
	return value
}
