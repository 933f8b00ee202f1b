package stopwatch

import "time"

// EventType defines the type of stopwatch event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventLap         EventType = "lap"
	EventReset       EventType = "reset"
)

// Event represents a stopwatch update for observers.
type Event struct {
	Type    EventType
	Running bool
	Elapsed time.Duration
	Laps    []time.Duration
	At      time.Time
}
