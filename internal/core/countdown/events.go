package countdown

import "time"

// State represents the current countdown mode.
type State string

const (
	StateConfiguring State = "configuring"
	StateArmed       State = "armed"
	StateRunning     State = "running"
	StateExpired     State = "expired"
)

// EventType defines the type of countdown event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventExpired     EventType = "expired"
	EventConfigured  EventType = "configured"
)

// Event represents a countdown update for observers.
type Event struct {
	Type       EventType
	State      State
	Remaining  int
	Configured int
	Progress   float64
	At         time.Time
}
