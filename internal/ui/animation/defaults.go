package animation

import "time"

// DefaultConfig returns the pulse timing used by the expiry alert.
func DefaultConfig() Config {
	return Config{
		On:     Range{Min: 450 * time.Millisecond, Max: 550 * time.Millisecond},
		Off:    Range{Min: 250 * time.Millisecond, Max: 300 * time.Millisecond},
		Cycles: 0,
	}
}
