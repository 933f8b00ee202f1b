package model

import "time"

// StopwatchConfig controls how often a running stopwatch is resampled.
type StopwatchConfig struct {
	SampleInterval time.Duration
}

// CountdownConfig contains runtime settings for the countdown state machine.
type CountdownConfig struct {
	TickInterval time.Duration
	MaxHours     int
}

// ClockConfig describes the wall-clock display.
type ClockConfig struct {
	TimeZone        string
	RefreshInterval time.Duration
}
