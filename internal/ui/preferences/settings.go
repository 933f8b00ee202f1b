package preferences

import (
	"log/slog"
	"time"

	"timedeck/internal/core/model"
)

// DefaultTimeZone is the zone shown by the clock when none is configured.
const DefaultTimeZone = "Asia/Kolkata"

// Settings defines editable user preferences.
type Settings struct {
	TimeZone        string
	StopwatchSample time.Duration
	ClockRefresh    time.Duration

	NoteEnabled   bool
	AlertOnExpiry bool
	AlertOpacity  float64

	LogLevel     string
	WindowWidth  float32
	WindowHeight float32
}

// DefaultSettings returns default settings for TimeDeck.
func DefaultSettings() Settings {
	return Settings{
		TimeZone:        DefaultTimeZone,
		StopwatchSample: 10 * time.Millisecond,
		ClockRefresh:    time.Second,
		NoteEnabled:     true,
		AlertOnExpiry:   true,
		AlertOpacity:    0.9,
		LogLevel:        "info",
		WindowWidth:     900,
		WindowHeight:    600,
	}
}

// StopwatchConfig converts settings to a StopwatchConfig.
func (settings Settings) StopwatchConfig() model.StopwatchConfig {
	return model.StopwatchConfig{SampleInterval: settings.StopwatchSample}
}

// CountdownConfig converts settings to a CountdownConfig.
func (settings Settings) CountdownConfig() model.CountdownConfig {
	return model.CountdownConfig{
		TickInterval: time.Second,
		MaxHours:     23,
	}
}

// ClockConfig converts settings to a ClockConfig.
func (settings Settings) ClockConfig() model.ClockConfig {
	return model.ClockConfig{
		TimeZone:        settings.TimeZone,
		RefreshInterval: settings.ClockRefresh,
	}
}

// SlogLevel maps LogLevel to a slog level. Unknown values map to info.
func (settings Settings) SlogLevel() slog.Level {
	switch settings.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
