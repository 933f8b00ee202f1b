package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"timedeck/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	TimeZone              string  `yaml:"time_zone"`
	StopwatchSampleMillis int     `yaml:"stopwatch_sample_millis"`
	ClockRefreshMillis    int     `yaml:"clock_refresh_millis"`
	NoteEnabled           bool    `yaml:"note_enabled"`
	AlertOnExpiry         bool    `yaml:"alert_on_expiry"`
	AlertOpacity          float64 `yaml:"alert_opacity"`
	LogLevel              string  `yaml:"log_level"`
	WindowWidth           int     `yaml:"window_width"`
	WindowHeight          int     `yaml:"window_height"`
}

// LoadSettings reads user settings from the app config directory.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := ResolveSettingsPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads user settings from path.
func LoadSettingsFile(path string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user settings to the app config directory.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := ResolveSettingsPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// SaveSettingsFile writes user settings to path.
func SaveSettingsFile(path string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		TimeZone:              settings.TimeZone,
		StopwatchSampleMillis: int(settings.StopwatchSample / time.Millisecond),
		ClockRefreshMillis:    int(settings.ClockRefresh / time.Millisecond),
		NoteEnabled:           settings.NoteEnabled,
		AlertOnExpiry:         settings.AlertOnExpiry,
		AlertOpacity:          settings.AlertOpacity,
		LogLevel:              settings.LogLevel,
		WindowWidth:           int(settings.WindowWidth),
		WindowHeight:          int(settings.WindowHeight),
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// ResolveSettingsPath returns the settings file location for appName.
func ResolveSettingsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if zone := strings.TrimSpace(fileData.TimeZone); zone != "" {
		if _, err := time.LoadLocation(zone); err == nil {
			settings.TimeZone = zone
		}
	}
	if fileData.StopwatchSampleMillis >= 1 && fileData.StopwatchSampleMillis <= 1000 {
		settings.StopwatchSample = time.Duration(fileData.StopwatchSampleMillis) * time.Millisecond
	}
	if fileData.ClockRefreshMillis >= 100 && fileData.ClockRefreshMillis <= 60_000 {
		settings.ClockRefresh = time.Duration(fileData.ClockRefreshMillis) * time.Millisecond
	}
	if fileData.AlertOpacity >= 0.5 && fileData.AlertOpacity <= 1 {
		settings.AlertOpacity = fileData.AlertOpacity
	}
	switch strings.ToLower(fileData.LogLevel) {
	case "debug", "info", "warn", "error":
		settings.LogLevel = strings.ToLower(fileData.LogLevel)
	}
	if fileData.WindowWidth >= 320 {
		settings.WindowWidth = float32(fileData.WindowWidth)
	}
	if fileData.WindowHeight >= 240 {
		settings.WindowHeight = float32(fileData.WindowHeight)
	}

	settings.NoteEnabled = fileData.NoteEnabled
	settings.AlertOnExpiry = fileData.AlertOnExpiry
}
