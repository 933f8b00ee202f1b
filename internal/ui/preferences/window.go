package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// ZoneChoices are offered in the time zone selector. Any IANA name may be typed.
var ZoneChoices = []string{
	DefaultTimeZone,
	"UTC",
	"Europe/London",
	"Europe/Berlin",
	"America/New_York",
	"America/Los_Angeles",
	"Asia/Tokyo",
	"Australia/Sydney",
}

// LogLevels lists the accepted log level names.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	onSave   func(Settings)
	zone     *widget.SelectEntry
	sample   *widget.Entry
	refresh  *widget.Entry
	note     *widget.Check
	alert    *widget.Check
	opacity  *widget.Slider
	logLevel *widget.Select
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("TimeDeck Settings")

	zone := widget.NewSelectEntry(ZoneChoices)
	sample := widget.NewEntry()
	refresh := widget.NewEntry()
	note := widget.NewCheck("Show sticky note", nil)
	alert := widget.NewCheck("Alert when countdown ends", nil)

	opacity := widget.NewSlider(0.5, 1)
	opacity.Step = 0.01

	logLevel := widget.NewSelect(LogLevels, nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Clock", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, widget.NewLabel("Time zone"), nil, zone),
		container.NewHBox(widget.NewLabel("Refresh every"), refresh, widget.NewLabel("ms")),
		widget.NewLabelWithStyle("Stopwatch", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Sample every"), sample, widget.NewLabel("ms")),
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		note,
		alert,
		widget.NewLabel("Alert opacity"),
		opacity,
		container.NewHBox(widget.NewLabel("Log level"), logLevel),
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 460))

	prefs := &Window{
		window:   window,
		onSave:   onSave,
		zone:     zone,
		sample:   sample,
		refresh:  refresh,
		note:     note,
		alert:    alert,
		opacity:  opacity,
		logLevel: logLevel,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.zone.SetText(settings.TimeZone)
	prefs.sample.SetText(fmt.Sprintf("%d", settings.StopwatchSample.Milliseconds()))
	prefs.refresh.SetText(fmt.Sprintf("%d", settings.ClockRefresh.Milliseconds()))
	prefs.note.SetChecked(settings.NoteEnabled)
	prefs.alert.SetChecked(settings.AlertOnExpiry)
	prefs.opacity.Value = settings.AlertOpacity
	prefs.opacity.Refresh()
	prefs.logLevel.SetSelected(settings.LogLevel)
}

// Settings returns the last saved settings.
func (prefs *Window) Settings() Settings {
	return prefs.settings
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if _, err := time.LoadLocation(prefs.zone.Text); err == nil && prefs.zone.Text != "" {
		settings.TimeZone = prefs.zone.Text
	}
	if millis, ok := parseIntInRange(prefs.sample.Text, 1, 1000); ok {
		settings.StopwatchSample = time.Duration(millis) * time.Millisecond
	}
	if millis, ok := parseIntInRange(prefs.refresh.Text, 100, 60000); ok {
		settings.ClockRefresh = time.Duration(millis) * time.Millisecond
	}
	settings.NoteEnabled = prefs.note.Checked
	settings.AlertOnExpiry = prefs.alert.Checked
	settings.AlertOpacity = prefs.opacity.Value
	if prefs.logLevel.Selected != "" {
		settings.LogLevel = prefs.logLevel.Selected
	}

	prefs.UpdateSettings(settings)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parseIntInRange(value string, minimum, maximum int) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < minimum || parsed > maximum {
		return 0, false
	}
	return parsed, true
}
