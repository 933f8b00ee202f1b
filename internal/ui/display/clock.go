package display

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"timedeck/internal/core/clock"
)

// ClockPanel shows the current time in the configured zone.
type ClockPanel struct {
	timeText     *canvas.Text
	meridiemText *canvas.Text
	dateLabel    *widget.Label
	zoneLabel    *widget.Label
	content      fyne.CanvasObject
}

// NewClockPanel creates a clock panel showing initial.
func NewClockPanel(initial clock.Reading, zone string) *ClockPanel {
	foreground := theme.Color(theme.ColorNameForeground)

	timeText := canvas.NewText("", foreground)
	timeText.TextSize = 72
	timeText.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timeText.Alignment = fyne.TextAlignCenter

	meridiemText := canvas.NewText("", foreground)
	meridiemText.TextSize = 28
	meridiemText.TextStyle = fyne.TextStyle{Bold: true}

	dateLabel := widget.NewLabel("")
	dateLabel.Alignment = fyne.TextAlignCenter
	zoneLabel := widget.NewLabelWithStyle(zone, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	panel := &ClockPanel{
		timeText:     timeText,
		meridiemText: meridiemText,
		dateLabel:    dateLabel,
		zoneLabel:    zoneLabel,
	}
	panel.content = container.NewVBox(
		widget.NewLabelWithStyle("Clock", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		container.NewCenter(container.NewHBox(timeText, meridiemText)),
		dateLabel,
		zoneLabel,
	)
	panel.Apply(initial)
	return panel
}

// Content returns the panel's canvas object.
func (panel *ClockPanel) Content() fyne.CanvasObject {
	return panel.content
}

// Apply shows reading. Call it on the UI thread.
func (panel *ClockPanel) Apply(reading clock.Reading) {
	panel.timeText.Text = reading.Hours12 + ":" + reading.Minutes + ":" + reading.Seconds
	panel.timeText.Refresh()
	panel.meridiemText.Text = reading.Meridiem
	panel.meridiemText.Refresh()
	panel.dateLabel.SetText(reading.DateLine)
}

// SetZone updates the zone caption.
func (panel *ClockPanel) SetZone(zone string) {
	panel.zoneLabel.SetText(zone)
}
