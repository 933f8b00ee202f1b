package display

import (
	"log/slog"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"timedeck/internal/core/countdown"
	"timedeck/internal/core/timespan"
)

// CountdownPanel renders a countdown with a progress bar and a duration editor.
type CountdownPanel struct {
	countdown *countdown.Countdown
	location  *time.Location
	now       func() time.Time
	logger    *slog.Logger

	progress *widget.ProgressBar
	timeText *canvas.Text
	caption  *widget.Label
	toggle   *widget.Button
	reset    *widget.Button
	settings *widget.Button
	viewer   *fyne.Container

	hours   *widget.Entry
	minutes *widget.Entry
	seconds *widget.Entry
	editor  *fyne.Container

	remaining int
	editing   bool
	expanded  bool
	content   fyne.CanvasObject
}

// NewCountdownPanel creates a panel bound to cd. Times in the caption are
// shown in location.
func NewCountdownPanel(cd *countdown.Countdown, location *time.Location, logger *slog.Logger, onExpand func()) *CountdownPanel {
	if logger == nil {
		logger = slog.Default()
	}
	if location == nil {
		location = time.Local
	}
	panel := &CountdownPanel{
		countdown: cd,
		location:  location,
		now:       time.Now,
		logger:    logger,
	}

	panel.progress = widget.NewProgressBar()
	panel.progress.TextFormatter = func() string { return "" }

	panel.timeText = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	panel.timeText.TextSize = 64
	panel.timeText.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	panel.timeText.Alignment = fyne.TextAlignCenter

	panel.caption = widget.NewLabel("")
	panel.caption.Alignment = fyne.TextAlignCenter

	panel.toggle = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), cd.ToggleRun)
	panel.reset = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), cd.Reset)
	panel.settings = widget.NewButtonWithIcon("Set", theme.SettingsIcon(), panel.openEditor)

	panel.viewer = container.NewVBox(
		panel.progress,
		panel.timeText,
		container.NewCenter(container.NewHBox(panel.toggle, panel.reset, panel.settings)),
		panel.caption,
	)

	panel.hours = newFieldEntry()
	panel.minutes = newFieldEntry()
	panel.seconds = newFieldEntry()
	saveButton := widget.NewButtonWithIcon("Save", theme.ConfirmIcon(), panel.saveEditor)
	cancelButton := widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), panel.cancelEditor)
	panel.editor = container.NewVBox(
		widget.NewLabelWithStyle("Set Timer", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		container.NewCenter(container.NewHBox(
			fieldColumn("Hours", panel.hours),
			fieldColumn("Minutes", panel.minutes),
			fieldColumn("Seconds", panel.seconds),
		)),
		container.NewHBox(layout.NewSpacer(), saveButton, cancelButton, layout.NewSpacer()),
	)
	panel.editor.Hide()

	body := container.NewVBox(
		widget.NewLabelWithStyle("Countdown Timer", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		panel.viewer,
		panel.editor,
	)
	panel.content = newTapArea(body, func() {
		if !panel.expanded && onExpand != nil {
			onExpand()
		}
	})

	panel.Apply(countdown.Event{
		Type:       countdown.EventStateChange,
		State:      cd.State(),
		Remaining:  cd.Remaining(),
		Configured: cd.Configured(),
		Progress:   cd.Progress(),
	})
	panel.SetExpanded(false)
	return panel
}

func newFieldEntry() *widget.Entry {
	entry := widget.NewEntry()
	entry.SetText("0")
	return entry
}

func fieldColumn(label string, entry *widget.Entry) fyne.CanvasObject {
	return container.NewVBox(
		widget.NewLabelWithStyle(label, fyne.TextAlignCenter, fyne.TextStyle{}),
		container.NewGridWrap(fyne.NewSize(72, entry.MinSize().Height), entry),
	)
}

// Content returns the panel's canvas object.
func (panel *CountdownPanel) Content() fyne.CanvasObject {
	return panel.content
}

// Apply shows a countdown event. Call it on the UI thread.
func (panel *CountdownPanel) Apply(event countdown.Event) {
	panel.remaining = event.Remaining
	panel.timeText.Text = timespan.Clock(event.Remaining)
	panel.timeText.Refresh()
	panel.progress.SetValue(event.Progress)

	if event.State == countdown.StateRunning {
		panel.toggle.SetText("Pause")
		panel.toggle.SetIcon(theme.MediaPauseIcon())
	} else {
		panel.toggle.SetText("Start")
		panel.toggle.SetIcon(theme.MediaPlayIcon())
	}
	if event.Remaining > 0 {
		panel.toggle.Enable()
	} else {
		panel.toggle.Disable()
	}
	leftEditor := event.Type == countdown.EventConfigured ||
		(event.Type == countdown.EventStateChange && event.State != countdown.StateConfiguring)
	if leftEditor && panel.editing {
		panel.showViewer()
	}
	panel.RefreshCaption()
}

// RefreshCaption recomputes the finish-time caption.
func (panel *CountdownPanel) RefreshCaption() {
	if !panel.expanded || panel.editing {
		panel.caption.Hide()
		return
	}
	if panel.remaining == 0 {
		panel.caption.SetText("Time's up!")
	} else {
		endsAt := panel.countdown.EndsAt(panel.now()).In(panel.location)
		panel.caption.SetText("Time remaining until " + endsAt.Format("03:04:05 PM"))
	}
	panel.caption.Show()
}

// SetExpanded toggles the finish-time caption.
func (panel *CountdownPanel) SetExpanded(expanded bool) {
	panel.expanded = expanded
	panel.RefreshCaption()
}

// SetLocation changes the zone used for the caption.
func (panel *CountdownPanel) SetLocation(location *time.Location) {
	if location != nil {
		panel.location = location
	}
	panel.RefreshCaption()
}

func (panel *CountdownPanel) openEditor() {
	panel.countdown.BeginConfigure()
	hours, minutes, seconds := timespan.Split(panel.countdown.Configured())
	panel.hours.SetText(strconv.Itoa(hours))
	panel.minutes.SetText(strconv.Itoa(minutes))
	panel.seconds.SetText(strconv.Itoa(seconds))

	panel.editing = true
	panel.viewer.Hide()
	panel.editor.Show()
	panel.RefreshCaption()
}

func (panel *CountdownPanel) saveEditor() {
	err := panel.countdown.Configure(
		ParseField(panel.hours.Text),
		ParseField(panel.minutes.Text),
		ParseField(panel.seconds.Text),
	)
	if err != nil {
		panel.logger.Warn("configure countdown", "error", err)
	}
	panel.showViewer()
}

func (panel *CountdownPanel) cancelEditor() {
	panel.countdown.CancelConfigure()
	panel.showViewer()
}

func (panel *CountdownPanel) showViewer() {
	panel.editing = false
	panel.editor.Hide()
	panel.viewer.Show()
	panel.RefreshCaption()
}

// Bind applies events from the countdown until the channel closes.
func (panel *CountdownPanel) Bind(events <-chan countdown.Event) {
	go func() {
		for event := range events {
			fyne.Do(func() {
				panel.Apply(event)
			})
		}
	}()
}
