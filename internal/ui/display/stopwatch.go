package display

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"timedeck/internal/core/stopwatch"
	"timedeck/internal/core/timespan"
)

// StopwatchPanel renders a stopwatch with run, reset and lap controls.
type StopwatchPanel struct {
	watch    *stopwatch.Stopwatch
	timeText *canvas.Text
	toggle   *widget.Button
	reset    *widget.Button
	lap      *widget.Button
	lapList  *widget.List
	lapBox   fyne.CanvasObject
	laps     []time.Duration
	running  bool
	expanded bool
	content  fyne.CanvasObject
}

// NewStopwatchPanel creates a panel bound to watch. onExpand is called when
// the collapsed panel is tapped.
func NewStopwatchPanel(watch *stopwatch.Stopwatch, onExpand func()) *StopwatchPanel {
	panel := &StopwatchPanel{watch: watch}

	panel.timeText = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	panel.timeText.TextSize = 64
	panel.timeText.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	panel.timeText.Alignment = fyne.TextAlignCenter

	panel.toggle = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), watch.ToggleRun)
	panel.reset = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), watch.Reset)
	panel.lap = widget.NewButtonWithIcon("Lap", theme.ContentAddIcon(), func() {
		watch.RecordLap()
	})

	panel.lapList = widget.NewList(
		func() int { return len(panel.laps) },
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewLabel("Lap 00"), layout.NewSpacer(), widget.NewLabel("00:00.00"))
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			if id < 0 || id >= len(panel.laps) {
				return
			}
			row := item.(*fyne.Container)
			row.Objects[0].(*widget.Label).SetText(fmt.Sprintf("Lap %d", len(panel.laps)-id))
			row.Objects[2].(*widget.Label).SetText(timespan.FromDuration(panel.laps[id]).Stopwatch())
		},
	)
	lapScroll := container.NewGridWrap(fyne.NewSize(360, 200), panel.lapList)
	panel.lapBox = container.NewVBox(
		widget.NewLabelWithStyle("Laps", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewCenter(lapScroll),
	)

	body := container.NewVBox(
		widget.NewLabelWithStyle("Stopwatch", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		panel.timeText,
		container.NewCenter(container.NewHBox(panel.toggle, panel.reset, panel.lap)),
		panel.lapBox,
	)
	panel.content = newTapArea(body, func() {
		if !panel.expanded && onExpand != nil {
			onExpand()
		}
	})

	snapshot := watch.Snapshot()
	panel.Apply(stopwatch.Event{
		Type:    stopwatch.EventStateChange,
		Running: snapshot.IsRunning,
		Elapsed: watch.Elapsed(),
		Laps:    watch.Laps(),
	})
	panel.SetExpanded(false)
	return panel
}

// Content returns the panel's canvas object.
func (panel *StopwatchPanel) Content() fyne.CanvasObject {
	return panel.content
}

// Apply shows a stopwatch event. Call it on the UI thread.
func (panel *StopwatchPanel) Apply(event stopwatch.Event) {
	panel.timeText.Text = timespan.FromDuration(event.Elapsed).Stopwatch()
	panel.timeText.Refresh()
	if event.Type == stopwatch.EventProgress {
		return
	}

	panel.running = event.Running
	if event.Running {
		panel.toggle.SetText("Pause")
		panel.toggle.SetIcon(theme.MediaPauseIcon())
		panel.lap.Enable()
	} else {
		panel.toggle.SetText("Start")
		panel.toggle.SetIcon(theme.MediaPlayIcon())
		panel.lap.Disable()
	}
	panel.laps = event.Laps
	panel.lapList.Refresh()
	panel.refreshLapVisibility()
}

// SetExpanded shows lap controls only in the expanded view.
func (panel *StopwatchPanel) SetExpanded(expanded bool) {
	panel.expanded = expanded
	panel.refreshLapVisibility()
}

func (panel *StopwatchPanel) refreshLapVisibility() {
	if panel.expanded {
		panel.lap.Show()
	} else {
		panel.lap.Hide()
	}
	if panel.expanded && len(panel.laps) > 0 {
		panel.lapBox.Show()
	} else {
		panel.lapBox.Hide()
	}
}

// Bind applies events from watch until the channel closes.
func (panel *StopwatchPanel) Bind(events <-chan stopwatch.Event) {
	go func() {
		for event := range events {
			fyne.Do(func() {
				panel.Apply(event)
			})
		}
	}()
}
