package shell

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"timedeck/internal/core/appstate"
	"timedeck/internal/core/clock"
)

// Runner is an engine with run and reset controls.
type Runner interface {
	ToggleRun()
	Reset()
}

// Lapper records laps.
type Lapper interface {
	RecordLap() bool
}

// Sampler toggles an engine's background progress sampling.
type Sampler interface {
	SetSampling(enabled bool)
}

// Panel is a mode view that can be expanded.
type Panel interface {
	Content() fyne.CanvasObject
	SetExpanded(expanded bool)
}

// Parts are the views and engines the shell arranges.
type Parts struct {
	State     *appstate.State
	Clock     fyne.CanvasObject
	Stopwatch Panel
	Countdown Panel
	Watch     interface {
		Runner
		Lapper
		Sampler
	}
	Timer Runner
	Note  fyne.CanvasObject
}

// Shell is the window root: navbar, active panel, mode switcher and note layer.
type Shell struct {
	parts    Parts
	compact  *widget.Label
	date     *widget.Label
	back     *widget.Button
	switcher *fyne.Container
	buttons  map[appstate.Mode]*widget.Button
	panels   map[appstate.Mode]fyne.CanvasObject
	content  fyne.CanvasObject

	modeMu   sync.Mutex
	lastMode appstate.Mode
}

// New builds the shell and shows the persisted mode.
func New(parts Parts) *Shell {
	shell := &Shell{
		parts:   parts,
		buttons: make(map[appstate.Mode]*widget.Button),
		panels: map[appstate.Mode]fyne.CanvasObject{
			appstate.ModeClock:     parts.Clock,
			appstate.ModeStopwatch: parts.Stopwatch.Content(),
			appstate.ModeCountdown: parts.Countdown.Content(),
		},
	}

	shell.compact = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true, Monospace: true})
	shell.date = widget.NewLabel("")
	shell.back = widget.NewButtonWithIcon("Back", theme.NavigateBackIcon(), func() {
		parts.State.SetExpanded(false)
	})
	navbar := container.NewHBox(shell.back, shell.compact, layout.NewSpacer(), shell.date)

	shell.switcher = container.NewGridWithColumns(len(appstate.Modes))
	for _, mode := range appstate.Modes {
		button := widget.NewButton(mode.Label(), func() {
			parts.State.SetMode(mode)
		})
		shell.buttons[mode] = button
		shell.switcher.Add(button)
	}

	body := container.NewStack()
	for _, mode := range appstate.Modes {
		body.Add(container.NewPadded(shell.panels[mode]))
	}

	root := container.NewBorder(container.NewVBox(navbar, widget.NewSeparator()), shell.switcher, nil, nil, body)
	if parts.Note != nil {
		shell.content = container.NewStack(root, parts.Note)
	} else {
		shell.content = root
	}

	shell.lastMode = parts.State.Mode()
	if parts.Watch != nil {
		parts.Watch.SetSampling(shell.lastMode == appstate.ModeStopwatch)
	}
	parts.State.OnChange(shell.modeChanged)
	parts.State.OnChange(func(snapshot appstate.Snapshot) {
		fyne.Do(func() {
			shell.apply(snapshot)
		})
	})
	shell.apply(parts.State.Snapshot())
	return shell
}

// Content returns the window content.
func (shell *Shell) Content() fyne.CanvasObject {
	return shell.content
}

// ApplyClock updates the navbar readout. Call it on the UI thread.
func (shell *Shell) ApplyClock(reading clock.Reading) {
	shell.compact.SetText(reading.Compact())
	shell.date.SetText(reading.DateLine)
}

// BindShortcuts installs the keyboard shortcuts on canvas.
// Keys typed into a focused entry never reach these handlers.
func (shell *Shell) BindShortcuts(canvas fyne.Canvas) {
	canvas.SetOnTypedKey(func(event *fyne.KeyEvent) {
		shell.HandleKey(event.Name)
	})
}

// HandleKey runs the shortcut bound to key and reports whether one matched.
func (shell *Shell) HandleKey(key fyne.KeyName) bool {
	state := shell.parts.State
	switch key {
	case fyne.Key1:
		state.SetMode(appstate.ModeClock)
	case fyne.Key2:
		state.SetMode(appstate.ModeStopwatch)
	case fyne.Key3:
		state.SetMode(appstate.ModeCountdown)
	case fyne.KeySpace:
		runner := shell.activeRunner()
		if runner == nil {
			return false
		}
		runner.ToggleRun()
	case fyne.KeyR:
		runner := shell.activeRunner()
		if runner == nil {
			return false
		}
		runner.Reset()
	case fyne.KeyL:
		if state.Mode() != appstate.ModeStopwatch || shell.parts.Watch == nil {
			return false
		}
		return shell.parts.Watch.RecordLap()
	case fyne.KeyEscape:
		if !state.Expanded() {
			return false
		}
		state.SetExpanded(false)
	default:
		return false
	}
	return true
}

// modeChanged runs on the goroutine that changed the mode, before the view
// updates. Leaving the countdown resets it, and the stopwatch only samples
// while it is the active mode.
func (shell *Shell) modeChanged(snapshot appstate.Snapshot) {
	shell.modeMu.Lock()
	previous := shell.lastMode
	shell.lastMode = snapshot.Mode
	shell.modeMu.Unlock()
	if previous == snapshot.Mode {
		return
	}

	if previous == appstate.ModeCountdown && shell.parts.Timer != nil {
		shell.parts.Timer.Reset()
	}
	if shell.parts.Watch != nil {
		shell.parts.Watch.SetSampling(snapshot.Mode == appstate.ModeStopwatch)
	}
}

func (shell *Shell) activeRunner() Runner {
	switch shell.parts.State.Mode() {
	case appstate.ModeStopwatch:
		if shell.parts.Watch != nil {
			return shell.parts.Watch
		}
	case appstate.ModeCountdown:
		return shell.parts.Timer
	}
	return nil
}

func (shell *Shell) apply(snapshot appstate.Snapshot) {
	for mode, panel := range shell.panels {
		if mode == snapshot.Mode {
			panel.Show()
		} else {
			panel.Hide()
		}
	}
	for mode, button := range shell.buttons {
		if mode == snapshot.Mode {
			button.Importance = widget.HighImportance
		} else {
			button.Importance = widget.MediumImportance
		}
		button.Refresh()
	}

	expanded := snapshot.Expanded && snapshot.Mode != appstate.ModeClock
	if expanded {
		shell.back.Show()
		shell.switcher.Hide()
	} else {
		shell.back.Hide()
		shell.switcher.Show()
	}
	shell.parts.Stopwatch.SetExpanded(snapshot.Expanded && snapshot.Mode == appstate.ModeStopwatch)
	shell.parts.Countdown.SetExpanded(snapshot.Expanded && snapshot.Mode == appstate.ModeCountdown)
}
