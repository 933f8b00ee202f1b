package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
)

// MenuHost is the part of desktop.App the tray needs.
type MenuHost interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow            func()
	OnPreferences     func()
	OnToggleStopwatch func()
	OnLap             func()
	OnToggleCountdown func()
	OnReset           func()
	OnQuit            func()
}

// Manager handles system tray state.
type Manager struct {
	app           MenuHost
	statusItem    *fyne.MenuItem
	stopwatchItem *fyne.MenuItem
	lapItem       *fyne.MenuItem
	countdownItem *fyne.MenuItem
	callbacks     Callbacks
	statusLabel   string
	menu          *fyne.Menu
}

// New creates a tray manager with the provided callbacks.
func New(app MenuHost, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.stopwatchItem = fyne.NewMenuItem("Start stopwatch", invoke(&manager.callbacks.OnToggleStopwatch))
	manager.lapItem = fyne.NewMenuItem("Lap", invoke(&manager.callbacks.OnLap))
	manager.lapItem.Disabled = true
	manager.countdownItem = fyne.NewMenuItem("Start countdown", invoke(&manager.callbacks.OnToggleCountdown))

	manager.menu = fyne.NewMenu("TimeDeck",
		manager.statusItem,
		fyne.NewMenuItem("Show window", invoke(&manager.callbacks.OnShow)),
		fyne.NewMenuItemSeparator(),
		manager.stopwatchItem,
		manager.lapItem,
		manager.countdownItem,
		fyne.NewMenuItem("Reset active", invoke(&manager.callbacks.OnReset)),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", invoke(&manager.callbacks.OnPreferences)),
		fyne.NewMenuItem("Quit", invoke(&manager.callbacks.OnQuit)),
	)
	manager.refreshMenu()

	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	if status == manager.statusLabel {
		return
	}
	manager.statusLabel = status
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

// SetStopwatchRunning updates stopwatch menu items.
func (manager *Manager) SetStopwatchRunning(running bool) {
	manager.labelStopwatch(running)
	manager.refreshMenu()
}

// SetCountdownRunning updates the countdown menu item.
func (manager *Manager) SetCountdownRunning(running bool) {
	manager.labelCountdown(running)
	manager.refreshMenu()
}

// Sync sets both engines' menu items at once, e.g. after a running
// stopwatch was restored at startup.
func (manager *Manager) Sync(stopwatchRunning, countdownRunning bool) {
	manager.labelStopwatch(stopwatchRunning)
	manager.labelCountdown(countdownRunning)
	manager.refreshMenu()
}

func (manager *Manager) labelStopwatch(running bool) {
	if running {
		manager.stopwatchItem.Label = "Pause stopwatch"
	} else {
		manager.stopwatchItem.Label = "Start stopwatch"
	}
	manager.lapItem.Disabled = !running
}

func (manager *Manager) labelCountdown(running bool) {
	if running {
		manager.countdownItem.Label = "Pause countdown"
	} else {
		manager.countdownItem.Label = "Start countdown"
	}
}

// Menu returns the current tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.menu
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(manager.menu)
}

func invoke(handler *func()) func() {
	return func() {
		if *handler != nil {
			(*handler)()
		}
	}
}
