package main

import (
	"errors"
	"log/slog"
	"os"
	"sync"
	_ "time/tzdata"

	"timedeck/internal/core/appstate"
	"timedeck/internal/core/clock"
	"timedeck/internal/core/countdown"
	"timedeck/internal/core/stopwatch"
	"timedeck/internal/core/timespan"
	"timedeck/internal/platform"
	"timedeck/internal/storage"
	"timedeck/internal/ui/alert"
	"timedeck/internal/ui/animation"
	"timedeck/internal/ui/display"
	"timedeck/internal/ui/note"
	"timedeck/internal/ui/preferences"
	"timedeck/internal/ui/shell"
	"timedeck/internal/ui/tray"
	"timedeck/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const (
	appName = "TimeDeck"
	appID   = "com.timedeck.app"
)

func main() {
	settings, settingsErr := storage.LoadSettings(appName)

	level := new(slog.LevelVar)
	level.Set(settings.SlogLevel())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	if settingsErr != nil {
		logger.Warn("load settings", "error", settingsErr)
	}

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if activateErr := platform.ActivateRunning(appName); activateErr != nil {
				logger.Warn("activate running instance", "error", activateErr)
			}
		}
		logger.Info("single instance", "error", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID(appID)
	idleIcon := resources.MustLogo(resources.LogoIdle)
	runningIcon := resources.MustLogo(resources.LogoRunning)
	fyneApp.SetIcon(idleIcon)

	store := storage.NewStore(storage.NewPreferencesBackend(fyneApp.Preferences()), logger.With("component", "storage"))
	state := appstate.New(store, countdown.DefaultDuration)
	if state.Mode() != appstate.ModeClock {
		state.SetExpanded(true)
	}
	watch := stopwatch.New(
		settings.StopwatchConfig(),
		storage.NewKey(store, storage.KeyStopwatchState, stopwatch.State{}),
		stopwatch.Options{Logger: logger.With("component", "stopwatch")},
	)
	timer := countdown.New(settings.CountdownConfig(), state, countdown.Options{Logger: logger.With("component", "countdown")})
	ticker := clock.NewTicker(settings.ClockConfig(), nil)

	expand := func() {
		state.SetExpanded(true)
	}
	clockPanel := display.NewClockPanel(ticker.Current(), settings.TimeZone)
	watchPanel := display.NewStopwatchPanel(watch, expand)
	timerPanel := display.NewCountdownPanel(timer, ticker.Location(), logger.With("component", "countdown_view"), expand)
	stickyNote := note.New(store, fyne.CurrentDevice().IsMobile())
	stickyNote.SetVisible(settings.NoteEnabled)

	root := shell.New(shell.Parts{
		State:     state,
		Clock:     clockPanel.Content(),
		Stopwatch: watchPanel,
		Countdown: timerPanel,
		Watch:     watch,
		Timer:     timer,
		Note:      stickyNote.Content(),
	})

	window := fyneApp.NewWindow(appName)
	window.SetContent(root.Content())
	window.Resize(fyne.NewSize(settings.WindowWidth, settings.WindowHeight))
	window.SetMaster()
	root.BindShortcuts(window.Canvas())

	alertWindow := alert.New(fyneApp, alert.Config{Opacity: settings.AlertOpacity}, animation.DefaultConfig())
	alertWindow.SetOnDismiss(timer.Reset)

	var closeOnce sync.Once
	shutdown := func() {
		closeOnce.Do(func() {
			size := window.Canvas().Size()
			if size.Width > 0 && size.Height > 0 {
				settings.WindowWidth = size.Width
				settings.WindowHeight = size.Height
				if err := storage.SaveSettings(appName, settings); err != nil {
					logger.Warn("save settings", "error", err)
				}
			}
			ticker.Close()
			timer.Close()
			watch.Close()
		})
	}
	fyneApp.Lifecycle().SetOnStopped(shutdown)
	fyneApp.Lifecycle().SetOnEnteredForeground(watch.Sync)

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		if err := storage.SaveSettings(appName, settings); err != nil {
			logger.Error("save settings", "error", err)
		}
		level.Set(settings.SlogLevel())
		watch.UpdateConfig(settings.StopwatchConfig())
		ticker.UpdateConfig(settings.ClockConfig())
		clockPanel.SetZone(settings.TimeZone)
		timerPanel.SetLocation(ticker.Location())
		stickyNote.SetVisible(settings.NoteEnabled)
		alertWindow.UpdateConfig(alert.Config{Opacity: settings.AlertOpacity})
		logger.Info("settings updated", "zone", settings.TimeZone, "log_level", settings.LogLevel)
	})
	window.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu("File",
		fyne.NewMenuItem("Preferences", prefsWindow.Show),
	)))

	showWindow := func() {
		window.Show()
		window.RequestFocus()
		watch.Sync()
	}
	guard.Serve(func() {
		fyne.Do(showWindow)
	})

	var trayManager *tray.Manager
	desktopApp, hasTray := fyneApp.(desktop.App)
	if hasTray {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShow:        showWindow,
			OnPreferences: prefsWindow.Show,
			OnToggleStopwatch: func() {
				state.SetMode(appstate.ModeStopwatch)
				watch.ToggleRun()
			},
			OnLap: func() {
				watch.RecordLap()
			},
			OnToggleCountdown: func() {
				state.SetMode(appstate.ModeCountdown)
				timer.ToggleRun()
			},
			OnReset: func() {
				resetActive(state.Mode(), watch, timer)
			},
			OnQuit: fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(idleIcon)
		window.SetCloseIntercept(func() {
			window.Hide()
		})
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	setTrayIcon := func() {
		if !hasTray {
			return
		}
		if watch.Running() || timer.Running() {
			desktopApp.SetSystemTrayIcon(runningIcon)
		} else {
			desktopApp.SetSystemTrayIcon(idleIcon)
		}
	}

	if trayManager != nil {
		trayManager.Sync(watch.Running(), timer.Running())
	}
	setTrayIcon()

	watchPanel.Bind(watch.Subscribe(16))
	timerPanel.Bind(timer.Subscribe(16))

	readings := ticker.Subscribe(4)
	go func() {
		for reading := range readings {
			fyne.Do(func() {
				clockPanel.Apply(reading)
				root.ApplyClock(reading)
				timerPanel.RefreshCaption()
				if trayManager != nil {
					trayManager.SetStatus(statusLine(state.Mode(), reading, watch, timer))
				}
			})
		}
	}()

	watchEvents := watch.Subscribe(16)
	go func() {
		for event := range watchEvents {
			if event.Type != stopwatch.EventStateChange && event.Type != stopwatch.EventReset {
				continue
			}
			fyne.Do(func() {
				if trayManager != nil {
					trayManager.SetStopwatchRunning(event.Running)
				}
				setTrayIcon()
			})
		}
	}()

	timerEvents := timer.Subscribe(16)
	go func() {
		for event := range timerEvents {
			switch event.Type {
			case countdown.EventExpired:
				logger.Info("countdown expired", "configured", event.Configured)
				fyne.Do(func() {
					if trayManager != nil {
						trayManager.SetCountdownRunning(false)
					}
					setTrayIcon()
					if !settings.AlertOnExpiry {
						return
					}
					alertWindow.Show(event.Configured)
					fyneApp.SendNotification(fyne.NewNotification(
						"Time's up!",
						"Countdown of "+timespan.Clock(event.Configured)+" finished",
					))
				})
			case countdown.EventStateChange:
				fyne.Do(func() {
					if trayManager != nil {
						trayManager.SetCountdownRunning(event.State == countdown.StateRunning)
					}
					setTrayIcon()
					if event.State != countdown.StateExpired {
						alertWindow.Hide()
					}
				})
			}
		}
	}()

	ticker.Start()

	window.ShowAndRun()
	shutdown()
}

func resetActive(mode appstate.Mode, watch *stopwatch.Stopwatch, timer *countdown.Countdown) {
	switch mode {
	case appstate.ModeStopwatch:
		watch.Reset()
	case appstate.ModeCountdown:
		timer.Reset()
	}
}

func statusLine(mode appstate.Mode, reading clock.Reading, watch *stopwatch.Stopwatch, timer *countdown.Countdown) string {
	switch mode {
	case appstate.ModeStopwatch:
		return "Stopwatch " + timespan.Clock(int(watch.Elapsed().Seconds()))
	case appstate.ModeCountdown:
		if timer.Remaining() <= 0 {
			return "Countdown: time's up"
		}
		return "Countdown " + timespan.Clock(timer.Remaining())
	default:
		return reading.Compact()
	}
}
