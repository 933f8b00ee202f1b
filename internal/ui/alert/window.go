package alert

import (
	"context"
	"image/color"

	"timedeck/internal/core/timespan"
	"timedeck/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Config defines alert visuals.
type Config struct {
	Opacity float64
}

// Window shows the countdown expiry alert.
type Window struct {
	window     fyne.Window
	config     Config
	background *canvas.Rectangle
	title      *canvas.Text
	detail     *canvas.Text
	dismiss    *widget.Button
	engine     *animation.Engine
	cancelCtx  context.CancelFunc
	visible    bool
	onDismiss  func()
}

var (
	titleColor  = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	dimmedColor = color.NRGBA{R: 232, G: 190, B: 66, A: 90}
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates the alert window. It stays hidden until Show.
func New(app fyne.App, config Config, pulse animation.Config) *Window {
	window := app.NewWindow("Time's up!")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(backgroundColor(config.Opacity))

	title := canvas.NewText("Time's up!", titleColor)
	title.Alignment = fyne.TextAlignCenter
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 28

	detail := canvas.NewText("", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	detail.Alignment = fyne.TextAlignCenter
	detail.TextSize = 14

	dismiss := widget.NewButton("Dismiss", nil)

	content := container.NewPadded(container.NewVBox(title, detail, container.NewCenter(dismiss)))
	window.SetContent(container.NewStack(background, content))
	window.Resize(fyne.NewSize(280, 150))

	alert := &Window{
		window:     window,
		config:     config,
		background: background,
		title:      title,
		detail:     detail,
		dismiss:    dismiss,
	}
	alert.engine = animation.New(pulse, func(on bool) {
		fyne.Do(func() {
			alert.setPulse(on)
		})
	})
	dismiss.OnTapped = func() {
		alert.Hide()
		if alert.onDismiss != nil {
			alert.onDismiss()
		}
	}
	window.SetCloseIntercept(func() {
		dismiss.OnTapped()
	})
	return alert
}

// SetOnDismiss sets the handler called after the user dismisses the alert.
func (alert *Window) SetOnDismiss(handler func()) {
	alert.onDismiss = handler
}

// Show displays the alert for a countdown of configured seconds and starts the pulse.
func (alert *Window) Show(configured int) {
	alert.stopPulse()
	ctx, cancel := context.WithCancel(context.Background())
	alert.cancelCtx = cancel

	alert.detail.Text = "Countdown of " + timespan.Clock(configured) + " finished"
	alert.detail.Refresh()
	alert.visible = true
	alert.window.CenterOnScreen()
	alert.window.Show()
	alert.window.RequestFocus()
	alert.engine.Start(ctx)
}

// Hide closes the alert and stops the pulse.
func (alert *Window) Hide() {
	if !alert.visible {
		return
	}
	alert.visible = false
	alert.stopPulse()
	alert.window.Hide()
}

// Visible reports whether the alert is showing.
func (alert *Window) Visible() bool {
	return alert.visible
}

// UpdateConfig updates alert visuals.
func (alert *Window) UpdateConfig(config Config) {
	alert.config = config
	alert.background.FillColor = backgroundColor(config.Opacity)
	canvas.Refresh(alert.background)
}

func (alert *Window) setPulse(on bool) {
	if on {
		alert.title.Color = titleColor
	} else {
		alert.title.Color = dimmedColor
	}
	alert.title.Refresh()
}

func (alert *Window) stopPulse() {
	if alert.cancelCtx != nil {
		alert.cancelCtx()
		alert.cancelCtx = nil
	}
}

func backgroundColor(opacity float64) color.NRGBA {
	return color.NRGBA{R: 0, G: 0, B: 0, A: opacityToAlpha(opacity)}
}

func opacityToAlpha(opacity float64) uint8 {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return uint8(opacity * 255)
}
