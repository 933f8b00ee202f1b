package alert

import (
	"testing"
	"time"

	"timedeck/internal/ui/animation"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowAndDismiss(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	alert := New(app, Config{Opacity: 0.9}, animation.Config{
		On:  animation.Range{Min: time.Hour},
		Off: animation.Range{Min: time.Hour},
	})
	dismissed := 0
	alert.SetOnDismiss(func() { dismissed++ })

	alert.Show(90)
	require.True(t, alert.Visible())
	assert.Equal(t, "Countdown of 01:30 finished", alert.detail.Text)
	assert.Equal(t, "Time's up!", alert.title.Text)

	test.Tap(alert.dismiss)
	assert.False(t, alert.Visible())
	assert.Equal(t, 1, dismissed)

	alert.Hide()
	assert.Equal(t, 1, dismissed)
}

func TestUpdateConfig(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	alert := New(app, Config{Opacity: 0.5}, animation.DefaultConfig())
	assert.Equal(t, uint8(127), backgroundColor(0.5).A)

	alert.UpdateConfig(Config{Opacity: 1})
	assert.Equal(t, backgroundColor(1), alert.background.FillColor)
	assert.Equal(t, uint8(255), opacityToAlpha(3))
	assert.Equal(t, uint8(0), opacityToAlpha(-1))
}
