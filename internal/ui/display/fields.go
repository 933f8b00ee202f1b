package display

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// ParseField converts a duration input to a non-negative integer.
// Text that is not a number is treated as zero. Numbers too large for an int
// saturate at math.MaxInt so callers clamp them to their field maximum.
func ParseField(value string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if errors.Is(err, strconv.ErrRange) && parsed > 0 {
		return math.MaxInt
	}
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

// tapArea forwards taps that no child widget handled.
type tapArea struct {
	widget.BaseWidget
	content fyne.CanvasObject
	onTap   func()
}

func newTapArea(content fyne.CanvasObject, onTap func()) *tapArea {
	area := &tapArea{content: content, onTap: onTap}
	area.ExtendBaseWidget(area)
	return area
}

func (area *tapArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(area.content)
}

func (area *tapArea) Tapped(*fyne.PointEvent) {
	if area.onTap != nil {
		area.onTap()
	}
}
