package note

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

type dragHandle struct {
	widget.BaseWidget
	onDrag    func(fyne.Delta)
	onDragEnd func()
	disabled  bool
}

func newDragHandle(onDrag func(fyne.Delta), onDragEnd func()) *dragHandle {
	handle := &dragHandle{onDrag: onDrag, onDragEnd: onDragEnd}
	handle.ExtendBaseWidget(handle)
	return handle
}

func (handle *dragHandle) CreateRenderer() fyne.WidgetRenderer {
	title := widget.NewLabelWithStyle("Note", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	return widget.NewSimpleRenderer(container.NewHBox(widget.NewIcon(theme.DocumentIcon()), title))
}

func (handle *dragHandle) Dragged(event *fyne.DragEvent) {
	if handle.disabled || handle.onDrag == nil {
		return
	}
	handle.onDrag(event.Dragged)
}

func (handle *dragHandle) DragEnd() {
	if handle.disabled || handle.onDragEnd == nil {
		return
	}
	handle.onDragEnd()
}
