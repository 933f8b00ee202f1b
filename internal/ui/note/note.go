package note

import (
	"image/color"

	"timedeck/internal/storage"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Position is the persisted top-left corner of the note.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DefaultPosition places the note near the top-left corner.
var DefaultPosition = Position{X: 24, Y: 96}

var cardSize = fyne.NewSize(240, 180)

// Note is a draggable sticky note whose text and position survive restarts.
type Note struct {
	entry    *widget.Entry
	handle   *dragHandle
	card     *fyne.Container
	layer    *fyne.Container
	text     storage.Key[string]
	position storage.Key[Position]
	current  Position
	mobile   bool
}

// New creates the note. On mobile the note is pinned bottom-centre and cannot be dragged.
func New(store *storage.Store, mobile bool) *Note {
	note := &Note{
		text:     storage.NewKey(store, storage.KeyNoteContent, ""),
		position: storage.NewKey(store, storage.KeyNotePosition, DefaultPosition),
		mobile:   mobile,
	}
	note.current = note.position.Load()

	note.entry = widget.NewMultiLineEntry()
	note.entry.SetPlaceHolder("Jot something down...")
	note.entry.Wrapping = fyne.TextWrapWord
	note.entry.SetText(note.text.Load())
	note.entry.OnChanged = func(text string) {
		if text == "" {
			note.text.Clear()
			return
		}
		note.text.Save(text)
	}

	note.handle = newDragHandle(note.drag, note.dragEnd)
	if mobile {
		note.handle.disabled = true
	}

	background := canvas.NewRectangle(color.NRGBA{R: 255, G: 236, B: 153, A: 235})
	background.CornerRadius = theme.InputRadiusSize()
	note.card = container.NewStack(background, container.NewBorder(note.handle, nil, nil, nil, note.entry))

	note.layer = container.New(&noteLayout{note: note}, note.card)
	return note
}

// Content returns the transparent layer holding the note card.
func (note *Note) Content() fyne.CanvasObject {
	return note.layer
}

// Text returns the note text.
func (note *Note) Text() string {
	return note.entry.Text
}

// Position returns the current top-left corner.
func (note *Note) Position() Position {
	return note.current
}

// SetVisible shows or hides the note.
func (note *Note) SetVisible(visible bool) {
	if visible {
		note.layer.Show()
	} else {
		note.layer.Hide()
	}
}

func (note *Note) drag(delta fyne.Delta) {
	note.current.X += int(delta.DX)
	note.current.Y += int(delta.DY)
	note.layer.Refresh()
}

func (note *Note) dragEnd() {
	note.position.Save(note.current)
}

type noteLayout struct {
	note *Note
}

func (layout *noteLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, object := range objects {
		object.Resize(cardSize)
		object.Move(layout.origin(size))
	}
}

func (layout *noteLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(0, 0)
}

func (layout *noteLayout) origin(size fyne.Size) fyne.Position {
	if layout.note.mobile {
		return fyne.NewPos((size.Width-cardSize.Width)/2, size.Height-cardSize.Height-theme.Padding())
	}
	x := clampCoord(float32(layout.note.current.X), size.Width-cardSize.Width)
	y := clampCoord(float32(layout.note.current.Y), size.Height-cardSize.Height)
	return fyne.NewPos(x, y)
}

// clampCoord keeps the card inside the window once the window is large enough.
func clampCoord(value, maximum float32) float32 {
	if maximum > 0 && value > maximum {
		value = maximum
	}
	if value < 0 {
		value = 0
	}
	return value
}
