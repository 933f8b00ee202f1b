package note

import (
	"testing"

	"timedeck/internal/storage"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore() *storage.Store {
	return storage.NewStore(storage.NewMemoryBackend(), nil)
}

func TestTextPersistsOnChange(t *testing.T) {
	test.NewApp()
	store := newStore()

	first := New(store, false)
	assert.Equal(t, "", first.Text())
	first.entry.SetText("buy milk")

	second := New(store, false)
	assert.Equal(t, "buy milk", second.Text())
	assert.Equal(t, "buy milk", storage.Load(store, storage.KeyNoteContent, ""))
}

func TestEmptyTextClearsStoredNote(t *testing.T) {
	test.NewApp()
	backend := storage.NewMemoryBackend()
	store := storage.NewStore(backend, nil)

	note := New(store, false)
	note.entry.SetText("call back")
	raw, err := backend.Read(storage.KeyNoteContent)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	note.entry.SetText("")
	raw, err = backend.Read(storage.KeyNoteContent)
	require.NoError(t, err)
	assert.Empty(t, raw)
	assert.Equal(t, "", New(store, false).Text())
}

func TestDragPersistsOnEnd(t *testing.T) {
	test.NewApp()
	store := newStore()

	note := New(store, false)
	require.Equal(t, DefaultPosition, note.Position())

	note.handle.Dragged(&fyne.DragEvent{Dragged: fyne.NewDelta(10, 5)})
	note.handle.Dragged(&fyne.DragEvent{Dragged: fyne.NewDelta(6, -1)})
	assert.Equal(t, Position{X: 40, Y: 100}, note.Position())
	assert.Equal(t, DefaultPosition, storage.Load(store, storage.KeyNotePosition, DefaultPosition))

	note.handle.DragEnd()
	assert.Equal(t, Position{X: 40, Y: 100}, storage.Load(store, storage.KeyNotePosition, DefaultPosition))
	assert.Equal(t, Position{X: 40, Y: 100}, New(store, false).Position())
}

func TestMobileNoteIsPinned(t *testing.T) {
	test.NewApp()
	store := newStore()

	note := New(store, true)
	note.handle.Dragged(&fyne.DragEvent{Dragged: fyne.NewDelta(50, 50)})
	note.handle.DragEnd()
	assert.Equal(t, DefaultPosition, note.Position())

	note.layer.Resize(fyne.NewSize(800, 600))
	pos := note.card.Position()
	assert.Equal(t, float32(280), pos.X)
	assert.Greater(t, pos.Y, float32(400))
}

func TestLayoutClampsIntoWindow(t *testing.T) {
	test.NewApp()
	store := newStore()
	storage.NewKey(store, storage.KeyNotePosition, Position{}).Save(Position{X: 5000, Y: -20})

	note := New(store, false)
	note.layer.Resize(fyne.NewSize(800, 600))

	assert.Equal(t, fyne.NewPos(560, 0), note.card.Position())
}

func TestSetVisible(t *testing.T) {
	test.NewApp()
	note := New(newStore(), false)

	note.SetVisible(false)
	assert.False(t, note.Content().Visible())
	note.SetVisible(true)
	assert.True(t, note.Content().Visible())
}
