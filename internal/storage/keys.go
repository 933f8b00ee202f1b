package storage

// Persisted preference keys.
const (
	KeyLastMode          = "last_mode"
	KeyCountdownDuration = "countdown_duration"
	KeyStopwatchState    = "stopwatch_state"
	KeyNoteContent       = "note_content"
	KeyNotePosition      = "note_position"
)
