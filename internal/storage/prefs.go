package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
)

// ErrStorageUnavailable indicates the backend cannot be read or written.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Backend is a keyed text store.
// Read returns an empty string for keys that were never written.
type Backend interface {
	Read(key string) (string, error)
	Write(key, value string) error
	Remove(key string) error
}

// Store is a best-effort JSON value cache over a Backend.
// Failures are logged and never returned to callers.
type Store struct {
	mu      sync.Mutex
	backend Backend
	logger  *slog.Logger
}

// NewStore creates a store. A nil logger uses slog.Default().
func NewStore(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger}
}

// Save serializes value and writes it under key.
func (store *Store) Save(key string, value any) {
	serialized, err := json.Marshal(value)
	if err != nil {
		store.logger.Error("encode cached value", "key", key, "error", err)
		return
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.backend == nil {
		store.logger.Warn("save cached value", "key", key, "error", ErrStorageUnavailable)
		return
	}
	if err := store.backend.Write(key, string(serialized)); err != nil {
		store.logger.Warn("save cached value", "key", key, "error", err)
	}
}

// Remove deletes key from the backend.
func (store *Store) Remove(key string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.backend == nil {
		return
	}
	if err := store.backend.Remove(key); err != nil {
		store.logger.Warn("remove cached value", "key", key, "error", err)
	}
}

func (store *Store) read(key string) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.backend == nil {
		return "", ErrStorageUnavailable
	}
	return store.backend.Read(key)
}

// Load reads and decodes the value stored under key.
// fallback is returned when the key is absent, the stored text does not
// decode into T, or the backend fails.
func Load[T any](store *Store, key string, fallback T) T {
	if store == nil {
		return fallback
	}
	raw, err := store.read(key)
	if err != nil {
		store.logger.Warn("load cached value", "key", key, "error", err)
		return fallback
	}
	if raw == "" {
		return fallback
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		store.logger.Warn("load cached value", "key", key, "error", fmt.Errorf("decode: %w", err))
		return fallback
	}
	return value
}

// Key is a typed binding of a single store key.
type Key[T any] struct {
	store    *Store
	name     string
	fallback T
}

// NewKey binds name in store with a default value.
func NewKey[T any](store *Store, name string, fallback T) Key[T] {
	return Key[T]{store: store, name: name, fallback: fallback}
}

// Name returns the bound key.
func (key Key[T]) Name() string {
	return key.name
}

// Load returns the stored value or the default.
func (key Key[T]) Load() T {
	return Load(key.store, key.name, key.fallback)
}

// Save writes value under the bound key.
func (key Key[T]) Save(value T) {
	if key.store == nil {
		return
	}
	key.store.Save(key.name, value)
}

// Clear removes the bound key so later loads return the default.
func (key Key[T]) Clear() {
	if key.store == nil {
		return
	}
	key.store.Remove(key.name)
}

// PreferencesBackend stores values in Fyne app preferences.
type PreferencesBackend struct {
	prefs fyne.Preferences
}

// NewPreferencesBackend wraps the preferences of a Fyne app.
func NewPreferencesBackend(prefs fyne.Preferences) *PreferencesBackend {
	return &PreferencesBackend{prefs: prefs}
}

func (backend *PreferencesBackend) Read(key string) (string, error) {
	if backend.prefs == nil {
		return "", ErrStorageUnavailable
	}
	return backend.prefs.String(key), nil
}

func (backend *PreferencesBackend) Write(key, value string) error {
	if backend.prefs == nil {
		return ErrStorageUnavailable
	}
	backend.prefs.SetString(key, value)
	return nil
}

func (backend *PreferencesBackend) Remove(key string) error {
	if backend.prefs == nil {
		return ErrStorageUnavailable
	}
	backend.prefs.RemoveValue(key)
	return nil
}

// MemoryBackend keeps values in process memory.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

func (backend *MemoryBackend) Read(key string) (string, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.values[key], nil
}

func (backend *MemoryBackend) Write(key, value string) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.values[key] = value
	return nil
}

func (backend *MemoryBackend) Remove(key string) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	delete(backend.values, key)
	return nil
}
