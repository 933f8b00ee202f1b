package countdown

import (
	"sync"
	"testing"
	"time"

	"timedeck/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type durationStore struct {
	mu      sync.Mutex
	seconds int
	writes  int
}

func (store *durationStore) CountdownDuration() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.seconds
}

func (store *durationStore) SetCountdownDuration(seconds int) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.seconds = seconds
	store.writes++
}

// An hour-long tick keeps the background ticker quiet so tests drive it
// explicitly through advance.
func newTestCountdown(store DurationStore) *Countdown {
	return New(model.CountdownConfig{TickInterval: time.Hour}, store, Options{})
}

func advance(countdown *Countdown, ticks int) {
	for i := 0; i < ticks; i++ {
		countdown.mu.Lock()
		runID := countdown.runID
		countdown.mu.Unlock()
		countdown.tick(runID)
	}
}

func TestNewUsesStoredDuration(t *testing.T) {
	countdown := newTestCountdown(&durationStore{seconds: 300})
	defer countdown.Close()

	assert.Equal(t, 300, countdown.Configured())
	assert.Equal(t, 300, countdown.Remaining())
	assert.Equal(t, StateArmed, countdown.State())
}

func TestNewWithoutStoreUsesDefault(t *testing.T) {
	countdown := newTestCountdown(nil)
	defer countdown.Close()

	assert.Equal(t, DefaultDuration, countdown.Configured())
}

func TestNewClampsStoredDuration(t *testing.T) {
	negative := newTestCountdown(&durationStore{seconds: -30})
	defer negative.Close()
	assert.Zero(t, negative.Configured())
	assert.Equal(t, StateExpired, negative.State())

	huge := newTestCountdown(&durationStore{seconds: 1_000_000})
	defer huge.Close()
	assert.Equal(t, 23*3600+59*60+59, huge.Configured())
}

func TestConfigureComputesTotalAndPersists(t *testing.T) {
	store := &durationStore{seconds: 60}
	countdown := newTestCountdown(store)
	defer countdown.Close()

	require.NoError(t, countdown.Configure(0, 1, 30))

	assert.Equal(t, 90, countdown.Configured())
	assert.Equal(t, 90, countdown.Remaining())
	assert.Equal(t, StateArmed, countdown.State())
	assert.Equal(t, 90, store.CountdownDuration())
}

func TestConfigureClampsFields(t *testing.T) {
	countdown := newTestCountdown(nil)
	defer countdown.Close()

	require.NoError(t, countdown.Configure(99, 75, -4))
	assert.Equal(t, 23*3600+59*60, countdown.Configured())
}

func TestConfigureWhileRunningFails(t *testing.T) {
	countdown := newTestCountdown(&durationStore{seconds: 60})
	defer countdown.Close()

	require.True(t, countdown.Start())
	assert.ErrorIs(t, countdown.Configure(0, 0, 5), ErrRunning)
	assert.Equal(t, 60, countdown.Configured())
}

func TestRunsToExpiry(t *testing.T) {
	countdown := newTestCountdown(&durationStore{seconds: 60})
	defer countdown.Close()
	require.NoError(t, countdown.Configure(0, 1, 30))
	events := countdown.Subscribe(128)

	require.True(t, countdown.Start())
	assert.Equal(t, StateRunning, countdown.State())

	advance(countdown, 89)
	assert.Equal(t, 1, countdown.Remaining())
	assert.True(t, countdown.Running())

	advance(countdown, 1)
	assert.Equal(t, 0, countdown.Remaining())
	assert.Equal(t, StateExpired, countdown.State())
	assert.False(t, countdown.Running())
	assert.Equal(t, 1.0, countdown.Progress())

	var last Event
	count := 0
	for len(events) > 0 {
		last = <-events
		count++
	}
	assert.Equal(t, 91, count)
	assert.Equal(t, EventExpired, last.Type)

	advance(countdown, 5)
	assert.Equal(t, 0, countdown.Remaining())
}

func TestStartAtZeroIsNoop(t *testing.T) {
	countdown := newTestCountdown(&durationStore{seconds: 0})
	defer countdown.Close()
	events := countdown.Subscribe(4)

	assert.False(t, countdown.Start())
	assert.False(t, countdown.Running())
	assert.Equal(t, StateExpired, countdown.State())

	countdown.mu.Lock()
	assert.Nil(t, countdown.stopCh)
	countdown.mu.Unlock()
	assert.Empty(t, events)
}

func TestPauseKeepsRemainingAndStopsTicks(t *testing.T) {
	countdown := newTestCountdown(&durationStore{seconds: 10})
	defer countdown.Close()

	countdown.Start()
	advance(countdown, 3)

	countdown.mu.Lock()
	staleRun := countdown.runID
	countdown.mu.Unlock()

	countdown.ToggleRun()
	assert.Equal(t, StateArmed, countdown.State())
	assert.Equal(t, 7, countdown.Remaining())

	assert.False(t, countdown.tick(staleRun))
	assert.Equal(t, 7, countdown.Remaining())

	countdown.ToggleRun()
	assert.True(t, countdown.Running())
	assert.False(t, countdown.tick(staleRun))
	advance(countdown, 2)
	assert.Equal(t, 5, countdown.Remaining())
}

func TestResetRestoresConfigured(t *testing.T) {
	countdown := newTestCountdown(&durationStore{seconds: 10})
	defer countdown.Close()

	countdown.Start()
	advance(countdown, 10)
	require.Equal(t, StateExpired, countdown.State())

	countdown.Reset()
	assert.Equal(t, StateArmed, countdown.State())
	assert.Equal(t, 10, countdown.Remaining())

	countdown.Start()
	advance(countdown, 4)
	countdown.Reset()
	assert.False(t, countdown.Running())
	assert.Equal(t, 10, countdown.Remaining())
}

func TestConfiguringLifecycle(t *testing.T) {
	store := &durationStore{seconds: 120}
	countdown := newTestCountdown(store)
	defer countdown.Close()

	countdown.Start()
	advance(countdown, 20)
	countdown.BeginConfigure()
	assert.Equal(t, StateConfiguring, countdown.State())
	assert.False(t, countdown.Running())
	assert.False(t, countdown.Start())

	countdown.CancelConfigure()
	assert.Equal(t, StateArmed, countdown.State())
	assert.Equal(t, 100, countdown.Remaining())

	countdown.BeginConfigure()
	require.NoError(t, countdown.Configure(0, 0, 0))
	assert.Equal(t, StateExpired, countdown.State())
	assert.Zero(t, store.CountdownDuration())
}

func TestProgress(t *testing.T) {
	countdown := newTestCountdown(&durationStore{seconds: 0})
	defer countdown.Close()
	assert.Zero(t, countdown.Progress())

	require.NoError(t, countdown.Configure(0, 0, 40))
	countdown.Start()
	advance(countdown, 10)
	assert.InDelta(t, 0.25, countdown.Progress(), 1e-9)
}

func TestEndsAt(t *testing.T) {
	countdown := newTestCountdown(&durationStore{seconds: 90})
	defer countdown.Close()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(90*time.Second), countdown.EndsAt(now))
}

func TestBackgroundTickerExpires(t *testing.T) {
	countdown := New(model.CountdownConfig{TickInterval: 2 * time.Millisecond}, &durationStore{seconds: 3}, Options{})
	defer countdown.Close()
	events := countdown.Subscribe(16)

	require.True(t, countdown.Start())

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-events:
			if event.Type == EventExpired {
				assert.Equal(t, StateExpired, event.State)
				assert.Zero(t, event.Remaining)
				return
			}
		case <-deadline:
			t.Fatal("countdown did not expire")
		}
	}
}

func TestCloseClosesSubscribers(t *testing.T) {
	countdown := newTestCountdown(nil)
	events := countdown.Subscribe(2)
	countdown.Start()
	countdown.Close()

	assert.False(t, countdown.Running())
	for range events {
	}
	assert.False(t, countdown.Start())
}
