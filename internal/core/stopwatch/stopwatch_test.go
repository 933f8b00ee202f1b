package stopwatch

import (
	"sync"
	"testing"
	"time"

	"timedeck/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Advance(delta time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(delta)
}

type memoryPersister struct {
	mu    sync.Mutex
	state State
	saves int
}

func (persister *memoryPersister) Load() State {
	persister.mu.Lock()
	defer persister.mu.Unlock()
	return persister.state
}

func (persister *memoryPersister) Save(state State) {
	persister.mu.Lock()
	defer persister.mu.Unlock()
	persister.state = state
	persister.saves++
}

func (persister *memoryPersister) Saved() (State, int) {
	persister.mu.Lock()
	defer persister.mu.Unlock()
	return persister.state, persister.saves
}

// An hour-long sample interval keeps the background sampler quiet so tests
// drive sampling explicitly through Sync.
func newTestStopwatch(clock *fakeClock, persister Persister) *Stopwatch {
	return New(model.StopwatchConfig{SampleInterval: time.Hour}, persister, Options{Now: clock.Now})
}

func TestNewStartsPausedAndEmpty(t *testing.T) {
	watch := newTestStopwatch(newFakeClock(), nil)
	defer watch.Close()

	assert.False(t, watch.Running())
	assert.Zero(t, watch.Elapsed())
	assert.Empty(t, watch.Laps())
}

func TestPauseKeepsElapsedAtPauseTime(t *testing.T) {
	clock := newFakeClock()
	watch := newTestStopwatch(clock, nil)
	defer watch.Close()

	watch.ToggleRun()
	clock.Advance(1500 * time.Millisecond)
	watch.ToggleRun()
	require.False(t, watch.Running())
	assert.Equal(t, 1500*time.Millisecond, watch.Elapsed())

	clock.Advance(time.Minute)
	assert.Equal(t, 1500*time.Millisecond, watch.Elapsed())
}

func TestResumeAccumulatesAdditively(t *testing.T) {
	clock := newFakeClock()
	watch := newTestStopwatch(clock, nil)
	defer watch.Close()

	watch.ToggleRun()
	clock.Advance(2 * time.Second)
	watch.ToggleRun()

	clock.Advance(10 * time.Second)

	watch.ToggleRun()
	clock.Advance(3 * time.Second)
	watch.ToggleRun()

	assert.Equal(t, 5*time.Second, watch.Elapsed())
}

func TestSyncRecomputesFromAnchor(t *testing.T) {
	clock := newFakeClock()
	watch := newTestStopwatch(clock, nil)
	defer watch.Close()
	events := watch.Subscribe(8)

	watch.Start()
	<-events

	// Simulates a suspended sampler: no ticks fired for 42 seconds.
	clock.Advance(42 * time.Second)
	watch.Sync()

	event := <-events
	assert.Equal(t, EventProgress, event.Type)
	assert.Equal(t, 42*time.Second, event.Elapsed)
	assert.Equal(t, int64(42_000), watch.Snapshot().ElapsedMs)
}

func TestSyncWhilePausedIsNoop(t *testing.T) {
	watch := newTestStopwatch(newFakeClock(), nil)
	defer watch.Close()
	events := watch.Subscribe(1)

	watch.Sync()

	select {
	case event := <-events:
		t.Fatalf("unexpected event %v", event.Type)
	default:
	}
}

func TestRecordLapWhilePausedIsNoop(t *testing.T) {
	clock := newFakeClock()
	persister := &memoryPersister{}
	watch := newTestStopwatch(clock, persister)
	defer watch.Close()

	assert.False(t, watch.RecordLap())
	assert.Empty(t, watch.Laps())
	_, saves := persister.Saved()
	assert.Zero(t, saves)
}

func TestRecordLapPrependsMostRecent(t *testing.T) {
	clock := newFakeClock()
	watch := newTestStopwatch(clock, nil)
	defer watch.Close()

	watch.ToggleRun()
	clock.Advance(time.Second)
	require.True(t, watch.RecordLap())
	clock.Advance(2 * time.Second)
	require.True(t, watch.RecordLap())

	assert.Equal(t, []time.Duration{3 * time.Second, time.Second}, watch.Laps())
}

func TestResetClearsEverything(t *testing.T) {
	clock := newFakeClock()
	watch := newTestStopwatch(clock, nil)
	defer watch.Close()

	watch.ToggleRun()
	clock.Advance(time.Second)
	watch.RecordLap()
	watch.Reset()

	assert.False(t, watch.Running())
	assert.Zero(t, watch.Elapsed())
	assert.Empty(t, watch.Laps())

	clock.Advance(time.Second)
	assert.Zero(t, watch.Elapsed())
}

func TestEveryMutationPersists(t *testing.T) {
	clock := newFakeClock()
	persister := &memoryPersister{}
	watch := newTestStopwatch(clock, persister)
	defer watch.Close()

	watch.ToggleRun()
	state, saves := persister.Saved()
	assert.Equal(t, 1, saves)
	assert.True(t, state.IsRunning)
	assert.Equal(t, clock.Now().UnixMilli(), state.AnchorMs)

	clock.Advance(250 * time.Millisecond)
	watch.RecordLap()
	state, saves = persister.Saved()
	assert.Equal(t, 2, saves)
	assert.Equal(t, []int64{250}, state.Laps)

	watch.ToggleRun()
	state, saves = persister.Saved()
	assert.Equal(t, 3, saves)
	assert.False(t, state.IsRunning)
	assert.Equal(t, int64(250), state.ElapsedMs)
	assert.Zero(t, state.AnchorMs)

	watch.Reset()
	state, saves = persister.Saved()
	assert.Equal(t, 4, saves)
	assert.Equal(t, State{Laps: []int64{}}, state)
}

func TestRestorePausedState(t *testing.T) {
	persister := &memoryPersister{state: State{ElapsedMs: 61_500, Laps: []int64{30_000, -5, 10_000}}}
	watch := newTestStopwatch(newFakeClock(), persister)
	defer watch.Close()

	assert.False(t, watch.Running())
	assert.Equal(t, 61500*time.Millisecond, watch.Elapsed())
	assert.Equal(t, []time.Duration{30 * time.Second, 10 * time.Second}, watch.Laps())
}

func TestRestoreRunningStateUsesPersistedAnchor(t *testing.T) {
	clock := newFakeClock()
	anchor := clock.Now().Add(-90 * time.Second)
	persister := &memoryPersister{state: State{ElapsedMs: 30_000, IsRunning: true, AnchorMs: anchor.UnixMilli()}}
	watch := newTestStopwatch(clock, persister)
	defer watch.Close()

	require.True(t, watch.Running())
	assert.Equal(t, 90*time.Second, watch.Elapsed())

	clock.Advance(time.Second)
	assert.Equal(t, 91*time.Second, watch.Elapsed())
}

func TestRestoreRunningStateWithoutAnchor(t *testing.T) {
	clock := newFakeClock()
	persister := &memoryPersister{state: State{ElapsedMs: 30_000, IsRunning: true}}
	watch := newTestStopwatch(clock, persister)
	defer watch.Close()

	require.True(t, watch.Running())
	assert.Equal(t, 30*time.Second, watch.Elapsed())
}

func TestSamplerEmitsProgress(t *testing.T) {
	watch := New(model.StopwatchConfig{SampleInterval: 5 * time.Millisecond}, nil, Options{})
	defer watch.Close()
	events := watch.Subscribe(64)

	watch.ToggleRun()
	require.Equal(t, EventStateChange, (<-events).Type)

	select {
	case event := <-events:
		assert.Equal(t, EventProgress, event.Type)
		assert.True(t, event.Running)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a progress event from the sampler")
	}
}

func TestNoProgressAfterPause(t *testing.T) {
	watch := New(model.StopwatchConfig{SampleInterval: 2 * time.Millisecond}, nil, Options{})
	defer watch.Close()

	watch.ToggleRun()
	time.Sleep(10 * time.Millisecond)
	watch.ToggleRun()
	paused := watch.Elapsed()

	events := watch.Subscribe(16)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, paused, watch.Elapsed())
	select {
	case event := <-events:
		t.Fatalf("stale sample after pause: %v", event.Type)
	default:
	}
}

func TestCloseClosesSubscribersAndPersists(t *testing.T) {
	clock := newFakeClock()
	persister := &memoryPersister{}
	watch := newTestStopwatch(clock, persister)
	events := watch.Subscribe(4)

	watch.ToggleRun()
	clock.Advance(time.Second)
	watch.Close()

	state, _ := persister.Saved()
	assert.Equal(t, int64(1000), state.ElapsedMs)
	assert.True(t, state.IsRunning)

	for range events {
	}
	late := watch.Subscribe(1)
	_, open := <-late
	assert.False(t, open)

	watch.ToggleRun()
	watch.Close()
}

func TestUpdateConfigRestartsSampler(t *testing.T) {
	watch := New(model.StopwatchConfig{SampleInterval: time.Hour}, nil, Options{})
	defer watch.Close()
	events := watch.Subscribe(64)

	watch.ToggleRun()
	require.Equal(t, EventStateChange, (<-events).Type)

	watch.UpdateConfig(model.StopwatchConfig{SampleInterval: 5 * time.Millisecond})
	select {
	case event := <-events:
		assert.Equal(t, EventProgress, event.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("expected progress at the new interval")
	}

	watch.UpdateConfig(model.StopwatchConfig{})
	assert.True(t, watch.Running())
}

func TestAnchorCarriesNoMonotonicReading(t *testing.T) {
	watch := New(model.StopwatchConfig{SampleInterval: time.Hour}, nil, Options{Now: time.Now})
	defer watch.Close()
	events := watch.Subscribe(4)

	watch.ToggleRun()
	event := <-events

	watch.mu.Lock()
	anchor := watch.anchor
	watch.mu.Unlock()
	assert.NotContains(t, anchor.String(), "m=")
	assert.NotContains(t, event.At.String(), "m=")
	assert.GreaterOrEqual(t, watch.Elapsed(), time.Duration(0))
}

func TestBackwardsStepNeverGoesNegative(t *testing.T) {
	clock := newFakeClock()
	persister := &memoryPersister{}
	watch := newTestStopwatch(clock, persister)
	defer watch.Close()

	watch.ToggleRun()
	clock.Advance(-5 * time.Second)
	assert.Equal(t, time.Duration(0), watch.Elapsed())

	clock.Advance(2 * time.Second)
	require.True(t, watch.RecordLap())
	assert.Equal(t, []time.Duration{2 * time.Second}, watch.Laps())

	clock.Advance(-time.Minute)
	watch.ToggleRun()
	state, _ := persister.Saved()
	assert.Equal(t, int64(0), state.ElapsedMs)
	assert.Equal(t, []int64{2000}, state.Laps)
	assert.Equal(t, int64(0), watch.Snapshot().ElapsedMs)
}

func TestSetSamplingKeepsRunState(t *testing.T) {
	clock := newFakeClock()
	watch := New(model.StopwatchConfig{SampleInterval: 2 * time.Millisecond}, nil, Options{Now: clock.Now})
	defer watch.Close()

	watch.ToggleRun()
	watch.SetSampling(false)
	assert.False(t, watch.Sampling())
	assert.True(t, watch.Running())

	events := watch.Subscribe(16)
	time.Sleep(20 * time.Millisecond)
	select {
	case event := <-events:
		t.Fatalf("sampled while sampling was off: %v", event.Type)
	default:
	}

	clock.Advance(3 * time.Second)
	assert.Equal(t, 3*time.Second, watch.Elapsed())

	watch.SetSampling(true)
	event := <-events
	assert.Equal(t, EventProgress, event.Type)
	assert.Equal(t, 3*time.Second, event.Elapsed)
}

func TestStartWhileSamplingOffSchedulesNothing(t *testing.T) {
	watch := New(model.StopwatchConfig{SampleInterval: 2 * time.Millisecond}, nil, Options{})
	defer watch.Close()
	watch.SetSampling(false)
	events := watch.Subscribe(16)

	watch.ToggleRun()
	require.Equal(t, EventStateChange, (<-events).Type)
	time.Sleep(20 * time.Millisecond)
	select {
	case event := <-events:
		t.Fatalf("sampled while sampling was off: %v", event.Type)
	default:
	}
}
