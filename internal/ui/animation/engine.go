package animation

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Range defines a duration range with random sampling.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Random returns a random duration within the range.
func (value Range) Random(rng *rand.Rand) time.Duration {
	if value.Max <= value.Min {
		return value.Min
	}
	delta := value.Max - value.Min
	return value.Min + time.Duration(rng.Int63n(int64(delta)))
}

// Config contains pulse timing values. Cycles <= 0 pulses until stopped.
type Config struct {
	On     Range
	Off    Range
	Cycles int
}

// Engine drives an on/off pulse through a callback.
type Engine struct {
	mu     sync.Mutex
	config Config
	apply  func(on bool)
	cancel context.CancelFunc
	done   chan struct{}
	rng    *rand.Rand
}

// New creates a pulse engine. apply is called from the engine goroutine.
func New(config Config, apply func(on bool)) *Engine {
	return &Engine{
		config: config,
		apply:  apply,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start begins pulsing, replacing any running pulse. The pulse ends in the
// "on" state when it finishes, is stopped or ctx is cancelled.
func (engine *Engine) Start(ctx context.Context) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	engine.cancel = cancel
	engine.done = done
	engine.mu.Unlock()

	go func() {
		defer close(done)
		engine.run(runCtx)
	}()
}

// Stop terminates the active pulse and waits for it to settle.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	cancel := engine.cancel
	done := engine.done
	engine.cancel = nil
	engine.done = nil
	engine.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (engine *Engine) run(ctx context.Context) {
	defer engine.apply(true)
	for cycle := 0; engine.config.Cycles <= 0 || cycle < engine.config.Cycles; cycle++ {
		engine.apply(true)
		if !sleepWithContext(ctx, engine.config.On.Random(engine.rng)) {
			return
		}
		engine.apply(false)
		if !sleepWithContext(ctx, engine.config.Off.Random(engine.rng)) {
			return
		}
	}
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
