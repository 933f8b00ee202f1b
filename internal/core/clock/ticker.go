package clock

import (
	"sync"
	"time"

	"timedeck/internal/core/model"
)

// Ticker resamples the wall clock on a fixed cadence and publishes readings.
type Ticker struct {
	mu       sync.Mutex
	location *time.Location
	interval time.Duration
	now      func() time.Time
	events   []chan Reading
	stopCh   chan struct{}
	running  bool
}

// NewTicker creates a stopped Ticker for the configured zone.
func NewTicker(config model.ClockConfig, now func() time.Time) *Ticker {
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &Ticker{
		location: LoadLocation(config.TimeZone),
		interval: config.RefreshInterval,
		now:      now,
	}
}

// Location returns the display zone.
func (ticker *Ticker) Location() *time.Location {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	return ticker.location
}

// UpdateConfig switches zone and cadence. A running ticker restarts.
func (ticker *Ticker) UpdateConfig(config model.ClockConfig) {
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = time.Second
	}
	ticker.mu.Lock()
	ticker.location = LoadLocation(config.TimeZone)
	ticker.interval = config.RefreshInterval
	restart := ticker.running
	ticker.mu.Unlock()

	if restart {
		ticker.Stop()
		ticker.Start()
		return
	}
	ticker.publish()
}

// Current renders the present instant.
func (ticker *Ticker) Current() Reading {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	return Render(ticker.now(), ticker.location)
}

// Subscribe registers a new observer channel.
func (ticker *Ticker) Subscribe(buffer int) <-chan Reading {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Reading, buffer)
	ticker.mu.Lock()
	ticker.events = append(ticker.events, ch)
	ticker.mu.Unlock()
	return ch
}

// Start publishes the current reading and begins resampling.
func (ticker *Ticker) Start() {
	ticker.mu.Lock()
	if ticker.running {
		ticker.mu.Unlock()
		return
	}
	ticker.running = true
	ticker.stopCh = make(chan struct{})
	go ticker.run(ticker.interval, ticker.stopCh)
	ticker.mu.Unlock()

	ticker.publish()
}

// Stop halts resampling. Observers stay subscribed.
func (ticker *Ticker) Stop() {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	if !ticker.running {
		return
	}
	close(ticker.stopCh)
	ticker.stopCh = nil
	ticker.running = false
}

// Close stops resampling and closes observers.
func (ticker *Ticker) Close() {
	ticker.Stop()
	ticker.mu.Lock()
	events := ticker.events
	ticker.events = nil
	ticker.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (ticker *Ticker) run(interval time.Duration, stopCh <-chan struct{}) {
	timeTicker := time.NewTicker(interval)
	defer timeTicker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-timeTicker.C:
			ticker.publish()
		}
	}
}

func (ticker *Ticker) publish() {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	reading := Render(ticker.now(), ticker.location)
	for _, ch := range ticker.events {
		select {
		case ch <- reading:
		default:
		}
	}
}
