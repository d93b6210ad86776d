// Package refresh implements the idle countdown that tells a page to reload.
//
// A Timer counts down from its delay; any activity calls Reset and restarts
// the count. When the count reaches zero the expire callback runs once and
// the timer stops until started again.
package refresh

import (
	"math"
	"sync"
	"time"
)

// DefaultDelay is the idle time before expiry.
const DefaultDelay = 15 * time.Second

// Timer is an activity-reset countdown. The zero value is not usable; call New.
type Timer struct {
	mu       sync.Mutex
	delay    time.Duration
	tick     time.Duration
	deadline time.Time
	stop     chan struct{}

	onTick   func(seconds int)
	onExpire func()
}

// Option configures a Timer.
type Option func(*Timer)

// OnTick sets the callback run every tick with the whole seconds remaining.
func OnTick(fn func(seconds int)) Option {
	return func(t *Timer) { t.onTick = fn }
}

// OnExpire sets the callback run when the delay elapses without a Reset.
func OnExpire(fn func()) Option {
	return func(t *Timer) { t.onExpire = fn }
}

// WithTick sets the countdown granularity (default: one second).
func WithTick(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.tick = d
		}
	}
}

// New creates a stopped Timer. A non-positive delay uses DefaultDelay.
func New(delay time.Duration, opts ...Option) *Timer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	t := &Timer{delay: delay, tick: time.Second}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Delay returns the configured delay.
func (t *Timer) Delay() time.Duration { return t.delay }

// Start begins the countdown. Starting a running timer resets it.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.deadline = time.Now().Add(t.delay)
	if t.stop != nil {
		return
	}
	stop := make(chan struct{})
	t.stop = stop
	go t.run(stop)
}

// Reset restarts the countdown of a running timer. It does nothing to a
// stopped one.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		t.deadline = time.Now().Add(t.delay)
	}
}

// Cancel stops the countdown without running the expire callback.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// Running reports whether the countdown is active.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

// Remaining returns the time left, or zero when stopped.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop == nil {
		return 0
	}
	if d := time.Until(t.deadline); d > 0 {
		return d
	}
	return 0
}

func (t *Timer) run(stop chan struct{}) {
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		t.mu.Lock()
		if t.stop != stop {
			t.mu.Unlock()
			return
		}
		left := time.Until(t.deadline)
		expired := left <= 0
		if expired {
			t.stop = nil
		}
		t.mu.Unlock()

		if expired {
			if t.onExpire != nil {
				t.onExpire()
			}
			return
		}
		if t.onTick != nil {
			t.onTick(int(math.Ceil(left.Seconds())))
		}
	}
}
