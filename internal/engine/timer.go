package engine

import "time"

// Clock supplies the current time. The engine takes a Clock so tests can
// drive sessions without real waits.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// Timer accumulates elapsed wall-clock time with pause/resume support.
// Time accrues only while running; pause/resume cycles never lose or
// double-count elapsed time.
type Timer struct {
	clock     Clock
	startedAt time.Time
	base      time.Duration
	running   bool
}

// NewTimer returns a stopped timer using the given clock.
func NewTimer(clock Clock) *Timer {
	if clock == nil {
		clock = SystemClock()
	}
	return &Timer{clock: clock}
}

// Start resets the timer and begins accruing time.
func (t *Timer) Start() {
	t.base = 0
	t.startedAt = t.clock.Now()
	t.running = true
}

// Pause freezes the accumulated time. Pausing a stopped timer is a no-op.
func (t *Timer) Pause() {
	if !t.running {
		return
	}
	t.base += t.clock.Now().Sub(t.startedAt)
	t.running = false
}

// Resume continues accruing on top of the time accumulated so far.
// Resuming a running timer is a no-op.
func (t *Timer) Resume() {
	if t.running {
		return
	}
	t.startedAt = t.clock.Now()
	t.running = true
}

// Running reports whether the timer is currently accruing time.
func (t *Timer) Running() bool { return t.running }

// Elapsed returns the accumulated duration.
func (t *Timer) Elapsed() time.Duration {
	d := t.base
	if t.running {
		d += t.clock.Now().Sub(t.startedAt)
	}
	if d < 0 {
		return 0
	}
	return d
}

// ElapsedSeconds returns whole elapsed seconds, never negative.
func (t *Timer) ElapsedSeconds() int {
	return int(t.Elapsed() / time.Second)
}
