package game

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer is a single pausable countdown with absolute-deadline semantics:
// while running it stores the deadline, while paused it stores the remaining
// duration, never both. Computing remaining time off the deadline keeps it
// immune to polling latency, and pause/resume cannot accumulate drift.
//
// Timer is not safe for concurrent use; the engine mutex guards it.
type Timer struct {
	clock    clockwork.Clock
	duration time.Duration

	endsAt       time.Time
	remaining    time.Duration
	hasRemaining bool
	paused       bool
}

func NewTimer(clock clockwork.Clock, duration time.Duration) *Timer {
	return &Timer{clock: clock, duration: duration}
}

func (t *Timer) Duration() time.Duration { return t.duration }

// Start begins a fresh countdown of the full duration.
func (t *Timer) Start() {
	t.endsAt = t.clock.Now().Add(t.duration)
	t.remaining = 0
	t.hasRemaining = false
	t.paused = false
}

// Hold parks the timer paused with the full duration still ahead of it,
// before it has ever started. Used for the reveal gate so no countdown is
// burned during the intro animation.
func (t *Timer) Hold() {
	t.endsAt = time.Time{}
	t.remaining = t.duration
	t.hasRemaining = true
	t.paused = true
}

// Pause freezes the countdown, converting the deadline into a stored
// remainder. No-op if already paused or not running.
func (t *Timer) Pause() {
	if t.paused || t.endsAt.IsZero() {
		return
	}
	rem := t.endsAt.Sub(t.clock.Now())
	if rem < 0 {
		rem = 0
	}
	t.endsAt = time.Time{}
	t.remaining = rem
	t.hasRemaining = true
	t.paused = true
}

// Resume converts the stored remainder back into an absolute deadline.
// No-op if not paused or nothing is stored.
func (t *Timer) Resume() {
	if !t.paused || !t.hasRemaining {
		return
	}
	t.endsAt = t.clock.Now().Add(t.remaining)
	t.remaining = 0
	t.hasRemaining = false
	t.paused = false
}

// Reset returns the timer to idle.
func (t *Timer) Reset() {
	t.endsAt = time.Time{}
	t.remaining = 0
	t.hasRemaining = false
	t.paused = false
}

func (t *Timer) Paused() bool { return t.paused }

func (t *Timer) Running() bool { return !t.endsAt.IsZero() && !t.paused }

// Deadline reports the absolute deadline while the timer is running.
func (t *Timer) Deadline() (time.Time, bool) {
	if t.endsAt.IsZero() {
		return time.Time{}, false
	}
	return t.endsAt, true
}

// Remaining reports how much countdown is left. The second return is false
// when the timer is idle.
func (t *Timer) Remaining() (time.Duration, bool) {
	if !t.endsAt.IsZero() && !t.paused {
		rem := t.endsAt.Sub(t.clock.Now())
		if rem < 0 {
			rem = 0
		}
		return rem, true
	}
	if t.hasRemaining {
		return t.remaining, true
	}
	return 0, false
}
