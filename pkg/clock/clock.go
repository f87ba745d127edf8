// Package clock abstracts wall-clock time and one-shot timers so that
// time-dependent logic can be driven deterministically in tests.
package clock

import (
	"sort"
	"sync"
	"time"
)

// Timer is a cancellable one-shot deferred callback.
type Timer interface {
	// Stop cancels the timer if it has not yet fired, reporting whether
	// the callback was still pending. As with time.Timer, a callback the
	// runtime has already dispatched may still run after Stop returns.
	Stop() bool
}

// Clock provides the current instant and deferred callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// New returns a Clock backed by the system clock and runtime timers.
func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Manual is a test clock whose time only moves when told to. Callbacks run
// synchronously inside Advance, ordered by fire instant, with registration
// order breaking ties.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clk     *Manual
	fireAt  time.Time
	seq     int
	f       func()
	stopped bool
	fired   bool
}

// NewManual builds a manual clock starting at the given instant.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{clk: m, fireAt: m.now.Add(d), seq: m.seq, f: f}
	m.seq++
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward and fires every timer now due.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	due := m.collectDueLocked()
	m.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// Pending reports how many timers are registered and not yet fired or
// stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

func (m *Manual) collectDueLocked() []*manualTimer {
	var due []*manualTimer
	for _, t := range m.timers {
		if !t.fired && !t.stopped && !t.fireAt.After(m.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].fireAt.Equal(due[j].fireAt) {
			return due[i].seq < due[j].seq
		}
		return due[i].fireAt.Before(due[j].fireAt)
	})
	return due
}

func (t *manualTimer) Stop() bool {
	t.clk.mu.Lock()
	defer t.clk.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}
