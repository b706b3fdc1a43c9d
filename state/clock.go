package state

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending delayed callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

// Clock schedules delayed callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

type systemClock struct{}

// SystemClock returns a Clock backed by time.AfterFunc.
// Callbacks run on the timer goroutine.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

type scheduledClock struct {
	clock     Clock
	scheduler Scheduler
}

// ScheduledClock hands every fired callback of clock to scheduler, so
// timers can be delivered on a UI loop. A nil clock uses SystemClock; a
// nil scheduler returns clock unchanged.
func ScheduledClock(clock Clock, scheduler Scheduler) Clock {
	if clock == nil {
		clock = SystemClock()
	}
	if scheduler == nil {
		return clock
	}
	return scheduledClock{clock: clock, scheduler: scheduler}
}

func (c scheduledClock) Now() time.Time {
	return c.clock.Now()
}

func (c scheduledClock) AfterFunc(d time.Duration, fn func()) Timer {
	return c.clock.AfterFunc(d, func() {
		c.scheduler.Schedule(fn)
	})
}

// ManualClock is a Clock whose time only moves on Advance.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

// NewManualClock creates a clock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	now := c.now
	c.mu.Unlock()
	return now
}

// AfterFunc schedules fn to run once the clock has advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	t := &manualTimer{clock: c, when: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	c.mu.Unlock()
	return t
}

// Advance moves time forward by d and runs every timer that came due,
// earliest deadline first. It returns the number of callbacks run.
func (c *ManualClock) Advance(d time.Duration) int {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due, rest []*manualTimer
	for _, t := range c.timers {
		if t.done {
			continue
		}
		if !t.when.After(c.now) {
			t.done = true
			due = append(due, t)
			continue
		}
		rest = append(rest, t)
	}
	c.timers = rest
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].when.Before(due[j].when)
	})
	for _, t := range due {
		if t.fn != nil {
			t.fn()
		}
	}
	return len(due)
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	pending := 0
	for _, t := range c.timers {
		if !t.done {
			pending++
		}
	}
	return pending
}

type manualTimer struct {
	clock *ManualClock
	when  time.Time
	fn    func()
	done  bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}
