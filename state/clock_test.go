package state

import (
	"testing"
	"time"
)

func TestManualClock_Advance(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	var fired []string

	clock.AfterFunc(20*time.Millisecond, func() { fired = append(fired, "late") })
	clock.AfterFunc(10*time.Millisecond, func() { fired = append(fired, "early") })

	if n := clock.Advance(5 * time.Millisecond); n != 0 {
		t.Fatalf("expected no timers due, got %d", n)
	}
	if n := clock.Advance(15 * time.Millisecond); n != 2 {
		t.Fatalf("expected 2 timers due, got %d", n)
	}
	if len(fired) != 2 || fired[0] != "early" || fired[1] != "late" {
		t.Fatalf("unexpected fire order: %v", fired)
	}
	if got := clock.Now(); !got.Equal(time.Unix(0, 0).Add(20 * time.Millisecond)) {
		t.Fatalf("unexpected now: %v", got)
	}
}

func TestManualClock_Stop(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	calls := 0
	timer := clock.AfterFunc(time.Millisecond, func() { calls++ })

	if clock.Pending() != 1 {
		t.Fatalf("expected 1 pending timer, got %d", clock.Pending())
	}
	if !timer.Stop() {
		t.Fatalf("expected first stop to succeed")
	}
	if timer.Stop() {
		t.Fatalf("expected second stop to report false")
	}
	clock.Advance(time.Second)
	if calls != 0 {
		t.Fatalf("expected stopped timer not to fire, got %d", calls)
	}
	if clock.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", clock.Pending())
	}
}

func TestScheduledClock_DeliversThroughScheduler(t *testing.T) {
	base := NewManualClock(time.Unix(0, 0))
	queue := NewQueue()
	clock := ScheduledClock(base, queue)
	calls := 0

	clock.AfterFunc(time.Millisecond, func() { calls++ })
	base.Advance(time.Millisecond)
	if calls != 0 {
		t.Fatalf("expected fire to wait for flush, got %d", calls)
	}
	if flushed := queue.Flush(); flushed != 1 {
		t.Fatalf("expected 1 queued fire, got %d", flushed)
	}
	if calls != 1 {
		t.Fatalf("expected fire after flush, got %d", calls)
	}
}

func TestScheduledClock_NilScheduler(t *testing.T) {
	base := NewManualClock(time.Unix(0, 0))
	if clock := ScheduledClock(base, nil); clock != Clock(base) {
		t.Fatalf("expected clock to be returned unchanged")
	}
}
