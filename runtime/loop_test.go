package runtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/odvcencio/furry-notify/chain"
	"github.com/odvcencio/furry-notify/state"
)

func runLoop(t *testing.T, loop *Loop) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(context.Background())
	}()
	return done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
		return nil
	}
}

func TestLoop_DispatchSerializes(t *testing.T) {
	loop := NewLoop(LoopConfig{})
	var order []int
	for i := 0; i < 5; i++ {
		if !loop.Dispatch(func() { order = append(order, i) }) {
			t.Fatalf("expected dispatch %d to be queued", i)
		}
	}
	loop.Quit()

	if err := waitDone(t, runLoop(t, loop)); err != nil {
		t.Fatalf("expected nil error after quit, got %v", err)
	}
	if len(order) != 5 {
		t.Fatalf("expected 5 callbacks, got %v", order)
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("expected dispatch order, got %v", order)
		}
	}
}

func TestLoop_ContextCancel(t *testing.T) {
	loop := NewLoop(LoopConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
	}()
	cancel()

	if err := waitDone(t, done); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoop_RunTwice(t *testing.T) {
	loop := NewLoop(LoopConfig{})
	started := make(chan struct{})
	loop.Dispatch(func() { close(started) })
	done := runLoop(t, loop)
	<-started

	if err := loop.Run(context.Background()); !errors.Is(err, ErrLoopRunning) {
		t.Fatalf("expected ErrLoopRunning, got %v", err)
	}
	loop.Quit()
	waitDone(t, done)
}

func TestLoop_RendersWhenDirty(t *testing.T) {
	renders := 0
	loop := NewLoop(LoopConfig{Render: func() { renders++ }})
	loop.Post(EventMsg{Event: "ignored"})
	loop.Invalidate()
	loop.Quit()
	waitDone(t, runLoop(t, loop))

	// Initial render plus one for the invalidate.
	if renders != 2 {
		t.Fatalf("expected 2 renders, got %d", renders)
	}
}

func TestLoop_StateSchedulerFlushes(t *testing.T) {
	loop := NewLoop(LoopConfig{FlushPolicy: FlushManual})
	calls := 0
	loop.StateScheduler().Schedule(func() { calls++ })
	loop.StateScheduler().Schedule(func() { calls++ })
	loop.Quit()
	waitDone(t, runLoop(t, loop))

	if calls != 2 {
		t.Fatalf("expected both queued callbacks flushed, got %d", calls)
	}
	if loop.StateQueue().Len() != 0 {
		t.Fatalf("expected empty queue, got %d", loop.StateQueue().Len())
	}
}

func TestLoop_SpawnPendingEffect(t *testing.T) {
	loop := NewLoop(LoopConfig{})
	ran := make(chan struct{}, 1)

	loop.Spawn(Effect{Run: func(ctx context.Context, post PostFunc) {
		ran <- struct{}{}
	}})

	select {
	case <-ran:
		t.Fatal("expected pending effect to wait for start")
	default:
	}

	done := runLoop(t, loop)
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("expected pending effect to run")
	}
	loop.Quit()
	waitDone(t, done)
}

func TestLoop_DebounceFiresOnLoop(t *testing.T) {
	loop := NewLoop(LoopConfig{})
	clock := state.NewManualClock(time.Unix(0, 0))
	src := state.NewValueNotifier("")
	settled := chain.Debounce("", src, 50*time.Millisecond,
		chain.TimerClock(clock), chain.FireOn(loop.StateScheduler()))

	got := make(chan string, 1)
	settled.AddListener(func() { got <- settled.Value() })

	src.SetValue("a")
	src.SetValue("ab")
	clock.Advance(50 * time.Millisecond)

	done := runLoop(t, loop)
	select {
	case v := <-got:
		if v != "ab" {
			t.Fatalf("expected settled value ab, got %q", v)
		}
	case <-time.After(time.Second):
		t.Fatal("expected debounced fire on the loop")
	}
	loop.Quit()
	waitDone(t, done)
}
