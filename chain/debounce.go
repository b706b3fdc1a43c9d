package chain

import (
	"log/slog"
	"sync"
	"time"

	"github.com/odvcencio/furry-notify/state"
)

// Debounce derives a notifier that takes upstream's value once upstream has
// been quiet for the given period. Each upstream notification restarts the
// period. The value written is read from upstream when the timer fires.
//
// The pending timer is stopped when the last listener is removed and on
// Dispose, so nothing is written once the notifier is detached.
// A quiet period of zero or less forwards synchronously.
func Debounce[T any](initial T, src state.ValueListenable[T], quiet time.Duration, opts ...Option) *Notifier[T] {
	if src == nil {
		panic("chain: Debounce requires a source")
	}
	o := buildOptions(opts)
	n := newNotifier(initial, "debounce", o)
	d := &debouncer[T]{
		n:     n,
		src:   src,
		quiet: quiet,
		clock: state.ScheduledClock(o.clock, o.scheduler),
	}
	n.follow(src, d.restart)
	n.onDetach = d.cancel
	return n
}

type debouncer[T any] struct {
	n     *Notifier[T]
	src   state.ValueListenable[T]
	quiet time.Duration
	clock state.Clock

	mu    sync.Mutex
	timer state.Timer
	gen   uint64
}

func (d *debouncer[T]) restart() {
	if d.quiet <= 0 {
		d.n.set(d.src.Value())
		return
	}
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.quiet, func() {
		d.fire(gen)
	})
	d.mu.Unlock()
}

// fire ignores timers superseded by a later restart or cancel; a scheduled
// clock may deliver a fire after its timer was stopped.
func (d *debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.n.set(d.src.Value())
}

func (d *debouncer[T]) cancel() {
	d.mu.Lock()
	pending := d.timer != nil
	if pending {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.mu.Unlock()

	if pending {
		d.n.log.Debug("pending fire dropped", slog.Duration("quiet", d.quiet))
	}
}
