package chain

import "github.com/odvcencio/furry-notify/state"

// Combine derives a notifier from the latest values of a and b.
// Either upstream notifying writes combiner(a.Value(), b.Value()).
//
// Combine subscribes to both upstreams at construction and stays subscribed
// until Dispose, regardless of its own listeners. The initial value is
// used as given; combiner is not evaluated until an upstream notifies.
func Combine[A, B, Out any](initial Out, a state.ValueListenable[A], b state.ValueListenable[B], combiner func(A, B) Out, opts ...Option) *Notifier[Out] {
	if a == nil || b == nil {
		panic("chain: Combine requires two sources")
	}
	if combiner == nil {
		panic("chain: Combine requires a combiner")
	}
	n := newNotifier(initial, "combine", buildOptions(opts))
	recompute := func() {
		n.set(combiner(a.Value(), b.Value()))
	}
	n.observe(a, recompute)
	n.observe(b, recompute)
	return n
}
