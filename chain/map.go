package chain

import "github.com/odvcencio/furry-notify/state"

// Map derives a notifier whose value is transform applied to each upstream
// value. Every upstream notification produces exactly one downstream
// notification, equal results included.
//
// A panic in transform propagates to whoever set the upstream value.
func Map[In, Out any](initial Out, src state.ValueListenable[In], transform func(In) Out, opts ...Option) *Notifier[Out] {
	if src == nil {
		panic("chain: Map requires a source")
	}
	if transform == nil {
		panic("chain: Map requires a transform")
	}
	n := newNotifier(initial, "map", buildOptions(opts))
	n.follow(src, func() {
		n.set(transform(src.Value()))
	})
	return n
}
