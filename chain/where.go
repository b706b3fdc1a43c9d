package chain

import "github.com/odvcencio/furry-notify/state"

// Where derives a notifier that copies upstream values for which predicate
// holds. Rejected values leave the current value in place and notify no one.
// The initial value is never checked against predicate.
func Where[T any](initial T, src state.ValueListenable[T], predicate func(T) bool, opts ...Option) *Notifier[T] {
	if src == nil {
		panic("chain: Where requires a source")
	}
	if predicate == nil {
		panic("chain: Where requires a predicate")
	}
	n := newNotifier(initial, "where", buildOptions(opts))
	n.follow(src, func() {
		if v := src.Value(); predicate(v) {
			n.set(v)
		}
	})
	return n
}
