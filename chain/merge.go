package chain

import "github.com/odvcencio/furry-notify/state"

// Merge derives a notifier that takes the value of whichever source
// notified last.
//
// primary is followed lazily like Map. Each notifier in others is
// subscribed at construction and stays subscribed until Dispose, so extra
// sources keep feeding the merged value while it has no listeners.
// Nil entries in others are skipped.
func Merge[T any](initial T, primary state.ValueListenable[T], others []state.ValueListenable[T], opts ...Option) *Notifier[T] {
	if primary == nil {
		panic("chain: Merge requires a primary source")
	}
	n := newNotifier(initial, "merge", buildOptions(opts))
	n.follow(primary, func() {
		n.set(primary.Value())
	})
	for _, src := range others {
		if src == nil {
			continue
		}
		n.observe(src, func() {
			n.set(src.Value())
		})
	}
	return n
}
