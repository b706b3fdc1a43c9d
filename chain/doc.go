// Package chain derives notifiers from other notifiers.
//
// Each constructor wraps one or more upstream state.ValueListenable values
// and returns a *Notifier that recomputes on upstream change:
//
//	count := state.NewValueNotifier(0)
//	doubled := chain.Map(0, count, func(v int) int { return v * 2 })
//	big := chain.Where(0, doubled, func(v int) bool { return v > 5 })
//
// Map, Where, Debounce and the primary source of Merge subscribe lazily:
// nothing is registered upstream until the derived notifier gains its first
// listener, and the upstream registration is released when the last
// listener goes away. Combine and the extra sources of Merge subscribe at
// construction and stay subscribed until Dispose.
//
// A derived notifier starts at the initial value passed to its constructor.
// Upstream's current value is only read when upstream notifies.
package chain
