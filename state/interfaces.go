package state

// Listenable notifies registered listeners when it changes.
type Listenable interface {
	AddListener(fn func()) Subscription
	RemoveListener(sub Subscription)
}

// ValueListenable exposes a current value alongside change notifications.
type ValueListenable[T any] interface {
	Listenable
	Value() T
}

// Observable is the read-side surface shared by notifiers and derived values.
type Observable[T any] interface {
	ValueListenable[T]
	HasListeners() bool
	Dispose()
}
