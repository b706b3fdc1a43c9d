// Package state provides the observable value primitive that derived
// notifiers are chained on top of.
package state

import (
	"sync"

	"github.com/oklog/ulid/v2"
)

// EqualFunc compares two values for equality.
type EqualFunc[T any] func(a, b T) bool

// EqualComparable compares comparable values with ==.
func EqualComparable[T comparable](a, b T) bool {
	return a == b
}

type listener struct {
	id ulid.ULID
	fn func()
}

// ValueNotifier holds a single value and notifies listeners whenever it is set.
//
// Listeners run synchronously inside SetValue, in registration order.
// Registrations made or cancelled while a notification is in flight
// take effect from the next SetValue.
type ValueNotifier[T any] struct {
	mu        sync.Mutex
	value     T
	listeners []listener
	equal     EqualFunc[T]
	onCount   func(int)
	disposed  bool
}

// NewValueNotifier creates a notifier holding initial.
func NewValueNotifier[T any](initial T) *ValueNotifier[T] {
	return &ValueNotifier[T]{value: initial}
}

// SetEqualFunc configures the equality check used to suppress redundant updates.
// With no EqualFunc every SetValue notifies.
func (n *ValueNotifier[T]) SetEqualFunc(fn EqualFunc[T]) {
	if n == nil {
		return
	}
	n.mu.Lock()
	n.equal = fn
	n.mu.Unlock()
}

// OnListenersChanged registers a hook called with the listener count after
// every registration change. Passing nil removes the hook.
func (n *ValueNotifier[T]) OnListenersChanged(fn func(count int)) {
	if n == nil {
		return
	}
	n.mu.Lock()
	n.onCount = fn
	n.mu.Unlock()
}

// Value returns the current value.
func (n *ValueNotifier[T]) Value() T {
	if n == nil {
		var zero T
		return zero
	}
	n.mu.Lock()
	value := n.value
	n.mu.Unlock()
	return value
}

// SetValue stores value and notifies every listener once.
// It returns false if the notifier is disposed or the EqualFunc reports no change.
func (n *ValueNotifier[T]) SetValue(value T) bool {
	if n == nil {
		return false
	}
	n.mu.Lock()
	if n.disposed {
		n.mu.Unlock()
		return false
	}
	if n.equal != nil && n.equal(n.value, value) {
		n.mu.Unlock()
		return false
	}
	n.value = value
	fns := n.snapshotLocked()
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return true
}

// Update replaces the value using fn.
// fn runs outside the notifier lock; Update is not atomic across goroutines.
func (n *ValueNotifier[T]) Update(fn func(T) T) bool {
	if n == nil || fn == nil {
		return false
	}
	return n.SetValue(fn(n.Value()))
}

// AddListener registers fn and returns the handle that removes it.
// After Dispose it returns an inert subscription.
func (n *ValueNotifier[T]) AddListener(fn func()) Subscription {
	if n == nil || fn == nil {
		return Subscription{}
	}
	id := ulid.Make()
	n.mu.Lock()
	if n.disposed {
		n.mu.Unlock()
		return Subscription{}
	}
	n.listeners = append(n.listeners, listener{id: id, fn: fn})
	count, hook := len(n.listeners), n.onCount
	n.mu.Unlock()

	if hook != nil {
		hook(count)
	}
	return NewSubscription(id, func() {
		n.remove(id)
	})
}

// RemoveListener cancels sub. Removing an unknown or cancelled handle is a no-op.
func (n *ValueNotifier[T]) RemoveListener(sub Subscription) {
	sub.Cancel()
}

// HasListeners reports whether any listener is registered.
func (n *ValueNotifier[T]) HasListeners() bool {
	return n.ListenerCount() > 0
}

// ListenerCount returns the number of registered listeners.
func (n *ValueNotifier[T]) ListenerCount() int {
	if n == nil {
		return 0
	}
	n.mu.Lock()
	count := len(n.listeners)
	n.mu.Unlock()
	return count
}

// Dispose drops every listener. Later SetValue calls are ignored.
func (n *ValueNotifier[T]) Dispose() {
	if n == nil {
		return
	}
	n.mu.Lock()
	if n.disposed {
		n.mu.Unlock()
		return
	}
	n.disposed = true
	had := len(n.listeners) > 0
	n.listeners = nil
	hook := n.onCount
	n.mu.Unlock()

	if had && hook != nil {
		hook(0)
	}
}

// IsDisposed reports whether Dispose has been called.
func (n *ValueNotifier[T]) IsDisposed() bool {
	if n == nil {
		return true
	}
	n.mu.Lock()
	disposed := n.disposed
	n.mu.Unlock()
	return disposed
}

func (n *ValueNotifier[T]) remove(id ulid.ULID) {
	n.mu.Lock()
	idx := -1
	for i, l := range n.listeners {
		if l.id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		n.mu.Unlock()
		return
	}
	next := make([]listener, 0, len(n.listeners)-1)
	next = append(next, n.listeners[:idx]...)
	next = append(next, n.listeners[idx+1:]...)
	n.listeners = next
	count, hook := len(next), n.onCount
	n.mu.Unlock()

	if hook != nil {
		hook(count)
	}
}

func (n *ValueNotifier[T]) snapshotLocked() []func() {
	if len(n.listeners) == 0 {
		return nil
	}
	fns := make([]func(), len(n.listeners))
	for i, l := range n.listeners {
		fns[i] = l.fn
	}
	return fns
}
