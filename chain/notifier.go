package chain

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/odvcencio/furry-notify/state"
)

// ErrDisposed is reported by Err once a notifier has been disposed.
var ErrDisposed = errors.New("chain: notifier disposed")

// connectFunc registers the lazy upstream listeners of a notifier and
// returns the handles that undo them.
type connectFunc func() []state.Subscription

// Notifier is a derived observable value.
//
// Its variant behavior lives entirely in the strategy installed by the
// constructor: a lazy connect func, eager subscriptions made up front, and
// an optional hook run whenever the lazy side detaches.
type Notifier[T any] struct {
	out  *state.ValueNotifier[T]
	id   ulid.ULID
	name string
	log  *slog.Logger

	mu       sync.Mutex
	connect  connectFunc
	upstream []state.Subscription
	attached bool
	eager    state.Subscriptions
	onDetach func()
	disposed bool
}

func newNotifier[T any](initial T, op string, o options) *Notifier[T] {
	id := ulid.Make()
	attrs := []any{slog.String("op", op), slog.String("id", id.String())}
	if o.name != "" {
		attrs = append(attrs, slog.String("name", o.name))
	}
	return &Notifier[T]{
		out:  state.NewValueNotifier(initial),
		id:   id,
		name: o.name,
		log:  slog.New(o.logHandler).With(attrs...),
	}
}

// ID returns the notifier's unique id.
func (n *Notifier[T]) ID() ulid.ULID {
	return n.id
}

// Name returns the label set with the Name option.
func (n *Notifier[T]) Name() string {
	return n.name
}

// Value returns the current derived value.
func (n *Notifier[T]) Value() T {
	return n.out.Value()
}

// AddListener registers fn. The first listener connects the lazy upstream
// side before fn is registered.
func (n *Notifier[T]) AddListener(fn func()) state.Subscription {
	if fn == nil {
		return state.Subscription{}
	}
	n.mu.Lock()
	if n.disposed {
		n.mu.Unlock()
		n.log.Debug("listener ignored", slog.Any("error", ErrDisposed))
		return state.Subscription{}
	}
	n.attachLocked()
	n.mu.Unlock()

	inner := n.out.AddListener(fn)
	if !inner.Valid() {
		return inner
	}
	return state.NewSubscription(inner.ID(), func() {
		inner.Cancel()
		n.listenerRemoved()
	})
}

// RemoveListener cancels sub. When no listeners remain the lazy upstream
// side is released; a later AddListener connects it again.
func (n *Notifier[T]) RemoveListener(sub state.Subscription) {
	sub.Cancel()
}

// HasListeners reports whether any listener is registered.
func (n *Notifier[T]) HasListeners() bool {
	return n.out.HasListeners()
}

// ListenerCount returns the number of registered listeners.
func (n *Notifier[T]) ListenerCount() int {
	return n.out.ListenerCount()
}

// Attached reports whether any upstream registration is live.
func (n *Notifier[T]) Attached() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.attached || n.eager.Len() > 0
}

// Err returns ErrDisposed after Dispose, nil before.
func (n *Notifier[T]) Err() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.disposed {
		return ErrDisposed
	}
	return nil
}

// Dispose releases every upstream registration and drops all listeners.
// It is safe to call on a notifier that never attached, and more than once.
func (n *Notifier[T]) Dispose() {
	n.mu.Lock()
	if n.disposed {
		n.mu.Unlock()
		return
	}
	n.disposed = true
	upstream := n.upstream
	n.upstream = nil
	n.attached = false
	onDetach := n.onDetach
	n.mu.Unlock()

	release(upstream)
	n.eager.Clear()
	if onDetach != nil {
		onDetach()
	}
	n.out.Dispose()
	n.log.Debug("disposed")
}

// set writes the derived value and notifies listeners.
func (n *Notifier[T]) set(value T) {
	n.out.SetValue(value)
}

// follow installs a lazy connection that runs handle on every src notification.
func (n *Notifier[T]) follow(src state.Listenable, handle func()) {
	n.connect = func() []state.Subscription {
		return []state.Subscription{src.AddListener(handle)}
	}
}

// observe subscribes handle to src immediately, until Dispose.
func (n *Notifier[T]) observe(src state.Listenable, handle func()) {
	n.eager.Subscribe(src, handle)
}

func (n *Notifier[T]) attachLocked() {
	if n.attached || n.connect == nil {
		return
	}
	n.upstream = n.connect()
	n.attached = true
	n.log.Debug("attached", slog.Int("upstream", len(n.upstream)))
}

func (n *Notifier[T]) listenerRemoved() {
	if n.out.HasListeners() {
		return
	}
	n.mu.Lock()
	if !n.attached {
		n.mu.Unlock()
		return
	}
	upstream := n.upstream
	n.upstream = nil
	n.attached = false
	onDetach := n.onDetach
	n.mu.Unlock()

	release(upstream)
	if onDetach != nil {
		onDetach()
	}
	n.log.Debug("detached")
}

func release(subs []state.Subscription) {
	for _, sub := range subs {
		sub.Cancel()
	}
}
