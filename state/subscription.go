package state

import (
	"sync"

	"github.com/oklog/ulid/v2"
)

// Subscription is the handle returned when a listener is registered.
// The zero value is an inert, already-cancelled subscription.
type Subscription struct {
	id      ulid.ULID
	release func()
}

// NewSubscription wraps release into a handle with the given id.
// release runs at most once no matter how often Cancel is called.
func NewSubscription(id ulid.ULID, release func()) Subscription {
	if release == nil {
		return Subscription{id: id}
	}
	var once sync.Once
	return Subscription{
		id: id,
		release: func() {
			once.Do(release)
		},
	}
}

// ID returns the listener id, or the zero ULID for an inert handle.
func (s Subscription) ID() ulid.ULID {
	return s.id
}

// Valid reports whether the handle was issued for a live registration.
func (s Subscription) Valid() bool {
	return s.release != nil
}

// Cancel unregisters the listener.
func (s Subscription) Cancel() {
	if s.release != nil {
		s.release()
	}
}
