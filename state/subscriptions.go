package state

import "sync"

// Subscriptions tracks a group of subscriptions that are released together.
// The zero value is ready to use.
type Subscriptions struct {
	mu    sync.Mutex
	subs  []Subscription
	sched Scheduler
}

// NewSubscriptions creates a Subscriptions with a default scheduler.
func NewSubscriptions(scheduler Scheduler) *Subscriptions {
	return &Subscriptions{sched: scheduler}
}

// SetScheduler updates the default scheduler used by Observe.
func (s *Subscriptions) SetScheduler(scheduler Scheduler) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()
}

// Scheduler returns the default scheduler.
func (s *Subscriptions) Scheduler() Scheduler {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	scheduler := s.sched
	s.mu.Unlock()
	return scheduler
}

// Add tracks sub. Inert subscriptions are ignored.
func (s *Subscriptions) Add(sub Subscription) {
	if s == nil || !sub.Valid() {
		return
	}
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
}

// Subscribe registers fn on src synchronously and tracks the handle.
func (s *Subscriptions) Subscribe(src Listenable, fn func()) {
	s.SubscribeWithScheduler(src, nil, fn)
}

// Observe registers fn on src using the default scheduler.
func (s *Subscriptions) Observe(src Listenable, fn func()) {
	if s == nil {
		return
	}
	s.SubscribeWithScheduler(src, s.Scheduler(), fn)
}

// SubscribeWithScheduler registers fn on src, dispatching each notification
// through scheduler. A nil scheduler runs fn synchronously.
func (s *Subscriptions) SubscribeWithScheduler(src Listenable, scheduler Scheduler, fn func()) {
	if s == nil || src == nil || fn == nil {
		return
	}
	s.Add(ListenWith(src, scheduler, fn))
}

// Len returns the number of tracked subscriptions.
func (s *Subscriptions) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	n := len(s.subs)
	s.mu.Unlock()
	return n
}

// Clear cancels all tracked subscriptions.
func (s *Subscriptions) Clear() {
	if s == nil {
		return
	}
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()
	for _, sub := range subs {
		sub.Cancel()
	}
}

// ListenWith registers fn on src so that each notification is handed to
// scheduler instead of running inline.
func ListenWith(src Listenable, scheduler Scheduler, fn func()) Subscription {
	if src == nil || fn == nil {
		return Subscription{}
	}
	if scheduler == nil {
		return src.AddListener(fn)
	}
	return src.AddListener(func() {
		scheduler.Schedule(fn)
	})
}
