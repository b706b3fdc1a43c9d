package runtime

import (
	"sync/atomic"

	"github.com/odvcencio/furry-notify/state"
)

// coalescer posts msg at most once until reset.
type coalescer struct {
	msg     Message
	post    func(Message) bool
	pending atomic.Bool
}

func (c *coalescer) request() {
	if c.post == nil {
		return
	}
	if c.pending.CompareAndSwap(false, true) {
		if !c.post(c.msg) {
			c.pending.Store(false)
		}
	}
}

func (c *coalescer) reset() {
	c.pending.Store(false)
}

// QueueScheduler enqueues callbacks and wakes the loop to flush.
type QueueScheduler struct {
	queue *state.Queue
	wake  coalescer
}

// NewQueueScheduler wires a queue to a post function.
func NewQueueScheduler(queue *state.Queue, post func(Message) bool) *QueueScheduler {
	if queue == nil {
		queue = state.NewQueue()
	}
	return &QueueScheduler{
		queue: queue,
		wake:  coalescer{msg: QueueFlushMsg{}, post: post},
	}
}

// Schedule enqueues the callback and posts a flush message.
func (s *QueueScheduler) Schedule(fn func()) {
	if s == nil || s.queue == nil || fn == nil {
		return
	}
	s.queue.Schedule(fn)
	s.wake.request()
}

func (s *QueueScheduler) resetPending() {
	if s == nil {
		return
	}
	s.wake.reset()
}

// Invalidator requests render passes, coalescing requests until the loop
// handles the pending InvalidateMsg.
type Invalidator struct {
	wake coalescer
}

// NewInvalidator creates an invalidator wired to a post function.
func NewInvalidator(post func(Message) bool) *Invalidator {
	return &Invalidator{wake: coalescer{msg: InvalidateMsg{}, post: post}}
}

// Invalidate requests a render pass.
func (i *Invalidator) Invalidate() {
	if i == nil {
		return
	}
	i.wake.request()
}

// Schedule runs fn and requests a render pass.
func (i *Invalidator) Schedule(fn func()) {
	if fn == nil {
		return
	}
	fn()
	i.Invalidate()
}

func (i *Invalidator) resetPending() {
	if i == nil {
		return
	}
	i.wake.reset()
}
