// Package runtime runs a single-goroutine UI loop that serializes input
// events, timer fires, and state queue flushes.
package runtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/odvcencio/furry-notify/state"
)

// ErrLoopRunning is returned by Run when the loop is already running.
var ErrLoopRunning = errors.New("runtime: loop already running")

// UpdateFunc handles a message and returns true if a render is needed.
type UpdateFunc func(loop *Loop, msg Message) bool

// LoopConfig configures a Loop.
type LoopConfig struct {
	Update        UpdateFunc
	Render        func()
	MessageBuffer int
	TickRate      time.Duration
	StateQueue    *state.Queue
	FlushPolicy   QueueFlushPolicy
	LogHandler    slog.Handler
}

// Loop processes messages one at a time on the goroutine that calls Run.
type Loop struct {
	update         UpdateFunc
	render         func()
	messages       chan Message
	tickRate       time.Duration
	stateQueue     *state.Queue
	queueScheduler *QueueScheduler
	flushPolicy    QueueFlushPolicy
	invalidator    *Invalidator
	log            *slog.Logger

	taskMu         sync.Mutex
	taskCtx        context.Context
	taskCancel     context.CancelFunc
	pendingEffects []Effect

	running atomic.Bool
	quit    bool
	dirty   bool
}

// NewLoop creates a new Loop from config.
func NewLoop(cfg LoopConfig) *Loop {
	bufferSize := cfg.MessageBuffer
	if bufferSize <= 0 {
		bufferSize = 128
	}
	queue := cfg.StateQueue
	if queue == nil {
		queue = state.NewQueue()
	}
	handler := cfg.LogHandler
	if handler == nil {
		handler = slog.DiscardHandler
	}
	loop := &Loop{
		update:      cfg.Update,
		render:      cfg.Render,
		messages:    make(chan Message, bufferSize),
		tickRate:    cfg.TickRate,
		stateQueue:  queue,
		flushPolicy: cfg.FlushPolicy,
		log:         slog.New(handler),
	}
	if loop.update == nil {
		loop.update = DefaultUpdate
	}
	loop.queueScheduler = NewQueueScheduler(queue, loop.tryPost)
	loop.invalidator = NewInvalidator(loop.tryPost)
	return loop
}

// StateQueue returns the loop's state queue.
func (l *Loop) StateQueue() *state.Queue {
	if l == nil {
		return nil
	}
	return l.stateQueue
}

// StateScheduler returns a scheduler that runs callbacks on the loop.
func (l *Loop) StateScheduler() state.Scheduler {
	if l == nil || l.queueScheduler == nil {
		return nil
	}
	return l.queueScheduler
}

// InvalidateScheduler returns a scheduler that runs callbacks inline and
// then requests a render pass.
func (l *Loop) InvalidateScheduler() state.Scheduler {
	if l == nil || l.invalidator == nil {
		return nil
	}
	return l.invalidator
}

// Invalidate requests a render pass.
func (l *Loop) Invalidate() {
	if l == nil || l.invalidator == nil {
		return
	}
	l.invalidator.Invalidate()
}

// Post sends a message to the loop, dropping it if the buffer is full.
func (l *Loop) Post(msg Message) {
	if !l.tryPost(msg) {
		l.log.Warn("message dropped", slog.String("type", messageType(msg)))
	}
}

// TryPost sends a message to the loop without blocking.
func (l *Loop) TryPost(msg Message) bool {
	return l.tryPost(msg)
}

// Dispatch runs fn on the loop goroutine. It reports whether fn was queued.
func (l *Loop) Dispatch(fn func()) bool {
	if fn == nil {
		return false
	}
	return l.tryPost(CallMsg{Fn: fn})
}

// Quit asks a running loop to stop after the current message.
func (l *Loop) Quit() {
	l.Post(QuitMsg{})
}

func (l *Loop) tryPost(msg Message) bool {
	if l == nil || l.messages == nil || msg == nil {
		return false
	}
	select {
	case l.messages <- msg:
		return true
	default:
		return false
	}
}

// Spawn starts an effect using the loop task context.
// If Run has not started, the effect is queued until start.
func (l *Loop) Spawn(effect Effect) {
	if l == nil || effect.Run == nil {
		return
	}
	l.taskMu.Lock()
	ctx := l.taskCtx
	if ctx == nil {
		l.pendingEffects = append(l.pendingEffects, effect)
		l.taskMu.Unlock()
		return
	}
	l.taskMu.Unlock()
	go effect.Run(ctx, l.tryPost)
}

// After schedules a delayed message using the loop task context.
func (l *Loop) After(delay time.Duration, msg Message) {
	l.Spawn(After(delay, msg))
}

// Every schedules a recurring message using the loop task context.
func (l *Loop) Every(interval time.Duration, fn func(time.Time) Message) {
	l.Spawn(Every(interval, fn))
}

// Run processes messages until Quit or context cancellation.
// It returns ctx.Err() when the context ends the loop and nil after Quit.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)
	if ctx == nil {
		ctx = context.Background()
	}

	l.startTasks(ctx)
	defer l.stopTasks()

	var ticks <-chan time.Time
	if l.tickRate > 0 {
		ticker := time.NewTicker(l.tickRate)
		defer ticker.Stop()
		ticks = ticker.C
	}

	l.quit = false
	l.dirty = true
	l.log.Debug("loop started")
	for !l.quit {
		if l.dirty {
			if l.render != nil {
				l.render()
			}
			l.dirty = false
		}

		var msg Message
		select {
		case <-ctx.Done():
			l.log.Debug("loop cancelled")
			return ctx.Err()
		case msg = <-l.messages:
		case now := <-ticks:
			msg = TickMsg{Time: now}
		}
		l.handle(msg)
	}
	l.log.Debug("loop quit")
	return nil
}

func (l *Loop) handle(msg Message) {
	if _, ok := msg.(QuitMsg); ok {
		l.quit = true
		return
	}
	if l.update(l, msg) {
		l.dirty = true
	}
	if l.flushQueueIfNeeded(msg) {
		l.dirty = true
	}
	if _, ok := msg.(InvalidateMsg); ok {
		l.invalidator.resetPending()
	}
}

// DefaultUpdate runs CallMsg callbacks and renders on InvalidateMsg.
func DefaultUpdate(loop *Loop, msg Message) bool {
	switch m := msg.(type) {
	case CallMsg:
		if m.Fn != nil {
			m.Fn()
		}
		return true
	case InvalidateMsg:
		return true
	default:
		return false
	}
}

func (l *Loop) flushQueueIfNeeded(msg Message) bool {
	if l.stateQueue == nil {
		return false
	}
	if !shouldFlushQueue(l.flushPolicy, msg) {
		return false
	}
	if l.queueScheduler != nil {
		l.queueScheduler.resetPending()
	}
	return l.stateQueue.Flush() > 0
}

func (l *Loop) startTasks(ctx context.Context) {
	taskCtx, cancel := context.WithCancel(ctx)
	l.taskMu.Lock()
	l.taskCtx = taskCtx
	l.taskCancel = cancel
	effects := l.pendingEffects
	l.pendingEffects = nil
	l.taskMu.Unlock()
	for _, effect := range effects {
		go effect.Run(taskCtx, l.tryPost)
	}
}

func (l *Loop) stopTasks() {
	l.taskMu.Lock()
	cancel := l.taskCancel
	l.taskCtx = nil
	l.taskCancel = nil
	l.taskMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func messageType(msg Message) string {
	switch msg.(type) {
	case EventMsg:
		return "event"
	case CallMsg:
		return "call"
	case TickMsg:
		return "tick"
	case QueueFlushMsg:
		return "queue_flush"
	case InvalidateMsg:
		return "invalidate"
	case QuitMsg:
		return "quit"
	default:
		return "unknown"
	}
}
