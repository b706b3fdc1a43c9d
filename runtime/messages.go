package runtime

import "time"

// Message represents an event flowing into the loop.
// Messages come from input backends, timers, or background goroutines.
type Message interface {
	isMessage()
}

// EventMsg carries an input event from a backend, such as a terminal key press.
type EventMsg struct {
	Event any
}

func (EventMsg) isMessage() {}

// CallMsg runs Fn on the loop goroutine.
type CallMsg struct {
	Fn func()
}

func (CallMsg) isMessage() {}

// TickMsg is sent on each loop tick.
type TickMsg struct {
	Time time.Time
}

func (TickMsg) isMessage() {}

// QueueFlushMsg triggers a state queue flush in the loop.
type QueueFlushMsg struct{}

func (QueueFlushMsg) isMessage() {}

// InvalidateMsg requests a render pass.
type InvalidateMsg struct{}

func (InvalidateMsg) isMessage() {}

// QuitMsg stops the loop.
type QuitMsg struct{}

func (QuitMsg) isMessage() {}
