package chain

import (
	"log/slog"

	"github.com/odvcencio/furry-notify/state"
)

type options struct {
	name       string
	logHandler slog.Handler
	clock      state.Clock
	scheduler  state.Scheduler
}

// Option configures a derived notifier.
type Option func(*options)

// Name labels the notifier in log records.
func Name(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// LogHandler configures the slog.Handler that receives lifecycle records.
//
// Default discards everything.
func LogHandler(h slog.Handler) Option {
	return func(o *options) {
		o.logHandler = h
	}
}

// TimerClock sets the clock Debounce uses for its quiet period.
//
// Default is state.SystemClock.
func TimerClock(c state.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// FireOn delivers Debounce timer fires through s, typically the
// StateScheduler of a runtime.Loop.
func FireOn(s state.Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logHandler: slog.DiscardHandler,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logHandler == nil {
		o.logHandler = slog.DiscardHandler
	}
	return o
}
