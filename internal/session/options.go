package session

import (
	"time"
)

const (
	DefaultTimeLimit     = 30
	DefaultTickInterval  = time.Second
	DefaultFeedbackDelay = time.Second
)

type options struct {
	timeLimit     int
	tickInterval  time.Duration
	feedbackDelay time.Duration
	observer      func(Event)
	now           func() time.Time
}

func defaultOptions() options {
	return options{
		timeLimit:     DefaultTimeLimit,
		tickInterval:  DefaultTickInterval,
		feedbackDelay: DefaultFeedbackDelay,
		now:           time.Now,
	}
}

// Option configures a Controller.
type Option func(*options)

// WithTimeLimit sets the per-question countdown in seconds.
func WithTimeLimit(seconds int) Option {
	return func(o *options) {
		if seconds > 0 {
			o.timeLimit = seconds
		}
	}
}

// WithTickInterval sets how often the countdown decrements. Zero disables
// the automatic ticker; callers then drive the countdown with Tick.
func WithTickInterval(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.tickInterval = d
		}
	}
}

// WithFeedbackDelay sets the pause between a scored answer and the next
// question. Zero advances immediately.
func WithFeedbackDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.feedbackDelay = d
		}
	}
}

// WithObserver registers fn to receive every session event. fn runs while
// the controller is locked and must not call back into it.
func WithObserver(fn func(Event)) Option {
	return func(o *options) { o.observer = fn }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
