package robo

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// Option configures CreateMachine or Interpret. Options given to
// CreateMachine become defaults for every service interpreting that machine;
// options given to Interpret are applied after them.
type Option func(*options)

type options struct {
	name      string
	observers []Observer
	logger    *slog.Logger
	strict    bool
	ctx       context.Context
	tasks     *sync.WaitGroup

	seed      any
	initEvent Event
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:    context.Background(),
	}
}

func (o options) with(opts []Option) options {
	o.observers = append([]Observer(nil), o.observers...)
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// inherited keeps what a child service shares with its parent.
func (o options) inherited() options {
	return options{
		observers: o.observers,
		logger:    o.logger,
		strict:    o.strict,
		ctx:       o.ctx,
		tasks:     o.tasks,
	}
}

// WithName names the machine in observer callbacks, logs and exports.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithObserver installs instrumentation hooks. Nil observers are ignored.
func WithObserver(observers ...Observer) Option {
	return func(o *options) {
		for _, obs := range observers {
			if obs != nil {
				o.observers = append(o.observers, obs)
			}
		}
	}
}

// WithLogger sets the logger used by the engine. Nil keeps the current one.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStrict makes Send return an *UnmatchedEventError for events the
// current state has no transitions for.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithContext sets the context handed to invoked tasks.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithInitialContext passes a seed value to the machine's context function.
func WithInitialContext(seed any) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithInitialEvent sets the event given to the context function, to the
// initial state's immediates and to an initial invocation.
func WithInitialEvent(ev Event) Option {
	return func(o *options) {
		o.initEvent = ev
	}
}
