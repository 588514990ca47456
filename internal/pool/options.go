package pool

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type config struct {
	logger     zerolog.Logger
	ctx        context.Context
	registerer prometheus.Registerer
	onPanic    func(*TaskPanic)
}

func defaultConfig() config {
	return config{
		logger: zerolog.Nop(),
	}
}

// Option configures a Pool.
type Option func(*config)

// WithLogger sets the logger for lifecycle events and task panics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithContext closes the pool when ctx is done. Cancelling ctx behaves like
// Close: submissions are refused, tasks already accepted still run, and
// workers exit once the queue is empty, but nothing waits for them.
func WithContext(ctx context.Context) Option {
	return func(c *config) { c.ctx = ctx }
}

// WithRegisterer registers the pool's metrics with r.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(c *config) { c.registerer = r }
}

// WithPanicHandler is called on the worker goroutine after a task panics.
// It must not panic itself.
func WithPanicHandler(fn func(*TaskPanic)) Option {
	return func(c *config) { c.onPanic = fn }
}
