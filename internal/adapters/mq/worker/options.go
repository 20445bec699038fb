// Package worker defines worker contracts for asynchronous chart rendering.
package worker

import (
	"sync/atomic"

	"github.com/Zato1one/weatherhist/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithActivityGauge sets the shared counter the worker increments while
// processing a job.
func WithActivityGauge(gauge *atomic.Int64) Option {
	return func(w *InMemoryWorker) {
		if gauge != nil {
			w.active = gauge
		}
	}
}
