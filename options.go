package sparsego

import (
	"log/slog"

	"github.com/hupe1980/sparsego/resource"
)

// Default sizing parameters, matching the classic quantum/qset split.
const (
	DefaultQuantumSize   = 4000
	DefaultTableCapacity = 1000
)

type options struct {
	quantumSize      uint32
	tableCapacity    uint32
	controller       *resource.Controller
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Store constructor behavior.
//
// The sizing parameters are fixed at creation; there is no mutator for
// them afterwards, only the read-only QuantumSize and TableCapacity
// accessors.
type Option func(*options)

// WithQuantumSize configures the size in bytes of each quantum buffer,
// the smallest allocation unit. Defaults to DefaultQuantumSize.
func WithQuantumSize(size uint32) Option {
	return func(o *options) {
		o.quantumSize = size
	}
}

// WithTableCapacity configures the number of quantum slots per segment
// table. Defaults to DefaultTableCapacity.
func WithTableCapacity(capacity uint32) Option {
	return func(o *options) {
		o.tableCapacity = capacity
	}
}

// WithController attaches a resource controller enforcing a memory
// budget on backing buffers. When the budget runs out, Write fails
// with ErrOutOfMemory. A nil controller leaves allocation unlimited.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		quantumSize:      DefaultQuantumSize,
		tableCapacity:    DefaultTableCapacity,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
