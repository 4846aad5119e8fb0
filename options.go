package fixedarray

import (
	"log/slog"

	"github.com/hupe1980/fixedarray/resource"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	controller       *resource.Controller
}

// Option configures a Bridge.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &fixedarray.BasicMetricsCollector{}
//	b := fixedarray.NewBridge(fixedarray.WithMetricsCollector(metrics))
//	// ... use b ...
//	stats := metrics.GetStats()
//	fmt.Printf("Imports: %d, live bytes: %d\n", stats.ImportCount, stats.LiveBytes)
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

// WithResourceController charges every allocation against rc's memory budget
// and uses it to throttle snapshot IO. A controller may be shared between bridges.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithMemoryLimit caps the element storage live at any time across arrays
// created by the bridge. It is shorthand for a dedicated resource controller.
//
// Use resource.SystemMemoryLimit to derive a limit from the machine:
//
//	b := fixedarray.NewBridge(fixedarray.WithMemoryLimit(resource.SystemMemoryLimit(0.5)))
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.controller = resource.NewController(resource.Config{MemoryLimitBytes: bytes})
	}
}

func applyOptions(optFns []Option) options {
	o := options{
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
