package fastsets

import (
	"log/slog"
	"runtime"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	parallelism      int
}

// Option configures Transform construction.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &fastsets.BasicMetricsCollector{}
//	tr, _ := fastsets.NewTransform(domain, fn, fastsets.WithMetricsCollector(metrics))
//	// ... use tr ...
//	stats := metrics.GetStats()
//	fmt.Printf("Applies: %d, Avg latency: %dns\n", stats.ApplyCount, stats.ApplyAvgNanos)
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
//
// Example with JSON logging:
//
//	logger := fastsets.NewJSONLogger(slog.LevelInfo)
//	tr, _ := fastsets.NewTransform(domain, fn, fastsets.WithLogger(logger))
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

// WithParallelism bounds the number of sets ApplyAll processes concurrently.
// Values below 1 select GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
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
	if o.parallelism < 1 {
		o.parallelism = runtime.GOMAXPROCS(0)
	}
	return o
}
