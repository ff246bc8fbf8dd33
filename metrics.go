package fastsets

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    buildHistogram prometheus.Histogram
//	    applyCounter   prometheus.Counter
//	}
//
//	func (p *PrometheusCollector) RecordApply(in, out int, duration time.Duration, err error) {
//	    p.applyCounter.Inc()
//	}
type MetricsCollector interface {
	// RecordBuild is called after each transform construction.
	// width is the domain width, mapped the number of recorded mappings.
	RecordBuild(width, mapped int, duration time.Duration, err error)

	// RecordApply is called after each transform application.
	// in and out are the cardinalities of the argument and the image.
	RecordApply(in, out int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordApply(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	BuildTotalNanos atomic.Int64
	MappedTotal     atomic.Int64
	ApplyCount      atomic.Int64
	ApplyErrors     atomic.Int64
	ApplyTotalNanos atomic.Int64
	ApplyInTotal    atomic.Int64
	ApplyOutTotal   atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(width, mapped int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.MappedTotal.Add(int64(mapped))
}

// RecordApply implements MetricsCollector.
func (b *BasicMetricsCollector) RecordApply(in, out int, duration time.Duration, err error) {
	b.ApplyCount.Add(1)
	b.ApplyTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ApplyErrors.Add(1)
		return
	}
	b.ApplyInTotal.Add(int64(in))
	b.ApplyOutTotal.Add(int64(out))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:    b.BuildCount.Load(),
		BuildErrors:   b.BuildErrors.Load(),
		BuildAvgNanos: avg(b.BuildTotalNanos.Load(), b.BuildCount.Load()),
		MappedTotal:   b.MappedTotal.Load(),
		ApplyCount:    b.ApplyCount.Load(),
		ApplyErrors:   b.ApplyErrors.Load(),
		ApplyAvgNanos: avg(b.ApplyTotalNanos.Load(), b.ApplyCount.Load()),
		ApplyInTotal:  b.ApplyInTotal.Load(),
		ApplyOutTotal: b.ApplyOutTotal.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount    int64
	BuildErrors   int64
	BuildAvgNanos int64
	MappedTotal   int64
	ApplyCount    int64
	ApplyErrors   int64
	ApplyAvgNanos int64
	ApplyInTotal  int64
	ApplyOutTotal int64
}
