package sketchgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordFit is called after each fit operation.
	// rows and dim describe the dataset, duration is the total time taken,
	// err is nil if successful.
	RecordFit(rows, dim int, duration time.Duration, err error)

	// RecordSearch is called after each search operation.
	// queries is the batch size, k the number of neighbors requested,
	// method the effective strategy.
	RecordSearch(queries, k int, method Method, duration time.Duration, err error)

	// RecordCandidates is called once per query with the size of the
	// candidate set a strategy produced. Useful for spotting grouped
	// prefilters that shrink candidate sets too aggressively.
	RecordCandidates(method Method, size int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFit(int, int, time.Duration, error)            {}
func (NoopMetricsCollector) RecordSearch(int, int, Method, time.Duration, error) {}
func (NoopMetricsCollector) RecordCandidates(Method, int)                        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FitCount         atomic.Int64
	FitErrors        atomic.Int64
	FitTotalNanos    atomic.Int64
	SearchCount      atomic.Int64
	SearchErrors     atomic.Int64
	SearchTotalNanos atomic.Int64
	CandidateSamples atomic.Int64
	CandidateTotal   atomic.Int64
}

// RecordFit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFit(rows, dim int, duration time.Duration, err error) {
	b.FitCount.Add(1)
	b.FitTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FitErrors.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(queries, k int, method Method, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// RecordCandidates implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCandidates(method Method, size int) {
	b.CandidateSamples.Add(1)
	b.CandidateTotal.Add(int64(size))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	stats := BasicMetricsStats{
		FitCount:         b.FitCount.Load(),
		FitErrors:        b.FitErrors.Load(),
		SearchCount:      b.SearchCount.Load(),
		SearchErrors:     b.SearchErrors.Load(),
		CandidateSamples: b.CandidateSamples.Load(),
	}
	if stats.FitCount > 0 {
		stats.FitAvgNanos = b.FitTotalNanos.Load() / stats.FitCount
	}
	if stats.SearchCount > 0 {
		stats.SearchAvgNanos = b.SearchTotalNanos.Load() / stats.SearchCount
	}
	if stats.CandidateSamples > 0 {
		stats.CandidateAvgSize = b.CandidateTotal.Load() / stats.CandidateSamples
	}
	return stats
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FitCount         int64
	FitErrors        int64
	FitAvgNanos      int64
	SearchCount      int64
	SearchErrors     int64
	SearchAvgNanos   int64
	CandidateSamples int64
	CandidateAvgSize int64
}
