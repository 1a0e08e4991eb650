package drawmatch

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordLoad is called after each load phase with the number of loaded
	// and skipped lines.
	RecordLoad(loaded, skipped int, duration time.Duration, err error)

	// RecordSkip is called for every skipped input line.
	RecordSkip()

	// RecordQuery is called after each query.
	RecordQuery(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSkip()                               {}
func (NoopMetricsCollector) RecordQuery(time.Duration, error)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	LoadedPlayers   atomic.Int64
	SkippedLines    atomic.Int64
	LoadTotalNanos  atomic.Int64
	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryTotalNanos atomic.Int64
	QueryMaxNanos   atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(loaded, _ int, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadedPlayers.Add(int64(loaded))
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// RecordSkip implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSkip() {
	b.SkippedLines.Add(1)
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(duration time.Duration, err error) {
	b.QueryCount.Add(1)
	if err != nil {
		b.QueryErrors.Add(1)
		return
	}
	ns := duration.Nanoseconds()
	b.QueryTotalNanos.Add(ns)
	for {
		cur := b.QueryMaxNanos.Load()
		if ns <= cur || b.QueryMaxNanos.CompareAndSwap(cur, ns) {
			break
		}
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:      b.LoadCount.Load(),
		LoadErrors:     b.LoadErrors.Load(),
		LoadedPlayers:  b.LoadedPlayers.Load(),
		SkippedLines:   b.SkippedLines.Load(),
		QueryCount:     b.QueryCount.Load(),
		QueryErrors:    b.QueryErrors.Load(),
		QueryAvgNanos:  b.getAvgQueryNanos(),
		QueryMaxNanos:  b.QueryMaxNanos.Load(),
		LoadTotalNanos: b.LoadTotalNanos.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgQueryNanos() int64 {
	ok := b.QueryCount.Load() - b.QueryErrors.Load()
	if ok <= 0 {
		return 0
	}
	return b.QueryTotalNanos.Load() / ok
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount      int64
	LoadErrors     int64
	LoadedPlayers  int64
	SkippedLines   int64
	LoadTotalNanos int64
	QueryCount     int64
	QueryErrors    int64
	QueryAvgNanos  int64
	QueryMaxNanos  int64
}
