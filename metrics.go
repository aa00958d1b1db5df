package sparsetag

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
//	    queryCounter   *prometheus.CounterVec
//	    queryHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordQuery(matches int, cached bool, d time.Duration, err error) {
//	    p.queryCounter.WithLabelValues(strconv.FormatBool(cached)).Inc()
//	    p.queryHistogram.Observe(d.Seconds())
//	}
type MetricsCollector interface {
	// RecordQuery is called after each query.
	// matches is the result size, cached reports a cache hit,
	// err is nil if successful.
	RecordQuery(matches int, cached bool, duration time.Duration, err error)

	// RecordReplace is called after each whole-table replacement.
	RecordReplace(nnz int, duration time.Duration, err error)

	// RecordCacheClear is called whenever the result cache is emptied.
	RecordCacheClear(entries int)

	// RecordOptimize is called after each index-width optimization attempt.
	// applied reports whether a narrower encoding was produced.
	RecordOptimize(applied bool, savedBytes int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordQuery(int, bool, time.Duration, error) {}
func (NoopMetricsCollector) RecordReplace(int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordCacheClear(int)                        {}
func (NoopMetricsCollector) RecordOptimize(bool, int)                    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	QueryCount       atomic.Int64
	QueryErrors      atomic.Int64
	QueryCacheHits   atomic.Int64
	QueryMatches     atomic.Int64
	QueryTotalNanos  atomic.Int64
	ReplaceCount     atomic.Int64
	ReplaceErrors    atomic.Int64
	CacheClearCount  atomic.Int64
	CacheClearedKeys atomic.Int64
	OptimizeCount    atomic.Int64
	OptimizeApplied  atomic.Int64
	OptimizeSaved    atomic.Int64
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(matches int, cached bool, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
		return
	}
	b.QueryMatches.Add(int64(matches))
	if cached {
		b.QueryCacheHits.Add(1)
	}
}

// RecordReplace implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReplace(_ int, _ time.Duration, err error) {
	b.ReplaceCount.Add(1)
	if err != nil {
		b.ReplaceErrors.Add(1)
	}
}

// RecordCacheClear implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheClear(entries int) {
	b.CacheClearCount.Add(1)
	b.CacheClearedKeys.Add(int64(entries))
}

// RecordOptimize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOptimize(applied bool, savedBytes int) {
	b.OptimizeCount.Add(1)
	if applied {
		b.OptimizeApplied.Add(1)
		b.OptimizeSaved.Add(int64(savedBytes))
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		QueryCount:      b.QueryCount.Load(),
		QueryErrors:     b.QueryErrors.Load(),
		QueryCacheHits:  b.QueryCacheHits.Load(),
		QueryMatches:    b.QueryMatches.Load(),
		QueryAvgNanos:   b.getAvgQueryNanos(),
		ReplaceCount:    b.ReplaceCount.Load(),
		ReplaceErrors:   b.ReplaceErrors.Load(),
		CacheClearCount: b.CacheClearCount.Load(),
		OptimizeCount:   b.OptimizeCount.Load(),
		OptimizeApplied: b.OptimizeApplied.Load(),
		OptimizeSaved:   b.OptimizeSaved.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgQueryNanos() int64 {
	count := b.QueryCount.Load()
	if count == 0 {
		return 0
	}
	return b.QueryTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	QueryCount      int64
	QueryErrors     int64
	QueryCacheHits  int64
	QueryMatches    int64
	QueryAvgNanos   int64
	ReplaceCount    int64
	ReplaceErrors   int64
	CacheClearCount int64
	OptimizeCount   int64
	OptimizeApplied int64
	OptimizeSaved   int64
}
