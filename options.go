package sparsetag

import (
	"log/slog"

	"github.com/hupe1980/sparsetag/internal/cache"
)

// DefaultSparsityThreshold is the sparsity below which FromDense warns that
// the data may be too dense to benefit from compressed storage.
const DefaultSparsityThreshold = 0.1

type options struct {
	cacheEnabled      bool
	cacheConfig       cache.Config
	sparsityThreshold float64
	metricsCollector  MetricsCollector
	logger            *Logger
}

func defaultOptions() options {
	return options{
		cacheEnabled:      true,
		cacheConfig:       cache.DefaultConfig(),
		sparsityThreshold: DefaultSparsityThreshold,
		metricsCollector:  NoopMetricsCollector{},
		logger:            NoopLogger(),
	}
}

func applyOptions(optFns []Option) options {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	return o
}

// Option configures table construction.
//
// Defaults: cache enabled with 256 entries, a 10 MiB budget, a 1 MiB
// large-result threshold and 200 bytes of accounted overhead per entry;
// sparsity warning threshold 0.1; no logging; no metrics.
type Option func(*options)

// WithoutCache disables the result cache. Every query is evaluated.
func WithoutCache() Option {
	return func(o *options) {
		o.cacheEnabled = false
	}
}

// WithCache enables or disables the result cache.
func WithCache(enabled bool) Option {
	return func(o *options) {
		o.cacheEnabled = enabled
	}
}

// WithCacheLimits bounds the result cache. Non-positive values keep the
// corresponding default.
//
//	tbl, _ := sparsetag.Random(100_000, names, 0.01, 42,
//	    sparsetag.WithCacheLimits(1024, 64<<20, 4<<20))
func WithCacheLimits(maxEntries int, maxMemoryBytes, largeResultBytes int64) Option {
	return func(o *options) {
		if maxEntries > 0 {
			o.cacheConfig.MaxEntries = maxEntries
		}
		if maxMemoryBytes > 0 {
			o.cacheConfig.MaxMemoryBytes = maxMemoryBytes
		}
		if largeResultBytes > 0 {
			o.cacheConfig.LargeResultThresholdBytes = largeResultBytes
		}
	}
}

// WithEntryOverhead sets the bytes accounted per cache entry on top of
// four bytes per matched row.
func WithEntryOverhead(bytes int64) Option {
	return func(o *options) {
		if bytes >= 0 {
			o.cacheConfig.EntryOverheadBytes = bytes
		}
	}
}

// WithCacheAdmission installs an extra admission gate consulted after the
// built-in limits. sizeBytes is the accounted entry size.
func WithCacheAdmission(admit func(sizeBytes int) bool) Option {
	return func(o *options) {
		if admit == nil {
			o.cacheConfig.Admission = nil
			return
		}
		o.cacheConfig.Admission = cache.AdmissionFunc(func(_ cache.Key, size int) bool {
			return admit(size)
		})
	}
}

// WithSparsityThreshold sets the sparsity below which FromDense logs a
// warning.
func WithSparsityThreshold(threshold float64) Option {
	return func(o *options) {
		o.sparsityThreshold = threshold
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &sparsetag.BasicMetricsCollector{}
//	tbl, _ := sparsetag.FromDense(data, names, sparsetag.WithMetricsCollector(metrics))
//	// ... use tbl ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, cache hits: %d\n", stats.QueryCount, stats.QueryCacheHits)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := sparsetag.NewJSONLogger(slog.LevelInfo)
//	tbl, _ := sparsetag.FromDense(data, names, sparsetag.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
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

type queryOptions struct {
	bypassCache bool
}

// QueryOption configures a single query.
type QueryOption func(*queryOptions)

// BypassCache evaluates the query without reading or populating the cache.
func BypassCache() QueryOption {
	return func(o *queryOptions) {
		o.bypassCache = true
	}
}
