package cache

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/sparsetag/internal/resource"
	"github.com/hupe1980/sparsetag/query"
)

// ResultCache caches sorted row-index results by query.
// Cached slices are shared; callers must treat them as read-only.
type ResultCache struct {
	cfg    Config
	keyer  *Keyer
	rc     *resource.Controller
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[Key][]uint32

	hits       atomic.Int64
	misses     atomic.Int64
	rejections atomic.Int64

	rejectLog rate.Sometimes
}

// New creates a result cache. Zero-valued limits take their defaults.
func New(cfg Config) *ResultCache {
	cfg = cfg.withDefaults()
	return &ResultCache{
		cfg:       cfg,
		keyer:     NewKeyer(cfg.Marshal),
		rc:        resource.NewController(resource.Config{MemoryLimitBytes: cfg.MaxMemoryBytes}),
		logger:    cfg.Logger,
		entries:   make(map[Key][]uint32),
		rejectLog: rate.Sometimes{First: 3, Interval: 10 * time.Second},
	}
}

// Config returns the effective configuration.
func (c *ResultCache) Config() Config { return c.cfg }

// Key derives the cache key of q.
func (c *ResultCache) Key(q query.Query) Key { return c.keyer.Key(q) }

// EntrySize is the accounted size of a result with n rows.
func (c *ResultCache) EntrySize(n int) int64 {
	return 4*int64(n) + c.cfg.EntryOverheadBytes
}

// Get looks q up.
func (c *ResultCache) Get(q query.Query) ([]uint32, bool) {
	return c.Lookup(c.Key(q))
}

// Lookup returns the result cached under k.
func (c *ResultCache) Lookup(k Key) ([]uint32, bool) {
	c.mu.RLock()
	rows, ok := c.entries[k]
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "key", k.String(), "rows", len(rows))
	return rows, true
}

// Put caches rows for q and reports whether they were admitted.
func (c *ResultCache) Put(q query.Query, rows []uint32) bool {
	return c.Store(c.Key(q), rows)
}

// Store caches rows under k and reports whether they were admitted.
// A key that is already present is left untouched and reported as admitted.
func (c *ResultCache) Store(k Key, rows []uint32) bool {
	size := c.EntrySize(len(rows))

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[k]; ok {
		return true
	}
	if len(c.entries) >= c.cfg.MaxEntries {
		c.reject(k, size, "entry limit reached")
		return false
	}
	if size > c.cfg.LargeResultThresholdBytes {
		c.reject(k, size, "result above large-result threshold")
		return false
	}
	if c.cfg.Admission != nil && !c.cfg.Admission.Admit(k, int(size)) {
		c.reject(k, size, "admission policy declined")
		return false
	}
	if !c.rc.TryAcquireMemory(size) {
		c.reject(k, size, "memory budget exhausted")
		return false
	}

	c.entries[k] = rows
	c.logger.Debug("cached result", "key", k.String(), "rows", len(rows), "bytes", size)
	return true
}

func (c *ResultCache) reject(k Key, size int64, reason string) {
	c.rejections.Add(1)
	c.rejectLog.Do(func() {
		c.logger.Debug("cache admission rejected",
			"key", k.String(),
			"bytes", size,
			"reason", reason,
			"entries", len(c.entries),
			"used_bytes", c.rc.MemoryUsage(),
			"limit_bytes", c.rc.MemoryLimit(),
		)
	})
}

// Clear drops every entry and resets the memory budget.
// Hit and miss counters are kept.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[Key][]uint32)
	c.rc.ReleaseAll()
	c.logger.Debug("cache cleared", "entries", n)
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *ResultCache) Stats() Stats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()

	hits, misses := c.hits.Load(), c.misses.Load()
	s := Stats{
		Hits:       hits,
		Misses:     misses,
		Rejections: c.rejections.Load(),
		Entries:    n,
		Bytes:      c.rc.MemoryUsage(),
	}
	if total := hits + misses; total > 0 {
		s.HitRate = float64(hits) / float64(total)
	}
	return s
}
