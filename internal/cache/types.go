package cache

import (
	"fmt"
	"log/slog"
)

// Key identifies a cached query result.
type Key struct {
	Hi, Lo uint64
}

// String renders the key as 32 hex digits.
func (k Key) String() string {
	return fmt.Sprintf("%016x%016x", k.Hi, k.Lo)
}

// AdmissionPolicy decides whether a value should be cached.
// It runs after the entry-count and size gates and before the memory budget.
type AdmissionPolicy interface {
	Admit(key Key, sizeBytes int) bool
}

// AdmissionFunc adapts a plain function to AdmissionPolicy.
type AdmissionFunc func(key Key, sizeBytes int) bool

// Admit calls f.
func (f AdmissionFunc) Admit(key Key, sizeBytes int) bool { return f(key, sizeBytes) }

// Defaults used when a Config field is left at zero.
const (
	DefaultMaxEntries           = 256
	DefaultMaxMemoryBytes       = 10 << 20
	DefaultLargeResultThreshold = 1 << 20
	DefaultEntryOverheadBytes   = 200
)

// Config controls cache limits.
type Config struct {
	// MaxEntries caps the number of cached results.
	MaxEntries int
	// MaxMemoryBytes caps the accounted size of all entries.
	MaxMemoryBytes int64
	// LargeResultThresholdBytes rejects any single entry above this size.
	LargeResultThresholdBytes int64
	// EntryOverheadBytes is added to 4 bytes per row when sizing an entry.
	EntryOverheadBytes int64
	// Admission is an optional extra gate.
	Admission AdmissionPolicy
	// Logger receives debug output. Nil discards.
	Logger *slog.Logger
	// Marshal overrides the JSON encoder of the generic key path.
	Marshal func(v any) ([]byte, error)
}

// DefaultConfig returns the default limits.
func DefaultConfig() Config {
	return Config{
		MaxEntries:                DefaultMaxEntries,
		MaxMemoryBytes:            DefaultMaxMemoryBytes,
		LargeResultThresholdBytes: DefaultLargeResultThreshold,
		EntryOverheadBytes:        DefaultEntryOverheadBytes,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxEntries <= 0 {
		c.MaxEntries = d.MaxEntries
	}
	if c.MaxMemoryBytes <= 0 {
		c.MaxMemoryBytes = d.MaxMemoryBytes
	}
	if c.LargeResultThresholdBytes <= 0 {
		c.LargeResultThresholdBytes = d.LargeResultThresholdBytes
	}
	if c.EntryOverheadBytes < 0 {
		c.EntryOverheadBytes = 0
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Stats is a point-in-time view of cache counters.
type Stats struct {
	Hits       int64
	Misses     int64
	Rejections int64
	Entries    int
	Bytes      int64
	HitRate    float64
}
