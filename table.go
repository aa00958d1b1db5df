package sparsetag

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/sparsetag/internal/cache"
	"github.com/hupe1980/sparsetag/internal/csc"
	"github.com/hupe1980/sparsetag/internal/eval"
	"github.com/hupe1980/sparsetag/internal/indexwidth"
	"github.com/hupe1980/sparsetag/model"
	"github.com/hupe1980/sparsetag/query"
)

// Triple is the column-major compressed exchange form: stored values,
// their row indices and per-column offsets.
type Triple = csc.Triple

// MemoryUsage is a byte breakdown of a table's storage.
type MemoryUsage = csc.MemoryUsage

// IndexWidth is the element width of the index arrays.
type IndexWidth = csc.Width

// Index widths.
const (
	Width8  = csc.Width8
	Width16 = csc.Width16
	Width32 = csc.Width32
)

// OptimizeResult reports an index-width optimization decision.
type OptimizeResult = indexwidth.Result

// Optimization outcomes.
const (
	OptimizeApplied         = indexwidth.Applied
	OptimizeAlreadyOptimal  = indexwidth.AlreadyOptimal
	OptimizeSkippedRowIndex = indexwidth.SkippedRowIndex
	OptimizeSkippedOffset   = indexwidth.SkippedOffset
)

// Table is a sparse table of confidence levels with cached queries.
//
// Reads are lock-free against an immutable snapshot of the data. The only
// mutation is whole-table replacement, which swaps the snapshot, bumps the
// version and clears the cache. Results obtained before a replacement keep
// referring to the snapshot they were computed on.
type Table struct {
	data    atomic.Pointer[csc.Matrix]
	version atomic.Uint64

	// mu orders replacements against cache reads and writes so a result
	// computed on an old snapshot is never stored under the new version.
	mu    sync.RWMutex
	cache *cache.ResultCache

	opts    options
	logger  *Logger
	metrics MetricsCollector
}

func newTable(m *csc.Matrix, o options) *Table {
	t := &Table{
		opts:    o,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}
	if o.cacheEnabled {
		cfg := o.cacheConfig
		cfg.Logger = o.logger.Logger
		t.cache = cache.New(cfg)
	}
	t.data.Store(m)
	t.logger.Info("table created",
		"rows", m.Rows(),
		"cols", m.Cols(),
		"nnz", m.NNZ(),
		"sparsity", m.Sparsity(),
		"cache", o.cacheEnabled,
	)
	return t
}

// New builds a table from an explicit compressed triple. The triple is
// validated and copied.
func New(t Triple, optFns ...Option) (*Table, error) {
	m, err := csc.New(t)
	if err != nil {
		return nil, err
	}
	return newTable(m, applyOptions(optFns)), nil
}

// Empty builds a table of the given shape in which every cell is NONE.
func Empty(rows int, names []string, optFns ...Option) (*Table, error) {
	m, err := csc.Empty(rows, names)
	if err != nil {
		return nil, err
	}
	return newTable(m, applyOptions(optFns)), nil
}

// FromDense builds a table from a row-major dense table. A warning is
// logged when the data is denser than the configured sparsity threshold.
func FromDense(dense [][]model.Confidence, names []string, optFns ...Option) (*Table, error) {
	m, err := csc.FromDense(dense, names)
	if err != nil {
		return nil, err
	}
	o := applyOptions(optFns)
	if s := m.Sparsity(); s < o.sparsityThreshold {
		o.logger.Warn("low sparsity, compressed storage may not save memory",
			"sparsity", s,
			"threshold", o.sparsityThreshold,
		)
	}
	return newTable(m, o), nil
}

// FromCOO builds a table from coordinate triplets. Zero values are dropped;
// duplicate coordinates are summed and clamped to HIGH.
func FromCOO(rows int, names []string, rowIdx, colIdx []uint32, values []uint8, optFns ...Option) (*Table, error) {
	m, err := csc.FromCOO(rows, names, rowIdx, colIdx, values)
	if err != nil {
		return nil, err
	}
	return newTable(m, applyOptions(optFns)), nil
}

// FromCSR builds a table from row-major compressed arrays. The number of
// rows is len(rowPtr)-1.
func FromCSR(names []string, values []uint8, colIdx, rowPtr []uint32, optFns ...Option) (*Table, error) {
	m, err := csc.FromCSR(names, values, colIdx, rowPtr)
	if err != nil {
		return nil, err
	}
	return newTable(m, applyOptions(optFns)), nil
}

// Random builds a table with roughly rows×len(names)×fill stored cells,
// reproducible from seed. Requests whose expected size overflows the safe
// limit fail with ErrSize before anything is allocated.
func Random(rows int, names []string, fill float64, seed uint64, optFns ...Option) (*Table, error) {
	m, err := csc.Random(rows, names, fill, seed)
	if err != nil {
		return nil, err
	}
	return newTable(m, applyOptions(optFns)), nil
}

func (t *Table) matrix() *csc.Matrix { return t.data.Load() }

// Query evaluates q and returns the matching rows.
func (t *Table) Query(ctx context.Context, q query.Query, optFns ...QueryOption) (*Result, error) {
	var qo queryOptions
	for _, fn := range optFns {
		fn(&qo)
	}

	start := time.Now()
	res, err := t.query(ctx, q, qo)

	matches := 0
	cached := false
	if res != nil {
		matches, cached = res.Count(), res.Cached()
	}
	t.metrics.RecordQuery(matches, cached, time.Since(start), err)
	t.logger.LogQuery(ctx, matches, cached, err)
	return res, err
}

func (t *Table) query(ctx context.Context, q query.Query, qo queryOptions) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	useCache := t.cache != nil && !qo.bypassCache
	if !useCache {
		m := t.matrix()
		rows, err := eval.Evaluate(q, m)
		if err != nil {
			return nil, err
		}
		return newResult(rows, m, t.opts, false), nil
	}

	// Validate before keying so malformed queries are never cached and
	// key encoding only sees well-formed trees.
	if err := query.Validate(q, t.matrix()); err != nil {
		return nil, err
	}
	key := t.cache.Key(q)

	t.mu.RLock()
	m, version := t.matrix(), t.version.Load()
	rows, ok := t.cache.Lookup(key)
	t.mu.RUnlock()
	if ok {
		return newResult(rows, m, t.opts, true), nil
	}

	rows, err := eval.Evaluate(q, m)
	if err != nil {
		return nil, err
	}

	t.mu.RLock()
	if t.version.Load() == version {
		t.cache.Store(key, rows)
	}
	t.mu.RUnlock()

	return newResult(rows, m, t.opts, false), nil
}

// QueryJSON parses a JSON query dictionary and evaluates it.
//
//	res, err := tbl.QueryJSON(ctx, []byte(`{"column":"Tag1","op":">=","value":"MEDIUM"}`))
func (t *Table) QueryJSON(ctx context.Context, data []byte, optFns ...QueryOption) (*Result, error) {
	q, err := query.Parse(data)
	if err != nil {
		return nil, err
	}
	return t.Query(ctx, q, optFns...)
}

// Filter evaluates q and returns the matching rows as a new table.
func (t *Table) Filter(ctx context.Context, q query.Query, optFns ...QueryOption) (*Table, error) {
	res, err := t.Query(ctx, q, optFns...)
	if err != nil {
		return nil, err
	}
	return res.ToTable(), nil
}

// ReplaceData swaps in a new compressed triple. The triple is validated
// first; on error the table is unchanged.
func (t *Table) ReplaceData(tr Triple) error {
	start := time.Now()
	m, err := csc.New(tr)
	if err != nil {
		t.metrics.RecordReplace(0, time.Since(start), err)
		t.logger.LogReplace(context.Background(), t.Version(), 0, err)
		return err
	}
	v := t.replace(m)
	t.metrics.RecordReplace(m.NNZ(), time.Since(start), nil)
	t.logger.LogReplace(context.Background(), v, m.NNZ(), nil)
	return nil
}

func (t *Table) replace(m *csc.Matrix) uint64 {
	v, _ := t.swap(nil, m)
	return v
}

// swap installs m. A non-nil prev must still be the current snapshot,
// otherwise nothing changes and swap reports false.
func (t *Table) swap(prev, m *csc.Matrix) (uint64, bool) {
	t.mu.Lock()
	if prev != nil && t.data.Load() != prev {
		v := t.version.Load()
		t.mu.Unlock()
		return v, false
	}
	t.data.Store(m)
	v := t.version.Add(1)
	n := t.clearCacheLocked()
	t.mu.Unlock()

	t.reportClear(n)
	return v, true
}

// ClearCache drops every cached result.
func (t *Table) ClearCache() {
	t.mu.Lock()
	n := t.clearCacheLocked()
	t.mu.Unlock()

	t.reportClear(n)
}

func (t *Table) clearCacheLocked() int {
	if t.cache == nil {
		return 0
	}
	n := t.cache.Len()
	t.cache.Clear()
	return n
}

func (t *Table) reportClear(n int) {
	if t.cache == nil {
		return
	}
	t.metrics.RecordCacheClear(n)
	t.logger.LogCacheClear(context.Background(), n)
}

// OptimizeIndexWidth re-encodes the index arrays at the narrowest width the
// row count allows, provided the stored row indices and column offsets fit.
//
// In place, an applied optimization is a data replacement: the version is
// bumped and the cache cleared. It returns t. Otherwise a new table with
// the same options is returned; when nothing could be narrowed it holds an
// unmodified copy. Values are never truncated.
func (t *Table) OptimizeIndexWidth(inPlace bool) (*Table, OptimizeResult) {
	if !inPlace {
		m := t.matrix()
		opt, res := indexwidth.Optimize(m)
		t.reportOptimize(res)
		if !res.Changed() {
			opt = m.Clone()
		}
		return newTable(opt, t.opts), res
	}

	// A replacement that lands while the optimizer runs wins; the new
	// snapshot is optimized instead of restoring the old one.
	for {
		m := t.matrix()
		opt, res := indexwidth.Optimize(m)
		if !res.Changed() {
			t.reportOptimize(res)
			return t, res
		}
		if _, ok := t.swap(m, opt); ok {
			t.reportOptimize(res)
			return t, res
		}
	}
}

func (t *Table) reportOptimize(res OptimizeResult) {
	t.metrics.RecordOptimize(res.Changed(), res.SavedBytes)
	t.logger.LogOptimize(context.Background(), res)
}

// IndexWidths returns the current widths of the row-index and
// column-offset arrays.
func (t *Table) IndexWidths() (rowIndices, offsets IndexWidth) {
	m := t.matrix()
	return m.RowIndices().Width(), m.ColOffsets().Width()
}

// Shape returns the number of rows and columns.
func (t *Table) Shape() (rows, cols int) {
	m := t.matrix()
	return m.Rows(), m.Cols()
}

// ColumnNames returns a copy of the column names.
func (t *Table) ColumnNames() []string { return t.matrix().ColumnNames() }

// NNZ returns the number of stored (non-NONE) cells.
func (t *Table) NNZ() int { return t.matrix().NNZ() }

// Sparsity returns the fraction of NONE cells.
func (t *Table) Sparsity() float64 { return t.matrix().Sparsity() }

// MemoryUsage reports the storage footprint.
func (t *Table) MemoryUsage() MemoryUsage { return t.matrix().MemoryUsage() }

// Version returns the data version, incremented by every replacement.
func (t *Table) Version() uint64 { return t.version.Load() }

// Column returns the dense values of the named column.
func (t *Table) Column(name string) ([]model.Confidence, error) {
	m := t.matrix()
	c, ok := m.ColumnIndex(name)
	if !ok {
		return nil, &query.ColumnError{Column: name, Available: m.ColumnNames()}
	}
	out := make([]model.Confidence, m.Rows())
	values, rows := m.Column(c)
	for k, v := range values {
		out[rows.At(k)] = model.Confidence(v)
	}
	return out, nil
}

// ValueCounts holds the number of rows at each level of one column.
type ValueCounts struct {
	None   int `json:"none"`
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// ValueCounts returns per-level counts for the named columns, or for every
// column when none are named.
func (t *Table) ValueCounts(columns ...string) (map[string]ValueCounts, error) {
	m := t.matrix()
	if len(columns) == 0 {
		columns = m.ColumnNames()
	}
	out := make(map[string]ValueCounts, len(columns))
	for _, name := range columns {
		c, ok := m.ColumnIndex(name)
		if !ok {
			return nil, &query.ColumnError{Column: name, Available: m.ColumnNames()}
		}
		counts := m.ValueCounts(c)
		out[name] = ValueCounts{
			None:   counts[model.None],
			Low:    counts[model.Low],
			Medium: counts[model.Medium],
			High:   counts[model.High],
		}
	}
	return out, nil
}

// ToDense expands the table into a row-major dense table.
// This allocates rows×cols cells.
func (t *Table) ToDense() [][]model.Confidence {
	m := t.matrix()
	t.logger.Warn("converting to dense, memory use may be high",
		"rows", m.Rows(),
		"cols", m.Cols(),
		"cells", m.Rows()*m.Cols(),
	)
	return m.ToDense()
}

// Triple returns a copy of the compressed representation with 32-bit
// index arrays.
func (t *Table) Triple() Triple { return t.matrix().Triple() }

// CacheStats is a snapshot of result-cache state.
type CacheStats struct {
	Enabled    bool
	Version    uint64
	Hits       int64
	Misses     int64
	Rejections int64
	Entries    int
	Bytes      int64
	HitRate    float64
}

// MB returns Bytes in mebibytes.
func (s CacheStats) MB() float64 { return float64(s.Bytes) / (1 << 20) }

// CacheStats returns result-cache statistics.
func (t *Table) CacheStats() CacheStats {
	s := CacheStats{Version: t.Version()}
	if t.cache == nil {
		return s
	}
	cs := t.cache.Stats()
	s.Enabled = true
	s.Hits = cs.Hits
	s.Misses = cs.Misses
	s.Rejections = cs.Rejections
	s.Entries = cs.Entries
	s.Bytes = cs.Bytes
	s.HitRate = cs.HitRate
	return s
}

// String summarizes the table.
func (t *Table) String() string {
	m := t.matrix()
	names := m.ColumnNames()
	const maxNames = 5
	shown := names
	if len(shown) > maxNames {
		shown = shown[:maxNames]
	}
	cols := strings.Join(shown, ", ")
	if len(names) > maxNames {
		cols += fmt.Sprintf(", ... (%d more)", len(names)-maxNames)
	}
	return fmt.Sprintf("Table(shape=(%d, %d), nnz=%d, sparsity=%.2f%%, columns=[%s])",
		m.Rows(), m.Cols(), m.NNZ(), m.Sparsity()*100, cols)
}
