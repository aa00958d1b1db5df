package sparsetag

import (
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/sparsetag/internal/csc"
)

// Result holds the rows matched by a query together with the data snapshot
// it was evaluated on. It stays valid after the table is replaced.
type Result struct {
	rows   []uint32
	matrix *csc.Matrix
	opts   options
	cached bool

	bitmapOnce sync.Once
	bitmap     *roaring.Bitmap
}

func newResult(rows []uint32, m *csc.Matrix, o options, cached bool) *Result {
	return &Result{rows: rows, matrix: m, opts: o, cached: cached}
}

// Rows returns a copy of the matching row indices in ascending order.
func (r *Result) Rows() []uint32 { return slices.Clone(r.rows) }

// Count returns the number of matching rows.
func (r *Result) Count() int { return len(r.rows) }

// Cached reports whether the result was served from the cache.
func (r *Result) Cached() bool { return r.cached }

// Contains reports whether row matched.
func (r *Result) Contains(row uint32) bool {
	_, ok := slices.BinarySearch(r.rows, row)
	return ok
}

// Mask returns a boolean mask with one entry per table row.
func (r *Result) Mask() []bool {
	mask := make([]bool, r.matrix.Rows())
	for _, row := range r.rows {
		mask[row] = true
	}
	return mask
}

// Bitmap returns the matching rows as a roaring bitmap. The bitmap is built
// on first use; the returned value is a copy the caller may modify.
func (r *Result) Bitmap() *roaring.Bitmap {
	r.bitmapOnce.Do(func() {
		r.bitmap = roaring.BitmapOf(r.rows...)
		r.bitmap.RunOptimize()
	})
	return r.bitmap.Clone()
}

// SizeBytes returns the memory held by the row indices.
func (r *Result) SizeBytes() int { return 4 * len(r.rows) }

// ToTable materializes the matching rows as a new table with the same
// columns and options. Rows are renumbered in order. Zero matches yield a
// table with zero rows.
func (r *Result) ToTable() *Table {
	return newTable(r.matrix.SelectRows(r.rows), r.opts)
}
