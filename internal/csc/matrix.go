package csc

import (
	"fmt"
	"math"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/sparsetag/internal/conv"
	"github.com/hupe1980/sparsetag/model"
)

// MaxSafeNNZ bounds the number of stored cells any construction path may produce.
const MaxSafeNNZ = math.MaxInt32

// Triple is the column-major compressed representation in its exchange form.
type Triple struct {
	// Rows is the declared number of rows.
	Rows int
	// Values holds one stored confidence per cell, each in {1,2,3}.
	Values []uint8
	// RowIndices is parallel to Values.
	RowIndices []uint32
	// ColOffsets has len(ColumnNames)+1 entries.
	ColOffsets []uint32
	// ColumnNames names each column in order.
	ColumnNames []string
}

// Matrix is an immutable compressed sparse column table.
type Matrix struct {
	rows     int
	names    []string
	colIndex map[string]int

	values []uint8
	rowIdx Indices
	colPtr Indices

	universeOnce sync.Once
	universe     []uint32
}

// New validates t and builds a Matrix. The slices in t are copied.
func New(t Triple) (*Matrix, error) {
	if err := validate(t); err != nil {
		return nil, err
	}
	return newMatrix(
		t.Rows,
		append([]string(nil), t.ColumnNames...),
		append([]uint8(nil), t.Values...),
		NewIndices(append([]uint32(nil), t.RowIndices...)),
		NewIndices(append([]uint32(nil), t.ColOffsets...)),
	), nil
}

// newMatrix assembles a Matrix from already validated parts it takes ownership of.
func newMatrix(rows int, names []string, values []uint8, rowIdx, colPtr Indices) *Matrix {
	colIndex := make(map[string]int, len(names))
	for i, name := range names {
		colIndex[name] = i // last writer wins on duplicates
	}
	return &Matrix{
		rows:     rows,
		names:    names,
		colIndex: colIndex,
		values:   values,
		rowIdx:   rowIdx,
		colPtr:   colPtr,
	}
}

// checkRowCount rejects row counts that 32-bit row indices cannot address.
func checkRowCount(rows int) error {
	if _, err := conv.IntToUint32(rows); err != nil {
		return fmt.Errorf("%w: row count: %w", ErrValidation, err)
	}
	return nil
}

func validate(t Triple) error {
	if t.Rows < 0 {
		return fmt.Errorf("%w: row count must be non-negative, got %d", ErrValidation, t.Rows)
	}
	if err := checkRowCount(t.Rows); err != nil {
		return err
	}

	cols := len(t.ColumnNames)
	if len(t.ColOffsets) != cols+1 {
		return fmt.Errorf("%w: column count mismatch: %d names for %d columns",
			ErrValidation, cols, len(t.ColOffsets)-1)
	}
	if len(t.RowIndices) != len(t.Values) {
		return fmt.Errorf("%w: %d row indices for %d values", ErrValidation, len(t.RowIndices), len(t.Values))
	}
	if len(t.Values) > MaxSafeNNZ {
		return fmt.Errorf("%w: %d stored values exceed safe limit %d", ErrSize, len(t.Values), MaxSafeNNZ)
	}
	if t.ColOffsets[0] != 0 {
		return fmt.Errorf("%w: first column offset must be 0, got %d", ErrValidation, t.ColOffsets[0])
	}
	if last := t.ColOffsets[cols]; int(last) != len(t.Values) {
		return fmt.Errorf("%w: last column offset %d does not match %d stored values", ErrValidation, last, len(t.Values))
	}

	for i, v := range t.Values {
		if !model.Confidence(v).Stored() {
			return fmt.Errorf("%w: stored value %d at position %d outside {1,2,3}", ErrValidation, v, i)
		}
	}

	for c := 0; c < cols; c++ {
		lo, hi := t.ColOffsets[c], t.ColOffsets[c+1]
		if hi < lo {
			return fmt.Errorf("%w: column %q offsets decrease (%d > %d)", ErrValidation, t.ColumnNames[c], lo, hi)
		}
		if int(hi) > len(t.Values) {
			return fmt.Errorf("%w: column %q offset %d beyond %d stored values", ErrValidation, t.ColumnNames[c], hi, len(t.Values))
		}
		for k := lo; k < hi; k++ {
			r := t.RowIndices[k]
			if int64(r) >= int64(t.Rows) {
				return fmt.Errorf("%w: column %q row index %d out of range for %d rows",
					ErrValidation, t.ColumnNames[c], r, t.Rows)
			}
			if k > lo && r <= t.RowIndices[k-1] {
				return fmt.Errorf("%w: column %q row indices not strictly increasing at position %d",
					ErrValidation, t.ColumnNames[c], k)
			}
		}
	}
	return nil
}

// Rows returns the declared row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return len(m.names) }

// NNZ returns the number of stored cells.
func (m *Matrix) NNZ() int { return len(m.values) }

// ColumnNames returns a copy of the column names.
func (m *Matrix) ColumnNames() []string {
	return append([]string(nil), m.names...)
}

// ColumnIndex resolves a column name.
func (m *Matrix) ColumnIndex(name string) (int, bool) {
	c, ok := m.colIndex[name]
	return c, ok
}

// Column returns the stored values and row indices of column c.
// The returned slices alias the matrix and must not be modified.
func (m *Matrix) Column(c int) ([]uint8, Indices) {
	lo, hi := int(m.colPtr.At(c)), int(m.colPtr.At(c+1))
	return m.values[lo:hi:hi], m.rowIdx.Slice(lo, hi)
}

// RowIndices returns the full row-index array.
func (m *Matrix) RowIndices() Indices { return m.rowIdx }

// ColOffsets returns the column-offset array.
func (m *Matrix) ColOffsets() Indices { return m.colPtr }

// Sparsity returns the fraction of cells that are NONE. A table without
// cells is fully sparse.
func (m *Matrix) Sparsity() float64 {
	total := float64(m.rows) * float64(len(m.names))
	if total == 0 {
		return 1.0
	}
	return 1 - float64(len(m.values))/total
}

// RowsWithAnyValue returns the sorted rows that store at least one value in
// any column. The result is computed once and shared; callers must not
// modify it.
func (m *Matrix) RowsWithAnyValue() []uint32 {
	m.universeOnce.Do(func() {
		rb := roaring.New()
		buf := make([]uint32, 0, 64)
		for c := range m.names {
			_, rows := m.Column(c)
			if rows.Len() == 0 {
				continue
			}
			buf = rows.AppendTo(buf[:0])
			rb.AddMany(buf)
		}
		m.universe = rb.ToArray()
	})
	return m.universe
}

// ValueCounts returns, for column c, the number of rows at each confidence
// level indexed by model.Confidence. NONE is derived from the row count.
func (m *Matrix) ValueCounts(c int) [model.MaxConfidence + 1]int {
	var counts [model.MaxConfidence + 1]int
	values, _ := m.Column(c)
	for _, v := range values {
		counts[v]++
	}
	counts[model.None] = m.rows - len(values)
	return counts
}

// Triple returns a widened deep copy of the compressed representation.
func (m *Matrix) Triple() Triple {
	return Triple{
		Rows:        m.rows,
		Values:      append([]uint8(nil), m.values...),
		RowIndices:  Widen(m.rowIdx),
		ColOffsets:  Widen(m.colPtr),
		ColumnNames: m.ColumnNames(),
	}
}

// Clone returns a deep copy that preserves the current index width.
func (m *Matrix) Clone() *Matrix {
	rowIdx, _ := Convert(m.rowIdx, m.rowIdx.Width())
	colPtr, _ := Convert(m.colPtr, m.colPtr.Width())
	return newMatrix(m.rows, m.ColumnNames(), append([]uint8(nil), m.values...), rowIdx, colPtr)
}

// WithIndices returns a copy of m that uses the given row-index and
// column-offset arrays. The caller guarantees they encode the same numbers
// as m's.
func (m *Matrix) WithIndices(rowIdx, colPtr Indices) *Matrix {
	return newMatrix(m.rows, m.ColumnNames(), append([]uint8(nil), m.values...), rowIdx, colPtr)
}

// MemoryUsage is a byte breakdown of a Matrix's storage.
type MemoryUsage struct {
	Values     int
	RowIndices int
	Offsets    int
	Names      int
	Total      int
}

// MemoryUsage reports the storage footprint of m.
func (m *Matrix) MemoryUsage() MemoryUsage {
	u := MemoryUsage{
		Values:     len(m.values),
		RowIndices: m.rowIdx.SizeBytes(),
		Offsets:    m.colPtr.SizeBytes(),
	}
	for _, name := range m.names {
		u.Names += len(name)
	}
	u.Total = u.Values + u.RowIndices + u.Offsets + u.Names
	return u
}
