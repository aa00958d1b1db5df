package csc

import (
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/hupe1980/sparsetag/internal/conv"
	"github.com/hupe1980/sparsetag/model"
)

// Empty returns a matrix with the given shape and no stored cells.
func Empty(rows int, names []string) (*Matrix, error) {
	return New(Triple{
		Rows:        rows,
		ColOffsets:  make([]uint32, len(names)+1),
		ColumnNames: names,
	})
}

// FromDense compresses a row-major dense table. Every row must have exactly
// len(names) cells and every cell must be a valid confidence; NONE cells are
// dropped.
func FromDense(dense [][]model.Confidence, names []string) (*Matrix, error) {
	rows, cols := len(dense), len(names)
	if err := checkRowCount(rows); err != nil {
		return nil, err
	}

	colPtr := make([]uint32, cols+1)
	for r, row := range dense {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrValidation, r, len(row), cols)
		}
		for c, v := range row {
			if !v.Valid() {
				return nil, fmt.Errorf("%w: value %d at (%d, %q) outside 0-3", ErrValidation, uint8(v), r, names[c])
			}
			if v != model.None {
				colPtr[c+1]++
			}
		}
	}
	for c := 0; c < cols; c++ {
		colPtr[c+1] += colPtr[c]
	}
	nnz := int(colPtr[cols])
	if nnz > MaxSafeNNZ {
		return nil, fmt.Errorf("%w: %d stored values exceed safe limit %d", ErrSize, nnz, MaxSafeNNZ)
	}

	values := make([]uint8, nnz)
	rowIdx := make([]uint32, nnz)
	next := append([]uint32(nil), colPtr[:cols]...)
	for r, row := range dense {
		for c, v := range row {
			if v == model.None {
				continue
			}
			values[next[c]] = uint8(v)
			rowIdx[next[c]] = uint32(r)
			next[c]++
		}
	}

	return newMatrix(rows, append([]string(nil), names...), values, NewIndices(rowIdx), NewIndices(colPtr)), nil
}

// FromCOO builds a matrix from coordinate triples. Entries may appear in any
// order; zero values are dropped and duplicate coordinates are summed, then
// clamped to High.
func FromCOO(rows int, names []string, rowIdx, colIdx []uint32, values []uint8) (*Matrix, error) {
	if err := checkRowCount(rows); err != nil {
		return nil, err
	}
	if len(rowIdx) != len(values) || len(colIdx) != len(values) {
		return nil, fmt.Errorf("%w: coordinate lengths differ (rows=%d, cols=%d, values=%d)",
			ErrValidation, len(rowIdx), len(colIdx), len(values))
	}
	if len(values) > MaxSafeNNZ {
		return nil, fmt.Errorf("%w: %d entries exceed safe limit %d", ErrSize, len(values), MaxSafeNNZ)
	}
	for i, v := range values {
		if !model.Confidence(v).Valid() {
			return nil, fmt.Errorf("%w: value %d at entry %d outside 0-3", ErrValidation, v, i)
		}
		if int64(rowIdx[i]) >= int64(rows) {
			return nil, fmt.Errorf("%w: row index %d out of range for %d rows", ErrValidation, rowIdx[i], rows)
		}
		if int(colIdx[i]) >= len(names) {
			return nil, fmt.Errorf("%w: column index %d out of range for %d columns", ErrValidation, colIdx[i], len(names))
		}
	}
	return assemble(rows, append([]string(nil), names...), rowIdx, colIdx, values), nil
}

// FromCSR converts a compressed sparse row layout into the column-major one.
// rowPtr must have rows+1 monotone entries ending at len(values).
func FromCSR(names []string, values []uint8, colIdx, rowPtr []uint32) (*Matrix, error) {
	if len(rowPtr) == 0 {
		return nil, fmt.Errorf("%w: row offsets must not be empty", ErrValidation)
	}
	rows := len(rowPtr) - 1
	if rowPtr[0] != 0 || int(rowPtr[rows]) != len(values) {
		return nil, fmt.Errorf("%w: row offsets [%d..%d] do not span %d values",
			ErrValidation, rowPtr[0], rowPtr[rows], len(values))
	}

	rowIdx := make([]uint32, len(values))
	for r := 0; r < rows; r++ {
		lo, hi := rowPtr[r], rowPtr[r+1]
		if hi < lo || int(hi) > len(values) {
			return nil, fmt.Errorf("%w: row %d offsets [%d, %d) invalid", ErrValidation, r, lo, hi)
		}
		for k := lo; k < hi; k++ {
			rowIdx[k] = uint32(r)
		}
	}
	return FromCOO(rows, names, rowIdx, colIdx, values)
}

// Random generates a matrix with roughly rows*len(names)*fill stored cells
// drawn from a generator seeded with seed. The expected cell count is checked
// against MaxSafeNNZ before anything is allocated.
func Random(rows int, names []string, fill float64, seed uint64) (*Matrix, error) {
	if math.IsNaN(fill) || fill < 0 || fill > 1 {
		return nil, fmt.Errorf("%w: fill fraction must be between 0 and 1, got %v", ErrValidation, fill)
	}
	cols := len(names)

	expected := float64(rows) * float64(cols) * fill
	if expected > MaxSafeNNZ {
		return nil, fmt.Errorf("%w: matrix too large: expected nnz %.0f exceeds safe limit %d (rows=%d, cols=%d, fill=%.2f%%)",
			ErrSize, expected, MaxSafeNNZ, rows, cols, fill*100)
	}
	nnz, err := conv.FloatToInt64(expected)
	if err != nil {
		return nil, fmt.Errorf("%w: overflow in nnz calculation (rows=%d, cols=%d): %w", ErrSize, rows, cols, err)
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: matrix dimensions must be positive: rows=%d, cols=%d", ErrValidation, rows, cols)
	}
	if err := checkRowCount(rows); err != nil {
		return nil, err
	}
	if nnz == 0 {
		return Empty(rows, names)
	}

	// Independent generator per call: no shared global state.
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	rowIdx := make([]uint32, nnz)
	colIdx := make([]uint32, nnz)
	values := make([]uint8, nnz)
	for i := range values {
		rowIdx[i] = uint32(rng.IntN(rows))
		colIdx[i] = uint32(rng.IntN(cols))
		values[i] = uint8(rng.IntN(int(model.MaxConfidence))) + 1
	}
	return assemble(rows, append([]string(nil), names...), rowIdx, colIdx, values), nil
}

type cell struct {
	row uint32
	val uint8
}

// assemble sorts validated coordinates into column-major order, drops zeros
// and merges duplicates by saturating addition.
func assemble(rows int, names []string, rowIdx, colIdx []uint32, values []uint8) *Matrix {
	cols := len(names)

	start := make([]uint32, cols+1)
	for i, v := range values {
		if v != 0 {
			start[colIdx[i]+1]++
		}
	}
	for c := 0; c < cols; c++ {
		start[c+1] += start[c]
	}

	cells := make([]cell, start[cols])
	next := append([]uint32(nil), start[:cols]...)
	for i, v := range values {
		if v == 0 {
			continue
		}
		c := colIdx[i]
		cells[next[c]] = cell{row: rowIdx[i], val: v}
		next[c]++
	}

	outValues := make([]uint8, 0, len(cells))
	outRows := make([]uint32, 0, len(cells))
	colPtr := make([]uint32, cols+1)
	for c := 0; c < cols; c++ {
		col := cells[start[c]:start[c+1]]
		slices.SortFunc(col, func(a, b cell) int { return cmp.Compare(a.row, b.row) })

		for i := 0; i < len(col); {
			sum := 0
			j := i
			for ; j < len(col) && col[j].row == col[i].row; j++ {
				sum += int(col[j].val)
			}
			outValues = append(outValues, uint8(min(sum, int(model.MaxConfidence))))
			outRows = append(outRows, col[i].row)
			i = j
		}
		colPtr[c+1] = uint32(len(outValues))
	}

	return newMatrix(rows, names, outValues, NewIndices(outRows), NewIndices(colPtr))
}

// ToDense expands m into a row-major table. Memory grows with rows*cols.
func (m *Matrix) ToDense() [][]model.Confidence {
	cols := len(m.names)
	backing := make([]model.Confidence, m.rows*cols)
	dense := make([][]model.Confidence, m.rows)
	for r := range dense {
		dense[r] = backing[r*cols : (r+1)*cols : (r+1)*cols]
	}
	for c := 0; c < cols; c++ {
		values, rows := m.Column(c)
		for k, v := range values {
			dense[rows.At(k)][c] = model.Confidence(v)
		}
	}
	return dense
}

// SelectRows returns a new matrix holding only the given rows, renumbered
// 0..len(selected)-1 in order. selected must be sorted, unique and in range.
// The result shares no storage with m.
func (m *Matrix) SelectRows(selected []uint32) *Matrix {
	cols := len(m.names)
	colPtr := make([]uint32, cols+1)
	var values []uint8
	var rowIdx []uint32

	for c := 0; c < cols; c++ {
		colValues, colRows := m.Column(c)
		// Both sequences are sorted: merge-walk them.
		i, k := 0, 0
		for i < len(selected) && k < len(colValues) {
			r := colRows.At(k)
			switch {
			case r < selected[i]:
				k++
			case r > selected[i]:
				i++
			default:
				values = append(values, colValues[k])
				rowIdx = append(rowIdx, uint32(i))
				i++
				k++
			}
		}
		colPtr[c+1] = uint32(len(values))
	}

	return newMatrix(len(selected), m.ColumnNames(), values, NewIndices(rowIdx), NewIndices(colPtr))
}
