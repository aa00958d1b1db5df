package indexwidth

import (
	"fmt"

	"github.com/hupe1980/sparsetag/internal/csc"
)

const (
	// Width8Threshold is the exclusive row-count bound for 8-bit indices.
	Width8Threshold = 256
	// Width16Threshold is the exclusive row-count bound for 16-bit indices.
	Width16Threshold = 65536
)

// Outcome describes what Optimize did.
type Outcome uint8

const (
	// Applied means the indices were re-encoded at a narrower width.
	Applied Outcome = iota
	// AlreadyOptimal means the arrays already use the candidate width.
	AlreadyOptimal
	// SkippedRowIndex means a stored row index exceeds the candidate width.
	SkippedRowIndex
	// SkippedOffset means a column offset exceeds the candidate width.
	SkippedOffset
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case AlreadyOptimal:
		return "already_optimal"
	case SkippedRowIndex:
		return "skipped_row_index"
	case SkippedOffset:
		return "skipped_offset"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// Result reports the decision taken for one matrix.
type Result struct {
	Outcome Outcome
	From    csc.Width
	To      csc.Width
	// MaxRowIndex and MaxOffset are the observed maxima that were validated.
	MaxRowIndex uint32
	MaxOffset   uint32
	// SavedBytes is the reduction in index storage when Applied.
	SavedBytes int
}

// Changed reports whether a new encoding was produced.
func (r Result) Changed() bool { return r.Outcome == Applied }

// CandidateWidth returns the narrowest width the declared row count allows.
func CandidateWidth(rows int) csc.Width {
	switch {
	case rows < Width8Threshold:
		return csc.Width8
	case rows < Width16Threshold:
		return csc.Width16
	default:
		return csc.Width32
	}
}

// Optimize returns m re-encoded at the candidate width, or m itself when the
// width is already optimal or the observed data does not fit. m is never
// modified.
func Optimize(m *csc.Matrix) (*csc.Matrix, Result) {
	rowIdx, colPtr := m.RowIndices(), m.ColOffsets()
	target := CandidateWidth(m.Rows())

	res := Result{
		From:        rowIdx.Width(),
		To:          target,
		MaxRowIndex: rowIdx.Max(),
		MaxOffset:   colPtr.Max(),
	}

	if res.MaxRowIndex > target.Max() {
		res.Outcome = SkippedRowIndex
		return m, res
	}
	if res.MaxOffset > target.Max() {
		res.Outcome = SkippedOffset
		return m, res
	}
	if rowIdx.Width() == target && colPtr.Width() == target {
		res.Outcome = AlreadyOptimal
		return m, res
	}

	newRowIdx, err := csc.Convert(rowIdx, target)
	if err != nil {
		res.Outcome = SkippedRowIndex
		return m, res
	}
	newColPtr, err := csc.Convert(colPtr, target)
	if err != nil {
		res.Outcome = SkippedOffset
		return m, res
	}

	res.Outcome = Applied
	res.SavedBytes = rowIdx.SizeBytes() + colPtr.SizeBytes() - newRowIdx.SizeBytes() - newColPtr.SizeBytes()
	return m.WithIndices(newRowIdx, newColPtr), res
}
