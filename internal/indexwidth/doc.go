// Package indexwidth shrinks the element width of a matrix's row-index and
// column-offset arrays.
//
// The candidate width is chosen from the declared row count:
//
//	rows < 256     uint8
//	rows < 65,536  uint16
//	otherwise      uint32
//
// The candidate is only applied after checking that the largest stored row
// index and the largest column offset both fit it. Offsets grow with the
// number of stored cells, not the row count, so a small table with many
// columns can still need wide offsets. When either check fails the matrix
// is left untouched.
package indexwidth
