// Package csc implements the compressed sparse column store behind a tag table.
//
// A Matrix keeps three parallel arrays:
//
//	values   []uint8   one entry per stored cell, always in {1,2,3}
//	rowIdx   Indices   row of each stored cell, parallel to values
//	colPtr   Indices   cols+1 offsets; column c owns [colPtr[c], colPtr[c+1])
//
// Within a column, row indices are strictly increasing. Cells with
// confidence NONE are never stored.
//
// A Matrix is immutable once constructed. Replacing data means building a new
// Matrix and swapping the pointer, which makes a Matrix safe for concurrent
// readers and lets query results keep a consistent snapshot alive.
//
// Row indices and column offsets are stored at a selectable element width
// (8, 16 or 32 bits). New matrices always start at 32 bits; narrowing is the
// job of the indexwidth package.
package csc
