// Package eval evaluates query trees directly against a compressed matrix.
//
// Only stored cells are inspected. Every intermediate result is a sorted,
// duplicate-free slice of row indices, and logical operators are plain
// sorted-set algebra over those slices.
package eval
