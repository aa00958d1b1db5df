// Package testutil provides testing utilities for sparsetag.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random confidence tables, random
// query trees, and a brute-force dense evaluator used as ground truth.
//
// # Random Tables
//
//	rng := testutil.NewRNG(seed)
//	dense := rng.DenseTable(100, 8, 0.1)
//	names := testutil.ColumnNames(8)
//
// # Ground Truth
//
//	want := testutil.ExactMatches(q, dense, names)
package testutil
