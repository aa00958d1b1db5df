// Package sparsetag stores per-row, per-column confidence levels in a
// compressed sparse column layout and answers boolean queries over them.
//
// Every cell holds one of four ordered levels: NONE, LOW, MEDIUM, HIGH.
// NONE is the implicit default and is never stored, so memory scales with
// the number of tagged cells rather than with rows×columns.
//
// # Quick Start
//
//	names := []string{"Tag1", "Tag2"}
//	tbl, _ := sparsetag.FromDense([][]model.Confidence{
//	    {model.Low, model.None},
//	    {model.Medium, model.High},
//	    {model.High, model.None},
//	}, names)
//
//	res, _ := tbl.Query(ctx, query.Ge("Tag1", model.Medium))
//	res.Rows() // [1 2]
//
// # Queries
//
// Conditions compare one column against a level (==, !=, >, >=, <, <=) or
// test membership in a set of levels (IN). Only stored cells can match, so
// a comparison never selects a NONE cell, and comparing against NONE is an
// error. Conditions combine with AND, OR and NOT:
//
//	q := query.AllOf(
//	    query.Ge("Tag1", model.Medium),
//	    query.Negate(query.In("Tag2", model.High)),
//	)
//
// NOT is taken relative to the rows that store at least one value in any
// column. Rows that are NONE everywhere never match a NOT.
//
// Queries can also be given as JSON dictionaries:
//
//	res, _ := tbl.QueryJSON(ctx, []byte(`{
//	    "operator": "OR",
//	    "conditions": [
//	        {"column": "Tag1", "op": "==", "value": "HIGH"},
//	        {"column": "Tag2", "op": "IN", "values": [2, 3]}
//	    ]
//	}`))
//
// # Caching
//
// Results are cached per table, keyed by a 128-bit digest of the query.
// The cache is bounded by entry count, per-entry size and total memory and
// does not evict; it is cleared whenever the data is replaced.
//
// # Mutation
//
// Tables are replaced whole with ReplaceData, or re-encoded with narrower
// index arrays by OptimizeIndexWidth. Both bump Version. Results obtained
// earlier keep referring to the data they were computed on.
//
// # Errors
//
// All errors can be classified with errors.Is against the sentinels of this
// package, or with KindOf.
package sparsetag
