// Package query defines the boolean query language evaluated against tag tables.
//
// A Query is either a Condition on a single column or a Logical combination
// of sub-queries:
//
//	q := query.And(
//	    query.Ge("violence", model.Medium),
//	    query.Not(query.Eq("satire", model.High)),
//	)
//
// Queries can also be decoded from their dictionary form:
//
//	{"column": "violence", "op": ">=", "value": "MEDIUM"}
//	{"column": "spam", "op": "IN", "values": [1, 3]}
//	{"operator": "OR", "conditions": [ ... ]}
//
// # Semantics
//
// Conditions only ever inspect stored (non-NONE) cells. Comparisons are
// rewritten into the set of stored levels they accept, so ">= MEDIUM" is
// "IN {MEDIUM, HIGH}" and "!= LOW" is "IN {MEDIUM, HIGH}". Comparing against
// NONE, or listing NONE in an IN set, is rejected: answering it would require
// enumerating every unlabeled cell.
//
// NOT is evaluated relative to the rows that carry at least one label in any
// column. Rows with no labels at all never appear in a negation.
package query
