// Package cache provides a bounded cache of query results.
//
// Entries are keyed by a 128-bit xxh3 digest of the query. Single
// conditions take a fast, length-prefixed encoding; anything else is
// encoded as canonical JSON, with a structural repr as fallback when JSON
// encoding fails. Each encoding carries its own prefix so keys from
// different paths never collide.
//
// Admission is gated by entry count, per-entry size, and a memory budget
// tracked by a resource.Controller. There is no eviction: once full, new
// results are simply not cached until Clear is called.
package cache
