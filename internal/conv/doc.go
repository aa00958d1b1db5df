// Package conv provides checked integer conversions.
//
// Every narrowing helper verifies the value is representable in the target
// type and returns an error instead of wrapping. Callers that can prove a
// conversion is safe by construction (loop indices, bounded counters) use a
// plain cast.
package conv
