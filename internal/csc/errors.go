package csc

import "errors"

var (
	// ErrValidation is returned for malformed construction input: shape
	// mismatches, out-of-range stored values, inconsistent offsets or
	// invalid dimensions.
	ErrValidation = errors.New("validation error")

	// ErrSize is returned when a requested construction would exceed safe
	// integer limits.
	ErrSize = errors.New("size error")
)
