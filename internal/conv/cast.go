package conv

import (
	"fmt"
	"math"
)

// Unsigned is the set of index element types used for compressed storage.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32
}

// MaxOf returns the largest value representable by T.
func MaxOf[T Unsigned]() uint32 {
	var zero T
	return uint32(^zero)
}

// Narrow converts v to T, failing if v does not fit.
func Narrow[T Unsigned](v uint32) (T, error) {
	if v > MaxOf[T]() {
		var zero T
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to %T (max %d)", v, zero, MaxOf[T]())
	}
	return T(v), nil
}

// NarrowSlice converts every element of src to T. It fails on the first
// element that does not fit and returns no partial result.
func NarrowSlice[T Unsigned](src []uint32) ([]T, error) {
	dst := make([]T, len(src))
	limit := MaxOf[T]()
	for i, v := range src {
		if v > limit {
			var zero T
			return nil, fmt.Errorf("integer overflow at position %d: %d cannot be converted to %T (max %d)", i, v, zero, limit)
		}
		dst[i] = T(v)
	}
	return dst, nil
}

// IntToUint32 converts a count or index held in an int to uint32.
func IntToUint32(v int) (uint32, error) {
	if v < 0 || uint64(v) > uint64(MaxOf[uint32]()) {
		return 0, fmt.Errorf("integer overflow: %d is outside [0, %d]", v, MaxOf[uint32]())
	}
	return uint32(v), nil
}

// FloatToInt64 converts a finite, non-negative float64 to int64, rejecting
// NaN, negative values and values at or beyond 2^63.
func FloatToInt64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("integer overflow: %v is not finite", f)
	}
	if f < 0 {
		return 0, fmt.Errorf("integer overflow: %v cannot be converted to int64 (negative)", f)
	}
	if f >= math.MaxInt64 {
		return 0, fmt.Errorf("integer overflow: %v cannot be converted to int64 (too large)", f)
	}
	return int64(f), nil
}
