package csc

import (
	"fmt"

	"github.com/hupe1980/sparsetag/internal/conv"
)

// Width is the element width of an index array, in bytes.
type Width uint8

const (
	// Width8 stores indices as uint8.
	Width8 Width = 1
	// Width16 stores indices as uint16.
	Width16 Width = 2
	// Width32 stores indices as uint32.
	Width32 Width = 4
)

// Bytes returns the element size in bytes.
func (w Width) Bytes() int { return int(w) }

// Max returns the largest index representable at this width.
func (w Width) Max() uint32 {
	switch w {
	case Width8:
		return conv.MaxOf[uint8]()
	case Width16:
		return conv.MaxOf[uint16]()
	default:
		return conv.MaxOf[uint32]()
	}
}

func (w Width) String() string {
	switch w {
	case Width8:
		return "uint8"
	case Width16:
		return "uint16"
	case Width32:
		return "uint32"
	default:
		return fmt.Sprintf("Width(%d)", uint8(w))
	}
}

// Indices is a read-only integer array stored at a fixed element width.
type Indices interface {
	// Len returns the number of elements.
	Len() int
	// At returns element i widened to uint32.
	At(i int) uint32
	// Width returns the element width.
	Width() Width
	// SizeBytes returns the storage footprint of the elements.
	SizeBytes() int
	// Max returns the largest element, or 0 if empty.
	Max() uint32
	// Slice returns the sub-array [lo, hi) without copying.
	Slice(lo, hi int) Indices
	// AppendTo appends all elements, widened, to dst.
	AppendTo(dst []uint32) []uint32
}

type indexArray[T conv.Unsigned] []T

func (a indexArray[T]) Len() int        { return len(a) }
func (a indexArray[T]) At(i int) uint32 { return uint32(a[i]) }
func (a indexArray[T]) SizeBytes() int  { return len(a) * a.Width().Bytes() }

func (a indexArray[T]) Width() Width {
	switch conv.MaxOf[T]() {
	case conv.MaxOf[uint8]():
		return Width8
	case conv.MaxOf[uint16]():
		return Width16
	default:
		return Width32
	}
}

func (a indexArray[T]) Max() uint32 {
	var m T
	for _, v := range a {
		if v > m {
			m = v
		}
	}
	return uint32(m)
}

func (a indexArray[T]) Slice(lo, hi int) Indices { return a[lo:hi:hi] }

func (a indexArray[T]) AppendTo(dst []uint32) []uint32 {
	for _, v := range a {
		dst = append(dst, uint32(v))
	}
	return dst
}

// NewIndices wraps vals as a 32-bit index array. vals is not copied.
func NewIndices(vals []uint32) Indices {
	return indexArray[uint32](vals)
}

// Convert re-encodes src at width w. It fails, without returning a partial
// result, if any element does not fit.
func Convert(src Indices, w Width) (Indices, error) {
	wide := src.AppendTo(make([]uint32, 0, src.Len()))
	switch w {
	case Width8:
		out, err := conv.NarrowSlice[uint8](wide)
		if err != nil {
			return nil, err
		}
		return indexArray[uint8](out), nil
	case Width16:
		out, err := conv.NarrowSlice[uint16](wide)
		if err != nil {
			return nil, err
		}
		return indexArray[uint16](out), nil
	case Width32:
		return indexArray[uint32](wide), nil
	default:
		return nil, fmt.Errorf("unsupported index width %d", uint8(w))
	}
}

// Widen returns a fresh 32-bit copy of src.
func Widen(src Indices) []uint32 {
	return src.AppendTo(make([]uint32, 0, src.Len()))
}
