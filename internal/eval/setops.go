package eval

import (
	"slices"
)

// Intersect returns the rows present in both sorted inputs.
func Intersect(a, b []uint32) []uint32 {
	if len(a) == 0 || len(b) == 0 {
		return []uint32{}
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	out := make([]uint32, 0, len(a))
	// Heavily skewed sizes: binary-search the short side into the long one.
	if len(b) > 32*len(a) {
		lo := 0
		for _, v := range a {
			i, found := slices.BinarySearch(b[lo:], v)
			lo += i
			if found {
				out = append(out, v)
			}
			if lo >= len(b) {
				break
			}
		}
		return out
	}

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// Union concatenates the inputs, then sorts and removes duplicates.
func Union(parts ...[]uint32) []uint32 {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]uint32, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Difference returns the rows of universe not present in sub. Both inputs
// must be sorted. The result never aliases universe.
func Difference(universe, sub []uint32) []uint32 {
	out := make([]uint32, 0, len(universe))
	j := 0
	for _, v := range universe {
		for j < len(sub) && sub[j] < v {
			j++
		}
		if j < len(sub) && sub[j] == v {
			continue
		}
		out = append(out, v)
	}
	return out
}
