package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntersect(t *testing.T) {
	assert.Equal(t, []uint32{2, 5}, Intersect([]uint32{1, 2, 5, 9}, []uint32{2, 3, 5}))
	assert.Empty(t, Intersect(nil, []uint32{1}))
	assert.Empty(t, Intersect([]uint32{1, 3}, []uint32{2, 4}))
}

func TestIntersect_Skewed(t *testing.T) {
	long := make([]uint32, 1000)
	for i := range long {
		long[i] = uint32(i * 2)
	}
	assert.Equal(t, []uint32{0, 998, 1998}, Intersect([]uint32{0, 3, 998, 1998, 5000}, long))
}

func TestUnion(t *testing.T) {
	assert.Equal(t, []uint32{1, 2, 3, 7}, Union([]uint32{3, 7}, []uint32{1, 3}, []uint32{2}))
	assert.Empty(t, Union())
}

func TestDifference(t *testing.T) {
	u := []uint32{0, 1, 2, 3, 4}
	got := Difference(u, []uint32{1, 3, 9})
	assert.Equal(t, []uint32{0, 2, 4}, got)

	got = Difference(u, nil)
	assert.Equal(t, u, got)
	got[0] = 42
	assert.Equal(t, uint32(0), u[0])
}
