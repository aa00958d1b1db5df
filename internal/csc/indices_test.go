package csc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	src := NewIndices([]uint32{0, 17, 255})

	narrow, err := Convert(src, Width8)
	require.NoError(t, err)
	assert.Equal(t, Width8, narrow.Width())
	assert.Equal(t, 3, narrow.SizeBytes())
	assert.Equal(t, uint32(255), narrow.Max())
	assert.Equal(t, []uint32{0, 17, 255}, Widen(narrow))

	_, err = Convert(NewIndices([]uint32{256}), Width8)
	assert.Error(t, err)

	mid, err := Convert(NewIndices([]uint32{256, 65535}), Width16)
	require.NoError(t, err)
	assert.Equal(t, Width16, mid.Width())
	assert.Equal(t, uint32(65535), mid.At(1))
}

func TestIndices_Slice(t *testing.T) {
	src := NewIndices([]uint32{4, 5, 6, 7})
	s := src.Slice(1, 3)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []uint32{5, 6}, Widen(s))
	assert.Equal(t, uint32(0), NewIndices(nil).Max())
}

func TestWidth(t *testing.T) {
	assert.Equal(t, uint32(255), Width8.Max())
	assert.Equal(t, uint32(65535), Width16.Max())
	assert.Equal(t, "uint16", Width16.String())
	assert.Equal(t, 4, Width32.Bytes())
}
