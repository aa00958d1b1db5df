package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxOf(t *testing.T) {
	assert.Equal(t, uint32(math.MaxUint8), MaxOf[uint8]())
	assert.Equal(t, uint32(math.MaxUint16), MaxOf[uint16]())
	assert.Equal(t, uint32(math.MaxUint32), MaxOf[uint32]())
}

func TestNarrow(t *testing.T) {
	t.Run("fits", func(t *testing.T) {
		got, err := Narrow[uint8](255)
		require.NoError(t, err)
		assert.Equal(t, uint8(255), got)
	})

	t.Run("overflow", func(t *testing.T) {
		_, err := Narrow[uint8](256)
		assert.Error(t, err)

		_, err = Narrow[uint16](70000)
		assert.Error(t, err)
	})
}

func TestNarrowSlice(t *testing.T) {
	got, err := NarrowSlice[uint16]([]uint32{0, 1, 65535})
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 1, 65535}, got)

	got8, err := NarrowSlice[uint8]([]uint32{1, 2, 300})
	assert.ErrorContains(t, err, "position 2")
	assert.Nil(t, got8)
}

func TestIntToUint32(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := IntToUint32(0)
		assert.NoError(t, err)
		assert.Equal(t, uint32(0), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := IntToUint32(-1)
		assert.Error(t, err)
	})

	t.Run("valid max int32", func(t *testing.T) {
		got, err := IntToUint32(math.MaxInt32)
		assert.NoError(t, err)
		assert.Equal(t, uint32(math.MaxInt32), got)
	})

	t.Run("invalid above uint32", func(t *testing.T) {
		if math.MaxInt == math.MaxInt32 {
			t.Skip("int is 32 bits")
		}
		big := int64(math.MaxUint32)
		_, err := IntToUint32(int(big + 1))
		assert.ErrorContains(t, err, "outside [0, 4294967295]")
	})
}

func TestFloatToInt64(t *testing.T) {
	got, err := FloatToInt64(12.9)
	require.NoError(t, err)
	assert.Equal(t, int64(12), got)

	for _, f := range []float64{-1, math.NaN(), math.Inf(1), 1e19} {
		_, err := FloatToInt64(f)
		assert.Error(t, err, "%v", f)
	}
}
