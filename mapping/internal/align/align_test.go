package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUp(t *testing.T) {
	t.Run("already aligned", func(t *testing.T) {
		assert.Equal(t, int64(4096), Up(4096, 4096))
	})

	t.Run("rounds up to next boundary", func(t *testing.T) {
		assert.Equal(t, int64(4096), Up(1, 4096))
		assert.Equal(t, int64(8192), Up(4097, 4096))
	})

	t.Run("zero rounds to zero", func(t *testing.T) {
		assert.Equal(t, int64(0), Up(0, 4096))
	})
}

func TestDown(t *testing.T) {
	t.Run("already aligned", func(t *testing.T) {
		assert.Equal(t, int64(4096), Down(4096, 4096))
	})

	t.Run("rounds down to previous boundary", func(t *testing.T) {
		assert.Equal(t, int64(0), Down(1, 4096))
		assert.Equal(t, int64(4096), Down(8191, 4096))
	})
}

func TestIsAligned(t *testing.T) {
	t.Run("aligned values", func(t *testing.T) {
		assert.True(t, IsAligned(0, 4096))
		assert.True(t, IsAligned(4096, 4096))
		assert.True(t, IsAligned(8192, 4096))
	})

	t.Run("unaligned values", func(t *testing.T) {
		assert.False(t, IsAligned(1, 4096))
		assert.False(t, IsAligned(4095, 4096))
	})
}

func TestIsPowerOfTwo(t *testing.T) {
	t.Run("powers of two", func(t *testing.T) {
		for _, n := range []int64{1, 2, 4, 8, 4096, 65536} {
			assert.True(t, IsPowerOfTwo(n), "expected %d to be a power of two", n)
		}
	})

	t.Run("non powers of two", func(t *testing.T) {
		for _, n := range []int64{0, -1, 3, 6, 100} {
			assert.False(t, IsPowerOfTwo(n), "expected %d not to be a power of two", n)
		}
	})
}
