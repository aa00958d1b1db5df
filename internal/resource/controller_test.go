package resource

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.True(t, c.TryAcquireMemory(50))
	assert.Equal(t, int64(50), c.MemoryUsage())

	require.True(t, c.TryAcquireMemory(40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Limit exceeded
	assert.False(t, c.TryAcquireMemory(20))
	assert.Equal(t, int64(90), c.MemoryUsage())

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	require.True(t, c.TryAcquireMemory(20))
	assert.Equal(t, int64(60), c.MemoryUsage())
	assert.Equal(t, int64(100), c.MemoryLimit())
}

func TestController_ExactLimit(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	assert.True(t, c.TryAcquireMemory(100))
	assert.False(t, c.TryAcquireMemory(1))
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 0})

	require.True(t, c.TryAcquireMemory(1000))
	assert.Equal(t, int64(1000), c.MemoryUsage())
	assert.True(t, c.TryAcquireMemory(1<<40))
	c.ReleaseMemory(1 << 40)

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
	assert.Equal(t, int64(0), c.MemoryLimit())
}

func TestController_ReleaseAll(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})
	require.True(t, c.TryAcquireMemory(30))
	require.True(t, c.TryAcquireMemory(70))

	c.ReleaseAll()

	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.True(t, c.TryAcquireMemory(100))
}

func TestController_NilSafe(t *testing.T) {
	var c *Controller

	assert.True(t, c.TryAcquireMemory(10))
	c.ReleaseMemory(10)
	c.ReleaseAll()
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.Equal(t, int64(0), c.MemoryLimit())
}

func TestController_Concurrent(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 1000})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.TryAcquireMemory(10) {
				c.ReleaseMemory(10)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(0), c.MemoryUsage())
}
