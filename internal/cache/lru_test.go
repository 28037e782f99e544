package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_GetSet(t *testing.T) {
	c := NewLRU(4)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", []float32{1, 2, 3})
	vec, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3}, vec)
}

func TestLRU_EvictsBeyondCapacity(t *testing.T) {
	c := NewLRU(8)

	for i := 0; i < 100; i++ {
		c.Set(fmt.Sprintf("key-%d", i), []float32{float32(i)})
	}

	assert.Equal(t, 8, c.Len(), "cache must stay bounded")

	// Most recent entry survives.
	_, ok := c.Get("key-99")
	assert.True(t, ok)
	// Oldest entry is gone.
	_, ok = c.Get("key-0")
	assert.False(t, ok)
}

func TestLRU_Clear(t *testing.T) {
	c := NewLRU(4)
	c.Set("k", []float32{1})

	c.Clear()

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRU_DefaultCapacity(t *testing.T) {
	c := NewLRU(0)
	c.Set("k", []float32{1})
	_, ok := c.Get("k")
	assert.True(t, ok)
}
