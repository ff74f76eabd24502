package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/core"
)

func classificationFor(category string) *core.Classification {
	return &core.Classification{
		Category:   category,
		Priority:   3,
		Reasoning:  "Cached classification fixture",
		Confidence: 0.9,
	}
}

func TestMemoryCachePutGet(t *testing.T) {
	c := NewMemoryCache(10, zap.NewNop())

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Put("e1", classificationFor("Work & Projects"))

	got, ok := c.Get("e1")
	require.True(t, ok)
	assert.Equal(t, "Work & Projects", got.Category)
	assert.True(t, c.Has("e1"))
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCacheFIFOEviction(t *testing.T) {
	c := NewMemoryCache(3, zap.NewNop())

	c.Put("e1", classificationFor("A"))
	c.Put("e2", classificationFor("B"))
	c.Put("e3", classificationFor("C"))

	// Read e1 so an LRU policy would keep it; FIFO must still evict it.
	_, ok := c.Get("e1")
	require.True(t, ok)

	c.Put("e4", classificationFor("D"))

	assert.False(t, c.Has("e1"))
	assert.True(t, c.Has("e2"))
	assert.True(t, c.Has("e3"))
	assert.True(t, c.Has("e4"))
	assert.Equal(t, 3, c.Len())
}

func TestMemoryCacheDuplicatePutKeepsPosition(t *testing.T) {
	c := NewMemoryCache(2, zap.NewNop())

	c.Put("e1", classificationFor("A"))
	c.Put("e2", classificationFor("B"))

	// Re-putting e1 updates the value without refreshing its position, so it
	// is still the first to go.
	c.Put("e1", classificationFor("A2"))

	got, ok := c.Get("e1")
	require.True(t, ok)
	assert.Equal(t, "A2", got.Category)

	c.Put("e3", classificationFor("C"))

	assert.False(t, c.Has("e1"))
	assert.True(t, c.Has("e2"))
	assert.True(t, c.Has("e3"))
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemoryCache(10, zap.NewNop())

	c.Put("e1", classificationFor("A"))
	c.Put("e2", classificationFor("B"))
	require.Equal(t, 2, c.Len())

	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Has("e1"))

	// Usable after clearing.
	c.Put("e3", classificationFor("C"))
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCacheDefaultCapacity(t *testing.T) {
	c := NewMemoryCache(0, zap.NewNop())
	assert.Equal(t, DefaultCapacity, c.capacity)

	c = NewMemoryCache(-5, zap.NewNop())
	assert.Equal(t, DefaultCapacity, c.capacity)
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	c := NewMemoryCache(100, zap.NewNop())

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				id := fmt.Sprintf("e%d", i)
				c.Put(id, classificationFor(fmt.Sprintf("cat-%d-%d", g, i)))
				c.Get(id)
				c.Has(id)
				c.Len()
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
	for i := 0; i < 50; i++ {
		assert.True(t, c.Has(fmt.Sprintf("e%d", i)))
	}
}
