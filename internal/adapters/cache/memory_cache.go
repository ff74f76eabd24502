package cache

import (
	"container/list"
	"sync"

	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/core"
)

// DefaultCapacity is used when no capacity is configured.
const DefaultCapacity = 1000

type memoryEntry struct {
	id             string
	classification *core.Classification
}

// MemoryCache is an in-memory implementation of the ClassificationCache
// interface with strict FIFO eviction: when full, the oldest-inserted entry
// goes first, regardless of access recency. A Put for an id already present
// overwrites the value but keeps the entry's original eviction position.
type MemoryCache struct {
	capacity int
	entries  map[string]*list.Element
	order    *list.List
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewMemoryCache creates a new in-memory cache with the given capacity.
func NewMemoryCache(capacity int, logger *zap.Logger) *MemoryCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
		logger:   logger,
	}
}

// Get retrieves a cached classification for an email id.
func (c *MemoryCache) Get(id string) (*core.Classification, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	elem, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	return elem.Value.(*memoryEntry).classification, true
}

// Put stores a classification. Concurrent puts of the same id are
// last-write-wins under the lock.
func (c *MemoryCache) Put(id string, classification *core.Classification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[id]; ok {
		elem.Value.(*memoryEntry).classification = classification
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Front()
		if oldest != nil {
			entry := oldest.Value.(*memoryEntry)
			c.order.Remove(oldest)
			delete(c.entries, entry.id)
			if c.logger != nil {
				c.logger.Debug("Evicted oldest cache entry", zap.String("email_id", entry.id))
			}
		}
	}

	c.entries[id] = c.order.PushBack(&memoryEntry{id: id, classification: classification})
}

// Has reports whether an id is cached.
func (c *MemoryCache) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.entries[id]
	return ok
}

// Clear drops every entry.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.order.Len()
}
