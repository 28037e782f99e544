// Package cache provides the bounded in-process embedding cache.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity is the default number of cached vectors.
// At 1536 dims * 4 bytes * 4096 entries that is about 25MB.
const DefaultCapacity = 4096

// LRU is a fixed-capacity, process-wide vector cache. Concurrent use is safe;
// racing writers for the same key produce the same vector, so last-writer-wins.
type LRU struct {
	entries *lru.Cache[string, []float32]
}

// NewLRU creates a vector cache with the given capacity (DefaultCapacity if <= 0).
func NewLRU(capacity int) *LRU {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	entries, _ := lru.New[string, []float32](capacity)
	return &LRU{entries: entries}
}

// Get returns the cached vector for key, if present.
func (c *LRU) Get(key string) ([]float32, bool) {
	return c.entries.Get(key)
}

// Set stores a vector under key, evicting the least recently used entry when full.
func (c *LRU) Set(key string, vec []float32) {
	c.entries.Add(key, vec)
}

// Clear drops all cached vectors.
func (c *LRU) Clear() {
	c.entries.Purge()
}

// Len returns the number of cached vectors.
func (c *LRU) Len() int {
	return c.entries.Len()
}
