// Package store provides a bounded cache of chat-transport file IDs using a
// Bloom filter and LRU cache.
package store

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

// FileIDCache remembers the transport file ID of an already uploaded asset,
// keyed by media kind and source URL, so repeat selections of the same track
// skip the download entirely. In-memory only; it dies with the process.
type FileIDCache struct {
	mutex sync.RWMutex
	bloom *bloom.BloomFilter
	lru   *lru.Cache[string, string]
}

// NewFileIDCache creates a cache bounded to capacity entries with the given
// Bloom false positive rate.
func NewFileIDCache(capacity int, falsePositiveRate float64) *FileIDCache {
	if capacity <= 0 {
		capacity = 1
	}
	cache, _ := lru.New[string, string](capacity)

	return &FileIDCache{
		bloom: bloom.NewWithEstimates(uint(capacity), falsePositiveRate),
		lru:   cache,
	}
}

// Get returns the cached file ID for a key. The Bloom filter short-circuits
// the common miss; the LRU is authoritative.
func (c *FileIDCache) Get(key string) (string, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if !c.bloom.TestString(key) {
		return "", false
	}
	return c.lru.Get(key)
}

// Add records a file ID for a key, evicting the oldest entry at capacity.
// Note: evicted keys stay in the Bloom filter as it doesn't support removal;
// the resulting false positives fall through to the LRU miss path.
func (c *FileIDCache) Add(key, fileID string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.bloom.AddString(key)
	c.lru.Add(key, fileID)
}

// Len returns the number of cached file IDs.
func (c *FileIDCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.lru.Len()
}
