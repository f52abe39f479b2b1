package text

import (
	"container/list"
	"sync"
)

// SimilarityCache memoizes Similarity calls behind a bounded LRU. The same
// (a,b) pairs recur heavily during bulk search and automatch, so one cache
// is owned by each index instance and dies with it. Never process-global.
//
// Safe for concurrent use.
type SimilarityCache struct {
	mu      sync.RWMutex
	maxSize int
	items   map[string]*list.Element
	lru     *list.List
}

// simEntry holds one memoized pair score.
type simEntry struct {
	key   string
	score float64
}

// DefaultCacheSize bounds a similarity cache when the caller passes no
// explicit size. Sized for a few thousand hot pairs per bulk pass.
const DefaultCacheSize = 4096

// NewSimilarityCache creates an LRU memo cache with the given maximum
// entry count. Non-positive sizes fall back to DefaultCacheSize.
func NewSimilarityCache(maxSize int) *SimilarityCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &SimilarityCache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Similarity returns the memoized score for (a,b), computing and storing
// it on first use. The key is both raw strings verbatim, so distinct
// normalization inputs can never alias.
func (c *SimilarityCache) Similarity(a, b string) float64 {
	key := a + "\x00" + b

	// Fast path: read lock for misses, which happen once per pair.
	c.mu.RLock()
	_, ok := c.items[key]
	c.mu.RUnlock()

	if ok {
		c.mu.Lock()
		// Re-check: the entry may have been evicted between locks.
		if elem, ok := c.items[key]; ok {
			c.lru.MoveToFront(elem)
			score := elem.Value.(*simEntry).score
			c.mu.Unlock()
			return score
		}
		c.mu.Unlock()
	}

	score := Similarity(a, b)

	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		// Another goroutine computed the same pair first.
		c.lru.MoveToFront(elem)
		return elem.Value.(*simEntry).score
	}
	if c.lru.Len() >= c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			delete(c.items, oldest.Value.(*simEntry).key)
		}
	}
	c.items[key] = c.lru.PushFront(&simEntry{key: key, score: score})
	return score
}

// Len returns the number of memoized pairs.
func (c *SimilarityCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.Len()
}

// Clear drops all memoized pairs.
func (c *SimilarityCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.lru.Init()
}
