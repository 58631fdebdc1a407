package index

import (
	"sync"
	"time"
)

// cachedIndex pairs a built index with its insertion time.
type cachedIndex struct {
	index     *Index
	timestamp time.Time
}

// Cache maps video IDs to built indexes with TTL expiry and LRU eviction.
// Entries past their TTL are logically absent and removed lazily on access.
// Put on an existing key overwrites it. Safe for concurrent readers and
// writers; when two requests build the same video concurrently, the later
// Put wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*cachedIndex
	ttl     time.Duration
	maxSize int
	order   []string // LRU order (least recently used first)
}

// NewCache creates a cache holding at most maxSize entries, each valid for
// ttl after insertion.
func NewCache(ttl time.Duration, maxSize int) *Cache {
	return &Cache{
		entries: make(map[string]*cachedIndex),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get returns the cached index for a video, or false when the entry is
// missing or expired. A hit refreshes the entry's recency.
func (c *Cache) Get(videoID string) (*Index, bool) {
	c.mu.RLock()
	cached, ok := c.entries[videoID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if time.Since(cached.timestamp) > c.ttl {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have refreshed
		// the entry since the read above.
		if current, ok := c.entries[videoID]; ok && time.Since(current.timestamp) > c.ttl {
			delete(c.entries, videoID)
			c.removeFromOrder(videoID)
		}
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	if _, present := c.entries[videoID]; present {
		c.removeFromOrder(videoID)
		c.order = append(c.order, videoID)
	}
	c.mu.Unlock()
	return cached.index, true
}

// Put inserts or overwrites the index for a video. An overwrite refreshes
// the TTL and recency without evicting anything else; a fresh insert evicts
// least-recently-used entries until there is room. Never fails.
func (c *Cache) Put(videoID string, idx *Index) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[videoID]; exists {
		c.entries[videoID] = &cachedIndex{index: idx, timestamp: time.Now()}
		c.removeFromOrder(videoID)
		c.order = append(c.order, videoID)
		return
	}

	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[videoID] = &cachedIndex{index: idx, timestamp: time.Now()}
	c.order = append(c.order, videoID)
}

// Len returns the number of physically present entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// removeFromOrder drops a key from the LRU order slice. Caller must hold the
// write lock.
func (c *Cache) removeFromOrder(videoID string) {
	for i, key := range c.order {
		if key == videoID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
