package cache

import (
	"sync"
	"time"
)

// ============================================================================
// CACHE SERVICE - IN-MEMORY CACHING WITH TTL
// ============================================================================
// Thread-safe key-value cache with automatic expiration. Used to keep the
// frequently listed content (circulars, resolutions, programs, hotlines)
// off the database between edits.
//
// Usage:
//   c := cache.NewCache(5*time.Minute, 10*time.Minute)
//   c.Set("content:circulars", items)
//   if data, found := c.Get("content:circulars"); found {
//       return data
//   }

// Item is a cached value with its expiration timestamp.
type Item struct {
	Value      interface{}
	Expiration int64 // unix nanoseconds, 0 = never expires
}

// Cache is a thread-safe key-value store with TTL.
type Cache struct {
	items             map[string]Item
	mu                sync.RWMutex
	defaultExpiration time.Duration
	cleanupInterval   time.Duration
	stopCleanup       chan bool
}

// NewCache creates a cache with a default TTL and a periodic cleanup of
// expired items every cleanupInterval.
func NewCache(defaultExpiration, cleanupInterval time.Duration) *Cache {
	c := &Cache{
		items:             make(map[string]Item),
		defaultExpiration: defaultExpiration,
		cleanupInterval:   cleanupInterval,
		stopCleanup:       make(chan bool),
	}
	go c.startCleanupTimer()
	return c
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.defaultExpiration)
}

// SetWithTTL stores a value with a specific TTL.
func (c *Cache) SetWithTTL(key string, value interface{}, duration time.Duration) {
	var expiration int64
	if duration > 0 {
		expiration = time.Now().Add(duration).UnixNano()
	}

	c.mu.Lock()
	c.items[key] = Item{Value: value, Expiration: expiration}
	c.mu.Unlock()
}

// Get retrieves a value. Returns (nil, false) when the key is missing or
// expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	item, found := c.items[key]
	c.mu.RUnlock()

	if !found {
		return nil, false
	}
	if item.Expiration > 0 && time.Now().UnixNano() > item.Expiration {
		c.Delete(key)
		return nil, false
	}
	return item.Value, true
}

// Delete removes a key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// DeletePrefix removes every key starting with prefix and returns how many
// were removed. Used to invalidate a content family after a write
// (e.g. "content:" after a new circular is posted).
func (c *Cache) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key := range c.items {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.items, key)
			count++
		}
	}
	return count
}

// Clear removes everything.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]Item)
	c.mu.Unlock()
}

// Count returns the number of items, expired included.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats summarizes the cache contents.
type Stats struct {
	TotalItems   int
	ExpiredItems int
	ValidItems   int
}

// GetStats returns current cache statistics.
func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{TotalItems: len(c.items)}
	now := time.Now().UnixNano()
	for _, item := range c.items {
		if item.Expiration > 0 && now > item.Expiration {
			stats.ExpiredItems++
		} else {
			stats.ValidItems++
		}
	}
	return stats
}

func (c *Cache) startCleanupTimer() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *Cache) deleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for key, item := range c.items {
		if item.Expiration > 0 && now > item.Expiration {
			delete(c.items, key)
		}
	}
}

// Stop halts the cleanup goroutine.
func (c *Cache) Stop() {
	c.stopCleanup <- true
}
