package caching

import (
	"container/list"
	"sync"
	"time"
)

type localEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// LocalCache is an in-process LRU cache with per-entry TTL. It is the system
// of record for cached results; the shared tier only accelerates it.
type LocalCache struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[string]*list.Element
	order      *list.List // front = most recently used
}

// NewLocalCache builds a LocalCache holding at most maxEntries items.
func NewLocalCache(maxEntries int) *LocalCache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &LocalCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

// Get returns the value for key if present and not expired. Expired entries
// are removed on access.
func (c *LocalCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*localEntry)
	if time.Now().After(entry.expiresAt) {
		c.removeElement(elem)
		return nil, false
	}
	c.order.MoveToFront(elem)
	return entry.value, true
}

// Set stores value under key for ttl, evicting the least recently used entry
// when the cache is full.
func (c *LocalCache) Set(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(ttl)
	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*localEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return
	}

	for len(c.entries) >= c.maxEntries {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
	}

	elem := c.order.PushFront(&localEntry{key: key, value: value, expiresAt: expiresAt})
	c.entries[key] = elem
}

// Len reports the number of stored entries, expired ones included until they
// are touched.
func (c *LocalCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LocalCache) removeElement(elem *list.Element) {
	entry := elem.Value.(*localEntry)
	delete(c.entries, entry.key)
	c.order.Remove(elem)
}
