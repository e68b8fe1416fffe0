package ref

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/erraggy/oasref/oaserrors"
)

// Cache stores resolutions by canonical key (see uri.ChainKey).
type Cache interface {
	Get(key string) (*Resolution, bool)
	Put(key string, res *Resolution)
	Forget(key string)
	Clear()
}

// MemoryCache is an unbounded map-backed Cache. It is not safe for concurrent
// use; create one per parse or guard it externally.
type MemoryCache struct {
	store map[string]*Resolution
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{store: make(map[string]*Resolution)}
}

// Get implements Cache.
func (c *MemoryCache) Get(key string) (*Resolution, bool) {
	res, ok := c.store[key]
	return res, ok
}

// Put implements Cache.
func (c *MemoryCache) Put(key string, res *Resolution) {
	if c.store == nil {
		c.store = make(map[string]*Resolution)
	}
	c.store[key] = res
}

// Forget implements Cache.
func (c *MemoryCache) Forget(key string) {
	delete(c.store, key)
}

// Clear implements Cache.
func (c *MemoryCache) Clear() {
	clear(c.store)
}

// Len returns the number of cached resolutions.
func (c *MemoryCache) Len() int {
	return len(c.store)
}

var _ Cache = (*MemoryCache)(nil)

// DefaultLRUSize is the capacity used by NewLRUCache for a non-positive size.
const DefaultLRUSize = 1024

// LRUCache is a bounded Cache safe for concurrent use, evicting the least
// recently used resolution when full. Use it to share resolutions across parses.
type LRUCache struct {
	lru *lru.Cache[string, *Resolution]
}

// NewLRUCache returns an LRUCache holding at most size resolutions.
func NewLRUCache(size int) (*LRUCache, error) {
	if size <= 0 {
		size = DefaultLRUSize
	}
	c, err := lru.New[string, *Resolution](size)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "size", Value: size, Cause: err}
	}
	return &LRUCache{lru: c}, nil
}

// Get implements Cache.
func (c *LRUCache) Get(key string) (*Resolution, bool) {
	return c.lru.Get(key)
}

// Put implements Cache.
func (c *LRUCache) Put(key string, res *Resolution) {
	c.lru.Add(key, res)
}

// Forget implements Cache.
func (c *LRUCache) Forget(key string) {
	c.lru.Remove(key)
}

// Clear implements Cache.
func (c *LRUCache) Clear() {
	c.lru.Purge()
}

// Len returns the number of cached resolutions.
func (c *LRUCache) Len() int {
	return c.lru.Len()
}

var _ Cache = (*LRUCache)(nil)
