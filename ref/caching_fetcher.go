package ref

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/erraggy/oasref/oaserrors"
	"github.com/erraggy/oasref/uri"
)

// MaxCachedDocuments is the default bound on documents held by a CachingFetcher.
const MaxCachedDocuments = 100

type cacheEntry struct {
	doc       any
	fetchTime time.Time
}

// CachingFetcher wraps a Fetcher and keeps decoded documents by absolute URI.
//
// A TTL of zero caches forever and a negative TTL disables caching. Concurrent
// fetches of one URI share a single call to the wrapped Fetcher. Cached
// documents are handed to every caller and must be treated as read-only.
type CachingFetcher struct {
	next         Fetcher
	ttl          time.Duration
	maxDocuments int
	now          func() time.Time

	mu    sync.Mutex
	docs  map[string]cacheEntry
	group singleflight.Group
}

// NewCachingFetcher wraps next. A nil next wraps a zero DefaultFetcher.
// maxDocuments <= 0 means MaxCachedDocuments.
func NewCachingFetcher(next Fetcher, ttl time.Duration, maxDocuments int) *CachingFetcher {
	if next == nil {
		next = &DefaultFetcher{}
	}
	if maxDocuments <= 0 {
		maxDocuments = MaxCachedDocuments
	}
	return &CachingFetcher{
		next:         next,
		ttl:          ttl,
		maxDocuments: maxDocuments,
		now:          time.Now,
		docs:         make(map[string]cacheEntry),
	}
}

var _ Fetcher = (*CachingFetcher)(nil)

// Fetch implements Fetcher.
func (c *CachingFetcher) Fetch(ctx context.Context, u, baseURI string) (any, error) {
	target := u
	if baseURI != "" {
		target = uri.ResolveRelative(baseURI, u)
	}
	target, _, _ = strings.Cut(target, "#")

	if c.ttl < 0 {
		return c.next.Fetch(ctx, target, "")
	}

	key := uri.ChainKey(target, "")
	if doc, ok := c.lookup(key); ok {
		return doc, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if doc, ok := c.lookup(key); ok {
			return doc, nil
		}
		doc, err := c.next.Fetch(ctx, target, "")
		if err != nil {
			return nil, err
		}
		if err := c.store(key, doc); err != nil {
			return nil, err
		}
		return doc, nil
	})
	return v, err
}

func (c *CachingFetcher) lookup(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.docs[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(entry.fetchTime) >= c.ttl {
		delete(c.docs, key)
		return nil, false
	}
	return entry.doc, true
}

func (c *CachingFetcher) store(key string, doc any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[key]; !ok && len(c.docs) >= c.maxDocuments {
		c.evictExpiredLocked()
		if len(c.docs) >= c.maxDocuments {
			return &oaserrors.ResourceLimitError{
				ResourceType: "cached_documents",
				Limit:        int64(c.maxDocuments),
				Actual:       int64(len(c.docs)),
				Message:      "too many external references",
			}
		}
	}
	c.docs[key] = cacheEntry{doc: doc, fetchTime: c.now()}
	return nil
}

func (c *CachingFetcher) evictExpiredLocked() {
	if c.ttl <= 0 {
		return
	}
	now := c.now()
	for k, entry := range c.docs {
		if now.Sub(entry.fetchTime) >= c.ttl {
			delete(c.docs, k)
		}
	}
}

// Len returns the number of cached documents, including expired ones not yet evicted.
func (c *CachingFetcher) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

// Purge drops every cached document.
func (c *CachingFetcher) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.docs)
}
