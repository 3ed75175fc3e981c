package query

import (
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jrsteele09/go-admin-console/internal/metrics"
)

type entry struct {
	value      any
	fetchedAt  time.Time
	generation uint64
}

// Cache holds fetched pages and lookups for every resource. Entries are keyed
// resource|kind|key and are served only while younger than the caller's stale time and
// from the resource's current generation.
type Cache struct {
	lru     *expirable.LRU[string, entry]
	metrics *metrics.Client
	now     func() time.Time

	mu          sync.Mutex
	generations map[string]uint64
	epoch       uint64
}

type CacheOption func(*Cache)

func WithCacheMetrics(m *metrics.Client) CacheOption {
	return func(c *Cache) {
		c.metrics = m
	}
}

// WithClock is for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache bounds the cache to size entries; nothing outlives maxAge.
func NewCache(size int, maxAge time.Duration, opts ...CacheOption) *Cache {
	if size <= 0 {
		size = 256
	}
	c := &Cache{
		lru:         expirable.NewLRU[string, entry](size, nil, maxAge),
		now:         time.Now,
		generations: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func cacheKey(resource, key string) string {
	return resource + "|" + key
}

// Get returns a value fetched less than staleTime ago.
func (c *Cache) Get(resource, key string, staleTime time.Duration) (any, bool) {
	e, ok := c.lru.Get(cacheKey(resource, key))
	if !ok || e.generation != c.Generation(resource) || c.now().Sub(e.fetchedAt) >= staleTime {
		c.metrics.ObserveCacheMiss(resource)
		return nil, false
	}
	c.metrics.ObserveCacheHit(resource)
	return e.value, true
}

// Put stores value if the resource has not been invalidated since generation was read.
func (c *Cache) Put(resource, key string, value any, generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[resource]+c.epoch != generation {
		return false
	}
	c.lru.Add(cacheKey(resource, key), entry{value: value, fetchedAt: c.now(), generation: generation})
	return true
}

// Generation changes whenever resource is invalidated or the cache is cleared.
func (c *Cache) Generation(resource string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[resource] + c.epoch
}

// InvalidateResource drops every entry of resource.
func (c *Cache) InvalidateResource(resource string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[resource]++
	prefix := resource + "|"
	for _, k := range c.lru.Keys() {
		if strings.HasPrefix(k, prefix) {
			c.lru.Remove(k)
		}
	}
}

// Clear drops everything, used when the session ends.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.lru.Purge()
}

func (c *Cache) Len() int {
	return c.lru.Len()
}
