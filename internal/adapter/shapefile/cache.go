package shapefile

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/couchcryptid/ice-climatology-map/internal/domain"
	"github.com/couchcryptid/ice-climatology-map/internal/observability"
	"golang.org/x/sync/singleflight"
)

// Source loads a feature collection from a shapefile path.
type Source interface {
	Load(ctx context.Context, path string) (domain.FeatureCollection, error)
}

// CachedSource wraps a Source with an in-memory LRU of decoded collections.
// Entries are keyed by path and modification time, so a replaced file is
// decoded again. Cached collections are shared between callers and must not
// be mutated; domain.Preprocess copies before it writes.
type CachedSource struct {
	inner   Source
	cache   *lruCache
	group   singleflight.Group
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around a shapefile source.
func NewCachedSource(inner Source, maxEntries int, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedSource) Load(ctx context.Context, path string) (domain.FeatureCollection, error) {
	info, err := os.Stat(path)
	if err != nil {
		return c.inner.Load(ctx, path)
	}
	key := fmt.Sprintf("%s@%d", path, info.ModTime().UnixNano())

	if fc, ok := c.cache.get(key); ok {
		c.metrics.ShapefileCache.WithLabelValues("hit").Inc()
		return fc, nil
	}
	c.metrics.ShapefileCache.WithLabelValues("miss").Inc()

	v, err, _ := c.group.Do(key, func() (any, error) {
		fc, err := c.inner.Load(ctx, path)
		if err != nil {
			return domain.FeatureCollection{}, err
		}
		c.cache.put(key, fc)
		return fc, nil
	})
	if err != nil {
		return domain.FeatureCollection{}, err
	}
	return v.(domain.FeatureCollection), nil
}

// Len returns the number of cached collections.
func (c *CachedSource) Len() int {
	return c.cache.len()
}

// lruCache is a simple thread-safe LRU cache of decoded collections.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.FeatureCollection
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.FeatureCollection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.FeatureCollection{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.FeatureCollection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
