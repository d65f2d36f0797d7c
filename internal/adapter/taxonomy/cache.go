package taxonomy

import (
	"context"
	"sync"

	"github.com/querent-labs/horary-display/internal/domain"
	"github.com/querent-labs/horary-display/internal/observability"
)

// CachedResolver wraps a ContractResolver with an in-memory LRU cache.
// Contracts change rarely, so entries are kept until evicted by capacity.
type CachedResolver struct {
	inner   domain.ContractResolver
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedResolver creates a cache decorator around a resolver. metrics may
// be nil.
func NewCachedResolver(inner domain.ContractResolver, maxEntries int, metrics *observability.Metrics) *CachedResolver {
	return &CachedResolver{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedResolver) Source() string { return c.inner.Source() }

func (c *CachedResolver) Resolve(ctx context.Context, category string) (domain.Contract, error) {
	if contract, ok := c.cache.get(category); ok {
		c.observe("hit")
		return contract, nil
	}
	c.observe("miss")

	contract, err := c.inner.Resolve(ctx, category)
	if err != nil {
		return contract, err
	}
	// Only cache populated contracts so transient empty responses can be retried.
	if len(contract.Houses) > 0 || contract.Examiner != "" {
		c.cache.put(category, contract)
	}
	return contract, nil
}

func (c *CachedResolver) observe(result string) {
	if c.metrics == nil {
		return
	}
	c.metrics.ContractCache.WithLabelValues(result).Inc()
}

// lruCache is a simple thread-safe LRU cache for contracts.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.Contract
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.Contract, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.Contract{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.Contract) {
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
