package cache

import "sync"

// Cache is a thread-safe LRU cache. When more than capacity entries are
// stored the least recently used ones are evicted and handed to the
// eviction callback.
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*lruNode[K, V]
	order     lruList[K, V]
	capacity  int
	onEvict   func(K, V)
	evictions uint64
}

// New creates a cache holding at most capacity entries. A capacity of 0
// means unlimited. onEvict may be nil.
func New[K comparable, V any](capacity int, onEvict func(K, V)) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]*lruNode[K, V]),
		capacity: capacity,
		onEvict:  onEvict,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.moveToFront(n)
	return n.value, true
}

// Peek returns the value for key without changing its recency.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return n.value, true
}

// Set stores value under key. A replaced value is passed to the eviction
// callback, as are entries pushed out by the capacity limit.
func (c *Cache[K, V]) Set(key K, value V) {
	var evicted []*lruNode[K, V]

	c.mu.Lock()
	if n, ok := c.entries[key]; ok {
		old := &lruNode[K, V]{key: key, value: n.value}
		n.value = value
		c.order.moveToFront(n)
		evicted = append(evicted, old)
	} else {
		c.entries[key] = c.order.pushFront(key, value)
	}
	for c.capacity > 0 && c.order.len > c.capacity {
		tail := c.order.back()
		c.order.remove(tail)
		delete(c.entries, tail.key)
		evicted = append(evicted, tail)
	}
	c.evictions += uint64(len(evicted))
	c.mu.Unlock()

	c.notify(evicted)
}

// Delete removes key, passing its value to the eviction callback. It
// reports whether the key was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	n, ok := c.entries[key]
	if ok {
		c.order.remove(n)
		delete(c.entries, key)
		c.evictions++
	}
	c.mu.Unlock()

	if ok {
		c.notify([]*lruNode[K, V]{n})
	}
	return ok
}

// Keys returns the keys from most to least recently used.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.order.len)
	for n := c.order.head; n != nil; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

// Clear evicts every entry.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	evicted := make([]*lruNode[K, V], 0, c.order.len)
	for n := c.order.head; n != nil; n = n.next {
		evicted = append(evicted, n)
	}
	c.entries = make(map[K]*lruNode[K, V])
	c.order = lruList[K, V]{}
	c.evictions += uint64(len(evicted))
	c.mu.Unlock()

	c.notify(evicted)
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.len
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Len:       c.order.len,
		Capacity:  c.capacity,
		Evictions: c.evictions,
	}
}

func (c *Cache[K, V]) notify(evicted []*lruNode[K, V]) {
	if c.onEvict == nil {
		return
	}
	for _, n := range evicted {
		c.onEvict(n.key, n.value)
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the entry limit, 0 when unlimited.
	Capacity int
	// Evictions counts values handed to the eviction callback.
	Evictions uint64
}
