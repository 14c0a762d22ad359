// Package cache provides a generic, capacity-bounded LRU cache with an
// eviction callback.
//
//	c := cache.New[int, string](64, func(k int, v string) {
//	    release(v)
//	})
//	c.Set(1, "a")
//	v, ok := c.Get(1)
//
// Cache is safe for concurrent use and must not be copied after creation.
// The eviction callback runs after the cache lock is released, so it may
// call back into the cache.
package cache
