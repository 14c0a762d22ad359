// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderpass

import (
	"sync"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/internal/cache"
	"github.com/gogpu/compositor/quad"
	"github.com/gogpu/compositor/resource"
)

// Cache keeps pass outputs between frames.
//
// Entries stored during a frame are evicted by EndFrame unless the pass
// was retained. Evicted resources are deleted through the Deleter.
type Cache struct {
	lru *cache.Cache[quad.PassID, resource.ID]
	res Deleter

	mu       sync.Mutex
	retained map[quad.PassID]bool
}

var _ Store = (*Cache)(nil)

// NewCache creates a cache holding at most capacity passes (0 for no
// limit). res may be nil when resources are freed elsewhere.
func NewCache(capacity int, res Deleter) *Cache {
	c := &Cache{res: res, retained: make(map[quad.PassID]bool)}
	c.lru = cache.New(capacity, c.evicted)
	return c
}

// evicted runs for replaced and removed entries. A replaced pass keeps its
// retained flag.
func (c *Cache) evicted(id quad.PassID, res resource.ID) {
	if _, present := c.lru.Peek(id); !present {
		c.mu.Lock()
		delete(c.retained, id)
		c.mu.Unlock()
	}

	if c.res == nil || res == 0 {
		return
	}
	if err := c.res.Delete(res); err != nil {
		compositor.Logger().Warn("renderpass: delete evicted output", "pass", id, "resource", res, "err", err)
	}
}

// Lookup implements Lookup.
func (c *Cache) Lookup(id quad.PassID) (resource.ID, bool) {
	res, ok := c.lru.Get(id)
	return res, ok && res != 0
}

// Store implements Store. Storing a different resource for a pass evicts
// the old one.
func (c *Cache) Store(id quad.PassID, res resource.ID) {
	if old, ok := c.lru.Peek(id); ok && old == res {
		return
	}
	c.lru.Set(id, res)
}

// Retain keeps the output of pass id across EndFrame.
func (c *Cache) Retain(id quad.PassID, retain bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if retain {
		c.retained[id] = true
	} else {
		delete(c.retained, id)
	}
}

// Retained reports whether pass id survives EndFrame.
func (c *Cache) Retained(id quad.PassID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retained[id]
}

// Delete evicts pass id.
func (c *Cache) Delete(id quad.PassID) bool {
	return c.lru.Delete(id)
}

// EndFrame evicts every pass that is not retained and returns how many
// were evicted.
func (c *Cache) EndFrame() int {
	n := 0
	for _, id := range c.lru.Keys() {
		if c.Retained(id) {
			continue
		}
		if c.lru.Delete(id) {
			n++
		}
	}
	return n
}

// Clear evicts everything, retained or not.
func (c *Cache) Clear() {
	c.lru.Clear()
}

// Len returns the number of cached passes.
func (c *Cache) Len() int { return c.lru.Len() }

// Stats reports cache occupancy.
type Stats struct {
	Len       int
	Evictions uint64
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	s := c.lru.Stats()
	return Stats{Len: s.Len, Evictions: s.Evictions}
}
