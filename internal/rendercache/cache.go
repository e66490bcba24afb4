// Package rendercache keeps compiled GPU geometry keyed by shader identity so
// a track is swept and uploaded once per shader rather than once per frame.
package rendercache

import (
	"fmt"
	"sync"
)

// Handle is compiled, drawable geometry owned by the cache.
type Handle interface {
	Draw()
	Release()
}

// BuildFunc produces the handle for a key on a cache miss.
type BuildFunc func() (Handle, error)

// Cache maps shader identities to compiled geometry.
type Cache struct {
	entries map[int]Handle
	mu      sync.Mutex

	// Stats
	hits   int
	misses int
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[int]Handle),
	}
}

// Lookup returns the handle stored for id.
func (c *Cache) Lookup(id int) (Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.entries[id]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return h, ok
}

// Insert stores h under id, releasing any handle it replaces.
func (c *Cache) Insert(id int, h Handle) {
	c.mu.Lock()
	old, ok := c.entries[id]
	c.entries[id] = h
	c.mu.Unlock()

	if ok && old != h {
		old.Release()
	}
}

// Get returns the handle for id, calling build on a miss. A failed build
// leaves the cache unchanged so the next call retries.
func (c *Cache) Get(id int, build BuildFunc) (Handle, error) {
	if h, ok := c.Lookup(id); ok {
		return h, nil
	}

	h, err := build()
	if err != nil {
		return nil, fmt.Errorf("build geometry for shader %d: %w", id, err)
	}
	if h == nil {
		return nil, fmt.Errorf("build geometry for shader %d: nil handle", id)
	}
	c.Insert(id, h)
	return h, nil
}

// Invalidate releases every cached handle and empties the cache.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	entries := c.entries
	c.entries = make(map[int]Handle)
	c.mu.Unlock()

	for _, h := range entries {
		h.Release()
	}
}

// Len returns the number of cached handles.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
