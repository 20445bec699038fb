// Package rendercache defines the interface for caching rendered charts.
package rendercache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Artifact is one rendered chart payload.
type Artifact struct {
	Key        string    // cache key, see Key
	Metric     string    // metric key the chart was rendered for
	Format     string    // encoding, "svg" or "png"
	Bytes      []byte    // encoded chart
	Version    string    // dataset version the chart was rendered from
	RenderedAt time.Time // when the render completed
}

// Key builds the canonical cache key for a chart. Keys are version
// qualified so a dataset reload naturally invalidates older charts.
func Key(version, metric, format string) string {
	return version + "/" + metric + "." + format
}

// Cache stores rendered charts and evicts the oldest entries when full.
type Cache interface {
	// Put stores an artifact under its key, replacing any previous
	// entry. Returns true when an unrelated entry was evicted to make
	// room.
	Put(ctx context.Context, art Artifact) bool

	// Get returns the artifact for key and whether it was present.
	Get(ctx context.Context, key string) (Artifact, bool)

	// Purge drops every cached artifact.
	Purge(ctx context.Context)

	Size() int64
}

// node represents a single entry in the linked list
type node struct {
	key  string
	art  Artifact
	next *node
}

// reset clears the node state for reuse
func (n *node) reset() {
	n.key = ""
	n.art = Artifact{}
	n.next = nil
}

// inMemoryCache implements Cache using an in-memory linked list with
// oldest-first eviction.
// For bounded mode (maxEntries > 0): uses linked list with eviction and sync.Pool for nodes
// For unbounded mode (maxEntries <= 0): uses simple map (no eviction, no size limit)
type inMemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]*node // key -> node pointer
	head       *node            // head of linked list (most recently added)
	maxEntries int              // maximum number of charts to keep (0 or negative = UNBOUNDED)
	size       atomic.Int64     // current number of entries (atomic)
	nodePool   sync.Pool        // pool for reusing node objects
}

// NewInMemoryCache creates a new in-memory chart cache with configuration options.
func NewInMemoryCache(opts ...Option) Cache {
	c := &inMemoryCache{
		maxEntries: 64, // default capacity, a few dataset generations of charts
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	// Initialize the entries map
	c.entries = make(map[string]*node)

	// Initialize sync.Pool for node reuse in bounded mode
	if c.maxEntries > 0 {
		c.nodePool = sync.Pool{
			New: func() interface{} {
				return &node{}
			},
		}
	}

	return c
}

// Put stores an artifact under its key, replacing any previous entry.
// Returns true when an unrelated entry was evicted to make room.
func (c *inMemoryCache) Put(_ context.Context, art Artifact) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Replace in place when the key is already cached
	if existing, ok := c.entries[art.Key]; ok {
		existing.art = art
		return false
	}

	evicted := false
	if c.maxEntries > 0 {
		// BOUNDED MODE: evict the oldest entry before adding a new one
		if len(c.entries) >= c.maxEntries {
			c.evictOldest()
			evicted = true
		}

		n := c.nodePool.Get().(*node)
		n.key = art.Key
		n.art = art
		n.next = c.head

		c.head = n
		c.entries[art.Key] = n
	} else {
		// UNBOUNDED MODE: map only, no list maintenance
		c.entries[art.Key] = &node{key: art.Key, art: art}
	}
	c.size.Add(1)
	return evicted
}

// Get returns the artifact for key and whether it was present.
func (c *inMemoryCache) Get(_ context.Context, key string) (Artifact, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n, ok := c.entries[key]
	if !ok {
		return Artifact{}, false
	}
	return n.art, true
}

// Purge drops every cached artifact.
func (c *inMemoryCache) Purge(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 {
		for n := c.head; n != nil; {
			next := n.next
			n.reset()
			c.nodePool.Put(n)
			n = next
		}
	}
	c.head = nil
	c.entries = make(map[string]*node)
	c.size.Store(0)
}

// evictOldest removes the oldest entry (tail of list) from the map.
// Must be called with c.mu.Lock() held.
func (c *inMemoryCache) evictOldest() {
	if len(c.entries) == 0 || c.head == nil {
		return
	}

	// If there's only one node, remove it
	current := c.head
	if current.next == nil {
		delete(c.entries, current.key)
		current.reset()
		c.nodePool.Put(current)
		c.head = nil
		c.size.Add(-1)
		return
	}

	// Find the second-to-last node
	var prev *node
	for current.next != nil {
		prev = current
		current = current.next
	}

	// Remove the last node (tail)
	if prev != nil {
		prev.next = nil
		delete(c.entries, current.key)
		current.reset()
		c.nodePool.Put(current)
		c.size.Add(-1)
	}
}

// Size returns the current number of cached charts.
func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}
