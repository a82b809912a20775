package layout

import (
	"hash/fnv"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dshills/hilite/internal/renderer/core"
)

// LineCache caches unstyled line layouts with LRU eviction. Entries are
// validated against a hash of the line text, so edits never return stale
// cells even without an explicit invalidation.
type LineCache struct {
	mu        sync.Mutex
	entries   map[int]*cacheEntry
	engine    *Engine
	base      core.Style
	maxSize   int
	tick      uint64
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	layout     *LineLayout
	lineHash   uint64
	lastAccess uint64
}

// NewLineCache creates a line cache. maxSize of 0 means unlimited.
func NewLineCache(engine *Engine, base core.Style, maxSize int) *LineCache {
	return &LineCache{
		entries: make(map[int]*cacheEntry),
		engine:  engine,
		base:    base,
		maxSize: max(maxSize, 0),
	}
}

// Get returns the layout of line, computing it when the cached one is
// missing or was built from different text. The result must not be
// modified.
func (c *LineCache) Get(line int, text string) *LineLayout {
	hash := hashLine(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick++

	if e, ok := c.entries[line]; ok && e.lineHash == hash {
		e.lastAccess = c.tick
		c.hits.Add(1)
		return e.layout
	}
	c.misses.Add(1)

	l := c.engine.Layout(text, line, c.base)
	c.entries[line] = &cacheEntry{layout: l, lineHash: hash, lastAccess: c.tick}
	if c.maxSize > 0 && len(c.entries) > c.maxSize {
		c.evict()
	}
	return l
}

// InvalidateFrom drops every line at or after start.
func (c *LineCache) InvalidateFrom(start int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for line := range c.entries {
		if line >= start {
			delete(c.entries, line)
		}
	}
}

// Reset drops every entry and switches to a new engine and base style.
func (c *LineCache) Reset(engine *Engine, base core.Style) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine = engine
	c.base = base
	c.entries = make(map[int]*cacheEntry)
}

// evict removes the least recently used entries until under maxSize.
// Must be called with the lock held.
func (c *LineCache) evict() {
	type lineTick struct {
		line int
		tick uint64
	}
	order := make([]lineTick, 0, len(c.entries))
	for line, e := range c.entries {
		order = append(order, lineTick{line, e.lastAccess})
	}
	sort.Slice(order, func(i, j int) bool { return order[i].tick < order[j].tick })

	n := len(order) - c.maxSize
	for i := 0; i < n; i++ {
		delete(c.entries, order[i].line)
	}
	c.evictions.Add(uint64(n))
}

// Size returns the number of cached entries.
func (c *LineCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CacheStats holds cache statistics.
type CacheStats struct {
	Size      int
	MaxSize   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns cache statistics.
func (c *LineCache) Stats() CacheStats {
	return CacheStats{
		Size:      c.Size(),
		MaxSize:   c.maxSize,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// hashLine computes a hash of line content using FNV-1a.
func hashLine(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
