package calc

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DefaultCacheSize bounds the number of parsed trees an Evaluator keeps.
const DefaultCacheSize = 64

// CacheStats reports parse cache usage.
type CacheStats struct {
	Entries int // Trees currently cached
	Hits    int
	Misses  int
}

// treeCache maps normalized text to its parsed tree. Entries are evicted oldest first.
// A hash collision is treated as a miss: the stored source must match exactly.
type treeCache struct {
	mu    sync.Mutex
	limit int
	items map[uint64]*Expr
	order []uint64
	hits  int
	miss  int
}

func newTreeCache(limit int) *treeCache {
	return &treeCache{limit: limit, items: make(map[uint64]*Expr, limit)}
}

func (c *treeCache) get(src string) (*Expr, bool) {
	if c.limit <= 0 {
		return nil, false
	}
	key := xxhash.Sum64String(src)

	c.mu.Lock()
	defer c.mu.Unlock()
	ex, ok := c.items[key]
	if !ok || ex.src != src {
		c.miss++
		return nil, false
	}
	c.hits++
	return ex, true
}

func (c *treeCache) put(ex *Expr) {
	if c.limit <= 0 {
		return
	}
	key := xxhash.Sum64String(ex.src)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; ok {
		c.items[key] = ex
		return
	}
	if len(c.order) >= c.limit {
		oldest := c.order[0]
		copy(c.order, c.order[1:])
		c.order = c.order[:len(c.order)-1]
		delete(c.items, oldest)
	}
	c.items[key] = ex
	c.order = append(c.order, key)
}

func (c *treeCache) stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Entries: len(c.items), Hits: c.hits, Misses: c.miss}
}
