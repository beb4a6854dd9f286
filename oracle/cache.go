package oracle

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// stratifiedCache is an LRU cache whose keys are grouped by level (the size
// of the variable set they describe) so a whole level can be dropped.
// It is safe for concurrent use.
type stratifiedCache[V any] struct {
	mu     sync.Mutex
	levels map[int]map[string]struct{}
	level  map[string]int
	lru    *lru.Cache[string, V]

	hits   atomic.Int64
	misses atomic.Int64
}

func newStratifiedCache[V any](size int) *stratifiedCache[V] {
	c := &stratifiedCache[V]{
		levels: make(map[int]map[string]struct{}),
		level:  make(map[string]int),
	}
	// NewWithEvict only fails for a non-positive size.
	c.lru, _ = lru.NewWithEvict[string, V](max(size, 1), c.forget)

	return c
}

// forget runs outside the LRU lock when a key leaves the cache.
func (c *stratifiedCache[V]) forget(key string, _ V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if lv, ok := c.level[key]; ok {
		delete(c.levels[lv], key)
		delete(c.level, key)
	}
}

func (c *stratifiedCache[V]) get(key string) (V, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}

	return v, ok
}

func (c *stratifiedCache[V]) set(level int, key string, v V) {
	c.mu.Lock()
	if c.levels[level] == nil {
		c.levels[level] = make(map[string]struct{})
	}
	c.levels[level][key] = struct{}{}
	c.level[key] = level
	c.mu.Unlock()

	c.lru.Add(key, v)
}

// clearLevel removes every key stored at level.
func (c *stratifiedCache[V]) clearLevel(level int) {
	c.mu.Lock()
	keys := make([]string, 0, len(c.levels[level]))
	for k := range c.levels[level] {
		keys = append(keys, k)
	}
	c.mu.Unlock()

	for _, k := range keys {
		c.lru.Remove(k)
	}
}

func (c *stratifiedCache[V]) clear() {
	c.lru.Purge()
	c.mu.Lock()
	c.levels = make(map[int]map[string]struct{})
	c.level = make(map[string]int)
	c.mu.Unlock()
}

func (c *stratifiedCache[V]) len() int { return c.lru.Len() }

// lenLevel returns the number of cached keys at level.
func (c *stratifiedCache[V]) lenLevel(level int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.levels[level])
}

// CacheStats reports cache usage.
type CacheStats struct {
	Entries int
	Hits    int64
	Misses  int64
}

func (c *stratifiedCache[V]) stats() CacheStats {
	return CacheStats{Entries: c.len(), Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// setKey renders a variable set independently of its order, e.g. "[0,2,5]",
// with ":K" appended when k > 0.
func setKey(vars []int, k int) string {
	sorted := append([]int(nil), vars...)
	sort.Ints(sorted)
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	b.WriteByte(']')
	if k > 0 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(k))
	}

	return b.String()
}
