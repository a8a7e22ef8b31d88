package engine

import (
	"context"
	"sync"
)

// DefaultSolveCacheSize is the number of solver results kept by default.
const DefaultSolveCacheSize = 1 << 10

// solveCacheEntry stores one finished solver run
type solveCacheEntry struct {
	key         string // Board ID
	singularity bool
	result      SolveResult
}

// SolveCache remembers finished solver runs by board ID. It is a two-way
// associative table: each slot keeps the newest entry and the one it
// displaced. Only runs that finished inside their node budget are cached,
// since those results do not depend on the budget.
type SolveCache struct {
	entries  []solveCacheNode
	size     uint32
	hashMask uint32

	// Statistics
	lookups uint64
	hits    uint64
	adds    uint64

	mu sync.Mutex
}

type solveCacheNode struct {
	primary   *solveCacheEntry
	secondary *solveCacheEntry
}

// NewSolveCache creates a cache holding up to size results.
// Size is rounded up to a power of 2.
func NewSolveCache(size uint32) *SolveCache {
	if size > 1<<24 {
		size = 1 << 24
	}
	if size < 2 {
		size = 2
	}

	p := uint32(1)
	for p < size {
		p <<= 1
	}

	return &SolveCache{
		entries:  make([]solveCacheNode, p/2),
		size:     p,
		hashMask: p/2 - 1,
	}
}

// Flush clears all entries and statistics
func (c *SolveCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		c.entries[i] = solveCacheNode{}
	}
	c.lookups = 0
	c.hits = 0
	c.adds = 0
}

// hash mixes the board ID with MurmurHash3 rounds.
func (c *SolveCache) hash(key string, singularity bool) uint32 {
	const c1 = 0xcc9e2d51
	const c2 = 0x1b873593

	mix := func(h, k uint32) uint32 {
		k *= c1
		k = (k << 15) | (k >> 17)
		k *= c2
		h ^= k
		h = (h << 13) | (h >> 19)
		return h*5 + 0xe6546b64
	}

	h := uint32(0)
	var k uint32
	for i := 0; i < len(key); i++ {
		k = k<<8 | uint32(key[i])
		if i%4 == 3 {
			h = mix(h, k)
			k = 0
		}
	}
	h = mix(h, k)
	if singularity {
		h = mix(h, 1)
	}

	h ^= uint32(len(key))
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return h & c.hashMask
}

// Lookup returns the cached run for b when one exists that fits opts'
// node budget.
func (c *SolveCache) Lookup(b *Board, opts SolveOptions) (*SolveResult, bool) {
	key := b.Serialize()
	slot := c.hash(key, opts.RequireSingularity)
	budget := opts.MaxNodes
	if budget <= 0 {
		budget = DefaultSolveOptions().MaxNodes
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lookups++
	node := &c.entries[slot]
	for _, e := range []*solveCacheEntry{node.primary, node.secondary} {
		if e == nil || e.key != key || e.singularity != opts.RequireSingularity {
			continue
		}
		if e.result.Nodes > budget {
			return nil, false
		}
		c.hits++
		res := e.result
		res.Moves = append([]Operation(nil), e.result.Moves...)
		return &res, true
	}
	return nil, false
}

// Add records a finished run for b.
func (c *SolveCache) Add(b *Board, opts SolveOptions, res *SolveResult) {
	key := b.Serialize()
	slot := c.hash(key, opts.RequireSingularity)

	entry := &solveCacheEntry{
		key:         key,
		singularity: opts.RequireSingularity,
		result:      *res,
	}
	entry.result.Moves = append([]Operation(nil), res.Moves...)

	c.mu.Lock()
	defer c.mu.Unlock()

	node := &c.entries[slot]
	if p := node.primary; p != nil && p.key == key && p.singularity == opts.RequireSingularity {
		node.primary = entry
	} else {
		node.secondary = node.primary
		node.primary = entry
	}
	c.adds++
}

// Stats returns cache statistics
func (c *SolveCache) Stats() (lookups, hits, adds uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookups, c.hits, c.adds
}

// HitRate returns the cache hit rate as a percentage
func (c *SolveCache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lookups == 0 {
		return 0
	}
	return float64(c.hits) / float64(c.lookups) * 100
}

// SolveCached is Solve with results served from and stored in c. A nil
// cache solves directly.
func SolveCached(ctx context.Context, c *SolveCache, b *Board, opts SolveOptions, progress SolveProgressCallback) (*SolveResult, bool, error) {
	if c == nil {
		res, err := Solve(ctx, b, opts, progress)
		return res, false, err
	}
	if res, ok := c.Lookup(b, opts); ok {
		return res, true, nil
	}
	res, err := Solve(ctx, b, opts, progress)
	if err == nil {
		c.Add(b, opts, res)
	}
	return res, false, err
}
