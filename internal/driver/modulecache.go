package driver

import (
	"context"
	"sync"
)

// ResultCache remembers recent analyses by input digest so repeated calls
// on the same source (check, then complete) parse once.
type ResultCache struct {
	mu    sync.Mutex
	limit int
	order []Digest // старые впереди
	byKey map[Digest]*Result
}

// NewResultCache keeps at most limit results; limit <= 0 selects 8.
func NewResultCache(limit int) *ResultCache {
	if limit <= 0 {
		limit = 8
	}
	return &ResultCache{limit: limit, byKey: make(map[Digest]*Result, limit)}
}

// Get returns the cached result for key.
func (c *ResultCache) Get(key Digest) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.byKey[key]
	return r, ok
}

// Put stores r, evicting the oldest entry when full.
func (c *ResultCache) Put(key Digest, r *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byKey[key]; ok {
		c.byKey[key] = r
		return
	}
	if len(c.order) >= c.limit {
		delete(c.byKey, c.order[0])
		c.order = c.order[1:]
	}
	c.order = append(c.order, key)
	c.byKey[key] = r
}

func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byKey)
}

// Purge drops every entry.
func (c *ResultCache) Purge() {
	c.mu.Lock()
	c.order = nil
	clear(c.byKey)
	c.mu.Unlock()
}

// Analyze returns the cached result for src under opts or computes it. A
// hit may carry a different file name; only the content and flags are
// keyed. Observers only see computed analyses.
func (c *ResultCache) Analyze(ctx context.Context, name string, src []byte, opts Options) *Result {
	key := DigestOf(src, opts.Config, opts.MaxDiagnostics)
	if r, ok := c.Get(key); ok {
		return r
	}
	r := AnalyzeSource(ctx, name, src, opts)
	c.Put(key, r)
	return r
}
