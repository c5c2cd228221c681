package embedding

import (
	"context"
	"sync"

	"github.com/talklens/talklens/pkg/metrics"
)

// Default cache configuration constants.
const (
	defaultCacheSize = 4096
)

// CacheOption applies a configuration option to the CachingProvider.
type CacheOption func(*CachingProvider)

// WithMaxEntries bounds the number of cached embeddings.
// If maxEntries <= 0 the default bound applies.
func WithMaxEntries(maxEntries int) CacheOption {
	return func(c *CachingProvider) {
		if maxEntries > 0 {
			c.maxEntries = maxEntries
		}
	}
}

// CachingProvider memoizes embeddings of previously seen texts in a bounded
// in-memory map with FIFO eviction. Identical transcripts submitted twice
// cost one inference call. Readiness passes through to the inner provider.
type CachingProvider struct {
	inner      Provider
	maxEntries int

	mu      sync.RWMutex
	entries map[string][]float64
	order   []string // insertion order for FIFO eviction
}

// NewCachingProvider wraps inner with a bounded embedding cache.
func NewCachingProvider(inner Provider, opts ...CacheOption) *CachingProvider {
	c := &CachingProvider{
		inner:      inner,
		maxEntries: defaultCacheSize,
		entries:    make(map[string][]float64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Embed returns the cached vector for text or delegates to the inner
// provider and records the result. Only successful embeddings are cached.
func (c *CachingProvider) Embed(ctx context.Context, input string) ([]float64, error) {
	c.mu.RLock()
	vec, ok := c.entries[input]
	c.mu.RUnlock()
	if ok {
		metrics.RecordEmbeddingCacheHit()
		return vec, nil
	}
	metrics.RecordEmbeddingCacheMiss()

	vec, err := c.inner.Embed(ctx, input)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Re-check: a concurrent caller may have filled this key already.
	if _, exists := c.entries[input]; !exists {
		if len(c.entries) >= c.maxEntries && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.entries[input] = vec
		c.order = append(c.order, input)
	}
	return vec, nil
}

// Ready delegates to the inner provider.
func (c *CachingProvider) Ready(ctx context.Context) error {
	return c.inner.Ready(ctx)
}

// Len returns the current number of cached embeddings.
func (c *CachingProvider) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
