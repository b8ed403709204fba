package search

import (
	"context"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/poiesic/profiledb/core"
)

// DefaultCacheSize is the number of query embeddings kept by default.
const DefaultCacheSize = 256

// QueryCache memoizes query embeddings by the BLAKE2b hash of the query text.
// It is safe for concurrent use.
type QueryCache struct {
	entries *lru.Cache[string, []float32]
}

// NewQueryCache creates a cache holding up to size embeddings.
func NewQueryCache(size int) (*QueryCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, err
	}
	return &QueryCache{entries: entries}, nil
}

// Embed returns the cached embedding for text or computes and stores it.
// Failed embeddings are not cached.
func (c *QueryCache) Embed(ctx context.Context, text string, embed func(context.Context, string) ([]float32, error)) ([]float32, error) {
	key := core.HashKey(text)
	if v, ok := c.entries.Get(key); ok {
		return v, nil
	}
	v, err := embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.entries.Add(key, slices.Clone(v))
	return v, nil
}

// Len returns the number of cached embeddings.
func (c *QueryCache) Len() int {
	return c.entries.Len()
}

// Purge drops every cached embedding, e.g. after the embedding model changed.
func (c *QueryCache) Purge() {
	c.entries.Purge()
}
