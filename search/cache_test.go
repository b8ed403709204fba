package search

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/profiledb/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("hit avoids embedding", func(t *testing.T) {
		cache, err := NewQueryCache(4)
		require.NoError(t, err)
		embedder := mock.NewMockEmbedder()

		first, err := cache.Embed(ctx, "query", embedder.EmbedText)
		require.NoError(t, err)
		second, err := cache.Embed(ctx, "query", embedder.EmbedText)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, embedder.CallCount())
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		cache, err := NewQueryCache(2)
		require.NoError(t, err)
		embedder := mock.NewMockEmbedder()

		for _, q := range []string{"a", "b", "c"} {
			_, err := cache.Embed(ctx, q, embedder.EmbedText)
			require.NoError(t, err)
		}
		assert.Equal(t, 2, cache.Len())

		_, err = cache.Embed(ctx, "a", embedder.EmbedText)
		require.NoError(t, err)
		assert.Equal(t, 4, embedder.CallCount())
	})

	t.Run("errors are not cached", func(t *testing.T) {
		cache, err := NewQueryCache(4)
		require.NoError(t, err)
		embedder := mock.NewMockEmbedder().WithEmbedTextFunc(func(context.Context, string) ([]float32, error) {
			return nil, errors.New("boom")
		})

		_, err = cache.Embed(ctx, "query", embedder.EmbedText)
		assert.Error(t, err)
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("purge", func(t *testing.T) {
		cache, err := NewQueryCache(0)
		require.NoError(t, err)
		_, err = cache.Embed(ctx, "query", mock.NewMockEmbedder().EmbedText)
		require.NoError(t, err)

		cache.Purge()
		assert.Equal(t, 0, cache.Len())
	})
}
