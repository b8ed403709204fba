package ollama

import (
	"testing"

	"github.com/poiesic/profiledb/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbedderRejectsOtherProviders(t *testing.T) {
	_, err := NewEmbedder(ai.NewConfig(ai.WithProvider(ai.ProviderOpenAI)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider")
}

func TestNewEmbedderValidatesConfig(t *testing.T) {
	_, err := NewEmbedder(ai.NewConfig(ai.WithProvider(ai.ProviderOllama), ai.WithEmbeddingModel("")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EmbeddingModel")
}

func TestNewEmbedder(t *testing.T) {
	cfg := ai.NewConfig(
		ai.WithProvider(ai.ProviderOllama),
		ai.WithEmbeddingHost("http://localhost:11434/v1"),
	)
	e, err := NewEmbedder(cfg)
	require.NoError(t, err)
	assert.NotNil(t, e)
	assert.Equal(t, "http://localhost:11434", cfg.EmbeddingHost)
}
