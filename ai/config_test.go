package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "bge-m3", cfg.EmbeddingModel)
	assert.Equal(t, 5, cfg.MaxSuggestions)
	assert.False(t, cfg.SuggestionsEnabled())
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		// Should have default values
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "none", cfg.Token)
	})

	t.Run("with custom embedding host and model", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:8080/v1"),
			WithEmbeddingModel("text-embedding-3-small"),
		)

		assert.Equal(t, "http://embed:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	})

	t.Run("with suggester", func(t *testing.T) {
		cfg := NewConfig(
			WithSuggester("http://chat:9090", "qwen2.5:3b"),
			WithMaxSuggestions(8),
		)

		assert.True(t, cfg.SuggestionsEnabled())
		assert.Equal(t, "qwen2.5:3b", cfg.SuggesterModel)
		assert.Equal(t, 8, cfg.MaxSuggestions)
	})

	t.Run("with provider and token", func(t *testing.T) {
		cfg := NewConfig(WithProvider(ProviderOllama), WithToken("secret"))

		assert.Equal(t, ProviderOllama, cfg.Provider)
		assert.Equal(t, "secret", cfg.Token)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name          string
		provider      string
		embeddingHost string
		suggesterHost string
		wantEmbedding string
		wantSuggester string
		wantProvider  string
	}{
		{
			name:          "openai host without /v1",
			provider:      "openai",
			embeddingHost: "http://localhost:11434",
			wantEmbedding: "http://localhost:11434/v1",
			wantProvider:  ProviderOpenAI,
		},
		{
			name:          "openai host with trailing slash",
			provider:      "openai",
			embeddingHost: "http://localhost:11434/",
			wantEmbedding: "http://localhost:11434/v1",
			wantProvider:  ProviderOpenAI,
		},
		{
			name:          "openai host already normalized",
			provider:      "openai",
			embeddingHost: "http://localhost:11434/v1",
			wantEmbedding: "http://localhost:11434/v1",
			wantProvider:  ProviderOpenAI,
		},
		{
			name:          "ollama host loses /v1",
			provider:      "Ollama",
			embeddingHost: "http://localhost:11434/v1",
			wantEmbedding: "http://localhost:11434",
			wantProvider:  ProviderOllama,
		},
		{
			name:          "empty provider defaults to openai",
			provider:      "",
			embeddingHost: "http://host:1",
			wantEmbedding: "http://host:1/v1",
			wantProvider:  ProviderOpenAI,
		},
		{
			name:          "suggester host gets /v1",
			provider:      "none",
			suggesterHost: "http://chat:9090",
			wantSuggester: "http://chat:9090/v1",
			wantProvider:  ProviderNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Provider:      tt.provider,
				EmbeddingHost: tt.embeddingHost,
				SuggesterHost: tt.suggesterHost,
			}
			cfg.Normalize()

			assert.Equal(t, tt.wantProvider, cfg.Provider)
			assert.Equal(t, tt.wantEmbedding, cfg.EmbeddingHost)
			assert.Equal(t, tt.wantSuggester, cfg.SuggesterHost)
			assert.Equal(t, "none", cfg.Token)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid default config", func(t *testing.T) {
		cfg := DefaultConfig()
		require.NoError(t, cfg.Validate())
	})

	t.Run("keyword-only provider needs no host", func(t *testing.T) {
		cfg := &Config{Provider: ProviderNone}
		require.NoError(t, cfg.Validate())
	})

	t.Run("missing embedding host", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EmbeddingHost = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingHost")
	})

	t.Run("missing embedding model", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EmbeddingModel = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingModel")
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Provider = "bedrock"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Provider")
	})

	t.Run("half-configured suggester", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SuggesterHost = "http://chat:9090"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SuggesterModel")
	})

	t.Run("negative max suggestions", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxSuggestions = -1

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MaxSuggestions")
	})

	t.Run("validate normalizes", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost("http://localhost:8080"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:8080/v1", cfg.EmbeddingHost)
	})
}
