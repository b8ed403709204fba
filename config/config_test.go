package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/profiledb"
	"github.com/poiesic/profiledb/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
root = "/var/lib/profiledb"
log_level = "debug"

[ai]
provider = "ollama"
embedding_host = "http://gpu-box:11434"
embedding_model = "nomic-embed-text"

[store]
backend = "badger"
compaction_threshold = 0.5
auto_save = false

[search]
cache_size = 64

[reembed]
batch_size = 16
retry_delay = "250ms"
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiledb.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "vectordb", cfg.Root)
	assert.Equal(t, ai.ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, profiledb.BackendFile, cfg.Store.Backend)
	assert.True(t, cfg.Store.AutoSave)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		require.NoError(t, err)
		assert.Equal(t, Default().Root, cfg.Root)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, sampleTOML))
		require.NoError(t, err)

		assert.Equal(t, "/var/lib/profiledb", cfg.Root)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, ai.ProviderOllama, cfg.AI.Provider)
		assert.Equal(t, "nomic-embed-text", cfg.AI.EmbeddingModel)
		assert.Equal(t, profiledb.BackendBadger, cfg.Store.Backend)
		assert.Equal(t, 0.5, cfg.Store.CompactionThreshold)
		assert.False(t, cfg.Store.AutoSave)
		assert.Equal(t, 64, cfg.Search.CacheSize)

		re := cfg.ReembedConfig()
		assert.Equal(t, 16, re.BatchSize)
		assert.Equal(t, 250*time.Millisecond, re.RetryDelay)
		assert.Equal(t, 3, re.MaxRetries, "unset keys keep their defaults")
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("PROFILEDB_ROOT", "/tmp/override")
		t.Setenv("PROFILEDB_PROVIDER", "none")
		t.Setenv("PROFILEDB_CACHE_SIZE", "8")
		t.Setenv("PROFILEDB_AUTO_SAVE", "true")
		t.Setenv("PROFILEDB_COMPACTION_THRESHOLD", "0.25")

		cfg, err := Load(writeConfig(t, sampleTOML))
		require.NoError(t, err)
		assert.Equal(t, "/tmp/override", cfg.Root)
		assert.Equal(t, ai.ProviderNone, cfg.AI.Provider)
		assert.Equal(t, 8, cfg.Search.CacheSize)
		assert.True(t, cfg.Store.AutoSave)
		assert.Equal(t, 0.25, cfg.Store.CompactionThreshold)
	})

	t.Run("dotenv file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PROFILEDB_EMBEDDING_MODEL=bge-small\n"), 0o644))
		t.Chdir(dir)
		t.Cleanup(func() { os.Unsetenv("PROFILEDB_EMBEDDING_MODEL") })

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "bge-small", cfg.AI.EmbeddingModel)
	})

	tests := []struct {
		name string
		toml string
		env  map[string]string
	}{
		{name: "malformed toml", toml: "root = ["},
		{name: "unknown backend", toml: "[store]\nbackend = \"sqlite\""},
		{name: "threshold out of range", toml: "[store]\ncompaction_threshold = 2.0"},
		{name: "bad retry delay", toml: "[reembed]\nretry_delay = \"soon\""},
		{name: "unknown provider", toml: "[ai]\nprovider = \"cohere\""},
		{name: "bad integer env", env: map[string]string{"PROFILEDB_CACHE_SIZE": "many"}},
		{name: "bad bool env", env: map[string]string{"PROFILEDB_AUTO_SAVE": "maybe"}},
		{name: "empty root", env: map[string]string{"PROFILEDB_ROOT": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.toml))
			assert.Error(t, err)
		})
	}
}

func TestOpenKeywordOnly(t *testing.T) {
	cfg := Default()
	cfg.Root = t.TempDir()
	cfg.AI.Provider = ai.ProviderNone

	opts, err := cfg.ModelOptions()
	require.NoError(t, err)
	assert.Empty(t, opts)

	engine, err := cfg.Open(context.Background())
	require.NoError(t, err)
	defer engine.Close()
	assert.False(t, engine.VectorStoreAvailable())
	assert.Equal(t, cfg.Root, engine.Root())
}

func TestModelOptions(t *testing.T) {
	for _, provider := range []string{ai.ProviderOpenAI, ai.ProviderOllama} {
		t.Run(provider, func(t *testing.T) {
			cfg := Default()
			cfg.AI.Provider = provider
			opts, err := cfg.ModelOptions()
			require.NoError(t, err)
			assert.NotEmpty(t, opts)
		})
	}
}
