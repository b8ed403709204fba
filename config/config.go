// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/poiesic/profiledb"
	"github.com/poiesic/profiledb/ai"
	"github.com/poiesic/profiledb/ai/ollama"
	"github.com/poiesic/profiledb/ai/openai"
	"github.com/poiesic/profiledb/reembed"
	"github.com/poiesic/profiledb/search"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "profiledb.toml"

const envPrefix = "PROFILEDB_"

type Config struct {
	Root     string        `toml:"root"`
	LogLevel string        `toml:"log_level"`
	AI       AIConfig      `toml:"ai"`
	Store    StoreConfig   `toml:"store"`
	Search   SearchConfig  `toml:"search"`
	Reembed  ReembedConfig `toml:"reembed"`
}

type AIConfig struct {
	Provider       string `toml:"provider"`
	EmbeddingHost  string `toml:"embedding_host"`
	EmbeddingModel string `toml:"embedding_model"`
	SuggesterHost  string `toml:"suggester_host"`
	SuggesterModel string `toml:"suggester_model"`
	MaxSuggestions int    `toml:"max_suggestions"`
	Token          string `toml:"token"`
}

type StoreConfig struct {
	Backend             string  `toml:"backend"`
	CompactionThreshold float64 `toml:"compaction_threshold"`
	AutoSave            bool    `toml:"auto_save"`
}

type SearchConfig struct {
	CacheSize int `toml:"cache_size"`
}

type ReembedConfig struct {
	BatchSize  int    `toml:"batch_size"`
	MaxRetries int    `toml:"max_retries"`
	RetryDelay string `toml:"retry_delay"`
	PoolSize   int    `toml:"pool_size"`
}

// Default returns the built-in settings.
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	reembedDefaults := reembed.DefaultConfig()
	return &Config{
		Root:     "vectordb",
		LogLevel: "info",
		AI: AIConfig{
			Provider:       aiDefaults.Provider,
			EmbeddingHost:  aiDefaults.EmbeddingHost,
			EmbeddingModel: aiDefaults.EmbeddingModel,
			MaxSuggestions: aiDefaults.MaxSuggestions,
			Token:          aiDefaults.Token,
		},
		Store: StoreConfig{
			Backend:             profiledb.BackendFile,
			CompactionThreshold: profiledb.DefaultCompactionThreshold,
			AutoSave:            true,
		},
		Search: SearchConfig{CacheSize: search.DefaultCacheSize},
		Reembed: ReembedConfig{
			BatchSize:  reembedDefaults.BatchSize,
			MaxRetries: reembedDefaults.MaxRetries,
			RetryDelay: reembedDefaults.RetryDelay.String(),
			PoolSize:   reembedDefaults.PoolSize,
		},
	}
}

// Load reads path over the defaults, then applies .env and environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("no config file", "path", path)
	case err != nil:
		return nil, err
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	// .env never overrides variables that are already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not read .env", "err", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ROOT":            &c.Root,
		"LOG_LEVEL":       &c.LogLevel,
		"PROVIDER":        &c.AI.Provider,
		"EMBEDDING_HOST":  &c.AI.EmbeddingHost,
		"EMBEDDING_MODEL": &c.AI.EmbeddingModel,
		"SUGGESTER_HOST":  &c.AI.SuggesterHost,
		"SUGGESTER_MODEL": &c.AI.SuggesterModel,
		"TOKEN":           &c.AI.Token,
		"BACKEND":         &c.Store.Backend,
		"RETRY_DELAY":     &c.Reembed.RetryDelay,
	}
	for key, dst := range strs {
		if v, ok := lookup(envPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MAX_SUGGESTIONS": &c.AI.MaxSuggestions,
		"CACHE_SIZE":      &c.Search.CacheSize,
		"BATCH_SIZE":      &c.Reembed.BatchSize,
		"MAX_RETRIES":     &c.Reembed.MaxRetries,
		"POOL_SIZE":       &c.Reembed.PoolSize,
	}
	for key, dst := range ints {
		if v, ok := lookup(envPrefix + key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, key, err)
			}
			*dst = n
		}
	}

	if v, ok := lookup(envPrefix + "COMPACTION_THRESHOLD"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%sCOMPACTION_THRESHOLD: %w", envPrefix, err)
		}
		c.Store.CompactionThreshold = f
	}
	if v, ok := lookup(envPrefix + "AUTO_SAVE"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sAUTO_SAVE: %w", envPrefix, err)
		}
		c.Store.AutoSave = b
	}
	return nil
}

// Validate checks the settings that Open would otherwise reject late.
func (c *Config) Validate() error {
	if c.Root == "" {
		return errors.New("config: root is required")
	}
	switch c.Store.Backend {
	case profiledb.BackendFile, profiledb.BackendBadger:
	default:
		return fmt.Errorf("config: %w: %q", profiledb.ErrUnknownEntryBackend, c.Store.Backend)
	}
	if c.Store.CompactionThreshold < 0 || c.Store.CompactionThreshold > 1 {
		return fmt.Errorf("config: compaction_threshold must be within [0, 1], got %v", c.Store.CompactionThreshold)
	}
	if _, err := c.retryDelay(); err != nil {
		return err
	}
	return c.AIConfig().Validate()
}

func (c *Config) retryDelay() (time.Duration, error) {
	if c.Reembed.RetryDelay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Reembed.RetryDelay)
	if err != nil {
		return 0, fmt.Errorf("config: retry_delay: %w", err)
	}
	return d, nil
}

// AIConfig converts the model settings.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithProvider(c.AI.Provider),
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithSuggester(c.AI.SuggesterHost, c.AI.SuggesterModel),
		ai.WithMaxSuggestions(c.AI.MaxSuggestions),
		ai.WithToken(c.AI.Token),
	)
}

// ReembedConfig converts the batch embedding settings.
func (c *Config) ReembedConfig() *reembed.Config {
	cfg := reembed.DefaultConfig()
	cfg.BatchSize = c.Reembed.BatchSize
	cfg.MaxRetries = c.Reembed.MaxRetries
	cfg.PoolSize = c.Reembed.PoolSize
	if d, err := c.retryDelay(); err == nil {
		cfg.RetryDelay = d
	}
	return cfg
}

// EngineOptions returns the engine options for everything except the model
// services.
func (c *Config) EngineOptions() []profiledb.Option {
	return []profiledb.Option{
		profiledb.WithEntryBackend(c.Store.Backend),
		profiledb.WithCompactionThreshold(c.Store.CompactionThreshold),
		profiledb.WithAutoSave(c.Store.AutoSave),
		profiledb.WithCacheSize(c.Search.CacheSize),
		profiledb.WithReembedConfig(c.ReembedConfig()),
	}
}

// ModelOptions builds the embedder and optional suggester the provider
// setting asks for. Provider "none" yields no options: a keyword-only engine.
func (c *Config) ModelOptions() ([]profiledb.Option, error) {
	aiCfg := c.AIConfig()
	if err := aiCfg.Validate(); err != nil {
		return nil, err
	}

	switch aiCfg.Provider {
	case ai.ProviderOpenAI:
		provider, err := openai.NewProvider(aiCfg)
		if err != nil {
			return nil, err
		}
		return []profiledb.Option{profiledb.WithProvider(provider)}, nil
	case ai.ProviderOllama:
		embedder, err := ollama.NewEmbedder(aiCfg)
		if err != nil {
			return nil, err
		}
		opts := []profiledb.Option{profiledb.WithEmbedder(embedder)}
		if aiCfg.SuggestionsEnabled() {
			suggester, err := openai.NewTermSuggester(aiCfg)
			if err != nil {
				return nil, err
			}
			opts = append(opts, profiledb.WithTermSuggester(suggester))
		}
		return opts, nil
	default:
		return nil, nil
	}
}

// Open opens the engine described by c. Extra options are applied last.
func (c *Config) Open(ctx context.Context, extra ...profiledb.Option) (*profiledb.Engine, error) {
	models, err := c.ModelOptions()
	if err != nil {
		return nil, err
	}
	opts := append(c.EngineOptions(), models...)
	opts = append(opts, extra...)
	return profiledb.Open(ctx, c.Root, opts...)
}
