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

package ai

import (
	"errors"
	"strings"
)

// Embedding providers understood by NewEmbedder factories.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderNone   = "none"
)

// Config holds configuration for AI service providers.
type Config struct {
	// Provider selects the embedding backend: "openai", "ollama" or "none".
	// "none" runs the engine in keyword-only mode.
	Provider string

	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "bge-m3", "text-embedding-3-small"
	EmbeddingModel string

	// SuggesterHost is the base URL for the chat model used for term suggestions.
	// Empty disables suggestions.
	SuggesterHost string

	// SuggesterModel is the chat model identifier used for term suggestions.
	SuggesterModel string

	// MaxSuggestions caps the number of suggested terms per query.
	// Default: 5
	MaxSuggestions int

	// Token is the API key sent to OpenAI-compatible services.
	// Local servers accept any value. Default: "none"
	Token string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider sets the embedding provider.
func WithProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithSuggester enables term suggestions using the given chat host and model.
func WithSuggester(host, model string) ConfigOption {
	return func(c *Config) {
		c.SuggesterHost = host
		c.SuggesterModel = model
	}
}

// WithMaxSuggestions sets the maximum number of suggested terms.
func WithMaxSuggestions(n int) ConfigOption {
	return func(c *Config) {
		c.MaxSuggestions = n
	}
}

// WithToken sets the API token.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible service. The default model is multilingual, which
// matters for Korean profile text.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderOpenAI,
		EmbeddingHost:  "http://localhost:11434/v1",
		EmbeddingModel: "bge-m3",
		MaxSuggestions: 5,
		Token:          "none",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithProvider(ProviderOllama),
//	    WithEmbeddingHost("http://localhost:11434"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// SuggestionsEnabled reports whether a suggester model is configured.
func (c *Config) SuggestionsEnabled() bool {
	return c.SuggesterHost != "" && c.SuggesterModel != ""
}

// Normalize ensures the configuration is in a canonical form.
// OpenAI-compatible hosts get a /v1 suffix; Ollama hosts lose it, since the
// native client appends its own /api paths.
func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}

	switch c.Provider {
	case ProviderOpenAI:
		c.EmbeddingHost = withV1(c.EmbeddingHost)
	case ProviderOllama:
		c.EmbeddingHost = strings.TrimSuffix(strings.TrimSuffix(c.EmbeddingHost, "/"), "/v1")
	}
	// The suggester always speaks the OpenAI chat API
	c.SuggesterHost = withV1(c.SuggesterHost)

	if c.Token == "" {
		c.Token = "none"
	}
}

func withV1(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	// Remove trailing slash if present before adding /v1
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Provider {
	case ProviderOpenAI, ProviderOllama:
		if c.EmbeddingHost == "" {
			return errors.New("ai config: EmbeddingHost is required")
		}
		if c.EmbeddingModel == "" {
			return errors.New("ai config: EmbeddingModel is required")
		}
	case ProviderNone:
	default:
		return errors.New("ai config: Provider must be one of openai, ollama, none")
	}

	if (c.SuggesterHost == "") != (c.SuggesterModel == "") {
		return errors.New("ai config: SuggesterHost and SuggesterModel must be set together")
	}
	if c.MaxSuggestions < 0 {
		return errors.New("ai config: MaxSuggestions cannot be negative")
	}
	return nil
}
