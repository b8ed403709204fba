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

package profiledb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/poiesic/profiledb/ai"
	"github.com/poiesic/profiledb/core"
	"github.com/poiesic/profiledb/index/vector"
	"github.com/poiesic/profiledb/reembed"
	"github.com/poiesic/profiledb/search"
	"github.com/poiesic/profiledb/storage"
	"github.com/poiesic/profiledb/storage/badger"
	"github.com/poiesic/profiledb/storage/file"
)

// Entry store backends.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// BadgerDir is the directory under the index root used by the badger backend.
const BadgerDir = "entries.badger"

// DefaultCompactionThreshold is the tombstone ratio that triggers compaction.
const DefaultCompactionThreshold = 0.2

// Engine is the profile retrieval engine. It is safe for concurrent use:
// mutations take an exclusive lock, reads share it.
type Engine struct {
	mu     sync.RWMutex
	root   string
	store  storage.Store
	corpus *corpus

	provider  ai.AIProvider
	embedder  ai.Embedder
	suggester ai.TermSuggester
	searcher  *search.Searcher
	cache     *search.QueryCache

	backend             string
	compactionThreshold float64
	cacheSize           int
	autoSave            bool
	reembedConfig       *reembed.Config
	progress            io.Writer
	logger              *slog.Logger
	now                 func() time.Time
}

// Option configures an Engine.
type Option func(*Engine) error

// WithProvider takes the embedder and term suggester from provider. The
// engine closes the provider on Close.
func WithProvider(provider ai.AIProvider) Option {
	return func(e *Engine) error {
		if provider == nil {
			return nil
		}
		e.provider = provider
		e.embedder = provider.Embedder()
		e.suggester = provider.TermSuggester()
		return nil
	}
}

// WithEmbedder sets the embedder. Without one the engine runs keyword-only.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(e *Engine) error {
		e.embedder = embedder
		return nil
	}
}

// WithTermSuggester adds model-suggested terms to query expansion.
func WithTermSuggester(suggester ai.TermSuggester) Option {
	return func(e *Engine) error {
		e.suggester = suggester
		return nil
	}
}

// WithStore uses an already opened store instead of opening one under root.
// The engine closes it on Close.
func WithStore(store storage.Store) Option {
	return func(e *Engine) error {
		e.store = store
		return nil
	}
}

// WithEntryBackend selects the store opened under root: "file" (default)
// or "badger".
func WithEntryBackend(backend string) Option {
	return func(e *Engine) error {
		switch backend {
		case "", BackendFile:
			e.backend = BackendFile
		case BackendBadger:
			e.backend = BackendBadger
		default:
			return fmt.Errorf("%w: %q", ErrUnknownEntryBackend, backend)
		}
		return nil
	}
}

// WithCompactionThreshold sets the tombstone ratio at which removals compact
// the index. 0 compacts on every removal.
func WithCompactionThreshold(threshold float64) Option {
	return func(e *Engine) error {
		if threshold < 0 || threshold > 1 {
			return fmt.Errorf("compaction threshold must be within [0, 1], got %v", threshold)
		}
		e.compactionThreshold = threshold
		return nil
	}
}

// WithCacheSize sets the number of cached query embeddings.
func WithCacheSize(size int) Option {
	return func(e *Engine) error {
		e.cacheSize = size
		return nil
	}
}

// WithAutoSave controls whether mutations persist immediately. Default true.
func WithAutoSave(autoSave bool) Option {
	return func(e *Engine) error {
		e.autoSave = autoSave
		return nil
	}
}

// WithReembedConfig configures batch embedding.
func WithReembedConfig(config *reembed.Config) Option {
	return func(e *Engine) error {
		e.reembedConfig = config
		return nil
	}
}

// WithProgress sets where embedding progress is written. Default discards it.
func WithProgress(w io.Writer) Option {
	return func(e *Engine) error {
		e.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// Open opens the engine rooted at root and loads any saved state.
func Open(ctx context.Context, root string, opts ...Option) (*Engine, error) {
	e := &Engine{
		root:                root,
		backend:             BackendFile,
		compactionThreshold: DefaultCompactionThreshold,
		cacheSize:           search.DefaultCacheSize,
		autoSave:            true,
		reembedConfig:       reembed.DefaultConfig(),
		progress:            io.Discard,
		logger:              slog.Default().With("component", "engine"),
		now:                 func() time.Time { return time.Now().UTC() },
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	if e.store == nil {
		store, err := openStore(root, e.backend)
		if err != nil {
			return nil, err
		}
		e.store = store
	}

	e.corpus = newCorpus(e.newVectorStore())

	cache, err := search.NewQueryCache(e.cacheSize)
	if err != nil {
		e.store.Close()
		return nil, err
	}
	e.cache = cache

	searchOpts := []search.Option{
		search.WithQueryCache(cache),
		search.WithLogger(e.logger.With("component", "searcher")),
	}
	if e.embedder != nil {
		searchOpts = append(searchOpts, search.WithEmbedder(e.embedder))
	}
	if e.suggester != nil {
		searchOpts = append(searchOpts, search.WithTermSuggester(e.suggester))
	}
	searcher, err := search.NewSearcher(e.corpus, searchOpts...)
	if err != nil {
		e.store.Close()
		return nil, err
	}
	e.searcher = searcher

	if err := e.Load(ctx); err != nil {
		e.store.Close()
		return nil, err
	}
	return e, nil
}

func openStore(root, backend string) (storage.Store, error) {
	switch backend {
	case BackendBadger:
		if root == "" {
			return nil, errors.New("index root path is required")
		}
		return badger.NewStore(filepath.Join(root, BadgerDir))
	default:
		return file.Open(root)
	}
}

// newVectorStore returns a flat index, or the keyword-only null store when
// there is no embedder.
func (e *Engine) newVectorStore() vector.Store {
	if e.embedder == nil {
		return vector.NewNull()
	}
	return vector.NewFlat(0)
}

// Close closes the store and the AI provider.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
		}
	}
	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing storage", "err", err)
		return err
	}
	return nil
}

// Root returns the index root directory.
func (e *Engine) Root() string {
	return e.root
}

// VectorStoreAvailable reports whether semantic search is possible.
func (e *Engine) VectorStoreAvailable() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.corpus.vectors.Available()
}

// Search runs req against the live entries.
func (e *Engine) Search(ctx context.Context, req search.Request) ([]*core.SearchResult, error) {
	return e.SearchWithMonitor(ctx, req, nil)
}

// SearchWithMonitor is Search with stage callbacks. Query expansion and the
// query embedding run before the read lock is taken, so writers only wait
// for scoring. A concurrent Reindex to a model of another dimension fails
// the search with vector.ErrDimensionMismatch.
func (e *Engine) SearchWithMonitor(ctx context.Context, req search.Request, monitor search.SearchMonitor) ([]*core.SearchResult, error) {
	q, err := e.searcher.Prepare(ctx, req)

	e.mu.RLock()
	defer e.mu.RUnlock()
	if err != nil {
		if e.corpus.LiveCount() > 0 {
			return nil, err
		}
		q = &search.Query{Request: req}
	}
	return e.searcher.Run(q, monitor)
}

// embedTexts embeds texts in batches on the worker pool.
func (e *Engine) embedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if e.embedder == nil {
		return nil, ErrEmbedderRequired
	}
	r, err := reembed.NewReembedder(e.embedder, e.reembedConfig, e.progress)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, texts)
}
