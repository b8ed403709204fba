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

package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/profiledb/core"
)

// Syncer replaces the indexed entries of a profile. *profiledb.Engine
// satisfies it.
type Syncer interface {
	SyncProfile(ctx context.Context, name string, p *core.Profile) ([]int, error)
}

// Document is one profile to ingest. When Data is nil the file at Source is
// read.
type Document struct {
	Name   string
	Source string
	Data   []byte
}

// Result reports what happened to one document.
type Result struct {
	Name     string
	Source   string
	EntryIDs []int
	Err      error
}

// Pipeline orchestrates decoding and syncing of profile documents.
type Pipeline struct {
	syncer Syncer
	pool   *ants.Pool
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent decoding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline that syncs into syncer.
func NewPipeline(syncer Syncer, opts ...Option) (*Pipeline, error) {
	if syncer == nil {
		return nil, ErrSyncerRequired
	}

	pool, err := ants.NewPool(max(runtime.NumCPU()/2, 1))
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		syncer: syncer,
		pool:   pool,
		logger: slog.Default().With("component", "ingestion"),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Ingest decodes docs concurrently and syncs the valid ones in order.
// Per-document failures are reported in the results; the returned error is
// only set when ctx is cancelled.
func (p *Pipeline) Ingest(ctx context.Context, docs []Document) ([]Result, error) {
	results := make([]Result, len(docs))
	profiles := make([]*core.Profile, len(docs))

	var wg sync.WaitGroup
	for i, doc := range docs {
		results[i] = Result{Name: doc.Name, Source: doc.Source}
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			profiles[i], results[i].Err = decode(doc)
		})
		if err != nil {
			wg.Done()
			results[i].Err = err
		}
	}
	wg.Wait()

	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if results[i].Err != nil {
			p.logger.Warn("skipping profile", "profile", doc.Name, "source", doc.Source, "err", results[i].Err)
			continue
		}
		ids, err := p.syncer.SyncProfile(ctx, doc.Name, profiles[i])
		if err != nil {
			p.logger.Error("error syncing profile", "profile", doc.Name, "err", err)
			results[i].Err = err
			continue
		}
		results[i].EntryIDs = ids
		p.logger.Debug("ingested profile", "profile", doc.Name, "entries", len(ids))
	}
	return results, nil
}

// IngestFiles ingests the profile files at paths, naming each profile after
// its file name without extension.
func (p *Pipeline) IngestFiles(ctx context.Context, paths ...string) ([]Result, error) {
	docs := make([]Document, len(paths))
	for i, path := range paths {
		docs[i] = Document{Name: ProfileName(path), Source: path}
	}
	return p.Ingest(ctx, docs)
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// ProfileName derives a profile name from a file path.
func ProfileName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FindProfiles lists the .json files directly inside dir, sorted by name.
func FindProfiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}

func decode(doc Document) (*core.Profile, error) {
	data := doc.Data
	if data == nil {
		if doc.Source == "" {
			return nil, ErrEmptyDocument
		}
		var err error
		if data, err = os.ReadFile(doc.Source); err != nil {
			return nil, err
		}
	}
	profile, err := core.ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("decoding profile %q: %w", doc.Name, err)
	}
	if err := core.ValidateProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}
