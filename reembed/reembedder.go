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

package reembed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/profiledb/ai"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of texts sent to the embedder per call
	BatchSize int

	// ReportInterval is how often to report progress (number of texts)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// PoolSize is the number of batches embedded concurrently
	PoolSize int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		PoolSize:       4,
	}
}

// Reembedder embeds whole corpora with one embedder.
type Reembedder struct {
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	logger    *slog.Logger
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr); nil disables it
func NewReembedder(embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(embedder, max(config.MaxRetries, 1), config.RetryDelay),
		logger:    slog.Default().With("component", "reembedder"),
	}, nil
}

// Run embeds texts and returns one unit-length vector per text, in order.
// Either every text is embedded or an error is returned; partial results are
// never returned.
func (r *Reembedder) Run(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	pool, err := ants.NewPool(max(r.config.PoolSize, 1))
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.logger.Info("embedding corpus", "texts", len(texts), "batchSize", r.config.BatchSize)
	tracker := NewProgressTracker(r.progress, len(texts), r.config.ReportInterval)
	tracker.Start()

	var (
		wg       sync.WaitGroup
		failOnce sync.Once
		firstErr error
	)
	fail := func(err error) {
		failOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	vectors := make([][]float32, len(texts))
	for batch := range Batches(texts, r.config.BatchSize) {
		if runCtx.Err() != nil {
			break
		}
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			out, err := r.processor.Process(runCtx, batch.Texts)
			if err != nil {
				fail(fmt.Errorf("batch at %d: %w", batch.Offset, err))
				return
			}
			copy(vectors[batch.Offset:], out)
			tracker.Increment(len(out))
		})
		if submitErr != nil {
			wg.Done()
			fail(submitErr)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		if errors.Is(firstErr, context.Canceled) && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := checkDimensions(vectors); err != nil {
		return nil, err
	}

	tracker.Finish()
	elapsed := tracker.Elapsed()
	r.logger.Info("embedding complete", "texts", len(texts), "elapsed", elapsed.Round(time.Millisecond))
	return vectors, nil
}
