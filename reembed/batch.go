package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/profiledb/ai"
	"github.com/poiesic/profiledb/index/vector"
)

// BatchProcessor turns one batch of texts into unit-length vectors.
type BatchProcessor struct {
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds texts and returns one normalized vector per text, in order.
func (bp *BatchProcessor) Process(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	embeddings, err := RetryWithBackoff(ctx, bp.maxRetries, bp.retryBaseDelay, func(ctx context.Context) ([][]float32, error) {
		return bp.embedder.EmbedTexts(ctx, texts)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrCountMismatch, len(texts), len(embeddings))
	}

	vectors := make([][]float32, len(embeddings))
	for i, embedding := range embeddings {
		v, ok := vector.Normalize(embedding)
		if !ok {
			return nil, fmt.Errorf("%w: text %d", ErrZeroVector, i)
		}
		vectors[i] = v
	}
	if _, err := checkDimensions(vectors); err != nil {
		return nil, err
	}
	return vectors, nil
}
