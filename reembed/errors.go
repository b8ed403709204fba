package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrEmbedderRequired is returned when no embedder is configured.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrCountMismatch is returned when the embedder returns a different
	// number of vectors than texts.
	ErrCountMismatch = errors.New("embedding count mismatch")

	// ErrZeroVector is returned when the embedder produces an empty or all-zero vector.
	ErrZeroVector = errors.New("zero embedding vector")

	// ErrDimensionMismatch is returned when vectors of one run differ in length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
