package match

import "errors"

var (
	// ErrEmbedderRequired is returned when a Matcher is built without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrTableRequired is returned when matching against a nil table.
	ErrTableRequired = errors.New("table required")

	// ErrDimensionMismatch is returned when a value and the query embed to different lengths.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingCount is returned when the embedder returns the wrong number of vectors.
	ErrEmbeddingCount = errors.New("embedding result mismatch")

	// ErrEmptyEmbedding is returned when the query embeds to an empty vector.
	ErrEmptyEmbedding = errors.New("empty query embedding")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
