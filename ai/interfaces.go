package ai

import "context"

// Embedder turns text into vectors that can be compared with cosine similarity.
// Every vector produced by one Embedder has the same length.
type Embedder interface {
	// EmbedText embeds a single query or cell text.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts embeds a batch of texts. The result holds one vector per input text,
	// in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Preparer is implemented by embedders that must be fitted on a corpus before use.
// Prepare replaces any earlier fit.
type Preparer interface {
	Prepare(corpus []string) error
}

// AIProvider owns an embedder and the resources behind it.
type AIProvider interface {
	// Embedder returns the provider's embedder. It is safe for concurrent use.
	Embedder() Embedder

	// Close releases the provider. The embedder must not be used afterwards.
	Close() error
}
