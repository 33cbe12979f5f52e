package tfidf

import "github.com/poiesic/cellmatch/ai"

// Provider implements ai.AIProvider around a TF-IDF embedder.
type Provider struct {
	embedder *Embedder
}

// NewProvider returns a provider with an unprepared embedder.
// The embedder implements ai.Preparer; callers fit it before embedding.
func NewProvider() ai.AIProvider {
	return &Provider{embedder: NewEmbedder()}
}

// Embedder returns the TF-IDF embedder.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Close is a no-op.
func (p *Provider) Close() error {
	return nil
}
