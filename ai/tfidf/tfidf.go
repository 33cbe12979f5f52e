// Package tfidf provides an offline ai.Embedder based on TF-IDF term weighting.
//
// The embedder must be fitted with Prepare before use. The matcher fits it on every
// candidate cell text and every query, so no network service is needed.
package tfidf

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/poiesic/cellmatch/ai"
)

var (
	// ErrNotPrepared is returned when embedding before Prepare.
	ErrNotPrepared = errors.New("tfidf embedder not prepared")

	// ErrEmptyCorpus is returned when Prepare finds no tokens.
	ErrEmptyCorpus = errors.New("no tokens found in corpus")
)

// Embedder implements a simple TF-IDF vectorizer.
// It builds a vocabulary from the corpus and computes IDF values.
type Embedder struct {
	mu           sync.RWMutex
	vocabulary   map[string]int
	idf          []float64
	prepared     bool
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
	logger       *slog.Logger
}

var (
	_ ai.Embedder = (*Embedder)(nil)
	_ ai.Preparer = (*Embedder)(nil)
)

// NewEmbedder creates an unprepared TF-IDF embedder.
func NewEmbedder() *Embedder {
	return &Embedder{
		vocabulary: make(map[string]int),
		// letters and digits so that ids, distances and dates produce tokens
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}]+(?:['’.][\p{L}\p{N}]+)*`),
		stopwords:    defaultStopwords(),
		logger:       slog.Default().With("component", "tfidf-embedder"),
	}
}

// Prepare builds the vocabulary and IDF values from the provided corpus.
// Calling Prepare again replaces the previous vocabulary.
func (e *Embedder) Prepare(corpus []string) error {
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return ErrEmptyCorpus
	}

	// Create stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		vocabulary[term] = i
		// Smoothed IDF
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	e.mu.Lock()
	e.vocabulary = vocabulary
	e.idf = idf
	e.prepared = true
	e.mu.Unlock()

	e.logger.Debug("vocabulary prepared", "documents", len(corpus), "terms", len(terms))
	return nil
}

// EmbedText computes the L2-normalized TF-IDF vector of text.
// Text without known terms yields a zero vector.
func (e *Embedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.embed(text)
}

// EmbedTexts computes TF-IDF vectors for every text.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vec, err := e.embed(text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// embed must be called with the read lock held.
func (e *Embedder) embed(text string) ([]float32, error) {
	if !e.prepared {
		return nil, ErrNotPrepared
	}

	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}

	vec := make([]float64, len(e.idf))
	if total > 0 {
		for idx, count := range tf {
			vec[idx] = float64(count) / float64(total) * e.idf[idx]
		}
	}

	// L2 normalize
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	out := make([]float32, len(vec))
	for i, v := range vec {
		if norm > 0 {
			v /= norm
		}
		out[i] = float32(v)
	}
	return out, nil
}

func (e *Embedder) tokenize(text string) []string {
	raw := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"show", "me", "find", "which", "what", "all", "any", "i", "want",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
