package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/cellmatch/ai"
	"github.com/poiesic/cellmatch/core"
)

const (
	defaultBatchSize  = 32
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
)

// Matcher finds the best matching cell of a table for free-text queries.
type Matcher struct {
	embedder   ai.Embedder
	pool       *ants.Pool
	batchSize  int
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithPoolSize sets the number of embedding batches in flight.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(m *Matcher) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if m.pool != nil {
			m.pool.Release()
		}
		m.pool = pool
		return nil
	}
}

// WithBatchSize sets how many values are sent to the embedder per call.
func WithBatchSize(size int) Option {
	return func(m *Matcher) error {
		if size < 1 {
			return fmt.Errorf("batch size must be greater than 0, got %d", size)
		}
		m.batchSize = size
		return nil
	}
}

// WithRetry sets the attempts per embedding call and the first backoff delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(m *Matcher) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		m.maxRetries = maxAttempts
		m.retryDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger.With("component", "matcher")
		return nil
	}
}

// NewMatcher creates a matcher that embeds with embedder.
// Release must be called when the matcher is no longer needed.
func NewMatcher(embedder ai.Embedder, opts ...Option) (*Matcher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	m := &Matcher{
		embedder:   embedder,
		pool:       pool,
		batchSize:  defaultBatchSize,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		logger:     slog.Default().With("component", "matcher"),
	}

	for _, opt := range opts {
		if optErr := opt(m); optErr != nil {
			m.Release()
			return nil, optErr
		}
	}
	return m, nil
}

// Release releases the worker pool.
// The matcher should not be used after calling Release.
func (m *Matcher) Release() {
	if m.pool != nil {
		m.pool.Release()
	}
}

// Match finds the best matching cell of tbl for query.
func (m *Matcher) Match(ctx context.Context, tbl *core.Table, query string) (*core.QueryMatch, error) {
	return m.MatchWithMonitor(ctx, tbl, query, nil)
}

// MatchWithMonitor finds the best matching cell of tbl for query with monitoring.
// Every searchable column is scored; the result carries each column's best match, the
// overall best match and the rows holding the best value.
func (m *Matcher) MatchWithMonitor(ctx context.Context, tbl *core.Table, query string, monitor Monitor) (*core.QueryMatch, error) {
	if tbl == nil {
		return nil, ErrTableRequired
	}
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	m.logger.Info("processing user query", "query", query)
	monitor.StartQuery(query)

	queryVec, err := m.embedQuery(ctx, query)
	if err != nil {
		m.logger.Error("error embedding query", "query", query, "err", err)
		return nil, err
	}

	result := &core.QueryMatch{Query: query}
	for _, col := range tbl.Searchable() {
		m.logger.Debug("calculating similarities", "column", col.Name, "source", col.Values.Name)

		best, err := m.MatchColumn(ctx, col, queryVec)
		if err != nil {
			m.logger.Error("error scoring column", "column", col.Name, "err", err)
			return nil, err
		}
		result.Columns = append(result.Columns, best)
		monitor.ColumnScored(query, best)
	}

	result.Best = OverallBest(result.Columns)
	if result.Best != nil {
		result.Rows = MatchingRows(tbl, result.Best)
		m.logger.Info("best match found", "query", query, "column", result.Best.Column,
			"value", result.Best.Value, "score", result.Best.Score, "rows", len(result.Rows))
	} else {
		m.logger.Warn("no match found", "query", query)
	}

	monitor.FinishQuery(result)
	return result, nil
}

// MatchColumn embeds every distinct value of col and returns the column's best match
// against the query vector.
func (m *Matcher) MatchColumn(ctx context.Context, col core.SearchColumn, queryVec []float32) (core.ColumnMatch, error) {
	candidates := col.Values.Unique()
	if len(candidates) == 0 {
		return core.NoMatch(col.Name), nil
	}

	texts := make([]string, len(candidates))
	for i, cand := range candidates {
		texts[i] = strings.ToLower(cand.Text)
	}

	vectors, err := m.embedAll(ctx, texts)
	if err != nil {
		return core.ColumnMatch{}, err
	}
	return BestInColumn(col, candidates, vectors, queryVec)
}

func (m *Matcher) embedQuery(ctx context.Context, query string) ([]float32, error) {
	var vec []float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vec, err = m.embedder.EmbedText(ctx, strings.ToLower(query))
		return err
	}, m.maxRetries, m.retryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query after %d attempts: %w", m.maxRetries, err)
	}
	if len(vec) == 0 {
		return nil, ErrEmptyEmbedding
	}
	return vec, nil
}

// embedAll embeds texts in batches on the worker pool.
// The returned vectors are in the order of texts.
func (m *Matcher) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	batches := (len(texts) + m.batchSize - 1) / m.batchSize
	errs := make([]error, batches)

	var wg sync.WaitGroup
	for b := 0; b < batches; b++ {
		b := b
		start := b * m.batchSize
		end := min(start+m.batchSize, len(texts))

		wg.Add(1)
		submitErr := m.pool.Submit(func() {
			defer wg.Done()
			errs[b] = RetryWithBackoff(ctx, func() error {
				batch, err := m.embedder.EmbedTexts(ctx, texts[start:end])
				if err != nil {
					return err
				}
				if len(batch) != end-start {
					return fmt.Errorf("%w: expected %d, received %d", ErrEmbeddingCount, end-start, len(batch))
				}
				copy(vectors[start:end], batch)
				return nil
			}, m.maxRetries, m.retryDelay)
		})
		if submitErr != nil {
			wg.Done()
			errs[b] = submitErr
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to embed values: %w", err)
	}
	return vectors, nil
}
