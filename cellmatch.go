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


package cellmatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/cellmatch/ai"
	"github.com/poiesic/cellmatch/ai/openai"
	"github.com/poiesic/cellmatch/ai/tfidf"
	"github.com/poiesic/cellmatch/config"
	"github.com/poiesic/cellmatch/core"
	"github.com/poiesic/cellmatch/match"
	"github.com/poiesic/cellmatch/output"
	"github.com/poiesic/cellmatch/table"
)

// Runner matches a batch of queries against one dataset and writes the result files.
type Runner struct {
	cfg      *config.Config
	provider ai.AIProvider
	matcher  *match.Matcher
	progress io.Writer
	now      func() time.Time
	logger   *slog.Logger

	table *core.Table
}

// Report summarizes a completed run.
type Report struct {
	ResultsPath string
	DetailsPath string
	Fingerprint core.ID
	Results     []core.QueryResult
	Matches     []*core.QueryMatch
}

// Option configures a Runner.
type Option func(*runnerOptions)

type runnerOptions struct {
	provider ai.AIProvider
	progress io.Writer
	now      func() time.Time
}

// WithProvider uses provider instead of building one from the config.
// The runner takes ownership and closes it on Close.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *runnerOptions) {
		o.provider = provider
	}
}

// WithProgress reports per-query progress to w.
func WithProgress(w io.Writer) Option {
	return func(o *runnerOptions) {
		o.progress = w
	}
}

// WithClock sets the time source used to name output files.
func WithClock(now func() time.Time) Option {
	return func(o *runnerOptions) {
		o.now = now
	}
}

// NewProvider builds the AI provider selected by cfg.Provider.
func NewProvider(cfg *ai.Config) (ai.AIProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ai.ProviderTFIDF:
		return tfidf.NewProvider(), nil
	default:
		return openai.NewProvider(cfg)
	}
}

// NewRunner validates cfg and builds the provider and matcher.
func NewRunner(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	options := &runnerOptions{now: time.Now}
	for _, opt := range opts {
		opt(options)
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = NewProvider(cfg.AIConfig())
		if err != nil {
			return nil, err
		}
	}

	matcher, err := match.NewMatcher(provider.Embedder(),
		match.WithPoolSize(cfg.Matching.PoolSize),
		match.WithBatchSize(cfg.Matching.BatchSize),
		match.WithRetry(cfg.Matching.MaxRetries, cfg.Matching.RetryDelay),
	)
	if err != nil {
		provider.Close()
		return nil, err
	}

	return &Runner{
		cfg:      cfg,
		provider: provider,
		matcher:  matcher,
		progress: options.progress,
		now:      options.now,
		logger:   slog.Default().With("component", "runner"),
	}, nil
}

// Close releases the matcher and closes the provider.
func (r *Runner) Close() error {
	r.matcher.Release()
	if err := r.provider.Close(); err != nil {
		r.logger.Error("error closing AI provider", "err", err)
		return err
	}
	return nil
}

// Table returns the prepared dataset, loading it on first use.
func (r *Runner) Table() (*core.Table, error) {
	if r.table != nil {
		return r.table, nil
	}
	tbl, err := LoadTable(r.cfg)
	if err != nil {
		return nil, err
	}
	r.table = tbl
	return tbl, nil
}

// LoadTable loads the configured dataset, keeps the selected columns and adds
// stringified twins for every non-textual column.
func LoadTable(cfg *config.Config) (*core.Table, error) {
	logger := slog.Default().With("component", "runner")

	opts, err := cfg.TableOptions()
	if err != nil {
		return nil, err
	}
	logger.Info("loading data", "path", cfg.Data.Path)
	raw, err := table.Load(cfg.Data.Path, opts)
	if err != nil {
		return nil, err
	}

	var selected []string
	if cfg.Inputs.Columns != "" {
		selected, err = table.ReadLines(cfg.Inputs.Columns)
		if err != nil {
			return nil, err
		}
	}
	logger.Info("filtering columns", "columns", selected)
	filtered, err := table.Filter(raw, selected)
	if err != nil {
		return nil, err
	}

	tbl, err := table.AddStringTwins(filtered)
	if err != nil {
		return nil, err
	}
	logger.Info("data filtered", "rows", tbl.Rows(), "columns", len(tbl.Columns()))
	return tbl, nil
}

// Run matches every configured query and writes the results and details files.
// Queries without a best match are left out of the results but kept in the details.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	tbl, err := r.Table()
	if err != nil {
		return nil, err
	}

	r.logger.Info("reading user queries", "path", r.cfg.Inputs.Queries)
	queries, err := table.ReadLines(r.cfg.Inputs.Queries)
	if err != nil {
		return nil, err
	}
	r.logger.Info("user queries read", "count", len(queries))

	if err := r.prepare(tbl, queries); err != nil {
		return nil, err
	}

	var monitor match.Monitor
	var tracker *match.ProgressTracker
	if r.progress != nil {
		tracker = match.NewProgressTracker(r.progress, len(queries))
		tracker.Start()
		monitor = tracker
	}

	report := &Report{
		Fingerprint: tbl.Fingerprint(),
		Results:     []core.QueryResult{},
	}
	details := &output.Details{}
	for _, query := range queries {
		m, err := r.matcher.MatchWithMonitor(ctx, tbl, query, monitor)
		if err != nil {
			return nil, fmt.Errorf("matching query %q: %w", query, err)
		}
		report.Matches = append(report.Matches, m)
		details.Add(m)
		if res, ok := m.Result(); ok {
			report.Results = append(report.Results, res)
		}
	}
	if tracker != nil {
		tracker.Finish()
	}

	now := r.now()
	outs := r.cfg.Outputs
	report.ResultsPath, err = output.VersionedFilename(outs.ResultsDir, outs.ResultsPrefix, outs.FilenameSuffix, now)
	if err != nil {
		return nil, err
	}
	if err := output.WriteResults(report.ResultsPath, report.Results); err != nil {
		return nil, err
	}

	report.DetailsPath, err = output.VersionedFilename(outs.DetailsDir, outs.DetailsPrefix, outs.FilenameSuffix, now)
	if err != nil {
		return nil, err
	}
	if err := output.WriteDetails(report.DetailsPath, details); err != nil {
		return nil, err
	}

	r.logger.Info("run complete", "queries", len(queries), "matched", len(report.Results),
		"fingerprint", report.Fingerprint.String())
	return report, nil
}

// MatchOne matches a single query against the configured dataset without writing files.
func (r *Runner) MatchOne(ctx context.Context, query string) (*core.QueryMatch, error) {
	tbl, err := r.Table()
	if err != nil {
		return nil, err
	}
	if err := r.prepare(tbl, []string{query}); err != nil {
		return nil, err
	}
	return r.matcher.Match(ctx, tbl, query)
}

// prepare fits embedders that need a vocabulary on every candidate text and query.
func (r *Runner) prepare(tbl *core.Table, queries []string) error {
	preparer, ok := r.provider.Embedder().(ai.Preparer)
	if !ok {
		return nil
	}

	var corpus []string
	for _, col := range tbl.Searchable() {
		for _, cand := range col.Values.Unique() {
			corpus = append(corpus, strings.ToLower(cand.Text))
		}
	}
	for _, q := range queries {
		corpus = append(corpus, strings.ToLower(q))
	}

	r.logger.Debug("preparing embedder", "documents", len(corpus))
	if err := preparer.Prepare(corpus); err != nil {
		return fmt.Errorf("preparing embedder: %w", err)
	}
	return nil
}
