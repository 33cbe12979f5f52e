package match

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/poiesic/cellmatch/core"
)

// ProgressTracker reports progress of a batch of queries to a writer.
// It implements Monitor.
type ProgressTracker struct {
	writer    io.Writer
	total     int
	current   int
	columns   int
	matched   int
	startTime time.Time
	started   bool
	mu        sync.Mutex
}

var _ Monitor = (*ProgressTracker)(nil)

// NewProgressTracker creates a new progress tracker.
// writer: where to write progress output (typically os.Stderr)
// total: total number of queries to process
func NewProgressTracker(writer io.Writer, total int) *ProgressTracker {
	return &ProgressTracker{
		writer: writer,
		total:  total,
	}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.current = 0
	p.matched = 0
}

// StartQuery resets the per-query column count.
func (p *ProgressTracker) StartQuery(_ string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.columns = 0
}

// ColumnScored counts a scored column.
func (p *ProgressTracker) ColumnScored(_ string, _ core.ColumnMatch) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.columns++
}

// FinishQuery advances progress by one query and reports.
func (p *ProgressTracker) FinishQuery(result *core.QueryMatch) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	if p.current < p.total {
		p.current++
	}
	if result != nil && result.Best != nil {
		p.matched++
	}
	p.report()
}

// Finish marks the batch as complete and prints final progress.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.current = p.total
	p.report()
	fmt.Fprintln(p.writer) // Print newline after final progress
}

// Matched returns the number of queries that produced a best match.
func (p *ProgressTracker) Matched() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.matched
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}

	return time.Since(p.startTime)
}

// report prints the current progress. Must be called with lock held.
func (p *ProgressTracker) report() {
	elapsed := time.Since(p.startTime)
	rate := float64(p.current) / elapsed.Seconds()

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rQueries: %d/%d (%.1f%%) - %d matched, %d columns - %.1f queries/s",
		p.current, p.total, percentage, p.matched, p.columns, rate)
}
