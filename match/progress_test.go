package match

import (
	"bytes"
	"testing"
	"time"

	"github.com/poiesic/cellmatch/core"
	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 2)
	tracker.Start()

	tracker.StartQuery("first")
	tracker.ColumnScored("first", core.NoMatch("a"))
	tracker.ColumnScored("first", core.NoMatch("b"))
	best := core.ColumnMatch{Column: "a", Value: "x", Score: 0.5}
	tracker.FinishQuery(&core.QueryMatch{Query: "first", Best: &best})
	assert.Contains(t, buf.String(), "Queries: 1/2 (50.0%) - 1 matched, 2 columns")

	tracker.StartQuery("second")
	tracker.FinishQuery(&core.QueryMatch{Query: "second"})
	assert.Contains(t, buf.String(), "Queries: 2/2 (100.0%) - 1 matched, 0 columns")

	tracker.Finish()
	assert.Equal(t, 1, tracker.Matched())
	assert.Greater(t, tracker.Elapsed(), time.Duration(0))
	assert.Contains(t, buf.String(), "\n", "finish should print newline")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1)

	tracker.FinishQuery(&core.QueryMatch{Query: "q"})
	tracker.Finish()

	assert.Empty(t, buf.String())
	assert.Equal(t, time.Duration(0), tracker.Elapsed())
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1)
	tracker.Start()

	tracker.FinishQuery(nil)
	tracker.FinishQuery(nil)

	assert.Contains(t, buf.String(), "Queries: 1/1")
	assert.NotContains(t, buf.String(), "2/1")
}
