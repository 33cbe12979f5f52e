package match

import "github.com/poiesic/cellmatch/core"

// Monitor receives callbacks while a query is matched.
// Callbacks are made from the goroutine calling Match.
type Monitor interface {
	StartQuery(query string)
	ColumnScored(query string, match core.ColumnMatch)
	FinishQuery(result *core.QueryMatch)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) StartQuery(_ string)                       {}
func (n *noopMonitor) ColumnScored(_ string, _ core.ColumnMatch) {}
func (n *noopMonitor) FinishQuery(_ *core.QueryMatch)            {}
