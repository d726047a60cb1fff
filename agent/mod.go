package agent

import (
	"boxes/experiments/metrics"
	"boxes/searcher"
)

type Agent interface {
	// FindMove returns the move to play for state.Player() and the search metrics (if collected)
	FindMove(state searcher.State) (searcher.Move, metrics.SearchMetric, error)
}
