package agent

import (
	"boxes/experiments/metrics"
	"boxes/searcher"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns a baseline agent playing uniformly random legal moves.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(state searcher.State) (searcher.Move, metrics.SearchMetric, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return nil, metrics.SearchMetric{}, searcher.ErrNoMoves
	}
	return moves[a.rng.Intn(len(moves))], metrics.SearchMetric{}, nil
}
