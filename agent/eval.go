package agent

import (
	"boxes/experiments/metrics"
	"boxes/searcher"
)

type evaluationAgent struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return evaluationAgent{mcts: mcts}
}

func (a evaluationAgent) FindMove(state searcher.State) (searcher.Move, metrics.SearchMetric, error) {
	return a.mcts.Decide(state, state.Player())
}
