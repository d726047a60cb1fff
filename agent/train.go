package agent

import (
	"math"

	"boxes/experiments/metrics"
	"boxes/searcher"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"
)

type trainingAgent struct {
	mcts        *searcher.MCTS
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play during training. It samples
// moves from the visit counts, a temperature of 0 always plays the most visited.
func NewTrainingAgent(mcts *searcher.MCTS, temperature float64, seed uint64) Agent {
	return &trainingAgent{
		mcts:        mcts,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *trainingAgent) FindMove(state searcher.State) (searcher.Move, metrics.SearchMetric, error) {
	edges, metric, err := a.mcts.Policy(state, state.Player())
	if err != nil {
		return nil, metric, err
	}
	if a.temperature <= 0 {
		return lo.MaxBy(edges, func(x, y searcher.Edge) bool {
			return x.Visits > y.Visits
		}).Move, metric, nil
	}
	policy := adjustTemperature(edges, a.temperature)
	return edges[sample(policy, a.rng.Float64())].Move, metric, nil
}

// adjustTemperature returns move probabilities in the order of edges. Visits
// are scaled by the max before the power so small temperatures cannot overflow.
func adjustTemperature(edges []searcher.Edge, temperature float64) []float64 {
	exponent := 1.0 / temperature
	maxVisits := float64(lo.MaxBy(edges, func(x, y searcher.Edge) bool {
		return x.Visits > y.Visits
	}).Visits)
	sum := 0.0
	policy := make([]float64, len(edges))
	for i, edge := range edges {
		policy[i] = math.Pow(float64(edge.Visits)/maxVisits, exponent)
		sum += policy[i]
	}
	// Normalize
	for i := range policy {
		policy[i] /= sum
	}
	return policy
}

// sample returns the index drawn by u in [0, 1).
func sample(policy []float64, u float64) int {
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if u < cumulative {
			return i
		}
	}
	return len(policy) - 1 // Rounding errors
}
