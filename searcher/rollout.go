package searcher

import (
	"fmt"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"
)

const DefaultMaxRolloutDepth = 10000

// Rollout picks moves during simulation. moves is never empty.
type Rollout interface {
	Pick(state State, moves []Move, rng *rand.Rand) Move
}

type randomRollout struct{}

type heuristicRollout struct{}

var (
	RandomRollout    Rollout = randomRollout{}
	HeuristicRollout Rollout = heuristicRollout{}
)

func ParseRollout(s string) (Rollout, bool) {
	switch s {
	case "", "random":
		return RandomRollout, true
	case "heuristic":
		return HeuristicRollout, true
	default:
		return RandomRollout, false
	}
}

func (randomRollout) Pick(_ State, moves []Move, rng *rand.Rand) Move {
	return moves[rng.Intn(len(moves))]
}

func (randomRollout) String() string {
	return "random"
}

// Pick takes a capture when one exists and otherwise avoids conceding a
// capture, unless every legal move is a concession.
func (heuristicRollout) Pick(state State, moves []Move, rng *rand.Rand) Move {
	advisor, ok := state.(Advisor)
	if !ok {
		return moves[rng.Intn(len(moves))]
	}

	if captures := advisor.Captures(); len(captures) > 0 {
		return captures[rng.Intn(len(captures))]
	}

	concessions := advisor.Concessions()
	safe := lo.Filter(moves, func(move Move, _ int) bool {
		return !lo.Contains(concessions, move)
	})
	if len(safe) == 0 {
		safe = moves
	}
	return safe[rng.Intn(len(safe))]
}

func (heuristicRollout) String() string {
	return "heuristic"
}

// rollout plays state to the end and returns the number of moves played.
func rollout(state State, policy Rollout, rng *rand.Rand, maxDepth int) (int, error) {
	depth := 0
	for !state.IsTerminal() {
		if depth >= maxDepth {
			return depth, ErrRolloutTooLong
		}
		moves := state.LegalMoves()
		if len(moves) == 0 {
			return depth, ErrStalledRollout
		}

		move := policy.Pick(state, moves, rng)
		if err := state.Play(move); err != nil {
			return depth, fmt.Errorf("rollout %s: %w", move, err)
		}
		depth++
	}
	return depth, nil
}
