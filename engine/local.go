package engine

import (
	"fmt"
	"time"

	"boxes/agent"
	"boxes/experiments/metrics"
	"boxes/searcher"

	"github.com/rs/zerolog/log"
)

type localEngine struct {
	agents   map[string]agent.Agent
	state    searcher.State
	maxMoves int
}

// LocalEngine runs agents keyed by player identity in process, on a copy of state.
func LocalEngine(agents map[string]agent.Agent, state searcher.State) Engine {
	if len(agents) < 2 {
		panic("need at least two agents")
	}
	return &localEngine{
		agents:   agents,
		state:    state.Copy(),
		maxMoves: MaxMoves,
	}
}

func (e *localEngine) Run() (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.state.Player(),
		StartTime:      time.Now(),
	}
	moveMetrics := []metrics.MoveMetric{}

	log.Info().Msgf("player %s is starting", gameMetric.StartingPlayer)

	step := 1
	for ; !e.state.IsTerminal(); step++ {
		if step > e.maxMoves {
			return "", e.complete(gameMetric, step-1), moveMetrics, fmt.Errorf("%w: %d", ErrMoveLimit, e.maxMoves)
		}

		player := e.state.Player()
		a, ok := e.agents[player]
		if !ok {
			return "", e.complete(gameMetric, step-1), moveMetrics, fmt.Errorf("%w: %s", ErrUnseatedTurn, player)
		}

		move, searchMetric, err := a.FindMove(e.state)
		if err != nil {
			return "", e.complete(gameMetric, step-1), moveMetrics, fmt.Errorf("move %d by %s: %w", step, player, err)
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player,
			SearchMetric: searchMetric,
		})

		if err := e.state.Play(move); err != nil {
			return "", e.complete(gameMetric, step-1), moveMetrics, fmt.Errorf("move %d by %s: %w", step, player, err)
		}
		log.Debug().Int("step", step).Str("player", player).Stringer("move", move).Msg("played")
	}

	winner := e.state.Winner()
	gameMetric = e.complete(gameMetric, step-1)
	gameMetric.Winner = winner
	if winner == "" {
		log.Info().Msgf("game drawn after %d moves", gameMetric.TotalMoves)
	} else {
		log.Info().Msgf("player %s won after %d moves", winner, gameMetric.TotalMoves)
	}
	return winner, gameMetric, moveMetrics, nil
}

func (e *localEngine) complete(gameMetric metrics.GameMetric, moves int) metrics.GameMetric {
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = moves
	return gameMetric
}
