package engine

import (
	"errors"

	"boxes/experiments/metrics"
)

const MaxMoves = 10000

var (
	ErrMoveLimit    = errors.New("game exceeded max moves")
	ErrUnseatedTurn = errors.New("no agent for the player to move")
)

type Engine interface {
	// Run plays a game till it ends or a max number of moves is reached. The
	// winner is "" on a draw.
	Run() (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
