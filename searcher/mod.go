package searcher

import "errors"

// Move is a game move. Implementations must be comparable so moves can key
// a node's children.
type Move interface {
	String() string
}

// State is the game position consumed by the search. Play mutates the state
// in place, so the search only ever plays moves on copies.
type State interface {
	Player() string
	// LegalMoves returns a fresh slice the caller may modify
	LegalMoves() []Move
	Play(Move) error
	IsTerminal() bool
	// Winner is only meaningful once terminal, "" means a draw
	Winner() string
	Copy() State
}

// Advisor can be implemented by a State to bias heuristic rollouts.
type Advisor interface {
	// Captures returns legal moves that score immediately for the player to move
	Captures() []Move
	// Concessions returns legal moves that leave a scoring move for the opponent
	Concessions() []Move
}

// Use rewards to estimate the chance of winning
const (
	Win  = 1.0
	Draw = 0.5
	Loss = 0.0
)

var (
	ErrNoMoves        = errors.New("no legal moves to decide from")
	ErrStalledRollout = errors.New("rollout reached a non-terminal state without legal moves")
	ErrRolloutTooLong = errors.New("rollout exceeded max depth")
	ErrInvalidSearch  = errors.New("invalid search parameters")
)

func computeReward(winner string, identity string) float64 {
	switch winner {
	case identity:
		return Win
	case "":
		return Draw
	default:
		return Loss
	}
}
