package game

import "errors"

const (
	Red  = "red"
	Blue = "blue"
)

var ErrInvalidMove = errors.New("invalid move")

// Opponent returns the other player of a two player game.
func Opponent(player string) string {
	if player == Red {
		return Blue
	}
	return Red
}
