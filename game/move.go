package game

import (
	"fmt"
)

type Orientation byte

const (
	Horizontal Orientation = 'h'
	Vertical   Orientation = 'v'
)

// Move draws one line. A horizontal line (r, c) is the top side of box (r, c),
// a vertical line (r, c) is its left side.
type Move struct {
	Orientation Orientation
	Row         int
	Col         int
}

func H(row, col int) Move {
	return Move{Orientation: Horizontal, Row: row, Col: col}
}

func V(row, col int) Move {
	return Move{Orientation: Vertical, Row: row, Col: col}
}

func (m Move) String() string {
	return fmt.Sprintf("%c(%d,%d)", m.Orientation, m.Row, m.Col)
}

// ParseMove reads the String form of a move, e.g. "h(1,0)".
func ParseMove(s string) (Move, error) {
	var o rune
	var m Move
	if _, err := fmt.Sscanf(s, "%c(%d,%d)", &o, &m.Row, &m.Col); err != nil {
		return Move{}, fmt.Errorf("parsing move %q: %w", s, err)
	}
	m.Orientation = Orientation(o)
	if m.Orientation != Horizontal && m.Orientation != Vertical {
		return Move{}, fmt.Errorf("parsing move %q: unknown orientation %c", s, o)
	}
	return m, nil
}
