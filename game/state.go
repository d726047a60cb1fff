package game

import (
	"fmt"
	"strings"

	"boxes/searcher"
)

type box struct {
	row, col int
}

// State is a dots-and-boxes position on a rows x cols grid of boxes. The
// player completing a box scores it and moves again.
type State struct {
	rows      int
	cols      int
	hLines    []bool   // (rows+1) x cols
	vLines    []bool   // rows x (cols+1)
	owners    []string // rows x cols, "" while open
	player    string
	remaining int
}

// NewState returns an empty board with red to move.
func NewState(rows, cols int) *State {
	if rows < 1 || cols < 1 {
		panic(fmt.Sprintf("invalid board size %dx%d", rows, cols))
	}
	hLines := (rows + 1) * cols
	vLines := rows * (cols + 1)
	return &State{
		rows:      rows,
		cols:      cols,
		hLines:    make([]bool, hLines),
		vLines:    make([]bool, vLines),
		owners:    make([]string, rows*cols),
		player:    Red,
		remaining: hLines + vLines,
	}
}

func (s *State) Player() string {
	return s.player
}

// LegalMoves lists undrawn lines, horizontal lines first, row by row.
func (s *State) LegalMoves() []searcher.Move {
	moves := make([]searcher.Move, 0, s.remaining)
	for r := 0; r <= s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			if !s.hLines[r*s.cols+c] {
				moves = append(moves, H(r, c))
			}
		}
	}
	for r := 0; r < s.rows; r++ {
		for c := 0; c <= s.cols; c++ {
			if !s.vLines[r*(s.cols+1)+c] {
				moves = append(moves, V(r, c))
			}
		}
	}
	return moves
}

func (s *State) Play(move searcher.Move) error {
	m, ok := move.(Move)
	if !ok || !s.inBounds(m) || s.isDrawn(m) {
		return fmt.Errorf("%w: %v by %s", ErrInvalidMove, move, s.player)
	}

	s.draw(m)
	s.remaining--

	scored := false
	for _, b := range s.adjacent(m) {
		if s.sides(b) == 4 {
			s.owners[b.row*s.cols+b.col] = s.player
			scored = true
		}
	}
	if !scored {
		s.player = Opponent(s.player)
	}
	return nil
}

func (s *State) IsTerminal() bool {
	return s.remaining == 0
}

// Winner returns the player with more boxes, "" on a draw or before the end.
func (s *State) Winner() string {
	if !s.IsTerminal() {
		return ""
	}
	red, blue := s.Score(Red), s.Score(Blue)
	switch {
	case red > blue:
		return Red
	case blue > red:
		return Blue
	default:
		return ""
	}
}

func (s *State) Score(player string) int {
	score := 0
	for _, owner := range s.owners {
		if owner == player {
			score++
		}
	}
	return score
}

func (s *State) Copy() searcher.State {
	return s.clone()
}

func (s *State) clone() *State {
	c := *s
	c.hLines = append([]bool(nil), s.hLines...)
	c.vLines = append([]bool(nil), s.vLines...)
	c.owners = append([]string(nil), s.owners...)
	return &c
}

// Captures returns the legal moves completing at least one box.
func (s *State) Captures() []searcher.Move {
	var moves []searcher.Move
	for _, move := range s.LegalMoves() {
		if s.completes(move.(Move)) {
			moves = append(moves, move)
		}
	}
	return moves
}

// Concessions returns the legal moves that complete nothing but leave a box
// with three sides for the opponent.
func (s *State) Concessions() []searcher.Move {
	var moves []searcher.Move
	for _, move := range s.LegalMoves() {
		m := move.(Move)
		if s.completes(m) {
			continue
		}
		for _, b := range s.adjacent(m) {
			if s.sides(b) == 2 {
				moves = append(moves, move)
				break
			}
		}
	}
	return moves
}

func (s *State) completes(m Move) bool {
	for _, b := range s.adjacent(m) {
		if s.sides(b) == 3 {
			return true
		}
	}
	return false
}

func (s *State) inBounds(m Move) bool {
	switch m.Orientation {
	case Horizontal:
		return m.Row >= 0 && m.Row <= s.rows && m.Col >= 0 && m.Col < s.cols
	case Vertical:
		return m.Row >= 0 && m.Row < s.rows && m.Col >= 0 && m.Col <= s.cols
	default:
		return false
	}
}

func (s *State) isDrawn(m Move) bool {
	if m.Orientation == Horizontal {
		return s.hLines[m.Row*s.cols+m.Col]
	}
	return s.vLines[m.Row*(s.cols+1)+m.Col]
}

func (s *State) draw(m Move) {
	if m.Orientation == Horizontal {
		s.hLines[m.Row*s.cols+m.Col] = true
	} else {
		s.vLines[m.Row*(s.cols+1)+m.Col] = true
	}
}

// adjacent returns the boxes bordered by m.
func (s *State) adjacent(m Move) []box {
	boxes := make([]box, 0, 2)
	if m.Orientation == Horizontal {
		if m.Row < s.rows {
			boxes = append(boxes, box{m.Row, m.Col})
		}
		if m.Row > 0 {
			boxes = append(boxes, box{m.Row - 1, m.Col})
		}
		return boxes
	}
	if m.Col < s.cols {
		boxes = append(boxes, box{m.Row, m.Col})
	}
	if m.Col > 0 {
		boxes = append(boxes, box{m.Row, m.Col - 1})
	}
	return boxes
}

// sides counts the drawn sides of b.
func (s *State) sides(b box) int {
	count := 0
	for _, m := range []Move{H(b.row, b.col), H(b.row+1, b.col), V(b.row, b.col), V(b.row, b.col+1)} {
		if s.isDrawn(m) {
			count++
		}
	}
	return count
}

// String draws the board, boxes are marked with the first letter of their owner.
func (s *State) String() string {
	var sb strings.Builder
	for r := 0; r <= s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			sb.WriteString("+")
			if s.hLines[r*s.cols+c] {
				sb.WriteString("--")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteString("+\n")
		if r == s.rows {
			break
		}
		for c := 0; c <= s.cols; c++ {
			if s.vLines[r*(s.cols+1)+c] {
				sb.WriteString("|")
			} else {
				sb.WriteString(" ")
			}
			if c == s.cols {
				break
			}
			if owner := s.owners[r*s.cols+c]; owner != "" {
				sb.WriteString(owner[:1] + " ")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "%s %d - %s %d, %s to move\n", Red, s.Score(Red), Blue, s.Score(Blue), s.player)
	return sb.String()
}
