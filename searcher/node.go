package searcher

import (
	"fmt"
	"strings"

	"golang.org/x/exp/rand"
)

const (
	rootID   = 0
	noParent = -1
)

// node lives in a tree arena. parent is only used to walk back up during
// backup, children are owned through the arena.
type node struct {
	parent   int
	action   Move
	children []int        // Expansion order
	explored map[Move]int // Move -> child id
	untried  []Move
	visits   int
	wins     float64
}

type tree struct {
	nodes []node
}

func newTree(moves []Move) *tree {
	t := &tree{nodes: make([]node, 0, 64)}
	t.add(noParent, nil, moves)
	return t
}

// add creates a node reached by action from parent with moves as its untried
// actions. moves is copied.
func (t *tree) add(parent int, action Move, moves []Move) int {
	untried := make([]Move, len(moves))
	copy(untried, moves)

	t.nodes = append(t.nodes, node{
		parent:   parent,
		action:   action,
		explored: make(map[Move]int),
		untried:  untried,
	})
	id := len(t.nodes) - 1

	if parent != noParent {
		p := &t.nodes[parent]
		p.children = append(p.children, id)
		p.explored[action] = id
	}
	return id
}

// selects descends from the root while nodes are fully expanded, playing
// each chosen move on state. Nodes on the searching identity's turn maximize
// its win rate, the others minimize it.
func (t *tree) selects(state State, identity string, exploreFaction float64) (int, error) {
	id := rootID
	for {
		n := &t.nodes[id]
		if len(n.untried) > 0 || len(n.children) == 0 {
			return id, nil
		}

		child := t.pickChild(id, state.Player() != identity, exploreFaction)
		move := t.nodes[child].action
		if err := state.Play(move); err != nil {
			return id, fmt.Errorf("selecting %s: %w", move, err)
		}
		id = child
	}
}

// pickChild returns the first child with the max UCT value.
func (t *tree) pickChild(id int, minimizing bool, exploreFaction float64) int {
	n := &t.nodes[id]
	if n.visits == 0 {
		panic("node has children but no visits")
	}

	policy := newUCT(exploreFaction, float64(n.visits))
	maxChild := -1
	maxScore := 0.0
	for _, c := range n.children {
		child := &t.nodes[c]
		if child.visits == 0 {
			panic(fmt.Sprintf("child %s has no visits", child.action))
		}
		score := policy.evaluate(child.wins, float64(child.visits), minimizing)
		if maxChild == -1 || score > maxScore {
			maxScore = score
			maxChild = c
		}
	}
	return maxChild
}

// expand plays a random untried move on state and adds the resulting child.
// A node without untried moves is returned unchanged.
func (t *tree) expand(id int, state State, rng *rand.Rand) (int, error) {
	n := &t.nodes[id]
	if len(n.untried) == 0 {
		return id, nil
	}

	i := rng.Intn(len(n.untried))
	move := n.untried[i]
	if err := state.Play(move); err != nil {
		return id, fmt.Errorf("expanding %s: %w", move, err)
	}
	n.untried = append(n.untried[:i], n.untried[i+1:]...)

	return t.add(id, move, state.LegalMoves()), nil
}

// backup credits reward to id and every ancestor up to the root.
func (t *tree) backup(id int, reward float64) {
	for id != noParent {
		n := &t.nodes[id]
		n.visits++
		n.wins += reward
		id = n.parent
	}
}

func (t *tree) root() *node {
	return &t.nodes[rootID]
}

func (t *tree) format(depth int) string {
	var sb strings.Builder
	t.write(&sb, rootID, 0, depth)
	return sb.String()
}

func (t *tree) write(sb *strings.Builder, id int, indent int, depth int) {
	n := &t.nodes[id]
	action := "root"
	if n.action != nil {
		action = n.action.String()
	}
	fmt.Fprintf(sb, "%s[%s] %.1f/%d untried=%d\n",
		strings.Repeat("| ", indent), action, n.wins, n.visits, len(n.untried))
	if indent >= depth {
		return
	}
	for _, c := range n.children {
		t.write(sb, c, indent+1, depth)
	}
}
