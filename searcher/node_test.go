package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestTreeAdd(t *testing.T) {
	t.Run("copies the untried moves", func(t *testing.T) {
		moves := []Move{take(1), take(2)}
		tree := newTree(moves)

		moves[0] = take(3)

		require.Equal(t, []Move{take(1), take(2)}, tree.root().untried,
			"Root should not alias the legal moves")
	})

	t.Run("links the child to its parent", func(t *testing.T) {
		tree := newTree([]Move{take(1), take(2)})

		id := tree.add(rootID, take(2), []Move{take(1)})

		require.Equal(t, rootID, tree.nodes[id].parent)
		require.Equal(t, take(2), tree.nodes[id].action)
		require.Equal(t, []int{id}, tree.root().children)
		require.Equal(t, id, tree.root().explored[take(2)])
		require.Equal(t, 0, tree.nodes[id].visits)
		require.Equal(t, noParent, tree.root().parent)
	})
}

func TestTreeExpand(t *testing.T) {
	t.Run("expanding a node with untried moves", func(t *testing.T) {
		tree := newTree([]Move{take(1), take(2)})
		state := newNim(5)

		id, err := tree.expand(rootID, state, rand.New(rand.NewSource(1)))

		require.NoError(t, err)
		require.NotEqual(t, rootID, id, "Should add a new child")
		move := tree.nodes[id].action
		require.Contains(t, []Move{take(1), take(2)}, move)
		require.NotContains(t, tree.root().untried, move, "Should remove the move from untried")
		require.Len(t, tree.root().untried, 1)
		require.Equal(t, 5-int(move.(take)), state.pile, "Should play the move on the state")
		require.Equal(t, state.LegalMoves(), tree.nodes[id].untried,
			"Child should start with the legal moves of the new state")
	})

	t.Run("expanding every move", func(t *testing.T) {
		tree := newTree([]Move{take(1), take(2)})
		rng := rand.New(rand.NewSource(1))

		_, err := tree.expand(rootID, newNim(5), rng)
		require.NoError(t, err)
		_, err = tree.expand(rootID, newNim(5), rng)
		require.NoError(t, err)

		require.Empty(t, tree.root().untried)
		require.Len(t, tree.root().explored, 2)
	})

	t.Run("stagnating on a node without untried moves", func(t *testing.T) {
		tree := newTree(nil)
		state := newNim(0)

		id, err := tree.expand(rootID, state, rand.New(rand.NewSource(1)))

		require.NoError(t, err)
		require.Equal(t, rootID, id, "Should return the same node")
		require.Len(t, tree.nodes, 1)
		require.Equal(t, newNim(0), state, "Should not touch the state")
	})

	t.Run("reporting a rejected move", func(t *testing.T) {
		tree := newTree([]Move{take(1)})

		id, err := tree.expand(rootID, rejecting{}, rand.New(rand.NewSource(1)))

		require.ErrorIs(t, err, errIllegal)
		require.Equal(t, rootID, id)
		require.Equal(t, []Move{take(1)}, tree.root().untried, "Should keep the move untried")
	})
}

func TestTreeBackup(t *testing.T) {
	t.Run("updates the path to the root only", func(t *testing.T) {
		tree := newTree([]Move{take(1), take(2)})
		a := tree.add(rootID, take(1), []Move{take(1), take(2)})
		b := tree.add(rootID, take(2), []Move{take(1)})
		leaf := tree.add(a, take(2), nil)

		tree.backup(leaf, Win)

		require.Equal(t, 1, tree.nodes[leaf].visits)
		require.Equal(t, Win, tree.nodes[leaf].wins)
		require.Equal(t, 1, tree.nodes[a].visits)
		require.Equal(t, Win, tree.nodes[a].wins)
		require.Equal(t, 1, tree.root().visits)
		require.Equal(t, Win, tree.root().wins)
		require.Equal(t, 0, tree.nodes[b].visits, "Sibling should not change")
		require.Equal(t, 0.0, tree.nodes[b].wins, "Sibling should not change")
	})

	t.Run("records a loss as a visit", func(t *testing.T) {
		tree := newTree([]Move{take(1)})
		a := tree.add(rootID, take(1), nil)

		tree.backup(a, Loss)
		tree.backup(a, Draw)

		require.Equal(t, 2, tree.nodes[a].visits)
		require.Equal(t, Draw, tree.nodes[a].wins)
		require.Equal(t, 2, tree.root().visits)
	})
}

// visitedTree builds a root with two visited children for player1 at pile 5.
func visitedTree(winsA, winsB float64) (*tree, int, int) {
	tree := newTree([]Move{take(1), take(2)})
	a := tree.add(rootID, take(1), []Move{take(1), take(2)})
	b := tree.add(rootID, take(2), []Move{take(1), take(2)})
	tree.root().untried = nil
	tree.nodes[a].visits, tree.nodes[a].wins = 4, winsA
	tree.nodes[b].visits, tree.nodes[b].wins = 4, winsB
	tree.root().visits = 8
	return tree, a, b
}

func TestTreeSelects(t *testing.T) {
	t.Run("selecting the max win rate child on the searcher's turn", func(t *testing.T) {
		tree, _, b := visitedTree(1, 3)
		tree.nodes[b].untried = []Move{take(1)}
		state := newNim(5)

		id, err := tree.selects(state, "player1", DefaultExploreFaction)

		require.NoError(t, err)
		require.Equal(t, b, id)
		require.Equal(t, 3, state.pile, "State should follow the selected move")
	})

	t.Run("selecting the min win rate child on the opponent's turn", func(t *testing.T) {
		tree, a, _ := visitedTree(1, 3)
		tree.nodes[a].untried = []Move{take(1)}
		state := newNim(5)

		id, err := tree.selects(state, "player2", DefaultExploreFaction)

		require.NoError(t, err)
		require.Equal(t, a, id)
		require.Equal(t, 4, state.pile)
	})

	t.Run("stopping at a node with untried moves", func(t *testing.T) {
		tree := newTree([]Move{take(1), take(2)})
		tree.backup(tree.add(rootID, take(1), nil), Win)
		state := newNim(5)

		id, err := tree.selects(state, "player1", DefaultExploreFaction)

		require.NoError(t, err)
		require.Equal(t, rootID, id)
		require.Equal(t, 5, state.pile, "State should not change")
	})

	t.Run("stopping at a childless node", func(t *testing.T) {
		tree := newTree(nil)
		state := newNim(0)

		id, err := tree.selects(state, "player1", DefaultExploreFaction)

		require.NoError(t, err)
		require.Equal(t, rootID, id)
	})

	t.Run("descending several levels", func(t *testing.T) {
		tree, a, b := visitedTree(4, 0)
		tree.nodes[b].wins = 0
		grandChild := tree.add(a, take(2), []Move{take(1)})
		tree.nodes[a].untried = nil
		tree.nodes[grandChild].visits = 4
		state := newNim(5)

		id, err := tree.selects(state, "player1", 0)

		require.NoError(t, err)
		require.Equal(t, grandChild, id)
		require.Equal(t, 2, state.pile)
	})
}

func TestTreePickChild(t *testing.T) {
	t.Run("breaking ties by expansion order", func(t *testing.T) {
		tree, a, _ := visitedTree(2, 2)

		require.Equal(t, a, tree.pickChild(rootID, false, DefaultExploreFaction))
		require.Equal(t, a, tree.pickChild(rootID, true, DefaultExploreFaction))
	})

	t.Run("exploring a less visited child", func(t *testing.T) {
		tree, a, b := visitedTree(2, 2)
		tree.nodes[a].visits, tree.nodes[a].wins = 100, 60
		tree.nodes[b].visits, tree.nodes[b].wins = 2, 1
		tree.root().visits = 102

		require.Equal(t, b, tree.pickChild(rootID, false, DefaultExploreFaction))
		require.Equal(t, a, tree.pickChild(rootID, false, 0), "Without exploration the win rate decides")
	})

	t.Run("panics on an unvisited child", func(t *testing.T) {
		tree, _, b := visitedTree(2, 2)
		tree.nodes[b].visits = 0

		require.Panics(t, func() {
			tree.pickChild(rootID, false, DefaultExploreFaction)
		})
	})

	t.Run("panics on an unvisited parent", func(t *testing.T) {
		tree, _, _ := visitedTree(2, 2)
		tree.root().visits = 0

		require.Panics(t, func() {
			tree.pickChild(rootID, false, DefaultExploreFaction)
		})
	})
}

func TestTreeInvariants(t *testing.T) {
	m := NewMCTS(1, WithEpisodes(300), WithSeed(11))
	tree, err := m.search(newNim(12), "player1", 11, 300)
	require.NoError(t, err)

	// Replay every node's path to recover its state
	var walk func(id int, state *nim)
	walk = func(id int, state *nim) {
		n := &tree.nodes[id]
		legal := state.LegalMoves()

		require.GreaterOrEqual(t, n.wins, 0.0)
		require.LessOrEqual(t, n.wins, float64(n.visits))
		for _, move := range n.untried {
			require.Contains(t, legal, move)
			_, explored := n.explored[move]
			require.False(t, explored, "Move %s should not be both untried and explored", move)
		}

		childVisits := 0
		for move, c := range n.explored {
			require.Contains(t, legal, move)
			require.Equal(t, id, tree.nodes[c].parent)
			require.GreaterOrEqual(t, tree.nodes[c].visits, 1, "Every child should be visited")
			childVisits += tree.nodes[c].visits

			next := state.Copy().(*nim)
			require.NoError(t, next.Play(move))
			walk(c, next)
		}
		require.Len(t, n.children, len(n.explored))
		require.LessOrEqual(t, childVisits, n.visits)
	}
	walk(rootID, newNim(12))

	require.Equal(t, 300, tree.root().visits)
	total := 0
	for _, c := range tree.root().children {
		total += tree.nodes[c].visits
	}
	require.Equal(t, 300, total, "Every episode should pass through a root child")
}

func TestTreeFormat(t *testing.T) {
	tree, a, _ := visitedTree(1, 3)
	tree.add(a, take(2), nil)

	got := tree.format(1)

	require.Equal(t, "[root] 0.0/8 untried=0\n| [take1] 1.0/4 untried=2\n| [take2] 3.0/4 untried=2\n", got)
}
