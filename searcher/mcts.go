package searcher

import (
	"fmt"
	"math"
	"time"

	"boxes/experiments/metrics"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"
)

type Option func(mcts *MCTS)

// Edge holds the merged statistics of a root move.
type Edge struct {
	Move   Move
	Visits int
	Wins   float64
}

func (e Edge) WinRate() float64 {
	if e.Visits == 0 {
		return 0
	}
	return e.Wins / float64(e.Visits)
}

type MCTS struct {
	goroutines     int
	duration       time.Duration
	episodes       int
	exploreFaction float64
	bestChild      BestChild
	rollout        Rollout
	maxDepth       int
	seed           uint64
	treeDepth      int
	metrics        metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithExploreFaction(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.exploreFaction = c
		}
	}
}

func WithBestChild(policy BestChild) Option {
	return func(m *MCTS) {
		m.bestChild = policy
	}
}

func WithRollout(policy Rollout) Option {
	return func(m *MCTS) {
		if policy != nil {
			m.rollout = policy
		}
	}
}

func WithMaxRolloutDepth(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.maxDepth = depth
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

// WithTreeDump logs the top depth levels of every worker tree at Debug level.
func WithTreeDump(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.treeDepth = depth
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

// NewMCTS returns a searcher running goroutines independent trees per
// decision. Episodes take precedence over duration. Each decision is logged at
// Debug level through the global zerolog logger, callers pick the level with
// zerolog.SetGlobalLevel.
func NewMCTS(goroutines int, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		goroutines:     max(goroutines, 1),
		exploreFaction: DefaultExploreFaction,
		bestChild:      MostVisits,
		rollout:        RandomRollout,
		maxDepth:       DefaultMaxRolloutDepth,
		seed:           frand.Uint64n(math.MaxUint64),
		metrics:        metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return m
}

// Decide is a single threaded search of budget episodes for identity.
func Decide(state State, identity string, budget int, exploreFaction float64) (Move, error) {
	if len(state.LegalMoves()) == 0 {
		return nil, ErrNoMoves
	}
	if budget <= 0 {
		return nil, fmt.Errorf("%w: budget %d", ErrInvalidSearch, budget)
	}
	if exploreFaction < 0 || math.IsNaN(exploreFaction) {
		return nil, fmt.Errorf("%w: explore faction %v", ErrInvalidSearch, exploreFaction)
	}
	m := NewMCTS(1, WithEpisodes(budget), WithExploreFaction(exploreFaction))
	move, _, err := m.Decide(state, identity)
	return move, err
}

// Decide searches state on behalf of identity and returns the root move
// chosen by the best child policy.
func (m *MCTS) Decide(state State, identity string) (Move, metrics.SearchMetric, error) {
	edges, metric, err := m.Policy(state, identity)
	if err != nil {
		return nil, metric, err
	}

	best := m.pick(edges)
	log.Debug().
		Str("identity", identity).
		Int("episodes", metric.Episodes).
		Int("goroutines", m.goroutines).
		Stringer("move", best.Move).
		Int("visits", best.Visits).
		Float64("win-rate", best.WinRate()).
		Msg("decided")
	return best.Move, metric, nil
}

// Policy searches state and returns the statistics of every explored root
// move, in the order of state.LegalMoves().
func (m *MCTS) Policy(state State, identity string) ([]Edge, metrics.SearchMetric, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return nil, metrics.SearchMetric{}, ErrNoMoves
	}

	m.metrics.Start(m.goroutines, m.exploreFaction)

	trees := make([]*tree, m.goroutines)
	states := make([]State, m.goroutines)
	for i := range states {
		states[i] = state.Copy()
	}

	var g errgroup.Group
	for i := 0; i < m.goroutines; i++ {
		g.Go(func() error {
			t, err := m.search(states[i], identity, m.seed+uint64(i), m.share(i))
			trees[i] = t
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, m.metrics.Complete(), fmt.Errorf("searching for %s: %w", identity, err)
	}

	return merge(moves, trees), m.metrics.Complete(), nil
}

// share splits the episode budget so the workers run exactly m.episodes.
func (m *MCTS) share(worker int) int {
	if m.episodes <= 0 {
		return 0
	}
	n := m.episodes / m.goroutines
	if worker < m.episodes%m.goroutines {
		n++
	}
	return n
}

// search builds one tree. With no episode share it runs until the duration
// has passed, with at least one episode.
func (m *MCTS) search(state State, identity string, seed uint64, episodes int) (*tree, error) {
	t := newTree(state.LegalMoves())
	rng := rand.New(rand.NewSource(seed))

	if m.episodes > 0 {
		for i := 0; i < episodes; i++ {
			if err := m.simulate(t, state, identity, rng); err != nil {
				return t, err
			}
		}
	} else {
		deadline := time.Now().Add(m.duration)
		for first := true; first || time.Now().Before(deadline); first = false {
			if err := m.simulate(t, state, identity, rng); err != nil {
				return t, err
			}
		}
	}

	m.metrics.AddTreeNodes(len(t.nodes))
	if m.treeDepth > 0 {
		if e := log.Debug(); e.Enabled() {
			e.Str("tree", t.format(m.treeDepth)).Msg("search-tree")
		}
	}
	return t, nil
}

// simulate runs one select, expand, rollout, backup episode on a copy of state.
func (m *MCTS) simulate(t *tree, state State, identity string, rng *rand.Rand) error {
	scratch := state.Copy()

	leaf, err := t.selects(scratch, identity, m.exploreFaction)
	if err != nil {
		return err
	}
	leaf, err = t.expand(leaf, scratch, rng)
	if err != nil {
		return err
	}
	depth, err := rollout(scratch, m.rollout, rng, m.maxDepth)
	m.metrics.AddRolloutMoves(depth)
	if err != nil {
		return err
	}

	t.backup(leaf, computeReward(scratch.Winner(), identity))
	m.metrics.AddEpisode()
	return nil
}

// merge sums root child statistics over the worker trees.
func merge(moves []Move, trees []*tree) []Edge {
	edges := make([]Edge, 0, len(moves))
	for _, move := range moves {
		edge := Edge{Move: move}
		for _, t := range trees {
			if t == nil {
				continue
			}
			if id, ok := t.root().explored[move]; ok {
				edge.Visits += t.nodes[id].visits
				edge.Wins += t.nodes[id].wins
			}
		}
		if edge.Visits > 0 {
			edges = append(edges, edge)
		}
	}
	return edges
}

func (m *MCTS) pick(edges []Edge) Edge {
	if m.bestChild == WinRate {
		return lo.MaxBy(edges, func(a, b Edge) bool {
			return a.WinRate() > b.WinRate()
		})
	}
	return lo.MaxBy(edges, func(a, b Edge) bool {
		return a.Visits > b.Visits
	})
}
