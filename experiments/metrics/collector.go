package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Goroutines     int
	ExploreFaction float64
	Duration       time.Duration
	Episodes       int
	RolloutMoves   int
	TreeNodes      int
}

type MoveMetric struct {
	Step   int
	Player string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string // "" on a draw
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector is shared by concurrent search workers.
type Collector interface {
	Start(goroutines int, exploreFaction float64)
	AddEpisode()
	AddRolloutMoves(n int)
	AddTreeNodes(n int)
	Complete() SearchMetric
}

type collector struct {
	goroutines     int
	exploreFaction float64
	startTime      time.Time
	episodes       atomic.Int64
	rolloutMoves   atomic.Int64
	treeNodes      atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines int, exploreFaction float64) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.exploreFaction = exploreFaction
	m.episodes.Store(0)
	m.rolloutMoves.Store(0)
	m.treeNodes.Store(0)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddRolloutMoves(n int) {
	m.rolloutMoves.Add(int64(n))
}

func (m *collector) AddTreeNodes(n int) {
	m.treeNodes.Add(int64(n))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines:     m.goroutines,
		ExploreFaction: m.exploreFaction,
		Duration:       time.Since(m.startTime),
		Episodes:       int(m.episodes.Load()),
		RolloutMoves:   int(m.rolloutMoves.Load()),
		TreeNodes:      int(m.treeNodes.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines int, exploreFaction float64) {}
func (m *dummyCollector) AddEpisode()                                  {}
func (m *dummyCollector) AddRolloutMoves(n int)                        {}
func (m *dummyCollector) AddTreeNodes(n int)                           {}
func (m *dummyCollector) Complete() SearchMetric                       { return SearchMetric{} }
