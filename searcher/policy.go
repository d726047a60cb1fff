package searcher

import "math"

// Hyperparameters for MCTS

const DefaultExploreFaction = 2.0 // Exploration constant

type uct struct {
	exploreFaction float64
	lnN            float64
}

func newUCT(exploreFaction float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{exploreFaction: exploreFaction, lnN: math.Log(N)}
}

// evaluate scores a child with q wins over n visits. When minimizing, the
// opponent is to move and the child's win rate is inverted.
func (u uct) evaluate(q float64, n float64, minimizing bool) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	exploitation := q / n
	if minimizing {
		exploitation = 1 - exploitation
	}
	// UCT = q/n + c*sqrt(2*ln(N)/n)
	return exploitation + u.exploreFaction*math.Sqrt(2*u.lnN/n)
}

type BestChild int

const (
	// MostVisits picks the most visited root child (robust child)
	MostVisits BestChild = iota
	// WinRate picks the root child with the best win rate
	WinRate
)

func (b BestChild) String() string {
	switch b {
	case MostVisits:
		return "visits"
	case WinRate:
		return "winrate"
	default:
		return "unknown"
	}
}

func ParseBestChild(s string) (BestChild, bool) {
	switch s {
	case "", "visits":
		return MostVisits, true
	case "winrate":
		return WinRate, true
	default:
		return MostVisits, false
	}
}
