package experiments

import (
	"time"

	"boxes/experiments/metrics"
)

const (
	NumGames   = 30 // Per match up
	TimeBudget = 10 * time.Millisecond
)

var parallelGoroutines = []int{1, 2, 4, 8, 16, 32, 64, 128}

func parallelConfigs(budget time.Duration) []metrics.AgentConfig {
	configs := make([]metrics.AgentConfig, len(parallelGoroutines))
	for i, goroutines := range parallelGoroutines {
		configs[i] = metrics.AgentConfig{ID: i + 1, Kind: KindMCTS, Goroutines: goroutines, Duration: budget}
	}
	return configs
}

// ThroughputConfig pits each parallel agent against itself, for the same
// playing strength and similar game length.
func ThroughputConfig(rows, cols int) *Config {
	configs := parallelConfigs(TimeBudget)
	matchUps := [][]int{}
	for _, config := range configs {
		matchUps = append(matchUps, []int{config.ID, config.ID})
	}
	return &Config{
		Name:      "parallelization_to_throughput",
		OutputDir: "results",
		LogLevel:  "info",
		Rows:      rows,
		Cols:      cols,
		Games:     NumGames,
		Agents:    configs,
		MatchUps:  matchUps,
	}
}

// StrengthConfig pits the sequential baseline against each parallel agent,
// with either side moving first.
func StrengthConfig(rows, cols int) *Config {
	baseline := metrics.AgentConfig{ID: 0, Kind: KindMCTS, Goroutines: 1, Duration: TimeBudget}
	configs := parallelConfigs(TimeBudget)
	matchUps := [][]int{}
	for _, config := range configs {
		matchUps = append(matchUps, []int{baseline.ID, config.ID}, []int{config.ID, baseline.ID})
	}
	return &Config{
		Name:      "parallelization_to_strength",
		OutputDir: "results",
		LogLevel:  "info",
		Rows:      rows,
		Cols:      cols,
		Games:     NumGames,
		Agents:    append(configs, baseline),
		MatchUps:  matchUps,
	}
}
