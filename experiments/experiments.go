package experiments

import (
	"fmt"

	"boxes/agent"
	"boxes/engine"
	"boxes/experiments/metrics"
	"boxes/game"
	"boxes/searcher"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Run plays every match up cfg.Games times and stores the records under
// cfg.OutputDir. It returns the directory of the run.
func Run(cfg *Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if cfg.LogLevel != "" {
		level, _ := zerolog.ParseLevel(cfg.LogLevel)
		zerolog.SetGlobalLevel(level)
	}

	configs := lo.KeyBy(cfg.Agents, func(config metrics.AgentConfig) int {
		return config.ID
	})

	// Run a number of games for each matchup
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", cfg.Name)

	for mi, matchUp := range cfg.MatchUps {
		config1 := configs[matchUp[0]]
		config2 := configs[matchUp[1]]

		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(cfg.MatchUps), config1, config2)

		for i := 0; i < cfg.Games; i++ {
			winner, gameMetric, moveMetrics, err := runGame(cfg, config1, config2, uint64(i))
			if err != nil {
				return "", fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     config1.ID,
				Agent2:     config2.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %q", mi+1, len(cfg.MatchUps), i+1, winner)
		}
	}

	log.Info().Msgf("completed %s experiment", cfg.Name)

	return store(cfg, gameRecords, moveRecords)
}

func store(cfg *Config, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) (string, error) {
	writer, err := metrics.NewWriter(cfg.OutputDir, cfg.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(cfg.Agents); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Str("run", writer.RunID()).Msgf("stored records in %s", writer.Dir())
	return writer.Dir(), nil
}

// runGame plays a single game with config1 as red, both agents reseeded by the game index.
func runGame(cfg *Config, config1, config2 metrics.AgentConfig, index uint64) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	agents := map[string]agent.Agent{
		game.Red:  createAgent(config1, index),
		game.Blue: createAgent(config2, index),
	}
	state, err := cfg.newState()
	if err != nil {
		return "", metrics.GameMetric{}, nil, err
	}
	e := engine.LocalEngine(agents, state)
	return e.Run()
}

func createAgent(config metrics.AgentConfig, index uint64) agent.Agent {
	seed := config.Seed + index
	switch config.Kind {
	case KindRandom:
		return agent.NewRandomAgent(seed)
	case KindTraining:
		return agent.NewTrainingAgent(createMCTS(config, seed), config.Temperature, seed)
	default:
		return agent.NewEvaluationAgent(createMCTS(config, seed))
	}
}

// createMCTS leaves zero valued parameters at the search defaults.
func createMCTS(config metrics.AgentConfig, seed uint64) *searcher.MCTS {
	options := []searcher.Option{searcher.WithSeed(seed)}

	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.ExploreFaction > 0 {
		options = append(options, searcher.WithExploreFaction(config.ExploreFaction))
	}
	if rollout, ok := searcher.ParseRollout(config.Rollout); ok {
		options = append(options, searcher.WithRollout(rollout))
	}
	if bestChild, ok := searcher.ParseBestChild(config.BestChild); ok {
		options = append(options, searcher.WithBestChild(bestChild))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewMCTS(config.Goroutines, options...)
}
