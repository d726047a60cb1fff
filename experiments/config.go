package experiments

import (
	"errors"
	"fmt"

	"boxes/experiments/metrics"
	"boxes/game"
	"boxes/searcher"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	KindMCTS     = "mcts"
	KindTraining = "training"
	KindRandom   = "random"
)

var ErrInvalidConfig = errors.New("invalid experiment config")

type Config struct {
	Name      string                `mapstructure:"name"`
	OutputDir string                `mapstructure:"output_dir"`
	LogLevel  string                `mapstructure:"log_level"`
	Rows      int                   `mapstructure:"rows"`
	Cols      int                   `mapstructure:"cols"`
	Games     int                   `mapstructure:"games"` // Per match up
	Agents    []metrics.AgentConfig `mapstructure:"agents"`
	MatchUps  [][]int               `mapstructure:"match_ups"` // Pairs of agent IDs, the first plays red
	Opening   []string              `mapstructure:"opening"`   // Moves played before every game, e.g. "h(0,0)"
}

// LoadConfig reads an experiment from a yaml, json or toml file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("output_dir", "results")
	v.SetDefault("log_level", "info")
	v.SetDefault("rows", 3)
	v.SetDefault("cols", 3)
	v.SetDefault("games", 10)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidConfig)
	}
	if c.Rows < 1 || c.Cols < 1 {
		return fmt.Errorf("%w: board %dx%d", ErrInvalidConfig, c.Rows, c.Cols)
	}
	if c.Games < 1 {
		return fmt.Errorf("%w: %d games", ErrInvalidConfig, c.Games)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.newState(); err != nil {
		return err
	}

	ids := map[int]bool{}
	for _, agent := range c.Agents {
		if ids[agent.ID] {
			return fmt.Errorf("%w: duplicate agent %d", ErrInvalidConfig, agent.ID)
		}
		ids[agent.ID] = true
		if err := validateAgent(agent); err != nil {
			return err
		}
	}

	if len(c.MatchUps) == 0 {
		return fmt.Errorf("%w: no match ups", ErrInvalidConfig)
	}
	for _, matchUp := range c.MatchUps {
		if len(matchUp) != 2 {
			return fmt.Errorf("%w: match up %v needs two agents", ErrInvalidConfig, matchUp)
		}
		for _, id := range matchUp {
			if !ids[id] {
				return fmt.Errorf("%w: unknown agent %d", ErrInvalidConfig, id)
			}
		}
	}
	return nil
}

func validateAgent(agent metrics.AgentConfig) error {
	switch agent.Kind {
	case KindRandom:
		return nil
	case KindMCTS, KindTraining:
	default:
		return fmt.Errorf("%w: agent %d has unknown kind %q", ErrInvalidConfig, agent.ID, agent.Kind)
	}

	if agent.Episodes <= 0 && agent.Duration <= 0 {
		return fmt.Errorf("%w: agent %d needs episodes or a duration", ErrInvalidConfig, agent.ID)
	}
	if _, ok := searcher.ParseRollout(agent.Rollout); !ok {
		return fmt.Errorf("%w: agent %d has unknown rollout %q", ErrInvalidConfig, agent.ID, agent.Rollout)
	}
	if _, ok := searcher.ParseBestChild(agent.BestChild); !ok {
		return fmt.Errorf("%w: agent %d has unknown best child %q", ErrInvalidConfig, agent.ID, agent.BestChild)
	}
	if agent.ExploreFaction < 0 || agent.Temperature < 0 {
		return fmt.Errorf("%w: agent %d has a negative parameter", ErrInvalidConfig, agent.ID)
	}
	return nil
}

// newState returns the board every game starts from.
func (c *Config) newState() (*game.State, error) {
	state := game.NewState(c.Rows, c.Cols)
	for _, s := range c.Opening {
		move, err := game.ParseMove(s)
		if err != nil {
			return nil, fmt.Errorf("%w: opening: %w", ErrInvalidConfig, err)
		}
		if err := state.Play(move); err != nil {
			return nil, fmt.Errorf("%w: opening: %w", ErrInvalidConfig, err)
		}
	}
	if state.IsTerminal() {
		return nil, fmt.Errorf("%w: opening finishes the game", ErrInvalidConfig)
	}
	return state, nil
}
