package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type AgentConfig struct {
	ID             int           `mapstructure:"id"`
	Kind           string        `mapstructure:"kind"` // mcts, training or random
	Goroutines     int           `mapstructure:"goroutines"`
	Episodes       int           `mapstructure:"episodes"`
	Duration       time.Duration `mapstructure:"duration"`
	ExploreFaction float64       `mapstructure:"explore_faction"`
	Rollout        string        `mapstructure:"rollout"`
	BestChild      string        `mapstructure:"best_child"`
	Temperature    float64       `mapstructure:"temperature"`
	Seed           uint64        `mapstructure:"seed"`
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID, plays first
	Agent2 int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

// Writer stores the records of one experiment run as CSV files.
type Writer struct {
	runID   string
	baseDir string
}

// NewWriter creates baseDir/name/<run id>.
func NewWriter(baseDir, name string) (*Writer, error) {
	runID := uuid.NewString()
	dir := filepath.Join(baseDir, name, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		runID:   runID,
		baseDir: dir,
	}, nil
}

func (w *Writer) RunID() string {
	return w.runID
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			w.runID,
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.Itoa(config.Goroutines),
			config.Duration.String(),
			strconv.Itoa(config.Episodes),
			strconv.FormatFloat(config.ExploreFaction, 'f', -1, 64),
			config.Rollout,
			config.BestChild,
			strconv.FormatFloat(config.Temperature, 'f', -1, 64),
			strconv.FormatUint(config.Seed, 10),
		})
	}
	header := []string{"run_id", "id", "kind", "goroutines", "duration", "episodes", "explore_faction", "rollout", "best_child", "temperature", "seed"}
	return w.write("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			w.runID,
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			record.StartingPlayer,
			record.Winner,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		})
	}
	header := []string{"run_id", "id", "agent1", "agent2", "starting_player", "winner", "start_time", "end_time", "duration", "total_moves"}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			w.runID,
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player,
			strconv.Itoa(record.Goroutines),
			strconv.FormatFloat(record.ExploreFaction, 'f', -1, 64),
			record.Duration.String(),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.RolloutMoves),
			strconv.Itoa(record.TreeNodes),
		})
	}
	header := []string{"run_id", "game", "step", "player", "goroutines", "explore_faction", "duration", "episodes", "rollout_moves", "tree_nodes"}
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) write(file string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", file, err)
	}
	return nil
}
