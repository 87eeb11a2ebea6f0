package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
)

// historyVersion marks the on-disk schema of the run history file.
const historyVersion = "1.0.0"

// defaultHistoryLimit caps how many runs AppendRun keeps.
const defaultHistoryLimit = 100

// RunRecord summarizes one completed solver run.
type RunRecord struct {
	RunID       string             `json:"run_id"`
	Problem     string             `json:"problem"`
	Instance    string             `json:"instance,omitempty"` // source file, if any
	FinishedAt  string             `json:"finished_at"`
	Fitness     float64            `json:"fitness"`
	BinsUsed    int                `json:"bins_used"`
	Generations int                `json:"generations"`
	Evaluations int                `json:"evaluations"`
	Config      model.SolverConfig `json:"config"`
}

// History is the top-level structure of the run history file.
type History struct {
	Version string      `json:"version"`
	Runs    []RunRecord `json:"runs"`
}

// BestFor returns the lowest-fitness run recorded for the named problem. The
// second return value reports whether any run matched.
func (h History) BestFor(problem string) (RunRecord, bool) {
	var best RunRecord
	found := false
	for _, r := range h.Runs {
		if r.Problem != problem {
			continue
		}
		if !found || r.Fitness < best.Fitness {
			best = r
			found = true
		}
	}
	return best, found
}

// DefaultHistoryPath returns the default path for the run history file.
// This is located at ~/.binpack/history.json.
func DefaultHistoryPath() string {
	return filepath.Join(DefaultConfigDir(), "history.json")
}

// SaveHistory writes the run history to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveHistory(path string, h History) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadHistory reads the run history from the given path.
// If the file does not exist, it returns an empty history with no error.
func LoadHistory(path string) (History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return History{Version: historyVersion}, nil
		}
		return History{}, err
	}
	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return History{}, fmt.Errorf("failed to parse history file: %w", err)
	}
	if h.Version == "" {
		return History{}, fmt.Errorf("invalid history file: missing version field")
	}
	return h, nil
}

// AppendRun loads the history at path, prepends rec and saves it back, so the
// newest run comes first. The file keeps at most limit runs; limit <= 0 means
// defaultHistoryLimit. A missing FinishedAt is stamped with the current UTC
// time.
func AppendRun(path string, rec RunRecord, limit int) error {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	h, err := LoadHistory(path)
	if err != nil {
		return err
	}
	if rec.FinishedAt == "" {
		rec.FinishedAt = time.Now().UTC().Format(time.RFC3339)
	}
	h.Version = historyVersion
	h.Runs = append([]RunRecord{rec}, h.Runs...)
	if len(h.Runs) > limit {
		h.Runs = h.Runs[:limit]
	}
	return SaveHistory(path, h)
}
