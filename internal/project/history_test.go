package project

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
)

func testRunRecord(id string) RunRecord {
	return RunRecord{
		RunID:       id,
		Problem:     "200.1",
		Instance:    "/tmp/200.1.dat",
		Fitness:     4.5625,
		BinsUsed:    4,
		Evaluations: 20100,
		Config:      model.DefaultSolverConfig(),
	}
}

func TestAppendRunAndLoadHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	if err := AppendRun(path, testRunRecord("run-1"), 0); err != nil {
		t.Fatalf("AppendRun failed: %v", err)
	}
	if err := AppendRun(path, testRunRecord("run-2"), 0); err != nil {
		t.Fatalf("AppendRun failed: %v", err)
	}

	h, err := LoadHistory(path)
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}

	if h.Version != historyVersion {
		t.Errorf("expected version %q, got %q", historyVersion, h.Version)
	}
	if len(h.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(h.Runs))
	}
	if h.Runs[0].RunID != "run-2" {
		t.Errorf("expected newest run first, got %q", h.Runs[0].RunID)
	}
	if h.Runs[0].FinishedAt == "" {
		t.Error("expected AppendRun to stamp FinishedAt")
	}
	if h.Runs[1].Fitness != 4.5625 {
		t.Errorf("expected fitness 4.5625, got %v", h.Runs[1].Fitness)
	}
}

func TestAppendRunCapsAtLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	for i := 1; i <= 5; i++ {
		if err := AppendRun(path, testRunRecord(fmt.Sprintf("run-%d", i)), 3); err != nil {
			t.Fatalf("AppendRun failed: %v", err)
		}
	}

	h, err := LoadHistory(path)
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}
	if len(h.Runs) != 3 {
		t.Fatalf("expected history capped at 3 runs, got %d", len(h.Runs))
	}
	if h.Runs[0].RunID != "run-5" || h.Runs[2].RunID != "run-3" {
		t.Errorf("unexpected retained runs: %q .. %q", h.Runs[0].RunID, h.Runs[2].RunID)
	}
}

func TestBestForPicksLowestFitness(t *testing.T) {
	h := History{Version: historyVersion}

	first := testRunRecord("run-1")
	first.Fitness = 5.25
	second := testRunRecord("run-2")
	second.Fitness = 4.125
	other := testRunRecord("run-3")
	other.Problem = "500.2"
	other.Fitness = 1.0
	h.Runs = []RunRecord{first, second, other}

	best, ok := h.BestFor("200.1")
	if !ok {
		t.Fatal("expected a best run for problem 200.1")
	}
	if best.RunID != "run-2" {
		t.Errorf("expected run-2 as best, got %q", best.RunID)
	}

	if _, ok := h.BestFor("missing"); ok {
		t.Error("expected no best run for unknown problem")
	}
}

func TestLoadHistoryMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "history.json")

	h, err := LoadHistory(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if len(h.Runs) != 0 {
		t.Errorf("expected empty history, got %d runs", len(h.Runs))
	}
	if h.Version != historyVersion {
		t.Errorf("expected version %q, got %q", historyVersion, h.Version)
	}
}

func TestLoadHistoryMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	if err := os.WriteFile(path, []byte(`{"runs":[]}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadHistory(path)
	if err == nil {
		t.Fatal("expected error for history without version field, got nil")
	}
}

func TestLoadHistoryInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadHistory(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveHistoryCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "history.json")

	h := History{Version: historyVersion, Runs: []RunRecord{testRunRecord("run-1")}}
	if err := SaveHistory(path, h); err != nil {
		t.Fatalf("SaveHistory should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("history file was not created")
	}
}
