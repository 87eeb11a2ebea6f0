package model

import "testing"

func TestDefaultAppConfigMatchesSolverDefaults(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultSolverConfig()

	if cfg.DefaultSolver != defaults {
		t.Errorf("solver defaults mismatch: config=%+v defaults=%+v", cfg.DefaultSolver, defaults)
	}
	if cfg.DefaultBinSize != (Extent{X: 100, Y: 100, Z: 100}) {
		t.Errorf("expected default bin size 100x100x100, got %v", cfg.DefaultBinSize)
	}
	if cfg.DefaultBinCount < 1 {
		t.Errorf("default bin count %d must be at least 1", cfg.DefaultBinCount)
	}
	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
	if cfg.RecentInstances == nil {
		t.Error("RecentInstances should not be nil")
	}
}

func TestTouchRecentMovesPathToFront(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.TouchRecent("a.dat")
	cfg.TouchRecent("b.dat")
	cfg.TouchRecent("a.dat")

	if len(cfg.RecentInstances) != 2 {
		t.Fatalf("expected 2 recent instances, got %d", len(cfg.RecentInstances))
	}
	if cfg.RecentInstances[0] != "a.dat" || cfg.RecentInstances[1] != "b.dat" {
		t.Errorf("unexpected order: %v", cfg.RecentInstances)
	}
}

func TestTouchRecentCapsListLength(t *testing.T) {
	cfg := DefaultAppConfig()
	for i := 0; i < 15; i++ {
		cfg.TouchRecent(string(rune('a'+i)) + ".dat")
	}

	if len(cfg.RecentInstances) != maxRecentInstances {
		t.Fatalf("expected %d recent instances, got %d", maxRecentInstances, len(cfg.RecentInstances))
	}
	if cfg.RecentInstances[0] != "o.dat" {
		t.Errorf("expected newest entry first, got %v", cfg.RecentInstances[0])
	}
}
