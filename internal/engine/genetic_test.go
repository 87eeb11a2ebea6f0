package engine

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
)

func makeSearchProblem(t *testing.T, binSize model.Extent, items []model.Extent, binCount int) *model.Problem {
	t.Helper()
	p, err := model.NewProblem("search-test", binSize, items, binCount)
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	return p
}

func smallConfig() model.SolverConfig {
	return model.SolverConfig{
		PopulationSize: 20,
		Generations:    10,
		MutationRate:   0.1,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           7,
		Workers:        2,
	}
}

func TestSolveFindsPerfectPackingOnTinyInstance(t *testing.T) {
	p := makeSearchProblem(t, model.Extent{X: 10, Y: 10, Z: 10},
		[]model.Extent{{X: 10, Y: 10, Z: 5}, {X: 10, Y: 10, Z: 5}}, 1)

	result, err := Solve(p, smallConfig(), nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	// Two half-height slabs always stack into one full bin, and the greedy
	// seed chromosome alone reaches that packing in generation zero.
	if result.BestFitness != 2.0 {
		t.Errorf("BestFitness = %v, want 2.0", result.BestFitness)
	}
	if result.BestResult.UsedBins != 1 {
		t.Errorf("UsedBins = %d, want 1", result.BestResult.UsedBins)
	}
	if len(result.RunID) != 8 {
		t.Errorf("RunID = %q, want 8 characters", result.RunID)
	}
	if want := p.SolutionLength(); len(result.BestSolution) != want {
		t.Errorf("BestSolution has %d keys, want %d", len(result.BestSolution), want)
	}
	wantEvals := 20 + 10*(20-2)
	if result.Evaluations != wantEvals {
		t.Errorf("Evaluations = %d, want %d", result.Evaluations, wantEvals)
	}
	if best, bins, _ := p.Best(); best != 2.0 || bins != 1 {
		t.Errorf("problem best = (%v, %d), want (2.0, 1)", best, bins)
	}
}

func TestSolveRejectsDegeneratePopulation(t *testing.T) {
	p := makeSearchProblem(t, model.Extent{X: 10, Y: 10, Z: 10},
		[]model.Extent{{X: 5, Y: 5, Z: 5}}, 1)

	cfg := smallConfig()
	cfg.PopulationSize = 1
	if _, err := Solve(p, cfg, nil); err == nil {
		t.Fatal("Solve accepted a population of 1")
	}
}

func TestSolveIsDeterministicAcrossWorkerCounts(t *testing.T) {
	items := []model.Extent{
		{X: 10, Y: 10, Z: 5}, {X: 5, Y: 5, Z: 5}, {X: 10, Y: 10, Z: 5},
		{X: 5, Y: 5, Z: 10}, {X: 2, Y: 3, Z: 4},
	}

	run := func(workers int) SearchResult {
		p := makeSearchProblem(t, model.Extent{X: 10, Y: 10, Z: 10}, items, 1)
		cfg := smallConfig()
		cfg.Seed = 99
		cfg.Workers = workers
		result, err := Solve(p, cfg, nil)
		if err != nil {
			t.Fatalf("Solve with %d workers: %v", workers, err)
		}
		return result
	}

	serial := run(1)
	parallel := run(4)

	// Randomness lives on the driver goroutine only, so the worker count must
	// not change what the search explores.
	if serial.BestFitness != parallel.BestFitness {
		t.Errorf("fitness differs: %v (serial) vs %v (parallel)", serial.BestFitness, parallel.BestFitness)
	}
	if !reflect.DeepEqual(serial.BestSolution, parallel.BestSolution) {
		t.Error("best solutions differ between worker counts")
	}
	if !reflect.DeepEqual(serial.BestResult, parallel.BestResult) {
		t.Error("best packings differ between worker counts")
	}
	if serial.Evaluations != parallel.Evaluations {
		t.Errorf("evaluation counts differ: %d vs %d", serial.Evaluations, parallel.Evaluations)
	}
}

func TestSolveRecoversFromInfeasibleGreedySeed(t *testing.T) {
	// The girder only fits standing on end, so the canonical-orientation
	// greedy seed is a dead end and the search has to find a rotation.
	p := makeSearchProblem(t, model.Extent{X: 10, Y: 10, Z: 20},
		[]model.Extent{{X: 15, Y: 5, Z: 5}}, 1)

	cfg := smallConfig()
	cfg.PopulationSize = 60
	cfg.Seed = 3

	result, err := Solve(p, cfg, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if result.BestFitness != 1.1875 {
		t.Errorf("BestFitness = %v, want 1.1875", result.BestFitness)
	}
}

func TestSolveReportsWhenNothingIsFeasible(t *testing.T) {
	// Bypasses NewProblem validation to simulate corrupt instance data where
	// no orientation of the item can enter a bin.
	p := &model.Problem{
		Name:     "corrupt",
		BinSize:  model.Extent{X: 10, Y: 10, Z: 10},
		Items:    []model.Extent{{X: 11, Y: 11, Z: 11}},
		BinCount: 1,
	}

	cfg := smallConfig()
	cfg.PopulationSize = 4
	cfg.Generations = 2

	_, err := Solve(p, cfg, nil)
	if err == nil {
		t.Fatal("Solve succeeded on an unpackable instance")
	}
	if !strings.Contains(err.Error(), "no feasible packing") {
		t.Errorf("err = %q, want it to mention no feasible packing", err)
	}
}

func TestGreedyKeysPackLargestItemsFirst(t *testing.T) {
	p := makeSearchProblem(t, model.Extent{X: 10, Y: 10, Z: 10},
		[]model.Extent{{X: 2, Y: 2, Z: 2}, {X: 6, Y: 6, Z: 6}, {X: 4, Y: 4, Z: 4}}, 1)
	s := &search{problem: p}

	items, err := Decode(p, s.greedyKeys())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := []model.Extent{{X: 6, Y: 6, Z: 6}, {X: 4, Y: 4, Z: 4}, {X: 2, Y: 2, Z: 2}}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("greedy order = %v, want %v", items, want)
	}
}

func TestCrossoverDrawsEveryKeyFromAParent(t *testing.T) {
	s := &search{rng: rand.New(rand.NewSource(11))}
	parent1 := chromosome{keys: make([]float64, 40)}
	parent2 := chromosome{keys: make([]float64, 40)}
	for i := range parent1.keys {
		parent1.keys[i] = 0.25
		parent2.keys[i] = 0.75
	}

	child := s.crossover(parent1, parent2)
	if len(child) != 40 {
		t.Fatalf("child has %d keys, want 40", len(child))
	}
	var fromFirst, fromSecond int
	for i, k := range child {
		switch k {
		case 0.25:
			fromFirst++
		case 0.75:
			fromSecond++
		default:
			t.Fatalf("key %d = %v, not drawn from either parent", i, k)
		}
	}
	if fromFirst == 0 || fromSecond == 0 {
		t.Errorf("mix = %d/%d, want keys from both parents", fromFirst, fromSecond)
	}
}

func TestMutateKeepsKeysInUnitRange(t *testing.T) {
	s := &search{
		cfg: model.SolverConfig{MutationRate: 1.0},
		rng: rand.New(rand.NewSource(5)),
	}

	keys := make([]float64, 12)
	for i := range keys {
		keys[i] = float64(i) / 12
	}
	for round := 0; round < 100; round++ {
		s.mutate(keys)
	}

	if len(keys) != 12 {
		t.Fatalf("mutate changed the key count to %d", len(keys))
	}
	for i, k := range keys {
		if k < 0 || k >= 1 {
			t.Errorf("key %d = %v, outside [0,1)", i, k)
		}
	}
}
