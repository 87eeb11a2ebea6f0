package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
	"github.com/google/uuid"
)

// chromosome is one candidate solution: a flat random-key vector plus its
// cached fitness.
type chromosome struct {
	keys    []float64
	fitness float64
}

func (c chromosome) clone() chromosome {
	return chromosome{keys: append([]float64(nil), c.keys...), fitness: c.fitness}
}

// SearchResult summarizes a finished genetic search.
type SearchResult struct {
	RunID        string
	BestFitness  float64
	BestSolution []float64
	BestResult   model.PackingResult
	Generations  int
	Evaluations  int
}

// search drives the genetic algorithm over random-key chromosomes. All
// randomness stays on the driver goroutine, so a fixed seed reproduces a run
// exactly at any worker count; workers only compute fitness.
type search struct {
	problem *model.Problem
	cfg     model.SolverConfig
	rng     *rand.Rand
	logger  *slog.Logger
}

// Solve runs a genetic search over p for cfg.Generations generations and
// returns the best packing found. Improvements are recorded on p as they
// happen, so concurrent observers can watch p.Best converge. A zero seed is
// replaced with the wall clock; pass a fixed seed for reproducible runs.
func Solve(p *model.Problem, cfg model.SolverConfig, logger *slog.Logger) (SearchResult, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.PopulationSize < 2 {
		return SearchResult{}, fmt.Errorf("population size %d is too small to evolve", cfg.PopulationSize)
	}
	if cfg.TournamentSize < 1 {
		cfg.TournamentSize = 1
	}
	if cfg.EliteCount < 0 {
		cfg.EliteCount = 0
	}
	if cfg.EliteCount > cfg.PopulationSize/2 {
		cfg.EliteCount = cfg.PopulationSize / 2
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	s := &search{
		problem: p,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		logger:  logger,
	}
	return s.run()
}

func (s *search) run() (SearchResult, error) {
	runID := uuid.New().String()[:8]
	s.logger.Info("search started",
		"run", runID,
		"problem", s.problem.Name,
		"items", s.problem.TotalItems(),
		"population", s.cfg.PopulationSize,
		"generations", s.cfg.Generations,
		"workers", s.cfg.Workers,
		"seed", s.cfg.Seed)

	population := s.initPopulation()
	if err := s.evaluatePopulation(population); err != nil {
		return SearchResult{}, err
	}
	evaluations := len(population)

	best := chromosome{fitness: math.Inf(1)}
	for _, c := range population {
		if c.fitness < best.fitness {
			best = c.clone()
		}
	}

	for gen := 0; gen < s.cfg.Generations; gen++ {
		sort.Slice(population, func(i, j int) bool {
			return population[i].fitness < population[j].fitness
		})

		next := make([]chromosome, 0, s.cfg.PopulationSize)
		for i := 0; i < s.cfg.EliteCount; i++ {
			next = append(next, population[i].clone())
		}
		for len(next) < s.cfg.PopulationSize {
			parent1 := s.tournament(population)
			parent2 := s.tournament(population)
			child := s.crossover(parent1, parent2)
			s.mutate(child)
			next = append(next, chromosome{keys: child})
		}

		offspring := next[s.cfg.EliteCount:]
		if err := s.evaluatePopulation(offspring); err != nil {
			return SearchResult{}, err
		}
		evaluations += len(offspring)
		population = next

		for _, c := range population {
			if c.fitness < best.fitness {
				best = c.clone()
				s.logger.Debug("new best packing",
					"run", runID, "generation", gen, "fitness", best.fitness)
			}
		}
	}

	if math.IsInf(best.fitness, 1) {
		return SearchResult{}, fmt.Errorf("no feasible packing found in %d evaluations", evaluations)
	}

	result, err := NewEvaluator(s.problem).EvaluateResult(best.keys)
	if err != nil {
		return SearchResult{}, err
	}

	s.logger.Info("search finished",
		"run", runID,
		"fitness", result.Fitness,
		"bins", result.UsedBins,
		"evaluations", evaluations)

	return SearchResult{
		RunID:        runID,
		BestFitness:  result.Fitness,
		BestSolution: best.keys,
		BestResult:   result,
		Generations:  s.cfg.Generations,
		Evaluations:  evaluations,
	}, nil
}

// initPopulation builds PopulationSize random chromosomes, seeding the first
// with a largest-volume-first ordering.
func (s *search) initPopulation() []chromosome {
	length := s.problem.SolutionLength()
	population := make([]chromosome, s.cfg.PopulationSize)
	for i := range population {
		keys := make([]float64, length)
		for j := range keys {
			keys[j] = s.rng.Float64()
		}
		population[i] = chromosome{keys: keys}
	}
	population[0] = chromosome{keys: s.greedyKeys()}
	return population
}

// greedyKeys encodes the classic decreasing-volume heuristic as a key vector:
// priorities rank the item slots so the bulkiest items pack first, and every
// orientation stays canonical.
func (s *search) greedyKeys() []float64 {
	n := s.problem.TotalItems()
	bySize := make([]int, n)
	for i := range bySize {
		bySize[i] = i
	}
	sort.SliceStable(bySize, func(a, b int) bool {
		return s.problem.ItemAt(bySize[a]).Volume() > s.problem.ItemAt(bySize[b]).Volume()
	})

	keys := make([]float64, 2*n)
	for position, slot := range bySize {
		keys[position] = (float64(slot) + 0.5) / float64(n)
	}
	for i := n; i < 2*n; i++ {
		keys[i] = 0.1
	}
	return keys
}

// evaluatePopulation scores every chromosome in pop in place, splitting the
// work across cfg.Workers goroutines with one Evaluator each. A chromosome
// whose orientation genes make an item unplaceable scores +Inf and stays in
// the population as a dead end for selection to weed out.
func (s *search) evaluatePopulation(pop []chromosome) error {
	workers := s.cfg.Workers
	if workers > len(pop) {
		workers = len(pop)
	}
	if workers <= 1 {
		return evaluateChunk(NewEvaluator(s.problem), pop)
	}

	var wg sync.WaitGroup
	errs := make([]error, workers)
	chunk := (len(pop) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		from := w * chunk
		to := from + chunk
		if to > len(pop) {
			to = len(pop)
		}
		if from >= to {
			break
		}
		wg.Add(1)
		go func(w, from, to int) {
			defer wg.Done()
			errs[w] = evaluateChunk(NewEvaluator(s.problem), pop[from:to])
		}(w, from, to)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func evaluateChunk(ev *Evaluator, pop []chromosome) error {
	for i := range pop {
		fitness, err := ev.Evaluate(pop[i].keys)
		if errors.Is(err, ErrItemTooLarge) {
			pop[i].fitness = math.Inf(1)
			continue
		}
		if err != nil {
			return err
		}
		pop[i].fitness = fitness
	}
	return nil
}

// tournament picks the fittest of TournamentSize randomly drawn chromosomes.
func (s *search) tournament(pop []chromosome) chromosome {
	best := pop[s.rng.Intn(len(pop))]
	for i := 1; i < s.cfg.TournamentSize; i++ {
		candidate := pop[s.rng.Intn(len(pop))]
		if candidate.fitness < best.fitness {
			best = candidate
		}
	}
	return best
}

// crossover mixes two parents key-by-key. Random keys carry no positional
// constraint, so a uniform mix always yields a valid chromosome and no
// repair step is needed.
func (s *search) crossover(parent1, parent2 chromosome) []float64 {
	child := make([]float64, len(parent1.keys))
	for i := range child {
		if s.rng.Float64() < 0.5 {
			child[i] = parent1.keys[i]
		} else {
			child[i] = parent2.keys[i]
		}
	}
	return child
}

// mutate perturbs a chromosome in place: swap two priorities, redraw an
// orientation, and occasionally redraw an arbitrary key.
func (s *search) mutate(keys []float64) {
	n := len(keys) / 2

	if s.rng.Float64() < s.cfg.MutationRate {
		i, j := s.rng.Intn(n), s.rng.Intn(n)
		keys[i], keys[j] = keys[j], keys[i]
	}
	if s.rng.Float64() < s.cfg.MutationRate {
		keys[n+s.rng.Intn(n)] = s.rng.Float64()
	}
	if s.rng.Float64() < s.cfg.MutationRate*0.5 {
		keys[s.rng.Intn(len(keys))] = s.rng.Float64()
	}
}
