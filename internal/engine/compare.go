package engine

import (
	"fmt"
	"log/slog"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
)

// ComparisonScenario defines a named solver configuration to compare.
type ComparisonScenario struct {
	Name   string
	Config model.SolverConfig
}

// ComparisonResult holds the search result and computed statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Result       SearchResult
	BinsUsed     int
	BestFitness  float64
	WastePercent float64
	Evaluations  int
}

// CompareConfigs runs the genetic search once per scenario against the same
// problem and returns per-scenario statistics for side-by-side comparison.
// Every improvement still lands on p, so after a sweep p.Best holds the best
// packing any scenario found.
func CompareConfigs(p *model.Problem, scenarios []ComparisonScenario, logger *slog.Logger) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := Solve(p, scenario.Config, logger)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}

		used := result.BestResult.UsedBins
		packed := float64(p.TotalVolume*p.BinCount) / float64(used*p.BinVolume())

		results = append(results, ComparisonResult{
			Scenario:     scenario,
			Result:       result,
			BinsUsed:     used,
			BestFitness:  result.BestFitness,
			WastePercent: 100 * (1 - packed),
			Evaluations:  result.Evaluations,
		})
	}

	return results, nil
}

// BuildDefaultScenarios generates comparison scenarios from the base solver
// configuration, varying one knob at a time to show what-if alternatives.
func BuildDefaultScenarios(base model.SolverConfig) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Config: base},
	}

	doublePop := base
	doublePop.PopulationSize = base.PopulationSize * 2
	scenarios = append(scenarios, ComparisonScenario{
		Name:   fmt.Sprintf("Population %d", doublePop.PopulationSize),
		Config: doublePop,
	})

	doubleGen := base
	doubleGen.Generations = base.Generations * 2
	scenarios = append(scenarios, ComparisonScenario{
		Name:   fmt.Sprintf("Generations %d", doubleGen.Generations),
		Config: doubleGen,
	})

	if base.MutationRate > 0 {
		heavy := base
		heavy.MutationRate = base.MutationRate * 2
		if heavy.MutationRate > 0.5 {
			heavy.MutationRate = 0.5
		}
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Mutation %.0f%%", heavy.MutationRate*100),
			Config: heavy,
		})
	}

	if base.EliteCount > 0 {
		noElite := base
		noElite.EliteCount = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "No Elitism",
			Config: noElite,
		})
	}

	return scenarios
}
