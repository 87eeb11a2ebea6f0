package engine

import (
	"math"
	"sync"
	"testing"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProblem(t *testing.T, binSize model.Extent, items []model.Extent, binCount int) *model.Problem {
	t.Helper()
	p, err := model.NewProblem("evaluator-test", binSize, items, binCount)
	require.NoError(t, err)
	return p
}

// ─── Fitness Scenarios ───────────────────────────────────────────────────────

// Two half-height slabs stack into a single bin: the first placement leaves
// exactly one space above itself and the second fills it, so the bin is full
// and the fitness is bins(1) + least fill(1.0).
func TestEvaluate_StacksTwoHalfBinsIntoOne(t *testing.T) {
	p := newTestProblem(t, model.Extent{X: 10, Y: 10, Z: 10},
		[]model.Extent{{X: 10, Y: 10, Z: 5}, {X: 10, Y: 10, Z: 5}}, 1)
	ev := NewEvaluator(p)

	fitness, err := ev.Evaluate([]float64{0.1, 0.2, 0.05, 0.05})
	require.NoError(t, err)
	assert.Equal(t, 2.0, fitness)

	best, bins, loads := p.Best()
	assert.Equal(t, 2.0, best)
	assert.Equal(t, 1, bins)
	assert.Equal(t, []int{1000}, loads)
}

// A 15x5x5 girder only enters a 10x10x20 bin standing on end. The orientation
// gene decides: kept flat it cannot enter even an empty bin, rotated upright
// it packs fine.
func TestEvaluate_OrientationGeneControlsFeasibility(t *testing.T) {
	p := newTestProblem(t, model.Extent{X: 10, Y: 10, Z: 20},
		[]model.Extent{{X: 15, Y: 5, Z: 5}}, 1)
	ev := NewEvaluator(p)

	_, err := ev.Evaluate([]float64{0.5, 0.05}) // orientation 1 keeps 15 on x
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrItemTooLarge)

	fitness, err := ev.Evaluate([]float64{0.5, 0.65}) // orientation 4 yields 5x5x15
	require.NoError(t, err)
	assert.Equal(t, 1.1875, fitness) // 1 bin + 375/2000 fill
}

func TestEvaluate_WorseSolutionDoesNotOverwriteBest(t *testing.T) {
	p := newTestProblem(t, model.Extent{X: 10, Y: 10, Z: 10},
		[]model.Extent{{X: 10, Y: 10, Z: 5}, {X: 10, Y: 10, Z: 5}}, 1)
	ev := NewEvaluator(p)

	fitness, err := ev.Evaluate([]float64{0.1, 0.2, 0.05, 0.05})
	require.NoError(t, err)
	require.Equal(t, 2.0, fitness)

	// Rotating the second slab to 10x5x10 blocks the stack and forces a
	// second bin.
	fitness, err = ev.Evaluate([]float64{0.1, 0.2, 0.05, 0.3})
	require.NoError(t, err)
	assert.Equal(t, 2.5, fitness)

	best, bins, _ := p.Best()
	assert.Equal(t, 2.0, best)
	assert.Equal(t, 1, bins)
}

func TestEvaluate_PacksItemSetOncePerBin(t *testing.T) {
	p := newTestProblem(t, model.Extent{X: 10, Y: 10, Z: 10},
		[]model.Extent{{X: 10, Y: 10, Z: 10}}, 3)
	ev := NewEvaluator(p)

	fitness, err := ev.Evaluate([]float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5})
	require.NoError(t, err)
	assert.Equal(t, 4.0, fitness)

	_, bins, loads := p.Best()
	assert.Equal(t, 3, bins)
	assert.Equal(t, []int{1000, 1000, 1000}, loads)
}

func TestEvaluate_OpensNewBinOnlyWhenNothingFits(t *testing.T) {
	// Two 6-cubes cannot share a 10-bin: after the first placement every
	// leftover space is at most 4 units wide on its split axis.
	p := newTestProblem(t, model.Extent{X: 10, Y: 10, Z: 10},
		[]model.Extent{{X: 6, Y: 6, Z: 6}, {X: 6, Y: 6, Z: 6}}, 1)
	ev := NewEvaluator(p)

	fitness, err := ev.Evaluate([]float64{0.1, 0.2, 0.05, 0.05})
	require.NoError(t, err)
	assert.InDelta(t, 2.216, fitness, 1e-9)

	_, bins, loads := p.Best()
	assert.Equal(t, 2, bins)
	assert.Equal(t, []int{216, 216}, loads)
}

// With two bins open, a new item goes to whichever bin offers the deepest
// placement, not simply the most recently opened one. The third slab here
// fits both open bins but sits deeper in the first.
func TestEvaluate_PicksBestScoringBinAcrossOpenBins(t *testing.T) {
	p := newTestProblem(t, model.Extent{X: 10, Y: 10, Z: 10},
		[]model.Extent{{X: 10, Y: 10, Z: 5}, {X: 10, Y: 10, Z: 6}, {X: 10, Y: 10, Z: 4}}, 1)
	ev := NewEvaluator(p)

	fitness, err := ev.Evaluate([]float64{0.1, 0.2, 0.3, 0.05, 0.05, 0.05})
	require.NoError(t, err)
	assert.InDelta(t, 2.6, fitness, 1e-9)

	_, _, loads := p.Best()
	assert.Equal(t, []int{900, 600}, loads, "the 4-slab tops up the first bin")
}

// ─── Failure Paths ───────────────────────────────────────────────────────────

func TestEvaluate_ErrorsLeaveBestUntouched(t *testing.T) {
	p := newTestProblem(t, model.Extent{X: 10, Y: 10, Z: 20},
		[]model.Extent{{X: 15, Y: 5, Z: 5}}, 1)
	ev := NewEvaluator(p)

	_, err := ev.Evaluate([]float64{0.5}) // wrong length
	assert.ErrorIs(t, err, ErrSolutionLength)

	_, err = ev.Evaluate([]float64{0.5, 0.05}) // infeasible orientation
	assert.ErrorIs(t, err, ErrItemTooLarge)

	best, _, loads := p.Best()
	assert.True(t, math.IsInf(best, 1), "failed evaluations must not record")
	assert.Empty(t, loads)
}

// ─── Placement Geometry ──────────────────────────────────────────────────────

func TestEvaluateResult_ReportsPlacementGeometry(t *testing.T) {
	p := newTestProblem(t, model.Extent{X: 10, Y: 10, Z: 10},
		[]model.Extent{{X: 10, Y: 10, Z: 5}, {X: 10, Y: 10, Z: 5}}, 1)
	ev := NewEvaluator(p)

	result, err := ev.EvaluateResult([]float64{0.1, 0.2, 0.05, 0.05})
	require.NoError(t, err)

	assert.Equal(t, 2.0, result.Fitness)
	assert.Equal(t, 1, result.UsedBins)
	assert.Equal(t, model.Extent{X: 10, Y: 10, Z: 10}, result.BinSize)
	require.Len(t, result.Bins, 1)

	bin := result.Bins[0]
	assert.Equal(t, 1000, bin.Load)
	require.Len(t, bin.Placements, 2)
	assert.Equal(t, model.Placement{Item: 0, Size: model.Extent{X: 10, Y: 10, Z: 5}, At: model.Extent{X: 0, Y: 0, Z: 0}}, bin.Placements[0])
	assert.Equal(t, model.Placement{Item: 1, Size: model.Extent{X: 10, Y: 10, Z: 5}, At: model.Extent{X: 0, Y: 0, Z: 5}}, bin.Placements[1])
	assert.Equal(t, model.Extent{X: 10, Y: 10, Z: 10}, bin.Placements[1].FarCorner())
}

func TestEvaluate_DeterministicAcrossEvaluators(t *testing.T) {
	p := newTestProblem(t, model.Extent{X: 10, Y: 10, Z: 10},
		[]model.Extent{{X: 10, Y: 10, Z: 5}, {X: 5, Y: 5, Z: 5}, {X: 10, Y: 10, Z: 5}, {X: 5, Y: 5, Z: 10}, {X: 2, Y: 3, Z: 4}}, 2)
	solution := []float64{
		0.71, 0.02, 0.93, 0.41, 0.27, 0.66, 0.15, 0.88, 0.34, 0.59,
		0.12, 0.98, 0.45, 0.73, 0.21, 0.67, 0.05, 0.52, 0.81, 0.38,
	}

	first, err := NewEvaluator(p).EvaluateResult(solution)
	require.NoError(t, err)
	second, err := NewEvaluator(p).EvaluateResult(solution)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEvaluate_ConcurrentEvaluatorsShareBestRecord(t *testing.T) {
	p := newTestProblem(t, model.Extent{X: 10, Y: 10, Z: 10},
		[]model.Extent{{X: 10, Y: 10, Z: 5}, {X: 10, Y: 10, Z: 5}}, 1)

	solutions := [][]float64{
		{0.1, 0.2, 0.05, 0.05}, // stacks into one bin, fitness 2.0
		{0.1, 0.2, 0.05, 0.3},  // rotated second slab, fitness 2.5
		{0.2, 0.1, 0.3, 0.3},   // both rotated, still one bin
		{0.1, 0.2, 0.3, 0.05},
	}

	var wg sync.WaitGroup
	results := make([]float64, len(solutions)*8)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			ev := NewEvaluator(p)
			for i, s := range solutions {
				fitness, err := ev.Evaluate(s)
				if err != nil {
					t.Errorf("evaluate %d: %v", i, err)
					return
				}
				results[w*len(solutions)+i] = fitness
			}
		}(w)
	}
	wg.Wait()

	min := math.Inf(1)
	for _, f := range results {
		if f < min {
			min = f
		}
	}
	best, _, _ := p.Best()
	assert.Equal(t, min, best)
}
