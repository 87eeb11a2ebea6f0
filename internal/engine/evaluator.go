package engine

import (
	"errors"
	"fmt"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
)

// ErrItemTooLarge is returned when an oriented item cannot fit even an empty
// bin. Instances guarantee every item fits in some orientation, so hitting
// this means either corrupt data or an orientation gene that turned a long
// item across a short bin axis.
var ErrItemTooLarge = errors.New("item does not fit an empty bin")

// Evaluator scores solution vectors for one problem instance. Its bin list is
// reset at the start of every call and is never valid across calls, so an
// Evaluator must not be shared between goroutines; a concurrent search uses
// one Evaluator per worker and shares only the Problem, whose Record method
// is the single synchronized write.
type Evaluator struct {
	problem *model.Problem
	bins    []*Bin
}

// NewEvaluator binds an evaluator to a problem instance.
func NewEvaluator(p *model.Problem) *Evaluator {
	return &Evaluator{problem: p}
}

// Problem returns the bound problem instance.
func (e *Evaluator) Problem() *model.Problem {
	return e.problem
}

// Evaluate decodes solution, packs every item greedily and returns the
// fitness: the number of bins used plus the least-loaded bin's fill fraction.
// Lower is better. Between equal bin counts the packing whose emptiest bin
// carries less scores better, steering the search toward freeing that bin
// entirely. A fitness that improves on the problem's best is recorded before
// returning. On any error the call aborts with the problem record untouched.
func (e *Evaluator) Evaluate(solution []float64) (float64, error) {
	items, err := Decode(e.problem, solution)
	if err != nil {
		return 0, err
	}
	if _, err := e.pack(items, nil); err != nil {
		return 0, err
	}
	fitness, loads := e.score()
	e.problem.Record(fitness, len(e.bins), loads)
	return fitness, nil
}

// EvaluateResult runs the same packing as Evaluate but also materializes the
// full placement geometry for reporting and export.
func (e *Evaluator) EvaluateResult(solution []float64) (model.PackingResult, error) {
	items, slots, err := decode(e.problem, solution)
	if err != nil {
		return model.PackingResult{}, err
	}
	traces, err := e.pack(items, slots)
	if err != nil {
		return model.PackingResult{}, err
	}
	fitness, loads := e.score()
	e.problem.Record(fitness, len(e.bins), loads)

	bins := make([]model.BinResult, len(e.bins))
	for i, b := range e.bins {
		bins[i].Load = b.Load
	}
	for _, tr := range traces {
		bins[tr.bin].Placements = append(bins[tr.bin].Placements, tr.placement)
	}
	return model.PackingResult{
		Fitness:  fitness,
		UsedBins: len(e.bins),
		BinSize:  e.problem.BinSize,
		Bins:     bins,
	}, nil
}

type placementTrace struct {
	bin       int
	placement model.Placement
}

// pack places the oriented items in order, opening a bin whenever no open bin
// has a space that fits. When slots is non-nil it also records one trace per
// placement, slots[i] naming the item slot packed at rank i.
func (e *Evaluator) pack(items []model.Extent, slots []int) ([]placementTrace, error) {
	e.bins = e.bins[:0]
	var traces []placementTrace
	if slots != nil {
		traces = make([]placementTrace, 0, len(items))
	}

	for i, item := range items {
		binIdx, space, ok := e.chooseAcrossBins(item)
		if !ok {
			fresh := NewBin(e.problem.BinSize)
			space, ok = fresh.Choose(item)
			if !ok {
				return nil, fmt.Errorf("%w: placement %d of size %s against bin %s",
					ErrItemTooLarge, i, item, e.problem.BinSize)
			}
			e.bins = append(e.bins, fresh)
			binIdx = len(e.bins) - 1
		}
		e.bins[binIdx].Update(item, space)

		if slots != nil {
			traces = append(traces, placementTrace{
				bin:       binIdx,
				placement: model.Placement{Item: slots[i], Size: item, At: space.Min},
			})
		}
	}
	return traces, nil
}

// chooseAcrossBins runs Choose on every open bin and keeps the single best
// candidate by the farthest-corner score, so a later bin wins only with a
// strictly better space, never merely by fitting.
func (e *Evaluator) chooseAcrossBins(item model.Extent) (int, EMS, bool) {
	bestIdx := -1
	bestScore := -1
	var bestSpace EMS

	for i, b := range e.bins {
		space, ok := b.Choose(item)
		if !ok {
			continue
		}
		if score := b.cornerScore(space, item); score > bestScore {
			bestScore = score
			bestIdx = i
			bestSpace = space
		}
	}
	return bestIdx, bestSpace, bestIdx >= 0
}

// score computes the fitness and per-bin loads of the current packing.
func (e *Evaluator) score() (float64, []int) {
	loads := make([]int, len(e.bins))
	least := e.bins[0].Load
	for i, b := range e.bins {
		loads[i] = b.Load
		if b.Load < least {
			least = b.Load
		}
	}
	return float64(len(e.bins)) + float64(least)/float64(e.problem.BinVolume()), loads
}
