package model

import (
	"fmt"
	"math"
	"sync"
)

// Problem is one packing instance: the bin size, the canonical per-bin item
// set, and a bin count multiplier, plus the best result observed across
// evaluations of the instance.
//
// Items is immutable after construction. Evaluations work on their own
// oriented copies and never write back into it. The best-result fields are
// guarded by a mutex so concurrent evaluators can report improvements safely;
// Record is the only write path.
type Problem struct {
	Name        string   `json:"name"`
	BinSize     Extent   `json:"bin_size"`
	Items       []Extent `json:"items"`        // one bin's worth of items
	BinCount    int      `json:"bin_count"`    // copies of the item set to pack
	TotalVolume int      `json:"total_volume"` // volume of the per-bin item set

	mu          sync.Mutex
	bestFitness float64
	bestBins    int
	bestLoads   []int
}

// NewProblem validates the instance data and returns a Problem with the best
// fitness initialized to +Inf.
func NewProblem(name string, binSize Extent, items []Extent, binCount int) (*Problem, error) {
	if binSize.X <= 0 || binSize.Y <= 0 || binSize.Z <= 0 {
		return nil, fmt.Errorf("bin size %s must be positive on all axes", binSize)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("problem %q has no items", name)
	}
	if binCount < 1 {
		return nil, fmt.Errorf("bin count %d must be at least 1", binCount)
	}
	total := 0
	for i, item := range items {
		if item.X <= 0 || item.Y <= 0 || item.Z <= 0 {
			return nil, fmt.Errorf("item %d has degenerate size %s", i, item)
		}
		if !item.FitsInAnyOrientation(binSize) {
			return nil, fmt.Errorf("item %d (%s) does not fit bin %s in any orientation", i, item, binSize)
		}
		total += item.Volume()
	}
	p := &Problem{
		Name:        name,
		BinSize:     binSize,
		Items:       items,
		BinCount:    binCount,
		TotalVolume: total,
		bestFitness: math.Inf(1),
	}
	p.bestBins = p.TotalItems()
	return p, nil
}

// TotalItems returns the number of items a packing must place: the per-bin
// set repeated BinCount times.
func (p *Problem) TotalItems() int {
	return len(p.Items) * p.BinCount
}

// SolutionLength returns the required solution vector length,
// 2*TotalItems(): one priority gene and one orientation gene per item slot.
func (p *Problem) SolutionLength() int {
	return 2 * p.TotalItems()
}

// ItemAt returns the canonical item for slot i. Slots beyond the per-bin set
// wrap around, so slot i always refers to Items[i % len(Items)].
func (p *Problem) ItemAt(i int) Extent {
	return p.Items[i%len(p.Items)]
}

// BinVolume returns the volume of one bin.
func (p *Problem) BinVolume() int {
	return p.BinSize.Volume()
}

// Record stores fitness, usedBins and loads as the new best iff the fitness
// strictly improves on the stored best. It reports whether it recorded.
// Safe for concurrent use.
func (p *Problem) Record(fitness float64, usedBins int, loads []int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if fitness >= p.bestFitness {
		return false
	}
	p.bestFitness = fitness
	p.bestBins = usedBins
	p.bestLoads = append([]int(nil), loads...)
	return true
}

// Best returns the best fitness, used-bin count and per-bin loads recorded so
// far. Before any improving evaluation the fitness is +Inf, the bin count is
// TotalItems() and the loads are nil.
func (p *Problem) Best() (fitness float64, usedBins int, loads []int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bestFitness, p.bestBins, append([]int(nil), p.bestLoads...)
}
