package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
)

// ErrSolutionLength is returned when a solution vector does not carry exactly
// two genes per item slot.
var ErrSolutionLength = errors.New("solution length mismatch")

// Decode turns a solution vector into the oriented items to pack, in packing
// order. The first half of the vector holds priority genes: a stable ascending
// argsort of them assigns each item slot a packing rank, ties keeping slot
// order. The second half holds orientation genes, one per slot in canonical
// order, so an item's shape is tied to its identity rather than to wherever
// the priorities happened to rank it. The canonical item set is read only;
// every call builds a fresh working slice.
func Decode(p *model.Problem, solution []float64) ([]model.Extent, error) {
	items, _, err := decode(p, solution)
	return items, err
}

// decode additionally reports which item slot occupies each packing rank,
// for callers that materialize placements.
func decode(p *model.Problem, solution []float64) ([]model.Extent, []int, error) {
	n := p.TotalItems()
	if len(solution) != 2*n {
		return nil, nil, fmt.Errorf("%w: got %d genes, want %d", ErrSolutionLength, len(solution), 2*n)
	}

	orders := argsort(solution[:n])

	working := make([]model.Extent, n)
	slots := make([]int, n)
	for i := 0; i < n; i++ {
		rank := orders[i]
		working[rank] = p.ItemAt(i).Orient(model.OrientationFromGene(solution[n+i]))
		slots[rank] = i
	}
	return working, slots, nil
}

// argsort returns the indices that would sort keys ascending. The sort is
// stable so equal keys keep their original index order and decoding stays
// deterministic.
func argsort(keys []float64) []int {
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]] < keys[idx[b]]
	})
	return idx
}
