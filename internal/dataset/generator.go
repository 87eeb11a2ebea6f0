package dataset

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
)

// GeneratorConfig controls random instance generation.
type GeneratorConfig struct {
	Name     string // instance name; empty means "<items>.<seed>"
	BinSize  model.Extent
	Items    int   // items per bin, 10 to 1000
	BinCount int   // bins the instance should need, min 1
	Samples  int   // extra boxes cut then trimmed from the top; negative means Items/10
	Seed     int64
}

// Generate builds a random instance by guillotine-cutting one bin: the
// largest remaining box is repeatedly split at a random point along its
// longest axis until Items+Samples boxes exist, then the Samples boxes
// whose origins sit highest are discarded and the rest are shuffled.
//
// Every generated item is a sub-box of the bin, so the instance is always
// valid, and the surviving boxes tile part of one bin, so a perfect search
// can always pack each item set back into a single bin.
func Generate(cfg GeneratorConfig) (*model.Problem, error) {
	if cfg.Items < 10 || cfg.Items > 1000 {
		return nil, fmt.Errorf("items per bin must be between 10 and 1000, got %d", cfg.Items)
	}
	if cfg.BinCount < 1 {
		return nil, fmt.Errorf("bin count must be at least 1, got %d", cfg.BinCount)
	}
	samples := cfg.Samples
	if samples < 0 {
		samples = cfg.Items / 10
	}
	if samples > cfg.Items {
		return nil, fmt.Errorf("samples %d cannot exceed items %d", samples, cfg.Items)
	}
	target := cfg.Items + samples
	if target > cfg.BinSize.Volume() {
		return nil, fmt.Errorf("cannot cut bin %s into %d boxes", cfg.BinSize, target)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	type box struct {
		origin model.Extent
		size   model.Extent
	}
	boxes := []box{{size: cfg.BinSize}}

	for len(boxes) < target {
		// Split the largest box at a random point along its longest axis.
		sort.SliceStable(boxes, func(i, j int) bool {
			return boxes[i].size.Volume() < boxes[j].size.Volume()
		})
		b := boxes[len(boxes)-1]
		boxes = boxes[:len(boxes)-1]

		axis := longestAxis(b.size)
		length := axisValue(b.size, axis)
		cut := 1 + rng.Intn(length-1)

		first, second := b, b
		setAxis(&first.size, axis, cut)
		setAxis(&second.size, axis, length-cut)
		setAxis(&second.origin, axis, axisValue(b.origin, axis)+cut)
		boxes = append(boxes, first, second)
	}

	// Drop the topmost boxes so the instance does not trivially tile the bin.
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].origin.Z < boxes[j].origin.Z
	})
	boxes = boxes[:cfg.Items]

	rng.Shuffle(len(boxes), func(i, j int) {
		boxes[i], boxes[j] = boxes[j], boxes[i]
	})

	items := make([]model.Extent, len(boxes))
	for i, b := range boxes {
		items[i] = b.size
	}

	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("%d.%d", cfg.Items, cfg.Seed)
	}
	return model.NewProblem(name, cfg.BinSize, items, cfg.BinCount)
}

// longestAxis returns 0, 1 or 2 for the largest dimension of e, preferring X
// then Y on ties.
func longestAxis(e model.Extent) int {
	axis := 0
	if e.Y > e.X {
		axis = 1
	}
	if e.Z > axisValue(e, axis) {
		axis = 2
	}
	return axis
}

func axisValue(e model.Extent, axis int) int {
	switch axis {
	case 1:
		return e.Y
	case 2:
		return e.Z
	default:
		return e.X
	}
}

func setAxis(e *model.Extent, axis, v int) {
	switch axis {
	case 1:
		e.Y = v
	case 2:
		e.Z = v
	default:
		e.X = v
	}
}
