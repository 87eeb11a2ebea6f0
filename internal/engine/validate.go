package engine

import (
	"fmt"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
)

// ValidatePacking audits a finished packing for geometric consistency: every
// placement inside its bin, no two placements sharing volume, and every
// reported load matching the volume sum of its placements. A violation
// points at a decoding or space-split bug rather than bad input.
func ValidatePacking(result model.PackingResult) []model.PackingViolation {
	var violations []model.PackingViolation

	for binIdx, bin := range result.Bins {
		load := 0
		for i, p := range bin.Placements {
			load += p.Size.Volume()

			far := p.FarCorner()
			if p.At.X < 0 || p.At.Y < 0 || p.At.Z < 0 ||
				far.X > result.BinSize.X || far.Y > result.BinSize.Y || far.Z > result.BinSize.Z {
				violations = append(violations, model.PackingViolation{
					Kind:  model.ViolationOutOfBounds,
					Bin:   binIdx,
					First: p,
				})
			}

			for _, q := range bin.Placements[i+1:] {
				if boxesOverlap(p, q) {
					violations = append(violations, model.PackingViolation{
						Kind:   model.ViolationOverlap,
						Bin:    binIdx,
						First:  p,
						Second: q,
					})
				}
			}
		}

		if load != bin.Load {
			violations = append(violations, model.PackingViolation{
				Kind:     model.ViolationLoadMismatch,
				Bin:      binIdx,
				WantLoad: load,
				GotLoad:  bin.Load,
			})
		}
	}

	return violations
}

// boxesOverlap reports whether two placements share interior volume.
// Touching faces do not count.
func boxesOverlap(a, b model.Placement) bool {
	af, bf := a.FarCorner(), b.FarCorner()
	return a.At.X < bf.X && b.At.X < af.X &&
		a.At.Y < bf.Y && b.At.Y < af.Y &&
		a.At.Z < bf.Z && b.At.Z < af.Z
}

// FormatViolations produces human-readable warning messages from audit records.
func FormatViolations(violations []model.PackingViolation) []string {
	var warnings []string
	for _, v := range violations {
		var msg string
		switch v.Kind {
		case model.ViolationOutOfBounds:
			msg = fmt.Sprintf("Bin %d: item %d (%s at %s) sticks out of the bin",
				v.Bin+1, v.First.Item, v.First.Size, v.First.At)
		case model.ViolationOverlap:
			msg = fmt.Sprintf("Bin %d: item %d (%s at %s) overlaps item %d (%s at %s)",
				v.Bin+1, v.First.Item, v.First.Size, v.First.At,
				v.Second.Item, v.Second.Size, v.Second.At)
		case model.ViolationLoadMismatch:
			msg = fmt.Sprintf("Bin %d: reported load %d does not match placed volume %d",
				v.Bin+1, v.GotLoad, v.WantLoad)
		}
		warnings = append(warnings, msg)
	}
	return warnings
}
