package engine

import "github.com/HaiAu2501/Bin-Packing-Problem/internal/model"

// Bin is one open bin during a packing: its fixed size, the empty maximal
// spaces still available for placements, and the accumulated load.
type Bin struct {
	Size model.Extent
	Load int // sum of placed item volumes
	ems  []EMS
}

// NewBin returns an empty bin whose space set is the single EMS spanning the
// whole bin.
func NewBin(size model.Extent) *Bin {
	return &Bin{
		Size: size,
		ems:  []EMS{{Max: size}},
	}
}

// Spaces returns a copy of the bin's current EMS set.
func (b *Bin) Spaces() []EMS {
	return append([]EMS(nil), b.ems...)
}

// Choose scans the bin's spaces for those that fit item and returns the one
// whose far corner after placement lies farthest, by squared distance, from
// the bin's own far corner. Placing against the distant walls first keeps the
// region near the far corner open for later items. ok is false when no space
// fits; ties keep the first space in scan order.
func (b *Bin) Choose(item model.Extent) (chosen EMS, ok bool) {
	best := -1
	for _, s := range b.ems {
		if !s.Fits(item) {
			continue
		}
		if d := b.cornerScore(s, item); d > best {
			best = d
			chosen = s
			ok = true
		}
	}
	return chosen, ok
}

// cornerScore is the squared distance from the item's far corner, when placed
// at s.Min, to the bin's far corner.
func (b *Bin) cornerScore(s EMS, item model.Extent) int {
	dx := b.Size.X - (s.Min.X + item.X)
	dy := b.Size.Y - (s.Min.Y + item.Y)
	dz := b.Size.Z - (s.Min.Z + item.Z)
	return dx*dx + dy*dy + dz*dz
}

// Update places item at chosen.Min. The chosen space is removed and up to
// three new spaces are carved between the item's far faces and the old
// space's maximum corner; candidates that are degenerate or inscribed in a
// retained space are dropped. Spaces other than the chosen one are left
// untouched even where the item now overlaps them; tightening that split
// changes which packings the heuristic finds.
func (b *Bin) Update(item model.Extent, chosen EMS) {
	survivors := make([]EMS, 0, len(b.ems)+2)
	removed := false
	for _, s := range b.ems {
		if !removed && s == chosen {
			removed = true
			continue
		}
		survivors = append(survivors, s)
	}
	b.ems = survivors

	far := chosen.Min.Add(item)
	candidates := [3]EMS{
		{Min: model.Extent{X: far.X, Y: chosen.Min.Y, Z: chosen.Min.Z}, Max: chosen.Max},
		{Min: model.Extent{X: chosen.Min.X, Y: far.Y, Z: chosen.Min.Z}, Max: chosen.Max},
		{Min: model.Extent{X: chosen.Min.X, Y: chosen.Min.Y, Z: far.Z}, Max: chosen.Max},
	}

	// Filter first, append after: candidates are tested against the
	// post-removal set only, never against a collection being extended.
	// The three candidates cannot inscribe one another; their minimum
	// corners differ pairwise on a displaced axis.
	admitted := make([]EMS, 0, 3)
	for _, c := range candidates {
		if c.degenerate() {
			continue
		}
		inscribed := false
		for _, s := range b.ems {
			if c.inscribedIn(s) {
				inscribed = true
				break
			}
		}
		if !inscribed {
			admitted = append(admitted, c)
		}
	}
	b.ems = append(b.ems, admitted...)

	b.Load += item.Volume()
}
