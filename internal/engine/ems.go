package engine

import "github.com/HaiAu2501/Bin-Packing-Problem/internal/model"

// EMS is an empty maximal space: an axis-aligned box inside a bin that is
// guaranteed free of placed items. Min is the corner nearest the bin origin
// and Max the opposite corner. Every space a bin retains spans a strictly
// positive distance on all three axes.
type EMS struct {
	Min model.Extent
	Max model.Extent
}

// Fits reports whether item, placed at the space's minimum corner, stays
// within the space's maximum corner on all three axes.
func (s EMS) Fits(item model.Extent) bool {
	return s.Min.X+item.X <= s.Max.X &&
		s.Min.Y+item.Y <= s.Max.Y &&
		s.Min.Z+item.Z <= s.Max.Z
}

// inscribedIn reports whether s lies entirely inside other. An inscribed
// space offers no placement its container does not, so it is pruned.
func (s EMS) inscribedIn(other EMS) bool {
	return s.Min.X >= other.Min.X && s.Min.Y >= other.Min.Y && s.Min.Z >= other.Min.Z &&
		s.Max.X <= other.Max.X && s.Max.Y <= other.Max.Y && s.Max.Z <= other.Max.Z
}

// degenerate reports whether s has zero or negative span on any axis.
func (s EMS) degenerate() bool {
	return s.Min.X >= s.Max.X || s.Min.Y >= s.Max.Y || s.Min.Z >= s.Max.Z
}

// Span returns the space's extent on each axis.
func (s EMS) Span() model.Extent {
	return model.Extent{X: s.Max.X - s.Min.X, Y: s.Max.Y - s.Min.Y, Z: s.Max.Z - s.Min.Z}
}
