package engine

import (
	"testing"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMSFits_RejectsSingleAxisOverflow(t *testing.T) {
	space := EMS{Max: model.Extent{X: 10, Y: 10, Z: 10}}

	tests := []struct {
		name string
		item model.Extent
		want bool
	}{
		{"exact fill", model.Extent{X: 10, Y: 10, Z: 10}, true},
		{"loose fit", model.Extent{X: 3, Y: 4, Z: 5}, true},
		{"x overflow only", model.Extent{X: 11, Y: 5, Z: 5}, false},
		{"y overflow only", model.Extent{X: 5, Y: 11, Z: 5}, false},
		{"z overflow only", model.Extent{X: 5, Y: 5, Z: 11}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, space.Fits(tc.item))
		})
	}
}

func TestEMSFits_UsesMinCornerAsPlacementOrigin(t *testing.T) {
	// An 8-unit item fits a space spanning (2..10) exactly, 9 units do not.
	space := EMS{
		Min: model.Extent{X: 2, Y: 2, Z: 2},
		Max: model.Extent{X: 10, Y: 10, Z: 10},
	}
	assert.True(t, space.Fits(model.Extent{X: 8, Y: 8, Z: 8}))
	assert.False(t, space.Fits(model.Extent{X: 9, Y: 8, Z: 8}))
}

func TestNewBinStartsWithFullSpace(t *testing.T) {
	bin := NewBin(model.Extent{X: 10, Y: 12, Z: 14})

	spaces := bin.Spaces()
	require.Len(t, spaces, 1)
	assert.Equal(t, model.Extent{}, spaces[0].Min)
	assert.Equal(t, model.Extent{X: 10, Y: 12, Z: 14}, spaces[0].Max)
	assert.Equal(t, 0, bin.Load)
}

func TestChoose_PrefersSpaceFarthestFromBinCorner(t *testing.T) {
	// Two disjoint spaces; the one near the origin leaves the item's far
	// corner much farther from the bin corner and must win.
	bin := &Bin{
		Size: model.Extent{X: 10, Y: 10, Z: 10},
		ems: []EMS{
			{Min: model.Extent{X: 5, Y: 5, Z: 5}, Max: model.Extent{X: 10, Y: 10, Z: 10}},
			{Min: model.Extent{X: 0, Y: 0, Z: 0}, Max: model.Extent{X: 5, Y: 5, Z: 5}},
		},
	}

	chosen, ok := bin.Choose(model.Extent{X: 2, Y: 2, Z: 2})
	require.True(t, ok)
	assert.Equal(t, model.Extent{X: 0, Y: 0, Z: 0}, chosen.Min, "origin space leaves the far corner free")
}

func TestChoose_NoSpaceFits(t *testing.T) {
	bin := &Bin{
		Size: model.Extent{X: 10, Y: 10, Z: 10},
		ems: []EMS{
			{Min: model.Extent{X: 0, Y: 0, Z: 0}, Max: model.Extent{X: 3, Y: 3, Z: 3}},
		},
	}

	_, ok := bin.Choose(model.Extent{X: 4, Y: 1, Z: 1})
	assert.False(t, ok)
}

func TestUpdate_SplitsChosenSpaceIntoThree(t *testing.T) {
	bin := NewBin(model.Extent{X: 10, Y: 10, Z: 10})
	chosen, ok := bin.Choose(model.Extent{X: 3, Y: 4, Z: 5})
	require.True(t, ok)

	bin.Update(model.Extent{X: 3, Y: 4, Z: 5}, chosen)

	spaces := bin.Spaces()
	assert.ElementsMatch(t, []EMS{
		{Min: model.Extent{X: 3, Y: 0, Z: 0}, Max: model.Extent{X: 10, Y: 10, Z: 10}},
		{Min: model.Extent{X: 0, Y: 4, Z: 0}, Max: model.Extent{X: 10, Y: 10, Z: 10}},
		{Min: model.Extent{X: 0, Y: 0, Z: 5}, Max: model.Extent{X: 10, Y: 10, Z: 10}},
	}, spaces)
	assert.Equal(t, 60, bin.Load)
}

func TestUpdate_DiscardsDegenerateSpaces(t *testing.T) {
	// An item flush with two bin walls leaves only the space above it.
	bin := NewBin(model.Extent{X: 10, Y: 10, Z: 10})
	chosen, _ := bin.Choose(model.Extent{X: 10, Y: 10, Z: 4})

	bin.Update(model.Extent{X: 10, Y: 10, Z: 4}, chosen)

	spaces := bin.Spaces()
	require.Len(t, spaces, 1)
	assert.Equal(t, model.Extent{X: 0, Y: 0, Z: 4}, spaces[0].Min)
	assert.Equal(t, model.Extent{X: 10, Y: 10, Z: 10}, spaces[0].Max)
	assert.Equal(t, 400, bin.Load)
}

func TestUpdate_DiscardsCandidatesInscribedInRetainedSpaces(t *testing.T) {
	bin := NewBin(model.Extent{X: 10, Y: 10, Z: 10})

	// First placement: a half-height column against the x/y walls.
	first := model.Extent{X: 5, Y: 5, Z: 10}
	chosen, ok := bin.Choose(first)
	require.True(t, ok)
	bin.Update(first, chosen)
	require.Len(t, bin.Spaces(), 2, "z-split is degenerate for a full-height item")

	// Second placement lands in the x-split space. Its y-split candidate
	// duplicates part of the retained y space and must be pruned.
	second := model.Extent{X: 5, Y: 5, Z: 5}
	chosen, ok = bin.Choose(second)
	require.True(t, ok)
	bin.Update(second, chosen)

	spaces := bin.Spaces()
	assert.ElementsMatch(t, []EMS{
		{Min: model.Extent{X: 0, Y: 5, Z: 0}, Max: model.Extent{X: 10, Y: 10, Z: 10}},
		{Min: model.Extent{X: 5, Y: 0, Z: 5}, Max: model.Extent{X: 10, Y: 10, Z: 10}},
	}, spaces)
	assert.Equal(t, 375, bin.Load)
}

func TestUpdate_KeepsSpacesPositiveAndUnnested(t *testing.T) {
	// Drive a bin through a fixed placement sequence and re-check the space
	// invariants after every update: strictly positive spans, and no retained
	// space inscribed in another.
	bin := NewBin(model.Extent{X: 20, Y: 20, Z: 20})
	items := []model.Extent{
		{X: 7, Y: 5, Z: 3}, {X: 5, Y: 5, Z: 5}, {X: 10, Y: 10, Z: 10}, {X: 2, Y: 9, Z: 4}, {X: 6, Y: 6, Z: 6}, {X: 20, Y: 3, Z: 3},
	}

	for _, item := range items {
		chosen, ok := bin.Choose(item)
		if !ok {
			continue
		}
		bin.Update(item, chosen)

		spaces := bin.Spaces()
		for i, s := range spaces {
			span := s.Span()
			assert.True(t, span.X > 0 && span.Y > 0 && span.Z > 0,
				"space %v has a non-positive span after placing %s", s, item)
			for j, other := range spaces {
				if i == j {
					continue
				}
				assert.False(t, s.inscribedIn(other),
					"space %v is inscribed in %v after placing %s", s, other, item)
			}
		}
	}
}
