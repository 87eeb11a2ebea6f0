package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"

	"github.com/disintegration/imaging"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
)

// Raster layout constants (pixels).
const (
	tileMaxEdge = 240 // longest edge of one slice tile
	tileGutter  = 12  // gap between tiles and around the sheet
)

var (
	sheetBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	tileFrame       = color.NRGBA{R: 90, G: 90, B: 90, A: 255}
	tileFloor       = color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	itemEdge        = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
)

// WritePNG renders the packing as a sheet of horizontal cross sections.
// Each row of tiles is one bin; each tile shows the bin's footprint sliced
// at one z level where a new layer of items starts. The output format
// follows the file extension, so .png paths give PNG output.
func WritePNG(path string, result model.PackingResult) error {
	if len(result.Bins) == 0 {
		return fmt.Errorf("no bins to export")
	}
	if result.BinSize.X <= 0 || result.BinSize.Y <= 0 {
		return fmt.Errorf("bin size %s has no footprint to draw", result.BinSize)
	}

	// One tile size for the whole sheet since every bin shares one footprint
	scale := float64(tileMaxEdge) / float64(max(result.BinSize.X, result.BinSize.Y))
	tileW := scaled(result.BinSize.X, scale)
	tileH := scaled(result.BinSize.Y, scale)

	levels := make([][]int, len(result.Bins))
	cols := 0
	for i, bin := range result.Bins {
		levels[i] = sliceLevels(bin)
		if len(levels[i]) > cols {
			cols = len(levels[i])
		}
	}
	if cols == 0 {
		cols = 1
	}

	sheetW := cols*tileW + (cols+1)*tileGutter
	sheetH := len(result.Bins)*tileH + (len(result.Bins)+1)*tileGutter
	sheet := imaging.New(sheetW, sheetH, sheetBackground)

	for binIdx, bin := range result.Bins {
		y := tileGutter + binIdx*(tileH+tileGutter)
		binLevels := levels[binIdx]
		if len(binLevels) == 0 {
			binLevels = []int{0}
		}
		for col, z := range binLevels {
			x := tileGutter + col*(tileW+tileGutter)
			tile := renderSliceTile(bin, result.BinSize, z, scale, tileW, tileH)
			sheet = imaging.Paste(sheet, tile, image.Pt(x, y))
		}
	}

	if err := imaging.Save(sheet, path); err != nil {
		return fmt.Errorf("failed to save raster: %w", err)
	}
	return nil
}

// sliceLevels returns the sorted distinct z levels at which items start in
// the bin. Slicing at these levels shows every layer of the packing once.
func sliceLevels(bin model.BinResult) []int {
	seen := make(map[int]bool)
	var levels []int
	for _, pl := range bin.Placements {
		if !seen[pl.At.Z] {
			seen[pl.At.Z] = true
			levels = append(levels, pl.At.Z)
		}
	}
	sort.Ints(levels)
	return levels
}

// renderSliceTile draws the bin footprint with every item whose body crosses
// the given z level.
func renderSliceTile(bin model.BinResult, binSize model.Extent, z int, scale float64, tileW, tileH int) *image.NRGBA {
	tile := imaging.New(tileW, tileH, tileFrame)

	// Bin floor inset by the 1px frame
	floor := image.Rect(1, 1, tileW-1, tileH-1)
	draw.Draw(tile, floor, &image.Uniform{tileFloor}, image.Point{}, draw.Src)

	for idx, pl := range bin.Placements {
		if pl.At.Z > z || z >= pl.FarCorner().Z {
			continue
		}

		col := itemColors[idx%len(itemColors)]
		fill := color.NRGBA{R: uint8(col.R), G: uint8(col.G), B: uint8(col.B), A: 255}

		x0 := scaled(pl.At.X, scale)
		y0 := scaled(pl.At.Y, scale)
		x1 := scaled(pl.FarCorner().X, scale)
		y1 := scaled(pl.FarCorner().Y, scale)

		outer := image.Rect(x0, y0, x1, y1)
		draw.Draw(tile, outer, &image.Uniform{itemEdge}, image.Point{}, draw.Src)
		draw.Draw(tile, outer.Inset(1), &image.Uniform{fill}, image.Point{}, draw.Src)
	}

	return tile
}

// scaled converts a grid coordinate to pixels, keeping at least one pixel so
// thin items stay visible.
func scaled(v int, scale float64) int {
	px := int(float64(v) * scale)
	if v > 0 && px < 1 {
		return 1
	}
	return px
}
