package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
)

// binLayerColors cycles through distinct DXF color numbers for per-bin layers.
var binLayerColors = []color.ColorNumber{
	color.Red,
	color.Yellow,
	color.Green,
	color.Cyan,
	color.Blue,
	color.Magenta,
}

// binSpacingFactor sets the gap between bins along the x axis, as a multiple
// of the bin width.
const binSpacingFactor = 1.5

// WriteDXF writes the packing as a 3D wireframe drawing. Bin outlines land on
// the BINS layer and each bin's placements are drawn as boxes of LINE
// entities on their own layer, so CAD viewers can toggle bins on and off.
// Bins are laid out side by side along the x axis.
func WriteDXF(path string, result model.PackingResult) error {
	if len(result.Bins) == 0 {
		return fmt.Errorf("no bins to export")
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer("BINS", color.White, table.LT_CONTINUOUS, true); err != nil {
		return fmt.Errorf("failed to add BINS layer: %w", err)
	}

	spacing := float64(result.BinSize.X) * binSpacingFactor

	for binIdx, bin := range result.Bins {
		offsetX := float64(binIdx) * spacing

		// Bin outline
		if err := d.ChangeLayer("BINS"); err != nil {
			return fmt.Errorf("failed to switch to BINS layer: %w", err)
		}
		if err := drawBox(d, offsetX, 0, 0, result.BinSize); err != nil {
			return fmt.Errorf("failed to draw bin %d outline: %w", binIdx+1, err)
		}

		// Per-bin item layer
		layerName := fmt.Sprintf("BIN_%d", binIdx+1)
		layerColor := binLayerColors[binIdx%len(binLayerColors)]
		if _, err := d.AddLayer(layerName, layerColor, table.LT_CONTINUOUS, true); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", layerName, err)
		}

		for _, pl := range bin.Placements {
			if err := drawBox(d, offsetX+float64(pl.At.X), float64(pl.At.Y), float64(pl.At.Z), pl.Size); err != nil {
				return fmt.Errorf("failed to draw item %d in bin %d: %w", pl.Item, binIdx+1, err)
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// drawBox draws the 12 edges of an axis-aligned box with minimum corner
// (x, y, z) on the drawing's current layer.
func drawBox(d *drawing.Drawing, x, y, z float64, size model.Extent) error {
	sx := float64(size.X)
	sy := float64(size.Y)
	sz := float64(size.Z)

	edges := [12][2][3]float64{
		// Bottom face
		{{x, y, z}, {x + sx, y, z}},
		{{x + sx, y, z}, {x + sx, y + sy, z}},
		{{x + sx, y + sy, z}, {x, y + sy, z}},
		{{x, y + sy, z}, {x, y, z}},
		// Top face
		{{x, y, z + sz}, {x + sx, y, z + sz}},
		{{x + sx, y, z + sz}, {x + sx, y + sy, z + sz}},
		{{x + sx, y + sy, z + sz}, {x, y + sy, z + sz}},
		{{x, y + sy, z + sz}, {x, y, z + sz}},
		// Vertical edges
		{{x, y, z}, {x, y, z + sz}},
		{{x + sx, y, z}, {x + sx, y, z + sz}},
		{{x + sx, y + sy, z}, {x + sx, y + sy, z + sz}},
		{{x, y + sy, z}, {x, y + sy, z + sz}},
	}

	for _, e := range edges {
		if _, err := d.Line(e[0][0], e[0][1], e[0][2], e[1][0], e[1][1], e[1][2]); err != nil {
			return err
		}
	}
	return nil
}
