// Package export renders packing results to shareable file formats.
package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-pdf/fpdf"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
)

// itemColor represents an RGB color for a placed item.
type itemColor struct {
	R, G, B int
}

// itemColors is the palette cycled through when rendering placements.
var itemColors = []itemColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// WritePDF generates a PDF document describing a packing result. Each bin is
// rendered on its own page as a top view with placements painted in z order,
// followed by a summary page with overall statistics and solver settings.
func WritePDF(path string, p *model.Problem, result model.PackingResult, cfg model.SolverConfig) error {
	if len(result.Bins) == 0 {
		return fmt.Errorf("no bins to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	// Render each bin on its own page
	for i := range result.Bins {
		pdf.AddPage()
		renderBinPage(pdf, p, result, i)
	}

	// Summary page
	pdf.AddPage()
	renderSummaryPage(pdf, p, result, cfg)

	return pdf.OutputFileAndClose(path)
}

// renderBinPage draws a single bin on the current PDF page.
func renderBinPage(pdf *fpdf.Fpdf, p *model.Problem, result model.PackingResult, binIdx int) {
	bin := result.Bins[binIdx]

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Bin %d of %d: %s (%s)", binIdx+1, len(result.Bins), p.Name, result.BinSize)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Items: %d | Load: %d | Bin volume: %d | Fill: %.1f%%",
		len(bin.Placements), bin.Load, result.BinSize.Volume(), 100*result.FillFraction(binIdx))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Calculate drawing area
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	// Calculate scale to fit the bin footprint within the drawing area
	scaleX := drawWidth / float64(result.BinSize.X)
	scaleY := drawHeight / float64(result.BinSize.Y)
	scale := math.Min(scaleX, scaleY)

	canvasW := float64(result.BinSize.X) * scale
	canvasH := float64(result.BinSize.Y) * scale

	// Center the drawing horizontally
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Draw bin floor
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Top view: paint low placements first so higher boxes overlay them
	order := make([]int, len(bin.Placements))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return bin.Placements[order[a]].At.Z < bin.Placements[order[b]].At.Z
	})

	for _, idx := range order {
		pl := bin.Placements[idx]
		col := itemColors[idx%len(itemColors)]
		pw := float64(pl.Size.X) * scale
		ph := float64(pl.Size.Y) * scale
		px := offsetX + float64(pl.At.X)*scale
		py := offsetY + float64(pl.At.Y)*scale

		// Item fill
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		// Item label (only if the rectangle is large enough)
		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := pl.Size.String()
			span := fmt.Sprintf("z %d-%d", pl.At.Z, pl.FarCorner().Z)

			labelW := pdf.GetStringWidth(label)
			spanW := pdf.GetStringWidth(span)

			// First line: oriented size
			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}

			// Second line: height range
			if ph > 14 && spanW < pw-2 {
				pdf.SetXY(px+(pw-spanW)/2, py+ph/2)
				pdf.CellFormat(spanW, 4, span, "", 0, "C", false, 0, "")
			}
		}
	}

	// Dimension annotations along the edges
	drawDimensionAnnotations(pdf, result.BinSize, scale, offsetX, offsetY, canvasW, canvasH)

	// Placement legend at bottom of page
	drawItemLegend(pdf, bin, offsetY+canvasH+5)
}

// drawDimensionAnnotations adds width and depth dimension labels outside the bin rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, binSize model.Extent, scale, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	// Width annotation (below the bin)
	widthLabel := fmt.Sprintf("x = %d", binSize.X)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	// Depth annotation (to the left of the bin, rotated)
	depthLabel := fmt.Sprintf("y = %d", binSize.Y)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	dLabelW := pdf.GetStringWidth(depthLabel)
	pdf.SetXY(offsetX-3-dLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(dLabelW, 4, depthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	// Reset text color
	pdf.SetTextColor(0, 0, 0)
}

// drawItemLegend renders a compact legend of placements at the bottom of the bin page.
func drawItemLegend(pdf *fpdf.Fpdf, bin model.BinResult, startY float64) {
	if len(bin.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Items placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, pl := range bin.Placements {
		col := itemColors[i%len(itemColors)]
		label := fmt.Sprintf("%s @ (%d,%d,%d)", pl.Size, pl.At.X, pl.At.Y, pl.At.Z)
		labelW := pdf.GetStringWidth(label) + 6

		// Wrap to next line if needed
		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		// Color swatch
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		// Label text
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, p *model.Problem, result model.PackingResult, cfg model.SolverConfig) {
	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Packing Summary", "", 0, "L", false, 0, "")

	// Separator line
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	// Overall statistics
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Problem", p.Name},
		{"Bin Size", result.BinSize.String()},
		{"Bins Used", fmt.Sprintf("%d of %d", result.UsedBins, p.BinCount)},
		{"Items Packed", fmt.Sprintf("%d", countItems(result))},
		{"Overall Fill", fmt.Sprintf("%.1f%%", overallFill(result))},
		{"Fitness", fmt.Sprintf("%.4f", result.Fitness)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	// Per-bin breakdown table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Bin Breakdown", "", 0, "L", false, 0, "")
	y += 9

	// Table header
	colWidths := []float64{20, 40, 50, 50, 35}
	headers := []string{"Bin", "Items", "Load", "Bin Volume", "Fill"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	// Table rows
	pdf.SetFont("Helvetica", "", 9)
	for i, bin := range result.Bins {
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", len(bin.Placements)),
			fmt.Sprintf("%d", bin.Load),
			fmt.Sprintf("%d", result.BinSize.Volume()),
			fmt.Sprintf("%.1f%%", 100*result.FillFraction(i)),
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	// Solver settings summary
	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Solver Settings", "", 0, "L", false, 0, "")
	y += 9

	settingsItems := []struct {
		label string
		value string
	}{
		{"Population Size", fmt.Sprintf("%d", cfg.PopulationSize)},
		{"Generations", fmt.Sprintf("%d", cfg.Generations)},
		{"Mutation Rate", fmt.Sprintf("%.2f", cfg.MutationRate)},
		{"Tournament Size", fmt.Sprintf("%d", cfg.TournamentSize)},
		{"Elite Count", fmt.Sprintf("%d", cfg.EliteCount)},
		{"Workers", fmt.Sprintf("%d", cfg.Workers)},
		{"Seed", fmt.Sprintf("%d", cfg.Seed)},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by binpack - 3D Bin Packing Optimizer", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

// countItems returns the total number of placed items across all bins.
func countItems(result model.PackingResult) int {
	total := 0
	for _, b := range result.Bins {
		total += len(b.Placements)
	}
	return total
}

// overallFill returns the used volume as a percentage of the volume of all
// opened bins.
func overallFill(result model.PackingResult) float64 {
	capacity := len(result.Bins) * result.BinSize.Volume()
	if capacity == 0 {
		return 0
	}
	used := 0
	for _, b := range result.Bins {
		used += b.Load
	}
	return 100 * float64(used) / float64(capacity)
}
