package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
)

// LabelInfo holds the data encoded into each item label's QR code.
type LabelInfo struct {
	Problem string       `json:"problem"`
	Bin     int          `json:"bin"`
	Item    int          `json:"item"`
	Size    model.Extent `json:"size"`
	At      model.Extent `json:"at"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// WriteLabels generates a PDF of QR-coded labels for all placed items.
// Each label carries the item number, its placed size, and a QR code encoding
// the placement as JSON, so a scanner at the loading dock can recover which
// bin an item belongs to and where it sits. Labels are laid out on a standard
// label sheet format (Avery 5160 / 3 columns x 10 rows on US Letter).
func WriteLabels(path string, p *model.Problem, result model.PackingResult) error {
	if len(result.Bins) == 0 {
		return fmt.Errorf("no bins to generate labels for")
	}

	labels := CollectLabelInfos(p, result)
	if len(labels) == 0 {
		return fmt.Errorf("no items placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		// Add new page when needed
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, p, label); err != nil {
			return fmt.Errorf("failed to render label for item %d: %w", label.Item, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, p *model.Problem, info LabelInfo) error {
	// Draw light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	// Generate QR code PNG bytes
	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Register QR image with a unique name
	imgName := fmt.Sprintf("qr_b%d_i%d", info.Bin, info.Item)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// Place QR code on the right side of the label
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Text area (left side of label)
	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Item number (bold, larger)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, fmt.Sprintf("Item %d", info.Item+1), "", 1, "L", false, 0, "")

	// Placed dimensions
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, info.Size.String(), "", 1, "L", false, 0, "")

	// Bin and position info
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	binInfo := fmt.Sprintf("Bin %d @ (%d, %d, %d)", info.Bin, info.At.X, info.At.Y, info.At.Z)
	pdf.CellFormat(textW, 3, binInfo, "", 1, "L", false, 0, "")

	// Problem name, truncated if too long
	name := info.Problem
	if pdf.GetStringWidth(name) > textW {
		for len(name) > 0 && pdf.GetStringWidth(name+"...") > textW {
			name = name[:len(name)-1]
		}
		name += "..."
	}
	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.CellFormat(textW, 3, name, "", 1, "L", false, 0, "")

	// Reorientation indicator
	if info.Size != p.ItemAt(info.Item) {
		pdf.SetXY(textX, y+labelPadding+16)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, "Reoriented", "", 0, "L", false, 0, "")
	}

	// Reset text color
	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectLabelInfos extracts label information from a packing result
// for use in testing or alternative export formats.
func CollectLabelInfos(p *model.Problem, result model.PackingResult) []LabelInfo {
	var labels []LabelInfo
	for binIdx, bin := range result.Bins {
		for _, pl := range bin.Placements {
			labels = append(labels, LabelInfo{
				Problem: p.Name,
				Bin:     binIdx + 1,
				Item:    pl.Item,
				Size:    pl.Size,
				At:      pl.At,
			})
		}
	}
	return labels
}
