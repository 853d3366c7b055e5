// Package export provides functionality for exporting packing results
// to various file formats.
package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/CargoFit/internal/model"
)

// itemColor represents an RGB color for a placed unit.
type itemColor struct {
	R, G, B int
}

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

// specPalette assigns each cargo line a color in order of first appearance,
// so every unit of one spec is drawn the same way.
func specPalette(items []model.UnitItem) map[string]itemColor {
	palette := make(map[string]itemColor)
	for _, it := range items {
		if _, ok := palette[it.SpecID]; !ok {
			palette[it.SpecID] = itemColors[len(palette)%len(itemColors)]
		}
	}
	return palette
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
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// view selects the projection drawn on a plan page.
type view int

const (
	viewTop  view = iota // x right, y down, looking at the floor
	viewSide             // x right, z up, looking from the door side
)

// ExportPDF writes a load plan for result to path: a top view, a side view
// and a summary page.
func ExportPDF(path string, result model.PackResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create PDF file: %w", err)
	}
	if err := WritePDF(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WritePDF renders the load plan for result to w.
func WritePDF(w io.Writer, result model.PackResult) error {
	if len(result.Items) == 0 {
		return fmt.Errorf("no items to export")
	}
	if result.Container.Volume() <= 0 {
		return fmt.Errorf("container has no volume")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	palette := specPalette(result.Items)

	pdf.AddPage()
	renderViewPage(pdf, result, palette, viewTop)

	pdf.AddPage()
	renderViewPage(pdf, result, palette, viewSide)

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.Output(w)
}

// renderViewPage draws the container outline and every fitted unit in one
// projection on the current page.
func renderViewPage(pdf *fpdf.Fpdf, result model.PackResult, palette map[string]itemColor, v view) {
	c := result.Container
	title := "Top View"
	depth := c.Width
	if v == viewSide {
		title = "Side View"
		depth = c.Height
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	header := fmt.Sprintf("%s: %s (%.0f x %.0f x %.0f cm)", title, containerName(c), c.Length, c.Width, c.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, header, "", 0, "L", false, 0, "")

	st := result.Stats()
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Units: %d of %d | Volume: %.1f%% | Weight: %.0f kg",
		st.FittedItems, st.TotalItems, st.VolumeEfficiency, st.FittedWeight)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/c.Length, drawHeight/depth)

	canvasW := c.Length * scale
	canvasH := depth * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Painter's order: lower units first in the top view, far units first
	// in the side view.
	fitted := result.Fitted()
	sort.SliceStable(fitted, func(i, j int) bool {
		if v == viewTop {
			return fitted[i].Z+fitted[i].Height < fitted[j].Z+fitted[j].Height
		}
		return fitted[i].Y > fitted[j].Y
	})

	for _, it := range fitted {
		var px, py, pw, ph float64
		pw = it.Length * scale
		px = offsetX + it.X*scale
		if v == viewTop {
			ph = it.Width * scale
			py = offsetY + it.Y*scale
		} else {
			ph = it.Height * scale
			py = offsetY + canvasH - (it.Z+it.Height)*scale
		}

		col := palette[it.SpecID]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 12 && ph > 6 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			label := it.ID
			if labelW := pdf.GetStringWidth(label); labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-2)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, c.Length, depth, offsetX, offsetY, canvasW, canvasH)
	drawSpecLegend(pdf, result.Items, palette, offsetY+canvasH+6)
}

func containerName(c model.Container) string {
	if c.Label != "" {
		return c.Label
	}
	return "Container"
}

// drawDimensionAnnotations adds length and depth labels outside the container outline.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, length, depth, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	lengthLabel := fmt.Sprintf("%.0f cm", length)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX+(canvasW-lLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")

	depthLabel := fmt.Sprintf("%.0f cm", depth)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	dLabelW := pdf.GetStringWidth(depthLabel)
	pdf.SetXY(offsetX-3-dLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(dLabelW, 4, depthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawSpecLegend renders one swatch per cargo line with its fitted count.
func drawSpecLegend(pdf *fpdf.Fpdf, items []model.UnitItem, palette map[string]itemColor, startY float64) {
	type entry struct {
		specID, name  string
		fitted, total int
	}
	var entries []*entry
	bySpec := make(map[string]*entry)
	for _, it := range items {
		e, ok := bySpec[it.SpecID]
		if !ok {
			e = &entry{specID: it.SpecID, name: baseName(it)}
			bySpec[it.SpecID] = e
			entries = append(entries, e)
		}
		e.total++
		if it.Fitted {
			e.fitted++
		}
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(20, 4, "Cargo:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 22
	maxX := pageWidth - marginRight
	for _, e := range entries {
		label := fmt.Sprintf("%s %d/%d", e.name, e.fitted, e.total)
		labelW := pdf.GetStringWidth(label) + 6
		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		col := palette[e.specID]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")
		xPos += labelW + 2
	}
}

// baseName strips the " #n" unit suffix added during expansion.
func baseName(it model.UnitItem) string {
	for i := len(it.Name) - 1; i > 0; i-- {
		if it.Name[i] == '#' && it.Name[i-1] == ' ' {
			return it.Name[:i-1]
		}
	}
	return it.Name
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackResult) {
	st := result.Stats()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Load Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	weight := fmt.Sprintf("%.1f kg", st.FittedWeight)
	if result.Container.MaxWeight > 0 {
		weight = fmt.Sprintf("%.1f / %.1f kg (%.1f%%)", st.FittedWeight, result.Container.MaxWeight, st.WeightUtilization)
	}
	summaryItems := []struct {
		label string
		value string
	}{
		{"Units Loaded", fmt.Sprintf("%d of %d", st.FittedItems, st.TotalItems)},
		{"Volume Efficiency", fmt.Sprintf("%.1f%%", st.VolumeEfficiency)},
		{"Used Volume", fmt.Sprintf("%.2f m³", st.UsedVolume/1e6)},
		{"Weight", weight},
		{"Support Fraction", fmt.Sprintf("%.0f%%", result.Settings.SupportFraction*100)},
		{"Rotation", string(result.Settings.Rotation)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	unfitted := result.Unfitted()
	if len(unfitted) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Units Not Loaded", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, it := range unfitted {
			if y > pageHeight-marginBottom-8 {
				pdf.SetXY(marginLeft+5, y)
				pdf.CellFormat(200, 5, fmt.Sprintf("... and %d more", len(unfitted)), "", 0, "L", false, 0, "")
				break
			}
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s (%s): %s, %.1f kg, %s", it.Name, it.ID, it.Dimensions(), it.Weight, it.Reason)
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
			unfitted = unfitted[1:]
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by CargoFit - Container Load Planner", "", 0, "C", false, 0, "")
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
