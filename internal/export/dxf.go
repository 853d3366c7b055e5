package export

import (
	"fmt"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/piwi3910/CargoFit/internal/model"
)

const (
	layerContainer = "CONTAINER"
	layerLabels    = "LABELS"
)

var layerColors = []color.ColorNumber{color.Green, color.Blue, color.Yellow, color.Magenta, color.Cyan, color.Red}

// ExportDXF writes the layout as a 3D wireframe: the container outline on
// its own layer, every fitted unit as a 12-edge box on a layer per cargo
// line, and unit ids as text on the top faces. Units are centimeters.
func ExportDXF(path string, result model.PackResult) error {
	fitted := result.Fitted()
	if len(fitted) == 0 {
		return fmt.Errorf("no units placed to export")
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(layerContainer, color.White, table.LT_CONTINUOUS, true); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}
	c := result.Container
	if err := drawBox(d, 0, 0, 0, c.Length, c.Width, c.Height); err != nil {
		return err
	}

	layers := make(map[string]string)
	for _, it := range fitted {
		name, ok := layers[it.SpecID]
		if !ok {
			name = layerName(it.SpecID, len(layers))
			layers[it.SpecID] = name
			if _, err := d.AddLayer(name, layerColors[(len(layers)-1)%len(layerColors)], table.LT_CONTINUOUS, false); err != nil {
				return fmt.Errorf("failed to add layer %s: %w", name, err)
			}
		}
		if err := d.ChangeLayer(name); err != nil {
			return err
		}
		if err := drawBox(d, it.X, it.Y, it.Z, it.X+it.Length, it.Y+it.Width, it.Z+it.Height); err != nil {
			return fmt.Errorf("failed to draw %s: %w", it.ID, err)
		}
	}

	if _, err := d.AddLayer(layerLabels, color.White, table.LT_CONTINUOUS, true); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}
	for _, it := range fitted {
		h := dxfLabelHeight(it)
		if _, err := d.Text(it.ID, it.X+h/2, it.Y+it.Width/2, it.Z+it.Height, h); err != nil {
			return fmt.Errorf("failed to label %s: %w", it.ID, err)
		}
	}

	return d.SaveAs(path)
}

// drawBox draws the 12 edges of the box with corners (x0,y0,z0) and (x1,y1,z1).
func drawBox(d *drawing.Drawing, x0, y0, z0, x1, y1, z1 float64) error {
	edges := [][6]float64{
		// floor
		{x0, y0, z0, x1, y0, z0},
		{x1, y0, z0, x1, y1, z0},
		{x1, y1, z0, x0, y1, z0},
		{x0, y1, z0, x0, y0, z0},
		// roof
		{x0, y0, z1, x1, y0, z1},
		{x1, y0, z1, x1, y1, z1},
		{x1, y1, z1, x0, y1, z1},
		{x0, y1, z1, x0, y0, z1},
		// posts
		{x0, y0, z0, x0, y0, z1},
		{x1, y0, z0, x1, y0, z1},
		{x1, y1, z0, x1, y1, z1},
		{x0, y1, z0, x0, y1, z1},
	}
	for _, e := range edges {
		if _, err := d.Line(e[0], e[1], e[2], e[3], e[4], e[5]); err != nil {
			return err
		}
	}
	return nil
}

// layerName builds a DXF-safe layer name for a cargo line.
func layerName(specID string, n int) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(specID) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return fmt.Sprintf("CARGO_%d_%s", n+1, b.String())
}

func dxfLabelHeight(it model.UnitItem) float64 {
	h := it.Width / 6
	if h > 10 {
		h = 10
	}
	if h < 1 {
		h = 1
	}
	return h
}
