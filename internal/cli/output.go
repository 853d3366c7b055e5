package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/piwi3910/CargoFit/internal/export"
	"github.com/piwi3910/CargoFit/internal/model"
)

// exportFlags select the documents written for a result.
type exportFlags struct {
	out    string
	pdf    string
	labels string
	xlsx   string
	dxf    string
}

func (e *exportFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&e.out, "out", "o", "", "Write the result as JSON (input for 'cargofit verify')")
	fs.StringVar(&e.pdf, "pdf", "", "Write a PDF load plan")
	fs.StringVar(&e.labels, "labels", "", "Write a PDF sheet of QR unit labels")
	fs.StringVar(&e.xlsx, "xlsx", "", "Write an XLSX load sheet")
	fs.StringVar(&e.dxf, "dxf", "", "Write a DXF 3D wireframe")
}

func (e *exportFlags) requested() bool {
	return e.out != "" || e.pdf != "" || e.labels != "" || e.xlsx != "" || e.dxf != ""
}

// write produces every requested export for result.
func (e *exportFlags) write(result model.PackResult) error {
	steps := []struct {
		path string
		name string
		fn   func(string, model.PackResult) error
	}{
		{e.out, "result JSON", writeResultFile},
		{e.pdf, "PDF load plan", export.ExportPDF},
		{e.labels, "labels", export.ExportLabels},
		{e.xlsx, "XLSX load sheet", export.ExportExcel},
		{e.dxf, "DXF wireframe", export.ExportDXF},
	}
	for _, s := range steps {
		if s.path == "" {
			continue
		}
		if err := s.fn(s.path, result); err != nil {
			return WrapCLIError(ExitGeneralError, "failed to write "+s.name, err)
		}
		VerboseLog("Wrote %s: %s", s.name, s.path)
	}
	return nil
}

// printSummary writes the human-readable outcome of a run.
func printSummary(w io.Writer, result model.PackResult) {
	st := result.Stats()
	name := result.Container.Label
	if name == "" {
		name = "Container"
	}
	fmt.Fprintf(w, "%s (%s cm)\n", name, result.Container.Dimensions())
	fmt.Fprintf(w, "Loaded:      %d of %d units\n", st.FittedItems, st.TotalItems)
	fmt.Fprintf(w, "Volume:      %.1f%% (%.2f of %.2f m3)\n", st.VolumeEfficiency, st.UsedVolume/1e6, st.ContainerVolume/1e6)
	if result.Container.MaxWeight > 0 {
		fmt.Fprintf(w, "Weight:      %.1f kg (%.1f%% of %.0f kg)\n", st.FittedWeight, st.WeightUtilization, result.Container.MaxWeight)
	} else {
		fmt.Fprintf(w, "Weight:      %.1f kg\n", st.FittedWeight)
	}
	fmt.Fprintf(w, "Chargeable:  %.1f kg (volumetric %.1f kg)\n", st.Chargeable.ChargeableWeight, st.Chargeable.VolumetricWeight)
	if result.Elapsed > 0 {
		fmt.Fprintf(w, "Elapsed:     %s\n", result.Elapsed)
	}

	if len(st.BySpec) > 1 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "LINE\tLOADED\tTOTAL")
		for _, s := range st.BySpec {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", s.SpecID, s.Fitted, s.Total)
		}
		tw.Flush()
	}

	unfitted := result.Unfitted()
	if len(unfitted) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Not loaded:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, it := range unfitted {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", it.ID, it.Dimensions(), it.Reason)
	}
	tw.Flush()
}

// printPlacements lists every fitted unit in loading order.
func printPlacements(w io.Writer, result model.PackResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tX\tY\tZ\tL x W x H\tROTATED")
	for i, it := range result.Fitted() {
		rotated := ""
		if it.Rotated {
			rotated = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%g\t%g\t%g\t%s\t%s\n", i+1, it.ID, it.X, it.Y, it.Z, it.Dimensions(), rotated)
	}
	tw.Flush()
}
