package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CargoFit/internal/model"
)

const (
	loadSheet    = "Load Plan"
	summarySheet = "Summary"
)

var loadPlanHeader = []interface{}{
	"Seq", "ID", "Name", "Length (cm)", "Width (cm)", "Height (cm)", "Weight (kg)",
	"X (cm)", "Y (cm)", "Z (cm)", "Rotated", "Loaded", "Reason",
}

// ExportExcel writes a load sheet workbook: one row per unit in loading
// order on the first sheet, statistics and per-line counts on the second.
func ExportExcel(path string, result model.PackResult) error {
	if len(result.Items) == 0 {
		return fmt.Errorf("no items to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), loadSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := f.SetSheetRow(loadSheet, "A1", &loadPlanHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(loadSheet, "A1", "M1", bold); err != nil {
		return err
	}

	seq := 0
	for i, it := range result.Items {
		var seqCell interface{} = ""
		if it.Fitted {
			seq++
			seqCell = seq
		}
		row := []interface{}{
			seqCell, it.ID, it.Name, it.Length, it.Width, it.Height, it.Weight,
			it.X, it.Y, it.Z, yesNo(it.Rotated), yesNo(it.Fitted), string(it.Reason),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(loadSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(loadSheet, "B", "C", 18); err != nil {
		return err
	}

	if err := writeSummarySheet(f, result, bold); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, result model.PackResult, bold int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	st := result.Stats()
	c := result.Container

	rows := [][]interface{}{
		{"Container", containerName(c)},
		{"Inner dimensions (cm)", c.Dimensions().String()},
		{"Max weight (kg)", c.MaxWeight},
		{"Units loaded", st.FittedItems},
		{"Units total", st.TotalItems},
		{"Volume efficiency (%)", st.VolumeEfficiency},
		{"Used volume (m3)", st.UsedVolume / 1e6},
		{"Loaded weight (kg)", st.FittedWeight},
		{"Weight utilization (%)", st.WeightUtilization},
		{},
		{"Cargo line", "Loaded", "Total"},
	}
	for _, s := range st.BySpec {
		rows = append(rows, []interface{}{s.SpecID, s.Fitted, s.Total})
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "A9", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A11", "C11", bold); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "A", "A", 24)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
