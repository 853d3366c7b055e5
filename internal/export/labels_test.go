package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/CargoFit/internal/model"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.pdf")

	err := ExportLabels(path, buildTestResult())
	if err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("labels file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("labels file seems too small: %d bytes", info.Size())
	}
}

func TestExportLabels_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty_labels.pdf")

	err := ExportLabels(path, model.PackResult{})
	if err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}

func TestExportLabels_NothingFitted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unfitted_labels.pdf")

	result := model.PackResult{
		Container: model.NewContainer(100, 100, 100, 0),
		Items: []model.UnitItem{
			{ID: "big_1", SpecID: "big", Name: "Big", Length: 200, Width: 200, Height: 200, Weight: 10, Reason: model.ReasonOversized},
		},
	}
	if err := ExportLabels(path, result); err == nil {
		t.Fatal("expected error when no units are placed, got nil")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(withUnfitted(buildTestResult()))

	if len(labels) != 4 {
		t.Fatalf("expected 4 labels, got %d", len(labels))
	}
	for i, l := range labels {
		if l.Sequence != i+1 {
			t.Errorf("label %d: expected sequence %d, got %d", i, i+1, l.Sequence)
		}
		if l.Container != "20ft" {
			t.Errorf("label %d: expected container 20ft, got %q", i, l.Container)
		}
	}

	if labels[2].UnitID != "box_1" {
		t.Errorf("expected third label for box_1, got %q", labels[2].UnitID)
	}
	if !labels[2].Rotated {
		t.Error("expected box_1 label to be marked rotated")
	}
	if labels[2].Z != 100 {
		t.Errorf("expected box_1 at z=100, got %v", labels[2].Z)
	}
}

func TestLabelInfo_JSONRoundTrip(t *testing.T) {
	info := LabelInfo{
		Sequence: 3, UnitID: "crate_2", Name: "Crate #2",
		Length: 120, Width: 80, Height: 75, Weight: 210.5,
		Container: "40ft", Rotated: true, X: 240, Y: 0, Z: 75,
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded LabelInfo
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != info {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, info)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	for _, key := range []string{"seq", "id", "length_cm", "weight_kg", "z_cm"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("expected key %q in label payload", key)
		}
	}
}

func TestExportLabels_ManyUnits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "many_labels.pdf")

	result := model.PackResult{Container: model.NewContainer(1000, 100, 100, 0)}
	// 35 units spill onto a second page
	for i := 0; i < 35; i++ {
		result.Items = append(result.Items, model.UnitItem{
			ID: fmt.Sprintf("c_%d", i+1), SpecID: "c", Name: fmt.Sprintf("Carton #%d", i+1),
			Length: 20, Width: 20, Height: 20, Weight: 5, X: float64(i * 20), Fitted: true,
		})
	}

	if err := ExportLabels(path, result); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("labels file was not created: %v", err)
	}
}
