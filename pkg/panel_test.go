package mibi

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMakePanel(t *testing.T) {
	panel := MakePanel(98, "Mo", 0.3, 0.0)
	if len(panel.Rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(panel.Rows))
	}
	row := panel.Rows[0]
	if row.Mass != 98 || row.Target != "Mo" {
		t.Fatalf("row = %+v, want mass 98 target Mo", row)
	}
	if row.Start != 97.7 || row.Stop != 98 {
		t.Fatalf("range = [%g, %g], want [97.7, 98]", row.Start, row.Stop)
	}
}

func TestGlobalPanel(t *testing.T) {
	meta := FovMetadata{
		Conjugates: []Conjugate{
			{Mass: 98, Target: "Mo"},
			{Mass: 197, Target: "Au"},
		},
	}
	panel := GlobalPanel(meta, -0.3, 0.0)
	if len(panel.Rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(panel.Rows))
	}
	if panel.Rows[0].Start != 97.7 || panel.Rows[0].Stop != 98 {
		t.Fatalf("Mo range = [%g, %g], want [97.7, 98]", panel.Rows[0].Start, panel.Rows[0].Stop)
	}
	if panel.Rows[1].Start != 196.7 || panel.Rows[1].Stop != 197 {
		t.Fatalf("Au range = [%g, %g], want [196.7, 197]", panel.Rows[1].Start, panel.Rows[1].Stop)
	}
}

func TestPanelFilter(t *testing.T) {
	panel := Panel{Rows: []PanelRow{
		{Mass: 98, Target: "Mo"},
		{Mass: 197, Target: "Au"},
	}}
	if got := panel.Filter(nil); len(got.Rows) != 2 {
		t.Fatalf("nil filter kept %d rows, want 2", len(got.Rows))
	}
	got := panel.Filter([]string{"Au"})
	if len(got.Rows) != 1 || got.Rows[0].Target != "Au" {
		t.Fatalf("filter = %+v, want single Au row", got.Rows)
	}
	if got := panel.Filter([]string{"Xe"}); len(got.Rows) != 0 {
		t.Fatalf("unknown filter kept %d rows, want 0", len(got.Rows))
	}
}

func TestPanelSortAndTargets(t *testing.T) {
	panel := Panel{Rows: []PanelRow{
		{Mass: 197, Target: "Au"},
		{Mass: 98, Target: "Mo"},
		{Mass: 115, Target: "In"},
	}}
	panel.Sort()
	targets := panel.Targets()
	if targets[0] != "Mo" || targets[1] != "In" || targets[2] != "Au" {
		t.Fatalf("sorted targets = %v, want [Mo In Au]", targets)
	}
}

func TestToWindows(t *testing.T) {
	cal := MassCalibration{MassGain: 1, MassOffset: 0}
	panel := Panel{Rows: []PanelRow{
		{Mass: 98, Target: "Mo", Start: 97.7, Stop: 98},
		{Mass: 197, Target: "Au", Start: 196.7, Stop: 197},
	}}

	windows := panel.ToWindows(cal, 500e-6, []string{"Au"}, false)
	// sqrt(97.7)/timeRes = 19768.66 rounds down, sqrt(98)/timeRes = 19798.99
	// rounds up, so the window never clips the mass range.
	if windows.Lows[0] != 19768 || windows.Highs[0] != 19799 {
		t.Fatalf("Mo window = [%d, %d], want [19768, 19799]", windows.Lows[0], windows.Highs[0])
	}
	if windows.Lows[1] != 28049 || windows.Highs[1] != 28072 {
		t.Fatalf("Au window = [%d, %d], want [28049, 28072]", windows.Lows[1], windows.Highs[1])
	}
	if windows.CalcIntensity[0] || !windows.CalcIntensity[1] {
		t.Fatalf("CalcIntensity = %v, want [false true]", windows.CalcIntensity)
	}

	all := panel.ToWindows(cal, 500e-6, nil, true)
	if !all.CalcIntensity[0] || !all.CalcIntensity[1] {
		t.Fatalf("CalcIntensity with allIntensities = %v, want [true true]", all.CalcIntensity)
	}
}

func TestLoadPanelFile(t *testing.T) {
	content := `panel:
  - mass: 98
    target: Mo
    start: 97.7
    stop: 98
  - mass: 197
    target: Au
    start: 196.7
    stop: 197
`
	path := filepath.Join(t.TempDir(), "panel.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	panel, err := LoadPanelFile(path)
	if err != nil {
		t.Fatalf("LoadPanelFile failed: %v", err)
	}
	if len(panel.Rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(panel.Rows))
	}
	if panel.Rows[1].Target != "Au" || panel.Rows[1].Start != 196.7 {
		t.Fatalf("second row = %+v, want Au starting at 196.7", panel.Rows[1])
	}
}

func TestLoadPanelFileMissing(t *testing.T) {
	_, err := LoadPanelFile(filepath.Join(t.TempDir(), "missing.yml"))
	var openErr *ErrOpenFile
	if !errors.As(err, &openErr) {
		t.Fatalf("expected ErrOpenFile, got %v", err)
	}
}

func TestPanelSourceJSON(t *testing.T) {
	for _, source := range []PanelSource{PanelFromMetadata, PanelFromFile, PanelFromDB} {
		data, err := json.Marshal(source)
		if err != nil {
			t.Fatalf("Marshal(%v) failed: %v", source, err)
		}
		var got PanelSource
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", data, err)
		}
		if got != source {
			t.Fatalf("round trip = %v, want %v", got, source)
		}
	}

	var got PanelSource
	if err := json.Unmarshal([]byte(`"file"`), &got); err != nil || got != PanelFromFile {
		t.Fatalf("Unmarshal file = %v (%v), want PanelFromFile", got, err)
	}
	if err := json.Unmarshal([]byte(`"bogus"`), &got); err == nil {
		t.Fatalf("expected error for unknown panel source")
	}
}
