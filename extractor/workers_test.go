package main

import (
	"testing"

	mibi "github.com/christianrickert/mibi-bin-tools/pkg"
)

func TestFovWindowsFromMetadata(t *testing.T) {
	configuration = mibi.Configuration{
		PanelSource:     mibi.PanelFromMetadata,
		TimeResolution:  500e-6,
		PanelLowOffset:  -0.3,
		PanelHighOffset: 0.0,
		AllIntensities:  true,
	}
	meta := mibi.FovMetadata{
		Calibration: mibi.MassCalibration{MassGain: 1, MassOffset: 0},
		Conjugates: []mibi.Conjugate{
			{Mass: 197, Target: "Au"},
			{Mass: 98, Target: "Mo"},
		},
	}

	windows, targets := fovWindows(meta, mibi.Panel{})
	if len(targets) != 2 || targets[0] != "Mo" || targets[1] != "Au" {
		t.Fatalf("targets = %v, want mass ordered [Mo Au]", targets)
	}
	if windows.Lows[0] != 19768 || windows.Highs[0] != 19799 {
		t.Fatalf("Mo window = [%d, %d], want [19768, 19799]", windows.Lows[0], windows.Highs[0])
	}
	if !windows.CalcIntensity[0] || !windows.CalcIntensity[1] {
		t.Fatalf("CalcIntensity = %v, want all true", windows.CalcIntensity)
	}
}

func TestFovWindowsSharedPanel(t *testing.T) {
	configuration = mibi.Configuration{
		PanelSource:    mibi.PanelFromFile,
		TimeResolution: 500e-6,
		Channels:       []string{"Au"},
		Intensities:    []string{"Au"},
	}
	meta := mibi.FovMetadata{
		Calibration: mibi.MassCalibration{MassGain: 1, MassOffset: 0},
	}
	panel := mibi.Panel{Rows: []mibi.PanelRow{
		{Mass: 98, Target: "Mo", Start: 97.7, Stop: 98},
		{Mass: 197, Target: "Au", Start: 196.7, Stop: 197},
	}}

	windows, targets := fovWindows(meta, panel)
	if len(targets) != 1 || targets[0] != "Au" {
		t.Fatalf("targets = %v, want channel filtered [Au]", targets)
	}
	if windows.Lows[0] != 28049 || windows.Highs[0] != 28072 {
		t.Fatalf("Au window = [%d, %d], want [28049, 28072]", windows.Lows[0], windows.Highs[0])
	}
	if !windows.CalcIntensity[0] {
		t.Fatalf("CalcIntensity = %v, want [true]", windows.CalcIntensity)
	}
}
