package mibi

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// PanelRow defines one integration channel: a peak mass plus the mass
// range [Start, Stop] integrated around it.
type PanelRow struct {
	Mass   float64 `yaml:"mass"`
	Target string  `yaml:"target"`
	Start  float64 `yaml:"start"`
	Stop   float64 `yaml:"stop"`
}

// Panel is an ordered set of integration channels. Classification needs
// the rows in ascending mass order; Sort establishes it.
type Panel struct {
	Rows []PanelRow `yaml:"panel"`
}

// MakePanel builds a single-target panel integrating
// [mass-lowRange, mass+highRange].
func MakePanel(mass float64, target string, lowRange, highRange float64) Panel {
	return Panel{Rows: []PanelRow{{
		Mass:   mass,
		Target: target,
		Start:  mass - lowRange,
		Stop:   mass + highRange,
	}}}
}

// GlobalPanel builds a panel over every conjugate of the fov metadata,
// adding the same pair of offsets to each conjugate mass.
func GlobalPanel(meta FovMetadata, lowOffset, highOffset float64) Panel {
	rows := make([]PanelRow, 0, len(meta.Conjugates))
	for _, c := range meta.Conjugates {
		rows = append(rows, PanelRow{
			Mass:   c.Mass,
			Target: c.Target,
			Start:  c.Mass + lowOffset,
			Stop:   c.Mass + highOffset,
		})
	}
	return Panel{Rows: rows}
}

// LoadPanelFile reads a user-authored panel from a yaml file.
func LoadPanelFile(path string) (Panel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Panel{}, &ErrOpenFile{Filename: path, Err: err}
	}
	var panel Panel
	if err := yaml.Unmarshal(data, &panel); err != nil {
		return Panel{}, fmt.Errorf("error parsing panel file %q: %w", path, err)
	}
	return panel, nil
}

// Filter returns the panel restricted to the named channels. A nil filter
// keeps every row.
func (p Panel) Filter(channels []string) Panel {
	if channels == nil {
		return p
	}
	var rows []PanelRow
	for _, row := range p.Rows {
		if slices.Contains(channels, row.Target) {
			rows = append(rows, row)
		}
	}
	return Panel{Rows: rows}
}

// Sort orders the rows by ascending mass.
func (p Panel) Sort() {
	slices.SortFunc(p.Rows, func(a, b PanelRow) int {
		switch {
		case a.Mass < b.Mass:
			return -1
		case a.Mass > b.Mass:
			return 1
		}
		return 0
	})
}

// Targets lists the row targets in panel order, matching the window order
// produced by ToWindows.
func (p Panel) Targets() []string {
	targets := make([]string, len(p.Rows))
	for i, row := range p.Rows {
		targets[i] = row.Target
	}
	return targets
}

// massToTOF converts a mass to its time of flight under the parabolic
// calibration model.
func massToTOF(mass float64, cal MassCalibration, timeRes float64) float64 {
	return (cal.MassGain*math.Sqrt(mass) + cal.MassOffset) / timeRes
}

// ToWindows converts the panel's mass ranges into time-of-flight
// integration windows. Lower bounds round down and upper bounds round up,
// so the window never clips the mass range. intensities names the targets
// whose intensity planes are accumulated; allIntensities selects them all.
func (p Panel) ToWindows(cal MassCalibration, timeRes float64, intensities []string, allIntensities bool) WindowSet {
	ws := WindowSet{
		Lows:          make([]uint16, len(p.Rows)),
		Highs:         make([]uint16, len(p.Rows)),
		CalcIntensity: make([]bool, len(p.Rows)),
	}
	for i, row := range p.Rows {
		ws.Lows[i] = uint16(math.Floor(massToTOF(row.Start, cal, timeRes)))
		ws.Highs[i] = uint16(math.Ceil(massToTOF(row.Stop, cal, timeRes)))
		ws.CalcIntensity[i] = allIntensities || slices.Contains(intensities, row.Target)
	}
	return ws
}

// PanelSource selects where the extractor takes its panel from.
type PanelSource int

const (
	PanelFromMetadata PanelSource = iota
	PanelFromFile
	PanelFromDB
)

var panelSourceStrings = []string{
	"metadata",
	"file",
	"database",
}

func (p PanelSource) String() string {
	if p < PanelFromMetadata || p > PanelFromDB {
		return "UNKNOWN"
	}
	return panelSourceStrings[p]
}

func (p PanelSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PanelSource) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for i, v := range panelSourceStrings {
		if v == s {
			*p = PanelSource(i)
			return nil
		}
	}
	return fmt.Errorf("invalid PanelSource: %s", s)
}
