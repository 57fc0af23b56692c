package mibi

import (
	"encoding/json"
	"fmt"
	"os"
)

// MassCalibration holds the parabolic mass-to-time calibration of one fov.
type MassCalibration struct {
	MassGain   float64 `json:"massGain"`
	MassOffset float64 `json:"massOffset"`
}

// Conjugate is one antibody channel of the instrument panel.
type Conjugate struct {
	Mass   float64 `json:"mass"`
	Target string  `json:"target"`
}

type fovJSON struct {
	Fov struct {
		FullTiming struct {
			MassCalibration MassCalibration `json:"massCalibration"`
		} `json:"fullTiming"`
		Panel struct {
			Conjugates []Conjugate `json:"conjugates"`
		} `json:"panel"`
	} `json:"fov"`
}

// FovMetadata carries the part of the mibiscope metadata file the decoder
// needs: the mass calibration and the acquired panel.
type FovMetadata struct {
	Calibration MassCalibration
	Conjugates  []Conjugate
}

// LoadFovMetadata reads the json metadata file paired with a bin file.
func LoadFovMetadata(path string) (FovMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FovMetadata{}, &ErrOpenFile{Filename: path, Err: err}
	}
	var parsed fovJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		return FovMetadata{}, fmt.Errorf("error parsing metadata file %q: %w", path, err)
	}
	return FovMetadata{
		Calibration: parsed.Fov.FullTiming.MassCalibration,
		Conjugates:  parsed.Fov.Panel.Conjugates,
	}, nil
}
