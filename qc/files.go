package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/slices"
)

// FovFiles names the paired bin/json files of one fov.
type FovFiles struct {
	Name string
	Bin  string
	Json string
}

// findBinFiles locates paired bin/json files within the data directory.
// A bin file without its json metadata twin is skipped. includeFovs
// filters by fov name; nil includes every pair.
func findBinFiles(dataDir string, includeFovs []string) ([]FovFiles, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("error listing data directory %q: %w", dataDir, err)
	}

	jsonNames := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(entry.Name(), ".json"); ok {
			jsonNames[name] = true
		}
	}

	var fovs []FovFiles
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fovName, ok := strings.CutSuffix(entry.Name(), ".bin")
		if !ok || !jsonNames[fovName] {
			continue
		}
		if includeFovs != nil && !slices.Contains(includeFovs, fovName) {
			continue
		}
		fovs = append(fovs, FovFiles{
			Name: fovName,
			Bin:  fovName + ".bin",
			Json: fovName + ".json",
		})
	}
	if len(fovs) == 0 {
		return nil, fmt.Errorf("no bin files found in %q", dataDir)
	}
	return fovs, nil
}
