package main

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte{}, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestFindBinFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "fov-1.bin"))
	touch(t, filepath.Join(dir, "fov-1.json"))
	touch(t, filepath.Join(dir, "fov-2.bin"))
	touch(t, filepath.Join(dir, "fov-3.json"))
	touch(t, filepath.Join(dir, "notes.txt"))

	fovs, err := findBinFiles(dir, nil)
	if err != nil {
		t.Fatalf("findBinFiles failed: %v", err)
	}
	if len(fovs) != 1 {
		t.Fatalf("fov count = %d, want 1", len(fovs))
	}
	if fovs[0].Name != "fov-1" || fovs[0].Bin != "fov-1.bin" || fovs[0].Json != "fov-1.json" {
		t.Fatalf("fov = %+v, want paired fov-1 files", fovs[0])
	}
}

func TestFindBinFilesFilter(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"fov-1", "fov-2"} {
		touch(t, filepath.Join(dir, name+".bin"))
		touch(t, filepath.Join(dir, name+".json"))
	}

	fovs, err := findBinFiles(dir, []string{"fov-2"})
	if err != nil {
		t.Fatalf("findBinFiles failed: %v", err)
	}
	if len(fovs) != 1 || fovs[0].Name != "fov-2" {
		t.Fatalf("fovs = %+v, want only fov-2", fovs)
	}
}

func TestFindBinFilesEmpty(t *testing.T) {
	if _, err := findBinFiles(t.TempDir(), nil); err == nil {
		t.Fatalf("expected error for empty data directory")
	}
}

func TestRemoteFovs(t *testing.T) {
	if _, err := remoteFovs(nil); err == nil {
		t.Fatalf("expected error without explicit fov list")
	}
	fovs, err := remoteFovs([]string{"fov-9"})
	if err != nil {
		t.Fatalf("remoteFovs failed: %v", err)
	}
	if len(fovs) != 1 || fovs[0].Bin != "fov-9.bin" || fovs[0].Json != "fov-9.json" {
		t.Fatalf("fovs = %+v, want fov-9 pair", fovs)
	}
}
