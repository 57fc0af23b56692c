package mibi

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/exp/slices"
)

func TestExtractImageSingleWindow(t *testing.T) {
	path := writeBinFile(t, 1, 1, 1, [][]pulse{
		{{time: 10, width: 2, intensity: 7}, {time: 200, width: 1, intensity: 50}},
	})
	windows := WindowSet{
		Lows:          []uint16{0},
		Highs:         []uint16{100},
		CalcIntensity: []bool{true},
	}

	img, err := ExtractImage(path, windows)
	if err != nil {
		t.Fatalf("ExtractImage failed: %v", err)
	}
	if img.NumX != 1 || img.NumY != 1 || img.NumWindows != 1 {
		t.Fatalf("image shape = %dx%dx%d, want 1x1x1", img.NumX, img.NumY, img.NumWindows)
	}
	if got := img.At(PlaneCounts, 0, 0, 0); got != 1 {
		t.Fatalf("counts = %d, want 1", got)
	}
	if got := img.At(PlaneIntensity, 0, 0, 0); got != 7 {
		t.Fatalf("intensity = %d, want 7", got)
	}
	if got := img.At(PlaneIntensityWidth, 0, 0, 0); got != 14 {
		t.Fatalf("intensity*width = %d, want 14", got)
	}
}

func TestExtractImageGrid(t *testing.T) {
	cycles := [][]pulse{
		// pixel (0,0)
		{{time: 150, width: 1, intensity: 10}},
		{},
		// pixel (0,1)
		{{time: 350, width: 2, intensity: 20}},
		{{time: 150, width: 1, intensity: 5}},
		// pixel (1,0)
		{},
		{},
		// pixel (1,1)
		{{time: 350, width: 3, intensity: 8}, {time: 399, width: 1, intensity: 2}},
		{{time: 50, width: 1, intensity: 1}, {time: 250, width: 1, intensity: 1}},
	}
	path := writeBinFile(t, 2, 2, 2, cycles)
	windows := WindowSet{
		Lows:          []uint16{100, 300},
		Highs:         []uint16{200, 400},
		CalcIntensity: []bool{false, true},
	}

	img, err := ExtractImage(path, windows)
	if err != nil {
		t.Fatalf("ExtractImage failed: %v", err)
	}

	type cell struct{ plane, x, y, w int }
	want := map[cell]uint32{
		{PlaneCounts, 0, 0, 0}:         1,
		{PlaneCounts, 0, 1, 0}:         1,
		{PlaneCounts, 0, 1, 1}:         1,
		{PlaneCounts, 1, 1, 1}:         2,
		{PlaneIntensity, 0, 1, 1}:      20,
		{PlaneIntensity, 1, 1, 1}:      10,
		{PlaneIntensityWidth, 0, 1, 1}: 40,
		{PlaneIntensityWidth, 1, 1, 1}: 26,
	}
	for plane := PlaneCounts; plane <= PlaneIntensityWidth; plane++ {
		for x := 0; x < 2; x++ {
			for y := 0; y < 2; y++ {
				for w := 0; w < 2; w++ {
					c := cell{plane, x, y, w}
					if got := img.At(plane, x, y, w); got != want[c] {
						t.Fatalf("At(%d,%d,%d,%d) = %d, want %d", plane, x, y, w, got, want[c])
					}
				}
			}
		}
	}

	if got := img.PlaneSum(PlaneCounts); got != 5 {
		t.Fatalf("PlaneSum(counts) = %d, want 5", got)
	}
	if got := img.WindowCounts(); !slices.Equal(got, []uint64{2, 3}) {
		t.Fatalf("WindowCounts = %v, want [2 3]", got)
	}
}

func TestExtractImageNilCalcIntensity(t *testing.T) {
	path := writeBinFile(t, 1, 1, 1, [][]pulse{
		{{time: 150, width: 2, intensity: 40}},
	})
	windows := WindowSet{Lows: []uint16{100}, Highs: []uint16{200}}

	img, err := ExtractImage(path, windows)
	if err != nil {
		t.Fatalf("ExtractImage failed: %v", err)
	}
	if got := img.At(PlaneCounts, 0, 0, 0); got != 1 {
		t.Fatalf("counts = %d, want 1", got)
	}
	if got := img.PlaneSum(PlaneIntensity); got != 0 {
		t.Fatalf("PlaneSum(intensity) = %d, want 0", got)
	}
	if got := img.PlaneSum(PlaneIntensityWidth); got != 0 {
		t.Fatalf("PlaneSum(intensity*width) = %d, want 0", got)
	}
}

func TestExtractImageLiveAppendedFile(t *testing.T) {
	cycles := [][]pulse{
		{{time: 150, width: 1, intensity: 10}},
		{{time: 350, width: 2, intensity: 20}},
		{},
		{{time: 150, width: 1, intensity: 5}, {time: 399, width: 1, intensity: 2}},
	}
	full := binFileBytes(t, 1, 2, 2, 0, cycles)
	path := filepath.Join(t.TempDir(), "live.bin")
	if err := os.WriteFile(path, full[:fileHeaderSize+3], 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	go func() {
		time.Sleep(10 * time.Millisecond)
		appendFile(t, path, full[fileHeaderSize+3:len(full)-10])
		time.Sleep(10 * time.Millisecond)
		appendFile(t, path, full[len(full)-10:])
	}()
	windows := WindowSet{
		Lows:          []uint16{100, 300},
		Highs:         []uint16{200, 400},
		CalcIntensity: []bool{true, true},
	}

	img, err := ExtractImageLive(path, windows, int64(len(full)), 2*time.Second)
	if err != nil {
		t.Fatalf("ExtractImageLive failed: %v", err)
	}

	ref, err := ExtractImage(path, windows)
	if err != nil {
		t.Fatalf("ExtractImage on completed file failed: %v", err)
	}
	if !slices.Equal(img.Data, ref.Data) {
		t.Fatalf("live extraction differs from completed file")
	}
	if got := img.PlaneSum(PlaneCounts); got != 4 {
		t.Fatalf("PlaneSum(counts) = %d, want 4", got)
	}
}
