package mibi

import (
	"math"
	"time"
)

// Bin counts follow the on-disk field widths: width is a u8, intensity a
// u16. Per-cycle pulse counts share the width binning.
const (
	widthBins      = math.MaxUint8 + 1
	intensityBins  = math.MaxUint16 + 1
	pulseCountBins = math.MaxUint8 + 1
)

// Histograms holds the single-window histograms of one extraction pass.
// PulseCounts bins the nonzero in-window pulse count per trigger cycle;
// cycles denser than its last bin are left out.
type Histograms struct {
	Widths      []uint64
	Intensities []uint64
	PulseCounts []uint64
}

type histogramAccumulator struct {
	low, high   uint16
	hist        *Histograms
	cyclePulses int
}

func (a *histogramAccumulator) Pulse(pixel int, t uint16, width uint8, intensity uint16) {
	if t < a.low || t > a.high {
		return
	}
	a.hist.Widths[width]++
	a.hist.Intensities[intensity]++
	a.cyclePulses++
}

func (a *histogramAccumulator) EndCycle(pixel int) {
	if a.cyclePulses == 0 {
		return
	}
	if a.cyclePulses < len(a.hist.PulseCounts) {
		a.hist.PulseCounts[a.cyclePulses]++
	}
	a.cyclePulses = 0
}

// ExtractHistograms decodes a bin file against a single inclusive
// [low, high] time window and histograms the in-window pulses.
func ExtractHistograms(path string, low, high uint16) (*Histograms, error) {
	r, err := newBinReader(path, configuration.BufferSize)
	if err != nil {
		return nil, err
	}
	defer r.close()
	return extractHistograms(r, low, high)
}

// ExtractHistogramsLive behaves like ExtractHistograms on a file that is
// still being written.
func ExtractHistogramsLive(path string, low, high uint16, expectedSize int64, timeout time.Duration) (*Histograms, error) {
	r, err := newLiveBinReader(path, configuration.BufferSize, expectedSize, timeout)
	if err != nil {
		return nil, err
	}
	defer r.close()
	return extractHistograms(r, low, high)
}

func extractHistograms(r *binReader, low, high uint16) (*Histograms, error) {
	hdr, err := readFileHeader(r)
	if err != nil {
		return nil, err
	}
	acc := &histogramAccumulator{
		low:  low,
		high: high,
		hist: &Histograms{
			Widths:      make([]uint64, widthBins),
			Intensities: make([]uint64, intensityBins),
			PulseCounts: make([]uint64, pulseCountBins),
		},
	}
	r.skipTo(hdr.DataStart)
	if err := walkPulses(r, hdr, acc); err != nil {
		return nil, err
	}
	return acc.hist, nil
}
