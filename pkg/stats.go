package mibi

import (
	"time"

	"golang.org/x/exp/slices"
)

// PulseStats summarizes the in-window pulses of one extraction pass.
// MedianPulseHeight is the exact median intensity, taking the lower
// middle element for even counts. MeanPositivePixelPulses is the mean
// in-window pulse count over pixels that saw at least one such pulse.
type PulseStats struct {
	MedianPulseHeight       int
	MeanPositivePixelPulses float64
}

type statsAccumulator struct {
	low, high   uint16
	numTriggers int

	intensities []uint16
	cycles      int
	pixelPulses int
	mean        float64
	n           int
}

func (a *statsAccumulator) Pulse(pixel int, t uint16, width uint8, intensity uint16) {
	if t < a.low || t > a.high {
		return
	}
	a.intensities = append(a.intensities, intensity)
	a.pixelPulses++
}

func (a *statsAccumulator) EndCycle(pixel int) {
	a.cycles++
	if a.cycles < a.numTriggers {
		return
	}
	a.cycles = 0
	if a.pixelPulses > 0 {
		a.mean = (a.mean*float64(a.n) + float64(a.pixelPulses)) / float64(a.n+1)
		a.n++
		a.pixelPulses = 0
	}
}

func (a *statsAccumulator) stats() PulseStats {
	var median int
	if len(a.intensities) > 0 {
		slices.Sort(a.intensities)
		median = int(a.intensities[(len(a.intensities)-1)/2])
	}
	return PulseStats{
		MedianPulseHeight:       median,
		MeanPositivePixelPulses: a.mean,
	}
}

// ExtractPulseStats decodes a bin file against a single inclusive
// [low, high] time window and reports the median pulse height plus the
// mean pulse count over positive pixels.
func ExtractPulseStats(path string, low, high uint16) (PulseStats, error) {
	r, err := newBinReader(path, configuration.BufferSize)
	if err != nil {
		return PulseStats{}, err
	}
	defer r.close()
	return extractPulseStats(r, low, high)
}

// ExtractPulseStatsLive behaves like ExtractPulseStats on a file that is
// still being written.
func ExtractPulseStatsLive(path string, low, high uint16, expectedSize int64, timeout time.Duration) (PulseStats, error) {
	r, err := newLiveBinReader(path, configuration.BufferSize, expectedSize, timeout)
	if err != nil {
		return PulseStats{}, err
	}
	defer r.close()
	return extractPulseStats(r, low, high)
}

func extractPulseStats(r *binReader, low, high uint16) (PulseStats, error) {
	hdr, err := readFileHeader(r)
	if err != nil {
		return PulseStats{}, err
	}
	acc := &statsAccumulator{
		low:         low,
		high:        high,
		numTriggers: int(hdr.NumTriggers),
	}
	r.skipTo(hdr.DataStart)
	if err := walkPulses(r, hdr, acc); err != nil {
		return PulseStats{}, err
	}
	return acc.stats(), nil
}
