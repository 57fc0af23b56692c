package mibi

type countAccumulator struct {
	total uint64
}

func (a *countAccumulator) Pulse(pixel int, t uint16, width uint8, intensity uint16) {
	a.total++
}

func (a *countAccumulator) EndCycle(pixel int) {}

// TotalCounts reports the number of pulses in a bin file regardless of
// arrival time.
func TotalCounts(path string) (uint64, error) {
	r, err := newBinReader(path, configuration.BufferSize)
	if err != nil {
		return 0, err
	}
	defer r.close()
	hdr, err := readFileHeader(r)
	if err != nil {
		return 0, err
	}
	acc := &countAccumulator{}
	r.skipTo(hdr.DataStart)
	if err := walkPulses(r, hdr, acc); err != nil {
		return 0, err
	}
	return acc.total, nil
}
