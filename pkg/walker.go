package mibi

import "encoding/binary"

const (
	cycleHeaderSize = 8
	pulseRecordSize = 5
)

// pulseVisitor receives every pulse of a bin file in on-disk order. Pixel
// indices are row-major over the acquisition grid. EndCycle fires once per
// trigger cycle, after its last pulse.
type pulseVisitor interface {
	Pulse(pixel int, time uint16, width uint8, intensity uint16)
	EndCycle(pixel int)
}

// walkPulses drives a visitor over every trigger cycle of the file. The
// reader must be positioned at DataStart. Each cycle is made addressable
// as one contiguous slice before its pulses are parsed.
func walkPulses(r *binReader, hdr FileHeader, v pulseVisitor) error {
	numPixels := int(hdr.NumX) * int(hdr.NumY)
	numTriggers := int(hdr.NumTriggers)
	for pixel := 0; pixel < numPixels; pixel++ {
		for cycle := 0; cycle < numTriggers; cycle++ {
			if err := r.ensure(cycleHeaderSize); err != nil {
				return err
			}
			numPulses := int(binary.LittleEndian.Uint16(r.window()[6:]))
			r.consume(cycleHeaderSize)

			if err := r.ensure(numPulses * pulseRecordSize); err != nil {
				return err
			}
			win := r.window()
			for p := 0; p < numPulses; p++ {
				rec := win[p*pulseRecordSize:]
				v.Pulse(pixel,
					binary.LittleEndian.Uint16(rec),
					rec[2],
					binary.LittleEndian.Uint16(rec[3:]))
			}
			r.consume(numPulses * pulseRecordSize)
			v.EndCycle(pixel)
		}
	}
	return nil
}
