package mibi

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// pulse is one 5 byte record of a synthetic bin file.
type pulse struct {
	time      uint16
	width     uint8
	intensity uint16
}

// binHeader renders a file header followed by a zeroed descriptor block,
// up to the data start offset.
func binHeader(numX, numY, numTriggers, numFrames, descLen uint16) []byte {
	size := int(numX)*int(numY)*int(numFrames)*8 + int(descLen) + fileHeaderSize
	buf := make([]byte, size)
	binary.LittleEndian.PutUint16(buf[0x06:], numX)
	binary.LittleEndian.PutUint16(buf[0x08:], numY)
	binary.LittleEndian.PutUint16(buf[0x0A:], numTriggers)
	binary.LittleEndian.PutUint16(buf[0x0C:], numFrames)
	binary.LittleEndian.PutUint16(buf[0x10:], descLen)
	return buf
}

// appendCycle renders one trigger cycle and its pulse records.
func appendCycle(buf []byte, pulses []pulse) []byte {
	cycle := make([]byte, cycleHeaderSize+len(pulses)*pulseRecordSize)
	binary.LittleEndian.PutUint16(cycle[6:], uint16(len(pulses)))
	for i, p := range pulses {
		rec := cycle[cycleHeaderSize+i*pulseRecordSize:]
		binary.LittleEndian.PutUint16(rec, p.time)
		rec[2] = p.width
		binary.LittleEndian.PutUint16(rec[3:], p.intensity)
	}
	return append(buf, cycle...)
}

// binFileBytes assembles a complete bin file image. cycles run in on-disk
// order: every trigger cycle of pixel 0, then pixel 1, and so on.
func binFileBytes(t *testing.T, numX, numY, numTriggers, numFrames uint16, cycles [][]pulse) []byte {
	t.Helper()
	if len(cycles) != int(numX)*int(numY)*int(numTriggers) {
		t.Fatalf("cycle count = %d, want %d", len(cycles), int(numX)*int(numY)*int(numTriggers))
	}
	buf := binHeader(numX, numY, numTriggers, numFrames, 0)
	for _, cy := range cycles {
		buf = appendCycle(buf, cy)
	}
	return buf
}

// writeBinFile writes a synthetic bin file into a fresh temp directory and
// returns its path.
func writeBinFile(t *testing.T, numX, numY, numTriggers uint16, cycles [][]pulse) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fov.bin")
	if err := os.WriteFile(path, binFileBytes(t, numX, numY, numTriggers, 0, cycles), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}
