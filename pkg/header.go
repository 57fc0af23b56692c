package mibi

import "encoding/binary"

const fileHeaderSize = 0x12

// FileHeader holds the fixed descriptor at the start of a bin file. The
// acquisition grid is NumX*NumY pixels, each carrying NumTriggers trigger
// cycles in row-major pixel order.
type FileHeader struct {
	NumX        uint16
	NumY        uint16
	NumTriggers uint16
	NumFrames   uint16
	DescLen     uint16
	DataStart   int64
}

// readFileHeader parses the first 0x12 bytes and computes where pulse data
// begins. Field values are taken as stored; a wrong file yields a wrong
// grid, not an error.
func readFileHeader(r *binReader) (FileHeader, error) {
	if err := r.ensure(fileHeaderSize); err != nil {
		return FileHeader{}, err
	}
	win := r.window()
	hdr := FileHeader{
		NumX:        binary.LittleEndian.Uint16(win[0x06:]),
		NumY:        binary.LittleEndian.Uint16(win[0x08:]),
		NumTriggers: binary.LittleEndian.Uint16(win[0x0A:]),
		NumFrames:   binary.LittleEndian.Uint16(win[0x0C:]),
		DescLen:     binary.LittleEndian.Uint16(win[0x10:]),
	}
	hdr.DataStart = int64(hdr.NumX)*int64(hdr.NumY)*int64(hdr.NumFrames)*8 +
		int64(hdr.DescLen) + fileHeaderSize
	r.consume(fileHeaderSize)
	return hdr, nil
}

// ReadFileHeader reads only the file header of a bin file.
func ReadFileHeader(path string) (FileHeader, error) {
	r, err := newBinReader(path, fileHeaderSize)
	if err != nil {
		return FileHeader{}, err
	}
	defer r.close()
	return readFileHeader(r)
}
