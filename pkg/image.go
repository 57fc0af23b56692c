package mibi

import (
	"fmt"
	"time"
)

// Planes of ImageData.
const (
	PlaneCounts = iota
	PlaneIntensity
	PlaneIntensityWidth
	numPlanes
)

// ImageData holds the accumulated output of one image extraction pass,
// laid out [3][NumX][NumY][NumWindows]. Plane 0 counts pulses, plane 1
// sums intensity, plane 2 sums intensity*width. Accumulation is uint32
// and wraps unchecked, matching the on-disk field widths.
type ImageData struct {
	NumX       int
	NumY       int
	NumWindows int
	Data       []uint32
}

func newImageData(hdr FileHeader, numWindows int) *ImageData {
	return &ImageData{
		NumX:       int(hdr.NumX),
		NumY:       int(hdr.NumY),
		NumWindows: numWindows,
		Data:       make([]uint32, numPlanes*int(hdr.NumX)*int(hdr.NumY)*numWindows),
	}
}

// At returns the accumulated value for one plane, pixel and window.
func (im *ImageData) At(plane, x, y, w int) uint32 {
	return im.Data[((plane*im.NumX+x)*im.NumY+y)*im.NumWindows+w]
}

// PlaneSum totals one plane over all pixels and windows.
func (im *ImageData) PlaneSum(plane int) uint64 {
	pixels := im.NumX * im.NumY * im.NumWindows
	var sum uint64
	for _, v := range im.Data[plane*pixels : (plane+1)*pixels] {
		sum += uint64(v)
	}
	return sum
}

// WindowCounts totals the count plane per window over all pixels.
func (im *ImageData) WindowCounts() []uint64 {
	counts := make([]uint64, im.NumWindows)
	plane := im.Data[:im.NumX*im.NumY*im.NumWindows]
	for i, v := range plane {
		counts[i%im.NumWindows] += uint64(v)
	}
	return counts
}

type imageAccumulator struct {
	windows   WindowSet
	img       *ImageData
	numPixels int
}

func (a *imageAccumulator) Pulse(pixel int, t uint16, width uint8, intensity uint16) {
	w := a.windows.Classify(t)
	if w < 0 {
		return
	}
	base := pixel*a.img.NumWindows + w
	a.img.Data[base]++
	if a.windows.CalcIntensity[w] {
		a.img.Data[a.numPixels*a.img.NumWindows+base] += uint32(intensity)
		a.img.Data[2*a.numPixels*a.img.NumWindows+base] += uint32(intensity) * uint32(width)
	}
}

func (a *imageAccumulator) EndCycle(pixel int) {}

// ExtractImage decodes a bin file into per-window count and intensity
// planes, one window per entry of the window set.
func ExtractImage(path string, windows WindowSet) (*ImageData, error) {
	r, err := newBinReader(path, configuration.BufferSize)
	if err != nil {
		return nil, err
	}
	defer r.close()
	return extractImage(r, windows)
}

// ExtractImageLive behaves like ExtractImage on a file that is still being
// written, waiting up to timeout for each refill. expectedSize is the
// final size of the file when known, zero otherwise.
func ExtractImageLive(path string, windows WindowSet, expectedSize int64, timeout time.Duration) (*ImageData, error) {
	r, err := newLiveBinReader(path, configuration.BufferSize, expectedSize, timeout)
	if err != nil {
		return nil, err
	}
	defer r.close()
	return extractImage(r, windows)
}

func extractImage(r *binReader, windows WindowSet) (*ImageData, error) {
	hdr, err := readFileHeader(r)
	if err != nil {
		return nil, err
	}
	if configuration.Verbosity > 1 {
		message := fmt.Sprintf("Decoding %s: %dx%d pixels, %d triggers, %d windows",
			r.filename, hdr.NumX, hdr.NumY, hdr.NumTriggers, len(windows.Lows))
		logger.Info(message, "image")
	}
	if windows.CalcIntensity == nil {
		windows.CalcIntensity = make([]bool, len(windows.Lows))
	}
	acc := &imageAccumulator{
		windows:   windows,
		img:       newImageData(hdr, len(windows.Lows)),
		numPixels: int(hdr.NumX) * int(hdr.NumY),
	}
	r.skipTo(hdr.DataStart)
	if err := walkPulses(r, hdr, acc); err != nil {
		return nil, err
	}
	return acc.img, nil
}
