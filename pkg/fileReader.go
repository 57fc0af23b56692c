package mibi

import (
	"fmt"
	"io"
	"os"
	"time"
)

const (
	defaultBufferSize   = 16 << 20
	defaultPollInterval = time.Millisecond
)

// binReader reads a bin file through a sliding window over one reusable
// buffer. The window holds file bytes [bufStart, bufStart+bufLen); pos is
// the next unconsumed byte within it. All reads go through ensure/consume,
// so the decode loops can never overrun the bytes actually on disk.
type binReader struct {
	file     *os.File
	filename string
	buf      []byte
	bufStart int64
	bufLen   int
	pos      int

	live         bool
	expectedSize int64
	timeout      time.Duration
}

func newBinReader(path string, bufferSize int) (*binReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &ErrOpenFile{Filename: path, Err: err}
	}
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &binReader{
		file:     file,
		filename: path,
		buf:      make([]byte, bufferSize),
	}, nil
}

// newLiveBinReader opens a bin file that may still be arriving on disk.
// Opening waits for the file to exist; refills wait for bytes to land.
// expectedSize, when positive, is the final size of the file: a request
// past it fails immediately instead of waiting out the timeout.
func newLiveBinReader(path string, bufferSize int, expectedSize int64, timeout time.Duration) (*binReader, error) {
	deadline := time.Now().Add(timeout)
	var file *os.File
	for {
		var err error
		file, err = os.Open(path)
		if err == nil {
			break
		}
		if !os.IsNotExist(err) {
			return nil, &ErrOpenFile{Filename: path, Err: err}
		}
		if time.Now().After(deadline) {
			return nil, &ErrTimeout{Filename: path, Waited: timeout}
		}
		time.Sleep(pollInterval())
	}
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &binReader{
		file:         file,
		filename:     path,
		buf:          make([]byte, bufferSize),
		live:         true,
		expectedSize: expectedSize,
		timeout:      timeout,
	}, nil
}

func pollInterval() time.Duration {
	if configuration.PollIntervalMs > 0 {
		return time.Duration(configuration.PollIntervalMs) * time.Millisecond
	}
	return defaultPollInterval
}

// offset is the file position of the next unconsumed byte.
func (r *binReader) offset() int64 {
	return r.bufStart + int64(r.pos)
}

// ensure makes at least n contiguous unread bytes available in the window.
// The residual moves to the front of the buffer before refilling, so a
// record is always addressable as one slice.
func (r *binReader) ensure(n int) error {
	if r.bufLen-r.pos >= n {
		return nil
	}
	if r.pos > 0 {
		copy(r.buf, r.buf[r.pos:r.bufLen])
		r.bufStart += int64(r.pos)
		r.bufLen -= r.pos
		r.pos = 0
	}
	if n > len(r.buf) {
		r.grow(n)
	}
	return r.fill(n)
}

// window returns the valid unread bytes. Only ensure extends it.
func (r *binReader) window() []byte {
	return r.buf[r.pos:r.bufLen]
}

func (r *binReader) consume(n int) {
	r.pos += n
}

// skipTo repositions the reader at an absolute file offset.
func (r *binReader) skipTo(offset int64) {
	if offset >= r.bufStart && offset <= r.bufStart+int64(r.bufLen) {
		r.pos = int(offset - r.bufStart)
		return
	}
	r.bufStart = offset
	r.bufLen = 0
	r.pos = 0
}

func (r *binReader) grow(n int) {
	size := len(r.buf)
	if size == 0 {
		size = defaultBufferSize
	}
	for size < n {
		size *= 2
	}
	buf := make([]byte, size)
	copy(buf, r.buf[:r.bufLen])
	r.buf = buf
}

// fill reads until the buffer holds at least n bytes from bufStart. In live
// mode a shortfall re-examines the file every poll interval until the bytes
// arrive or the wall-clock timeout expires.
func (r *binReader) fill(n int) error {
	deadline := time.Now().Add(r.timeout)
	for r.bufLen < n {
		m, err := r.file.ReadAt(r.buf[r.bufLen:], r.bufStart+int64(r.bufLen))
		r.bufLen += m
		if r.bufLen >= n {
			return nil
		}
		if err == nil {
			continue
		}
		if err != io.EOF {
			return &ErrReadFile{Filename: r.filename, Offset: r.bufStart + int64(r.bufLen), Err: err}
		}
		if !r.live {
			return &ErrReadFile{Filename: r.filename, Offset: r.bufStart + int64(r.bufLen), Err: io.ErrUnexpectedEOF}
		}
		// On EOF the window ends at the current on-disk size, so a request
		// reaching past expectedSize can never be satisfied.
		if r.expectedSize > 0 && r.bufStart+int64(n) > r.expectedSize {
			return &ErrReadFile{Filename: r.filename, Offset: r.bufStart + int64(r.bufLen), Err: io.ErrUnexpectedEOF}
		}
		if time.Now().After(deadline) {
			return &ErrTimeout{Filename: r.filename, Waited: r.timeout}
		}
		time.Sleep(pollInterval())
	}
	return nil
}

func (r *binReader) close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	r.buf = nil
	r.bufLen = 0
	if err != nil {
		return fmt.Errorf("error closing file %q: %w", r.filename, err)
	}
	return nil
}
