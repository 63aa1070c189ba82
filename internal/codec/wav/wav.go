// Package wav reads the PCM payload of RIFF/WAVE containers.
//
// Only uncompressed 16-bit PCM is supported; everything else is
// rejected up front so playback never starts on a stream the output
// pipeline cannot represent.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrUnsupportedFormat marks a well-formed WAV whose codec or bit
	// depth the player does not handle.
	ErrUnsupportedFormat = errors.New("wav: unsupported format")
	// ErrMalformedFile marks a file that is not a valid RIFF/WAVE
	// container or lacks a data chunk.
	ErrMalformedFile = errors.New("wav: malformed file")
)

// headerSize covers the conventional RIFF + fmt + data chunk headers.
const headerSize = 44

// Reader exposes the data chunk of an open WAV file as a bounded
// window of raw sample bytes.
type Reader struct {
	f          *os.File
	rate       int
	channels   int
	dataOffset int64
	dataSize   int64
}

// NewReader validates the container and positions the file cursor at
// the start of the data chunk.
func NewReader(f *os.File) (*Reader, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: short header", ErrMalformedFile)
	}
	if string(hdr[0:4]) != "RIFF" || string(hdr[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE container", ErrMalformedFile)
	}
	if string(hdr[12:16]) != "fmt " {
		return nil, fmt.Errorf("%w: fmt chunk not found", ErrMalformedFile)
	}
	if codec := binary.LittleEndian.Uint16(hdr[20:22]); codec != 1 {
		return nil, fmt.Errorf("%w: codec %d, PCM only", ErrUnsupportedFormat, codec)
	}
	if bits := binary.LittleEndian.Uint16(hdr[34:36]); bits != 16 {
		return nil, fmt.Errorf("%w: %d-bit samples, 16-bit only", ErrUnsupportedFormat, bits)
	}

	r := &Reader{
		f:        f,
		channels: int(binary.LittleEndian.Uint16(hdr[22:24])),
		rate:     int(binary.LittleEndian.Uint32(hdr[24:28])),
	}
	if r.channels <= 0 || r.rate <= 0 {
		return nil, fmt.Errorf("%w: zero rate or channel count", ErrMalformedFile)
	}

	if string(hdr[36:40]) == "data" {
		r.dataOffset = headerSize
		r.dataSize = int64(binary.LittleEndian.Uint32(hdr[40:44]))
	} else {
		// Extra chunks before data (LIST, fact, ...): walk the
		// tag/length pairs until the data chunk turns up.
		off, size, err := scanForData(f)
		if err != nil {
			return nil, err
		}
		r.dataOffset, r.dataSize = off, size
	}

	if _, err := f.Seek(r.dataOffset, io.SeekStart); err != nil {
		return nil, err
	}
	return r, nil
}

// scanForData walks chunk headers from just past the RIFF preamble and
// returns the offset and length of the data chunk.
func scanForData(f *os.File) (int64, int64, error) {
	if _, err := f.Seek(12, io.SeekStart); err != nil {
		return 0, 0, err
	}
	var chunk [8]byte
	for {
		if _, err := io.ReadFull(f, chunk[:]); err != nil {
			return 0, 0, fmt.Errorf("%w: data chunk not found", ErrMalformedFile)
		}
		size := int64(binary.LittleEndian.Uint32(chunk[4:8]))
		if string(chunk[0:4]) == "data" {
			off, err := f.Seek(0, io.SeekCurrent)
			if err != nil {
				return 0, 0, err
			}
			return off, size, nil
		}
		if _, err := f.Seek(size, io.SeekCurrent); err != nil {
			return 0, 0, fmt.Errorf("%w: data chunk not found", ErrMalformedFile)
		}
	}
}

// Rate returns the sample rate in Hz.
func (r *Reader) Rate() int { return r.rate }

// Channels returns the channel count.
func (r *Reader) Channels() int { return r.channels }

// DataOffset returns the file offset of the first data byte.
func (r *Reader) DataOffset() int64 { return r.dataOffset }

// DataSize returns the data chunk length in bytes.
func (r *Reader) DataSize() int64 { return r.dataSize }

// Duration returns the track length in whole seconds.
func (r *Reader) Duration() int {
	bps := int64(r.rate * r.channels * 2)
	if bps <= 0 {
		return 0
	}
	return int(r.dataSize / bps)
}

// ReadChunk fills buf with up to len(buf) bytes, clamped to what
// remains of the data window. io.EOF once the window is exhausted.
func (r *Reader) ReadChunk(buf []byte) (int, error) {
	rem, err := r.remaining()
	if err != nil {
		return 0, err
	}
	if rem <= 0 {
		return 0, io.EOF
	}
	if int64(len(buf)) > rem {
		buf = buf[:rem]
	}
	n, err := r.f.Read(buf)
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, err
	}
	return n, nil
}

// Progress reports how far the cursor is through the data window, in
// [0,1].
func (r *Reader) Progress() float64 {
	if r.dataSize <= 0 {
		return 0
	}
	pos, err := r.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0
	}
	p := float64(pos-r.dataOffset) / float64(r.dataSize)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// SeekSeconds repositions the cursor to the exact byte offset for sec,
// clamped to the data window.
func (r *Reader) SeekSeconds(sec int) error {
	if sec < 0 {
		sec = 0
	}
	off := int64(sec) * int64(r.rate*r.channels*2)
	if off > r.dataSize {
		off = r.dataSize
	}
	_, err := r.f.Seek(r.dataOffset+off, io.SeekStart)
	return err
}

func (r *Reader) remaining() (int64, error) {
	pos, err := r.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	return r.dataOffset + r.dataSize - pos, nil
}
