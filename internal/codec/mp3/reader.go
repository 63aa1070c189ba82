package mp3

import (
	"errors"
	"io"
)

const (
	// DefaultBufSize is the initial bitstream window.
	DefaultBufSize = 16 * 1024
	// MaxBufSize caps buffer growth; a stream that yields no frame
	// within this window is unrecoverable.
	MaxBufSize = 2 * 1024 * 1024
)

// ErrFrameTooLarge means the buffer hit its ceiling without the
// decoder finding a frame boundary.
var ErrFrameTooLarge = errors.New("mp3: no frame within maximum buffer")

// Reader feeds a FrameDecoder from a bitstream source through a
// growable buffer. Consumed bytes are compacted to the front before
// each refill; when the decoder cannot find a complete frame in a full
// window the buffer doubles, up to MaxBufSize.
type Reader struct {
	src      io.Reader
	dec      FrameDecoder
	buf      []byte
	filled   int
	consumed int
	max      int
	srcEOF   bool
}

// NewReader wraps src. bufSize and maxSize fall back to the package
// defaults when zero.
func NewReader(src io.Reader, dec FrameDecoder, bufSize, maxSize int) *Reader {
	if bufSize <= 0 {
		bufSize = DefaultBufSize
	}
	if maxSize <= 0 {
		maxSize = MaxBufSize
	}
	if bufSize > maxSize {
		bufSize = maxSize
	}
	return &Reader{src: src, dec: dec, buf: make([]byte, bufSize), max: maxSize}
}

// NextFrame decodes the next frame. A frame with no PCM and no
// consumed bytes means the buffer just grew; the caller simply calls
// again. io.EOF once the source and the buffer are both exhausted.
func (r *Reader) NextFrame() (Frame, error) {
	// Compact: drop the previously consumed prefix.
	if r.consumed > 0 {
		r.filled -= r.consumed
		if r.filled > 0 {
			copy(r.buf, r.buf[r.consumed:r.consumed+r.filled])
		}
		r.consumed = 0
	}

	// Top up from the source.
	if !r.srcEOF && r.filled < len(r.buf) {
		n, err := r.src.Read(r.buf[r.filled:])
		r.filled += n
		if errors.Is(err, io.EOF) {
			r.srcEOF = true
		} else if err != nil {
			return Frame{}, err
		}
	}

	if r.filled == 0 {
		return Frame{}, io.EOF
	}

	f, err := r.dec.DecodeFrame(r.buf[:r.filled])
	if err != nil {
		return Frame{}, err
	}
	if f.BytesConsumed == 0 {
		if r.srcEOF {
			// Only trailing garbage left; nothing more will arrive.
			return Frame{}, io.EOF
		}
		if len(r.buf) >= r.max {
			return Frame{}, ErrFrameTooLarge
		}
		grown := min(len(r.buf)*2, r.max)
		next := make([]byte, grown)
		copy(next, r.buf[:r.filled])
		r.buf = next
		return Frame{}, nil
	}

	r.consumed = f.BytesConsumed
	return f, nil
}

// Discard drops all buffered bytes and resets the decoder, for use
// after the source has been repositioned.
func (r *Reader) Discard() {
	r.filled = 0
	r.consumed = 0
	r.srcEOF = false
	r.dec.Reset()
}

// BufSize returns the current buffer capacity.
func (r *Reader) BufSize() int { return len(r.buf) }
