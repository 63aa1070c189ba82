package mp3

import (
	"encoding/binary"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

// Frame is the result of one decode attempt. BytesConsumed == 0 means
// the source window does not yet hold a complete frame and the caller
// should supply more data. PCM may be empty even when bytes were
// consumed (decoder delay, metadata-only regions).
type Frame struct {
	PCM           []int16
	BytesConsumed int
	SampleRate    int
	Channels      int
	BitrateKbps   int
}

// FrameDecoder turns buffered MP3 bitstream bytes into PCM one frame
// at a time. Implementations carry synthesis state across calls; Reset
// discards it so decoding can resynchronize from an arbitrary byte
// boundary after a seek.
type FrameDecoder interface {
	DecodeFrame(src []byte) (Frame, error)
	Reset()
	Close() error
}

// Decoder is the production FrameDecoder. It locates frame boundaries
// and metadata with the header scanner and hands the frame bytes to
// go-mp3 for synthesis, running the synthesizer behind a pipe so that
// this side never blocks. Synthesized audio can trail the frame that
// produced it by a call or two; callers already tolerate frames that
// consume bytes without producing samples.
type Decoder struct {
	pw      *io.PipeWriter
	pcm     chan []int16
	skipTag int // remaining ID3v2 bytes to swallow
}

// NewDecoder starts a synthesis pipeline and returns the decoder.
func NewDecoder() *Decoder {
	d := &Decoder{}
	d.start()
	return d
}

func (d *Decoder) start() {
	pr, pw := io.Pipe()
	d.pw = pw
	d.pcm = make(chan []int16, 64)
	go synthesize(pr, d.pcm)
}

// synthesize streams pipe bytes through go-mp3 and parcels the output
// into roughly frame-sized PCM chunks.
func synthesize(pr *io.PipeReader, pcm chan<- []int16) {
	defer close(pcm)
	dec, err := gomp3.NewDecoder(pr)
	if err != nil {
		pr.CloseWithError(err)
		return
	}
	// go-mp3 always emits 16-bit stereo; 4608 bytes is one full MPEG1
	// frame at that layout.
	buf := make([]byte, 4608)
	for {
		n, err := io.ReadFull(dec, buf)
		if n > 1 {
			out := make([]int16, n/2)
			for i := range out {
				out[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
			}
			pcm <- out
		}
		if err != nil {
			return
		}
	}
}

// DecodeFrame scans src for the next frame, feeds it to the
// synthesizer, and returns whatever PCM is ready.
func (d *Decoder) DecodeFrame(src []byte) (Frame, error) {
	var f Frame

	// Swallow the remainder of an oversized ID3v2 tag first.
	if d.skipTag > 0 {
		n := min(d.skipTag, len(src))
		d.skipTag -= n
		f.BytesConsumed = n
		return f, nil
	}
	if n := id3v2Size(src); n > 0 {
		if n > len(src) {
			d.skipTag = n - len(src)
			n = len(src)
		}
		f.BytesConsumed = n
		return f, nil
	}

	off, h, ok := findFrame(src)
	if !ok || off+h.frameBytes > len(src) {
		return f, nil // incomplete frame, need more data
	}

	// A write error means the synthesizer gave up on the stream; the
	// frame is still consumed so playback can keep scanning forward.
	d.pw.Write(src[off : off+h.frameBytes]) //nolint:errcheck

	f.BytesConsumed = off + h.frameBytes
	f.SampleRate = h.sampleRate
	f.Channels = h.channels
	f.BitrateKbps = h.bitrateKbps

	select {
	case out, open := <-d.pcm:
		if open {
			f.PCM = out
			// go-mp3 upmixes mono internally, so the PCM here is
			// always interleaved stereo regardless of the header.
			f.Channels = 2
		}
	default:
		// Synthesizer has nothing ready yet.
	}
	return f, nil
}

// Reset tears the synthesis pipeline down and starts a fresh one, so
// frame parsing can resync after the source has been repositioned.
func (d *Decoder) Reset() {
	d.teardown()
	d.skipTag = 0
	d.start()
}

// Close stops the synthesis pipeline.
func (d *Decoder) Close() error {
	d.teardown()
	return nil
}

func (d *Decoder) teardown() {
	d.pw.CloseWithError(io.ErrClosedPipe)
	// Unblock and drain the synthesizer until it exits.
	for range d.pcm {
	}
}
