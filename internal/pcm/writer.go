package pcm

import (
	"encoding/binary"
	"io"
)

const (
	// OutputRate and OutputChannels describe the nominal emitted stream:
	// 44.1 kHz interleaved stereo S16LE.
	OutputRate     = 44100
	OutputChannels = 2
)

// Writer reconciles decoded audio toward the nominal output format and
// emits it as interleaved S16LE bytes with volume applied.
//
// Policy per decoded unit: 44.1 kHz stereo passes through; mono is
// duplicated to both channels; 22050 Hz frames are emitted twice and
// 11025 Hz frames four times; any other combination passes through
// unchanged as a best-effort fallback.
type Writer struct {
	w   io.Writer
	vol *Volume

	scratch []int16
	bytes   []byte
}

// NewWriter returns a Writer emitting to w with gain from vol.
func NewWriter(w io.Writer, vol *Volume) *Writer {
	return &Writer{w: w, vol: vol}
}

// WriteFrames emits one decoded unit. samples is interleaved with the
// given channel count; it may be scaled in place on the passthrough
// path. Returns the number of sample frames emitted at the output rate.
func (w *Writer) WriteFrames(samples []int16, channels, rate int) (int, error) {
	if channels <= 0 {
		channels = OutputChannels
	}
	frames := len(samples) / channels

	switch {
	case rate == OutputRate && channels == OutputChannels:
		w.vol.Apply(samples)
		return frames, w.emit(samples)

	case rate == 22050 || rate == 11025:
		dup := 2
		if rate == 11025 {
			dup = 4
		}
		out := w.grow(frames * dup * OutputChannels)
		n := 0
		for i := 0; i < frames; i++ {
			var l, r int16
			if channels >= 2 {
				l, r = samples[i*channels], samples[i*channels+1]
			} else {
				l, r = samples[i], samples[i]
			}
			for j := 0; j < dup; j++ {
				out[n] = l
				out[n+1] = r
				n += 2
			}
		}
		w.vol.Apply(out)
		return n / OutputChannels, w.emit(out)

	case channels == 1:
		out := w.grow(frames * OutputChannels)
		for i, s := range samples {
			out[i*2] = s
			out[i*2+1] = s
		}
		w.vol.Apply(out)
		return frames, w.emit(out)

	default:
		// Unhandled rate/channel combination: pass through as-is.
		w.vol.Apply(samples)
		return frames, w.emit(samples)
	}
}

func (w *Writer) grow(n int) []int16 {
	if cap(w.scratch) < n {
		w.scratch = make([]int16, n)
	}
	return w.scratch[:n]
}

func (w *Writer) emit(samples []int16) error {
	n := len(samples) * 2
	if cap(w.bytes) < n {
		w.bytes = make([]byte, n)
	}
	b := w.bytes[:n]
	for i, s := range samples {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(s))
	}
	_, err := w.w.Write(b)
	return err
}
